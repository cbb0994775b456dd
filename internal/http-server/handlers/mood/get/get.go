package get

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"mello-core/api"
	"mello-core/pkg/response"
	"mello-core/pkg/sl"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

type MoodHistoryGetter interface {
	MoodHistory(ctx context.Context, subjectID string, days int) ([]*api.MoodEntryResponse, error)
}

type Response struct {
	response.Response
	Entries []api.MoodEntryResponse `json:"entries"`
}

func New(log *slog.Logger, getter MoodHistoryGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.mood.get.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		subjectID := chi.URLParam(r, "subject_id")
		if subjectID == "" {
			log.Error("subject_id is empty")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "subject_id is required"))
			return
		}

		days := 0
		if daysStr := r.URL.Query().Get("days"); daysStr != "" {
			parsed, err := strconv.Atoi(daysStr)
			if err != nil || parsed <= 0 {
				w.WriteHeader(http.StatusBadRequest)
				render.JSON(w, r, response.Error(string(response.VALIDATION), "days must be a positive integer"))
				return
			}
			days = parsed
		}

		entries, err := getter.MoodHistory(r.Context(), subjectID, days)

		if errors.Is(err, response.ErrValidation) {
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.VALIDATION), "invalid subject_id"))
			return
		}

		if err != nil {
			log.Error("Failed to get mood history", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to get mood history"))
			return
		}

		log.Info("Mood history retrieved",
			slog.String("subject_id", subjectID),
			slog.Int("count", len(entries)),
		)

		result := make([]api.MoodEntryResponse, len(entries))
		for i, e := range entries {
			result[i] = *e
		}

		render.JSON(w, r, Response{Entries: result})
	}
}
