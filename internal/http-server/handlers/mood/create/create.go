package create

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"mello-core/api"
	"mello-core/pkg/response"
	"mello-core/pkg/sl"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
)

type MoodRecorder interface {
	RecordMood(ctx context.Context, req *api.MoodEntryRequest) (*api.MoodEntryResponse, error)
}

type Request struct {
	api.MoodEntryRequest
}

type Response struct {
	response.Response
	Entry api.MoodEntryResponse `json:"entry,omitempty"`
}

func New(log *slog.Logger, recorder MoodRecorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.mood.create.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req Request

		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.Error("Failed to decode request body", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "failed to decode request"))
			return
		}

		entry, err := recorder.RecordMood(r.Context(), &req.MoodEntryRequest)

		if errors.Is(err, response.ErrValidation) {
			log.Error("Invalid mood entry", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.VALIDATION), "invalid mood entry"))
			return
		}

		if errors.Is(err, response.ErrConflict) {
			log.Error("mood entry for today already exists")
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error(string(response.CONFLICT), "mood entry for today already exists"))
			return
		}

		if err != nil {
			log.Error("Failed to record mood entry", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to record mood entry"))
			return
		}

		log.Info("Mood entry recorded",
			slog.String("subject_id", entry.SubjectID),
			slog.Int("mood_score", entry.MoodScore),
		)

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, Response{
			Entry: *entry,
		})
	}
}
