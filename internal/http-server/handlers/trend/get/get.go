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

type TrendGetter interface {
	Trend(ctx context.Context, subjectID string, windowDays int) (*api.TrendResponse, error)
}

type Response struct {
	response.Response
	Trend *api.TrendResponse `json:"trend,omitempty"`
}

func New(log *slog.Logger, getter TrendGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.trend.get.New"

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

		windowDays := 0
		if daysStr := r.URL.Query().Get("days"); daysStr != "" {
			parsed, err := strconv.Atoi(daysStr)
			if err != nil || parsed <= 0 {
				w.WriteHeader(http.StatusBadRequest)
				render.JSON(w, r, response.Error(string(response.VALIDATION), "days must be a positive integer"))
				return
			}
			windowDays = parsed
		}

		trend, err := getter.Trend(r.Context(), subjectID, windowDays)

		if errors.Is(err, response.ErrValidation) {
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.VALIDATION), "invalid subject_id"))
			return
		}

		if err != nil {
			log.Error("Failed to compute trend", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to compute trend"))
			return
		}

		log.Info("Trend computed",
			slog.String("subject_id", subjectID),
			slog.String("direction", trend.Direction),
		)

		render.JSON(w, r, Response{Trend: trend})
	}
}
