package history

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"mello-core/api"
	"mello-core/pkg/response"
	"mello-core/pkg/sl"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

type HistoryGetter interface {
	AssessmentHistory(ctx context.Context, subjectID string) (*api.AssessmentHistoryResponse, error)
}

type Response struct {
	response.Response
	History *api.AssessmentHistoryResponse `json:"history,omitempty"`
}

func New(log *slog.Logger, getter HistoryGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.assessments.history.New"

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

		history, err := getter.AssessmentHistory(r.Context(), subjectID)

		if errors.Is(err, response.ErrValidation) {
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.VALIDATION), "invalid subject_id"))
			return
		}

		if err != nil {
			log.Error("Failed to get assessment history", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to get assessment history"))
			return
		}

		log.Info("Assessment history retrieved",
			slog.String("subject_id", subjectID),
			slog.Int("count", len(history.Assessments)),
		)

		render.JSON(w, r, Response{
			History: history,
		})
	}
}
