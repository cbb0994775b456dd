package submit

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

type AssessmentSubmitter interface {
	SubmitAssessment(ctx context.Context, req *api.AssessmentSubmitRequest) (*api.AssessmentResultResponse, error)
}

type Request struct {
	api.AssessmentSubmitRequest
}

type Response struct {
	response.Response
	Result api.AssessmentResultResponse `json:"result,omitempty"`
}

func New(log *slog.Logger, submitter AssessmentSubmitter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.assessments.submit.New"

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

		log.Info("Request body decoded", slog.String("instrument", req.Instrument))

		result, err := submitter.SubmitAssessment(r.Context(), &req.AssessmentSubmitRequest)

		if errors.Is(err, response.ErrValidation) {
			log.Error("Invalid submission", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.VALIDATION), "invalid assessment submission"))
			return
		}

		if err != nil {
			log.Error("Failed to submit assessment", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to submit assessment"))
			return
		}

		log.Info("Assessment scored",
			slog.String("subject_id", result.SubjectID),
			slog.Int("score", result.Score),
			slog.String("severity", result.Severity),
		)

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, Response{
			Result: *result,
		})
	}
}
