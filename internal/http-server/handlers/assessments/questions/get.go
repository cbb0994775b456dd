package questions

import (
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

type QuestionnaireGetter interface {
	AssessmentQuestions(instrument string) (*api.QuestionnaireResponse, error)
}

type Response struct {
	response.Response
	Questionnaire *api.QuestionnaireResponse `json:"questionnaire,omitempty"`
}

func New(log *slog.Logger, getter QuestionnaireGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.assessments.questions.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		instrument := chi.URLParam(r, "instrument")
		if instrument == "" {
			log.Error("instrument is empty")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "instrument is required"))
			return
		}

		questionnaire, err := getter.AssessmentQuestions(instrument)

		if errors.Is(err, response.ErrNotFound) {
			log.Error("unknown instrument", slog.String("instrument", instrument))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(string(response.NOT_FOUND), "assessment type not found"))
			return
		}

		if err != nil {
			log.Error("Failed to get questionnaire", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to get questionnaire"))
			return
		}

		render.JSON(w, r, Response{
			Questionnaire: questionnaire,
		})
	}
}
