package get

import (
	"context"
	"log/slog"
	"net/http"

	"mello-core/api"
	"mello-core/pkg/response"
	"mello-core/pkg/sl"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
)

type CounselorLister interface {
	ListCounselors(ctx context.Context) ([]*api.CounselorResponse, error)
}

type Response struct {
	response.Response
	Counselors []api.CounselorResponse `json:"counselors"`
}

func New(log *slog.Logger, lister CounselorLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.counselors.get.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		counselors, err := lister.ListCounselors(r.Context())
		if err != nil {
			log.Error("Failed to list counselors", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to list counselors"))
			return
		}

		log.Info("Counselors retrieved", slog.Int("count", len(counselors)))

		result := make([]api.CounselorResponse, len(counselors))
		for i, c := range counselors {
			result[i] = *c
		}

		render.JSON(w, r, Response{
			Counselors: result,
		})
	}
}
