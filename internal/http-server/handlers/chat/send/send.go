package send

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

type ChatTriager interface {
	Chat(ctx context.Context, req *api.ChatRequest) (*api.ChatResponse, error)
}

type Request struct {
	api.ChatRequest
}

type Response struct {
	response.Response
	Chat *api.ChatResponse `json:"chat,omitempty"`
}

func New(log *slog.Logger, triager ChatTriager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.chat.send.New"

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

		chat, err := triager.Chat(r.Context(), &req.ChatRequest)

		if errors.Is(err, response.ErrValidation) {
			log.Error("Invalid chat request", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.VALIDATION), "message is required"))
			return
		}

		if err != nil {
			log.Error("Failed to process chat", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to process chat"))
			return
		}

		log.Info("Chat triaged",
			slog.String("category", chat.Category),
			slog.Bool("escalate", chat.Escalate),
		)

		render.JSON(w, r, Response{
			Chat: chat,
		})
	}
}
