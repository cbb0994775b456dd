package transition

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"mello-core/api"
	"mello-core/internal/models"
	"mello-core/pkg/response"
	"mello-core/pkg/sl"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

type BookingTransitioner interface {
	TransitionBooking(ctx context.Context, bookingID, newStatus string, actor models.Actor) (*api.BookingResponse, error)
}

type Request struct {
	api.TransitionRequest
}

type Response struct {
	response.Response
	Booking api.BookingResponse `json:"booking,omitempty"`
}

func New(log *slog.Logger, transitioner BookingTransitioner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.bookings.transition.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		id := chi.URLParam(r, "id")
		if id == "" {
			log.Error("id is empty")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "id is required"))
			return
		}

		var req Request

		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.Error("Failed to decode request body", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "failed to decode request"))
			return
		}

		if req.ActorID == "" {
			log.Error("actor_id is empty")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "actor_id is required"))
			return
		}

		actor := models.Actor{
			ID:   req.ActorID,
			Role: models.Role(req.ActorRole),
		}

		booking, err := transitioner.TransitionBooking(r.Context(), id, req.NewStatus, actor)

		if errors.Is(err, response.ErrValidation) {
			log.Error("Invalid transition request", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.VALIDATION), "unknown booking status"))
			return
		}

		if errors.Is(err, response.ErrNotFound) {
			log.Error("booking not found", slog.String("booking_id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(string(response.NOT_FOUND), "booking not found"))
			return
		}

		if errors.Is(err, response.ErrForbidden) {
			log.Error("actor not allowed", slog.String("actor_id", req.ActorID))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error(string(response.FORBIDDEN), "not authorized to update this booking"))
			return
		}

		if errors.Is(err, response.ErrInvalidTransition) {
			log.Error("illegal status transition", sl.Err(err))
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error(string(response.INVALID_TRANSITION), "status transition is not allowed"))
			return
		}

		if errors.Is(err, response.ErrConflict) {
			log.Error("transition lost a race", sl.Err(err))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error(string(response.CONFLICT), "booking status changed concurrently"))
			return
		}

		if err != nil {
			log.Error("Failed to transition booking", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to transition booking"))
			return
		}

		log.Info("Booking transitioned",
			slog.String("booking_id", booking.ID),
			slog.String("status", booking.Status),
		)

		render.JSON(w, r, Response{
			Booking: *booking,
		})
	}
}
