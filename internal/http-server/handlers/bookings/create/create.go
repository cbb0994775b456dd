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

type BookingCreator interface {
	CreateBooking(ctx context.Context, req *api.BookingRequest) (*api.BookingResponse, error)
}

type Request struct {
	api.BookingRequest
}

type Response struct {
	response.Response
	Booking api.BookingResponse `json:"booking,omitempty"`
}

func New(log *slog.Logger, creator BookingCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.bookings.create.New"

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

		log.Info("Request body decoded",
			slog.String("counselor_id", req.CounselorID),
			slog.Time("slot_start", req.SlotStart),
		)

		booking, err := creator.CreateBooking(r.Context(), &req.BookingRequest)

		if errors.Is(err, response.ErrValidation) {
			log.Error("Invalid booking request", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.VALIDATION), "invalid booking request"))
			return
		}

		if errors.Is(err, response.ErrNotFound) {
			log.Error("counselor not found")
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(string(response.NOT_FOUND), "counselor not found or not approved"))
			return
		}

		if errors.Is(err, response.ErrLocked) {
			log.Error("slot is locked")
			w.WriteHeader(http.StatusLocked)
			render.JSON(w, r, response.Error(string(response.LOCKED), "slot is being booked by someone else, refresh availability and retry"))
			return
		}

		if errors.Is(err, response.ErrConflict) {
			log.Error("slot already booked")
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error(string(response.CONFLICT), "slot is already booked, refresh availability and retry"))
			return
		}

		if err != nil {
			log.Error("Failed to create booking", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to create booking"))
			return
		}

		log.Info("Booking created",
			slog.String("booking_id", booking.ID),
			slog.String("urgency", booking.Urgency),
		)

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, Response{
			Booking: *booking,
		})
	}
}
