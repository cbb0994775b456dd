package get

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

type BookingGetter interface {
	GetBooking(ctx context.Context, id string) (*api.BookingResponse, error)
	ListBookings(ctx context.Context, subjectID string) ([]*api.BookingResponse, error)
}

type Response struct {
	response.Response
	Booking  *api.BookingResponse  `json:"booking,omitempty"`
	Bookings []api.BookingResponse `json:"bookings,omitempty"`
}

func New(log *slog.Logger, getter BookingGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.bookings.get.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		if id := chi.URLParam(r, "id"); id != "" {
			booking, err := getter.GetBooking(r.Context(), id)

			if errors.Is(err, response.ErrNotFound) {
				log.Error("booking not found", slog.String("booking_id", id))
				w.WriteHeader(http.StatusNotFound)
				render.JSON(w, r, response.Error(string(response.NOT_FOUND), "booking not found"))
				return
			}

			if err != nil {
				log.Error("Failed to get booking", sl.Err(err))
				w.WriteHeader(http.StatusInternalServerError)
				render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to get booking"))
				return
			}

			render.JSON(w, r, Response{Booking: booking})
			return
		}

		subjectID := r.URL.Query().Get("subject_id")
		if subjectID == "" {
			log.Error("subject_id is empty")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "subject_id is required"))
			return
		}

		bookings, err := getter.ListBookings(r.Context(), subjectID)
		if err != nil {
			log.Error("Failed to list bookings", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to list bookings"))
			return
		}

		log.Info("Bookings retrieved",
			slog.String("subject_id", subjectID),
			slog.Int("count", len(bookings)),
		)

		result := make([]api.BookingResponse, len(bookings))
		for i, b := range bookings {
			result[i] = *b
		}

		render.JSON(w, r, Response{Bookings: result})
	}
}
