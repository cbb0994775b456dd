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

type SlotLister interface {
	AvailableSlots(ctx context.Context, counselorID string, days int) (*api.SlotsResponse, error)
}

type Response struct {
	response.Response
	Slots *api.SlotsResponse `json:"slots,omitempty"`
}

func New(log *slog.Logger, lister SlotLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.slots.get.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		counselorID := chi.URLParam(r, "id")
		if counselorID == "" {
			log.Error("counselor id is empty")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "counselor id is required"))
			return
		}

		days := 0
		if daysStr := r.URL.Query().Get("days"); daysStr != "" {
			parsed, err := strconv.Atoi(daysStr)
			if err != nil || parsed <= 0 {
				log.Error("invalid days parameter", slog.String("days", daysStr))
				w.WriteHeader(http.StatusBadRequest)
				render.JSON(w, r, response.Error(string(response.VALIDATION), "days must be a positive integer"))
				return
			}
			days = parsed
		}

		slots, err := lister.AvailableSlots(r.Context(), counselorID, days)

		if errors.Is(err, response.ErrNotFound) {
			log.Error("counselor not found", slog.String("counselor_id", counselorID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(string(response.NOT_FOUND), "counselor not found or not approved"))
			return
		}

		if err != nil {
			log.Error("Failed to list slots", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to list slots"))
			return
		}

		log.Info("Slots retrieved",
			slog.String("counselor_id", counselorID),
			slog.Int("count", len(slots.AvailableSlots)),
		)

		render.JSON(w, r, Response{
			Slots: slots,
		})
	}
}
