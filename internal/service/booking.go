package service

import (
	"context"
	"fmt"
	"time"

	"mello-core/api"
	"mello-core/internal/lock"
	"mello-core/internal/models"
	"mello-core/pkg/response"
)

const defaultGranularityMinutes = 60

// ListCounselors returns all approved counselors.
func (s *Service) ListCounselors(ctx context.Context) ([]*api.CounselorResponse, error) {
	const op = "service.ListCounselors"

	counselors, err := s.store.ListApprovedCounselors(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result := make([]*api.CounselorResponse, 0, len(counselors))
	for _, c := range counselors {
		result = append(result, &api.CounselorResponse{
			ID:             c.ID,
			Name:           c.Name,
			Specialization: c.Specialization,
			WorkHoursStart: c.WorkHoursStart,
			WorkHoursEnd:   c.WorkHoursEnd,
		})
	}

	return result, nil
}

// AvailableSlots computes the counselor's free slot starts for the next
// days calendar days: granularity-aligned times inside working hours,
// strictly in the future, minus slots held by active bookings. The
// result is chronological and duplicate-free. A slot returned here may
// still lose a race with a concurrent booking; CreateBooking's conflict
// answer is authoritative.
func (s *Service) AvailableSlots(ctx context.Context, counselorID string, days int) (*api.SlotsResponse, error) {
	const op = "service.AvailableSlots"

	if days <= 0 {
		days = s.cfg.DefaultSlotDays
	}

	counselor, err := s.approvedCounselor(ctx, counselorID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	granularity := slotGranularity(counselor)
	now := s.now()
	loc := now.Location()

	lastDay := now.AddDate(0, 0, days-1)
	windowEnd := time.Date(lastDay.Year(), lastDay.Month(), lastDay.Day(), counselor.WorkHoursEnd, 0, 0, 0, loc)

	booked, err := s.store.ListActiveSlotStarts(ctx, counselorID, now, windowEnd)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	taken := make(map[int64]struct{}, len(booked))
	for _, t := range booked {
		taken[t.Unix()] = struct{}{}
	}

	slots := []time.Time{}
	for day := 0; day < days; day++ {
		d := now.AddDate(0, 0, day)
		dayStart := time.Date(d.Year(), d.Month(), d.Day(), counselor.WorkHoursStart, 0, 0, 0, loc)
		dayEnd := time.Date(d.Year(), d.Month(), d.Day(), counselor.WorkHoursEnd, 0, 0, 0, loc)

		for cur := dayStart; !cur.Add(granularity).After(dayEnd); cur = cur.Add(granularity) {
			if !cur.After(now) {
				continue
			}
			if _, ok := taken[cur.Unix()]; ok {
				continue
			}
			slots = append(slots, cur)
		}
	}

	return &api.SlotsResponse{
		CounselorID:    counselorID,
		AvailableSlots: slots,
	}, nil
}

// CreateBooking claims a slot for a subject. The redis lock narrows the
// race window across instances; the store's atomic check-and-insert is
// what actually guarantees a single winner per (counselor, slotStart).
func (s *Service) CreateBooking(ctx context.Context, req *api.BookingRequest) (*api.BookingResponse, error) {
	const op = "service.CreateBooking"

	if req.SubjectID == "" {
		return nil, fmt.Errorf("%s: subject_id is required: %w", op, response.ErrValidation)
	}
	if req.CounselorID == "" {
		return nil, fmt.Errorf("%s: counselor_id is required: %w", op, response.ErrValidation)
	}

	urgency, err := parseUrgency(req.Urgency)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	counselor, err := s.approvedCounselor(ctx, req.CounselorID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.validateSlotStart(counselor, req.SlotStart); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	lockKey := lock.SlotKey(req.CounselorID, req.SlotStart)

	locked, err := s.locker.Lock(ctx, lockKey, s.cfg.BookingLockTTL)
	if err != nil {
		return nil, fmt.Errorf("%s: lock error: %w", op, err)
	}
	if !locked {
		return nil, fmt.Errorf("%s: %w", op, response.ErrLocked)
	}
	defer func() {
		_ = s.locker.Unlock(ctx, lockKey)
	}()

	booking := &models.Booking{
		SubjectID:   req.SubjectID,
		CounselorID: req.CounselorID,
		SlotStart:   req.SlotStart,
		Status:      models.BookingPending,
		Urgency:     urgency,
		Description: req.Description,
		CreatedAt:   s.now().UTC(),
	}

	created, err := s.store.CreateBooking(ctx, booking)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return bookingToAPI(created), nil
}

// GetBooking returns one booking by id.
func (s *Service) GetBooking(ctx context.Context, id string) (*api.BookingResponse, error) {
	const op = "service.GetBooking"

	booking, err := s.store.GetBooking(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return bookingToAPI(booking), nil
}

// ListBookings returns all bookings of a subject, including terminal ones.
func (s *Service) ListBookings(ctx context.Context, subjectID string) ([]*api.BookingResponse, error) {
	const op = "service.ListBookings"

	if subjectID == "" {
		return nil, fmt.Errorf("%s: subject_id is required: %w", op, response.ErrValidation)
	}

	bookings, err := s.store.ListBookingsBySubject(ctx, subjectID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result := make([]*api.BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		result = append(result, bookingToAPI(b))
	}

	return result, nil
}

var allowedTransitions = map[models.BookingStatus][]models.BookingStatus{
	models.BookingPending:   {models.BookingConfirmed, models.BookingCancelled},
	models.BookingConfirmed: {models.BookingCompleted, models.BookingCancelled},
}

// TransitionBooking moves a booking along its status lifecycle.
// Cancellation is a status, never a delete; completed and cancelled are
// terminal. The status update is a compare-and-set so two racing
// transitions cannot both win.
func (s *Service) TransitionBooking(ctx context.Context, bookingID, newStatus string, actor models.Actor) (*api.BookingResponse, error) {
	const op = "service.TransitionBooking"

	target := models.BookingStatus(newStatus)
	switch target {
	case models.BookingPending, models.BookingConfirmed, models.BookingCompleted, models.BookingCancelled:
	default:
		return nil, fmt.Errorf("%s: unknown status %q: %w", op, newStatus, response.ErrValidation)
	}

	booking, err := s.store.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if !actorMayTransition(actor, booking) {
		return nil, fmt.Errorf("%s: %w", op, response.ErrForbidden)
	}

	if !transitionAllowed(booking.Status, target) {
		return nil, fmt.Errorf("%s: %s -> %s: %w", op, booking.Status, target, response.ErrInvalidTransition)
	}

	if err := s.store.UpdateBookingStatus(ctx, bookingID, booking.Status, target); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	updated, err := s.store.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return bookingToAPI(updated), nil
}

func actorMayTransition(actor models.Actor, booking *models.Booking) bool {
	if actor.Role == models.RoleAdmin {
		return true
	}
	return actor.ID != "" && (actor.ID == booking.SubjectID || actor.ID == booking.CounselorID)
}

func transitionAllowed(from, to models.BookingStatus) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func (s *Service) approvedCounselor(ctx context.Context, id string) (*models.Counselor, error) {
	counselor, err := s.store.GetCounselor(ctx, id)
	if err != nil {
		return nil, err
	}
	if !counselor.Approved {
		return nil, fmt.Errorf("counselor %s is not approved: %w", id, response.ErrNotFound)
	}
	return counselor, nil
}

func (s *Service) validateSlotStart(counselor *models.Counselor, slotStart time.Time) error {
	if slotStart.IsZero() {
		return fmt.Errorf("slot_start is required: %w", response.ErrValidation)
	}

	now := s.now()
	if !slotStart.After(now) {
		return fmt.Errorf("slot_start must be in the future: %w", response.ErrValidation)
	}

	granularity := slotGranularity(counselor)
	loc := slotStart.Location()

	dayStart := time.Date(slotStart.Year(), slotStart.Month(), slotStart.Day(), counselor.WorkHoursStart, 0, 0, 0, loc)
	dayEnd := time.Date(slotStart.Year(), slotStart.Month(), slotStart.Day(), counselor.WorkHoursEnd, 0, 0, 0, loc)

	offset := slotStart.Sub(dayStart)
	if offset < 0 || slotStart.Add(granularity).After(dayEnd) {
		return fmt.Errorf("slot_start is outside working hours: %w", response.ErrValidation)
	}
	if offset%granularity != 0 {
		return fmt.Errorf("slot_start is not aligned to the %s granularity: %w", granularity, response.ErrValidation)
	}

	lastDay := now.AddDate(0, 0, s.cfg.DefaultSlotDays-1)
	windowEnd := time.Date(lastDay.Year(), lastDay.Month(), lastDay.Day(), counselor.WorkHoursEnd, 0, 0, 0, now.Location())
	if slotStart.After(windowEnd) {
		return fmt.Errorf("slot_start is outside the %d-day booking window: %w", s.cfg.DefaultSlotDays, response.ErrValidation)
	}

	return nil
}

func slotGranularity(counselor *models.Counselor) time.Duration {
	minutes := counselor.SlotGranularityMinutes
	if minutes <= 0 {
		minutes = defaultGranularityMinutes
	}
	return time.Duration(minutes) * time.Minute
}

func parseUrgency(s string) (models.Urgency, error) {
	switch models.Urgency(s) {
	case models.UrgencyLow, models.UrgencyMedium, models.UrgencyHigh:
		return models.Urgency(s), nil
	case "":
		return models.UrgencyMedium, nil
	default:
		return "", fmt.Errorf("unknown urgency %q: %w", s, response.ErrValidation)
	}
}

func bookingToAPI(b *models.Booking) *api.BookingResponse {
	return &api.BookingResponse{
		ID:          b.ID,
		SubjectID:   b.SubjectID,
		CounselorID: b.CounselorID,
		SlotStart:   b.SlotStart,
		Status:      string(b.Status),
		Urgency:     string(b.Urgency),
		Description: b.Description,
		CreatedAt:   b.CreatedAt,
	}
}
