package service

import (
	"context"
	"time"

	"mello-core/internal/config"
	"mello-core/internal/lock"
	"mello-core/internal/models"
	"mello-core/internal/triage"
)

// Service owns the decision logic of the triage and scheduling core.
// It holds no mutable state between calls; every scheduling decision
// re-reads current bookings through the store.
type Service struct {
	store   Store
	locker  lock.Locker
	replier triage.Replier
	cfg     config.Scheduling
	now     func() time.Time
}

func NewService(store Store, locker lock.Locker, replier triage.Replier, cfg config.Scheduling) *Service {
	if cfg.BookingLockTTL <= 0 {
		cfg.BookingLockTTL = 10 * time.Second
	}
	if cfg.DefaultSlotDays <= 0 {
		cfg.DefaultSlotDays = 7
	}

	return &Service{
		store:   store,
		locker:  locker,
		replier: replier,
		cfg:     cfg,
		now:     time.Now,
	}
}

// Store is the persistence contract the core consumes. Durability and
// the booking uniqueness constraint belong to the implementation; the
// core owns computation and transition rules.
type Store interface {
	// Counselors
	GetCounselor(ctx context.Context, id string) (*models.Counselor, error)
	ListApprovedCounselors(ctx context.Context) ([]*models.Counselor, error)

	// Bookings. CreateBooking must be an atomic check-and-insert: of N
	// concurrent calls for the same (counselor, slotStart) pair exactly
	// one succeeds and the rest return response.ErrConflict.
	CreateBooking(ctx context.Context, booking *models.Booking) (*models.Booking, error)
	GetBooking(ctx context.Context, id string) (*models.Booking, error)
	ListBookingsBySubject(ctx context.Context, subjectID string) ([]*models.Booking, error)
	ListActiveSlotStarts(ctx context.Context, counselorID string, from, to time.Time) ([]time.Time, error)
	// UpdateBookingStatus is a compare-and-set: it fails with
	// response.ErrConflict when the stored status no longer matches from.
	UpdateBookingStatus(ctx context.Context, id string, from, to models.BookingStatus) error

	// Assessments
	SaveAssessment(ctx context.Context, result *models.AssessmentResult) (*models.AssessmentResult, error)
	ListAssessments(ctx context.Context, subjectID string, since time.Time) ([]*models.AssessmentResult, error)

	// Chat
	SaveChatExchange(ctx context.Context, exchange *models.ChatExchange) error

	// Mood. SaveMoodEntry fails with response.ErrConflict when the
	// subject already has an entry for the same calendar day.
	SaveMoodEntry(ctx context.Context, entry *models.MoodEntry) (*models.MoodEntry, error)
	ListMoodEntries(ctx context.Context, subjectID string, since time.Time) ([]*models.MoodEntry, error)
}
