package models

import "time"

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
)

// IsActive reports whether the booking still occupies its slot.
func (s BookingStatus) IsActive() bool {
	return s == BookingPending || s == BookingConfirmed
}

// IsTerminal reports whether no further transitions are allowed.
func (s BookingStatus) IsTerminal() bool {
	return s == BookingCompleted || s == BookingCancelled
}

type Urgency string

const (
	UrgencyLow    Urgency = "low"
	UrgencyMedium Urgency = "medium"
	UrgencyHigh   Urgency = "high"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleCounselor Role = "counselor"
	RoleAdmin     Role = "admin"
)

// Actor identifies who is requesting a state change. Threaded explicitly
// through service calls, never taken from ambient request context.
type Actor struct {
	ID   string
	Role Role
}

type Counselor struct {
	ID                     string `db:"counselor_id"`
	Name                   string `db:"name"`
	Specialization         string `db:"specialization"`
	Approved               bool   `db:"approved"`
	WorkHoursStart         int    `db:"work_hours_start"`
	WorkHoursEnd           int    `db:"work_hours_end"`
	SlotGranularityMinutes int    `db:"slot_granularity_minutes"`
}

type Booking struct {
	ID          string        `db:"booking_id"`
	SubjectID   string        `db:"subject_id"`
	CounselorID string        `db:"counselor_id"`
	SlotStart   time.Time     `db:"slot_start"`
	Status      BookingStatus `db:"status"`
	Urgency     Urgency       `db:"urgency"`
	Description string        `db:"description"`
	CreatedAt   time.Time     `db:"created_at"`
}

// AssessmentResult is immutable once stored.
type AssessmentResult struct {
	ID             string    `db:"assessment_id"`
	SubjectID      string    `db:"subject_id"`
	Instrument     string    `db:"instrument"`
	Score          int       `db:"score"`
	Severity       string    `db:"severity"`
	Recommendation string    `db:"recommendation"`
	ComputedAt     time.Time `db:"computed_at"`
}

type ChatExchange struct {
	ID        string    `db:"chat_id"`
	SubjectID string    `db:"subject_id"`
	Message   string    `db:"message"`
	Reply     string    `db:"reply"`
	Category  string    `db:"category"`
	Escalate  bool      `db:"escalate"`
	CreatedAt time.Time `db:"created_at"`
}

// MoodEntry is one self-reported sample; at most one per subject per day.
type MoodEntry struct {
	ID          string    `db:"mood_id"`
	SubjectID   string    `db:"subject_id"`
	MoodScore   int       `db:"mood_score"`
	EnergyLevel int       `db:"energy_level"`
	StressLevel int       `db:"stress_level"`
	SleepHours  *float64  `db:"sleep_hours"`
	Notes       string    `db:"notes"`
	RecordedAt  time.Time `db:"recorded_at"`
}
