package api

import "time"

// Assessments

type AssessmentSubmitRequest struct {
	SubjectID  string `json:"subject_id"`
	Instrument string `json:"instrument"`
	Responses  []int  `json:"responses"`
}

type AssessmentResultResponse struct {
	ID             string    `json:"id"`
	SubjectID      string    `json:"subject_id"`
	Instrument     string    `json:"instrument"`
	Score          int       `json:"score"`
	Severity       string    `json:"severity"`
	Recommendation string    `json:"recommendation"`
	ComputedAt     time.Time `json:"computed_at"`
}

type QuestionnaireResponse struct {
	Instrument  string   `json:"instrument"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Scale       []string `json:"scale"`
	Questions   []string `json:"questions"`
}

type LatestScore struct {
	Score    int       `json:"score"`
	Severity string    `json:"severity"`
	Date     time.Time `json:"date"`
}

type AssessmentHistoryResponse struct {
	Assessments  []AssessmentResultResponse `json:"assessments"`
	LatestScores map[string]LatestScore     `json:"latest_scores"`
}

// Chat

type ChatRequest struct {
	SubjectID string `json:"subject_id,omitempty"`
	Message   string `json:"message"`
}

type ChatResponse struct {
	Reply    string `json:"reply"`
	Category string `json:"category"`
	Escalate bool   `json:"escalate_to_counselor"`
}

// Counselors and slots

type CounselorResponse struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Specialization string `json:"specialization"`
	WorkHoursStart int    `json:"work_hours_start"`
	WorkHoursEnd   int    `json:"work_hours_end"`
}

type SlotsResponse struct {
	CounselorID    string      `json:"counselor_id"`
	AvailableSlots []time.Time `json:"available_slots"`
}

// Bookings

type BookingRequest struct {
	SubjectID   string    `json:"subject_id"`
	CounselorID string    `json:"counselor_id"`
	SlotStart   time.Time `json:"slot_start"`
	Description string    `json:"description"`
	Urgency     string    `json:"urgency"`
}

type BookingResponse struct {
	ID          string    `json:"id"`
	SubjectID   string    `json:"subject_id"`
	CounselorID string    `json:"counselor_id"`
	SlotStart   time.Time `json:"slot_start"`
	Status      string    `json:"status"`
	Urgency     string    `json:"urgency"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

type TransitionRequest struct {
	NewStatus string `json:"new_status"`
	ActorID   string `json:"actor_id"`
	ActorRole string `json:"actor_role"`
}

// Mood

type MoodEntryRequest struct {
	SubjectID   string   `json:"subject_id"`
	MoodScore   int      `json:"mood_score"`
	EnergyLevel int      `json:"energy_level"`
	StressLevel int      `json:"stress_level"`
	SleepHours  *float64 `json:"sleep_hours,omitempty"`
	Notes       string   `json:"notes,omitempty"`
}

type MoodEntryResponse struct {
	ID          string    `json:"id"`
	SubjectID   string    `json:"subject_id"`
	MoodScore   int       `json:"mood_score"`
	EnergyLevel int       `json:"energy_level"`
	StressLevel int       `json:"stress_level"`
	SleepHours  *float64  `json:"sleep_hours,omitempty"`
	Notes       string    `json:"notes,omitempty"`
	RecordedAt  time.Time `json:"recorded_at"`
}

// Trend

type TrendResponse struct {
	SubjectID       string   `json:"subject_id"`
	Direction       string   `json:"direction"`
	Recommendations []string `json:"recommendations"`
}
