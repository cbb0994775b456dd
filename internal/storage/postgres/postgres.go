package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"mello-core/internal/models"
	"mello-core/pkg/response"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// pq error codes we map onto the core taxonomy.
const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

type Storage struct {
	db *sql.DB
}

func New(storagePath string) (*Storage, error) {
	const op = "storage.postgres.New"

	db, err := sql.Open("postgres", storagePath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{db: db}, nil
}

func (s *Storage) Close() error {
	if s == nil || s.db == nil {
		return nil
	}

	return s.db.Close()
}

// #### counselors ####

func (s *Storage) GetCounselor(ctx context.Context, id string) (*models.Counselor, error) {
	const op = "storage.postgres.GetCounselor"

	var c models.Counselor

	err := s.db.QueryRowContext(ctx,
		`SELECT counselor_id, name, specialization, approved,
			work_hours_start, work_hours_end, slot_granularity_minutes
		FROM counselors WHERE counselor_id=$1`, id).
		Scan(
			&c.ID,
			&c.Name,
			&c.Specialization,
			&c.Approved,
			&c.WorkHoursStart,
			&c.WorkHoursEnd,
			&c.SlotGranularityMinutes,
		)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &c, nil
}

func (s *Storage) ListApprovedCounselors(ctx context.Context) ([]*models.Counselor, error) {
	const op = "storage.postgres.ListApprovedCounselors"

	rows, err := s.db.QueryContext(ctx,
		`SELECT counselor_id, name, specialization, approved,
			work_hours_start, work_hours_end, slot_granularity_minutes
		FROM counselors WHERE approved=TRUE ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	defer rows.Close()

	var counselors []*models.Counselor

	for rows.Next() {
		var c models.Counselor

		err := rows.Scan(
			&c.ID,
			&c.Name,
			&c.Specialization,
			&c.Approved,
			&c.WorkHoursStart,
			&c.WorkHoursEnd,
			&c.SlotGranularityMinutes,
		)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		counselors = append(counselors, &c)
	}

	return counselors, rows.Err()
}

// #### bookings ####

// CreateBooking is the atomic check-and-insert behind the scheduling
// engine. The uq_bookings_active_slot partial unique index rejects a
// second active booking for the same (counselor_id, slot_start) pair;
// the violation surfaces as response.ErrConflict.
func (s *Storage) CreateBooking(ctx context.Context, booking *models.Booking) (*models.Booking, error) {
	const op = "storage.postgres.CreateBooking"

	b := *booking
	b.ID = uuid.New().String()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO bookings
		(booking_id, subject_id, counselor_id, slot_start, status, urgency, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		b.ID,
		b.SubjectID,
		b.CounselorID,
		b.SlotStart,
		string(b.Status),
		string(b.Urgency),
		b.Description,
		b.CreatedAt,
	)
	if err != nil {
		sqlErr, ok := err.(*pq.Error)
		if ok && sqlErr.Code == pqUniqueViolation {
			return nil, fmt.Errorf("%s: %w", op, response.ErrConflict)
		}
		if ok && sqlErr.Code == pqForeignKeyViolation {
			return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &b, nil
}

func (s *Storage) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	const op = "storage.postgres.GetBooking"

	var b models.Booking

	err := s.db.QueryRowContext(ctx,
		`SELECT booking_id, subject_id, counselor_id, slot_start, status, urgency, description, created_at
		FROM bookings WHERE booking_id=$1`, id).
		Scan(
			&b.ID,
			&b.SubjectID,
			&b.CounselorID,
			&b.SlotStart,
			&b.Status,
			&b.Urgency,
			&b.Description,
			&b.CreatedAt,
		)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &b, nil
}

func (s *Storage) ListBookingsBySubject(ctx context.Context, subjectID string) ([]*models.Booking, error) {
	const op = "storage.postgres.ListBookingsBySubject"

	rows, err := s.db.QueryContext(ctx,
		`SELECT booking_id, subject_id, counselor_id, slot_start, status, urgency, description, created_at
		FROM bookings WHERE subject_id=$1 ORDER BY slot_start`, subjectID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	defer rows.Close()

	var bookings []*models.Booking

	for rows.Next() {
		var b models.Booking

		err := rows.Scan(
			&b.ID,
			&b.SubjectID,
			&b.CounselorID,
			&b.SlotStart,
			&b.Status,
			&b.Urgency,
			&b.Description,
			&b.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		bookings = append(bookings, &b)
	}

	return bookings, rows.Err()
}

func (s *Storage) ListActiveSlotStarts(ctx context.Context, counselorID string, from, to time.Time) ([]time.Time, error) {
	const op = "storage.postgres.ListActiveSlotStarts"

	rows, err := s.db.QueryContext(ctx,
		`SELECT slot_start FROM bookings
		WHERE counselor_id=$1
		AND status IN ('pending', 'confirmed')
		AND slot_start >= $2 AND slot_start <= $3
		ORDER BY slot_start`,
		counselorID, from, to)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	defer rows.Close()

	var starts []time.Time

	for rows.Next() {
		var t time.Time

		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		starts = append(starts, t)
	}

	return starts, rows.Err()
}

// UpdateBookingStatus is a compare-and-set. A booking whose status
// already moved on reports response.ErrConflict, a missing booking
// response.ErrNotFound.
func (s *Storage) UpdateBookingStatus(ctx context.Context, id string, from, to models.BookingStatus) error {
	const op = "storage.postgres.UpdateBookingStatus"

	res, err := s.db.ExecContext(ctx,
		`UPDATE bookings SET status=$1 WHERE booking_id=$2 AND status=$3`,
		string(to), id, string(from))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if n == 0 {
		var exists bool

		err := s.db.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM bookings WHERE booking_id=$1)`, id).Scan(&exists)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		if !exists {
			return fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}

		return fmt.Errorf("%s: %w", op, response.ErrConflict)
	}

	return nil
}

// #### assessments ####

func (s *Storage) SaveAssessment(ctx context.Context, result *models.AssessmentResult) (*models.AssessmentResult, error) {
	const op = "storage.postgres.SaveAssessment"

	r := *result
	r.ID = uuid.New().String()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO assessments
		(assessment_id, subject_id, instrument, score, severity, recommendation, computed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		r.ID,
		r.SubjectID,
		r.Instrument,
		r.Score,
		r.Severity,
		r.Recommendation,
		r.ComputedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &r, nil
}

func (s *Storage) ListAssessments(ctx context.Context, subjectID string, since time.Time) ([]*models.AssessmentResult, error) {
	const op = "storage.postgres.ListAssessments"

	rows, err := s.db.QueryContext(ctx,
		`SELECT assessment_id, subject_id, instrument, score, severity, recommendation, computed_at
		FROM assessments
		WHERE subject_id=$1 AND computed_at >= $2
		ORDER BY computed_at`,
		subjectID, since)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	defer rows.Close()

	var results []*models.AssessmentResult

	for rows.Next() {
		var r models.AssessmentResult

		err := rows.Scan(
			&r.ID,
			&r.SubjectID,
			&r.Instrument,
			&r.Score,
			&r.Severity,
			&r.Recommendation,
			&r.ComputedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		results = append(results, &r)
	}

	return results, rows.Err()
}

// #### chat ####

func (s *Storage) SaveChatExchange(ctx context.Context, exchange *models.ChatExchange) error {
	const op = "storage.postgres.SaveChatExchange"

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO chat_logs
		(chat_id, subject_id, message, reply, category, escalate, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		uuid.New().String(),
		exchange.SubjectID,
		exchange.Message,
		exchange.Reply,
		exchange.Category,
		exchange.Escalate,
		exchange.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// #### mood ####

// SaveMoodEntry inserts one sample. The per-day unique index on
// (subject_id, day of recorded_at) turns a second entry for the same
// day into response.ErrConflict.
func (s *Storage) SaveMoodEntry(ctx context.Context, entry *models.MoodEntry) (*models.MoodEntry, error) {
	const op = "storage.postgres.SaveMoodEntry"

	e := *entry
	e.ID = uuid.New().String()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO mood_entries
		(mood_id, subject_id, mood_score, energy_level, stress_level, sleep_hours, notes, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		e.ID,
		e.SubjectID,
		e.MoodScore,
		e.EnergyLevel,
		e.StressLevel,
		e.SleepHours,
		e.Notes,
		e.RecordedAt,
	)
	if err != nil {
		sqlErr, ok := err.(*pq.Error)
		if ok && sqlErr.Code == pqUniqueViolation {
			return nil, fmt.Errorf("%s: %w", op, response.ErrConflict)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &e, nil
}

func (s *Storage) ListMoodEntries(ctx context.Context, subjectID string, since time.Time) ([]*models.MoodEntry, error) {
	const op = "storage.postgres.ListMoodEntries"

	rows, err := s.db.QueryContext(ctx,
		`SELECT mood_id, subject_id, mood_score, energy_level, stress_level, sleep_hours, notes, recorded_at
		FROM mood_entries
		WHERE subject_id=$1 AND recorded_at >= $2
		ORDER BY recorded_at`,
		subjectID, since)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	defer rows.Close()

	var entries []*models.MoodEntry

	for rows.Next() {
		var e models.MoodEntry

		err := rows.Scan(
			&e.ID,
			&e.SubjectID,
			&e.MoodScore,
			&e.EnergyLevel,
			&e.StressLevel,
			&e.SleepHours,
			&e.Notes,
			&e.RecordedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		entries = append(entries, &e)
	}

	return entries, rows.Err()
}
