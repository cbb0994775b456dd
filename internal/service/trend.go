package service

import (
	"context"
	"fmt"

	"mello-core/api"
	"mello-core/internal/history"
	"mello-core/internal/models"
	"mello-core/pkg/response"
)

const (
	minSelfReportScore = 1
	maxSelfReportScore = 10
)

// RecordMood stores one self-reported sample. At most one entry per
// subject per calendar day; the store rejects duplicates with a conflict.
func (s *Service) RecordMood(ctx context.Context, req *api.MoodEntryRequest) (*api.MoodEntryResponse, error) {
	const op = "service.RecordMood"

	if req.SubjectID == "" {
		return nil, fmt.Errorf("%s: subject_id is required: %w", op, response.ErrValidation)
	}
	for name, v := range map[string]int{
		"mood_score":   req.MoodScore,
		"energy_level": req.EnergyLevel,
		"stress_level": req.StressLevel,
	} {
		if v < minSelfReportScore || v > maxSelfReportScore {
			return nil, fmt.Errorf("%s: %s out of range [%d,%d]: %d: %w",
				op, name, minSelfReportScore, maxSelfReportScore, v, response.ErrValidation)
		}
	}
	if req.SleepHours != nil && (*req.SleepHours < 0 || *req.SleepHours > 24) {
		return nil, fmt.Errorf("%s: sleep_hours out of range [0,24]: %w", op, response.ErrValidation)
	}

	entry := &models.MoodEntry{
		SubjectID:   req.SubjectID,
		MoodScore:   req.MoodScore,
		EnergyLevel: req.EnergyLevel,
		StressLevel: req.StressLevel,
		SleepHours:  req.SleepHours,
		Notes:       req.Notes,
		RecordedAt:  s.now().UTC(),
	}

	saved, err := s.store.SaveMoodEntry(ctx, entry)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return moodToAPI(saved), nil
}

// MoodHistory lists the subject's entries of the last days, oldest first.
func (s *Service) MoodHistory(ctx context.Context, subjectID string, days int) ([]*api.MoodEntryResponse, error) {
	const op = "service.MoodHistory"

	if subjectID == "" {
		return nil, fmt.Errorf("%s: subject_id is required: %w", op, response.ErrValidation)
	}
	if days <= 0 {
		days = 30
	}

	entries, err := s.store.ListMoodEntries(ctx, subjectID, s.now().AddDate(0, 0, -days))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result := make([]*api.MoodEntryResponse, 0, len(entries))
	for _, e := range entries {
		result = append(result, moodToAPI(e))
	}

	return result, nil
}

// Trend aggregates the subject's mood samples and assessment history
// within the window into a direction and recommendation list.
func (s *Service) Trend(ctx context.Context, subjectID string, windowDays int) (*api.TrendResponse, error) {
	const op = "service.Trend"

	if subjectID == "" {
		return nil, fmt.Errorf("%s: subject_id is required: %w", op, response.ErrValidation)
	}
	if windowDays <= 0 {
		windowDays = 30
	}

	since := s.now().AddDate(0, 0, -windowDays)

	entries, err := s.store.ListMoodEntries(ctx, subjectID, since)
	if err != nil {
		return nil, fmt.Errorf("%s: mood entries: %w", op, err)
	}

	assessments, err := s.store.ListAssessments(ctx, subjectID, since)
	if err != nil {
		return nil, fmt.Errorf("%s: assessments: %w", op, err)
	}

	latestSeverity := ""
	if len(assessments) > 0 {
		// Store returns oldest first.
		latestSeverity = assessments[len(assessments)-1].Severity
	}

	samples := make([]models.MoodEntry, len(entries))
	for i, e := range entries {
		samples[i] = *e
	}

	trend := history.Aggregate(samples, latestSeverity)

	return &api.TrendResponse{
		SubjectID:       subjectID,
		Direction:       string(trend.Direction),
		Recommendations: trend.Recommendations,
	}, nil
}

func moodToAPI(e *models.MoodEntry) *api.MoodEntryResponse {
	return &api.MoodEntryResponse{
		ID:          e.ID,
		SubjectID:   e.SubjectID,
		MoodScore:   e.MoodScore,
		EnergyLevel: e.EnergyLevel,
		StressLevel: e.StressLevel,
		SleepHours:  e.SleepHours,
		Notes:       e.Notes,
		RecordedAt:  e.RecordedAt,
	}
}
