package service

import (
	"context"
	"fmt"
	"time"

	"mello-core/api"
	"mello-core/internal/models"
	"mello-core/internal/scoring"
	"mello-core/pkg/response"
)

// SubmitAssessment scores a questionnaire submission and persists the
// immutable result.
func (s *Service) SubmitAssessment(ctx context.Context, req *api.AssessmentSubmitRequest) (*api.AssessmentResultResponse, error) {
	const op = "service.SubmitAssessment"

	if req.SubjectID == "" {
		return nil, fmt.Errorf("%s: subject_id is required: %w", op, response.ErrValidation)
	}

	instrument, err := scoring.ParseInstrument(req.Instrument)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	scored, err := scoring.Score(instrument, req.Responses)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result := &models.AssessmentResult{
		SubjectID:      req.SubjectID,
		Instrument:     string(instrument),
		Score:          scored.Total,
		Severity:       scored.Severity,
		Recommendation: scored.Recommendation,
		ComputedAt:     s.now().UTC(),
	}

	saved, err := s.store.SaveAssessment(ctx, result)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return assessmentToAPI(saved), nil
}

// AssessmentQuestions returns the fixed questionnaire definition.
func (s *Service) AssessmentQuestions(instrumentName string) (*api.QuestionnaireResponse, error) {
	const op = "service.AssessmentQuestions"

	instrument, err := scoring.ParseInstrument(instrumentName)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
	}

	q, err := scoring.Questions(instrument)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &api.QuestionnaireResponse{
		Instrument:  string(q.Instrument),
		Title:       q.Title,
		Description: q.Description,
		Scale:       q.Scale,
		Questions:   q.Questions,
	}, nil
}

// AssessmentHistory returns all stored results for a subject, newest
// first, with the latest score per instrument.
func (s *Service) AssessmentHistory(ctx context.Context, subjectID string) (*api.AssessmentHistoryResponse, error) {
	const op = "service.AssessmentHistory"

	if subjectID == "" {
		return nil, fmt.Errorf("%s: subject_id is required: %w", op, response.ErrValidation)
	}

	// A subject with no submissions is an empty history, not an error.
	results, err := s.store.ListAssessments(ctx, subjectID, time.Time{})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	history := &api.AssessmentHistoryResponse{
		Assessments:  make([]api.AssessmentResultResponse, 0, len(results)),
		LatestScores: make(map[string]api.LatestScore),
	}

	// Results arrive oldest to newest, so the last write per
	// instrument wins; the response lists newest first.
	for _, r := range results {
		history.LatestScores[r.Instrument] = api.LatestScore{
			Score:    r.Score,
			Severity: r.Severity,
			Date:     r.ComputedAt,
		}
	}
	for i := len(results) - 1; i >= 0; i-- {
		history.Assessments = append(history.Assessments, *assessmentToAPI(results[i]))
	}

	return history, nil
}

func assessmentToAPI(r *models.AssessmentResult) *api.AssessmentResultResponse {
	return &api.AssessmentResultResponse{
		ID:             r.ID,
		SubjectID:      r.SubjectID,
		Instrument:     r.Instrument,
		Score:          r.Score,
		Severity:       r.Severity,
		Recommendation: r.Recommendation,
		ComputedAt:     r.ComputedAt,
	}
}
