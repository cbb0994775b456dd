package scoring

import (
	"fmt"

	"mello-core/pkg/response"
)

type Instrument string

const (
	PHQ9  Instrument = "phq9"
	GAD7  Instrument = "gad7"
	GHQ12 Instrument = "ghq12"
)

// ParseInstrument validates a wire-level instrument name.
func ParseInstrument(s string) (Instrument, error) {
	const op = "scoring.ParseInstrument"

	switch Instrument(s) {
	case PHQ9, GAD7, GHQ12:
		return Instrument(s), nil
	default:
		return "", fmt.Errorf("%s: unknown instrument %q: %w", op, s, response.ErrValidation)
	}
}

// Band is a closed score interval mapped to a severity label and a fixed
// recommendation. Bands are non-overlapping and scanned low to high.
type Band struct {
	Lower          int
	Upper          int
	Severity       string
	Recommendation string
}

type Result struct {
	Total          int
	Severity       string
	Recommendation string
}

const (
	minResponse = 0
	maxResponse = 3
)

var requiredResponses = map[Instrument]int{
	PHQ9:  9,
	GAD7:  7,
	GHQ12: 12,
}

var bands = map[Instrument][]Band{
	PHQ9: {
		{0, 4, "minimal", "Your responses suggest minimal depression symptoms. Continue maintaining good mental health habits."},
		{5, 9, "mild", "Your responses suggest mild depression symptoms. Consider speaking with a counselor or trying stress-reduction techniques."},
		{10, 14, "moderate", "Your responses suggest moderate depression symptoms. We recommend booking a session with one of our counselors."},
		{15, 19, "moderately-severe", "Your responses suggest moderately severe depression symptoms. Please consider booking a counselor session and speaking with a healthcare provider."},
		{20, 27, "severe", "Your responses suggest severe depression symptoms. Please seek immediate professional help and book an urgent counselor session."},
	},
	GAD7: {
		{0, 4, "minimal", "Your responses suggest minimal anxiety symptoms. Keep up your current coping strategies."},
		{5, 9, "mild", "Your responses suggest mild anxiety symptoms. Try relaxation techniques and consider our wellness resources."},
		{10, 14, "moderate", "Your responses suggest moderate anxiety symptoms. We recommend booking a counselor session."},
		{15, 21, "severe", "Your responses suggest severe anxiety symptoms. Please book a counselor session and consider speaking with a healthcare provider."},
	},
	GHQ12: {
		{0, 2, "good", "Your responses suggest good overall mental health. Continue your current wellness practices."},
		{3, 5, "mild-distress", "Your responses suggest mild psychological distress. Consider our stress management techniques."},
		{6, 8, "moderate-distress", "Your responses suggest moderate psychological distress. We recommend booking a counselor session for support."},
		{9, 12, "severe-distress", "Your responses suggest significant psychological distress. Please book a counselor session and consider professional help."},
	},
}

// RequiredResponses returns the fixed item count of the instrument.
func (i Instrument) RequiredResponses() int {
	return requiredResponses[i]
}

// Bands returns the instrument's severity bands in ascending order.
func (i Instrument) Bands() []Band {
	return bands[i]
}

// Score sums the ordered responses and maps the total onto the
// instrument's severity bands. GHQ-12 uses the 0-0-1-1 scoring method:
// each raw 0-3 response collapses to 0 if <= 1, else 1, before summation.
func Score(instrument Instrument, responses []int) (Result, error) {
	const op = "scoring.Score"

	want := instrument.RequiredResponses()
	if want == 0 {
		return Result{}, fmt.Errorf("%s: unknown instrument %q: %w", op, instrument, response.ErrValidation)
	}

	if len(responses) != want {
		return Result{}, fmt.Errorf("%s: %s requires exactly %d responses, got %d: %w",
			op, instrument, want, len(responses), response.ErrValidation)
	}

	total := 0
	for idx, r := range responses {
		if r < minResponse || r > maxResponse {
			return Result{}, fmt.Errorf("%s: response %d out of range [%d,%d]: %d: %w",
				op, idx, minResponse, maxResponse, r, response.ErrValidation)
		}

		if instrument == GHQ12 {
			if r > 1 {
				total++
			}
			continue
		}

		total += r
	}

	for _, b := range instrument.Bands() {
		if total >= b.Lower && total <= b.Upper {
			return Result{
				Total:          total,
				Severity:       b.Severity,
				Recommendation: b.Recommendation,
			}, nil
		}
	}

	// Unreachable while the band tables cover the full score domain.
	return Result{}, fmt.Errorf("%s: no band for score %d on %s", op, total, instrument)
}
