package history

import "mello-core/internal/models"

type Direction string

const (
	DirectionImproving Direction = "improving"
	DirectionDeclining Direction = "declining"
	DirectionStable    Direction = "stable"
)

// Recommendation types, evaluated in this precedence. Every rule that
// fires is appended; maintenance only when nothing else fired.
const (
	RecommendMoodSupport         = "mood_support"
	RecommendStressManagement    = "stress_management"
	RecommendEnergyBoost         = "energy_boost"
	RecommendProfessionalSupport = "professional_support"
	RecommendMaintenance         = "maintenance"
)

const (
	lowMoodThreshold    = 5.0
	highStressThreshold = 7.0
	lowEnergyThreshold  = 4.0
)

// severitiesNeedingSupport are the band labels that count as moderate or
// worse across all three instruments.
var severitiesNeedingSupport = map[string]bool{
	"moderate":          true,
	"moderately-severe": true,
	"severe":            true,
	"moderate-distress": true,
	"severe-distress":   true,
}

type Trend struct {
	Direction       Direction
	Recommendations []string
}

// Aggregate turns a subject's mood entries (ordered oldest to newest)
// and their latest assessment severity into a trend signal.
//
// Direction compares the mean mood of the chronologically older half
// against the newer half; an exact tie is stable. Fewer than two samples
// cannot form two halves and report stable. With an odd count the middle
// sample lands in the older half, so the recent half holds exactly the
// len/2 newest entries.
func Aggregate(entries []models.MoodEntry, latestSeverity string) Trend {
	return Trend{
		Direction:       direction(entries),
		Recommendations: recommendations(entries, latestSeverity),
	}
}

func direction(entries []models.MoodEntry) Direction {
	recentLen := len(entries) / 2
	if recentLen == 0 {
		return DirectionStable
	}

	mid := len(entries) - recentLen

	olderMean := meanMood(entries[:mid])
	recentMean := meanMood(entries[mid:])

	switch {
	case recentMean > olderMean:
		return DirectionImproving
	case recentMean < olderMean:
		return DirectionDeclining
	default:
		return DirectionStable
	}
}

func recommendations(entries []models.MoodEntry, latestSeverity string) []string {
	recs := []string{}

	if len(entries) > 0 {
		if meanMood(entries) < lowMoodThreshold {
			recs = append(recs, RecommendMoodSupport)
		}
		if mean(entries, func(e models.MoodEntry) int { return e.StressLevel }) > highStressThreshold {
			recs = append(recs, RecommendStressManagement)
		}
		if mean(entries, func(e models.MoodEntry) int { return e.EnergyLevel }) < lowEnergyThreshold {
			recs = append(recs, RecommendEnergyBoost)
		}
	}

	if severitiesNeedingSupport[latestSeverity] {
		recs = append(recs, RecommendProfessionalSupport)
	}

	if len(recs) == 0 {
		recs = append(recs, RecommendMaintenance)
	}

	return recs
}

func meanMood(entries []models.MoodEntry) float64 {
	return mean(entries, func(e models.MoodEntry) int { return e.MoodScore })
}

func mean(entries []models.MoodEntry, metric func(models.MoodEntry) int) float64 {
	if len(entries) == 0 {
		return 0
	}

	sum := 0
	for _, e := range entries {
		sum += metric(e)
	}

	return float64(sum) / float64(len(entries))
}
