package history

import (
	"slices"
	"testing"

	"mello-core/internal/models"
)

func moods(scores ...int) []models.MoodEntry {
	entries := make([]models.MoodEntry, len(scores))
	for i, s := range scores {
		// Neutral stress/energy so only the mood rule can fire.
		entries[i] = models.MoodEntry{MoodScore: s, StressLevel: 5, EnergyLevel: 5}
	}
	return entries
}

func TestDirection(t *testing.T) {
	tests := []struct {
		name    string
		entries []models.MoodEntry
		want    Direction
	}{
		{"improving", moods(2, 2, 2, 8, 8, 8), DirectionImproving},
		{"declining", moods(8, 8, 8, 2, 2, 2), DirectionDeclining},
		{"exact tie is stable", moods(5, 5, 5, 5), DirectionStable},
		{"odd count keeps middle sample in older half", moods(2, 2, 8, 8, 8), DirectionImproving},
		{"extreme middle sample weighs on the older half", moods(2, 8, 2), DirectionDeclining},
		{"single sample is stable", moods(3), DirectionStable},
		{"no samples is stable", nil, DirectionStable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Aggregate(tt.entries, "")
			if got.Direction != tt.want {
				t.Errorf("Direction = %q, want %q", got.Direction, tt.want)
			}
		})
	}
}

func TestRecommendations(t *testing.T) {
	lowEverything := []models.MoodEntry{
		{MoodScore: 2, StressLevel: 9, EnergyLevel: 2},
		{MoodScore: 3, StressLevel: 8, EnergyLevel: 3},
	}

	tests := []struct {
		name     string
		entries  []models.MoodEntry
		severity string
		want     []string
	}{
		{
			name:    "low mood only",
			entries: moods(2, 3, 4),
			want:    []string{RecommendMoodSupport},
		},
		{
			name: "high stress only",
			entries: []models.MoodEntry{
				{MoodScore: 7, StressLevel: 9, EnergyLevel: 6},
			},
			want: []string{RecommendStressManagement},
		},
		{
			name: "low energy only",
			entries: []models.MoodEntry{
				{MoodScore: 7, StressLevel: 4, EnergyLevel: 2},
			},
			want: []string{RecommendEnergyBoost},
		},
		{
			name:     "every rule fires in precedence order",
			entries:  lowEverything,
			severity: "severe",
			want: []string{
				RecommendMoodSupport,
				RecommendStressManagement,
				RecommendEnergyBoost,
				RecommendProfessionalSupport,
			},
		},
		{
			name:     "moderately-severe counts as professional support",
			entries:  moods(7, 8),
			severity: "moderately-severe",
			want:     []string{RecommendProfessionalSupport},
		},
		{
			name:     "mild severity does not trigger support",
			entries:  moods(7, 8),
			severity: "mild",
			want:     []string{RecommendMaintenance},
		},
		{
			name:    "healthy samples get exactly one maintenance",
			entries: moods(7, 8, 9),
			want:    []string{RecommendMaintenance},
		},
		{
			name: "no data at all still gets maintenance",
			want: []string{RecommendMaintenance},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Aggregate(tt.entries, tt.severity)
			if !slices.Equal(got.Recommendations, tt.want) {
				t.Errorf("Recommendations = %v, want %v", got.Recommendations, tt.want)
			}
		})
	}
}

func TestThresholdBoundaries(t *testing.T) {
	// Means exactly on a threshold must not fire the rule.
	onThreshold := []models.MoodEntry{
		{MoodScore: 5, StressLevel: 7, EnergyLevel: 4},
	}

	got := Aggregate(onThreshold, "")
	if !slices.Equal(got.Recommendations, []string{RecommendMaintenance}) {
		t.Errorf("Recommendations = %v, want only maintenance", got.Recommendations)
	}
}
