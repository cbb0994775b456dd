package triage

import "strings"

// keywordGroup maps a category tag to its trigger words. Groups are
// scanned in a fixed order; the first match wins.
type keywordGroup struct {
	category string
	keywords []string
}

var categories = []keywordGroup{
	{"stress", []string{"stress", "stressed", "pressure", "overwhelm"}},
	{"sleep", []string{"sleep", "insomnia", "tired", "exhausted"}},
	{"anxiety", []string{"anxiety", "anxious", "worry", "nervous", "exam"}},
	{"depression", []string{"sad", "depressed", "lonely", "down"}},
}

// CategoryGeneral is returned when no keyword group matches.
const CategoryGeneral = "general"

var crisisKeywords = []string{
	"suicide",
	"kill myself",
	"end it all",
	"not worth living",
	"severe depression",
	"can't cope",
	"emergency",
	"crisis",
}

// Categorize tags free text with the first matching keyword group.
func Categorize(text string) string {
	lower := strings.ToLower(text)

	for _, group := range categories {
		for _, kw := range group.keywords {
			if strings.Contains(lower, kw) {
				return group.category
			}
		}
	}

	return CategoryGeneral
}

// Escalate reports whether the text contains crisis-level content.
// Pure case-insensitive substring matching: no stemming and no negation
// handling, so "I would never kill myself" still escalates. That is a
// known limitation of the heuristic and intentionally biased towards
// false positives.
func Escalate(text string) bool {
	lower := strings.ToLower(text)

	for _, kw := range crisisKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}

	return false
}
