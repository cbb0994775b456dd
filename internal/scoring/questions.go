package scoring

import (
	"fmt"

	"mello-core/pkg/response"
)

// Questionnaire is the client-facing definition of an instrument.
type Questionnaire struct {
	Instrument  Instrument
	Title       string
	Description string
	Scale       []string
	Questions   []string
}

var questionnaires = map[Instrument]Questionnaire{
	PHQ9: {
		Instrument:  PHQ9,
		Title:       "PHQ-9 Depression Assessment",
		Description: "Over the last 2 weeks, how often have you been bothered by any of the following problems?",
		Scale:       []string{"Not at all", "Several days", "More than half the days", "Nearly every day"},
		Questions: []string{
			"Little interest or pleasure in doing things",
			"Feeling down, depressed, or hopeless",
			"Trouble falling or staying asleep, or sleeping too much",
			"Feeling tired or having little energy",
			"Poor appetite or overeating",
			"Feeling bad about yourself or that you are a failure or have let yourself or your family down",
			"Trouble concentrating on things, such as reading the newspaper or watching television",
			"Moving or speaking so slowly that other people could have noticed, or the opposite being so fidgety or restless that you have been moving around a lot more than usual",
			"Thoughts that you would be better off dead, or of hurting yourself",
		},
	},
	GAD7: {
		Instrument:  GAD7,
		Title:       "GAD-7 Anxiety Assessment",
		Description: "Over the last 2 weeks, how often have you been bothered by the following problems?",
		Scale:       []string{"Not at all", "Several days", "More than half the days", "Nearly every day"},
		Questions: []string{
			"Feeling nervous, anxious, or on edge",
			"Not being able to stop or control worrying",
			"Worrying too much about different things",
			"Trouble relaxing",
			"Being so restless that it is hard to sit still",
			"Becoming easily annoyed or irritable",
			"Feeling afraid, as if something awful might happen",
		},
	},
	GHQ12: {
		Instrument:  GHQ12,
		Title:       "GHQ-12 General Health Questionnaire",
		Description: "Have you recently:",
		Scale:       []string{"Better than usual", "Same as usual", "Less than usual", "Much less than usual"},
		Questions: []string{
			"Been able to concentrate on whatever you're doing?",
			"Lost much sleep over worry?",
			"Felt that you were playing a useful part in things?",
			"Felt capable of making decisions about things?",
			"Felt constantly under strain?",
			"Felt you couldn't overcome your difficulties?",
			"Been able to enjoy your normal day-to-day activities?",
			"Been able to face up to problems?",
			"Been feeling unhappy or depressed?",
			"Been losing confidence in yourself?",
			"Been thinking of yourself as a worthless person?",
			"Been feeling reasonably happy, all things considered?",
		},
	},
}

// Questions returns the fixed questionnaire for the instrument.
func Questions(instrument Instrument) (Questionnaire, error) {
	const op = "scoring.Questions"

	q, ok := questionnaires[instrument]
	if !ok {
		return Questionnaire{}, fmt.Errorf("%s: %w", op, response.ErrNotFound)
	}

	return q, nil
}
