// Package survey implements the preference questionnaire: a linear wizard with
// back navigation, a submit step and a summary of previously saved answers.
package survey

import "spotfinder/internal/models"

// Question is one single-select survey question
type Question struct {
	Key     string
	Prompt  string
	Options []string
}

// HasOption reports whether option is one of the question's choices
func (q Question) HasOption(option string) bool {
	for _, o := range q.Options {
		if o == option {
			return true
		}
	}
	return false
}

// Questions are asked in this order; keys match models.SurveyKeys
var Questions = []Question{
	{
		Key:     models.KeyLocationType,
		Prompt:  "What type of location do you prefer to study in?",
		Options: []string{"Library", "Café", "University building", "Outdoors", "No preference"},
	},
	{
		Key:     models.KeyTravelDistance,
		Prompt:  "How far are you willing to travel to your study spot?",
		Options: []string{"Walking distance", "10-20 minutes", "20-40 minutes", "No preference"},
	},
	{
		Key:     models.KeyBusyness,
		Prompt:  "How busy do you prefer your study environment to be?",
		Options: []string{"Very quiet", "Moderately busy", "Busy/active", "No preference"},
	},
	{
		Key:     models.KeyPowerAccess,
		Prompt:  "How important is having access to power outlets?",
		Options: []string{"Essential", "Helpful but not required", "Not important"},
	},
	{
		Key:     models.KeyFoodImportance,
		Prompt:  "How important is being close to food or drink options?",
		Options: []string{"Very important", "Somewhat important", "Not important"},
	},
	{
		Key:     models.KeyFoodPreference,
		Prompt:  "What type of food/drink options do you prefer nearby?",
		Options: []string{"Coffee shops", "Quick snacks", "Full meals", "Vending machines", "No preference"},
	},
	{
		Key:    models.KeyNoiseLevel,
		Prompt: "What noise level helps you focus best?",
		Options: []string{
			"Silent",
			"Low background noise",
			"Moderate conversational noise",
			"Lively café-like noise",
			"No preference",
		},
	},
	{
		Key:     models.KeyLighting,
		Prompt:  "What level of natural lighting do you prefer?",
		Options: []string{"Bright natural light", "Some natural light", "Low/no natural light", "No preference"},
	},
}

// SummaryItem pairs a question prompt with the saved answer, or "Not answered"
type SummaryItem struct {
	Key    string
	Prompt string
	Answer string
}

// Summarize lists every question with its answer in prefs
func Summarize(prefs models.SurveyResponse) []SummaryItem {
	items := make([]SummaryItem, 0, len(Questions))
	for _, q := range Questions {
		items = append(items, SummaryItem{Key: q.Key, Prompt: q.Prompt, Answer: prefs.Answer(q.Key)})
	}
	return items
}
