package models

// Survey question keys. The set is fixed; SurveyResponse always carries all of them.
const (
	KeyLocationType   = "locationType"
	KeyTravelDistance = "travelDistance"
	KeyBusyness       = "busyness"
	KeyPowerAccess    = "powerAccess"
	KeyFoodImportance = "foodImportance"
	KeyFoodPreference = "foodPreference"
	KeyNoiseLevel     = "noiseLevel"
	KeyLighting       = "lighting"
)

// SurveyKeys lists the question keys in the order they are asked
var SurveyKeys = []string{
	KeyLocationType,
	KeyTravelDistance,
	KeyBusyness,
	KeyPowerAccess,
	KeyFoodImportance,
	KeyFoodPreference,
	KeyNoiseLevel,
	KeyLighting,
}

// SurveyResponse maps each question key to the chosen option, or "" when unanswered
type SurveyResponse map[string]string

// NewSurveyResponse returns a response with every key present and unanswered
func NewSurveyResponse() SurveyResponse {
	r := make(SurveyResponse, len(SurveyKeys))
	for _, key := range SurveyKeys {
		r[key] = ""
	}
	return r
}

// HasAnswers reports whether at least one value is non-empty.
// A response with no answers is equivalent to having no saved preferences.
func (r SurveyResponse) HasAnswers() bool {
	for _, v := range r {
		if v != "" {
			return true
		}
	}
	return false
}

// Clone returns an independent copy that carries every known key
func (r SurveyResponse) Clone() SurveyResponse {
	out := NewSurveyResponse()
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Answer returns the value for key, or "Not answered"
func (r SurveyResponse) Answer(key string) string {
	if v := r[key]; v != "" {
		return v
	}
	return "Not answered"
}
