// Package preferences persists the user's survey answers between visits.
// The web client keeps them in the surveyResponses cookie; the terminal client in a file.
package preferences

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"spotfinder/internal/models"
	contextutils "spotfinder/internal/utils"

	"github.com/xeipuuv/gojsonschema"
)

// Store loads and saves the saved survey response.
//
// Load returns nil when nothing usable is stored; it never fails. Whether a stored
// response counts as "preferences" is decided by callers through HasAnswers.
type Store interface {
	Load(ctx context.Context) models.SurveyResponse
	Save(ctx context.Context, prefs models.SurveyResponse) error
}

// MalformedStateError reports persisted state that could not be decoded
type MalformedStateError struct {
	Source string
	Cause  error
}

// Error implements the error interface
func (e *MalformedStateError) Error() string {
	return fmt.Sprintf("malformed %s: %v", e.Source, e.Cause)
}

// Unwrap exposes both the taxonomy sentinel and the underlying cause
func (e *MalformedStateError) Unwrap() []error {
	return []error{contextutils.ErrMalformedState, e.Cause}
}

// responseSchema accepts a flat object of strings, the shape written by Save
const responseSchema = `{
	"type": "object",
	"additionalProperties": {"type": "string"}
}`

var responseSchemaLoader = gojsonschema.NewStringLoader(responseSchema)

// decodeResponse validates raw JSON against responseSchema and returns a response
// carrying every survey key
func decodeResponse(source string, raw []byte) (models.SurveyResponse, error) {
	if err := validateAgainst(responseSchemaLoader, raw); err != nil {
		return nil, &MalformedStateError{Source: source, Cause: err}
	}

	var resp models.SurveyResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, &MalformedStateError{Source: source, Cause: err}
	}
	return resp.Clone(), nil
}

// validateAgainst runs a gojsonschema validation and folds the result errors into one error
func validateAgainst(schema gojsonschema.JSONLoader, raw []byte) error {
	result, err := gojsonschema.Validate(schema, gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return err
	}
	if result.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		msgs = append(msgs, desc.String())
	}
	return fmt.Errorf("schema validation failed: %s", strings.Join(msgs, "; "))
}
