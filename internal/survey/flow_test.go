package survey

import (
	"errors"
	"testing"

	"spotfinder/internal/models"
	contextutils "spotfinder/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func answerAll(t *testing.T, f *Flow) {
	t.Helper()
	for i := range Questions {
		require.Equal(t, StateQuestion, f.State())
		require.Equal(t, i, f.Index())
		require.NoError(t, f.Answer(Questions[i].Options[0]))
	}
}

func TestQuestions_MatchSurveyKeys(t *testing.T) {
	require.Len(t, Questions, len(models.SurveyKeys))
	for i, q := range Questions {
		assert.Equal(t, models.SurveyKeys[i], q.Key)
		assert.NotEmpty(t, q.Prompt)
		assert.GreaterOrEqual(t, len(q.Options), 3)
	}
}

func TestNewFlow_StartState(t *testing.T) {
	tests := []struct {
		name     string
		saved    models.SurveyResponse
		expected State
	}{
		{"no cookie", nil, StateQuestion},
		{"all empty", models.NewSurveyResponse(), StateQuestion},
		{"one answer", models.SurveyResponse{models.KeyLocationType: "Library"}, StateSummary},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewFlow(tt.saved)
			assert.Equal(t, tt.expected, f.State())
			assert.Equal(t, 0, f.Index())
		})
	}
}

func TestFlow_AnswerAllReachesSubmitting(t *testing.T) {
	f := NewFlow(nil)
	answerAll(t, f)

	assert.Equal(t, StateSubmitting, f.State())
	responses := f.Responses()
	for _, q := range Questions {
		assert.Equal(t, q.Options[0], responses[q.Key])
	}
	_, ok := f.Question()
	assert.False(t, ok)
}

func TestFlow_PreviousKeepsAnswer(t *testing.T) {
	f := NewFlow(nil)
	require.NoError(t, f.Answer("Outdoors"))
	require.NoError(t, f.Answer("10-20 minutes"))
	require.Equal(t, 2, f.Index())

	require.NoError(t, f.Previous())
	assert.Equal(t, 1, f.Index())
	assert.Equal(t, "10-20 minutes", f.Selected())

	require.NoError(t, f.Previous())
	assert.Equal(t, 0, f.Index())
	assert.Equal(t, "Outdoors", f.Selected())
	assert.False(t, f.CanGoBack())

	err := f.Previous()
	assert.True(t, errors.Is(err, ErrInvalidTransition))
	assert.Equal(t, 0, f.Index())
}

func TestFlow_ReansweringOverwrites(t *testing.T) {
	f := NewFlow(nil)
	require.NoError(t, f.Answer("Library"))
	require.NoError(t, f.Previous())
	require.NoError(t, f.Answer("Café"))

	assert.Equal(t, "Café", f.Responses()[models.KeyLocationType])
	assert.Equal(t, 1, f.Index())
}

func TestFlow_UnknownOption(t *testing.T) {
	f := NewFlow(nil)
	err := f.Answer("Moon base")

	assert.True(t, errors.Is(err, ErrUnknownOption))
	assert.Equal(t, 0, f.Index())
	assert.Empty(t, f.Responses()[models.KeyLocationType])
}

func TestFlow_RetakeFromSummary(t *testing.T) {
	saved := models.SurveyResponse{models.KeyNoiseLevel: "Silent"}
	f := NewFlow(saved)

	items := f.Summary()
	require.Len(t, items, len(Questions))
	assert.Equal(t, "Not answered", items[0].Answer)
	assert.Equal(t, "Silent", items[6].Answer)

	require.NoError(t, f.Retake())
	assert.Equal(t, StateQuestion, f.State())
	assert.Equal(t, 0, f.Index())
	assert.False(t, f.Responses().HasAnswers())
	assert.Equal(t, "Q 1/8", f.Progress())
}

func TestFlow_InvalidTransitions(t *testing.T) {
	summary := NewFlow(models.SurveyResponse{models.KeyLighting: "Some natural light"})
	assert.True(t, errors.Is(summary.Answer("Library"), ErrInvalidTransition))
	assert.True(t, errors.Is(summary.Previous(), ErrInvalidTransition))

	question := NewFlow(nil)
	err := question.Retake()
	assert.True(t, errors.Is(err, ErrInvalidTransition))
	assert.Equal(t, contextutils.ErrorCodeInvalidTransition, contextutils.GetErrorCode(err))

	assert.Error(t, question.complete())

	submitting := NewFlow(nil)
	answerAll(t, submitting)
	assert.True(t, errors.Is(submitting.Answer("Library"), ErrInvalidTransition))
	assert.Equal(t, "", submitting.Selected())
	assert.Equal(t, "", submitting.Progress())
}

func TestFlow_ResponsesIsCopy(t *testing.T) {
	f := NewFlow(nil)
	r := f.Responses()
	r[models.KeyLocationType] = "Library"

	assert.Empty(t, f.Responses()[models.KeyLocationType])
}

func TestSnapshotRestore(t *testing.T) {
	f := NewFlow(nil)
	require.NoError(t, f.Answer("Library"))
	require.NoError(t, f.Answer("Walking distance"))

	restored, err := Restore(f.Snapshot())
	require.NoError(t, err)
	assert.Equal(t, StateQuestion, restored.State())
	assert.Equal(t, 2, restored.Index())
	assert.Equal(t, f.Responses(), restored.Responses())

	require.NoError(t, restored.Previous())
	assert.Equal(t, "Walking distance", restored.Selected())
}

func TestSnapshotRestore_Summary(t *testing.T) {
	f := NewFlow(models.SurveyResponse{models.KeyLocationType: "Library"})

	restored, err := Restore(f.Snapshot())
	require.NoError(t, err)
	assert.Equal(t, StateSummary, restored.State())
	assert.Equal(t, "Library", restored.Saved()[models.KeyLocationType])
}

func TestRestore_Rejects(t *testing.T) {
	tests := []struct {
		name string
		snap Snapshot
	}{
		{"unknown state", Snapshot{State: "dancing"}},
		{"negative index", Snapshot{State: "question", Index: -1}},
		{"index past end", Snapshot{State: "question", Index: len(Questions)}},
		{"summary without answers", Snapshot{State: "summary"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Restore(tt.snap)
			assert.Nil(t, f)
			assert.True(t, errors.Is(err, contextutils.ErrInvalidInput))
		})
	}
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "submitting", StateSubmitting.String())
	assert.Equal(t, "state(9)", State(9).String())

	s, err := ParseState("complete")
	require.NoError(t, err)
	assert.Equal(t, StateComplete, s)
}
