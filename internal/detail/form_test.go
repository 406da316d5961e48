package detail

import (
	"errors"
	"testing"
	"time"

	"spotfinder/internal/models"
	contextutils "spotfinder/internal/utils"

	"github.com/stretchr/testify/assert"
)

func TestReviewForm_Defaults(t *testing.T) {
	f := NewReviewForm()
	assert.Equal(t, 5, f.Stars)
	assert.Empty(t, f.Name)
	assert.Empty(t, f.Text)
}

func TestReviewForm_SetStarsClamps(t *testing.T) {
	f := NewReviewForm()
	for _, tt := range []struct{ in, want int }{{0, 1}, {-3, 1}, {1, 1}, {3, 3}, {5, 5}, {9, 5}} {
		f.SetStars(tt.in)
		assert.Equal(t, tt.want, f.Stars, "SetStars(%d)", tt.in)
	}
}

func TestReviewForm_Validate(t *testing.T) {
	tests := []struct {
		name    string
		form    ReviewForm
		wantErr bool
	}{
		{"complete", ReviewForm{Name: "Ana", Stars: 4, Text: "Quiet and bright"}, false},
		{"missing name", ReviewForm{Name: "", Stars: 4, Text: "ok"}, true},
		{"whitespace name", ReviewForm{Name: "   ", Stars: 4, Text: "ok"}, true},
		{"whitespace review", ReviewForm{Name: "Ana", Stars: 4, Text: "\n\t "}, true},
		{"out of range stars are clamped", ReviewForm{Name: "Ana", Stars: 11, Text: "ok"}, false},
		{"zero stars default", ReviewForm{Name: "Ana", Text: "ok"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.form.Validate()
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			assert.Error(t, err)
			assert.True(t, errors.Is(err, contextutils.ErrMissingRequired))
			assert.Contains(t, err.Error(), MessageIncomplete)
		})
	}
}

func TestReviewForm_Request(t *testing.T) {
	f := ReviewForm{Name: "  Ana ", Stars: 0, Text: " Great outlets "}

	got := f.Request(12)

	assert.Equal(t, models.NewReview{StudySpotID: 12, Name: "Ana", Stars: 5, Review: "Great outlets"}, got)
}

func TestNotification_Active(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	n := NewNotification(KindSuccess, MessageReviewSubmitted, now, 4*time.Second)

	assert.True(t, n.Active(now))
	assert.True(t, n.Active(now.Add(3999*time.Millisecond)))
	assert.False(t, n.Active(now.Add(4*time.Second)))
	assert.Equal(t, time.Second, n.Remaining(now.Add(3*time.Second)))
	assert.Zero(t, n.Remaining(now.Add(time.Minute)))
	assert.False(t, Notification{}.Active(now))
}
