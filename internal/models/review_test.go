package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReview_DecodeTimestampLayouts(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected time.Time
	}{
		{"mysql layout", `"2025-03-01 14:30:00"`, time.Date(2025, 3, 1, 14, 30, 0, 0, time.UTC)},
		{"rfc3339", `"2025-03-01T14:30:00Z"`, time.Date(2025, 3, 1, 14, 30, 0, 0, time.UTC)},
		{"null", `null`, time.Time{}},
		{"empty", `""`, time.Time{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var review Review
			payload := `{"id":1,"studySpotId":2,"name":"Ana","stars":4,"review":"Quiet","created_at":` + tt.value + `}`
			require.NoError(t, json.Unmarshal([]byte(payload), &review))
			assert.True(t, tt.expected.Equal(review.CreatedAt.Time))
			assert.Equal(t, 2, review.StudySpotID)
		})
	}
}

func TestReview_DecodeRejectsGarbageTimestamp(t *testing.T) {
	var review Review
	err := json.Unmarshal([]byte(`{"created_at":"yesterday"}`), &review)
	assert.Error(t, err)
}

func TestTimestamp_MarshalAndDisplay(t *testing.T) {
	ts := Timestamp{Time: time.Date(2025, 3, 1, 14, 30, 0, 0, time.UTC)}

	data, err := json.Marshal(ts)
	require.NoError(t, err)
	assert.Equal(t, `"2025-03-01T14:30:00Z"`, string(data))
	assert.Equal(t, "Mar 1, 2025", ts.Display())

	data, err = json.Marshal(Timestamp{})
	require.NoError(t, err)
	assert.Equal(t, "null", string(data))
	assert.Equal(t, "", Timestamp{}.Display())
}

func TestNewReview_JSONKeys(t *testing.T) {
	data, err := json.Marshal(NewReview{StudySpotID: 9, Name: "Kai", Stars: 5, Review: "Great"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"studySpotId":9,"name":"Kai","stars":5,"review":"Great"}`, string(data))
}

func TestClampStars(t *testing.T) {
	assert.Equal(t, 1, ClampStars(-3))
	assert.Equal(t, 1, ClampStars(0))
	assert.Equal(t, 3, ClampStars(3))
	assert.Equal(t, 5, ClampStars(9))
}
