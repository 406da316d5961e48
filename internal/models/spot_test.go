package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStudySpot_UnmarshalBusyness(t *testing.T) {
	tests := []struct {
		name     string
		payload  string
		expected   *Busyness
		unreadable string
	}{
		{name: "integer", payload: `{"id":1,"busyness_estimate":3}`, expected: NewBusyness(3)},
		{name: "float truncated", payload: `{"id":1,"busyness_estimate":4.0}`, expected: NewBusyness(4)},
		{name: "numeric string", payload: `{"id":1,"busyness_estimate":"5"}`, expected: NewBusyness(5)},
		{name: "null", payload: `{"id":1,"busyness_estimate":null}`, expected: nil},
		{name: "absent", payload: `{"id":1}`, expected: nil},
		{name: "word", payload: `{"id":1,"busyness_estimate":"busy"}`, unreadable: `"busy"`},
		{name: "empty string", payload: `{"id":1,"busyness_estimate":""}`, unreadable: `""`},
		{name: "boolean", payload: `{"id":1,"busyness_estimate":true}`, unreadable: `true`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var spot StudySpot
			require.NoError(t, json.Unmarshal([]byte(tt.payload), &spot))
			assert.Equal(t, 1, spot.ID)
			assert.Equal(t, tt.expected, spot.BusynessEstimate)
			assert.Equal(t, tt.unreadable, spot.UnreadableBusyness)
		})
	}
}

func TestStudySpot_UnreadableBusynessKeepsOtherSpots(t *testing.T) {
	payload := `[
		{"id":1,"location":"DC Library","busyness_estimate":2},
		{"id":2,"location":"SLC","busyness_estimate":"","noise_level":"Quiet"},
		{"id":3,"location":"E7","busyness_estimate":"4"}
	]`

	var spots []StudySpot
	require.NoError(t, json.Unmarshal([]byte(payload), &spots))
	require.Len(t, spots, 3)

	assert.Equal(t, 2, spots[0].BusynessValue())
	assert.Nil(t, spots[1].BusynessEstimate)
	assert.Equal(t, "N/A", spots[1].BusynessLabel())
	assert.Equal(t, "Quiet", spots[1].NoiseLevel)
	assert.Equal(t, 4, spots[2].BusynessValue())
}

func TestStudySpot_DecodeReusedValue(t *testing.T) {
	spot := StudySpot{BusynessEstimate: NewBusyness(3), UnreadableBusyness: "x"}
	require.NoError(t, json.Unmarshal([]byte(`{"id":9}`), &spot))
	assert.Nil(t, spot.BusynessEstimate)
	assert.Empty(t, spot.UnreadableBusyness)
}

func TestStudySpot_DecodeFullRecord(t *testing.T) {
	payload := `{
		"id": 12,
		"location": "Dana Porter Library",
		"latitude": 43.4698,
		"longitude": -80.5422,
		"busyness_estimate": 2,
		"noise_level": "Quiet",
		"power_options": "Y",
		"nearby_food_drink_options": "Coffee shops",
		"natural_lighting": "Bright",
		"match_score": 87
	}`

	var spot StudySpot
	require.NoError(t, json.Unmarshal([]byte(payload), &spot))

	assert.Equal(t, 12, spot.ID)
	assert.Equal(t, "Dana Porter Library", spot.DisplayName())
	assert.True(t, spot.HasCoordinates())
	assert.InDelta(t, 43.4698, *spot.Latitude, 1e-9)
	assert.Equal(t, 2, spot.BusynessValue())
	assert.Equal(t, "2/5", spot.BusynessLabel())
	require.NotNil(t, spot.MatchScore)
	assert.Equal(t, 87, *spot.MatchScore)
}

func TestStudySpot_Helpers(t *testing.T) {
	lat := 43.47
	spot := StudySpot{ID: 3, Location: "  ", Latitude: &lat}

	assert.Equal(t, DefaultSpotName, spot.DisplayName())
	assert.False(t, spot.HasCoordinates())
	assert.Equal(t, 0, spot.BusynessValue())
	assert.Equal(t, "N/A", spot.BusynessLabel())
}

func TestStudySpot_MarshalOmitsAbsentFields(t *testing.T) {
	data, err := json.Marshal(StudySpot{ID: 1, Location: "SLC"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":1,"location":"SLC"}`, string(data))
}

func TestBusyness_String(t *testing.T) {
	assert.Equal(t, "0/5", Busyness(0).String())
	assert.Equal(t, "5/5", Busyness(5).String())
	assert.Equal(t, "7", Busyness(7).String())
}

func TestParseBusyness(t *testing.T) {
	b, err := ParseBusyness(" 3 ")
	require.NoError(t, err)
	assert.Equal(t, Busyness(3), b)

	b, err = ParseBusyness("2.9")
	require.NoError(t, err)
	assert.Equal(t, Busyness(2), b)

	_, err = ParseBusyness("")
	assert.Error(t, err)
	_, err = ParseBusyness("NaN")
	assert.Error(t, err)
}

func TestPowerLabel(t *testing.T) {
	assert.Equal(t, "Yes", PowerLabel("Y"))
	assert.Equal(t, "No", PowerLabel("N"))
	assert.Equal(t, "Limited", PowerLabel("Limited"))
	assert.Equal(t, "N/A", PowerLabel(""))
}

func TestSpotPatch_OnlySetFields(t *testing.T) {
	noise := "Loud"
	data, err := json.Marshal(SpotPatch{NoiseLevel: &noise})
	require.NoError(t, err)
	assert.JSONEq(t, `{"noise_level":"Loud"}`, string(data))
}
