package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Star rating bounds for reviews
const (
	MinStars     = 1
	MaxStars     = 5
	DefaultStars = 5
)

// Review is a user review of a study spot. Reviews are immutable once created.
type Review struct {
	ID          int       `json:"id" yaml:"id"`
	StudySpotID int       `json:"studySpotId" yaml:"studySpotId"`
	Name        string    `json:"name" yaml:"name"`
	Stars       int       `json:"stars" yaml:"stars"`
	Review      string    `json:"review" yaml:"review"`
	CreatedAt   Timestamp `json:"created_at" yaml:"created_at"`
}

// NewReview is the request body of POST /reviews
type NewReview struct {
	StudySpotID int    `json:"studySpotId" validate:"required,gt=0"`
	Name        string `json:"name" validate:"required"`
	Stars       int    `json:"stars" validate:"gte=1,lte=5"`
	Review      string `json:"review" validate:"required"`
}

// ClampStars forces a rating into [MinStars, MaxStars]
func ClampStars(stars int) int {
	if stars < MinStars {
		return MinStars
	}
	if stars > MaxStars {
		return MaxStars
	}
	return stars
}

// timestampLayouts are tried in order when decoding created_at
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC1123,
}

// Timestamp is a server-assigned time. The backend formats it as "2006-01-02 15:04:05"
// while other deployments send RFC 3339, so decoding accepts either.
type Timestamp struct {
	time.Time
}

// UnmarshalJSON accepts null, an empty string or any of timestampLayouts
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("created_at must be a string: %w", err)
	}
	if s == "" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("unrecognised created_at %q", s)
}

// MarshalJSON writes RFC 3339, or null for the zero time
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Format(time.RFC3339))
}

// MarshalYAML writes RFC 3339, or null for the zero time
func (t Timestamp) MarshalYAML() (interface{}, error) {
	if t.IsZero() {
		return nil, nil
	}
	return t.Format(time.RFC3339), nil
}

// Display formats the timestamp for review lists
func (t Timestamp) Display() string {
	if t.IsZero() {
		return ""
	}
	return t.Format("Jan 2, 2006")
}
