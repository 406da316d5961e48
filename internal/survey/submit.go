package survey

import (
	"context"
	"time"

	"spotfinder/internal/config"
	"spotfinder/internal/models"
	"spotfinder/internal/observability"
	"spotfinder/internal/preferences"

	"go.opentelemetry.io/otel/attribute"
)

// Recommender asks the backend for recommendations
type Recommender interface {
	GetRecommendations(ctx context.Context, prefs models.SurveyResponse) ([]models.StudySpot, error)
}

// Submitter runs the Submitting step: save, request recommendations, hold for the minimum duration
type Submitter struct {
	recommender Recommender
	logger      *observability.Logger
	minDuration time.Duration
	now         func() time.Time
	sleep       func(ctx context.Context, d time.Duration)
}

// SubmitterOption customizes a Submitter
type SubmitterOption func(*Submitter)

// WithMinDuration overrides the floor on the Submitting state
func WithMinDuration(d time.Duration) SubmitterOption {
	return func(s *Submitter) { s.minDuration = d }
}

// WithClock replaces the time source and the wait used for the floor
func WithClock(now func() time.Time, sleep func(ctx context.Context, d time.Duration)) SubmitterOption {
	return func(s *Submitter) {
		s.now = now
		s.sleep = sleep
	}
}

// NewSubmitter creates a submitter with the default 1.5 s floor
func NewSubmitter(recommender Recommender, logger *observability.Logger, opts ...SubmitterOption) *Submitter {
	s := &Submitter{
		recommender: recommender,
		logger:      logger,
		minDuration: config.DefaultMinSubmitDuration,
		now:         time.Now,
		sleep:       sleepContext,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit saves the answers, requests recommendations and moves the flow to Complete.
//
// The recommendation result is only logged; the flow completes whether or not the call
// succeeded, and never sooner than the minimum duration after Submit started. A cancelled
// ctx cuts the wait short but still completes the flow since the answers are already saved.
func (s *Submitter) Submit(ctx context.Context, flow *Flow, store preferences.Store) (err error) {
	if flow.State() != StateSubmitting {
		return flow.invalid("submit")
	}

	ctx, span := observability.TraceSurveyFunction(ctx, "submit")
	defer observability.FinishSpan(span, &err)

	start := s.now()
	answers := flow.Responses()

	if saveErr := store.Save(ctx, answers); saveErr != nil {
		s.logger.Error(ctx, "Failed to save survey preferences", saveErr)
	}

	recommended, recErr := s.recommender.GetRecommendations(ctx, answers)
	if recErr != nil {
		s.logger.Error(ctx, "Error fetching recommendation", recErr)
	} else {
		ids := make([]int, 0, len(recommended))
		for _, spot := range recommended {
			ids = append(ids, spot.ID)
		}
		span.SetAttributes(attribute.Int("survey.recommended_count", len(recommended)))
		s.logger.Info(ctx, "Recommended study spots", map[string]interface{}{"count": len(recommended), "ids": ids})
	}

	if remaining := s.minDuration - s.now().Sub(start); remaining > 0 {
		s.sleep(ctx, remaining)
	}

	return flow.complete()
}

// sleepContext waits for d or until ctx is done
func sleepContext(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}
