package detail

import (
	"context"
	"time"

	"spotfinder/internal/config"
	"spotfinder/internal/models"
	"spotfinder/internal/observability"
)

// ReviewSource is the part of the API client the detail view needs
type ReviewSource interface {
	ListReviews(ctx context.Context, spotID int) ([]models.Review, error)
	CreateReview(ctx context.Context, review models.NewReview) (*models.Review, error)
}

// Outcome is the result of a submission
type Outcome struct {
	Notification Notification
	// Submitted is true when the backend accepted the review; Reviews then holds the refetched list
	Submitted bool
	Reviews   []models.Review
}

// Reviewer loads and submits reviews for the detail view
type Reviewer struct {
	source ReviewSource
	logger *observability.Logger
	ttl    time.Duration
	now    func() time.Time
}

// ReviewerOption configures a Reviewer
type ReviewerOption func(*Reviewer)

// WithNotificationDuration overrides how long notifications stay visible
func WithNotificationDuration(d time.Duration) ReviewerOption {
	return func(r *Reviewer) {
		if d > 0 {
			r.ttl = d
		}
	}
}

// WithNow replaces the clock used to stamp notifications
func WithNow(now func() time.Time) ReviewerOption {
	return func(r *Reviewer) { r.now = now }
}

// NewReviewer creates a reviewer
func NewReviewer(source ReviewSource, logger *observability.Logger, opts ...ReviewerOption) *Reviewer {
	r := &Reviewer{
		source: source,
		logger: logger,
		ttl:    config.DefaultNotificationDuration,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// LoadReviews returns the reviews of a spot. A failed fetch is logged and yields an empty list.
func (r *Reviewer) LoadReviews(ctx context.Context, spotID int) []models.Review {
	ctx, span := observability.TraceDetailFunction(ctx, "load_reviews", observability.AttributeSpotID(spotID))
	defer span.End()

	reviews, err := r.source.ListReviews(ctx, spotID)
	if err != nil {
		r.logger.Error(ctx, "Error fetching reviews", err, map[string]interface{}{"spot_id": spotID})
		return []models.Review{}
	}
	if reviews == nil {
		reviews = []models.Review{}
	}
	return reviews
}

// Submit validates form and posts it. An invalid form produces an error notification
// without touching the network. On success the form is reset and the review list is
// fetched again in full. On failure the form keeps what the user typed.
func (r *Reviewer) Submit(ctx context.Context, spotID int, form *ReviewForm) Outcome {
	ctx, span := observability.TraceDetailFunction(ctx, "submit_review", observability.AttributeSpotID(spotID))
	defer span.End()

	if err := form.Validate(); err != nil {
		r.logger.Debug(ctx, "Rejected incomplete review", map[string]interface{}{"spot_id": spotID})
		return Outcome{Notification: r.notify(KindError, MessageIncomplete)}
	}

	if _, err := r.source.CreateReview(ctx, form.Request(spotID)); err != nil {
		span.RecordError(err)
		r.logger.Error(ctx, "Error submitting review", err, map[string]interface{}{"spot_id": spotID})
		return Outcome{Notification: r.notify(KindError, MessageReviewFailed)}
	}

	*form = NewReviewForm()
	return Outcome{
		Notification: r.notify(KindSuccess, MessageReviewSubmitted),
		Submitted:    true,
		Reviews:      r.LoadReviews(ctx, spotID),
	}
}

// Notify builds a notification with the reviewer's clock and duration
func (r *Reviewer) Notify(kind Kind, message string) Notification {
	return r.notify(kind, message)
}

func (r *Reviewer) notify(kind Kind, message string) Notification {
	return NewNotification(kind, message, r.now(), r.ttl)
}
