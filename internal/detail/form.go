package detail

import (
	"strings"

	"spotfinder/internal/models"
	contextutils "spotfinder/internal/utils"
)

// ReviewForm is the review entry form of the detail view
type ReviewForm struct {
	Name  string `json:"name" validate:"required"`
	Stars int    `json:"stars" validate:"gte=1,lte=5"`
	Text  string `json:"review" validate:"required"`
}

// NewReviewForm returns an empty form with the default rating
func NewReviewForm() ReviewForm {
	return ReviewForm{Stars: models.DefaultStars}
}

// SetStars sets the rating, clamped to the allowed range
func (f *ReviewForm) SetStars(stars int) {
	f.Stars = models.ClampStars(stars)
}

// Normalized returns the form with trimmed text and a clamped rating.
// A zero rating, as sent by a form without a selection, becomes the default.
func (f ReviewForm) Normalized() ReviewForm {
	stars := f.Stars
	if stars == 0 {
		stars = models.DefaultStars
	}
	return ReviewForm{
		Name:  strings.TrimSpace(f.Name),
		Stars: models.ClampStars(stars),
		Text:  strings.TrimSpace(f.Text),
	}
}

// Validate reports a missing name or review text after trimming
func (f ReviewForm) Validate() error {
	if err := contextutils.ValidateStruct(f.Normalized()); err != nil {
		var details string
		if appErr, ok := err.(*contextutils.AppError); ok {
			details = appErr.Details
		}
		return contextutils.NewAppErrorWithCause(
			contextutils.ErrorCodeMissingRequired,
			contextutils.SeverityWarn,
			MessageIncomplete,
			details,
			err,
		)
	}
	return nil
}

// Request builds the POST /reviews body for spotID
func (f ReviewForm) Request(spotID int) models.NewReview {
	n := f.Normalized()
	return models.NewReview{
		StudySpotID: spotID,
		Name:        n.Name,
		Stars:       n.Stars,
		Review:      n.Text,
	}
}
