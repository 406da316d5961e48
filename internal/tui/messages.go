package tui

import (
	"context"

	"spotfinder/internal/dashboard"
	"spotfinder/internal/detail"
	"spotfinder/internal/models"
	"spotfinder/internal/survey"
)

// Client is the backend API the terminal client uses
type Client interface {
	ListStudySpots(ctx context.Context) ([]models.StudySpot, error)
	GetRecommendations(ctx context.Context, prefs models.SurveyResponse) ([]models.StudySpot, error)
	ListReviews(ctx context.Context, spotID int) ([]models.Review, error)
	CreateReview(ctx context.Context, review models.NewReview) (*models.Review, error)
}

// Page is one of the top-level views
type Page int

// Pages in tab order
const (
	PageDashboard Page = iota
	PageSurvey
	PageMap
	pageCount
)

var pageNames = [pageCount]string{"Dashboard", "Preferences", "Map"}

// String returns the tab label
func (p Page) String() string {
	if p < 0 || p >= pageCount {
		return "Unknown"
	}
	return pageNames[p]
}

type dashboardLoadedMsg struct {
	view dashboard.View
}

// openDetailMsg asks the app to open the detail modal for a dashboard card
type openDetailMsg struct {
	spot   models.StudySpot
	origin models.Rect
}

type surveySubmittedMsg struct {
	flow *survey.Flow
	err  error
}

// surveyDoneMsg is sent when the user leaves the completion screen
type surveyDoneMsg struct{}

type reviewsLoadedMsg struct {
	gen     uint64
	reviews []models.Review
}

type reviewSubmittedMsg struct {
	gen     uint64
	outcome detail.Outcome
	form    detail.ReviewForm
}

// animationEndedMsg completes the modal phase it was started for
type animationEndedMsg struct {
	gen   uint64
	phase detail.ModalState
}

type notificationExpiredMsg struct {
	id int
}

type mapSpotsMsg struct {
	spots []models.StudySpot
	err   error
}
