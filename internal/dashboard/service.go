package dashboard

import (
	"context"
	"fmt"

	"spotfinder/internal/models"
	"spotfinder/internal/observability"
)

// LoadErrorMessage is shown when the spot list cannot be fetched
const LoadErrorMessage = "Failed to load study spots. Please try again later."

// SpotSource is the part of the API client the dashboard needs
type SpotSource interface {
	ListStudySpots(ctx context.Context) ([]models.StudySpot, error)
	GetRecommendations(ctx context.Context, prefs models.SurveyResponse) ([]models.StudySpot, error)
}

// Service loads the dashboard
type Service struct {
	source SpotSource
	logger *observability.Logger
}

// NewService creates a dashboard service
func NewService(source SpotSource, logger *observability.Logger) *Service {
	return &Service{source: source, logger: logger}
}

// View is the loaded, unfiltered dashboard
type View struct {
	Recommended []models.StudySpot
	Remaining   []models.StudySpot
	Options     FilterOptions
	// Error is set, and both lists are empty, when the spot list could not be fetched
	Error string
	// Personalized is true when saved answers were sent for recommendations
	Personalized bool
}

// Result is a View after filters and sort
type Result struct {
	Recommended []models.StudySpot
	Remaining   []models.StudySpot
	Total       int

	// HasRecommendations is true when the unfiltered view had recommended spots
	HasRecommendations bool
}

// Load fetches the spot list and, only after it succeeds and when prefs has answers,
// the recommendations. A failed recommendation call leaves every spot in Remaining.
func (s *Service) Load(ctx context.Context, prefs models.SurveyResponse) (view View) {
	ctx, span := observability.TraceDashboardFunction(ctx, "load", observability.AttributeHasPreferences(prefs.HasAnswers()))
	defer span.End()

	spots, err := s.source.ListStudySpots(ctx)
	if err != nil {
		s.logger.Error(ctx, "Error fetching study spots", err)
		return View{Recommended: []models.StudySpot{}, Remaining: []models.StudySpot{}, Error: LoadErrorMessage}
	}
	span.SetAttributes(observability.AttributeSpotCount(len(spots)))

	var recommended []models.StudySpot
	if prefs.HasAnswers() {
		view.Personalized = true
		recs, err := s.source.GetRecommendations(ctx, prefs)
		if err != nil {
			s.logger.Warn(ctx, "Continuing without recommendations", map[string]interface{}{"error": err.Error()})
		} else {
			recommended = recs
		}
	}

	view.Recommended, view.Remaining = Partition(spots, recommended)
	view.Options = Options(spots)
	return view
}

// Apply filters and sorts both lists independently
func (v View) Apply(filters models.FilterState, key models.SortKey) Result {
	return Result{
		Recommended: ApplyFiltersAndSort(v.Recommended, filters, key),
		Remaining:   ApplyFiltersAndSort(v.Remaining, filters, key),
		Total:       len(v.Recommended) + len(v.Remaining),

		HasRecommendations: len(v.Recommended) > 0,
	}
}

// Empty reports whether no spot passed the filters
func (r Result) Empty() bool {
	return len(r.Recommended) == 0 && len(r.Remaining) == 0
}

// Summary renders the "Showing ..." line under the controls
func (r Result) Summary() string {
	if r.HasRecommendations {
		return fmt.Sprintf("Showing %d recommended spots and %d other spots (%d of %d total)",
			len(r.Recommended), len(r.Remaining), len(r.Recommended)+len(r.Remaining), r.Total)
	}
	return fmt.Sprintf("Showing %d of %d study spots", len(r.Remaining), r.Total)
}
