package handlers

import (
	"context"
	"net/http"

	"spotfinder/internal/config"
	"spotfinder/internal/middleware"
	"spotfinder/internal/models"
	"spotfinder/internal/observability"
	"spotfinder/internal/preferences"

	"github.com/gin-gonic/gin"
)

// SpotClient is the backend API the web client uses
type SpotClient interface {
	ListStudySpots(ctx context.Context) ([]models.StudySpot, error)
	GetStudySpot(ctx context.Context, id int) (*models.StudySpot, error)
	GetRecommendations(ctx context.Context, prefs models.SurveyResponse) ([]models.StudySpot, error)
	ListReviews(ctx context.Context, spotID int) ([]models.Review, error)
	CreateReview(ctx context.Context, review models.NewReview) (*models.Review, error)
}

// page returns the template data every page shares, merged with data
func page(c *gin.Context, title, active string, data gin.H) gin.H {
	out := gin.H{
		"Title":     title,
		"Active":    active,
		"CSRFToken": middleware.CSRFToken(c),
	}
	for k, v := range data {
		out[k] = v
	}
	return out
}

// preferenceStore binds the surveyResponses cookie to the current request
func preferenceStore(c *gin.Context, cfg *config.Config, logger *observability.Logger) *preferences.CookieStore {
	return preferences.NewCookieStore(c.Writer, c.Request, cfg.Survey.CookieTTLDays, logger)
}

// HomeHandler renders the landing page
type HomeHandler struct {
	cfg    *config.Config
	logger *observability.Logger
}

// NewHomeHandler creates a home handler
func NewHomeHandler(cfg *config.Config, logger *observability.Logger) *HomeHandler {
	return &HomeHandler{cfg: cfg, logger: logger}
}

// Show renders the home page
func (h *HomeHandler) Show(c *gin.Context) {
	ctx, span := observability.TraceHandlerFunction(c.Request.Context(), "home")
	defer span.End()

	prefs := preferenceStore(c, h.cfg, h.logger).Load(ctx)
	c.HTML(http.StatusOK, "home.html", page(c, "Study Spot Finder", "home", gin.H{
		"HasPreferences": prefs.HasAnswers(),
	}))
}
