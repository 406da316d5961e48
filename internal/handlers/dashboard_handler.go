package handlers

import (
	"net/http"

	"spotfinder/internal/config"
	"spotfinder/internal/dashboard"
	"spotfinder/internal/models"
	"spotfinder/internal/observability"

	"github.com/gin-gonic/gin"
)

// DashboardHandler renders the recommended and remaining spot lists
type DashboardHandler struct {
	service *dashboard.Service
	cfg     *config.Config
	logger  *observability.Logger
}

// NewDashboardHandler creates a dashboard handler
func NewDashboardHandler(source dashboard.SpotSource, cfg *config.Config, logger *observability.Logger) *DashboardHandler {
	return &DashboardHandler{
		service: dashboard.NewService(source, logger),
		cfg:     cfg,
		logger:  logger,
	}
}

// Show loads the spots and applies the filters and sort key from the query string
func (h *DashboardHandler) Show(c *gin.Context) {
	var filters models.FilterState
	if err := c.ShouldBindQuery(&filters); err != nil {
		filters = models.DefaultFilterState()
	}
	filters = filters.Normalize()
	key := models.ParseSortKey(c.Query("sort"))

	ctx, span := observability.TraceDashboardFunction(c.Request.Context(), "show",
		observability.AttributeSortKey(string(key)))
	defer span.End()

	prefs := preferenceStore(c, h.cfg, h.logger).Load(ctx)
	view := h.service.Load(ctx, prefs)
	result := view.Apply(filters, key)

	c.HTML(http.StatusOK, "dashboard.html", page(c, "Study Spots", "dashboard", gin.H{
		"Error":          view.Error,
		"Personalized":   view.Personalized,
		"Options":        view.Options,
		"Filters":        filters,
		"FiltersActive":  !filters.IsDefault() || key != models.DefaultSortKey,
		"Sort":           string(key),
		"Result":         result,
		"Summary":        result.Summary(),
		"FilterAll":      models.FilterAll,
		"ShowRecommends": result.HasRecommendations,
	}))
}
