package handlers

import (
	"net/http"

	"spotfinder/internal/config"
	"spotfinder/internal/mapview"
	"spotfinder/internal/models"
	"spotfinder/internal/observability"

	"github.com/gin-gonic/gin"
)

// MarkerJSON is one entry of GET /api/markers
type MarkerJSON struct {
	ID     int                 `json:"id"`
	Lat    float64             `json:"lat"`
	Lng    float64             `json:"lng"`
	Hover  string              `json:"hover"`
	Detail mapview.DetailPopup `json:"detail"`
}

// MarkersResponse is the body of GET /api/markers
type MarkersResponse struct {
	Markers []MarkerJSON `json:"markers"`
	Skipped []int        `json:"skipped"`
}

// MapHandler serves the map page and its marker data
type MapHandler struct {
	client SpotClient
	cfg    *config.Config
	logger *observability.Logger
}

// NewMapHandler creates a map handler
func NewMapHandler(client SpotClient, cfg *config.Config, logger *observability.Logger) *MapHandler {
	return &MapHandler{client: client, cfg: cfg, logger: logger}
}

// Show renders the map page; markers are loaded by the page script
func (h *MapHandler) Show(c *gin.Context) {
	c.HTML(http.StatusOK, "map.html", page(c, "Campus Map", "map", gin.H{
		"Map": gin.H{
			"Token":     h.cfg.Map.AccessToken,
			"Style":     h.cfg.Map.Style,
			"CenterLat": h.cfg.Map.CenterLat,
			"CenterLng": h.cfg.Map.CenterLng,
			"Zoom":      h.cfg.Map.Zoom,
			"Margin":    mapview.EdgeMargin,
		},
	}))
}

// Markers returns one marker per spot with both coordinates, with popup content
func (h *MapHandler) Markers(c *gin.Context) {
	ctx, span := observability.TraceHandlerFunction(c.Request.Context(), "markers")
	defer span.End()

	spots, err := h.client.ListStudySpots(ctx)
	if err != nil {
		span.RecordError(err)
		h.logger.Error(ctx, "Error fetching study spots", err)
		HandleAppError(c, err)
		return
	}

	set := mapview.NewMarkerSet(nil, h.logger)
	skipped := set.Rebuild(ctx, spots)
	c.JSON(http.StatusOK, markersResponse(set, skipped))
}

func markersResponse(set *mapview.MarkerSet, skipped []int) MarkersResponse {
	resp := MarkersResponse{Markers: make([]MarkerJSON, 0, set.Len()), Skipped: skipped}
	if resp.Skipped == nil {
		resp.Skipped = []int{}
	}
	for _, m := range set.Markers() {
		resp.Markers = append(resp.Markers, markerJSON(m.Spot, m.Position))
	}
	return resp
}

func markerJSON(spot models.StudySpot, pos mapview.LngLat) MarkerJSON {
	return MarkerJSON{
		ID:     spot.ID,
		Lat:    pos.Lat,
		Lng:    pos.Lng,
		Hover:  mapview.HoverContent(spot),
		Detail: mapview.DetailContent(spot),
	}
}
