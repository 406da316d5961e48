package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"spotfinder/internal/config"
	"spotfinder/internal/detail"
	"spotfinder/internal/models"
	"spotfinder/internal/observability"
	contextutils "spotfinder/internal/utils"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

const msgTooManyReviews = "Too many reviews submitted. Please try again later."

// SpotHandler renders the detail view of one spot and accepts reviews for it
type SpotHandler struct {
	client   SpotClient
	reviewer *detail.Reviewer
	cfg      *config.Config
	logger   *observability.Logger
}

// NewSpotHandler creates a spot handler
func NewSpotHandler(client SpotClient, cfg *config.Config, logger *observability.Logger) *SpotHandler {
	return &SpotHandler{
		client:   client,
		reviewer: detail.NewReviewer(client, logger, detail.WithNotificationDuration(cfg.Detail.NotificationDuration)),
		cfg:      cfg,
		logger:   logger,
	}
}

func spotIDParam(c *gin.Context) (int, error) {
	raw := c.Param("id")
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, contextutils.NewAppError(contextutils.ErrorCodeInvalidInput, contextutils.SeverityWarn,
			"Invalid study spot id", fmt.Sprintf("%q is not a positive integer", raw))
	}
	return id, nil
}

// Show loads the spot and its reviews concurrently and renders the detail page
func (h *SpotHandler) Show(c *gin.Context) {
	id, err := spotIDParam(c)
	if err != nil {
		renderErrorPage(c, err)
		return
	}

	ctx, span := observability.TraceDetailFunction(c.Request.Context(), "show", observability.AttributeSpotID(id))
	defer span.End()

	spot, reviews, err := h.load(ctx, id)
	if err != nil {
		span.RecordError(err)
		renderErrorPage(c, err)
		return
	}

	h.render(c, http.StatusOK, spot, reviews, detail.NewReviewForm(), nil)
}

func (h *SpotHandler) load(ctx context.Context, id int) (*models.StudySpot, []models.Review, error) {
	var (
		spot    *models.StudySpot
		reviews []models.Review
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		spot, err = h.client.GetStudySpot(gctx, id)
		return err
	})
	g.Go(func() error {
		reviews = h.reviewer.LoadReviews(gctx, id)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return spot, reviews, nil
}

// SubmitReview posts the review form and renders the page with the outcome. An accepted
// review shows the refetched list and a reset form; otherwise the typed form is kept with an
// error notification (422 when incomplete, 502 when the backend failed).
func (h *SpotHandler) SubmitReview(c *gin.Context) {
	id, err := spotIDParam(c)
	if err != nil {
		renderErrorPage(c, err)
		return
	}

	ctx, span := observability.TraceDetailFunction(c.Request.Context(), "submit_review", observability.AttributeSpotID(id))
	defer span.End()

	form := reviewFormFromRequest(c)
	outcome := h.reviewer.Submit(ctx, id, &form)
	if !outcome.Submitted {
		status := http.StatusBadGateway
		if form.Validate() != nil {
			status = http.StatusUnprocessableEntity
		}
		h.renderWithForm(ctx, c, status, id, form, outcome.Notification)
		return
	}

	spot, err := h.client.GetStudySpot(ctx, id)
	if err != nil {
		renderErrorPage(c, err)
		return
	}
	h.render(c, http.StatusOK, spot, outcome.Reviews, form, &outcome.Notification)
}

// RateLimited renders the spot with the typed form and a "too many reviews" notification
func (h *SpotHandler) RateLimited(c *gin.Context) {
	id, err := spotIDParam(c)
	if err != nil {
		renderErrorPage(c, err)
		return
	}
	n := h.reviewer.Notify(detail.KindError, msgTooManyReviews)
	h.renderWithForm(c.Request.Context(), c, http.StatusTooManyRequests, id, reviewFormFromRequest(c), n)
}

// renderWithForm reloads the spot and its reviews and renders them around a form that did not go through
func (h *SpotHandler) renderWithForm(ctx context.Context, c *gin.Context, status, id int, form detail.ReviewForm, n detail.Notification) {
	spot, reviews, err := h.load(ctx, id)
	if err != nil {
		renderErrorPage(c, err)
		return
	}
	h.render(c, status, spot, reviews, form, &n)
}

func reviewFormFromRequest(c *gin.Context) detail.ReviewForm {
	form := detail.NewReviewForm()
	form.Name = c.PostForm("name")
	form.Text = c.PostForm("review")
	if stars, err := strconv.Atoi(c.PostForm("stars")); err == nil {
		form.SetStars(stars)
	}
	return form
}

func (h *SpotHandler) render(c *gin.Context, status int, spot *models.StudySpot, reviews []models.Review, form detail.ReviewForm, notification *detail.Notification) {
	data := gin.H{
		"Spot":         spot,
		"Reviews":      reviews,
		"Form":         form,
		"Notification": notification,
		"Map": gin.H{
			"Token": h.cfg.Map.AccessToken,
			"Style": h.cfg.Map.Style,
			"Zoom":  h.cfg.Map.DetailZoom,
		},
		"AnimationMS": h.cfg.Detail.AnimationDuration.Milliseconds(),
	}
	if notification != nil {
		data["NotificationMS"] = notification.Remaining(time.Now()).Milliseconds()
	}
	c.HTML(status, "spot.html", page(c, spot.DisplayName(), "dashboard", data))
}

