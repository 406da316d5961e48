package handlers

import (
	"net/http"
	"time"

	"spotfinder/internal/config"
	"spotfinder/internal/detail"
	"spotfinder/internal/observability"
	"spotfinder/internal/survey"

	"github.com/gin-gonic/gin"
)

// Messages shown when a survey action is refused
const (
	msgChooseOption  = "Please choose one of the options."
	msgSurveyExpired = "Your survey session expired. Please continue from here."
)

// SurveyHandler runs the preference wizard. The flow lives in the session between
// requests; the answers are written to the surveyResponses cookie on completion.
type SurveyHandler struct {
	submitter *survey.Submitter
	cfg       *config.Config
	logger    *observability.Logger
}

// NewSurveyHandler creates a survey handler
func NewSurveyHandler(recommender survey.Recommender, cfg *config.Config, logger *observability.Logger) *SurveyHandler {
	return &SurveyHandler{
		submitter: survey.NewSubmitter(recommender, logger, survey.WithMinDuration(cfg.Survey.MinSubmitDuration)),
		cfg:       cfg,
		logger:    logger,
	}
}

// currentFlow returns the wizard from the session, or a new one seeded with the saved answers
func (h *SurveyHandler) currentFlow(c *gin.Context) (*survey.Flow, bool) {
	if flow, ok := loadFlow(c); ok {
		return flow, true
	}
	saved := preferenceStore(c, h.cfg, h.logger).Load(c.Request.Context())
	return survey.NewFlow(saved), false
}

// Show renders the summary, the current question or the completion page
func (h *SurveyHandler) Show(c *gin.Context) {
	ctx, span := observability.TraceSurveyFunction(c.Request.Context(), "show")
	defer span.End()

	flow, _ := h.currentFlow(c)
	if flow.State() == survey.StateComplete {
		if err := clearFlow(c); err != nil {
			h.logger.Error(ctx, "Failed to clear survey session", err)
		}
	}

	data := gin.H{
		"State":     flow.State().String(),
		"Total":     len(survey.Questions),
		"Summary":   flow.Summary(),
		"Progress":  flow.Progress(),
		"CanGoBack": flow.CanGoBack(),
		"Selected":  flow.Selected(),
	}
	if q, ok := flow.Question(); ok {
		data["Question"] = q
		data["Number"] = flow.Index() + 1
	}
	if flash := popFlash(c); flash != nil && flash.Notification.Active(time.Now()) {
		data["Notification"] = flash.Notification
	}
	c.HTML(http.StatusOK, "survey.html", page(c, "Study Preferences", "survey", data))
}

// Retake leaves the summary for the first question
func (h *SurveyHandler) Retake(c *gin.Context) {
	h.step(c, "retake", func(flow *survey.Flow) error { return flow.Retake() })
}

// Previous goes back one question, keeping the answer given there
func (h *SurveyHandler) Previous(c *gin.Context) {
	h.step(c, "previous", func(flow *survey.Flow) error { return flow.Previous() })
}

// Answer records the chosen option. After the last question the answers are saved,
// recommendations are requested and the flow completes before the redirect.
func (h *SurveyHandler) Answer(c *gin.Context) {
	option := c.PostForm("option")
	h.step(c, "answer", func(flow *survey.Flow) error {
		if err := flow.Answer(option); err != nil {
			return err
		}
		if flow.State() == survey.StateSubmitting {
			return h.submitter.Submit(c.Request.Context(), flow, preferenceStore(c, h.cfg, h.logger))
		}
		return nil
	})
}

func (h *SurveyHandler) step(c *gin.Context, action string, apply func(*survey.Flow) error) {
	ctx, span := observability.TraceSurveyFunction(c.Request.Context(), action)
	defer span.End()

	flow, restored := h.currentFlow(c)
	if err := apply(flow); err != nil {
		span.RecordError(err)
		h.logger.Warn(ctx, "Survey action refused", map[string]interface{}{
			"action": action,
			"state":  flow.State().String(),
			"error":  err.Error(),
		})
		msg := msgChooseOption
		if !restored {
			msg = msgSurveyExpired
		}
		h.flash(c, msg)
	}
	if err := saveFlow(c, flow); err != nil {
		h.logger.Error(ctx, "Failed to save survey session", err)
	}
	c.Redirect(http.StatusSeeOther, "/survey")
}

func (h *SurveyHandler) flash(c *gin.Context, message string) {
	n := detail.NewNotification(detail.KindError, message, time.Now(), h.cfg.Detail.NotificationDuration)
	if err := setFlash(c, Flash{Notification: n}); err != nil {
		h.logger.Error(c.Request.Context(), "Failed to store notification", err)
	}
}
