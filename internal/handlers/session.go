package handlers

import (
	"encoding/json"

	"spotfinder/internal/detail"
	"spotfinder/internal/survey"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// Session keys. Values are stored as JSON strings so the cookie codec needs no type registration.
const (
	surveyFlowKey = "survey_flow"
	flashKey      = "flash"
)

// Flash is a one-shot notification carried across a redirect
type Flash struct {
	Notification detail.Notification `json:"notification"`
}

// loadFlow restores the survey wizard from the session. ok is false when no usable snapshot exists.
func loadFlow(c *gin.Context) (*survey.Flow, bool) {
	raw, _ := sessions.Default(c).Get(surveyFlowKey).(string)
	if raw == "" {
		return nil, false
	}
	var snap survey.Snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		return nil, false
	}
	flow, err := survey.Restore(snap)
	if err != nil {
		return nil, false
	}
	return flow, true
}

// saveFlow stores the survey wizard in the session
func saveFlow(c *gin.Context, flow *survey.Flow) error {
	raw, err := json.Marshal(flow.Snapshot())
	if err != nil {
		return err
	}
	session := sessions.Default(c)
	session.Set(surveyFlowKey, string(raw))
	return session.Save()
}

// clearFlow drops the stored wizard so the next visit starts from the saved preferences
func clearFlow(c *gin.Context) error {
	session := sessions.Default(c)
	session.Delete(surveyFlowKey)
	return session.Save()
}

// setFlash stores a message for the next page
func setFlash(c *gin.Context, flash Flash) error {
	raw, err := json.Marshal(flash)
	if err != nil {
		return err
	}
	session := sessions.Default(c)
	session.Set(flashKey, string(raw))
	return session.Save()
}

// popFlash returns and removes the pending message, or nil
func popFlash(c *gin.Context) *Flash {
	session := sessions.Default(c)
	raw, _ := session.Get(flashKey).(string)
	if raw == "" {
		return nil
	}
	session.Delete(flashKey)
	_ = session.Save()

	var flash Flash
	if err := json.Unmarshal([]byte(raw), &flash); err != nil {
		return nil
	}
	return &flash
}
