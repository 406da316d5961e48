package middleware

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"

	"spotfinder/internal/observability"
	contextutils "spotfinder/internal/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Session and form keys of the CSRF protection
const (
	CSRFSessionKey = "csrf_session_id"
	CSRFFormField  = "csrf_token"
	CSRFHeader     = "X-CSRF-Token"
	csrfTokenKey   = "csrf_token"
)

// CSRFGenerator derives form tokens from the session id with HMAC-SHA256.
// Tokens need no server-side storage.
type CSRFGenerator struct {
	secret []byte
}

// NewCSRFGenerator creates a generator keyed by secret
func NewCSRFGenerator(secret string) *CSRFGenerator {
	return &CSRFGenerator{secret: []byte(secret)}
}

// GenerateToken returns the token for sessionID
func (g *CSRFGenerator) GenerateToken(sessionID string) (string, error) {
	if sessionID == "" {
		return "", contextutils.WrapError(contextutils.ErrMissingRequired, "session id is required")
	}
	mac := hmac.New(sha256.New, g.secret)
	mac.Write([]byte(sessionID))
	return hex.EncodeToString(mac.Sum(nil)), nil
}

// ValidateToken reports whether token belongs to sessionID
func (g *CSRFGenerator) ValidateToken(sessionID, token string) bool {
	if sessionID == "" || token == "" {
		return false
	}
	expected, err := g.GenerateToken(sessionID)
	if err != nil {
		return false
	}
	return hmac.Equal([]byte(expected), []byte(token))
}

// CSRFProtect seeds a session id on every request and rejects unsafe methods
// whose csrf_token form field (or X-CSRF-Token header) does not match it.
// The token for the current request is available through CSRFToken.
func CSRFProtect(gen *CSRFGenerator, logger *observability.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		sessionID, _ := session.Get(CSRFSessionKey).(string)

		if isSafeMethod(c.Request.Method) {
			if sessionID == "" {
				sessionID = uuid.NewString()
				session.Set(CSRFSessionKey, sessionID)
				if err := session.Save(); err != nil {
					logger.Error(c.Request.Context(), "Failed to save session", err)
				}
			}
		} else {
			token := c.PostForm(CSRFFormField)
			if token == "" {
				token = c.GetHeader(CSRFHeader)
			}
			if !gen.ValidateToken(sessionID, token) {
				logger.Warn(c.Request.Context(), "Rejected request with invalid CSRF token", map[string]interface{}{
					"http.path": c.Request.URL.Path,
				})
				StandardizeAppError(c, contextutils.NewAppError(
					contextutils.ErrorCodeForbidden,
					contextutils.SeverityWarn,
					"Invalid or missing CSRF token",
					"Reload the page and try again",
				))
				c.Abort()
				return
			}
		}

		if token, err := gen.GenerateToken(sessionID); err == nil {
			c.Set(csrfTokenKey, token)
		}
		c.Next()
	}
}

// CSRFToken returns the token to embed in forms rendered for this request
func CSRFToken(c *gin.Context) string {
	return c.GetString(csrfTokenKey)
}

func isSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	default:
		return false
	}
}
