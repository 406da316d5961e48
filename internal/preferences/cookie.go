package preferences

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"spotfinder/internal/config"
	"spotfinder/internal/models"
	"spotfinder/internal/observability"
	contextutils "spotfinder/internal/utils"
)

// CookieStore keeps the survey response in the surveyResponses cookie of one request/response pair
type CookieStore struct {
	r       *http.Request
	w       http.ResponseWriter
	ttlDays int
	logger  *observability.Logger
	now     func() time.Time

	// written holds the value saved during this request so a later Load sees it
	written models.SurveyResponse
}

// NewCookieStore binds a store to the current request. ttlDays <= 0 uses the default of 30.
func NewCookieStore(w http.ResponseWriter, r *http.Request, ttlDays int, logger *observability.Logger) *CookieStore {
	if ttlDays <= 0 {
		ttlDays = config.PreferenceCookieTTLDays
	}
	return &CookieStore{r: r, w: w, ttlDays: ttlDays, logger: logger, now: time.Now}
}

// Load decodes the cookie. Absence and malformed values both yield nil.
func (s *CookieStore) Load(ctx context.Context) models.SurveyResponse {
	if s.written != nil {
		return s.written.Clone()
	}

	cookie, err := s.r.Cookie(config.PreferenceCookieName)
	if err != nil {
		return nil
	}

	resp, err := DecodeCookieValue(cookie.Value)
	if err != nil {
		s.logger.Debug(ctx, "Ignoring unreadable preference cookie", map[string]interface{}{
			"error": err.Error(),
			"code":  string(contextutils.ErrorCodeMalformedState),
		})
		return nil
	}
	return resp
}

// Save writes the cookie with an expiry ttlDays from now and root path
func (s *CookieStore) Save(ctx context.Context, prefs models.SurveyResponse) error {
	value, err := EncodeCookieValue(prefs)
	if err != nil {
		return contextutils.WrapError(err, "failed to encode preferences")
	}

	expires := s.now().Add(time.Duration(s.ttlDays) * 24 * time.Hour)
	http.SetCookie(s.w, &http.Cookie{
		Name:     config.PreferenceCookieName,
		Value:    value,
		Path:     config.PreferenceCookiePath,
		Expires:  expires,
		MaxAge:   s.ttlDays * 24 * 60 * 60,
		SameSite: http.SameSiteLaxMode,
	})
	s.written = prefs.Clone()

	s.logger.Debug(ctx, "Saved preference cookie", map[string]interface{}{"expires": expires.Format(time.RFC3339)})
	return nil
}

// EncodeCookieValue serializes prefs as JSON escaped the way browsers' encodeURIComponent does,
// so a space is %20 and never +
func EncodeCookieValue(prefs models.SurveyResponse) (string, error) {
	if prefs == nil {
		return "", errors.New("nil survey response")
	}
	data, err := json.Marshal(prefs)
	if err != nil {
		return "", err
	}
	return escapeComponent(string(data)), nil
}

const upperHex = "0123456789ABCDEF"

// escapeComponent percent-encodes every UTF-8 byte except A-Z a-z 0-9 and -_.!~*'()
func escapeComponent(s string) string {
	var b strings.Builder
	b.Grow(len(s) * 3)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if componentSafe(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperHex[c>>4])
		b.WriteByte(upperHex[c&0x0f])
	}
	return b.String()
}

func componentSafe(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return strings.IndexByte("-_.!~*'()", c) >= 0
}

// DecodeCookieValue reverses EncodeCookieValue. Every failure is a *MalformedStateError.
func DecodeCookieValue(value string) (models.SurveyResponse, error) {
	// PathUnescape leaves '+' alone, matching decodeURIComponent
	raw, err := url.PathUnescape(value)
	if err != nil {
		return nil, &MalformedStateError{Source: "preference cookie", Cause: err}
	}
	return decodeResponse("preference cookie", []byte(raw))
}
