package config

import "time"

// Configuration file lookup
const (
	ConfigFileEnv     = "SPOTFINDER_CONFIG_FILE"
	DefaultConfigFile = "config.yaml"
)

// Server defaults
const (
	DefaultPort          = "3000"
	DefaultSessionSecret = "change-me-in-production-please"
	DefaultAPIBaseURL    = "http://localhost:5001"

	DefaultReviewRateLimit  = 10
	DefaultReviewRateWindow = time.Minute
)

// Timeout constants
const (
	// HTTP timeouts
	DefaultHTTPTimeout      = 15 * time.Second
	ServerShutdownTimeout   = 30 * time.Second
	ProviderShutdownTimeout = 5 * time.Second
)

// UI timing constants
const (
	// DefaultMinSubmitDuration keeps the "generating recommendations" screen up for at least this long.
	DefaultMinSubmitDuration = 1500 * time.Millisecond
	// DefaultNotificationDuration is how long a review toast stays visible.
	DefaultNotificationDuration = 4 * time.Second
	// DefaultAnimationDuration is the terminal client's modal expand/collapse time.
	DefaultAnimationDuration = 400 * time.Millisecond
)

// Map defaults (University of Waterloo campus)
const (
	DefaultMapStyle     = "mapbox://styles/mapbox/streets-v12"
	DefaultMapCenterLat = 43.4723
	DefaultMapCenterLng = -80.5426
	DefaultMapZoom      = 15
	DefaultDetailZoom   = 16
)

// Preference cookie
const (
	PreferenceCookieName    = "surveyResponses"
	PreferenceCookiePath    = "/"
	PreferenceCookieTTLDays = 30
)

// Session configuration constants
const (
	SessionPath     = "/"
	SessionHTTPOnly = true
	SessionSecure   = false // Set to true in production with HTTPS
	SessionMaxAge   = 24 * time.Hour

	// Session name
	SessionName = "spotfinder-session"
)

// Security configuration constants
const (
	// DefaultCSP allows the map provider's scripts, styles, tiles and workers.
	DefaultCSP = "default-src 'self'; style-src 'self' 'unsafe-inline' https://api.mapbox.com; script-src 'self' 'unsafe-inline' https://api.mapbox.com; img-src 'self' data: blob: https://*.mapbox.com; connect-src 'self' https://*.mapbox.com https://events.mapbox.com; worker-src 'self' blob:;"
)
