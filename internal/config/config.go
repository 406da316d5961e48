// Package config handles application configuration loading from a YAML file and environment variables.
package config

import (
	"errors"
	"io/fs"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	contextutils "spotfinder/internal/utils"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	Server ServerConfig `json:"server" yaml:"server"`

	// Study spot backend the client talks to
	API APIConfig `json:"api" yaml:"api"`

	// Map provider settings
	Map MapConfig `json:"map" yaml:"map"`

	// Survey wizard behaviour
	Survey SurveyConfig `json:"survey" yaml:"survey"`

	// Detail view behaviour
	Detail DetailConfig `json:"detail" yaml:"detail"`

	// OpenTelemetry Configuration
	OpenTelemetry OpenTelemetryConfig `json:"open_telemetry" yaml:"open_telemetry"`

	// Internal fields
	IsTest bool `json:"is_test" yaml:"is_test"`
}

// ServerConfig represents server configuration
type ServerConfig struct {
	Port          string   `json:"port" yaml:"port" validate:"required,numeric"`
	SessionSecret string   `json:"session_secret" yaml:"session_secret" validate:"required,min=16"`
	Debug         bool     `json:"debug" yaml:"debug"`
	LogLevel      string   `json:"log_level" yaml:"log_level" validate:"omitempty,oneof=debug info warn error"`
	CORSOrigins   []string `json:"cors_origins" yaml:"cors_origins"`
	// ReviewRateLimit is the number of review submissions one client IP may make per ReviewRateWindow.
	ReviewRateLimit  int           `json:"review_rate_limit" yaml:"review_rate_limit" validate:"gte=0"`
	ReviewRateWindow time.Duration `json:"review_rate_window" yaml:"review_rate_window"`
}

// APIConfig points the client at the study spot REST backend
type APIConfig struct {
	BaseURL string        `json:"base_url" yaml:"base_url" validate:"required,url"`
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

// MapConfig holds map-provider settings; the access token is supplied externally
type MapConfig struct {
	AccessToken string  `json:"access_token" yaml:"access_token"`
	Style       string  `json:"style" yaml:"style"`
	CenterLat   float64 `json:"center_lat" yaml:"center_lat" validate:"gte=-90,lte=90"`
	CenterLng   float64 `json:"center_lng" yaml:"center_lng" validate:"gte=-180,lte=180"`
	Zoom        float64 `json:"zoom" yaml:"zoom" validate:"gte=0,lte=22"`
	DetailZoom  float64 `json:"detail_zoom" yaml:"detail_zoom" validate:"gte=0,lte=22"`
}

// SurveyConfig controls the preference wizard
type SurveyConfig struct {
	// MinSubmitDuration is the floor on the Submitting state, so completion never looks instantaneous.
	MinSubmitDuration time.Duration `json:"min_submit_duration" yaml:"min_submit_duration"`
	CookieTTLDays     int           `json:"cookie_ttl_days" yaml:"cookie_ttl_days" validate:"gte=0"`
	// PreferencesFile is where the terminal client keeps its preferences.
	PreferencesFile string `json:"preferences_file" yaml:"preferences_file"`
}

// DetailConfig controls the spot detail view
type DetailConfig struct {
	NotificationDuration time.Duration `json:"notification_duration" yaml:"notification_duration"`
	// AnimationDuration drives the terminal client's open/close animation; the web client uses CSS animation events.
	AnimationDuration time.Duration `json:"animation_duration" yaml:"animation_duration"`
}

// OpenTelemetryConfig holds all OpenTelemetry-related configuration
type OpenTelemetryConfig struct {
	Endpoint       string            `json:"endpoint" yaml:"endpoint"`               // Default: "localhost:4317"
	Protocol       string            `json:"protocol" yaml:"protocol"`               // "grpc" or "http", default: "grpc"
	Insecure       bool              `json:"insecure" yaml:"insecure"`               // Default: true (for localhost)
	Headers        map[string]string `json:"headers" yaml:"headers"`                 // For authenticated endpoints
	ServiceName    string            `json:"service_name" yaml:"service_name"`       // Default: "spotfinder-web"
	ServiceVersion string            `json:"service_version" yaml:"service_version"` // From version package
	EnableTracing  bool              `json:"enable_tracing" yaml:"enable_tracing"`
	EnableMetrics  bool              `json:"enable_metrics" yaml:"enable_metrics"`
	EnableLogging  bool              `json:"enable_logging" yaml:"enable_logging"`
	UseAutoSDK     bool              `json:"use_auto_sdk" yaml:"use_auto_sdk"`
	SamplingRate   float64           `json:"sampling_rate" yaml:"sampling_rate"` // Default: 1.0 (100%)
}

// Default returns a configuration usable against a backend on localhost:5001
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:             DefaultPort,
			SessionSecret:    DefaultSessionSecret,
			LogLevel:         "info",
			ReviewRateLimit:  DefaultReviewRateLimit,
			ReviewRateWindow: DefaultReviewRateWindow,
		},
		API: APIConfig{
			BaseURL: DefaultAPIBaseURL,
			Timeout: DefaultHTTPTimeout,
		},
		Map: MapConfig{
			Style:      DefaultMapStyle,
			CenterLat:  DefaultMapCenterLat,
			CenterLng:  DefaultMapCenterLng,
			Zoom:       DefaultMapZoom,
			DetailZoom: DefaultDetailZoom,
		},
		Survey: SurveyConfig{
			MinSubmitDuration: DefaultMinSubmitDuration,
			CookieTTLDays:     PreferenceCookieTTLDays,
		},
		Detail: DetailConfig{
			NotificationDuration: DefaultNotificationDuration,
			AnimationDuration:    DefaultAnimationDuration,
		},
		OpenTelemetry: OpenTelemetryConfig{
			Endpoint:      "localhost:4317",
			Protocol:      "grpc",
			Insecure:      true,
			ServiceName:   "spotfinder-web",
			EnableLogging: true,
			SamplingRate:  1.0,
		},
	}
}

// NewConfig loads configuration from YAML file first, then overrides with environment variables
func NewConfig() (result0 *Config, err error) {
	config, err := loadConfigWithOverrides()
	if err != nil {
		return nil, contextutils.WrapErrorf(contextutils.ErrInternalError, "failed to load config: %w", err)
	}

	config.overrideFromEnv()

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks the loaded values against their `validate` tags
func (c *Config) Validate() error {
	if err := contextutils.ValidateStruct(c.Server); err != nil {
		return contextutils.WrapError(err, "invalid server config")
	}
	if err := contextutils.ValidateStruct(c.API); err != nil {
		return contextutils.WrapError(err, "invalid api config")
	}
	if err := contextutils.ValidateStruct(c.Map); err != nil {
		return contextutils.WrapError(err, "invalid map config")
	}
	if err := contextutils.ValidateStruct(c.Survey); err != nil {
		return contextutils.WrapError(err, "invalid survey config")
	}
	return nil
}

// overrideFromEnv overrides config values with environment variables using reflection
func (c *Config) overrideFromEnv() {
	overrideStructFromEnv(c)
}

// overrideStructFromEnv recursively overrides struct fields with environment variables
func overrideStructFromEnv(v interface{}) {
	overrideStructFromEnvWithPrefix(v, "")
}

// overrideStructFromEnvWithPrefix recursively overrides struct fields with environment variables.
// The variable name is the upper-cased yaml tag path, e.g. API_BASE_URL or MAP_ACCESS_TOKEN.
func overrideStructFromEnvWithPrefix(v interface{}, prefix string) {
	val := reflect.ValueOf(v)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	if val.Kind() != reflect.Struct {
		return
	}

	typ := val.Type()
	for i := 0; i < val.NumField(); i++ {
		field := val.Field(i)
		fieldType := typ.Field(i)

		if !field.CanSet() {
			continue
		}

		yamlTag := fieldType.Tag.Get("yaml")
		if yamlTag == "" || yamlTag == "-" {
			continue
		}

		envKey := strings.ToUpper(strings.ReplaceAll(yamlTag, "-", "_"))
		if prefix != "" {
			envKey = prefix + "_" + envKey
		}

		// time.Duration is an int64 kind but is written as "1500ms" in env and yaml
		if field.Type() == reflect.TypeOf(time.Duration(0)) {
			if envVal := os.Getenv(envKey); envVal != "" {
				if d, err := time.ParseDuration(envVal); err == nil {
					field.SetInt(int64(d))
				}
			}
			continue
		}

		switch field.Kind() {
		case reflect.String:
			if envVal := os.Getenv(envKey); envVal != "" {
				field.SetString(envVal)
			}
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			if envVal := os.Getenv(envKey); envVal != "" {
				if intVal, err := strconv.ParseInt(envVal, 10, 64); err == nil {
					field.SetInt(intVal)
				}
			}
		case reflect.Float32, reflect.Float64:
			if envVal := os.Getenv(envKey); envVal != "" {
				if floatVal, err := strconv.ParseFloat(envVal, 64); err == nil {
					field.SetFloat(floatVal)
				}
			}
		case reflect.Bool:
			if envVal := os.Getenv(envKey); envVal != "" {
				if boolVal, err := strconv.ParseBool(envVal); err == nil {
					field.SetBool(boolVal)
				}
			}
		case reflect.Slice:
			if envVal := os.Getenv(envKey); envVal != "" {
				// Handle string slices (like SERVER_CORS_ORIGINS)
				if field.Type().Elem().Kind() == reflect.String {
					slice := strings.Split(envVal, ",")
					field.Set(reflect.ValueOf(slice))
				}
			}
		case reflect.Struct:
			if field.CanAddr() {
				overrideStructFromEnvWithPrefix(field.Addr().Interface(), envKey)
			}
		}
	}
}

// loadConfigWithOverrides loads the config file named by SPOTFINDER_CONFIG_FILE, or config.yaml.
// A missing default file is not an error; the defaults are used instead.
func loadConfigWithOverrides() (result0 *Config, err error) {
	if envPath := os.Getenv(ConfigFileEnv); envPath != "" {
		config, err := loadConfigFromFile(envPath)
		if err != nil {
			return nil, contextutils.WrapErrorf(contextutils.ErrInternalError, "failed to load config from %s: %w", envPath, err)
		}
		return config, nil
	}

	config, err := loadConfigFromFile(DefaultConfigFile)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return config, err
}

// loadConfigFromFile loads configuration from a specific file on top of the defaults
func loadConfigFromFile(path string) (result0 *Config, err error) {
	yamlFile, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	config := Default()
	if err := yaml.Unmarshal(yamlFile, config); err != nil {
		return nil, err
	}

	return config, nil
}
