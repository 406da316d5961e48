package handlers

import (
	"net/http"
	"time"

	"spotfinder/internal/config"
	"spotfinder/internal/middleware"
	"spotfinder/internal/observability"
	"spotfinder/internal/version"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/secure"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

// ServiceName identifies the web client in logs, traces and /v1/version
const ServiceName = "spotfinder-web"

// NewRouter creates the web client's router with all middleware and routes.
// limiter guards review submission and may be shared with a cleanup loop.
func NewRouter(
	cfg *config.Config,
	client SpotClient,
	limiter *middleware.RateLimiter,
	logger *observability.Logger,
) (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)
	if cfg.Server.Debug {
		gin.SetMode(gin.DebugMode)
	}
	if cfg.IsTest {
		gin.SetMode(gin.TestMode)
	}

	router := gin.New()
	router.Use(middleware.ErrorRecoveryMiddleware(logger))
	router.Use(requestLogger(logger))

	// Health check endpoint (defined before tracing and sessions)
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": ServiceName})
	})

	serviceName := cfg.OpenTelemetry.ServiceName
	if serviceName == "" {
		serviceName = ServiceName
	}
	router.Use(observability.GinMiddlewareWithErrorHandling(serviceName)...)

	tmpl, err := LoadTemplates()
	if err != nil {
		return nil, err
	}
	router.SetHTMLTemplate(tmpl)
	router.StaticFS("/assets", AssetsFS())

	router.RedirectTrailingSlash = false

	// Setup session middleware
	store := cookie.NewStore([]byte(cfg.Server.SessionSecret))
	sessionOpts := sessions.Options{
		Path:     config.SessionPath,
		MaxAge:   int(config.SessionMaxAge.Seconds()),
		HttpOnly: config.SessionHTTPOnly,
		Secure:   config.SessionSecure,
	}
	if cfg.Server.Debug {
		sessionOpts.SameSite = http.SameSiteDefaultMode
	} else {
		sessionOpts.SameSite = http.SameSiteLaxMode
	}
	store.Options(sessionOpts)
	router.Use(sessions.Sessions(config.SessionName, store))

	// Security middleware
	secureConfig := secure.DefaultConfig()
	secureConfig.SSLRedirect = false
	secureConfig.IsDevelopment = cfg.Server.Debug
	secureConfig.ContentSecurityPolicy = config.DefaultCSP
	router.Use(secure.New(secureConfig))

	csrf := middleware.CSRFProtect(middleware.NewCSRFGenerator(cfg.Server.SessionSecret), logger)

	homeHandler := NewHomeHandler(cfg, logger)
	surveyHandler := NewSurveyHandler(client, cfg, logger)
	dashboardHandler := NewDashboardHandler(client, cfg, logger)
	spotHandler := NewSpotHandler(client, cfg, logger)
	mapHandler := NewMapHandler(client, cfg, logger)
	routeListing := NewRouteListingHandler(ServiceName)

	pages := router.Group("/", csrf)
	{
		pages.GET("/", homeHandler.Show)
		pages.GET("/survey", surveyHandler.Show)
		pages.POST("/survey/retake", surveyHandler.Retake)
		pages.POST("/survey/answer", surveyHandler.Answer)
		pages.POST("/survey/previous", surveyHandler.Previous)
		pages.GET("/dashboard", dashboardHandler.Show)
		pages.GET("/spots/:id", spotHandler.Show)
		pages.POST("/spots/:id/reviews",
			middleware.RateLimit(limiter, logger, spotHandler.RateLimited),
			spotHandler.SubmitReview)
		pages.GET("/map", mapHandler.Show)
	}

	// JSON used by the map page script
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.Server.CORSOrigins
	if len(corsConfig.AllowOrigins) == 0 {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "OPTIONS"}
	apiGroup := router.Group("/api", cors.New(corsConfig))
	{
		apiGroup.GET("/markers", mapHandler.Markers)
	}

	v1 := router.Group("/v1")
	{
		v1.GET("/version", func(c *gin.Context) {
			c.JSON(http.StatusOK, version.Get(ServiceName))
		})
		v1.GET("/routes", routeListing.GetRouteListingJSON)
	}

	routeListing.CollectRoutes(router)
	return router, nil
}

// requestLogger logs every request with a level chosen by status code
func requestLogger(logger *observability.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		statusCode := c.Writer.Status()
		fields := map[string]interface{}{
			"http.method":      c.Request.Method,
			"http.path":        c.Request.URL.Path,
			"http.status_code": statusCode,
			"http.latency_ms":  time.Since(start).Milliseconds(),
			"http.client_ip":   c.ClientIP(),
			"http.user_agent":  c.Request.UserAgent(),
		}
		if len(c.Errors) > 0 {
			fields["http.error"] = c.Errors.String()
		}

		switch {
		case statusCode >= 500:
			fields["http.error_type"] = "server_error"
			logger.Error(c.Request.Context(), "HTTP request failed", nil, fields)
		case statusCode >= 400:
			fields["http.error_type"] = "client_error"
			logger.Warn(c.Request.Context(), "HTTP request warning", fields)
		default:
			logger.Info(c.Request.Context(), "HTTP request", fields)
		}
	}
}
