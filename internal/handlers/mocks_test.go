package handlers

import (
	"context"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"

	"spotfinder/internal/config"
	"spotfinder/internal/middleware"
	"spotfinder/internal/models"
	"spotfinder/internal/observability"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type mockSpotClient struct {
	mock.Mock
}

func (m *mockSpotClient) ListStudySpots(ctx context.Context) ([]models.StudySpot, error) {
	args := m.Called(ctx)
	spots, _ := args.Get(0).([]models.StudySpot)
	return spots, args.Error(1)
}

func (m *mockSpotClient) GetStudySpot(ctx context.Context, id int) (*models.StudySpot, error) {
	args := m.Called(ctx, id)
	spot, _ := args.Get(0).(*models.StudySpot)
	return spot, args.Error(1)
}

func (m *mockSpotClient) GetRecommendations(ctx context.Context, prefs models.SurveyResponse) ([]models.StudySpot, error) {
	args := m.Called(ctx, prefs)
	spots, _ := args.Get(0).([]models.StudySpot)
	return spots, args.Error(1)
}

func (m *mockSpotClient) ListReviews(ctx context.Context, spotID int) ([]models.Review, error) {
	args := m.Called(ctx, spotID)
	reviews, _ := args.Get(0).([]models.Review)
	return reviews, args.Error(1)
}

func (m *mockSpotClient) CreateReview(ctx context.Context, review models.NewReview) (*models.Review, error) {
	args := m.Called(ctx, review)
	created, _ := args.Get(0).(*models.Review)
	return created, args.Error(1)
}

func testLogger() (*observability.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zap.DebugLevel)
	return &observability.Logger{Logger: zap.New(core)}, logs
}

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.IsTest = true
	cfg.Server.SessionSecret = "0123456789abcdef-handlers"
	cfg.Survey.MinSubmitDuration = 0
	cfg.Map.AccessToken = "pk.test-token"
	return cfg
}

var csrfMeta = regexp.MustCompile(`<meta name="csrf-token" content="([0-9a-f]+)">`)

// browser drives the router over real HTTP with a cookie jar and no redirect following
type browser struct {
	t      *testing.T
	srv    *httptest.Server
	client *http.Client
	token  string
}

func newBrowser(t *testing.T, cfg *config.Config, client SpotClient) (*browser, *observer.ObservedLogs) {
	t.Helper()
	logger, logs := testLogger()
	limiter := middleware.NewRateLimiter(cfg.Server.ReviewRateLimit, cfg.Server.ReviewRateWindow)
	router, err := NewRouter(cfg, client, limiter, logger)
	require.NoError(t, err)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &browser{
		t:   t,
		srv: srv,
		client: &http.Client{
			Jar: jar,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}, logs
}

func (b *browser) do(req *http.Request) (*http.Response, string) {
	b.t.Helper()
	resp, err := b.client.Do(req)
	require.NoError(b.t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(b.t, err)
	if m := csrfMeta.FindSubmatch(body); m != nil {
		b.token = string(m[1])
	}
	return resp, string(body)
}

func (b *browser) get(path string) (*http.Response, string) {
	b.t.Helper()
	req, err := http.NewRequest(http.MethodGet, b.srv.URL+path, nil)
	require.NoError(b.t, err)
	return b.do(req)
}

// post sends form with the CSRF token of the last rendered page
func (b *browser) post(path string, form url.Values) (*http.Response, string) {
	b.t.Helper()
	if form == nil {
		form = url.Values{}
	}
	if form.Get(middleware.CSRFFormField) == "" && b.token != "" {
		form.Set(middleware.CSRFFormField, b.token)
	}
	req, err := http.NewRequest(http.MethodPost, b.srv.URL+path, strings.NewReader(form.Encode()))
	require.NoError(b.t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return b.do(req)
}

func floatPtr(f float64) *float64 { return &f }

func intPtr(i int) *int { return &i }

func testSpots() []models.StudySpot {
	return []models.StudySpot{
		{
			ID: 1, Location: "Dana Porter Library",
			Latitude: floatPtr(43.4698), Longitude: floatPtr(-80.5422),
			BusynessEstimate: models.NewBusyness(2), NoiseLevel: "Quiet", PowerOptions: models.PowerYes,
			NearbyFoodDrinkOptions: "Coffee", NaturalLighting: "Bright",
		},
		{
			ID: 2, Location: "Student Life Centre",
			BusynessEstimate: models.NewBusyness(5), NoiseLevel: "Loud", PowerOptions: models.PowerNo,
		},
	}
}
