package tui

import (
	"context"
	"path/filepath"
	"testing"

	"spotfinder/internal/config"
	"spotfinder/internal/models"
	"spotfinder/internal/observability"
	"spotfinder/internal/preferences"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type mockClient struct {
	mock.Mock
}

func (m *mockClient) ListStudySpots(ctx context.Context) ([]models.StudySpot, error) {
	args := m.Called(ctx)
	spots, _ := args.Get(0).([]models.StudySpot)
	return spots, args.Error(1)
}

func (m *mockClient) GetRecommendations(ctx context.Context, prefs models.SurveyResponse) ([]models.StudySpot, error) {
	args := m.Called(ctx, prefs)
	spots, _ := args.Get(0).([]models.StudySpot)
	return spots, args.Error(1)
}

func (m *mockClient) ListReviews(ctx context.Context, spotID int) ([]models.Review, error) {
	args := m.Called(ctx, spotID)
	reviews, _ := args.Get(0).([]models.Review)
	return reviews, args.Error(1)
}

func (m *mockClient) CreateReview(ctx context.Context, review models.NewReview) (*models.Review, error) {
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
	cfg.Survey.MinSubmitDuration = 0
	cfg.Detail.AnimationDuration = 0
	return cfg
}

func testStore(t *testing.T, logger *observability.Logger) *preferences.FileStore {
	t.Helper()
	return preferences.NewFileStore(filepath.Join(t.TempDir(), "preferences.json"), config.PreferenceCookieTTLDays, logger)
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

// drain runs cmd and feeds every resulting message back through update until nothing is left.
// Spinner ticks are dropped so the loop terminates.
func drain(update func(tea.Msg) tea.Cmd, cmd tea.Cmd) {
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0 && steps < 200; steps++ {
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}
		switch msg := next().(type) {
		case nil, spinner.TickMsg:
		case tea.BatchMsg:
			queue = append(queue, msg...)
		default:
			queue = append(queue, update(msg))
		}
	}
}

// appUpdate adapts App.Update to drain
func appUpdate(a *App) func(tea.Msg) tea.Cmd {
	return func(msg tea.Msg) tea.Cmd {
		_, cmd := a.Update(msg)
		return cmd
	}
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func keyType(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

// typeText sends s one rune at a time
func typeText(update func(tea.Msg) tea.Cmd, s string) {
	for _, r := range s {
		drain(update, update(keyRunes(string(r))))
	}
}
