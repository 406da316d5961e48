package tui

import (
	"context"
	"testing"

	"spotfinder/internal/models"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T, client *mockClient) *App {
	t.Helper()
	logger, _ := testLogger()
	a := NewApp(context.Background(), Options{
		Client:        client,
		Store:         testStore(t, logger),
		Config:        testConfig(),
		Logger:        logger,
		MarkdownStyle: "notty",
	})
	drain(appUpdate(a), a.Init())
	return a
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestApp_InitLoadsDashboardAndMap(t *testing.T) {
	client := &mockClient{}
	client.On("ListStudySpots", mock.Anything).Return(testSpots(), nil)

	a := newTestApp(t, client)

	assert.Equal(t, PageDashboard, a.Page())
	view := a.View()
	assert.Contains(t, view, "Dashboard")
	assert.Contains(t, view, "Preferences")
	assert.Contains(t, view, "Showing 2 of 2 study spots")
	assert.Equal(t, 1, a.mapPage.Markers().Len())
	client.AssertNumberOfCalls(t, "ListStudySpots", 2)
}

func TestApp_TabCyclesPages(t *testing.T) {
	client := &mockClient{}
	client.On("ListStudySpots", mock.Anything).Return(testSpots(), nil)
	a := newTestApp(t, client)

	a.Update(keyType(tea.KeyTab))
	assert.Equal(t, PageSurvey, a.Page())
	assert.Contains(t, a.View(), "Q 1/8")

	a.Update(keyType(tea.KeyTab))
	assert.Equal(t, PageMap, a.Page())
	assert.Contains(t, a.View(), "Campus map")

	a.Update(keyType(tea.KeyTab))
	assert.Equal(t, PageDashboard, a.Page())
}

func TestApp_Quit(t *testing.T) {
	client := &mockClient{}
	client.On("ListStudySpots", mock.Anything).Return(testSpots(), nil)
	a := newTestApp(t, client)

	_, cmd := a.Update(keyRunes("q"))
	assert.True(t, isQuit(cmd))

	_, cmd = a.Update(keyType(tea.KeyCtrlC))
	assert.True(t, isQuit(cmd))
}

func TestApp_DetailModalTakesKeys(t *testing.T) {
	client := &mockClient{}
	client.On("ListStudySpots", mock.Anything).Return(testSpots(), nil)
	client.On("ListReviews", mock.Anything, 1).Return([]models.Review{}, nil)
	a := newTestApp(t, client)
	update := appUpdate(a)

	drain(update, update(keyType(tea.KeyEnter)))

	require.True(t, a.detail.Visible())
	assert.Contains(t, a.View(), "Leave a review")

	// q is typed into the name field instead of quitting
	cmd := update(keyRunes("q"))
	assert.False(t, isQuit(cmd))
	assert.Equal(t, "q", a.detail.name.Value())

	// tab moves between form fields, not pages
	update(keyType(tea.KeyTab))
	assert.Equal(t, PageDashboard, a.Page())
	assert.Equal(t, fieldStars, a.detail.focus)

	drain(update, update(keyType(tea.KeyEsc)))
	assert.False(t, a.detail.Visible())
	assert.Contains(t, a.View(), "Study spots")
}

func TestApp_SurveyDoneReloadsDashboard(t *testing.T) {
	client := &mockClient{}
	client.On("ListStudySpots", mock.Anything).Return(testSpots(), nil)
	client.On("GetRecommendations", mock.Anything, mock.Anything).
		Return([]models.StudySpot{{ID: 2, MatchScore: intPtr(91)}}, nil)
	a := newTestApp(t, client)
	update := appUpdate(a)

	update(keyType(tea.KeyTab))
	for range models.SurveyKeys {
		drain(update, update(keyType(tea.KeyEnter)))
	}
	require.Contains(t, a.View(), "Thanks! Your preferences are saved.")

	drain(update, update(keyType(tea.KeyEnter)))

	assert.Equal(t, PageDashboard, a.Page())
	view := a.View()
	assert.Contains(t, view, "Recommended for you")
	assert.Contains(t, view, "Match 91%")
	client.AssertNumberOfCalls(t, "ListStudySpots", 3)
}

func TestApp_WindowSize(t *testing.T) {
	client := &mockClient{}
	client.On("ListStudySpots", mock.Anything).Return(testSpots(), nil)
	a := newTestApp(t, client)

	a.Update(tea.WindowSizeMsg{Width: 100, Height: 30})

	assert.Equal(t, 98, a.mapPage.cols)
	assert.Equal(t, 24, a.mapPage.rows)
	assert.Equal(t, 100, a.dashboard.width)
}
