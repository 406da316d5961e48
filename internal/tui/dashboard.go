package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"spotfinder/internal/dashboard"
	"spotfinder/internal/models"
	"spotfinder/internal/observability"
	"spotfinder/internal/preferences"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// filterField indexes the dashboard filters in menu order
type filterField int

const (
	filterBusyness filterField = iota
	filterNoise
	filterPower
	filterFood
	filterLighting
	filterFieldCount
	noFilterFocus filterField = -1
)

var filterLabels = [filterFieldCount]string{"Busyness", "Noise", "Power", "Food", "Lighting"}

// DashboardModel lists recommended and remaining spots with filters and sorting
type DashboardModel struct {
	ctx     context.Context
	service *dashboard.Service
	store   preferences.Store
	keys    KeyMap
	styles  Styles
	spinner spinner.Model

	loading bool
	view    dashboard.View
	result  dashboard.Result
	filters models.FilterState
	sort    models.SortKey
	focus   filterField
	cursor  int
	width   int
}

// NewDashboardModel creates the dashboard page
func NewDashboardModel(ctx context.Context, source dashboard.SpotSource, store preferences.Store, logger *observability.Logger, styles Styles, keys KeyMap) *DashboardModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return &DashboardModel{
		ctx:     ctx,
		service: dashboard.NewService(source, logger),
		store:   store,
		keys:    keys,
		styles:  styles,
		spinner: sp,
		filters: models.DefaultFilterState(),
		sort:    models.DefaultSortKey,
		focus:   noFilterFocus,
	}
}

// Load starts fetching the spot list and, with saved answers, the recommendations
func (m *DashboardModel) Load() tea.Cmd {
	m.loading = true
	ctx, service, store := m.ctx, m.service, m.store
	load := func() tea.Msg {
		return dashboardLoadedMsg{view: service.Load(ctx, store.Load(ctx))}
	}
	return tea.Batch(load, m.spinner.Tick)
}

// SetWidth sets the rendering width
func (m *DashboardModel) SetWidth(w int) {
	m.width = w
}

// Update handles dashboard messages and keys
func (m *DashboardModel) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case dashboardLoadedMsg:
		m.loading = false
		m.view = msg.view
		m.apply()
		return nil
	case spinner.TickMsg:
		if !m.loading {
			return nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return cmd
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return nil
}

func (m *DashboardModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.visible())-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Filter):
		m.focus++
		if m.focus >= filterFieldCount {
			m.focus = noFilterFocus
		}
	case key.Matches(msg, m.keys.Left):
		m.cycleFilter(-1)
	case key.Matches(msg, m.keys.Right):
		m.cycleFilter(1)
	case key.Matches(msg, m.keys.Sort):
		m.cycleSort()
	case key.Matches(msg, m.keys.Reset):
		m.filters = models.DefaultFilterState()
		m.sort = models.DefaultSortKey
		m.focus = noFilterFocus
		m.apply()
	case key.Matches(msg, m.keys.Reload):
		return m.Load()
	case key.Matches(msg, m.keys.Enter):
		spots := m.visible()
		if m.cursor < len(spots) {
			spot := spots[m.cursor]
			origin := models.Rect{Left: 0, Top: float64(m.cardRow(m.cursor)), Width: float64(m.width), Height: 1}
			return func() tea.Msg { return openDetailMsg{spot: spot, origin: origin} }
		}
	}
	return nil
}

// apply recomputes the visible lists and keeps the cursor in range
func (m *DashboardModel) apply() {
	m.result = m.view.Apply(m.filters, m.sort)
	if n := len(m.visible()); m.cursor >= n {
		m.cursor = max(n-1, 0)
	}
}

// visible returns the recommended spots followed by the remaining ones
func (m *DashboardModel) visible() []models.StudySpot {
	out := make([]models.StudySpot, 0, len(m.result.Recommended)+len(m.result.Remaining))
	out = append(out, m.result.Recommended...)
	return append(out, m.result.Remaining...)
}

// cardRow approximates the screen row of the i-th card for the modal's origin
func (m *DashboardModel) cardRow(i int) int {
	row := 5 + i
	if m.result.HasRecommendations && i >= len(m.result.Recommended) {
		row += 2
	}
	return row
}

func (m *DashboardModel) filterValues(field filterField) []string {
	values := []string{models.FilterAll}
	opts := m.view.Options
	switch field {
	case filterBusyness:
		for _, b := range opts.Busyness {
			values = append(values, strconv.Itoa(b))
		}
	case filterNoise:
		values = append(values, opts.Noise...)
	case filterPower:
		values = append(values, opts.Power...)
	case filterFood:
		values = append(values, opts.Food...)
	case filterLighting:
		values = append(values, opts.Lighting...)
	}
	return values
}

func (m *DashboardModel) filterValue(field filterField) *string {
	switch field {
	case filterBusyness:
		return &m.filters.Busyness
	case filterNoise:
		return &m.filters.Noise
	case filterPower:
		return &m.filters.Power
	case filterFood:
		return &m.filters.Food
	default:
		return &m.filters.Lighting
	}
}

func (m *DashboardModel) cycleFilter(step int) {
	if m.focus == noFilterFocus {
		return
	}
	values := m.filterValues(m.focus)
	current := m.filterValue(m.focus)
	idx := 0
	for i, v := range values {
		if v == *current {
			idx = i
			break
		}
	}
	idx = (idx + step + len(values)) % len(values)
	*current = values[idx]
	m.apply()
}

func (m *DashboardModel) cycleSort() {
	for i, k := range models.SortKeys {
		if k.Key == m.sort {
			m.sort = models.SortKeys[(i+1)%len(models.SortKeys)].Key
			m.apply()
			return
		}
	}
	m.sort = models.DefaultSortKey
	m.apply()
}

func sortLabel(key models.SortKey) string {
	for _, k := range models.SortKeys {
		if k.Key == key {
			return k.Label
		}
	}
	return string(key)
}

// View renders the filter bar and both spot sections
func (m *DashboardModel) View() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Study spots"))
	b.WriteString("\n")

	if m.loading {
		b.WriteString(m.spinner.View() + " Loading study spots...\n")
		return b.String()
	}
	if m.view.Error != "" {
		b.WriteString(m.styles.Error.Render(m.view.Error))
		b.WriteString("\n")
	}

	parts := make([]string, 0, filterFieldCount+1)
	for f := filterBusyness; f < filterFieldCount; f++ {
		label := fmt.Sprintf("%s: %s", filterLabels[f], displayFilter(f, *m.filterValue(f)))
		if f == m.focus {
			label = m.styles.Focused.Render(label)
		}
		parts = append(parts, label)
	}
	parts = append(parts, "Sort: "+sortLabel(m.sort))
	b.WriteString(strings.Join(parts, "  "))
	b.WriteString("\n")
	b.WriteString(m.styles.Muted.Render(m.result.Summary()))
	b.WriteString("\n")

	idx := 0
	if m.result.HasRecommendations {
		b.WriteString(m.styles.Header.Render("Recommended for you"))
		b.WriteString("\n")
		if len(m.result.Recommended) == 0 {
			b.WriteString(m.styles.Muted.Render("  No recommended spots match these filters.") + "\n")
		}
		for _, spot := range m.result.Recommended {
			b.WriteString(m.card(spot, idx == m.cursor) + "\n")
			idx++
		}
		b.WriteString(m.styles.Header.Render("Other study spots"))
		b.WriteString("\n")
	} else if !m.view.Personalized && m.view.Error == "" {
		b.WriteString(m.styles.Muted.Render("Take the survey to get personalized recommendations.") + "\n")
	}
	if len(m.result.Remaining) == 0 && m.view.Error == "" {
		b.WriteString(m.styles.Muted.Render("  No study spots match these filters.") + "\n")
	}
	for _, spot := range m.result.Remaining {
		b.WriteString(m.card(spot, idx == m.cursor) + "\n")
		idx++
	}
	return b.String()
}

func (m *DashboardModel) card(spot models.StudySpot, selected bool) string {
	line := fmt.Sprintf("%-28s busy %-4s noise %-10s power %s",
		spot.DisplayName(), spot.BusynessLabel(), orNA(spot.NoiseLevel), models.PowerLabel(spot.PowerOptions))
	if spot.MatchScore != nil {
		line += "  " + m.styles.Badge.Render(fmt.Sprintf("Match %d%%", *spot.MatchScore))
	}
	if selected {
		return m.styles.Selected.Render("> " + line)
	}
	return "  " + line
}

func displayFilter(field filterField, value string) string {
	if value == models.FilterAll {
		return "All"
	}
	if field == filterPower {
		return models.PowerLabel(value)
	}
	return value
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
