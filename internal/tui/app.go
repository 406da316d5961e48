package tui

import (
	"context"
	"errors"
	"io"
	"strings"

	"spotfinder/internal/config"
	"spotfinder/internal/detail"
	"spotfinder/internal/observability"
	"spotfinder/internal/preferences"
	"spotfinder/internal/survey"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Options configures the terminal client
type Options struct {
	Client        Client
	Store         preferences.Store
	Config        *config.Config
	Logger        *observability.Logger
	Input         io.Reader
	Output        io.Writer
	MarkdownStyle string
}

// App is the root model: three tabbed pages plus the detail modal over the dashboard
type App struct {
	ctx    context.Context
	keys   KeyMap
	styles Styles
	help   help.Model

	page      Page
	dashboard *DashboardModel
	survey    *SurveyModel
	mapPage   *MapModel
	detail    *DetailModel

	width, height int
}

// NewApp wires the pages to the client and the preference store
func NewApp(ctx context.Context, opts Options) *App {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	styles := DefaultStyles()
	keys := DefaultKeyMap()

	submitter := survey.NewSubmitter(opts.Client, opts.Logger, survey.WithMinDuration(cfg.Survey.MinSubmitDuration))
	reviewer := detail.NewReviewer(opts.Client, opts.Logger, detail.WithNotificationDuration(cfg.Detail.NotificationDuration))

	return &App{
		ctx:       ctx,
		keys:      keys,
		styles:    styles,
		help:      help.New(),
		page:      PageDashboard,
		dashboard: NewDashboardModel(ctx, opts.Client, opts.Store, opts.Logger, styles, keys),
		survey:    NewSurveyModel(ctx, submitter, opts.Store, styles, keys),
		mapPage:   NewMapModel(ctx, opts.Client, &cfg.Map, opts.Logger, styles, keys),
		detail: NewDetailModel(ctx, reviewer, styles, keys, DetailOptions{
			Animation:     cfg.Detail.AnimationDuration,
			Zoom:          cfg.Map.DetailZoom,
			MarkdownStyle: opts.MarkdownStyle,
		}),
	}
}

// Page returns the active tab
func (a *App) Page() Page {
	return a.page
}

// Init loads the dashboard and the map
func (a *App) Init() tea.Cmd {
	return tea.Batch(a.dashboard.Load(), a.mapPage.Load())
}

// Update routes each message to the model that owns it
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		a.help.Width = msg.Width
		a.dashboard.SetWidth(msg.Width)
		a.mapPage.SetSize(msg.Width-2, msg.Height-6)
		return a, nil
	case tea.KeyMsg:
		return a, a.handleKey(msg)
	case openDetailMsg:
		return a, a.detail.Open(msg.spot, msg.origin)
	case surveyDoneMsg:
		a.page = PageDashboard
		return a, a.dashboard.Load()
	case dashboardLoadedMsg:
		return a, a.dashboard.Update(msg)
	case surveySubmittedMsg:
		return a, a.survey.Update(msg)
	case mapSpotsMsg:
		return a, a.mapPage.Update(msg)
	case spinner.TickMsg:
		// each spinner ignores ticks carrying another spinner's id
		return a, tea.Batch(a.dashboard.Update(msg), a.survey.Update(msg))
	case animationEndedMsg, reviewsLoadedMsg, reviewSubmittedMsg, notificationExpiredMsg:
		return a, a.detail.Update(msg)
	}
	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	if msg.String() == "ctrl+c" {
		return tea.Quit
	}
	// the modal takes every key while it is up, including q typed into the form
	if a.detail.Visible() {
		return a.detail.Update(msg)
	}
	switch {
	case key.Matches(msg, a.keys.Quit):
		return tea.Quit
	case key.Matches(msg, a.keys.NextPage):
		a.page = (a.page + 1) % pageCount
		return nil
	}

	switch a.page {
	case PageSurvey:
		return a.survey.Update(msg)
	case PageMap:
		return a.mapPage.Update(msg)
	default:
		return a.dashboard.Update(msg)
	}
}

// View renders the tab bar, the active page or the modal, and the key help
func (a *App) View() string {
	var b strings.Builder
	b.WriteString(a.tabs())
	b.WriteString("\n\n")

	switch {
	case a.detail.Visible():
		b.WriteString(a.detail.View())
	case a.page == PageSurvey:
		b.WriteString(a.survey.View())
	case a.page == PageMap:
		b.WriteString(a.mapPage.View())
	default:
		b.WriteString(a.dashboard.View())
	}

	b.WriteString("\n\n")
	b.WriteString(a.help.ShortHelpView(a.bindings()))
	return b.String()
}

func (a *App) tabs() string {
	tabs := make([]string, 0, pageCount)
	for p := Page(0); p < pageCount; p++ {
		style := a.styles.Tab
		if p == a.page {
			style = a.styles.TabOn
		}
		tabs = append(tabs, style.Render(p.String()))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (a *App) bindings() []key.Binding {
	k := a.keys
	if a.detail.Visible() {
		return []key.Binding{k.Back, k.Focus, k.Submit}
	}
	switch a.page {
	case PageSurvey:
		return []key.Binding{k.Up, k.Down, k.Enter, k.Left, k.Retake, k.NextPage, k.Quit}
	case PageMap:
		return []key.Binding{k.Up, k.Left, k.ZoomIn, k.ZoomOut, k.Next, k.Enter, k.Back, k.NextPage, k.Quit}
	default:
		return []key.Binding{k.Up, k.Down, k.Enter, k.Filter, k.Sort, k.Reset, k.Reload, k.NextPage, k.Quit}
	}
}

// Run starts the terminal client and blocks until the user quits or ctx is cancelled
func Run(ctx context.Context, opts Options) error {
	app := NewApp(ctx, opts)

	programOpts := []tea.ProgramOption{tea.WithContext(ctx), tea.WithAltScreen()}
	if opts.Input != nil {
		programOpts = append(programOpts, tea.WithInput(opts.Input))
	}
	if opts.Output != nil {
		programOpts = append(programOpts, tea.WithOutput(opts.Output))
	}

	_, err := tea.NewProgram(app, programOpts...).Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
