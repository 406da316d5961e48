package tui

import (
	"context"
	"fmt"
	"strings"

	"spotfinder/internal/preferences"
	"spotfinder/internal/survey"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// SurveyModel runs the preference wizard
type SurveyModel struct {
	ctx       context.Context
	submitter *survey.Submitter
	store     preferences.Store
	keys      KeyMap
	styles    Styles
	spinner   spinner.Model

	flow   *survey.Flow
	cursor int
	notice string
}

// NewSurveyModel creates the survey page starting from the stored answers
func NewSurveyModel(ctx context.Context, submitter *survey.Submitter, store preferences.Store, styles Styles, keys KeyMap) *SurveyModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	m := &SurveyModel{
		ctx:       ctx,
		submitter: submitter,
		store:     store,
		keys:      keys,
		styles:    styles,
		spinner:   sp,
	}
	m.Reset()
	return m
}

// Reset restarts the wizard from the stored answers
func (m *SurveyModel) Reset() {
	m.flow = survey.NewFlow(m.store.Load(m.ctx))
	m.cursor = 0
	m.notice = ""
}

// Flow returns the wizard state
func (m *SurveyModel) Flow() *survey.Flow {
	return m.flow
}

// Update handles survey messages and keys
func (m *SurveyModel) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case surveySubmittedMsg:
		if msg.err != nil {
			m.notice = msg.err.Error()
			return nil
		}
		m.flow = msg.flow
		return nil
	case spinner.TickMsg:
		if m.flow.State() != survey.StateSubmitting {
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

func (m *SurveyModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	m.notice = ""
	switch m.flow.State() {
	case survey.StateSummary:
		if key.Matches(msg, m.keys.Retake) {
			m.report(m.flow.Retake())
			m.cursor = 0
		}
	case survey.StateQuestion:
		return m.handleQuestionKey(msg)
	case survey.StateComplete:
		if key.Matches(msg, m.keys.Enter) {
			m.Reset()
			return func() tea.Msg { return surveyDoneMsg{} }
		}
	}
	return nil
}

func (m *SurveyModel) handleQuestionKey(msg tea.KeyMsg) tea.Cmd {
	q, _ := m.flow.Question()
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(q.Options)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Left), msg.String() == "backspace":
		if m.flow.CanGoBack() {
			m.report(m.flow.Previous())
			m.cursor = m.selectedIndex()
		}
	case key.Matches(msg, m.keys.Enter):
		return m.answer(q.Options[m.cursor])
	default:
		// digits pick an option directly
		if s := msg.String(); len(s) == 1 && s[0] >= '1' && s[0] <= '9' {
			if i := int(s[0] - '1'); i < len(q.Options) {
				return m.answer(q.Options[i])
			}
		}
	}
	return nil
}

func (m *SurveyModel) answer(option string) tea.Cmd {
	if err := m.flow.Answer(option); err != nil {
		m.report(err)
		return nil
	}
	if m.flow.State() != survey.StateSubmitting {
		m.cursor = m.selectedIndex()
		return nil
	}
	return tea.Batch(m.submit(), m.spinner.Tick)
}

// submit runs the submitter on a copy of the flow so View never races the command
func (m *SurveyModel) submit() tea.Cmd {
	flow, err := survey.Restore(m.flow.Snapshot())
	if err != nil {
		return func() tea.Msg { return surveySubmittedMsg{err: err} }
	}
	ctx, submitter, store := m.ctx, m.submitter, m.store
	return func() tea.Msg {
		err := submitter.Submit(ctx, flow, store)
		return surveySubmittedMsg{flow: flow, err: err}
	}
}

func (m *SurveyModel) selectedIndex() int {
	q, ok := m.flow.Question()
	if !ok {
		return 0
	}
	selected := m.flow.Selected()
	for i, opt := range q.Options {
		if opt == selected {
			return i
		}
	}
	return 0
}

func (m *SurveyModel) report(err error) {
	if err != nil {
		m.notice = err.Error()
	}
}

// View renders the current wizard state
func (m *SurveyModel) View() string {
	var b strings.Builder
	switch m.flow.State() {
	case survey.StateSummary:
		b.WriteString(m.styles.Title.Render("Your saved preferences") + "\n\n")
		for _, item := range m.flow.Summary() {
			fmt.Fprintf(&b, "%s\n  %s\n", item.Prompt, m.styles.Selected.Render(item.Answer))
		}
		b.WriteString("\n" + m.styles.Help.Render("r retake the survey"))
	case survey.StateQuestion:
		q, _ := m.flow.Question()
		b.WriteString(m.styles.Muted.Render(m.flow.Progress()) + "\n")
		b.WriteString(m.styles.Title.Render(q.Prompt) + "\n\n")
		selected := m.flow.Selected()
		for i, opt := range q.Options {
			mark := " "
			if opt == selected {
				mark = "✓"
			}
			line := fmt.Sprintf("%d. %s %s", i+1, mark, opt)
			if i == m.cursor {
				line = m.styles.Selected.Render("> " + line)
			} else {
				line = "  " + line
			}
			b.WriteString(line + "\n")
		}
		if m.flow.CanGoBack() {
			b.WriteString("\n" + m.styles.Help.Render("← previous question"))
		}
	case survey.StateSubmitting:
		b.WriteString(m.spinner.View() + " Finding your study spots...")
	case survey.StateComplete:
		b.WriteString(m.styles.Success.Render("Thanks! Your preferences are saved.") + "\n")
		b.WriteString(m.styles.Help.Render("enter go to the dashboard"))
	}
	if m.notice != "" {
		b.WriteString("\n" + m.styles.Error.Render(m.notice))
	}
	return b.String()
}
