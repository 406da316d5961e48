package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"spotfinder/internal/detail"
	"spotfinder/internal/mapview"
	"spotfinder/internal/models"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
)

// formField is the focused part of the review form
type formField int

const (
	fieldName formField = iota
	fieldStars
	fieldText
	fieldCount
)

const (
	miniMapCols = 21
	miniMapRows = 5
)

// DetailModel is the modal over the dashboard showing one spot, its reviews and the review form
type DetailModel struct {
	ctx       context.Context
	modal     *detail.Modal
	reviewer  *detail.Reviewer
	keys      KeyMap
	styles    Styles
	animation time.Duration
	mapZoom   float64
	renderer  *glamour.TermRenderer

	reviews      []models.Review
	loading      bool
	submitting   bool
	form         detail.ReviewForm
	name         textinput.Model
	text         textarea.Model
	focus        formField
	notification *detail.Notification
	notifyID     int
	miniMap      *mapview.Camera
	width        int
}

// DetailOptions configures the detail modal
type DetailOptions struct {
	Animation     time.Duration
	Zoom          float64
	MarkdownStyle string
	Width         int
}

// NewDetailModel creates a closed detail modal
func NewDetailModel(ctx context.Context, reviewer *detail.Reviewer, styles Styles, keys KeyMap, opts DetailOptions) *DetailModel {
	name := textinput.New()
	name.Placeholder = "Your name"
	name.CharLimit = 80
	name.Prompt = ""
	// blink messages are not routed to the modal
	name.Cursor.SetMode(cursor.CursorStatic)

	text := textarea.New()
	text.Placeholder = "What is it like to study here?"
	text.ShowLineNumbers = false
	text.SetHeight(3)
	text.Cursor.SetMode(cursor.CursorStatic)

	width := opts.Width
	if width <= 0 {
		width = 72
	}
	style := opts.MarkdownStyle
	if style == "" {
		style = "dark"
	}
	renderer, _ := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width-4),
	)

	m := &DetailModel{
		ctx:       ctx,
		modal:     detail.NewModal(),
		reviewer:  reviewer,
		keys:      keys,
		styles:    styles,
		animation: opts.Animation,
		mapZoom:   opts.Zoom,
		renderer:  renderer,
		form:      detail.NewReviewForm(),
		name:      name,
		text:      text,
		width:     width,
	}
	m.text.SetWidth(width - 4)
	return m
}

// Modal exposes the lifecycle state machine
func (m *DetailModel) Modal() *detail.Modal {
	return m.modal
}

// Visible reports whether the modal is on screen
func (m *DetailModel) Visible() bool {
	return m.modal.Visible()
}

// Open starts the expand animation for spot and loads its reviews
func (m *DetailModel) Open(spot models.StudySpot, origin models.Rect) tea.Cmd {
	gen, err := m.modal.Open(spot, origin)
	if err != nil {
		return nil
	}
	m.reviews = nil
	m.loading = true
	m.submitting = false
	m.resetForm()
	m.focus = fieldName

	// Content resources are released in kind order when the collapse finishes
	_ = m.modal.Register(detail.ResourceTimer, func() {
		m.notification = nil
		m.notifyID++
	})
	_ = m.modal.Register(detail.ResourceListener, func() {
		m.name.Blur()
		m.text.Blur()
	})
	if spot.HasCoordinates() {
		m.miniMap = mapview.NewCamera(mapview.LngLat{Lat: *spot.Latitude, Lng: *spot.Longitude}, m.mapZoom, nil)
		_ = m.modal.Register(detail.ResourceMap, func() { m.miniMap = nil })
	}

	reviewer, ctx, id := m.reviewer, m.ctx, spot.ID
	load := func() tea.Msg {
		return reviewsLoadedMsg{gen: gen, reviews: reviewer.LoadReviews(ctx, id)}
	}
	return tea.Batch(load, m.animate(gen, detail.ModalOpening), m.name.Focus())
}

// Close starts the collapse animation
func (m *DetailModel) Close() tea.Cmd {
	if err := m.modal.Close(); err != nil {
		return nil
	}
	return m.animate(m.modal.Generation(), detail.ModalClosing)
}

func (m *DetailModel) animate(gen uint64, phase detail.ModalState) tea.Cmd {
	if m.animation <= 0 {
		return func() tea.Msg { return animationEndedMsg{gen: gen, phase: phase} }
	}
	return tea.Tick(m.animation, func(time.Time) tea.Msg {
		return animationEndedMsg{gen: gen, phase: phase}
	})
}

// Update handles modal messages and keys
func (m *DetailModel) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case animationEndedMsg:
		// A tick from an earlier opening or an abandoned phase is dropped
		if m.modal.Current(msg.gen) && m.modal.State() == msg.phase {
			_ = m.modal.AnimationEnded()
		}
		return nil
	case reviewsLoadedMsg:
		if m.modal.Current(msg.gen) {
			m.reviews = msg.reviews
			m.loading = false
		}
		return nil
	case reviewSubmittedMsg:
		if !m.modal.Current(msg.gen) {
			return nil
		}
		m.submitting = false
		if msg.outcome.Submitted {
			m.reviews = msg.outcome.Reviews
			m.resetForm()
		}
		return m.notify(msg.outcome.Notification)
	case notificationExpiredMsg:
		if msg.id == m.notifyID {
			m.notification = nil
		}
		return nil
	case tea.KeyMsg:
		if !m.modal.ContentVisible() {
			if key.Matches(msg, m.keys.Back) {
				return m.Close()
			}
			return nil
		}
		return m.handleKey(msg)
	}
	return nil
}

func (m *DetailModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Back):
		return m.Close()
	case key.Matches(msg, m.keys.Submit):
		return m.submit()
	case msg.String() == "tab":
		return m.setFocus((m.focus + 1) % fieldCount)
	case msg.String() == "shift+tab":
		return m.setFocus((m.focus + fieldCount - 1) % fieldCount)
	}

	var cmd tea.Cmd
	switch m.focus {
	case fieldName:
		m.name, cmd = m.name.Update(msg)
	case fieldText:
		m.text, cmd = m.text.Update(msg)
	case fieldStars:
		switch {
		case key.Matches(msg, m.keys.Left), key.Matches(msg, m.keys.Down):
			m.form.SetStars(m.form.Stars - 1)
		case key.Matches(msg, m.keys.Right), key.Matches(msg, m.keys.Up):
			m.form.SetStars(m.form.Stars + 1)
		case key.Matches(msg, m.keys.Enter):
			return m.submit()
		default:
			if s := msg.String(); len(s) == 1 && s[0] >= '1' && s[0] <= '5' {
				m.form.SetStars(int(s[0] - '0'))
			}
		}
	}
	return cmd
}

func (m *DetailModel) setFocus(f formField) tea.Cmd {
	m.focus = f
	m.name.Blur()
	m.text.Blur()
	switch f {
	case fieldName:
		return m.name.Focus()
	case fieldText:
		return m.text.Focus()
	}
	return nil
}

// submit validates locally and sends the review; the form is copied so the command owns its input
func (m *DetailModel) submit() tea.Cmd {
	if m.submitting {
		return nil
	}
	form := m.currentForm()
	m.form = form
	if err := form.Validate(); err != nil {
		return m.notify(m.reviewer.Notify(detail.KindError, detail.MessageIncomplete))
	}
	m.submitting = true
	reviewer, ctx, gen, id := m.reviewer, m.ctx, m.modal.Generation(), m.modal.Spot().ID
	return func() tea.Msg {
		f := form
		outcome := reviewer.Submit(ctx, id, &f)
		return reviewSubmittedMsg{gen: gen, outcome: outcome, form: f}
	}
}

func (m *DetailModel) currentForm() detail.ReviewForm {
	return detail.ReviewForm{Name: m.name.Value(), Stars: m.form.Stars, Text: m.text.Value()}
}

func (m *DetailModel) resetForm() {
	m.form = detail.NewReviewForm()
	m.name.SetValue("")
	m.text.Reset()
}

// notify shows n and schedules its removal; a newer notification replaces the timer
func (m *DetailModel) notify(n detail.Notification) tea.Cmd {
	m.notifyID++
	m.notification = &n
	id := m.notifyID
	ttl := n.Remaining(time.Now())
	if ttl <= 0 {
		return func() tea.Msg { return notificationExpiredMsg{id: id} }
	}
	return tea.Tick(ttl, func(time.Time) tea.Msg { return notificationExpiredMsg{id: id} })
}

// View renders the modal shell; content appears only once the expand animation has finished
func (m *DetailModel) View() string {
	if !m.modal.Visible() {
		return ""
	}
	spot := m.modal.Spot()
	var b strings.Builder
	b.WriteString(m.styles.Title.Render(spot.DisplayName()))
	if spot.MatchScore != nil {
		b.WriteString("  " + m.styles.Badge.Render(fmt.Sprintf("Match %d%%", *spot.MatchScore)))
	}
	b.WriteString("\n")

	switch m.modal.State() {
	case detail.ModalOpening:
		b.WriteString(m.styles.Muted.Render("Opening..."))
		return m.atOrigin(b.String())
	case detail.ModalClosing:
		b.WriteString(m.styles.Muted.Render("Closing..."))
		return m.atOrigin(b.String())
	}

	for _, attr := range mapview.DetailContent(spot).Attributes {
		fmt.Fprintf(&b, "%s: %s   ", attr.Label, attr.Value)
	}
	b.WriteString("\n")
	if m.miniMap != nil {
		b.WriteString(m.renderMiniMap(spot))
	}

	b.WriteString("\n" + m.styles.Header.Render("Reviews") + "\n")
	switch {
	case m.loading:
		b.WriteString(m.styles.Muted.Render("Loading reviews...") + "\n")
	case len(m.reviews) == 0:
		b.WriteString(m.styles.Muted.Render("No reviews yet. Be the first to review this spot!") + "\n")
	default:
		for _, r := range m.reviews {
			b.WriteString(m.renderReview(r))
		}
	}

	b.WriteString("\n" + m.styles.Header.Render("Leave a review") + "\n")
	b.WriteString(m.fieldLabel(fieldName, "Name") + " " + m.name.View() + "\n")
	b.WriteString(m.fieldLabel(fieldStars, "Rating") + " " + m.styles.Stars.Render(stars(m.form.Stars)) + "\n")
	b.WriteString(m.fieldLabel(fieldText, "Review") + "\n" + m.text.View() + "\n")
	if m.submitting {
		b.WriteString(m.styles.Muted.Render("Submitting...") + "\n")
	}
	if m.notification != nil && m.notification.Active(time.Now()) {
		style := m.styles.Success
		if m.notification.Kind == detail.KindError {
			style = m.styles.Error
		}
		b.WriteString(style.Render(m.notification.Message) + "\n")
	}
	b.WriteString(m.styles.Help.Render("tab next field • ctrl+s submit • esc close"))
	return m.styles.Modal.Width(m.width).Render(b.String())
}

// atOrigin draws the shell on the card's row at the card's width, where the expand
// starts and the collapse ends
func (m *DetailModel) atOrigin(content string) string {
	origin := m.modal.Origin()
	top := max(int(origin.Top), 0)
	style := m.styles.Modal
	if w := int(origin.Width); w > 0 {
		style = style.Width(w)
	}
	return strings.Repeat("\n", top) + style.Render(content)
}

func (m *DetailModel) fieldLabel(f formField, label string) string {
	if f == m.focus {
		return m.styles.Focused.Render(label)
	}
	return label
}

func (m *DetailModel) renderReview(r models.Review) string {
	header := fmt.Sprintf("%s %s", r.Name, m.styles.Stars.Render(stars(r.Stars)))
	if d := r.CreatedAt.Display(); d != "" {
		header += " " + m.styles.Muted.Render(d)
	}
	body := r.Review
	if m.renderer != nil {
		if out, err := m.renderer.Render(r.Review); err == nil {
			body = strings.TrimRight(out, "\n")
		}
	}
	return header + "\n" + body + "\n"
}

func (m *DetailModel) renderMiniMap(spot models.StudySpot) string {
	col, row, ok := m.miniMap.Project(mapview.LngLat{Lat: *spot.Latitude, Lng: *spot.Longitude}, miniMapCols, miniMapRows)
	var b strings.Builder
	for r := 0; r < miniMapRows; r++ {
		for c := 0; c < miniMapCols; c++ {
			if ok && r == row && c == col {
				b.WriteString(m.styles.Marker.Render("●"))
				continue
			}
			b.WriteString(m.styles.Muted.Render("·"))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func stars(n int) string {
	n = models.ClampStars(n)
	return strings.Repeat("★", n) + strings.Repeat("☆", models.MaxStars-n)
}
