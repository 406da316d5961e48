package survey

import (
	"errors"
	"fmt"

	"spotfinder/internal/models"
	contextutils "spotfinder/internal/utils"
)

// State is the wizard's position
type State int

// Wizard states
const (
	StateSummary State = iota
	StateQuestion
	StateSubmitting
	StateComplete
)

var stateNames = map[State]string{
	StateSummary:    "summary",
	StateQuestion:   "question",
	StateSubmitting: "submitting",
	StateComplete:   "complete",
}

// String returns the lower-case state name
func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// ParseState is the inverse of State.String
func ParseState(name string) (State, error) {
	for s, n := range stateNames {
		if n == name {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown survey state %q", name)
}

var (
	// ErrInvalidTransition is returned when an action is not allowed in the current state
	ErrInvalidTransition = contextutils.ErrInvalidTransition
	// ErrUnknownOption is returned when an answer is not one of the current question's options
	ErrUnknownOption = errors.New("option is not offered by the current question")
)

// Flow is the survey state machine. It is not safe for concurrent use.
//
//	Summary -> Question(0)            Retake
//	Question(i) -> Question(i+1)      Answer, i+1 < N
//	Question(N-1) -> Submitting       Answer
//	Question(i) -> Question(i-1)      Previous, i > 0
//	Submitting -> Complete            Submitter.Submit
type Flow struct {
	state     State
	index     int
	responses models.SurveyResponse
	saved     models.SurveyResponse
}

// NewFlow starts at Summary when saved holds at least one answer, otherwise at Question(0)
func NewFlow(saved models.SurveyResponse) *Flow {
	f := &Flow{responses: models.NewSurveyResponse()}
	if saved.HasAnswers() {
		f.state = StateSummary
		f.saved = saved.Clone()
	} else {
		f.state = StateQuestion
	}
	return f
}

// State returns the current state
func (f *Flow) State() State {
	return f.state
}

// Index returns the current question index; it is meaningful only in StateQuestion
func (f *Flow) Index() int {
	return f.index
}

// Question returns the visible question. ok is false outside StateQuestion.
func (f *Flow) Question() (q Question, ok bool) {
	if f.state != StateQuestion {
		return Question{}, false
	}
	return Questions[f.index], true
}

// Responses returns a copy of the in-progress answers
func (f *Flow) Responses() models.SurveyResponse {
	return f.responses.Clone()
}

// Saved returns the previously stored answers shown by the summary, or nil
func (f *Flow) Saved() models.SurveyResponse {
	if f.saved == nil {
		return nil
	}
	return f.saved.Clone()
}

// Summary lists the saved answers for the summary screen
func (f *Flow) Summary() []SummaryItem {
	return Summarize(f.saved)
}

// Retake leaves the summary and starts the wizard with no answers
func (f *Flow) Retake() error {
	if f.state != StateSummary {
		return f.invalid("retake")
	}
	f.state = StateQuestion
	f.index = 0
	f.responses = models.NewSurveyResponse()
	return nil
}

// Answer records option for the current question, then advances or moves to Submitting
func (f *Flow) Answer(option string) error {
	if f.state != StateQuestion {
		return f.invalid("answer")
	}
	q := Questions[f.index]
	if !q.HasOption(option) {
		return fmt.Errorf("%w: %q for %s", ErrUnknownOption, option, q.Key)
	}

	f.responses[q.Key] = option
	if f.index+1 < len(Questions) {
		f.index++
		return nil
	}
	f.state = StateSubmitting
	return nil
}

// Previous goes back one question and keeps the answer given there
func (f *Flow) Previous() error {
	if f.state != StateQuestion || f.index == 0 {
		return f.invalid("previous")
	}
	f.index--
	return nil
}

// CanGoBack reports whether Previous is currently allowed
func (f *Flow) CanGoBack() bool {
	return f.state == StateQuestion && f.index > 0
}

// Selected returns the recorded answer for the visible question, or ""
func (f *Flow) Selected() string {
	if f.state != StateQuestion {
		return ""
	}
	return f.responses[Questions[f.index].Key]
}

// Progress renders "Q i/N" for the visible question
func (f *Flow) Progress() string {
	if f.state != StateQuestion {
		return ""
	}
	return fmt.Sprintf("Q %d/%d", f.index+1, len(Questions))
}

// complete is only reachable through Submitter.Submit
func (f *Flow) complete() error {
	if f.state != StateSubmitting {
		return f.invalid("complete")
	}
	f.state = StateComplete
	return nil
}

func (f *Flow) invalid(action string) error {
	return contextutils.WrapErrorf(ErrInvalidTransition, "cannot %s in state %s", action, f.state)
}

// Snapshot is the serializable form of a Flow kept in the web session
type Snapshot struct {
	State     string            `json:"state"`
	Index     int               `json:"index"`
	Responses map[string]string `json:"responses"`
	Saved     map[string]string `json:"saved,omitempty"`
}

// Snapshot captures the flow
func (f *Flow) Snapshot() Snapshot {
	snap := Snapshot{
		State:     f.state.String(),
		Index:     f.index,
		Responses: f.responses.Clone(),
	}
	if f.saved != nil {
		snap.Saved = f.saved.Clone()
	}
	return snap
}

// Restore rebuilds a flow from a snapshot, rejecting out-of-range positions
func Restore(snap Snapshot) (*Flow, error) {
	state, err := ParseState(snap.State)
	if err != nil {
		return nil, contextutils.WrapError(contextutils.ErrInvalidInput, err.Error())
	}
	if snap.Index < 0 || snap.Index >= len(Questions) {
		return nil, contextutils.WrapErrorf(contextutils.ErrInvalidInput, "question index %d out of range", snap.Index)
	}
	if state == StateSummary && !models.SurveyResponse(snap.Saved).HasAnswers() {
		return nil, contextutils.WrapError(contextutils.ErrInvalidInput, "summary snapshot without saved answers")
	}

	f := &Flow{
		state:     state,
		index:     snap.Index,
		responses: models.SurveyResponse(snap.Responses).Clone(),
	}
	if snap.Saved != nil {
		f.saved = models.SurveyResponse(snap.Saved).Clone()
	}
	return f, nil
}
