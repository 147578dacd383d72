package recording

import (
	"context"
	"errors"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/clubdesk/internal/club"
	"github.com/mauv0809/clubdesk/internal/metrics"
	"github.com/mauv0809/clubdesk/internal/pubsub"
)

// State is a step of the submission state machine.
type State string

const (
	StateIdle       State = "idle"
	StateValidating State = "validating"
	StateSubmitting State = "submitting"
	StateSuccess    State = "success"
	StateFailed     State = "failed"
)

// MsgFailed is the message shown to the user when storing a match fails.
const MsgFailed = "Failed to record match. Please try again."

// ErrSubmissionInProgress is returned when Submit is called while another submission runs.
var ErrSubmissionInProgress = errors.New("a match submission is already in progress")

// SubmitError is a failed submission. Message is safe to show to the user.
type SubmitError struct {
	Message string
	Err     error
}

func (e *SubmitError) Error() string {
	return e.Message + ": " + e.Err.Error()
}

func (e *SubmitError) Unwrap() error {
	return e.Err
}

// Recorder stores a match with all of its participants, or nothing.
type Recorder interface {
	RecordMatch(ctx context.Context, in club.MatchInput) (*club.Match, error)
}

// Workflow runs match submissions one at a time:
// idle -> validating -> submitting -> success|failed -> idle.
type Workflow struct {
	recorder  Recorder
	publisher pubsub.PubSubClient
	metrics   metrics.Metrics
	counters  metrics.CounterStore

	mu           sync.Mutex
	state        State
	onTransition func(from, to State)
}

// Option configures a Workflow.
type Option func(*Workflow)

// WithPublisher announces every recorded match on p.
func WithPublisher(p pubsub.PubSubClient) Option {
	return func(w *Workflow) { w.publisher = p }
}

// WithCounters keeps a persistent count of recorded matches.
func WithCounters(c metrics.CounterStore) Option {
	return func(w *Workflow) { w.counters = c }
}

// OnTransition registers a hook called after every state change.
func OnTransition(fn func(from, to State)) Option {
	return func(w *Workflow) { w.onTransition = fn }
}

// NewWorkflow creates an idle workflow.
func NewWorkflow(recorder Recorder, m metrics.Metrics, opts ...Option) *Workflow {
	w := &Workflow{recorder: recorder, metrics: m, state: StateIdle}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Factory builds one Workflow per match form. Every form gets its own state
// machine while the recorder, publisher and counters are shared.
type Factory func() *Workflow

// NewFactory returns a Factory whose workflows use the given recorder, metrics and options.
func NewFactory(recorder Recorder, m metrics.Metrics, opts ...Option) Factory {
	return func() *Workflow {
		return NewWorkflow(recorder, m, opts...)
	}
}

// State returns the current step.
func (w *Workflow) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

func (w *Workflow) transition(to State) {
	w.mu.Lock()
	from := w.state
	w.state = to
	hook := w.onTransition
	w.mu.Unlock()

	log.Debug("Match submission state changed", "from", from, "to", to)
	if hook != nil {
		hook(from, to)
	}
}

// Submit validates the form and records the match. Validation failures return
// a *ValidationError and storage failures a *SubmitError; the form itself is
// never changed. recordedBy is the member id of the submitter.
func (w *Workflow) Submit(ctx context.Context, form Form, recordedBy string) (*club.Match, error) {
	w.mu.Lock()
	if w.state != StateIdle {
		w.mu.Unlock()
		return nil, ErrSubmissionInProgress
	}
	w.state = StateValidating
	hook := w.onTransition
	w.mu.Unlock()
	if hook != nil {
		hook(StateIdle, StateValidating)
	}
	defer w.transition(StateIdle)

	if err := Validate(form); err != nil {
		log.Warn("Rejected match form", "error", err, "recordedBy", recordedBy)
		w.transition(StateFailed)
		return nil, err
	}

	w.transition(StateSubmitting)
	in := form.Input()
	match, err := w.recorder.RecordMatch(ctx, in)
	if err != nil {
		log.Error("Failed to record match", "error", err, "recordedBy", recordedBy)
		if w.metrics != nil {
			w.metrics.IncMatchRecordFailed()
		}
		w.transition(StateFailed)
		return nil, &SubmitError{Message: MsgFailed, Err: err}
	}

	if w.metrics != nil {
		w.metrics.IncMatchesRecorded()
	}
	if w.counters != nil {
		w.counters.Increment(ctx, metrics.CounterMatchesRecorded)
	}
	w.publish(ctx, match, in, recordedBy)

	w.transition(StateSuccess)
	return match, nil
}

func (w *Workflow) publish(ctx context.Context, match *club.Match, in club.MatchInput, recordedBy string) {
	if w.publisher == nil {
		return
	}
	event := pubsub.MatchRecorded{
		MatchID:    match.ID,
		SeasonID:   match.SeasonID,
		MatchDate:  match.MatchDate,
		MatchType:  string(match.MatchType),
		Team1Score: match.Team1Score,
		Team2Score: match.Team2Score,
		WinnerTeam: match.WinnerTeam,
		Team1:      in.Team1,
		Team2:      in.Team2,
		RecordedBy: recordedBy,
	}
	if err := w.publisher.SendMessage(ctx, pubsub.EventMatchRecorded, event); err != nil {
		log.Error("Failed to publish recorded match", "matchID", match.ID, "error", err)
	}
}
