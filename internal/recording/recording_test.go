package recording

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/mauv0809/clubdesk/internal/club"
	"github.com/mauv0809/clubdesk/internal/metrics"
	"github.com/mauv0809/clubdesk/internal/pubsub"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func singlesForm() Form {
	f := NewForm(time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC))
	f.SeasonID = 2
	f.SetOurTeam([]string{"ada"})
	f.SetOpponentTeam([]string{"bob"})
	f.OurScore = 6
	f.OpponentScore = 4
	return f
}

func TestNewForm(t *testing.T) {
	f := NewForm(time.Date(2024, 5, 1, 23, 0, 0, 0, time.UTC))
	assert.Equal(t, "2024-05-01", f.MatchDate)
	assert.Equal(t, club.MatchSingle, f.MatchType)
	assert.Equal(t, 1, f.GameNumber)
}

func TestRosterKeepsMostRecentPicks(t *testing.T) {
	f := NewForm(time.Now())
	f.SetMatchType(club.MatchDoubles)
	f.AddToOurTeam("a")
	f.AddToOurTeam("b")
	f.AddToOurTeam("c")
	assert.Equal(t, []string{"b", "c"}, f.OurTeam)

	f.SetOpponentTeam([]string{"x", "y", "z"})
	assert.Equal(t, []string{"y", "z"}, f.OpponentTeam)

	f.SetMatchType(club.MatchSingle)
	assert.Empty(t, f.OurTeam)
	assert.Empty(t, f.OpponentTeam)

	f.SetOurTeam([]string{"a", "b"})
	assert.Equal(t, []string{"b"}, f.OurTeam)
	f.AddToOpponentTeam("x")
	f.AddToOpponentTeam("y")
	assert.Equal(t, []string{"y"}, f.OpponentTeam)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(f *Form)
		field  string
	}{
		{"valid", func(f *Form) {}, ""},
		{"missing date", func(f *Form) { f.MatchDate = "" }, "form"},
		{"missing season", func(f *Form) { f.SeasonID = 0 }, "form"},
		{"empty roster", func(f *Form) { f.OpponentTeam = nil }, "form"},
		{"bad date", func(f *Form) { f.MatchDate = "01/05/2024" }, "match_date"},
		{"timestamp date", func(f *Form) { f.MatchDate = "2024-05-01T08:30:00Z" }, ""},
		{"bad type", func(f *Form) { f.MatchType = "mixed" }, "match_type"},
		{"oversized roster", func(f *Form) { f.OurTeam = []string{"a", "b"} }, "teams"},
		{"same member on both sides", func(f *Form) { f.OpponentTeam = []string{"ada"} }, "teams"},
		{"negative score", func(f *Form) { f.OpponentScore = -1 }, "score"},
		{"tie", func(f *Form) { f.OpponentScore = 6 }, "score"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := singlesForm()
			tt.modify(&f)
			err := Validate(f)
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}

	f := singlesForm()
	f.SeasonID = 0
	var verr *ValidationError
	require.ErrorAs(t, Validate(f), &verr)
	assert.Equal(t, MsgRequired, verr.Message)
}

func TestInput(t *testing.T) {
	in := singlesForm().Input()
	assert.Equal(t, 1, in.WinnerTeam)
	assert.Equal(t, "2024-05-01", in.MatchDate)
	require.NotNil(t, in.GameNumber)
	assert.Equal(t, 1, *in.GameNumber)

	f := singlesForm()
	f.OurScore, f.OpponentScore = 3, 6
	f.GameNumber = 0
	f.MatchDate = "2024-05-01T22:30:00Z"
	in = f.Input()
	assert.Equal(t, 2, in.WinnerTeam)
	assert.Nil(t, in.GameNumber)
	assert.Equal(t, "2024-05-01", in.MatchDate)
}

func TestSubmitRecordsSinglesMatch(t *testing.T) {
	store := club.NewMock()
	pub := pubsub.NewMock()
	m := metrics.NewMock()
	counters := metrics.NewMockCounterStore()

	var (
		mu     sync.Mutex
		states []State
	)
	w := NewWorkflow(store, m, WithPublisher(pub), WithCounters(counters), OnTransition(func(from, to State) {
		mu.Lock()
		states = append(states, to)
		mu.Unlock()
	}))

	form := singlesForm()
	match, err := w.Submit(context.Background(), form, "ada")
	require.NoError(t, err)
	assert.Equal(t, 1, match.WinnerTeam)
	assert.Equal(t, club.MatchSingle, match.MatchType)

	require.Len(t, store.RecordMatchCalls, 1)
	in := store.RecordMatchCalls[0]
	assert.Equal(t, []string{"ada"}, in.Team1)
	assert.Equal(t, []string{"bob"}, in.Team2)
	assert.Equal(t, int64(2), in.SeasonID)
	assert.Equal(t, "2024-05-01", in.MatchDate)

	assert.Equal(t, []State{StateValidating, StateSubmitting, StateSuccess, StateIdle}, states)
	assert.Equal(t, StateIdle, w.State())
	assert.Equal(t, 1, m.MatchesRecorded())

	calls := pub.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, pubsub.EventMatchRecorded, calls[0].Event)
	event := calls[0].Data.(pubsub.MatchRecorded)
	assert.Equal(t, match.ID, event.MatchID)
	assert.Equal(t, "ada", event.RecordedBy)

	counts, err := counters.GetAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, counts[metrics.CounterMatchesRecorded])
}

func TestSubmitValidationFailure(t *testing.T) {
	store := club.NewMock()
	var states []State
	w := NewWorkflow(store, metrics.NewMock(), OnTransition(func(from, to State) { states = append(states, to) }))

	form := singlesForm()
	form.OurTeam = nil
	_, err := w.Submit(context.Background(), form, "ada")

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Empty(t, store.RecordMatchCalls)
	assert.Equal(t, []State{StateValidating, StateFailed, StateIdle}, states)
}

func TestSubmitStorageFailure(t *testing.T) {
	store := club.NewMock()
	store.RecordMatchFunc = func(ctx context.Context, in club.MatchInput) (*club.Match, error) {
		return nil, errors.New("constraint failed")
	}
	pub := pubsub.NewMock()
	m := metrics.NewMock()
	w := NewWorkflow(store, m, WithPublisher(pub))

	form := singlesForm()
	_, err := w.Submit(context.Background(), form, "ada")

	var serr *SubmitError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, MsgFailed, serr.Message)
	assert.ErrorContains(t, err, "constraint failed")
	assert.Equal(t, singlesForm(), form, "form is left as entered")
	assert.Equal(t, 1, m.MatchRecordFailed())
	assert.Empty(t, pub.Calls())
	assert.Equal(t, StateIdle, w.State())
}

func TestSubmitPublishFailureStillSucceeds(t *testing.T) {
	pub := pubsub.NewMock()
	pub.SendMessageFunc = func(ctx context.Context, event pubsub.EventType, data any) error {
		return errors.New("topic missing")
	}
	w := NewWorkflow(club.NewMock(), metrics.NewMock(), WithPublisher(pub))

	_, err := w.Submit(context.Background(), singlesForm(), "ada")
	assert.NoError(t, err)
}

func TestSubmitRejectsConcurrentSubmission(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})
	store := club.NewMock()
	store.RecordMatchFunc = func(ctx context.Context, in club.MatchInput) (*club.Match, error) {
		close(entered)
		<-release
		return &club.Match{ID: 1}, nil
	}
	w := NewWorkflow(store, metrics.NewMock())

	done := make(chan error, 1)
	go func() {
		_, err := w.Submit(context.Background(), singlesForm(), "ada")
		done <- err
	}()
	<-entered
	assert.Equal(t, StateSubmitting, w.State())

	_, err := w.Submit(context.Background(), singlesForm(), "bob")
	assert.ErrorIs(t, err, ErrSubmissionInProgress)

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, StateIdle, w.State())
}

func TestFactoryBuildsIndependentWorkflows(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})
	store := club.NewMock()
	var once sync.Once
	store.RecordMatchFunc = func(ctx context.Context, in club.MatchInput) (*club.Match, error) {
		held := false
		once.Do(func() { held = true })
		if held {
			close(entered)
			<-release
		}
		return &club.Match{ID: 1}, nil
	}
	newWorkflow := NewFactory(store, metrics.NewMock())

	done := make(chan error, 1)
	go func() {
		_, err := newWorkflow().Submit(context.Background(), singlesForm(), "ada")
		done <- err
	}()
	<-entered

	other := singlesForm()
	other.SetOurTeam([]string{"cid"})
	other.SetOpponentTeam([]string{"dee"})
	_, err := newWorkflow().Submit(context.Background(), other, "cid")
	assert.NoError(t, err)

	close(release)
	require.NoError(t, <-done)
}
