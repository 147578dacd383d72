package metrics

import (
	"context"
	"sync"
)

var _ Metrics = (*Mock)(nil)

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu                sync.Mutex
	listFetches       map[string]int
	listFetchFailures map[string]int
	listFetchTimes    map[string][]float64
	tabCountFailures  map[string]int
	matchesRecorded   int
	matchRecordFailed int
	slackNotifSent    int
	slackNotifFailed  int
	startupTime       float64
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		listFetches:       map[string]int{},
		listFetchFailures: map[string]int{},
		listFetchTimes:    map[string][]float64{},
		tabCountFailures:  map[string]int{},
	}
}

func (m *Mock) IncListFetch(view string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listFetches[view]++
}

func (m *Mock) IncListFetchFailed(view string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listFetchFailures[view]++
}

func (m *Mock) ObserveListFetchDuration(view string, seconds float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listFetchTimes[view] = append(m.listFetchTimes[view], seconds)
}

func (m *Mock) IncTabCountFailed(view string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tabCountFailures[view]++
}

func (m *Mock) IncMatchesRecorded() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matchesRecorded++
}

func (m *Mock) IncMatchRecordFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matchRecordFailed++
}

func (m *Mock) IncSlackNotifSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifSent++
}

func (m *Mock) IncSlackNotifFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifFailed++
}

func (m *Mock) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startupTime = duration
}

// ListFetches returns the number of times IncListFetch was called for view.
func (m *Mock) ListFetches(view string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listFetches[view]
}

// ListFetchFailures returns the number of times IncListFetchFailed was called for view.
func (m *Mock) ListFetchFailures(view string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listFetchFailures[view]
}

// ListFetchDurations returns the durations observed for view.
func (m *Mock) ListFetchDurations(view string) []float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]float64(nil), m.listFetchTimes[view]...)
}

// TabCountFailures returns the number of times IncTabCountFailed was called for view.
func (m *Mock) TabCountFailures(view string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tabCountFailures[view]
}

// MatchesRecorded returns the number of times IncMatchesRecorded was called.
func (m *Mock) MatchesRecorded() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.matchesRecorded
}

// MatchRecordFailed returns the number of times IncMatchRecordFailed was called.
func (m *Mock) MatchRecordFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.matchRecordFailed
}

// SlackNotifSent returns the number of times IncSlackNotifSent was called.
func (m *Mock) SlackNotifSent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifSent
}

// SlackNotifFailed returns the number of times IncSlackNotifFailed was called.
func (m *Mock) SlackNotifFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifFailed
}

// StartupTime returns the last value passed to SetStartupTime.
func (m *Mock) StartupTime() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.startupTime
}

var _ CounterStore = (*MockCounterStore)(nil)

// MockCounterStore keeps counters in memory.
type MockCounterStore struct {
	mu       sync.Mutex
	counters map[string]int
}

// NewMockCounterStore creates an empty in-memory counter store.
func NewMockCounterStore() *MockCounterStore {
	return &MockCounterStore{counters: map[string]int{}}
}

func (m *MockCounterStore) Increment(ctx context.Context, key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters[key]++
}

func (m *MockCounterStore) GetAll(ctx context.Context) (map[string]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]int, len(m.counters))
	for k, v := range m.counters {
		out[k] = v
	}
	return out, nil
}
