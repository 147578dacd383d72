package notifier

import (
	"context"
	"sync"

	"github.com/mauv0809/clubdesk/internal/analytics"
)

var _ Notifier = (*Mock)(nil)

// Mock is a mock implementation of the Notifier interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	// Spies
	SendMatchResultFunc       func(ctx context.Context, result MatchResult, dryRun bool) (string, error)
	SendRankingFunc           func(ctx context.Context, season string, entries []analytics.RankEntry, dryRun bool) error
	FormatRankingResponseFunc func(season string, entries []analytics.RankEntry) (any, error)

	// Call records
	SendMatchResultCalls []MatchResult
	SendRankingCalls     []struct {
		Season  string
		Entries []analytics.RankEntry
	}
	LastRankingResponse any
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

// Reset clears all call records.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendMatchResultCalls = nil
	m.SendRankingCalls = nil
	m.LastRankingResponse = nil
}

// MatchResults returns a copy of the recorded SendMatchResult calls.
func (m *Mock) MatchResults() []MatchResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]MatchResult(nil), m.SendMatchResultCalls...)
}

func (m *Mock) SendMatchResult(ctx context.Context, result MatchResult, dryRun bool) (string, error) {
	m.mu.Lock()
	m.SendMatchResultCalls = append(m.SendMatchResultCalls, result)
	fn := m.SendMatchResultFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, result, dryRun)
	}
	return "mock-ts", nil
}

func (m *Mock) SendRanking(ctx context.Context, season string, entries []analytics.RankEntry, dryRun bool) error {
	m.mu.Lock()
	m.SendRankingCalls = append(m.SendRankingCalls, struct {
		Season  string
		Entries []analytics.RankEntry
	}{season, entries})
	fn := m.SendRankingFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, season, entries, dryRun)
	}
	return nil
}

func (m *Mock) FormatRankingResponse(season string, entries []analytics.RankEntry) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FormatRankingResponseFunc != nil {
		resp, err := m.FormatRankingResponseFunc(season, entries)
		m.LastRankingResponse = resp
		return resp, err
	}
	return "formatted_ranking", nil
}
