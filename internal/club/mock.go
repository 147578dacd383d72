package club

import (
	"context"
	"sync"
)

var _ ClubStore = (*MockStore)(nil)

// MockStore is a mock implementation of the ClubStore interface for testing.
// It is safe for concurrent use. Methods without a Func return zero values.
type MockStore struct {
	mu sync.Mutex

	// Spies for method calls
	ListMembersFunc        func(ctx context.Context, q MemberQuery) ([]Member, int, error)
	CountMembersFunc       func(ctx context.Context, q MemberQuery) (int, error)
	GetMemberFunc          func(ctx context.Context, id string) (*Member, error)
	AddMemberFunc          func(ctx context.Context, m Member) (*Member, error)
	UpdateMemberFunc       func(ctx context.Context, id string, patch MemberPatch) (*Member, error)
	ListMatchRecordsFunc   func(ctx context.Context, q MatchRecordQuery) ([]MatchRecord, int, error)
	CountMatchRecordsFunc  func(ctx context.Context, q MatchRecordQuery) (int, error)
	MemberMatchRecordsFunc func(ctx context.Context, memberID string) ([]MatchRecord, error)
	GetMatchFunc           func(ctx context.Context, id int64) (*Match, error)
	RecordMatchFunc        func(ctx context.Context, in MatchInput) (*Match, error)
	DeleteMatchFunc        func(ctx context.Context, id int64) error
	MatchTypeCountsFunc    func(ctx context.Context) (map[MatchType]int, error)
	ListSeasonsFunc        func(ctx context.Context) ([]Season, error)
	GetSeasonFunc          func(ctx context.Context, id int64) (*Season, error)
	AddSeasonFunc          func(ctx context.Context, s Season) (*Season, error)
	UpdateSeasonFunc       func(ctx context.Context, id int64, patch SeasonPatch) (*Season, error)
	SeasonsOnFunc          func(ctx context.Context, day string) ([]Season, error)
	SeasonRankingFunc      func(ctx context.Context, seasonID int64, points PointsType) ([]RankingRow, error)
	ClassHistoryFunc       func(ctx context.Context, memberID string) ([]ClassChange, error)

	// Call records
	ListMembersCalls       []MemberQuery
	CountMembersCalls      []MemberQuery
	ListMatchRecordsCalls  []MatchRecordQuery
	CountMatchRecordsCalls []MatchRecordQuery
	RecordMatchCalls       []MatchInput
	DeleteMatchCalls       []int64
	UpdateMemberCalls      []struct {
		ID    string
		Patch MemberPatch
	}
}

// NewMock creates a new mock instance.
func NewMock() *MockStore {
	return &MockStore{}
}

// Reset clears all call records.
func (m *MockStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ListMembersCalls = nil
	m.CountMembersCalls = nil
	m.ListMatchRecordsCalls = nil
	m.CountMatchRecordsCalls = nil
	m.RecordMatchCalls = nil
	m.DeleteMatchCalls = nil
	m.UpdateMemberCalls = nil
}

func (m *MockStore) ListMembers(ctx context.Context, q MemberQuery) ([]Member, int, error) {
	m.mu.Lock()
	m.ListMembersCalls = append(m.ListMembersCalls, q)
	fn := m.ListMembersFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, q)
	}
	return []Member{}, 0, nil
}

func (m *MockStore) CountMembers(ctx context.Context, q MemberQuery) (int, error) {
	m.mu.Lock()
	m.CountMembersCalls = append(m.CountMembersCalls, q)
	fn := m.CountMembersFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, q)
	}
	return 0, nil
}

func (m *MockStore) GetMember(ctx context.Context, id string) (*Member, error) {
	if m.GetMemberFunc != nil {
		return m.GetMemberFunc(ctx, id)
	}
	return nil, ErrMemberNotFound
}

func (m *MockStore) AddMember(ctx context.Context, member Member) (*Member, error) {
	if m.AddMemberFunc != nil {
		return m.AddMemberFunc(ctx, member)
	}
	return &member, nil
}

func (m *MockStore) UpdateMember(ctx context.Context, id string, patch MemberPatch) (*Member, error) {
	m.mu.Lock()
	m.UpdateMemberCalls = append(m.UpdateMemberCalls, struct {
		ID    string
		Patch MemberPatch
	}{id, patch})
	fn := m.UpdateMemberFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, id, patch)
	}
	return nil, ErrMemberNotFound
}

func (m *MockStore) ListMatchRecords(ctx context.Context, q MatchRecordQuery) ([]MatchRecord, int, error) {
	m.mu.Lock()
	m.ListMatchRecordsCalls = append(m.ListMatchRecordsCalls, q)
	fn := m.ListMatchRecordsFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, q)
	}
	return []MatchRecord{}, 0, nil
}

func (m *MockStore) CountMatchRecords(ctx context.Context, q MatchRecordQuery) (int, error) {
	m.mu.Lock()
	m.CountMatchRecordsCalls = append(m.CountMatchRecordsCalls, q)
	fn := m.CountMatchRecordsFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, q)
	}
	return 0, nil
}

func (m *MockStore) MemberMatchRecords(ctx context.Context, memberID string) ([]MatchRecord, error) {
	if m.MemberMatchRecordsFunc != nil {
		return m.MemberMatchRecordsFunc(ctx, memberID)
	}
	return []MatchRecord{}, nil
}

func (m *MockStore) GetMatch(ctx context.Context, id int64) (*Match, error) {
	if m.GetMatchFunc != nil {
		return m.GetMatchFunc(ctx, id)
	}
	return nil, ErrMatchNotFound
}

func (m *MockStore) RecordMatch(ctx context.Context, in MatchInput) (*Match, error) {
	m.mu.Lock()
	m.RecordMatchCalls = append(m.RecordMatchCalls, in)
	id := int64(len(m.RecordMatchCalls))
	fn := m.RecordMatchFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, in)
	}
	return &Match{ID: id, SeasonID: in.SeasonID, MatchDate: in.MatchDate, MatchType: in.MatchType,
		Team1Score: in.Team1Score, Team2Score: in.Team2Score, WinnerTeam: in.WinnerTeam, GameNumber: in.GameNumber}, nil
}

func (m *MockStore) DeleteMatch(ctx context.Context, id int64) error {
	m.mu.Lock()
	m.DeleteMatchCalls = append(m.DeleteMatchCalls, id)
	fn := m.DeleteMatchFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, id)
	}
	return nil
}

func (m *MockStore) MatchTypeCounts(ctx context.Context) (map[MatchType]int, error) {
	if m.MatchTypeCountsFunc != nil {
		return m.MatchTypeCountsFunc(ctx)
	}
	return map[MatchType]int{MatchSingle: 0, MatchDoubles: 0}, nil
}

func (m *MockStore) ListSeasons(ctx context.Context) ([]Season, error) {
	if m.ListSeasonsFunc != nil {
		return m.ListSeasonsFunc(ctx)
	}
	return []Season{}, nil
}

func (m *MockStore) GetSeason(ctx context.Context, id int64) (*Season, error) {
	if m.GetSeasonFunc != nil {
		return m.GetSeasonFunc(ctx, id)
	}
	return nil, ErrSeasonNotFound
}

func (m *MockStore) AddSeason(ctx context.Context, s Season) (*Season, error) {
	if m.AddSeasonFunc != nil {
		return m.AddSeasonFunc(ctx, s)
	}
	return &s, nil
}

func (m *MockStore) UpdateSeason(ctx context.Context, id int64, patch SeasonPatch) (*Season, error) {
	if m.UpdateSeasonFunc != nil {
		return m.UpdateSeasonFunc(ctx, id, patch)
	}
	return nil, ErrSeasonNotFound
}

func (m *MockStore) SeasonsOn(ctx context.Context, day string) ([]Season, error) {
	if m.SeasonsOnFunc != nil {
		return m.SeasonsOnFunc(ctx, day)
	}
	return []Season{}, nil
}

func (m *MockStore) SeasonRanking(ctx context.Context, seasonID int64, points PointsType) ([]RankingRow, error) {
	if m.SeasonRankingFunc != nil {
		return m.SeasonRankingFunc(ctx, seasonID, points)
	}
	return []RankingRow{}, nil
}

func (m *MockStore) ClassHistory(ctx context.Context, memberID string) ([]ClassChange, error) {
	if m.ClassHistoryFunc != nil {
		return m.ClassHistoryFunc(ctx, memberID)
	}
	return []ClassChange{}, nil
}
