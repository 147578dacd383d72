package club

import "context"

// ClubStore defines the interface for interacting with the club's data.
//
// List operations return a non-nil slice and the total number of rows matching
// the filters on success, and a nil slice with a zero total on failure.
type ClubStore interface {
	ListMembers(ctx context.Context, q MemberQuery) ([]Member, int, error)
	CountMembers(ctx context.Context, q MemberQuery) (int, error)
	GetMember(ctx context.Context, id string) (*Member, error)
	AddMember(ctx context.Context, m Member) (*Member, error)
	UpdateMember(ctx context.Context, id string, patch MemberPatch) (*Member, error)

	ListMatchRecords(ctx context.Context, q MatchRecordQuery) ([]MatchRecord, int, error)
	CountMatchRecords(ctx context.Context, q MatchRecordQuery) (int, error)
	MemberMatchRecords(ctx context.Context, memberID string) ([]MatchRecord, error)
	GetMatch(ctx context.Context, id int64) (*Match, error)
	// RecordMatch stores the match and all of its participants, or nothing.
	RecordMatch(ctx context.Context, in MatchInput) (*Match, error)
	DeleteMatch(ctx context.Context, id int64) error
	MatchTypeCounts(ctx context.Context) (map[MatchType]int, error)

	ListSeasons(ctx context.Context) ([]Season, error)
	GetSeason(ctx context.Context, id int64) (*Season, error)
	AddSeason(ctx context.Context, s Season) (*Season, error)
	UpdateSeason(ctx context.Context, id int64, patch SeasonPatch) (*Season, error)
	// SeasonsOn returns the seasons whose date range contains day (YYYY-MM-DD).
	SeasonsOn(ctx context.Context, day string) ([]Season, error)
	SeasonRanking(ctx context.Context, seasonID int64, points PointsType) ([]RankingRow, error)

	ClassHistory(ctx context.Context, memberID string) ([]ClassChange, error)
}
