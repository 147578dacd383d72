package club

import (
	"context"
	"strconv"

	"github.com/mauv0809/clubdesk/internal/listing"
)

// MemberQueryFrom converts the filters of the member list. The free-text
// filters share one search term: the first non-empty of email, phone, name and role.
func MemberQueryFrom(s listing.State) (MemberQuery, error) {
	q := MemberQuery{SortAsc: s.SortDir() == listing.SortAsc}
	if v := s.Get("status"); v != "" {
		q.Status = MemberStatus(v)
		if !q.Status.Valid() {
			return MemberQuery{}, invalid("status", "must be active or inactive")
		}
	}
	for _, key := range []string{"email", "phone", "name", "role"} {
		if v := s.Get(key); v != "" {
			q.Search = v
			break
		}
	}
	return q, nil
}

// MatchRecordQueryFrom converts the filters of the match list.
func MatchRecordQueryFrom(s listing.State) (MatchRecordQuery, error) {
	q := MatchRecordQuery{
		MemberName: s.Get("memberName"),
		Result:     s.Get("status"),
		SortAsc:    s.SortDir() == listing.SortAsc,
	}
	if q.Result != "" && q.Result != ResultWin && q.Result != ResultLose {
		return MatchRecordQuery{}, invalid("status", "must be win or lose")
	}
	if v := s.Get("seasonId"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id < 1 {
			return MatchRecordQuery{}, invalid("seasonId", "must be a season id")
		}
		q.SeasonID = id
	}
	if v := s.Get("matchType"); v != "" {
		q.MatchType = MatchType(v)
		if !q.MatchType.Valid() {
			return MatchRecordQuery{}, invalid("matchType", "must be single or doubles")
		}
	}
	if v := s.Get("teamNo"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || (n != 1 && n != 2) {
			return MatchRecordQuery{}, invalid("teamNo", "must be 1 or 2")
		}
		q.TeamNo = n
	}
	return q, nil
}

// MemberFetcher loads member list pages from store.
func MemberFetcher(store ClubStore) listing.FetchFunc[Member] {
	return func(ctx context.Context, lq listing.Query) ([]Member, int, error) {
		q, err := MemberQueryFrom(lq.State)
		if err != nil {
			return nil, 0, err
		}
		q.Pagination = Pagination{Page: lq.Page, PageSize: lq.PageSize}
		return store.ListMembers(ctx, q)
	}
}

// MemberCounter counts members for the member list tabs.
func MemberCounter(store ClubStore) listing.CountFunc {
	return func(ctx context.Context, s listing.State) (int, error) {
		q, err := MemberQueryFrom(s)
		if err != nil {
			return 0, err
		}
		return store.CountMembers(ctx, q)
	}
}

// MatchRecordFetcher loads match list pages from store.
func MatchRecordFetcher(store ClubStore) listing.FetchFunc[MatchRecord] {
	return func(ctx context.Context, lq listing.Query) ([]MatchRecord, int, error) {
		q, err := MatchRecordQueryFrom(lq.State)
		if err != nil {
			return nil, 0, err
		}
		q.Pagination = Pagination{Page: lq.Page, PageSize: lq.PageSize}
		return store.ListMatchRecords(ctx, q)
	}
}

// MatchRecordCounter counts match records for the match list tabs.
func MatchRecordCounter(store ClubStore) listing.CountFunc {
	return func(ctx context.Context, s listing.State) (int, error) {
		q, err := MatchRecordQueryFrom(s)
		if err != nil {
			return 0, err
		}
		return store.CountMatchRecords(ctx, q)
	}
}

// RecordKey identifies a match record row. A match has one row per participant.
type RecordKey struct {
	MatchID  int64
	MemberID string
}

// Key returns the selection key of the record.
func (r MatchRecord) Key() RecordKey {
	return RecordKey{MatchID: r.MatchID, MemberID: r.MemberID}
}
