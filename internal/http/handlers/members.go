package handlers

import (
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/mauv0809/clubdesk/internal/access"
	"github.com/mauv0809/clubdesk/internal/analytics"
	"github.com/mauv0809/clubdesk/internal/club"
	"github.com/mauv0809/clubdesk/internal/listing"
	"github.com/mauv0809/clubdesk/internal/metrics"
)

// MemberMatchesResponse is one page of a member's most recent matches with
// headline numbers. Total counts the matches across all pages.
type MemberMatchesResponse struct {
	Rows        []club.MatchRecord         `json:"rows"`
	Total       int                        `json:"total"`
	Page        int                        `json:"page"`
	PageSize    int                        `json:"pageSize"`
	Performance analytics.PerformanceStats `json:"performance"`
}

func GetMemberHandler(store club.ClubStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		member, err := store.GetMember(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeServiceError(w, err, "get member")
			return
		}
		writeJSON(w, http.StatusOK, member)
	}
}

// CreateMemberHandler adds a member on behalf of an admin. New members are
// active with the member role unless the request says otherwise.
func CreateMemberHandler(store club.ClubStore, counters metrics.CounterStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !require(w, r, access.ManageMembers) {
			return
		}
		var m club.Member
		if err := decodeJSON(r, &m); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", "Invalid JSON")
			return
		}
		added, err := addMember(r, store, counters, m)
		if err != nil {
			writeServiceError(w, err, "add member")
			return
		}
		writeJSON(w, http.StatusCreated, added)
	}
}

func addMember(r *http.Request, store club.ClubStore, counters metrics.CounterStore, m club.Member) (*club.Member, error) {
	if m.Status == "" {
		m.Status = club.StatusActive
	}
	if m.Role == "" {
		m.Role = club.RoleMember
	}
	added, err := store.AddMember(r.Context(), m)
	if err != nil {
		return nil, err
	}
	if counters != nil {
		counters.Increment(r.Context(), metrics.CounterMembersSignedUp)
	}
	log.Info("Added member", "memberID", added.ID, "name", added.Name)
	return added, nil
}

// UpdateMemberHandler applies a partial update. Members managing the club may
// change anything; everyone else may change the contact fields of their own profile.
func UpdateMemberHandler(store club.ClubStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		var patch club.MemberPatch
		if err := decodeJSON(r, &patch); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", "Invalid JSON")
			return
		}

		s := currentSession(r)
		if !s.Can(access.ManageMembers) {
			if s.MemberID != id || !s.Can(access.EditOwnProfile) {
				writeServiceError(w, access.Require(s.Role, access.ManageMembers), "authorize")
				return
			}
			if patch.Status != nil || patch.Role != nil || patch.NTRP != nil || patch.SingleClass != nil || patch.DoubleClass != nil {
				writeError(w, http.StatusForbidden, "forbidden", "only contact details of your own profile may be changed")
				return
			}
		}

		member, err := store.UpdateMember(r.Context(), id, patch)
		if err != nil {
			writeServiceError(w, err, "update member")
			return
		}
		log.Info("Updated member", "memberID", id, "by", s.MemberID)
		writeJSON(w, http.StatusOK, member)
	}
}

// MemberMatchesHandler serves a page of a member's matches, newest first.
// The page is zero-based and five rows long unless pageSize says otherwise.
func MemberMatchesHandler(store club.ClubStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		page, pageSize, ok := pageParams(w, r, listing.DefaultPageSize)
		if !ok {
			return
		}
		if _, err := store.GetMember(r.Context(), id); err != nil {
			writeServiceError(w, err, "get member")
			return
		}
		records, total, err := store.ListMatchRecords(r.Context(), club.MatchRecordQuery{
			MemberID:   id,
			Pagination: club.Pagination{Page: page + 1, PageSize: pageSize},
		})
		if err != nil {
			writeServiceError(w, err, "list member matches")
			return
		}
		writeJSON(w, http.StatusOK, MemberMatchesResponse{
			Rows:        records,
			Total:       total,
			Page:        page,
			PageSize:    pageSize,
			Performance: analytics.Performance(records, total),
		})
	}
}

func MemberAnalyticsHandler(svc *analytics.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		summary, err := svc.MemberSummary(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeServiceError(w, err, "load member analytics")
			return
		}
		writeJSON(w, http.StatusOK, summary)
	}
}

// ResolveMembersHandler suggests members for a typed name, as used by the team picker.
func ResolveMembersHandler(resolver *club.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimSpace(r.URL.Query().Get("name"))
		if name == "" {
			writeError(w, http.StatusBadRequest, "bad_request", "name is required")
			return
		}
		suggestions, err := resolver.Resolve(r.Context(), name)
		if err != nil {
			writeServiceError(w, err, "resolve members")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"suggestions": suggestions})
	}
}
