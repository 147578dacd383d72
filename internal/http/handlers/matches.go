package handlers

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/clubdesk/internal/access"
	"github.com/mauv0809/clubdesk/internal/club"
	"github.com/mauv0809/clubdesk/internal/metrics"
	"github.com/mauv0809/clubdesk/internal/recording"
)

// RecordMatchHandler submits a match form as the signed-in member. Each request
// runs its own workflow. On success it answers 201 and points the client back
// at the match list.
func RecordMatchHandler(newWorkflow recording.Factory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !require(w, r, access.RecordMatch) {
			return
		}
		var form recording.Form
		if err := decodeJSON(r, &form); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", "Invalid JSON")
			return
		}

		match, err := newWorkflow().Submit(r.Context(), form, currentSession(r).MemberID)
		if err != nil {
			writeServiceError(w, err, "record match")
			return
		}
		w.Header().Set("Location", "/matches")
		writeJSON(w, http.StatusCreated, match)
	}
}

func GetMatchHandler(store club.ClubStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := int64Param(r, "id")
		if !ok {
			writeError(w, http.StatusBadRequest, "bad_request", "invalid match id")
			return
		}
		match, err := store.GetMatch(r.Context(), id)
		if err != nil {
			writeServiceError(w, err, "get match")
			return
		}
		writeJSON(w, http.StatusOK, match)
	}
}

func DeleteMatchHandler(store club.ClubStore, counters metrics.CounterStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !require(w, r, access.DeleteMatch) {
			return
		}
		id, ok := int64Param(r, "id")
		if !ok {
			writeError(w, http.StatusBadRequest, "bad_request", "invalid match id")
			return
		}
		if IsDryRunFromContext(r) {
			log.Info("[Dry Run] Would have deleted match", "matchID", id)
			w.WriteHeader(http.StatusNoContent)
			return
		}
		if err := store.DeleteMatch(r.Context(), id); err != nil {
			writeServiceError(w, err, "delete match")
			return
		}
		if counters != nil {
			counters.Increment(r.Context(), metrics.CounterMatchesDeleted)
		}
		log.Info("Deleted match", "matchID", id, "by", currentSession(r).MemberID)
		w.WriteHeader(http.StatusNoContent)
	}
}
