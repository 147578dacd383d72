package handlers

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/clubdesk/internal/access"
	"github.com/mauv0809/clubdesk/internal/analytics"
	"github.com/mauv0809/clubdesk/internal/announcer"
	"github.com/mauv0809/clubdesk/internal/club"
)

func ListSeasonsHandler(store club.ClubStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		seasons, err := store.ListSeasons(r.Context())
		if err != nil {
			writeServiceError(w, err, "list seasons")
			return
		}
		writeJSON(w, http.StatusOK, seasons)
	}
}

func CreateSeasonHandler(store club.ClubStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !require(w, r, access.ManageSeasons) {
			return
		}
		var s club.Season
		if err := decodeJSON(r, &s); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", "Invalid JSON")
			return
		}
		season, err := store.AddSeason(r.Context(), s)
		if err != nil {
			writeServiceError(w, err, "add season")
			return
		}
		log.Info("Added season", "seasonID", season.ID, "name", season.Name)
		writeJSON(w, http.StatusCreated, season)
	}
}

// CurrentSeasonHandler returns the season running today.
func CurrentSeasonHandler(store club.ClubStore, now func() time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		season, err := currentSeason(r, store, now)
		if err != nil {
			writeServiceError(w, err, "find current season")
			return
		}
		writeJSON(w, http.StatusOK, season)
	}
}

// currentSeason returns the season whose range contains today. When seasons
// overlap the one starting last wins.
func currentSeason(r *http.Request, store club.ClubStore, now func() time.Time) (*club.Season, error) {
	seasons, err := store.SeasonsOn(r.Context(), now().Format("2006-01-02"))
	if err != nil {
		return nil, err
	}
	if len(seasons) == 0 {
		return nil, club.ErrSeasonNotFound
	}
	current := seasons[0]
	for _, s := range seasons[1:] {
		if s.StartDate > current.StartDate {
			current = s
		}
	}
	return &current, nil
}

func GetSeasonHandler(store club.ClubStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := int64Param(r, "id")
		if !ok {
			writeError(w, http.StatusBadRequest, "bad_request", "invalid season id")
			return
		}
		season, err := store.GetSeason(r.Context(), id)
		if err != nil {
			writeServiceError(w, err, "get season")
			return
		}
		writeJSON(w, http.StatusOK, season)
	}
}

func UpdateSeasonHandler(store club.ClubStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !require(w, r, access.ManageSeasons) {
			return
		}
		id, ok := int64Param(r, "id")
		if !ok {
			writeError(w, http.StatusBadRequest, "bad_request", "invalid season id")
			return
		}
		var patch club.SeasonPatch
		if err := decodeJSON(r, &patch); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", "Invalid JSON")
			return
		}
		season, err := store.UpdateSeason(r.Context(), id, patch)
		if err != nil {
			writeServiceError(w, err, "update season")
			return
		}
		writeJSON(w, http.StatusOK, season)
	}
}

func pointsType(r *http.Request) club.PointsType {
	if t := r.URL.Query().Get("type"); t != "" {
		return club.PointsType(t)
	}
	return club.PointsTotal
}

// RankingHandler serves a season leaderboard for ?type=total|single|doubles.
func RankingHandler(svc *analytics.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := int64Param(r, "id")
		if !ok {
			writeError(w, http.StatusBadRequest, "bad_request", "invalid season id")
			return
		}
		entries, err := svc.Ranking(r.Context(), id, pointsType(r))
		if err != nil {
			writeServiceError(w, err, "load ranking")
			return
		}
		writeJSON(w, http.StatusOK, entries)
	}
}

// AnnounceRankingHandler posts a season leaderboard to the club channel.
func AnnounceRankingHandler(a *announcer.Announcer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !require(w, r, access.AnnounceResult) {
			return
		}
		id, ok := int64Param(r, "id")
		if !ok {
			writeError(w, http.StatusBadRequest, "bad_request", "invalid season id")
			return
		}
		if err := a.AnnounceRanking(r.Context(), id, pointsType(r), IsDryRunFromContext(r)); err != nil {
			writeServiceError(w, err, "announce ranking")
			return
		}
		w.WriteHeader(http.StatusAccepted)
	}
}
