package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/clubdesk/internal/analytics"
	"github.com/mauv0809/clubdesk/internal/club"
	"github.com/mauv0809/clubdesk/internal/notifier"
	"github.com/slack-go/slack"
)

// parseSlashCommand reads a slash command and checks its signature. Without a
// signing secret the signature is not checked.
func parseSlashCommand(r *http.Request, signingSecret string) (slack.SlashCommand, error) {
	if signingSecret == "" {
		log.Warn("Slack signing secret not set, skipping request verification")
		return slack.SlashCommandParse(r)
	}
	verifier, err := slack.NewSecretsVerifier(r.Header, signingSecret)
	if err != nil {
		return slack.SlashCommand{}, err
	}
	r.Body = io.NopCloser(io.TeeReader(r.Body, &verifier))
	cmd, err := slack.SlashCommandParse(r)
	if err != nil {
		return slack.SlashCommand{}, err
	}
	if err := verifier.Ensure(); err != nil {
		return slack.SlashCommand{}, err
	}
	return cmd, nil
}

// respondWithSlackMsg is a helper to format and write a Slack message as an HTTP response.
func respondWithSlackMsg(w http.ResponseWriter, msg any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(msg); err != nil {
		log.Error("Failed to encode slack message to JSON", "error", err)
	}
}

// RankingCommandHandler answers the /ranking slash command. The command text
// may name a season id; otherwise the season running today is used.
func RankingCommandHandler(store club.ClubStore, svc *analytics.Service, n notifier.Notifier, signingSecret string, now func() time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cmd, err := parseSlashCommand(r, signingSecret)
		if err != nil {
			log.Warn("Rejected slash command", "error", err)
			http.Error(w, "Invalid request", http.StatusUnauthorized)
			return
		}
		log.Info("Received ranking command", "user", cmd.UserName, "text", cmd.Text)

		seasonID, usage := commandSeason(r, store, strings.TrimSpace(cmd.Text), now)
		if usage != "" {
			respondWithSlackMsg(w, slack.Msg{ResponseType: "ephemeral", Text: usage})
			return
		}
		entries, err := svc.Ranking(r.Context(), seasonID, club.PointsTotal)
		if errors.Is(err, club.ErrSeasonNotFound) {
			respondWithSlackMsg(w, slack.Msg{ResponseType: "ephemeral", Text: fmt.Sprintf("Season %d does not exist.", seasonID)})
			return
		}
		if err != nil {
			log.Error("Failed to load ranking", "seasonID", seasonID, "error", err)
			http.Error(w, "Failed to load ranking", http.StatusInternalServerError)
			return
		}
		season := ""
		if s, err := store.GetSeason(r.Context(), seasonID); err == nil {
			season = s.Name
		}

		msg, err := n.FormatRankingResponse(season, entries)
		if err != nil {
			log.Error("Failed to format ranking", "error", err)
			http.Error(w, "Failed to format ranking", http.StatusInternalServerError)
			return
		}
		respondWithSlackMsg(w, msg)
	}
}

// commandSeason picks the season of a command, or returns a usage message.
func commandSeason(r *http.Request, store club.ClubStore, text string, now func() time.Time) (int64, string) {
	if text != "" {
		id, err := strconv.ParseInt(text, 10, 64)
		if err != nil || id < 1 {
			return 0, "Usage: /ranking [season id]"
		}
		return id, ""
	}
	season, err := currentSeason(r, store, now)
	if err != nil {
		return 0, "No season is running today."
	}
	return season.ID, ""
}
