package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/clubdesk/internal/analytics"
	"github.com/mauv0809/clubdesk/internal/metrics"
	"github.com/mauv0809/clubdesk/internal/notifier"
	"github.com/slack-go/slack"
)

// slackClient is an interface that contains the methods from the slack.Client that we use.
// This allows for easy mocking in tests.
type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

var _ notifier.Notifier = &Notifier{}

// Notifier posts club announcements to a Slack channel.
type Notifier struct {
	api       slackClient
	channelID string
	metrics   metrics.Metrics
}

// NewNotifier creates a new Notifier.
func NewNotifier(token, channelID string, metrics metrics.Metrics) *Notifier {
	return &Notifier{
		api:       slack.New(token),
		channelID: channelID,
		metrics:   metrics,
	}
}

// NewNotifierWithAPI creates a new Notifier with a specific slack.Client instance.
// Useful for tests that need to intercept API calls.
func NewNotifierWithAPI(api slackClient, channelID string, metrics metrics.Metrics) *Notifier {
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

func (s *Notifier) sendMessage(ctx context.Context, message slack.Message, dryRun bool) (string, string, error) {
	if dryRun || s.api == nil {
		jsonMsg, _ := json.MarshalIndent(message, "", "  ")
		log.Info("[Dry Run] Would send Slack message", "channel", s.channelID, "message", string(jsonMsg))
		return "dry-run-channel", "dry-run-ts", nil
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	channelID, timestamp, err := s.api.PostMessageContext(
		ctx,
		s.channelID,
		slack.MsgOptionBlocks(message.Blocks.BlockSet...),
		slack.MsgOptionAsUser(true),
	)
	if err != nil {
		s.metrics.IncSlackNotifFailed()
		log.Error("Failed to send Slack message", "error", err, "channel", s.channelID)
		return "", "", fmt.Errorf("failed to post message: %w", err)
	}

	s.metrics.IncSlackNotifSent()
	log.Info("Successfully sent Slack message", "channel", channelID, "timestamp", timestamp)
	return channelID, timestamp, nil
}

// SendMatchResult announces a recorded match and returns the message timestamp.
func (s *Notifier) SendMatchResult(ctx context.Context, result notifier.MatchResult, dryRun bool) (string, error) {
	_, ts, err := s.sendMessage(ctx, s.formatMatchResult(result), dryRun)
	return ts, err
}

// SendRanking posts a season leaderboard.
func (s *Notifier) SendRanking(ctx context.Context, season string, entries []analytics.RankEntry, dryRun bool) error {
	_, _, err := s.sendMessage(ctx, s.formatRanking(season, entries), dryRun)
	return err
}

// FormatRankingResponse formats a leaderboard for a slash command response.
func (s *Notifier) FormatRankingResponse(season string, entries []analytics.RankEntry) (any, error) {
	return s.formatRanking(season, entries), nil
}

func teamName(names []string) string {
	if len(names) == 0 {
		return "Unknown"
	}
	return strings.Join(names, " & ")
}

// formatMatchResult creates the Slack message for a recorded match using Block Kit.
func (s *Notifier) formatMatchResult(r notifier.MatchResult) slack.Message {
	blocks := make([]slack.Block, 0, 4)

	kind := "Singles"
	if r.MatchType == "doubles" {
		kind = "Doubles"
	}
	headerText := slack.NewTextBlockObject("plain_text", fmt.Sprintf("🎾 %s match recorded! 🎾", kind), true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	details := r.MatchDate
	if r.Season != "" {
		details = fmt.Sprintf("%s, %s", r.Season, r.MatchDate)
	}
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", details, false, false), nil, nil))

	scores := []*slack.TextBlockObject{
		slack.NewTextBlockObject("plain_text", fmt.Sprintf("• %s: %d", teamName(r.Team1), r.Team1Score), true, false),
		slack.NewTextBlockObject("plain_text", fmt.Sprintf("• %s: %d", teamName(r.Team2), r.Team2Score), true, false),
	}
	resultText := fmt.Sprintf("Result: %s won! 🏆", teamName(r.Winners()))
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", resultText, true, false), scores, nil))

	blocks = append(blocks, slack.NewContextBlock("", slack.NewTextBlockObject("plain_text", fmt.Sprintf("Match #%d", r.MatchID), false, false)))
	return slack.NewBlockMessage(blocks...)
}

// formatRanking creates a Slack message to display a season leaderboard.
func (s *Notifier) formatRanking(season string, entries []analytics.RankEntry) slack.Message {
	blocks := make([]slack.Block, 0, len(entries)+1)

	headerText := slack.NewTextBlockObject("plain_text", fmt.Sprintf("🏆 %s Ranking 🏆", season), true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	if len(entries) == 0 {
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", "No matches recorded this season yet. Go play some matches!", true, false), nil, nil))
		return slack.NewBlockMessage(blocks...)
	}

	for _, e := range entries {
		var medal string
		switch e.Rank {
		case 1:
			medal = "🥇"
		case 2:
			medal = "🥈"
		case 3:
			medal = "🥉"
		}
		text := fmt.Sprintf("%d. %s %s\n> *Points*: %d | *Win %%*: %s (%d/%d)",
			e.Rank,
			medal,
			e.Name,
			e.Score,
			analytics.FormatPercent(analytics.WinRate(e.Wins, e.Played)),
			e.Wins,
			e.Played,
		)
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", text, false, false), nil, nil))
	}
	return slack.NewBlockMessage(blocks...)
}
