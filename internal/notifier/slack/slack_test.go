package slack

import (
	"context"
	"errors"
	"testing"

	"github.com/mauv0809/clubdesk/internal/analytics"
	"github.com/mauv0809/clubdesk/internal/metrics"
	"github.com/mauv0809/clubdesk/internal/notifier"
	slackapi "github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockSlackAPI is a mock implementation of the parts of the slack.Client that we use.
type mockSlackAPI struct {
	postMessageContextFunc func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error)
}

func (m *mockSlackAPI) PostMessageContext(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
	if m.postMessageContextFunc != nil {
		return m.postMessageContextFunc(ctx, channelID, options...)
	}
	return "C12345", "123456789.12345", nil
}

func TestSendMessage_DryRun(t *testing.T) {
	metrics := metrics.NewMock()
	// Pass nil for the api, as it shouldn't be called in dry-run mode.
	notifier := NewNotifierWithAPI(nil, "C123", metrics)

	_, ts, err := notifier.sendMessage(context.Background(), slackapi.NewBlockMessage(), true)
	require.NoError(t, err)
	assert.Equal(t, "dry-run-ts", ts)
	assert.Equal(t, 0, metrics.SlackNotifSent())
}

func TestSendMessage_Success(t *testing.T) {
	postMessageCalled := false
	api := &mockSlackAPI{
		postMessageContextFunc: func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
			postMessageCalled = true
			assert.Equal(t, "C123", channelID)
			return "C123", "ts123", nil
		},
	}

	metrics := metrics.NewMock()
	notifier := NewNotifierWithAPI(api, "C123", metrics)

	message := slackapi.NewBlockMessage(slackapi.NewSectionBlock(slackapi.NewTextBlockObject("plain_text", "hello", false, false), nil, nil))
	_, _, err := notifier.sendMessage(context.Background(), message, false)

	require.NoError(t, err)
	assert.True(t, postMessageCalled, "PostMessageContext should have been called")
	assert.Equal(t, 1, metrics.SlackNotifSent())
	assert.Equal(t, 0, metrics.SlackNotifFailed())
}

func TestSendMessage_Failure(t *testing.T) {
	expectedErr := errors.New("slack API is down")
	api := &mockSlackAPI{
		postMessageContextFunc: func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
			return "", "", expectedErr
		},
	}

	metrics := metrics.NewMock()
	notifier := NewNotifierWithAPI(api, "C123", metrics)

	_, _, err := notifier.sendMessage(context.Background(), slackapi.NewBlockMessage(), false)

	require.Error(t, err)
	assert.ErrorIs(t, err, expectedErr)
	assert.Equal(t, 0, metrics.SlackNotifSent())
	assert.Equal(t, 1, metrics.SlackNotifFailed())
}

func TestSendMatchResult_CallsSender(t *testing.T) {
	postMessageCalled := false
	api := &mockSlackAPI{
		postMessageContextFunc: func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
			postMessageCalled = true
			return "C123", "ts123", nil
		},
	}
	n := NewNotifierWithAPI(api, "C123", metrics.NewMock())

	ts, err := n.SendMatchResult(context.Background(), notifier.MatchResult{MatchID: 1, Team1: []string{"Ada"}, Team2: []string{"Bob"}, WinnerTeam: 1}, false)
	require.NoError(t, err)
	assert.Equal(t, "ts123", ts)
	assert.True(t, postMessageCalled, "PostMessageContext should have been called via SendMatchResult")
}

func TestFormatMatchResult(t *testing.T) {
	result := notifier.MatchResult{
		MatchID:    42,
		Season:     "Spring 2024",
		MatchDate:  "2024-05-01",
		MatchType:  "doubles",
		Team1:      []string{"Ada", "Bob"},
		Team2:      []string{"Cyd", "Dee"},
		Team1Score: 4,
		Team2Score: 6,
		WinnerTeam: 2,
	}
	client := &Notifier{channelID: "C123"}
	msg := client.formatMatchResult(result)
	require.Len(t, msg.Blocks.BlockSet, 4, "Expected 4 blocks")

	header, ok := msg.Blocks.BlockSet[0].(*slackapi.HeaderBlock)
	require.True(t, ok)
	assert.Equal(t, "🎾 Doubles match recorded! 🎾", header.Text.Text)

	details, ok := msg.Blocks.BlockSet[1].(*slackapi.SectionBlock)
	require.True(t, ok)
	assert.Equal(t, "Spring 2024, 2024-05-01", details.Text.Text)

	resultsSection, ok := msg.Blocks.BlockSet[2].(*slackapi.SectionBlock)
	require.True(t, ok)
	assert.Equal(t, "Result: Cyd & Dee won! 🏆", resultsSection.Text.Text)
	require.Len(t, resultsSection.Fields, 2)
	assert.Equal(t, "• Ada & Bob: 4", resultsSection.Fields[0].Text)
	assert.Equal(t, "• Cyd & Dee: 6", resultsSection.Fields[1].Text)

	contextBlock, ok := msg.Blocks.BlockSet[3].(*slackapi.ContextBlock)
	require.True(t, ok)
	require.Len(t, contextBlock.ContextElements.Elements, 1)
	element, ok := contextBlock.ContextElements.Elements[0].(*slackapi.TextBlockObject)
	require.True(t, ok)
	assert.Equal(t, "Match #42", element.Text)

	msg = client.formatMatchResult(notifier.MatchResult{MatchDate: "2024-05-02", MatchType: "single", WinnerTeam: 1})
	header = msg.Blocks.BlockSet[0].(*slackapi.HeaderBlock)
	assert.Equal(t, "🎾 Singles match recorded! 🎾", header.Text.Text)
	details = msg.Blocks.BlockSet[1].(*slackapi.SectionBlock)
	assert.Equal(t, "2024-05-02", details.Text.Text)
	resultsSection = msg.Blocks.BlockSet[2].(*slackapi.SectionBlock)
	assert.Equal(t, "Result: Unknown won! 🏆", resultsSection.Text.Text)
}

func TestFormatRanking(t *testing.T) {
	client := &Notifier{channelID: "C123"}

	t.Run("displays ranking with points", func(t *testing.T) {
		entries := []analytics.RankEntry{
			{Rank: 1, Name: "Ada", Score: 7, Wins: 2, Played: 3},
			{Rank: 2, Name: "Bob", Score: 4, Wins: 1, Played: 2},
			{Rank: 3, Name: "Cyd", Score: 3, Wins: 1, Played: 1},
		}
		msg := client.formatRanking("Spring 2024", entries)
		require.Len(t, msg.Blocks.BlockSet, 4, "Expected 4 blocks (header + 3 members)")

		header, ok := msg.Blocks.BlockSet[0].(*slackapi.HeaderBlock)
		require.True(t, ok)
		assert.Equal(t, "🏆 Spring 2024 Ranking 🏆", header.Text.Text)

		first, ok := msg.Blocks.BlockSet[1].(*slackapi.SectionBlock)
		require.True(t, ok)
		assert.Contains(t, first.Text.Text, "1. 🥇 Ada")
		assert.Contains(t, first.Text.Text, "> *Points*: 7 | *Win %*: 66.67% (2/3)")

		second := msg.Blocks.BlockSet[2].(*slackapi.SectionBlock)
		assert.Contains(t, second.Text.Text, "2. 🥈 Bob")

		third := msg.Blocks.BlockSet[3].(*slackapi.SectionBlock)
		assert.Contains(t, third.Text.Text, "3. 🥉 Cyd")
	})

	t.Run("displays message when nobody has played", func(t *testing.T) {
		msg := client.formatRanking("Spring 2024", nil)
		require.Len(t, msg.Blocks.BlockSet, 2, "Expected 2 blocks (header + message)")

		message, ok := msg.Blocks.BlockSet[1].(*slackapi.SectionBlock)
		require.True(t, ok)
		assert.Equal(t, "No matches recorded this season yet. Go play some matches!", message.Text.Text)
	})

	t.Run("slash command response uses the same format", func(t *testing.T) {
		resp, err := client.FormatRankingResponse("Spring 2024", nil)
		require.NoError(t, err)
		_, ok := resp.(slackapi.Message)
		assert.True(t, ok)
	})
}
