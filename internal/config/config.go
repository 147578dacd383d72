package config

import (
	"os"
	"slices"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

var pageSizes = []int{5, 10, 25}

// Load reads configuration from environment variables and .env file.
func Load() Config {
	err := godotenv.Load()
	if err != nil {
		log.Info("No .env file found, reading from environment variables")
	}

	// A helper function to get a required env var. It will fail if the env var is not set.
	getEnv := func(key string) string {
		if value, ok := os.LookupEnv(key); ok {
			return value
		}
		log.Fatalf("Error: Required environment variable %s is not set.", key)
		return "" // This line is never reached
	}

	cfg := Config{
		DBName: getEnv("DB_NAME"),
		Port:   getEnv("PORT"),
		Slack: SlackConfig{
			Token:         optional("SLACK_BOT_TOKEN", ""),
			ChannelID:     optional("SLACK_CHANNEL_ID", ""),
			SigningSecret: optional("SLACK_SIGNING_SECRET", ""),
		},
		Turso: TursoConfig{
			PrimaryURL: optional("TURSO_PRIMARY_URL", ""),
			AuthToken:  optional("TURSO_AUTH_TOKEN", ""),
		},
		PubSub: PubSubConfig{
			ProjectID: optional("GCP_PROJECT", ""),
			TopicID:   optional("PUBSUB_TOPIC", ""),
		},
		Auth: AuthConfig{
			Header:       optional("AUTH_HEADER", "X-Member-ID"),
			Skip:         optional("AUTH_SKIP", "false") == "true",
			MockMemberID: optional("AUTH_MOCK_MEMBER_ID", "dev-admin"),
		},
		SignupSecret:    optional("SIGNUP_HOOK_SECRET", ""),
		DefaultPageSize: pageSize(optional("DEFAULT_PAGE_SIZE", "5")),
		RankingCron:     optional("RANKING_CRON", ""),
	}
	if cfg.Auth.Skip {
		log.Warn("Authentication is skipped, every request acts as the mock member", "memberID", cfg.Auth.MockMemberID)
	}
	return cfg
}

func optional(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func pageSize(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil || !slices.Contains(pageSizes, n) {
		log.Warn("Invalid DEFAULT_PAGE_SIZE, using 5", "value", raw)
		return 5
	}
	return n
}
