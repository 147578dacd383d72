package config

// Config holds all configuration for the application.
type Config struct {
	DBName          string
	Port            string
	Slack           SlackConfig
	Turso           TursoConfig
	PubSub          PubSubConfig
	Auth            AuthConfig
	SignupSecret    string
	DefaultPageSize int
	// RankingCron schedules the ranking post of the running season. Empty disables it.
	RankingCron string
}

type SlackConfig struct {
	Token         string
	ChannelID     string
	SigningSecret string
}

// Enabled reports whether announcements go to a real channel.
func (c SlackConfig) Enabled() bool {
	return c.Token != "" && c.ChannelID != ""
}

type TursoConfig struct {
	PrimaryURL string
	AuthToken  string
}

type PubSubConfig struct {
	ProjectID string
	TopicID   string
}

// Enabled reports whether events go through Google Cloud Pub/Sub instead of in process.
func (c PubSubConfig) Enabled() bool {
	return c.ProjectID != "" && c.TopicID != ""
}

// AuthConfig describes how the identity gateway in front of the service passes the member id.
type AuthConfig struct {
	Header       string
	Skip         bool
	MockMemberID string
}
