package pubsub

import (
	"sync"

	"cloud.google.com/go/pubsub"
)

type client struct {
	client   *pubsub.Client
	topic    string
	teardown func()
}

// Direct delivers messages to in-process subscribers instead of a broker.
type Direct struct {
	mu          sync.RWMutex
	subscribers map[EventType][]Handler
}

// EventType represents the type of event/message sent via pubsub.
type EventType string

const (
	EventMatchRecorded EventType = "match-recorded"
)

// MatchRecorded is the payload of EventMatchRecorded.
type MatchRecorded struct {
	MatchID    int64    `msgpack:"match_id"`
	SeasonID   int64    `msgpack:"season_id"`
	MatchDate  string   `msgpack:"match_date"`
	MatchType  string   `msgpack:"match_type"`
	Team1Score int      `msgpack:"team1_score"`
	Team2Score int      `msgpack:"team2_score"`
	WinnerTeam int      `msgpack:"winner_team"`
	Team1      []string `msgpack:"team1"`
	Team2      []string `msgpack:"team2"`
	RecordedBy string   `msgpack:"recorded_by"`
}
