package announcer

// Announcer turns club events into channel announcements.
type Announcer struct {
	store    Store
	ranker   Ranker
	notifier Notifier
}
