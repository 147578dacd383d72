package handlers

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/clubdesk/internal/announcer"
	"github.com/mauv0809/clubdesk/internal/pubsub"
)

// MatchRecordedPushHandler receives match-recorded events from a Pub/Sub push
// subscription. A failed announcement answers 500 so Pub/Sub redelivers it.
func MatchRecordedPushHandler(a *announcer.Announcer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, event, err := pubsub.ReadPush(r.Body)
		if err != nil {
			log.Error("Failed to read push message", "error", err)
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if event != "" && event != pubsub.EventMatchRecorded {
			log.Warn("Ignoring push message for another event", "event", event)
			w.Write([]byte("OK"))
			return
		}
		if err := a.HandleMatchRecorded(r.Context(), data, IsDryRunFromContext(r)); err != nil {
			http.Error(w, "Failed to announce match", http.StatusInternalServerError)
			return
		}
		w.Write([]byte("OK"))
	}
}
