package handlers

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/clubdesk/internal/club"
	"github.com/mauv0809/clubdesk/internal/metrics"
)

// SignupSecretHeader carries the secret shared with the sign-up flow.
const SignupSecretHeader = "X-Signup-Secret"

type signupRequest struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	NTRP  string `json:"ntrp"`
}

// SignupHookHandler creates the member profile of someone who completed the
// external sign-up flow. The id is the identity provider's subject, so later
// requests carrying it resolve to this member.
func SignupHookHandler(store club.ClubStore, counters metrics.CounterStore, secret string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if secret == "" {
			writeError(w, http.StatusServiceUnavailable, "disabled", "sign-up hook is not configured")
			return
		}
		if subtle.ConstantTimeCompare([]byte(r.Header.Get(SignupSecretHeader)), []byte(secret)) != 1 {
			log.Warn("Rejected sign-up hook with a bad secret", "remote", r.RemoteAddr)
			writeError(w, http.StatusUnauthorized, "unauthorized", "invalid secret")
			return
		}

		var req signupRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", "Invalid JSON")
			return
		}
		added, err := addMember(r, store, counters, club.Member{
			ID:    strings.TrimSpace(req.ID),
			Name:  req.Name,
			Email: req.Email,
			Phone: req.Phone,
			NTRP:  req.NTRP,
		})
		if err != nil {
			writeServiceError(w, err, "sign up member")
			return
		}
		writeJSON(w, http.StatusCreated, added)
	}
}
