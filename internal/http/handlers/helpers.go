package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/mauv0809/clubdesk/internal/access"
	"github.com/mauv0809/clubdesk/internal/club"
	"github.com/mauv0809/clubdesk/internal/listing"
	"github.com/mauv0809/clubdesk/internal/recording"
	"github.com/mauv0809/clubdesk/internal/session"
)

// ContextKey is a custom type to avoid key collisions in context.
type ContextKey string

const (
	DryRunKey ContextKey = "dryRun"
)

// IsDryRunFromContext is a helper to safely retrieve the dry_run flag from the request context.
func IsDryRunFromContext(r *http.Request) bool {
	dryRun, ok := r.Context().Value(DryRunKey).(bool)
	return ok && dryRun
}

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error("Failed to write response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorEnvelope{Error: errorBody{Code: code, Message: message}})
}

// WriteError writes the JSON error envelope.
func WriteError(w http.ResponseWriter, status int, code, message string) {
	writeError(w, status, code, message)
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// writeServiceError maps domain errors to status codes. Unexpected errors are
// logged and answered with a generic message.
func writeServiceError(w http.ResponseWriter, err error, what string) {
	var (
		formErr  *recording.ValidationError
		storeErr *club.ValidationError
		submit   *recording.SubmitError
	)
	switch {
	case errors.As(err, &formErr):
		writeJSON(w, http.StatusUnprocessableEntity, errorEnvelope{Error: errorBody{Code: "validation_failed", Message: formErr.Message, Field: formErr.Field}})
	case errors.As(err, &storeErr):
		writeJSON(w, http.StatusUnprocessableEntity, errorEnvelope{Error: errorBody{Code: "validation_failed", Message: storeErr.Message, Field: storeErr.Field}})
	case errors.Is(err, access.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, club.ErrMemberNotFound), errors.Is(err, club.ErrMatchNotFound), errors.Is(err, club.ErrSeasonNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, club.ErrMemberExists), errors.Is(err, recording.ErrSubmissionInProgress):
		writeError(w, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, club.ErrConflictingMemberFilters), errors.Is(err, club.ErrInvalidPointsType),
		errors.Is(err, listing.ErrInvalidPageSize), errors.Is(err, listing.ErrUnknownFilter):
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
	case errors.As(err, &submit):
		writeError(w, http.StatusInternalServerError, "submit_failed", submit.Message)
	default:
		log.Error("Failed to "+what, "error", err)
		writeError(w, http.StatusInternalServerError, "internal", "Failed to "+what)
	}
}

// currentSession returns the session set by the auth middleware. Routes
// mounted without it act as nobody.
func currentSession(r *http.Request) session.Session {
	s, _ := session.FromContext(r.Context())
	return s
}

func require(w http.ResponseWriter, r *http.Request, c access.Capability) bool {
	if err := currentSession(r).Require(c); err != nil {
		log.Warn("Denied request", "path", r.URL.Path, "memberID", currentSession(r).MemberID, "capability", c)
		writeServiceError(w, err, "authorize")
		return false
	}
	return true
}

func int64Param(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	return id, err == nil && id > 0
}

func intQuery(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}
