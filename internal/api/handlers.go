// Package api exposes HTTP handlers for the activity-points service.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"example.com/octofit/internal/auth"
	"example.com/octofit/internal/domain"
)

// Handler coordinates HTTP requests with the domain services.
type Handler struct {
	ledger    *domain.Ledger
	ranker    *domain.Ranker
	directory *domain.Directory
	coach     *domain.Coach
	logger    logrus.FieldLogger
	validate  *validator.Validate
}

// NewHandler builds a Handler.
func NewHandler(ledger *domain.Ledger, ranker *domain.Ranker, directory *domain.Directory, coach *domain.Coach, logger logrus.FieldLogger) *Handler {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Handler{
		ledger:    ledger,
		ranker:    ranker,
		directory: directory,
		coach:     coach,
		logger:    logger,
		validate:  newValidator(),
	}
}

// RegisterRoutes wires endpoints to the router. Authentication is applied by
// the caller; each route here enforces its own scope.
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/healthz", healthz).Methods(http.MethodGet)

	v1 := r.PathPrefix("/v1").Subrouter()
	v1.Handle("/activity-types", scoped(auth.ScopeActivitiesRead, h.listActivityTypes)).Methods(http.MethodGet)
	v1.Handle("/activities", scoped(auth.ScopeActivitiesWrite, h.logActivity)).Methods(http.MethodPost)
	v1.Handle("/activities", scoped(auth.ScopeActivitiesRead, h.listActivities)).Methods(http.MethodGet)
	v1.Handle("/activities/stats", scoped(auth.ScopeActivitiesRead, h.activityStats)).Methods(http.MethodGet)
	v1.Handle("/activities/{id}", scoped(auth.ScopeActivitiesRead, h.getActivity)).Methods(http.MethodGet)
	v1.Handle("/activities/{id}", scoped(auth.ScopeActivitiesWrite, h.updateActivity)).Methods(http.MethodPatch)
	v1.Handle("/profile", scoped(auth.ScopeActivitiesRead, h.getProfile)).Methods(http.MethodGet)
	v1.Handle("/profile", scoped(auth.ScopeProfileWrite, h.putProfile)).Methods(http.MethodPut)
	v1.Handle("/teams", scoped(auth.ScopeActivitiesRead, h.listTeams)).Methods(http.MethodGet)
	v1.Handle("/workout-suggestions", scoped(auth.ScopeActivitiesRead, h.listSuggestions)).Methods(http.MethodGet)
	v1.Handle("/workout-suggestions", scoped(auth.ScopeActivitiesWrite, h.createSuggestion)).Methods(http.MethodPost)
	v1.Handle("/workout-suggestions/{id}", scoped(auth.ScopeActivitiesRead, h.getSuggestion)).Methods(http.MethodGet)
	v1.Handle("/workout-suggestions/{id}/complete", scoped(auth.ScopeActivitiesWrite, h.completeSuggestion)).Methods(http.MethodPost)
	v1.Handle("/leaderboard/users", scoped(auth.ScopeLeaderboardRead, h.userLeaderboard)).Methods(http.MethodGet)
	v1.Handle("/leaderboard/teams", scoped(auth.ScopeLeaderboardRead, h.teamLeaderboard)).Methods(http.MethodGet)

	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
	})
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not_found", "no such route")
	})
}

func scoped(scope string, fn http.HandlerFunc) http.Handler {
	return auth.RequireScope(scope, fn)
}

// healthz reports a simple OK status for container health checks.
func healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// caller returns the authenticated subject. RequireScope guarantees claims
// are present on every scoped route.
func caller(r *http.Request) *auth.Claims {
	claims, _ := auth.FromContext(r.Context())
	return claims
}

// decode reads a JSON body into dst and validates it. An empty body decodes
// to the zero value.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", describeValidation(err))
		return false
	}
	return true
}

func (h *Handler) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var validation *domain.ValidationError
	var notFound *domain.NotFoundError
	var consistency *domain.ConsistencyError

	switch {
	case errors.As(err, &validation):
		writeError(w, http.StatusBadRequest, "validation_failed", validation.Error())
	case errors.As(err, &notFound):
		writeError(w, http.StatusNotFound, "not_found", notFound.Error())
	case errors.As(err, &consistency):
		h.logger.WithError(err).WithField("path", r.URL.Path).Warn("ledger write conflict")
		writeError(w, http.StatusConflict, "conflict", "concurrent update, retry the request")
	default:
		h.logger.WithError(err).WithField("path", r.URL.Path).Error("request failed")
		writeError(w, http.StatusInternalServerError, "server_error", "internal error")
	}
}

func writeError(w http.ResponseWriter, status int, code, detail string) {
	writeJSON(w, status, map[string]string{
		"type":   code,
		"detail": detail,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// queryLimit parses a positive limit. Absent means 0, which callers treat as
// "use the default".
func queryLimit(r *http.Request, name string) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return 0, nil
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer", name)
	}
	return parsed, nil
}
