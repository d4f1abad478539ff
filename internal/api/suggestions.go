package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"example.com/octofit/internal/domain"
)

// listSuggestions returns the caller's suggestions, optionally filtered by
// ?completed=true|false.
func (h *Handler) listSuggestions(w http.ResponseWriter, r *http.Request) {
	var filter domain.SuggestionFilter
	if raw := strings.TrimSpace(r.URL.Query().Get("completed")); raw != "" {
		completed, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "validation_failed", "completed must be true or false")
			return
		}
		filter.Completed = &completed
	}

	suggestions, err := h.coach.Suggestions(r.Context(), caller(r).Subject, filter)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	out := make([]suggestionView, 0, len(suggestions))
	for _, s := range suggestions {
		out = append(out, toSuggestionView(s))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) createSuggestion(w http.ResponseWriter, r *http.Request) {
	var req suggestionRequest
	if !h.decode(w, r, &req) {
		return
	}
	suggestion, err := h.coach.Suggest(r.Context(), domain.SuggestionInput{
		UserID:              caller(r).Subject,
		Title:               req.Title,
		Description:         req.Description,
		RecommendedDuration: req.RecommendedDuration,
		Difficulty:          req.DifficultyLevel,
		ActivityTypeIDs:     req.ActivityTypeIDs,
	})
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toSuggestionView(*suggestion))
}

func (h *Handler) getSuggestion(w http.ResponseWriter, r *http.Request) {
	suggestion, err := h.coach.Suggestion(r.Context(), caller(r).Subject, mux.Vars(r)["id"])
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toSuggestionView(*suggestion))
}

func (h *Handler) completeSuggestion(w http.ResponseWriter, r *http.Request) {
	suggestion, err := h.coach.Complete(r.Context(), caller(r).Subject, mux.Vars(r)["id"])
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toSuggestionView(*suggestion))
}
