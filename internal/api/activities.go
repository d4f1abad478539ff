package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"example.com/octofit/internal/domain"
	"example.com/octofit/internal/persistence"
)

const maxActivityPageSize = 100

func (h *Handler) listActivityTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.ledger.ActivityTypes(r.Context())
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	out := make([]activityTypeView, 0, len(types))
	for _, t := range types {
		out = append(out, toActivityTypeView(t))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) logActivity(w http.ResponseWriter, r *http.Request) {
	var req logActivityRequest
	if !h.decode(w, r, &req) {
		return
	}

	input := domain.LogActivityInput{
		UserID:         caller(r).Subject,
		ActivityTypeID: req.ActivityTypeID,
		DurationMin:    req.DurationMin,
		Intensity:      req.Intensity,
		DistanceKM:     req.DistanceKM,
		CaloriesBurned: req.CaloriesBurned,
		Notes:          req.Notes,
	}
	if req.LoggedAt != nil {
		input.LoggedAt = *req.LoggedAt
	}

	entry, err := h.ledger.LogActivity(r.Context(), input)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toLedgerEntryView(entry))
}

func (h *Handler) listActivities(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	start, err := parseDateBound(query.Get("start_date"), false)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "start_date: "+err.Error())
		return
	}
	end, err := parseDateBound(query.Get("end_date"), true)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "end_date: "+err.Error())
		return
	}
	limit, err := queryLimit(r, "limit")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if limit > maxActivityPageSize {
		limit = maxActivityPageSize
	}
	cursor, err := persistence.DecodeCursor(query.Get("cursor"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid cursor")
		return
	}

	activities, next, err := h.ledger.ListActivities(r.Context(), caller(r).Subject, domain.ActivityFilter{
		Start:  start,
		End:    end,
		Cursor: cursor,
		Limit:  limit,
	})
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	resp := activityListView{Items: make([]activityView, 0, len(activities))}
	for _, a := range activities {
		resp.Items = append(resp.Items, toActivityView(a))
	}
	resp.NextCursor = persistence.EncodeCursor(next)
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) activityStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.ledger.Stats(r.Context(), caller(r).Subject)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toStatsView(stats))
}

func (h *Handler) getActivity(w http.ResponseWriter, r *http.Request) {
	activity, err := h.ledger.GetActivity(r.Context(), caller(r).Subject, mux.Vars(r)["id"])
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toActivityView(*activity))
}

func (h *Handler) updateActivity(w http.ResponseWriter, r *http.Request) {
	var req updateActivityRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.empty() {
		writeError(w, http.StatusBadRequest, "validation_failed", "at least one field must be provided")
		return
	}

	entry, err := h.ledger.UpdateActivity(r.Context(), domain.ActivityRevision{
		UserID:         caller(r).Subject,
		ActivityID:     mux.Vars(r)["id"],
		ActivityTypeID: req.ActivityTypeID,
		DurationMin:    req.DurationMin,
		Intensity:      req.Intensity,
		Notes:          req.Notes,
	})
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toLedgerEntryView(entry))
}
