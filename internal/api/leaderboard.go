package api

import "net/http"

func (h *Handler) userLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit, err := queryLimit(r, "limit")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	standings, err := h.ranker.RankUsers(r.Context(), limit)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	out := make([]userStandingView, 0, len(standings))
	for _, s := range standings {
		out = append(out, userStandingView{
			Rank:        s.Rank,
			UserID:      s.UserID,
			Username:    s.Username,
			FirstName:   s.FirstName,
			LastName:    s.LastName,
			TotalPoints: s.TotalPoints,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) teamLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit, err := queryLimit(r, "limit")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	standings, err := h.ranker.RankTeams(r.Context(), limit)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	out := make([]teamStandingView, 0, len(standings))
	for _, s := range standings {
		out = append(out, teamStandingView{
			Rank:        s.Rank,
			TeamID:      s.TeamID,
			Name:        s.Name,
			MemberCount: s.MemberCount,
			TotalPoints: s.TotalPoints,
		})
	}
	writeJSON(w, http.StatusOK, out)
}
