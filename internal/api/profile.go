package api

import (
	"net/http"
	"time"

	"example.com/octofit/internal/domain"
)

func (h *Handler) getProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.ledger.Profile(r.Context(), caller(r).Subject)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toProfileView(profile))
}

// putProfile registers the caller from their token claims and applies any
// fitness fields in the body. Repeated calls refresh the identity fields only.
func (h *Handler) putProfile(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if !h.decode(w, r, &req) {
		return
	}
	dob, err := parseDOB(req.DateOfBirth)
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", "date_of_birth must match 2006-01-02")
		return
	}

	claims := caller(r)
	profile, err := h.directory.RegisterUser(r.Context(), domain.User{
		ID:        claims.Subject,
		Username:  claims.Username,
		FirstName: claims.FirstName,
		LastName:  claims.LastName,
		Email:     claims.Email,
	})
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	if req.FitnessLevel != nil || req.HeightCM != nil || req.WeightKG != nil || dob != nil {
		update := domain.ProfileUpdate{
			UserID:      claims.Subject,
			HeightCM:    req.HeightCM,
			WeightKG:    req.WeightKG,
			DateOfBirth: dob,
		}
		if req.FitnessLevel != nil {
			level := domain.FitnessLevel(*req.FitnessLevel)
			update.FitnessLevel = &level
		}
		profile, err = h.directory.UpdateProfile(r.Context(), update)
		if err != nil {
			h.writeDomainError(w, r, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, toProfileView(profile))
}

func (h *Handler) listTeams(w http.ResponseWriter, r *http.Request) {
	teams, err := h.directory.TeamsForUser(r.Context(), caller(r).Subject)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	out := make([]teamView, 0, len(teams))
	for _, t := range teams {
		out = append(out, toTeamView(t))
	}
	writeJSON(w, http.StatusOK, out)
}

func parseDOB(raw *string) (*time.Time, error) {
	if raw == nil {
		return nil, nil
	}
	dob, err := time.Parse("2006-01-02", *raw)
	if err != nil {
		return nil, err
	}
	return &dob, nil
}
