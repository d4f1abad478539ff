package api

import (
	"time"

	"example.com/octofit/internal/domain"
)

type activityTypeView struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Description     string  `json:"description,omitempty"`
	PointsPerMinute float64 `json:"points_per_minute"`
	Category        string  `json:"category"`
}

type activityView struct {
	ID               string    `json:"id"`
	UserID           string    `json:"user_id"`
	ActivityTypeID   string    `json:"activity_type_id"`
	ActivityTypeName string    `json:"activity_type_name"`
	Category         string    `json:"category,omitempty"`
	DurationMin      int       `json:"duration_minutes"`
	Intensity        string    `json:"intensity"`
	PointsAwarded    int       `json:"points_awarded"`
	DistanceKM       *float64  `json:"distance_km,omitempty"`
	CaloriesBurned   *int      `json:"calories_burned,omitempty"`
	Notes            string    `json:"notes,omitempty"`
	LoggedAt         time.Time `json:"logged_at"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type ledgerEntryView struct {
	Activity    activityView `json:"activity"`
	TotalPoints int          `json:"total_points"`
}

type activityListView struct {
	Items      []activityView `json:"items"`
	NextCursor string         `json:"next_cursor,omitempty"`
}

type typeStatsView struct {
	ActivityType string `json:"activity_type"`
	Count        int    `json:"count"`
	TotalMinutes int    `json:"total_minutes"`
	TotalPoints  int    `json:"total_points"`
}

type statsView struct {
	TotalActivities int             `json:"total_activities"`
	TotalMinutes    int             `json:"total_minutes"`
	TotalPoints     int             `json:"total_points"`
	Breakdown       []typeStatsView `json:"activity_breakdown"`
}

type profileView struct {
	UserID       string     `json:"user_id"`
	Username     string     `json:"username"`
	FirstName    string     `json:"first_name,omitempty"`
	LastName     string     `json:"last_name,omitempty"`
	Email        string     `json:"email,omitempty"`
	FitnessLevel string     `json:"fitness_level"`
	HeightCM     *float64   `json:"height_cm,omitempty"`
	WeightKG     *float64   `json:"weight_kg,omitempty"`
	DateOfBirth  *string    `json:"date_of_birth,omitempty"`
	TotalPoints  int        `json:"total_points"`
	CreatedAt    *time.Time `json:"created_at,omitempty"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
}

type teamView struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CaptainID   string    `json:"captain_id"`
	IsActive    bool      `json:"is_active"`
	MemberIDs   []string  `json:"member_ids"`
	MemberCount int       `json:"member_count"`
	TotalPoints int       `json:"total_points"`
	CreatedAt   time.Time `json:"created_at"`
}

type userStandingView struct {
	Rank        int    `json:"rank"`
	UserID      string `json:"user_id"`
	Username    string `json:"username"`
	FirstName   string `json:"first_name,omitempty"`
	LastName    string `json:"last_name,omitempty"`
	TotalPoints int    `json:"total_points"`
}

type teamStandingView struct {
	Rank        int    `json:"rank"`
	TeamID      string `json:"team_id"`
	Name        string `json:"name"`
	MemberCount int    `json:"member_count"`
	TotalPoints int    `json:"total_points"`
}

type suggestionView struct {
	ID                  string             `json:"id"`
	UserID              string             `json:"user_id"`
	Title               string             `json:"title"`
	Description         string             `json:"description,omitempty"`
	RecommendedDuration int                `json:"recommended_duration"`
	DifficultyLevel     string             `json:"difficulty_level"`
	ActivityTypes       []activityTypeView `json:"activity_types"`
	IsCompleted         bool               `json:"is_completed"`
	CreatedAt           time.Time          `json:"created_at"`
	CompletedAt         *time.Time         `json:"completed_at,omitempty"`
}

func toActivityTypeView(t domain.ActivityType) activityTypeView {
	return activityTypeView{
		ID:              t.ID,
		Name:            t.Name,
		Description:     t.Description,
		PointsPerMinute: t.PointsPerMinute,
		Category:        string(t.Category),
	}
}

func toActivityView(a domain.Activity) activityView {
	return activityView{
		ID:               a.ID,
		UserID:           a.UserID,
		ActivityTypeID:   a.ActivityTypeID,
		ActivityTypeName: a.ActivityTypeName,
		Category:         string(a.Category),
		DurationMin:      a.DurationMin,
		Intensity:        string(a.Intensity),
		PointsAwarded:    a.PointsAwarded,
		DistanceKM:       a.DistanceKM,
		CaloriesBurned:   a.CaloriesBurned,
		Notes:            a.Notes,
		LoggedAt:         a.LoggedAt,
		CreatedAt:        a.CreatedAt,
		UpdatedAt:        a.UpdatedAt,
	}
}

func toLedgerEntryView(e *domain.LedgerEntry) ledgerEntryView {
	return ledgerEntryView{Activity: toActivityView(e.Activity), TotalPoints: e.TotalPoints}
}

func toStatsView(s domain.ActivityStats) statsView {
	out := statsView{
		TotalActivities: s.TotalActivities,
		TotalMinutes:    s.TotalMinutes,
		TotalPoints:     s.TotalPoints,
		Breakdown:       make([]typeStatsView, 0, len(s.Breakdown)),
	}
	for _, b := range s.Breakdown {
		out.Breakdown = append(out.Breakdown, typeStatsView{
			ActivityType: b.ActivityType,
			Count:        b.Count,
			TotalMinutes: b.TotalMinutes,
			TotalPoints:  b.TotalPoints,
		})
	}
	return out
}

func toProfileView(p *domain.UserProfile) profileView {
	view := profileView{
		UserID:       p.ID,
		Username:     p.Username,
		FirstName:    p.FirstName,
		LastName:     p.LastName,
		Email:        p.Email,
		FitnessLevel: string(p.FitnessLevel),
		HeightCM:     p.HeightCM,
		WeightKG:     p.WeightKG,
		TotalPoints:  p.TotalPoints,
	}
	if p.DateOfBirth != nil {
		dob := p.DateOfBirth.Format("2006-01-02")
		view.DateOfBirth = &dob
	}
	if !p.CreatedAt.IsZero() {
		created := p.CreatedAt
		view.CreatedAt = &created
	}
	if !p.UpdatedAt.IsZero() {
		updated := p.UpdatedAt
		view.UpdatedAt = &updated
	}
	return view
}

func toTeamView(t domain.Team) teamView {
	members := t.MemberIDs
	if members == nil {
		members = []string{}
	}
	return teamView{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		CaptainID:   t.CaptainID,
		IsActive:    t.IsActive,
		MemberIDs:   members,
		MemberCount: t.MemberCount,
		TotalPoints: t.TotalPoints,
		CreatedAt:   t.CreatedAt,
	}
}

func toSuggestionView(s domain.WorkoutSuggestion) suggestionView {
	types := make([]activityTypeView, 0, len(s.ActivityTypes))
	for _, t := range s.ActivityTypes {
		types = append(types, toActivityTypeView(t))
	}
	return suggestionView{
		ID:                  s.ID,
		UserID:              s.UserID,
		Title:               s.Title,
		Description:         s.Description,
		RecommendedDuration: s.RecommendedDuration,
		DifficultyLevel:     string(s.Difficulty),
		ActivityTypes:       types,
		IsCompleted:         s.IsCompleted,
		CreatedAt:           s.CreatedAt,
		CompletedAt:         s.CompletedAt,
	}
}
