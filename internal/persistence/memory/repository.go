// Package memory provides an in-process repository for local development and tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"example.com/octofit/internal/domain"
)

type teamRecord struct {
	team    domain.Team
	members map[string]time.Time
}

// Repository keeps every table in maps guarded by one lock. Ledger writes hold
// the write lock across the insert and the total recomputation.
type Repository struct {
	mu          sync.RWMutex
	users       map[string]domain.User
	profiles    map[string]domain.UserProfile
	types       map[string]domain.ActivityType
	activities  map[string]domain.Activity
	byUser      map[string][]string
	teams       map[string]*teamRecord
	suggestions map[string]domain.WorkoutSuggestion
}

// NewRepository constructs an empty Repository.
func NewRepository() *Repository {
	return &Repository{
		users:       make(map[string]domain.User),
		profiles:    make(map[string]domain.UserProfile),
		types:       make(map[string]domain.ActivityType),
		activities:  make(map[string]domain.Activity),
		byUser:      make(map[string][]string),
		teams:       make(map[string]*teamRecord),
		suggestions: make(map[string]domain.WorkoutSuggestion),
	}
}

// ActivityType implements domain.LedgerStore.
func (r *Repository) ActivityType(ctx context.Context, id string) (domain.ActivityType, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	activityType, ok := r.types[id]
	if !ok {
		return domain.ActivityType{}, &domain.NotFoundError{Resource: "activity type", ID: id}
	}
	return activityType, nil
}

// ListActivityTypes implements domain.LedgerStore.
func (r *Repository) ListActivityTypes(ctx context.Context) ([]domain.ActivityType, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.ActivityType, 0, len(r.types))
	for _, activityType := range r.types {
		out = append(out, activityType)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// RecordActivity implements domain.LedgerStore.
func (r *Repository) RecordActivity(ctx context.Context, activity domain.Activity) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[activity.UserID]; !ok {
		return 0, &domain.NotFoundError{Resource: "user", ID: activity.UserID}
	}
	if _, ok := r.types[activity.ActivityTypeID]; !ok {
		return 0, &domain.NotFoundError{Resource: "activity type", ID: activity.ActivityTypeID}
	}

	r.activities[activity.ID] = activity
	r.byUser[activity.UserID] = append(r.byUser[activity.UserID], activity.ID)
	return r.recomputeTotalLocked(activity.UserID, activity.UpdatedAt), nil
}

// ReviseActivity implements domain.LedgerStore.
func (r *Repository) ReviseActivity(ctx context.Context, activity domain.Activity) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.activities[activity.ID]
	if !ok || existing.UserID != activity.UserID {
		return 0, &domain.NotFoundError{Resource: "activity", ID: activity.ID}
	}
	if _, ok := r.types[activity.ActivityTypeID]; !ok {
		return 0, &domain.NotFoundError{Resource: "activity type", ID: activity.ActivityTypeID}
	}

	activity.CreatedAt = existing.CreatedAt
	r.activities[activity.ID] = activity
	return r.recomputeTotalLocked(activity.UserID, activity.UpdatedAt), nil
}

func (r *Repository) recomputeTotalLocked(userID string, at time.Time) int {
	total := 0
	for _, id := range r.byUser[userID] {
		total += r.activities[id].PointsAwarded
	}

	profile, ok := r.profiles[userID]
	if !ok {
		profile = domain.UserProfile{
			User:         r.users[userID],
			FitnessLevel: domain.FitnessBeginner,
			CreatedAt:    at,
		}
	}
	profile.TotalPoints = total
	profile.UpdatedAt = at
	r.profiles[userID] = profile
	return total
}

// Activity implements domain.LedgerStore.
func (r *Repository) Activity(ctx context.Context, userID, activityID string) (domain.Activity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	activity, ok := r.activities[activityID]
	if !ok || activity.UserID != userID {
		return domain.Activity{}, &domain.NotFoundError{Resource: "activity", ID: activityID}
	}
	return activity, nil
}

// ListActivities implements domain.LedgerStore.
func (r *Repository) ListActivities(ctx context.Context, userID string, filter domain.ActivityFilter) ([]domain.Activity, *domain.Cursor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]domain.Activity, 0, len(r.byUser[userID]))
	for _, id := range r.byUser[userID] {
		activity := r.activities[id]
		if filter.Start != nil && activity.LoggedAt.Before(*filter.Start) {
			continue
		}
		if filter.End != nil && activity.LoggedAt.After(*filter.End) {
			continue
		}
		if filter.Cursor != nil && !olderThan(activity, *filter.Cursor) {
			continue
		}
		matched = append(matched, activity)
	}

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].LoggedAt.Equal(matched[j].LoggedAt) {
			return matched[i].LoggedAt.After(matched[j].LoggedAt)
		}
		return matched[i].ID > matched[j].ID
	})

	if filter.Limit > 0 && len(matched) > filter.Limit {
		matched = matched[:filter.Limit]
	}

	var next *domain.Cursor
	if filter.Limit > 0 && len(matched) == filter.Limit {
		last := matched[len(matched)-1]
		next = &domain.Cursor{LoggedAt: last.LoggedAt, ID: last.ID}
	}
	return matched, next, nil
}

// olderThan reports whether a sorts after the cursor in newest-first order.
func olderThan(a domain.Activity, c domain.Cursor) bool {
	if a.LoggedAt.Equal(c.LoggedAt) {
		return a.ID < c.ID
	}
	return a.LoggedAt.Before(c.LoggedAt)
}

// ActivityStats implements domain.LedgerStore.
func (r *Repository) ActivityStats(ctx context.Context, userID string) (domain.ActivityStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var stats domain.ActivityStats
	byType := make(map[string]*domain.ActivityTypeStats)
	for _, id := range r.byUser[userID] {
		activity := r.activities[id]
		stats.TotalActivities++
		stats.TotalMinutes += activity.DurationMin
		stats.TotalPoints += activity.PointsAwarded

		name := r.types[activity.ActivityTypeID].Name
		entry, ok := byType[name]
		if !ok {
			entry = &domain.ActivityTypeStats{ActivityType: name}
			byType[name] = entry
		}
		entry.Count++
		entry.TotalMinutes += activity.DurationMin
		entry.TotalPoints += activity.PointsAwarded
	}

	stats.Breakdown = make([]domain.ActivityTypeStats, 0, len(byType))
	for _, entry := range byType {
		stats.Breakdown = append(stats.Breakdown, *entry)
	}
	sort.Slice(stats.Breakdown, func(i, j int) bool {
		return stats.Breakdown[i].ActivityType < stats.Breakdown[j].ActivityType
	})
	return stats, nil
}

// Profile implements domain.LedgerStore.
func (r *Repository) Profile(ctx context.Context, userID string) (domain.UserProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	profile, ok := r.profiles[userID]
	if !ok {
		return domain.UserProfile{}, &domain.NotFoundError{Resource: "user", ID: userID}
	}
	profile.User = r.users[userID]
	return profile, nil
}

// UserStandings implements domain.StandingsStore.
func (r *Repository) UserStandings(ctx context.Context, limit int) ([]domain.UserStanding, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rows := make([]domain.UserStanding, 0, len(r.profiles))
	for userID, profile := range r.profiles {
		user := r.users[userID]
		rows = append(rows, domain.UserStanding{
			UserID:      userID,
			Username:    user.Username,
			FirstName:   user.FirstName,
			LastName:    user.LastName,
			TotalPoints: profile.TotalPoints,
		})
	}
	return domain.RankUserStandings(rows, limit), nil
}

// TeamStandings implements domain.StandingsStore.
func (r *Repository) TeamStandings(ctx context.Context, limit int) ([]domain.TeamStanding, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rows := make([]domain.TeamStanding, 0, len(r.teams))
	for _, record := range r.teams {
		if !record.team.IsActive {
			continue
		}
		rows = append(rows, domain.TeamStanding{
			TeamID:      record.team.ID,
			Name:        record.team.Name,
			MemberCount: len(record.members),
			TotalPoints: r.teamTotalLocked(record),
		})
	}
	return domain.RankTeamStandings(rows, limit), nil
}

func (r *Repository) teamTotalLocked(record *teamRecord) int {
	total := 0
	for userID := range record.members {
		total += r.profiles[userID].TotalPoints
	}
	return total
}

// UpsertUser implements domain.DirectoryStore.
func (r *Repository) UpsertUser(ctx context.Context, user domain.User) (domain.UserProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, existing := range r.users {
		if id != user.ID && strings.EqualFold(existing.Username, user.Username) {
			return domain.UserProfile{}, &domain.ValidationError{Field: "username", Reason: "already taken"}
		}
	}

	r.users[user.ID] = user
	profile, ok := r.profiles[user.ID]
	if !ok {
		now := time.Now().UTC()
		profile = domain.UserProfile{FitnessLevel: domain.FitnessBeginner, CreatedAt: now, UpdatedAt: now}
	}
	profile.User = user
	r.profiles[user.ID] = profile
	return profile, nil
}

// UpdateProfile implements domain.DirectoryStore.
func (r *Repository) UpdateProfile(ctx context.Context, update domain.ProfileUpdate) (domain.UserProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	profile, ok := r.profiles[update.UserID]
	if !ok {
		return domain.UserProfile{}, &domain.NotFoundError{Resource: "user", ID: update.UserID}
	}
	if update.FitnessLevel != nil {
		profile.FitnessLevel = *update.FitnessLevel
	}
	if update.HeightCM != nil {
		profile.HeightCM = update.HeightCM
	}
	if update.WeightKG != nil {
		profile.WeightKG = update.WeightKG
	}
	if update.DateOfBirth != nil {
		profile.DateOfBirth = update.DateOfBirth
	}
	profile.UpdatedAt = time.Now().UTC()
	r.profiles[update.UserID] = profile
	return profile, nil
}

// CreateActivityType implements domain.DirectoryStore.
func (r *Repository) CreateActivityType(ctx context.Context, activityType domain.ActivityType) (domain.ActivityType, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.types {
		if strings.EqualFold(existing.Name, activityType.Name) {
			return domain.ActivityType{}, &domain.ValidationError{Field: "name", Reason: "activity type already exists"}
		}
	}
	r.types[activityType.ID] = activityType
	return activityType, nil
}

// CreateTeam implements domain.DirectoryStore.
func (r *Repository) CreateTeam(ctx context.Context, team domain.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[team.CaptainID]; !ok {
		return &domain.NotFoundError{Resource: "user", ID: team.CaptainID}
	}
	record := &teamRecord{team: team, members: map[string]time.Time{team.CaptainID: team.CreatedAt}}
	record.team.MemberIDs = nil
	r.teams[team.ID] = record
	return nil
}

// AddTeamMember implements domain.DirectoryStore.
func (r *Repository) AddTeamMember(ctx context.Context, teamID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, ok := r.teams[teamID]
	if !ok {
		return &domain.NotFoundError{Resource: "team", ID: teamID}
	}
	if _, ok := r.users[userID]; !ok {
		return &domain.NotFoundError{Resource: "user", ID: userID}
	}
	if _, exists := record.members[userID]; !exists {
		record.members[userID] = time.Now().UTC()
	}
	return nil
}

// TeamsForUser implements domain.DirectoryStore.
func (r *Repository) TeamsForUser(ctx context.Context, userID string) ([]domain.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Team, 0)
	for _, record := range r.teams {
		_, member := record.members[userID]
		if !member && record.team.CaptainID != userID {
			continue
		}
		team := record.team
		team.MemberIDs = make([]string, 0, len(record.members))
		for id := range record.members {
			team.MemberIDs = append(team.MemberIDs, id)
		}
		sort.Strings(team.MemberIDs)
		team.MemberCount = len(record.members)
		team.TotalPoints = r.teamTotalLocked(record)
		out = append(out, team)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
