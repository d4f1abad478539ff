package domain

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// DirectoryStore persists users, profiles and teams.
type DirectoryStore interface {
	// UpsertUser creates the user and a zero-point profile, or refreshes the
	// user's identity fields when it already exists. The total is untouched.
	UpsertUser(ctx context.Context, user User) (UserProfile, error)
	UpdateProfile(ctx context.Context, update ProfileUpdate) (UserProfile, error)
	CreateActivityType(ctx context.Context, activityType ActivityType) (ActivityType, error)
	// CreateTeam stores the team and its captain as the first member.
	CreateTeam(ctx context.Context, team Team) error
	AddTeamMember(ctx context.Context, teamID, userID string) error
	TeamsForUser(ctx context.Context, userID string) ([]Team, error)
}

// ProfileUpdate carries the mutable profile fields. Nil fields are unchanged.
type ProfileUpdate struct {
	UserID       string
	FitnessLevel *FitnessLevel
	HeightCM     *float64
	WeightKG     *float64
	DateOfBirth  *time.Time
}

// Directory manages the identities, profiles and teams the ledger and ranker read.
type Directory struct {
	store  DirectoryStore
	logger logrus.FieldLogger
}

// NewDirectory constructs a Directory.
func NewDirectory(store DirectoryStore, logger logrus.FieldLogger) *Directory {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Directory{store: store, logger: logger}
}

// RegisterUser provisions a user and profile for an authenticated identity.
func (d *Directory) RegisterUser(ctx context.Context, user User) (*UserProfile, error) {
	if strings.TrimSpace(user.ID) == "" {
		return nil, &ValidationError{Field: "user_id", Reason: "is required"}
	}
	if strings.TrimSpace(user.Username) == "" {
		return nil, &ValidationError{Field: "username", Reason: "is required"}
	}
	profile, err := d.store.UpsertUser(ctx, user)
	if err != nil {
		return nil, err
	}
	d.logger.WithField("user_id", user.ID).Debug("user registered")
	return &profile, nil
}

// UpdateProfile changes fitness data on an existing profile.
func (d *Directory) UpdateProfile(ctx context.Context, update ProfileUpdate) (*UserProfile, error) {
	if update.FitnessLevel != nil && !update.FitnessLevel.Valid() {
		return nil, &ValidationError{Field: "fitness_level", Reason: "must be beginner, intermediate or advanced"}
	}
	if update.HeightCM != nil && *update.HeightCM <= 0 {
		return nil, &ValidationError{Field: "height_cm", Reason: "must be > 0"}
	}
	if update.WeightKG != nil && *update.WeightKG <= 0 {
		return nil, &ValidationError{Field: "weight_kg", Reason: "must be > 0"}
	}
	profile, err := d.store.UpdateProfile(ctx, update)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// CreateActivityType adds reference data.
func (d *Directory) CreateActivityType(ctx context.Context, activityType ActivityType) (*ActivityType, error) {
	if strings.TrimSpace(activityType.Name) == "" {
		return nil, &ValidationError{Field: "name", Reason: "is required"}
	}
	if !(activityType.PointsPerMinute > 0) {
		return nil, &ValidationError{Field: "points_per_minute", Reason: "must be > 0"}
	}
	if activityType.Category == "" {
		activityType.Category = CategoryOther
	}
	if !activityType.Category.Valid() {
		return nil, &ValidationError{Field: "category", Reason: "unknown category " + string(activityType.Category)}
	}
	if activityType.ID == "" {
		activityType.ID = uuid.NewString()
	}
	created, err := d.store.CreateActivityType(ctx, activityType)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// CreateTeam creates an active team with the captain as its first member.
func (d *Directory) CreateTeam(ctx context.Context, name, description, captainID string) (*Team, error) {
	if strings.TrimSpace(name) == "" {
		return nil, &ValidationError{Field: "name", Reason: "is required"}
	}
	if strings.TrimSpace(captainID) == "" {
		return nil, &ValidationError{Field: "captain_id", Reason: "is required"}
	}
	team := Team{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(name),
		Description: description,
		CaptainID:   captainID,
		IsActive:    true,
		CreatedAt:   time.Now().UTC(),
		MemberIDs:   []string{captainID},
		MemberCount: 1,
	}
	if err := d.store.CreateTeam(ctx, team); err != nil {
		return nil, err
	}
	d.logger.WithFields(logrus.Fields{"team_id": team.ID, "captain_id": captainID}).Info("team created")
	return &team, nil
}

// AddMember adds a user to a team. Adding an existing member is a no-op.
func (d *Directory) AddMember(ctx context.Context, teamID, userID string) error {
	return d.store.AddTeamMember(ctx, teamID, userID)
}

// TeamsForUser lists the teams a user captains or belongs to, with live totals.
func (d *Directory) TeamsForUser(ctx context.Context, userID string) ([]Team, error) {
	return d.store.TeamsForUser(ctx, userID)
}
