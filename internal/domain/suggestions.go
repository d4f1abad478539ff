package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ErrSuggestionNotFound is returned when a suggestion cannot be located for its owner.
var ErrSuggestionNotFound = &NotFoundError{Resource: "workout suggestion"}

const maxSuggestionTitle = 100

// WorkoutSuggestion is a workout recommended to one user. Difficulty uses the
// same scale as a profile's fitness level.
type WorkoutSuggestion struct {
	ID                  string
	UserID              string
	Title               string
	Description         string
	RecommendedDuration int
	Difficulty          FitnessLevel
	ActivityTypes       []ActivityType
	IsCompleted         bool
	CreatedAt           time.Time
	CompletedAt         *time.Time
}

// SuggestionFilter narrows a suggestion listing. A nil Completed lists all.
type SuggestionFilter struct {
	Completed *bool
}

// SuggestionStore persists workout suggestions. Every read and the completion
// are filtered by owner.
type SuggestionStore interface {
	Profile(ctx context.Context, userID string) (UserProfile, error)
	// CreateSuggestion stores the suggestion linked to activityTypeIDs and
	// returns it with the activity types loaded.
	CreateSuggestion(ctx context.Context, suggestion WorkoutSuggestion, activityTypeIDs []string) (WorkoutSuggestion, error)
	Suggestion(ctx context.Context, userID, id string) (WorkoutSuggestion, error)
	ListSuggestions(ctx context.Context, userID string, filter SuggestionFilter) ([]WorkoutSuggestion, error)
	// CompleteSuggestion marks the suggestion done. A suggestion that is
	// already complete keeps its original completion time.
	CompleteSuggestion(ctx context.Context, userID, id string, at time.Time) (WorkoutSuggestion, error)
}

// SuggestionInput is the payload for a new suggestion. An empty Difficulty
// takes the owner's fitness level.
type SuggestionInput struct {
	UserID              string
	Title               string
	Description         string
	RecommendedDuration int
	Difficulty          string
	ActivityTypeIDs     []string
}

// Coach manages the workout suggestions offered to users.
type Coach struct {
	store  SuggestionStore
	logger logrus.FieldLogger
	now    func() time.Time
}

// NewCoach constructs a Coach.
func NewCoach(store SuggestionStore, logger logrus.FieldLogger) *Coach {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Coach{
		store:  store,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Suggest validates and stores a new suggestion for input.UserID.
func (c *Coach) Suggest(ctx context.Context, input SuggestionInput) (*WorkoutSuggestion, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, &ValidationError{Field: "title", Reason: "is required"}
	}
	if len(title) > maxSuggestionTitle {
		return nil, &ValidationError{Field: "title", Reason: fmt.Sprintf("must be at most %d characters", maxSuggestionTitle)}
	}
	if input.RecommendedDuration <= 0 || input.RecommendedDuration > MaxDurationMinutes {
		return nil, &ValidationError{Field: "recommended_duration", Reason: fmt.Sprintf("must be between 1 and %d", MaxDurationMinutes)}
	}

	profile, err := c.store.Profile(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	difficulty := profile.FitnessLevel
	if raw := strings.TrimSpace(input.Difficulty); raw != "" {
		difficulty = FitnessLevel(strings.ToLower(raw))
		if !difficulty.Valid() {
			return nil, &ValidationError{Field: "difficulty_level", Reason: fmt.Sprintf("unknown level %q", input.Difficulty)}
		}
	}

	typeIDs := make([]string, 0, len(input.ActivityTypeIDs))
	seen := make(map[string]struct{}, len(input.ActivityTypeIDs))
	for _, id := range input.ActivityTypeIDs {
		id = strings.TrimSpace(id)
		if id == "" {
			return nil, &ValidationError{Field: "activity_type_ids", Reason: "must not contain empty ids"}
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		typeIDs = append(typeIDs, id)
	}

	created, err := c.store.CreateSuggestion(ctx, WorkoutSuggestion{
		ID:                  uuid.NewString(),
		UserID:              input.UserID,
		Title:               title,
		Description:         strings.TrimSpace(input.Description),
		RecommendedDuration: input.RecommendedDuration,
		Difficulty:          difficulty,
		CreatedAt:           c.now(),
	}, typeIDs)
	if err != nil {
		var notFound *NotFoundError
		if errors.As(err, &notFound) && notFound.Resource == "activity type" {
			return nil, &ValidationError{Field: "activity_type_ids", Reason: "unknown activity type", Err: err}
		}
		return nil, err
	}

	c.logger.WithFields(logrus.Fields{
		"user_id":       created.UserID,
		"suggestion_id": created.ID,
		"difficulty":    created.Difficulty,
	}).Info("workout suggested")
	return &created, nil
}

// Suggestions lists the user's suggestions, newest first.
func (c *Coach) Suggestions(ctx context.Context, userID string, filter SuggestionFilter) ([]WorkoutSuggestion, error) {
	return c.store.ListSuggestions(ctx, userID, filter)
}

// Suggestion fetches one of the user's own suggestions.
func (c *Coach) Suggestion(ctx context.Context, userID, id string) (*WorkoutSuggestion, error) {
	suggestion, err := c.store.Suggestion(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return &suggestion, nil
}

// Complete marks one of the user's suggestions as done.
func (c *Coach) Complete(ctx context.Context, userID, id string) (*WorkoutSuggestion, error) {
	suggestion, err := c.store.CompleteSuggestion(ctx, userID, id, c.now())
	if err != nil {
		return nil, err
	}
	c.logger.WithFields(logrus.Fields{"user_id": userID, "suggestion_id": id}).Info("workout suggestion completed")
	return &suggestion, nil
}
