package memory

import (
	"context"
	"sort"
	"time"

	"example.com/octofit/internal/domain"
)

// CreateSuggestion implements domain.SuggestionStore.
func (r *Repository) CreateSuggestion(ctx context.Context, suggestion domain.WorkoutSuggestion, activityTypeIDs []string) (domain.WorkoutSuggestion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[suggestion.UserID]; !ok {
		return domain.WorkoutSuggestion{}, &domain.NotFoundError{Resource: "user", ID: suggestion.UserID}
	}
	types := make([]domain.ActivityType, 0, len(activityTypeIDs))
	for _, id := range activityTypeIDs {
		activityType, ok := r.types[id]
		if !ok {
			return domain.WorkoutSuggestion{}, &domain.NotFoundError{Resource: "activity type", ID: id}
		}
		types = append(types, activityType)
	}
	sort.Slice(types, func(i, j int) bool { return types[i].Name < types[j].Name })

	suggestion.ActivityTypes = types
	r.suggestions[suggestion.ID] = suggestion
	return suggestion, nil
}

// Suggestion implements domain.SuggestionStore.
func (r *Repository) Suggestion(ctx context.Context, userID, id string) (domain.WorkoutSuggestion, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	suggestion, ok := r.suggestions[id]
	if !ok || suggestion.UserID != userID {
		return domain.WorkoutSuggestion{}, &domain.NotFoundError{Resource: "workout suggestion", ID: id}
	}
	return suggestion, nil
}

// ListSuggestions implements domain.SuggestionStore.
func (r *Repository) ListSuggestions(ctx context.Context, userID string, filter domain.SuggestionFilter) ([]domain.WorkoutSuggestion, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.WorkoutSuggestion, 0)
	for _, suggestion := range r.suggestions {
		if suggestion.UserID != userID {
			continue
		}
		if filter.Completed != nil && suggestion.IsCompleted != *filter.Completed {
			continue
		}
		out = append(out, suggestion)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

// CompleteSuggestion implements domain.SuggestionStore.
func (r *Repository) CompleteSuggestion(ctx context.Context, userID, id string, at time.Time) (domain.WorkoutSuggestion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	suggestion, ok := r.suggestions[id]
	if !ok || suggestion.UserID != userID {
		return domain.WorkoutSuggestion{}, &domain.NotFoundError{Resource: "workout suggestion", ID: id}
	}
	if !suggestion.IsCompleted {
		suggestion.IsCompleted = true
		suggestion.CompletedAt = &at
		r.suggestions[id] = suggestion
	}
	return suggestion, nil
}
