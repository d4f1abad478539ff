package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"example.com/octofit/internal/domain"
)

const suggestionColumns = `s.suggestion_id, s.user_id, s.title, s.description, s.recommended_duration,
        s.difficulty_level, s.is_completed, s.created_at, s.completed_at`

// CreateSuggestion implements domain.SuggestionStore.
func (r *Repository) CreateSuggestion(ctx context.Context, suggestion domain.WorkoutSuggestion, activityTypeIDs []string) (domain.WorkoutSuggestion, error) {
	for _, id := range activityTypeIDs {
		if !validUUID(id) {
			return domain.WorkoutSuggestion{}, &domain.NotFoundError{Resource: "activity type", ID: id}
		}
	}

	err := r.inTx(ctx, "create suggestion", func(tx pgx.Tx) error {
		const insert = `INSERT INTO workout_suggestions (suggestion_id, user_id, title, description, recommended_duration,
            difficulty_level, created_at)
            VALUES ($1,$2,$3,$4,$5,$6,$7)`
		if _, err := tx.Exec(ctx, insert,
			suggestion.ID,
			suggestion.UserID,
			suggestion.Title,
			suggestion.Description,
			suggestion.RecommendedDuration,
			string(suggestion.Difficulty),
			suggestion.CreatedAt,
		); err != nil {
			return err
		}
		for _, typeID := range activityTypeIDs {
			if _, err := tx.Exec(ctx,
				`INSERT INTO workout_suggestion_activity_types (suggestion_id, activity_type_id) VALUES ($1, $2)`,
				suggestion.ID, typeID,
			); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return domain.WorkoutSuggestion{}, err
	}
	return r.Suggestion(ctx, suggestion.UserID, suggestion.ID)
}

// Suggestion implements domain.SuggestionStore.
func (r *Repository) Suggestion(ctx context.Context, userID, id string) (domain.WorkoutSuggestion, error) {
	if !validUUID(id) {
		return domain.WorkoutSuggestion{}, &domain.NotFoundError{Resource: "workout suggestion", ID: id}
	}
	query := `SELECT ` + suggestionColumns + `
        FROM workout_suggestions s
        WHERE s.suggestion_id = $1 AND s.user_id = $2`

	suggestion, err := scanSuggestion(r.pool.QueryRow(ctx, query, id, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.WorkoutSuggestion{}, &domain.NotFoundError{Resource: "workout suggestion", ID: id}
	}
	if err != nil {
		return domain.WorkoutSuggestion{}, err
	}

	out := []domain.WorkoutSuggestion{suggestion}
	if err := r.attachActivityTypes(ctx, out); err != nil {
		return domain.WorkoutSuggestion{}, err
	}
	return out[0], nil
}

// ListSuggestions implements domain.SuggestionStore.
func (r *Repository) ListSuggestions(ctx context.Context, userID string, filter domain.SuggestionFilter) ([]domain.WorkoutSuggestion, error) {
	query := `SELECT ` + suggestionColumns + `
        FROM workout_suggestions s
        WHERE s.user_id = $1 AND ($2::boolean IS NULL OR s.is_completed = $2::boolean)
        ORDER BY s.created_at DESC, s.suggestion_id DESC`

	rows, err := r.pool.Query(ctx, query, userID, filter.Completed)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.WorkoutSuggestion, 0)
	for rows.Next() {
		suggestion, err := scanSuggestion(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, suggestion)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.attachActivityTypes(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

// CompleteSuggestion implements domain.SuggestionStore.
func (r *Repository) CompleteSuggestion(ctx context.Context, userID, id string, at time.Time) (domain.WorkoutSuggestion, error) {
	if !validUUID(id) {
		return domain.WorkoutSuggestion{}, &domain.NotFoundError{Resource: "workout suggestion", ID: id}
	}
	const stmt = `UPDATE workout_suggestions
        SET is_completed = TRUE, completed_at = COALESCE(completed_at, $3)
        WHERE suggestion_id = $1 AND user_id = $2`

	tag, err := r.pool.Exec(ctx, stmt, id, userID, at)
	if err != nil {
		return domain.WorkoutSuggestion{}, mapError("complete suggestion", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.WorkoutSuggestion{}, &domain.NotFoundError{Resource: "workout suggestion", ID: id}
	}
	return r.Suggestion(ctx, userID, id)
}

// attachActivityTypes loads the linked activity types of every suggestion in
// one query, ordered by name.
func (r *Repository) attachActivityTypes(ctx context.Context, suggestions []domain.WorkoutSuggestion) error {
	if len(suggestions) == 0 {
		return nil
	}
	ids := make([]string, 0, len(suggestions))
	index := make(map[string]int, len(suggestions))
	for i, s := range suggestions {
		ids = append(ids, s.ID)
		index[s.ID] = i
		suggestions[i].ActivityTypes = []domain.ActivityType{}
	}

	const query = `SELECT l.suggestion_id, t.activity_type_id, t.name, t.description, t.points_per_minute, t.category
        FROM workout_suggestion_activity_types l
        JOIN activity_types t ON t.activity_type_id = l.activity_type_id
        WHERE l.suggestion_id = ANY($1::text[]::uuid[])
        ORDER BY t.name`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var suggestionID string
		var at domain.ActivityType
		if err := rows.Scan(&suggestionID, &at.ID, &at.Name, &at.Description, &at.PointsPerMinute, &at.Category); err != nil {
			return err
		}
		if i, ok := index[suggestionID]; ok {
			suggestions[i].ActivityTypes = append(suggestions[i].ActivityTypes, at)
		}
	}
	return rows.Err()
}

func scanSuggestion(row pgx.Row) (domain.WorkoutSuggestion, error) {
	var s domain.WorkoutSuggestion
	err := row.Scan(&s.ID, &s.UserID, &s.Title, &s.Description, &s.RecommendedDuration,
		&s.Difficulty, &s.IsCompleted, &s.CreatedAt, &s.CompletedAt)
	return s, err
}
