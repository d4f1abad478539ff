package postgres

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"

	"example.com/octofit/internal/domain"
	"example.com/octofit/internal/events"
)

const activityColumns = `a.activity_id, a.user_id, a.activity_type_id, t.name, t.category, a.duration_minutes, a.intensity,
        a.points_awarded, a.distance_km, a.calories_burned, a.notes, a.logged_at, a.created_at, a.updated_at`

// ActivityType implements domain.LedgerStore.
func (r *Repository) ActivityType(ctx context.Context, id string) (domain.ActivityType, error) {
	if !validUUID(id) {
		return domain.ActivityType{}, &domain.NotFoundError{Resource: "activity type", ID: id}
	}
	const query = `SELECT activity_type_id, name, description, points_per_minute, category
        FROM activity_types WHERE activity_type_id = $1`

	var at domain.ActivityType
	err := r.pool.QueryRow(ctx, query, id).Scan(&at.ID, &at.Name, &at.Description, &at.PointsPerMinute, &at.Category)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ActivityType{}, &domain.NotFoundError{Resource: "activity type", ID: id}
	}
	if err != nil {
		return domain.ActivityType{}, err
	}
	return at, nil
}

// ListActivityTypes implements domain.LedgerStore.
func (r *Repository) ListActivityTypes(ctx context.Context) ([]domain.ActivityType, error) {
	rows, err := r.pool.Query(ctx, `SELECT activity_type_id, name, description, points_per_minute, category
        FROM activity_types ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.ActivityType, 0)
	for rows.Next() {
		var at domain.ActivityType
		if err := rows.Scan(&at.ID, &at.Name, &at.Description, &at.PointsPerMinute, &at.Category); err != nil {
			return nil, err
		}
		out = append(out, at)
	}
	return out, rows.Err()
}

// RecordActivity implements domain.LedgerStore. The activity insert, the
// total recomputation and the outbox rows commit together.
func (r *Repository) RecordActivity(ctx context.Context, activity domain.Activity) (int, error) {
	var total int
	err := r.inTx(ctx, "record activity", func(tx pgx.Tx) error {
		if err := lockProfile(ctx, tx, activity.UserID); err != nil {
			return err
		}

		const insert = `INSERT INTO activities (activity_id, user_id, activity_type_id, duration_minutes, intensity, points_awarded,
            distance_km, calories_burned, notes, logged_at, created_at, updated_at)
            VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`
		if _, err := tx.Exec(ctx, insert,
			activity.ID,
			activity.UserID,
			activity.ActivityTypeID,
			activity.DurationMin,
			string(activity.Intensity),
			activity.PointsAwarded,
			activity.DistanceKM,
			activity.CaloriesBurned,
			activity.Notes,
			activity.LoggedAt,
			activity.CreatedAt,
			activity.UpdatedAt,
		); err != nil {
			return err
		}

		var err error
		total, err = recomputeTotal(ctx, tx, activity.UserID, activity.UpdatedAt)
		if err != nil {
			return err
		}
		return insertLedgerEvents(ctx, tx, events.TypeActivityLogged, activity, total)
	})
	if err != nil {
		return 0, err
	}
	return total, nil
}

// ReviseActivity implements domain.LedgerStore.
func (r *Repository) ReviseActivity(ctx context.Context, activity domain.Activity) (int, error) {
	if !validUUID(activity.ID) {
		return 0, &domain.NotFoundError{Resource: "activity", ID: activity.ID}
	}
	var total int
	err := r.inTx(ctx, "revise activity", func(tx pgx.Tx) error {
		if err := lockProfile(ctx, tx, activity.UserID); err != nil {
			return err
		}

		const update = `UPDATE activities
            SET activity_type_id = $3, duration_minutes = $4, intensity = $5, points_awarded = $6, notes = $7, updated_at = $8
            WHERE activity_id = $1 AND user_id = $2`
		tag, err := tx.Exec(ctx, update,
			activity.ID,
			activity.UserID,
			activity.ActivityTypeID,
			activity.DurationMin,
			string(activity.Intensity),
			activity.PointsAwarded,
			activity.Notes,
			activity.UpdatedAt,
		)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return &domain.NotFoundError{Resource: "activity", ID: activity.ID}
		}

		total, err = recomputeTotal(ctx, tx, activity.UserID, activity.UpdatedAt)
		if err != nil {
			return err
		}
		return insertLedgerEvents(ctx, tx, events.TypeActivityRevised, activity, total)
	})
	if err != nil {
		return 0, err
	}
	return total, nil
}

// lockProfile ensures the user's profile row exists and holds its row lock
// until the transaction ends, serializing ledger writes per user.
func lockProfile(ctx context.Context, tx pgx.Tx, userID string) error {
	if _, err := tx.Exec(ctx, `INSERT INTO user_profiles (user_id)
        SELECT user_id FROM users WHERE user_id = $1
        ON CONFLICT (user_id) DO NOTHING`, userID); err != nil {
		return err
	}
	var current int64
	err := tx.QueryRow(ctx, `SELECT total_points FROM user_profiles WHERE user_id = $1 FOR UPDATE`, userID).Scan(&current)
	if errors.Is(err, pgx.ErrNoRows) {
		return &domain.NotFoundError{Resource: "user", ID: userID}
	}
	return err
}

// recomputeTotal replaces the cached total with the sum over the user's
// activities. It must run after lockProfile in the same transaction.
func recomputeTotal(ctx context.Context, tx pgx.Tx, userID string, at time.Time) (int, error) {
	var total int64
	if err := tx.QueryRow(ctx, `SELECT COALESCE(SUM(points_awarded), 0)::bigint FROM activities WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return 0, err
	}
	if _, err := tx.Exec(ctx, `UPDATE user_profiles SET total_points = $2, updated_at = $3 WHERE user_id = $1`, userID, total, at); err != nil {
		return 0, err
	}
	return int(total), nil
}

func insertLedgerEvents(ctx context.Context, tx pgx.Tx, eventType string, activity domain.Activity, total int) error {
	stamp := strconv.FormatInt(activity.UpdatedAt.UnixNano(), 10)
	if err := insertOutbox(ctx, tx, outboxRecord{
		AggregateType: "activity",
		AggregateID:   activity.ID,
		EventType:     eventType,
		PartitionKey:  activity.UserID,
		DedupeKey:     activity.ID + ":" + eventType + ":" + stamp,
		Payload: events.ActivityLogged{
			ActivityID:     activity.ID,
			UserID:         activity.UserID,
			ActivityTypeID: activity.ActivityTypeID,
			ActivityType:   activity.ActivityTypeName,
			DurationMin:    activity.DurationMin,
			Intensity:      string(activity.Intensity),
			PointsAwarded:  activity.PointsAwarded,
			LoggedAt:       activity.LoggedAt,
			Version:        stamp,
		},
	}); err != nil {
		return err
	}
	return insertOutbox(ctx, tx, outboxRecord{
		AggregateType: "profile",
		AggregateID:   activity.UserID,
		EventType:     events.TypeProfilePointsUpdated,
		PartitionKey:  activity.UserID,
		DedupeKey:     activity.UserID + ":" + events.TypeProfilePointsUpdated + ":" + activity.ID + ":" + stamp,
		Payload: events.ProfilePointsUpdated{
			UserID:      activity.UserID,
			TotalPoints: total,
			ActivityID:  activity.ID,
			OccurredAt:  activity.UpdatedAt,
		},
	})
}

// Activity implements domain.LedgerStore.
func (r *Repository) Activity(ctx context.Context, userID, activityID string) (domain.Activity, error) {
	if !validUUID(activityID) {
		return domain.Activity{}, &domain.NotFoundError{Resource: "activity", ID: activityID}
	}
	query := `SELECT ` + activityColumns + `
        FROM activities a JOIN activity_types t ON t.activity_type_id = a.activity_type_id
        WHERE a.user_id = $1 AND a.activity_id = $2`

	activity, err := scanActivity(r.pool.QueryRow(ctx, query, userID, activityID))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Activity{}, &domain.NotFoundError{Resource: "activity", ID: activityID}
	}
	if err != nil {
		return domain.Activity{}, err
	}
	return activity, nil
}

// ListActivities implements domain.LedgerStore. Results are ordered by
// logged_at then activity_id, both descending.
func (r *Repository) ListActivities(ctx context.Context, userID string, filter domain.ActivityFilter) ([]domain.Activity, *domain.Cursor, error) {
	args := []interface{}{userID, filter.Limit}
	query := `SELECT ` + activityColumns + `
        FROM activities a JOIN activity_types t ON t.activity_type_id = a.activity_type_id
        WHERE a.user_id = $1`

	if filter.Start != nil {
		args = append(args, *filter.Start)
		query += ` AND a.logged_at >= $` + strconv.Itoa(len(args))
	}
	if filter.End != nil {
		args = append(args, *filter.End)
		query += ` AND a.logged_at <= $` + strconv.Itoa(len(args))
	}
	if filter.Cursor != nil {
		if !validUUID(filter.Cursor.ID) {
			return nil, nil, &domain.ValidationError{Field: "cursor", Reason: "malformed"}
		}
		args = append(args, filter.Cursor.LoggedAt, filter.Cursor.ID)
		query += ` AND (a.logged_at, a.activity_id) < ($` + strconv.Itoa(len(args)-1) + `, $` + strconv.Itoa(len(args)) + `::uuid)`
	}
	query += ` ORDER BY a.logged_at DESC, a.activity_id DESC LIMIT $2`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	results := make([]domain.Activity, 0, filter.Limit)
	for rows.Next() {
		activity, err := scanActivity(rows)
		if err != nil {
			return nil, nil, err
		}
		results = append(results, activity)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	var nextCursor *domain.Cursor
	if filter.Limit > 0 && len(results) == filter.Limit {
		last := results[len(results)-1]
		nextCursor = &domain.Cursor{LoggedAt: last.LoggedAt, ID: last.ID}
	}
	return results, nextCursor, nil
}

// ActivityStats implements domain.LedgerStore.
func (r *Repository) ActivityStats(ctx context.Context, userID string) (domain.ActivityStats, error) {
	const query = `SELECT t.name, COUNT(*), COALESCE(SUM(a.duration_minutes), 0)::bigint, COALESCE(SUM(a.points_awarded), 0)::bigint
        FROM activities a JOIN activity_types t ON t.activity_type_id = a.activity_type_id
        WHERE a.user_id = $1
        GROUP BY t.name
        ORDER BY t.name`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return domain.ActivityStats{}, err
	}
	defer rows.Close()

	stats := domain.ActivityStats{Breakdown: make([]domain.ActivityTypeStats, 0)}
	for rows.Next() {
		var entry domain.ActivityTypeStats
		if err := rows.Scan(&entry.ActivityType, &entry.Count, &entry.TotalMinutes, &entry.TotalPoints); err != nil {
			return domain.ActivityStats{}, err
		}
		stats.TotalActivities += entry.Count
		stats.TotalMinutes += entry.TotalMinutes
		stats.TotalPoints += entry.TotalPoints
		stats.Breakdown = append(stats.Breakdown, entry)
	}
	return stats, rows.Err()
}

// Profile implements domain.LedgerStore.
func (r *Repository) Profile(ctx context.Context, userID string) (domain.UserProfile, error) {
	const query = `SELECT u.user_id, u.username, u.first_name, u.last_name, u.email,
            COALESCE(p.fitness_level, 'beginner'), p.height_cm, p.weight_kg, p.date_of_birth,
            COALESCE(p.total_points, 0), COALESCE(p.created_at, u.created_at), COALESCE(p.updated_at, u.created_at)
        FROM users u LEFT JOIN user_profiles p ON p.user_id = u.user_id
        WHERE u.user_id = $1`

	var profile domain.UserProfile
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&profile.ID, &profile.Username, &profile.FirstName, &profile.LastName, &profile.Email,
		&profile.FitnessLevel, &profile.HeightCM, &profile.WeightKG, &profile.DateOfBirth,
		&profile.TotalPoints, &profile.CreatedAt, &profile.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.UserProfile{}, &domain.NotFoundError{Resource: "user", ID: userID}
	}
	if err != nil {
		return domain.UserProfile{}, err
	}
	return profile, nil
}

func scanActivity(row pgx.Row) (domain.Activity, error) {
	var a domain.Activity
	err := row.Scan(
		&a.ID, &a.UserID, &a.ActivityTypeID, &a.ActivityTypeName, &a.Category, &a.DurationMin, &a.Intensity,
		&a.PointsAwarded, &a.DistanceKM, &a.CaloriesBurned, &a.Notes, &a.LoggedAt, &a.CreatedAt, &a.UpdatedAt,
	)
	return a, err
}
