package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"example.com/octofit/internal/domain"
)

// UpsertUser implements domain.DirectoryStore.
func (r *Repository) UpsertUser(ctx context.Context, user domain.User) (domain.UserProfile, error) {
	err := r.inTx(ctx, "upsert user", func(tx pgx.Tx) error {
		const upsert = `INSERT INTO users (user_id, username, first_name, last_name, email)
            VALUES ($1,$2,$3,$4,$5)
            ON CONFLICT (user_id) DO UPDATE
            SET username = EXCLUDED.username, first_name = EXCLUDED.first_name,
                last_name = EXCLUDED.last_name, email = EXCLUDED.email`
		if _, err := tx.Exec(ctx, upsert, user.ID, user.Username, user.FirstName, user.LastName, user.Email); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, `INSERT INTO user_profiles (user_id) VALUES ($1) ON CONFLICT (user_id) DO NOTHING`, user.ID)
		return err
	})
	if err != nil {
		return domain.UserProfile{}, err
	}
	return r.Profile(ctx, user.ID)
}

// UpdateProfile implements domain.DirectoryStore. The cached total is never
// written here.
func (r *Repository) UpdateProfile(ctx context.Context, update domain.ProfileUpdate) (domain.UserProfile, error) {
	var level *string
	if update.FitnessLevel != nil {
		value := string(*update.FitnessLevel)
		level = &value
	}

	const stmt = `UPDATE user_profiles
        SET fitness_level = COALESCE($2, fitness_level),
            height_cm = COALESCE($3, height_cm),
            weight_kg = COALESCE($4, weight_kg),
            date_of_birth = COALESCE($5::date, date_of_birth),
            updated_at = NOW()
        WHERE user_id = $1`

	tag, err := r.pool.Exec(ctx, stmt, update.UserID, level, update.HeightCM, update.WeightKG, update.DateOfBirth)
	if err != nil {
		return domain.UserProfile{}, mapError("update profile", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.UserProfile{}, &domain.NotFoundError{Resource: "user", ID: update.UserID}
	}
	return r.Profile(ctx, update.UserID)
}

// CreateActivityType implements domain.DirectoryStore.
func (r *Repository) CreateActivityType(ctx context.Context, activityType domain.ActivityType) (domain.ActivityType, error) {
	const stmt = `INSERT INTO activity_types (activity_type_id, name, description, points_per_minute, category)
        VALUES ($1,$2,$3,$4,$5)`

	_, err := r.pool.Exec(ctx, stmt,
		activityType.ID,
		activityType.Name,
		activityType.Description,
		activityType.PointsPerMinute,
		string(activityType.Category),
	)
	if err != nil {
		return domain.ActivityType{}, mapError("create activity type", err)
	}
	return activityType, nil
}

// CreateTeam implements domain.DirectoryStore.
func (r *Repository) CreateTeam(ctx context.Context, team domain.Team) error {
	return r.inTx(ctx, "create team", func(tx pgx.Tx) error {
		const insert = `INSERT INTO teams (team_id, name, description, captain_id, is_active, created_at)
            VALUES ($1,$2,$3,$4,$5,$6)`
		if _, err := tx.Exec(ctx, insert, team.ID, team.Name, team.Description, team.CaptainID, team.IsActive, team.CreatedAt); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, `INSERT INTO team_members (team_id, user_id) VALUES ($1, $2)`, team.ID, team.CaptainID)
		return err
	})
}

// AddTeamMember implements domain.DirectoryStore.
func (r *Repository) AddTeamMember(ctx context.Context, teamID, userID string) error {
	if !validUUID(teamID) {
		return &domain.NotFoundError{Resource: "team", ID: teamID}
	}
	_, err := r.pool.Exec(ctx, `INSERT INTO team_members (team_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`, teamID, userID)
	if err != nil {
		return mapError("add team member", err)
	}
	return nil
}

// TeamsForUser implements domain.DirectoryStore.
func (r *Repository) TeamsForUser(ctx context.Context, userID string) ([]domain.Team, error) {
	const query = `SELECT t.team_id, t.name, t.description, t.captain_id, t.is_active, t.created_at,
            COALESCE(array_agg(m.user_id ORDER BY m.user_id COLLATE "C") FILTER (WHERE m.user_id IS NOT NULL), '{}'),
            COUNT(m.user_id),
            COALESCE(SUM(p.total_points), 0)::bigint
        FROM teams t
        LEFT JOIN team_members m ON m.team_id = t.team_id
        LEFT JOIN user_profiles p ON p.user_id = m.user_id
        WHERE t.captain_id = $1
           OR EXISTS (SELECT 1 FROM team_members x WHERE x.team_id = t.team_id AND x.user_id = $1)
        GROUP BY t.team_id
        ORDER BY t.name`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Team, 0)
	for rows.Next() {
		var team domain.Team
		if err := rows.Scan(
			&team.ID, &team.Name, &team.Description, &team.CaptainID, &team.IsActive, &team.CreatedAt,
			&team.MemberIDs, &team.MemberCount, &team.TotalPoints,
		); err != nil {
			return nil, err
		}
		out = append(out, team)
	}
	return out, rows.Err()
}
