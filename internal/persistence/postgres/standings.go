package postgres

import (
	"context"

	"example.com/octofit/internal/domain"
)

// UserStandings implements domain.StandingsStore.
func (r *Repository) UserStandings(ctx context.Context, limit int) ([]domain.UserStanding, error) {
	const query = `SELECT u.user_id, u.username, u.first_name, u.last_name, p.total_points
        FROM user_profiles p JOIN users u ON u.user_id = p.user_id
        ORDER BY p.total_points DESC, p.user_id COLLATE "C" ASC
        LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.UserStanding, 0, limit)
	for rows.Next() {
		var s domain.UserStanding
		if err := rows.Scan(&s.UserID, &s.Username, &s.FirstName, &s.LastName, &s.TotalPoints); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// TeamStandings implements domain.StandingsStore. Team totals are summed from
// the members' current profile totals at query time.
func (r *Repository) TeamStandings(ctx context.Context, limit int) ([]domain.TeamStanding, error) {
	const query = `SELECT t.team_id, t.name, COUNT(m.user_id), COALESCE(SUM(p.total_points), 0)::bigint AS total
        FROM teams t
        LEFT JOIN team_members m ON m.team_id = t.team_id
        LEFT JOIN user_profiles p ON p.user_id = m.user_id
        WHERE t.is_active
        GROUP BY t.team_id, t.name
        ORDER BY total DESC, t.team_id ASC
        LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.TeamStanding, 0, limit)
	for rows.Next() {
		var s domain.TeamStanding
		if err := rows.Scan(&s.TeamID, &s.Name, &s.MemberCount, &s.TotalPoints); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
