package domain

import (
	"context"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"example.com/octofit/internal/observability"
)

const (
	// DefaultUserLeaderboardLimit bounds rank_users when no limit is given.
	DefaultUserLeaderboardLimit = 50
	// DefaultTeamLeaderboardLimit bounds rank_teams when no limit is given.
	DefaultTeamLeaderboardLimit = 20
)

// UserStanding is one row of the user leaderboard.
type UserStanding struct {
	Rank        int
	UserID      string
	Username    string
	FirstName   string
	LastName    string
	TotalPoints int
}

// TeamStanding is one row of the team leaderboard.
type TeamStanding struct {
	Rank        int
	TeamID      string
	Name        string
	MemberCount int
	TotalPoints int
}

// StandingsStore reads current aggregate totals. Implementations return at
// most limit rows chosen by the same ordering the Ranker applies.
type StandingsStore interface {
	UserStandings(ctx context.Context, limit int) ([]UserStanding, error)
	TeamStandings(ctx context.Context, limit int) ([]TeamStanding, error)
}

// Ranker produces leaderboard snapshots. Ranks are sequential positions and
// are never persisted.
type Ranker struct {
	store       StandingsStore
	logger      logrus.FieldLogger
	userDefault int
	teamDefault int
}

// RankerOption configures a Ranker.
type RankerOption func(*Ranker)

// WithDefaultLimits overrides the limits used when callers pass a non-positive limit.
func WithDefaultLimits(users, teams int) RankerOption {
	return func(r *Ranker) {
		if users > 0 {
			r.userDefault = users
		}
		if teams > 0 {
			r.teamDefault = teams
		}
	}
}

// NewRanker constructs a Ranker.
func NewRanker(store StandingsStore, logger logrus.FieldLogger, opts ...RankerOption) *Ranker {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	r := &Ranker{
		store:       store,
		logger:      logger,
		userDefault: DefaultUserLeaderboardLimit,
		teamDefault: DefaultTeamLeaderboardLimit,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RankUsers returns the top users by total points. Ties are broken by user ID
// ascending.
func (r *Ranker) RankUsers(ctx context.Context, limit int) ([]UserStanding, error) {
	if limit <= 0 {
		limit = r.userDefault
	}
	start := time.Now()
	rows, err := r.store.UserStandings(ctx, limit)
	observability.ObserveLeaderboardQuery("users", time.Since(start))
	if err != nil {
		r.logger.WithError(err).Error("user standings query failed")
		return nil, err
	}
	return RankUserStandings(rows, limit), nil
}

// RankTeams returns the top active teams by the live sum of their members'
// totals. Ties are broken by team ID ascending.
func (r *Ranker) RankTeams(ctx context.Context, limit int) ([]TeamStanding, error) {
	if limit <= 0 {
		limit = r.teamDefault
	}
	start := time.Now()
	rows, err := r.store.TeamStandings(ctx, limit)
	observability.ObserveLeaderboardQuery("teams", time.Since(start))
	if err != nil {
		r.logger.WithError(err).Error("team standings query failed")
		return nil, err
	}
	return RankTeamStandings(rows, limit), nil
}

// RankUserStandings orders rows by points descending then user ID ascending,
// keeps the first limit rows and assigns ranks 1..n.
func RankUserStandings(rows []UserStanding, limit int) []UserStanding {
	out := append([]UserStanding(nil), rows...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].TotalPoints != out[j].TotalPoints {
			return out[i].TotalPoints > out[j].TotalPoints
		}
		return out[i].UserID < out[j].UserID
	})
	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}

// RankTeamStandings is RankUserStandings for teams.
func RankTeamStandings(rows []TeamStanding, limit int) []TeamStanding {
	out := append([]TeamStanding(nil), rows...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].TotalPoints != out[j].TotalPoints {
			return out[i].TotalPoints > out[j].TotalPoints
		}
		return out[i].TeamID < out[j].TeamID
	})
	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}
