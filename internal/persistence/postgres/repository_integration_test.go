//go:build integration

package postgres_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"example.com/octofit/internal/domain"
	"example.com/octofit/internal/persistence/postgres"
	"example.com/octofit/internal/testsupport"
)

func TestLedgerKeepsTotalsConsistentUnderConcurrentWrites(t *testing.T) {
	ctx := context.Background()
	pool, _ := testsupport.StartPostgres(ctx, t)
	repo := postgres.NewRepository(pool)

	directory := domain.NewDirectory(repo, nil)
	ledger := domain.NewLedger(repo, nil)

	_, err := directory.RegisterUser(ctx, domain.User{ID: "user-a", Username: "alice"})
	require.NoError(t, err)
	running, err := directory.CreateActivityType(ctx, domain.ActivityType{Name: "Running", PointsPerMinute: 10, Category: domain.CategoryCardio})
	require.NoError(t, err)

	const writers = 8
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := ledger.LogActivity(ctx, domain.LogActivityInput{
				UserID:         "user-a",
				ActivityTypeID: running.ID,
				DurationMin:    30,
				Intensity:      "medium",
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	profile, err := ledger.Profile(ctx, "user-a")
	require.NoError(t, err)
	require.Equal(t, writers*300, profile.TotalPoints)

	var outboxRows int
	require.NoError(t, pool.QueryRow(ctx, `SELECT COUNT(*) FROM outbox WHERE aggregate_id = 'user-a'`).Scan(&outboxRows))
	require.Equal(t, writers, outboxRows)
}

func TestLedgerRejectsUnknownUserWithoutWriting(t *testing.T) {
	ctx := context.Background()
	pool, _ := testsupport.StartPostgres(ctx, t)
	repo := postgres.NewRepository(pool)

	directory := domain.NewDirectory(repo, nil)
	ledger := domain.NewLedger(repo, nil)

	yoga, err := directory.CreateActivityType(ctx, domain.ActivityType{Name: "Yoga", PointsPerMinute: 4, Category: domain.CategoryFlexibility})
	require.NoError(t, err)

	_, err = ledger.LogActivity(ctx, domain.LogActivityInput{
		UserID:         "ghost",
		ActivityTypeID: yoga.ID,
		DurationMin:    20,
		Intensity:      "low",
	})
	require.Error(t, err)
	require.True(t, domain.IsNotFound(err))

	var count int
	require.NoError(t, pool.QueryRow(ctx, `SELECT COUNT(*) FROM activities`).Scan(&count))
	require.Zero(t, count)
	require.NoError(t, pool.QueryRow(ctx, `SELECT COUNT(*) FROM outbox`).Scan(&count))
	require.Zero(t, count)
}

func TestReviseActivityRecomputesTotal(t *testing.T) {
	ctx := context.Background()
	pool, _ := testsupport.StartPostgres(ctx, t)
	repo := postgres.NewRepository(pool)

	directory := domain.NewDirectory(repo, nil)
	ledger := domain.NewLedger(repo, nil)

	_, err := directory.RegisterUser(ctx, domain.User{ID: "user-b", Username: "bruce"})
	require.NoError(t, err)
	lifting, err := directory.CreateActivityType(ctx, domain.ActivityType{Name: "Lifting", PointsPerMinute: 7.5, Category: domain.CategoryStrength})
	require.NoError(t, err)

	entry, err := ledger.LogActivity(ctx, domain.LogActivityInput{UserID: "user-b", ActivityTypeID: lifting.ID, DurationMin: 40, Intensity: "high"})
	require.NoError(t, err)
	require.Equal(t, 390, entry.Activity.PointsAwarded)
	require.Equal(t, 390, entry.TotalPoints)

	duration := 20
	low := "low"
	revised, err := ledger.UpdateActivity(ctx, domain.ActivityRevision{
		UserID:      "user-b",
		ActivityID:  entry.Activity.ID,
		DurationMin: &duration,
		Intensity:   &low,
	})
	require.NoError(t, err)
	require.Equal(t, 120, revised.Activity.PointsAwarded)
	require.Equal(t, 120, revised.TotalPoints)

	stored, err := ledger.GetActivity(ctx, "user-b", entry.Activity.ID)
	require.NoError(t, err)
	require.Equal(t, 120, stored.PointsAwarded)
	require.Equal(t, "Lifting", stored.ActivityTypeName)

	_, err = ledger.GetActivity(ctx, "someone-else", entry.Activity.ID)
	require.ErrorIs(t, err, domain.ErrActivityNotFound)
}

func TestListActivitiesPaginates(t *testing.T) {
	ctx := context.Background()
	pool, _ := testsupport.StartPostgres(ctx, t)
	repo := postgres.NewRepository(pool)

	directory := domain.NewDirectory(repo, nil)
	ledger := domain.NewLedger(repo, nil)

	_, err := directory.RegisterUser(ctx, domain.User{ID: "user-c", Username: "clark"})
	require.NoError(t, err)
	swim, err := directory.CreateActivityType(ctx, domain.ActivityType{Name: "Swimming", PointsPerMinute: 9, Category: domain.CategoryCardio})
	require.NoError(t, err)

	base := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		_, err := ledger.LogActivity(ctx, domain.LogActivityInput{
			UserID:         "user-c",
			ActivityTypeID: swim.ID,
			DurationMin:    10 + i,
			Intensity:      "medium",
			LoggedAt:       base.Add(time.Duration(i) * time.Hour),
		})
		require.NoError(t, err)
	}

	page, cursor, err := ledger.ListActivities(ctx, "user-c", domain.ActivityFilter{Limit: 3})
	require.NoError(t, err)
	require.Len(t, page, 3)
	require.NotNil(t, cursor)
	require.Equal(t, 14, page[0].DurationMin)

	rest, next, err := ledger.ListActivities(ctx, "user-c", domain.ActivityFilter{Limit: 3, Cursor: cursor})
	require.NoError(t, err)
	require.Len(t, rest, 2)
	require.Nil(t, next)
	require.Equal(t, 10, rest[1].DurationMin)

	stats, err := ledger.Stats(ctx, "user-c")
	require.NoError(t, err)
	require.Equal(t, 5, stats.TotalActivities)
	require.Equal(t, 60, stats.TotalMinutes)
	require.Equal(t, 540, stats.TotalPoints)
	require.Len(t, stats.Breakdown, 1)
}

func TestStandingsOrderAndTeamTotals(t *testing.T) {
	ctx := context.Background()
	pool, _ := testsupport.StartPostgres(ctx, t)
	repo := postgres.NewRepository(pool)

	directory := domain.NewDirectory(repo, nil)
	ledger := domain.NewLedger(repo, nil)
	ranker := domain.NewRanker(repo, nil)

	walk, err := directory.CreateActivityType(ctx, domain.ActivityType{Name: "Walking", PointsPerMinute: 1, Category: domain.CategoryCardio})
	require.NoError(t, err)

	for i, minutes := range []int{50, 80, 50} {
		id := fmt.Sprintf("u%d", i)
		_, err := directory.RegisterUser(ctx, domain.User{ID: id, Username: "user" + id})
		require.NoError(t, err)
		_, err = ledger.LogActivity(ctx, domain.LogActivityInput{UserID: id, ActivityTypeID: walk.ID, DurationMin: minutes, Intensity: "medium"})
		require.NoError(t, err)
	}

	users, err := ranker.RankUsers(ctx, 0)
	require.NoError(t, err)
	require.Len(t, users, 3)
	require.Equal(t, "u1", users[0].UserID)
	require.Equal(t, "u0", users[1].UserID)
	require.Equal(t, "u2", users[2].UserID)
	require.Equal(t, []int{1, 2, 3}, []int{users[0].Rank, users[1].Rank, users[2].Rank})

	team, err := directory.CreateTeam(ctx, "Walkers", "", "u0")
	require.NoError(t, err)
	require.NoError(t, directory.AddMember(ctx, team.ID, "u2"))
	require.NoError(t, directory.AddMember(ctx, team.ID, "u2"))

	teams, err := ranker.RankTeams(ctx, 0)
	require.NoError(t, err)
	require.Len(t, teams, 1)
	require.Equal(t, 100, teams[0].TotalPoints)
	require.Equal(t, 2, teams[0].MemberCount)

	err = directory.AddMember(ctx, team.ID, "nobody")
	require.True(t, domain.IsNotFound(err))
}

func TestMigrateIsSafeForConcurrentStarts(t *testing.T) {
	ctx := context.Background()
	admin, connStr := testsupport.StartPostgres(ctx, t)

	_, err := admin.Exec(ctx, `CREATE DATABASE octofit_fresh`)
	require.NoError(t, err)
	cfg, err := pgxpool.ParseConfig(connStr)
	require.NoError(t, err)
	cfg.ConnConfig.Database = "octofit_fresh"

	const binaries = 4
	pools := make([]*pgxpool.Pool, binaries)
	for i := range pools {
		pool, err := pgxpool.NewWithConfig(ctx, cfg.Copy())
		require.NoError(t, err)
		t.Cleanup(pool.Close)
		pools[i] = pool
	}

	var wg sync.WaitGroup
	errs := make(chan error, binaries)
	for _, pool := range pools {
		wg.Add(1)
		go func(pool *pgxpool.Pool) {
			defer wg.Done()
			errs <- postgres.Migrate(ctx, pool)
		}(pool)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	var version int
	var dirty bool
	require.NoError(t, pools[0].QueryRow(ctx, `SELECT version, dirty FROM schema_migrations`).Scan(&version, &dirty))
	require.Equal(t, 4, version)
	require.False(t, dirty)

	require.NoError(t, postgres.Migrate(ctx, pools[0]))
}

func TestWorkoutSuggestionsRoundTrip(t *testing.T) {
	ctx := context.Background()
	pool, _ := testsupport.StartPostgres(ctx, t)
	repo := postgres.NewRepository(pool)

	directory := domain.NewDirectory(repo, nil)
	coach := domain.NewCoach(repo, nil)

	_, err := directory.RegisterUser(ctx, domain.User{ID: "user-a", Username: "alice"})
	require.NoError(t, err)
	_, err = directory.RegisterUser(ctx, domain.User{ID: "user-b", Username: "bob"})
	require.NoError(t, err)
	running, err := directory.CreateActivityType(ctx, domain.ActivityType{Name: "Running", PointsPerMinute: 10, Category: domain.CategoryCardio})
	require.NoError(t, err)
	cycling, err := directory.CreateActivityType(ctx, domain.ActivityType{Name: "Cycling", PointsPerMinute: 8, Category: domain.CategoryCardio})
	require.NoError(t, err)

	created, err := coach.Suggest(ctx, domain.SuggestionInput{
		UserID:              "user-a",
		Title:               "Brick session",
		RecommendedDuration: 60,
		Difficulty:          "intermediate",
		ActivityTypeIDs:     []string{running.ID, cycling.ID},
	})
	require.NoError(t, err)
	require.Len(t, created.ActivityTypes, 2)
	require.Equal(t, "Cycling", created.ActivityTypes[0].Name)

	_, err = coach.Suggest(ctx, domain.SuggestionInput{
		UserID: "user-a", Title: "Bad link", RecommendedDuration: 10,
		ActivityTypeIDs: []string{"00000000-0000-0000-0000-000000000000"},
	})
	require.True(t, domain.IsValidation(err), "got %v", err)

	_, err = coach.Suggestion(ctx, "user-b", created.ID)
	require.ErrorIs(t, err, domain.ErrSuggestionNotFound)
	_, err = coach.Complete(ctx, "user-b", created.ID)
	require.ErrorIs(t, err, domain.ErrSuggestionNotFound)

	done, err := coach.Complete(ctx, "user-a", created.ID)
	require.NoError(t, err)
	require.True(t, done.IsCompleted)
	require.NotNil(t, done.CompletedAt)
	again, err := coach.Complete(ctx, "user-a", created.ID)
	require.NoError(t, err)
	require.True(t, done.CompletedAt.Equal(*again.CompletedAt))

	open := false
	pending, err := coach.Suggestions(ctx, "user-a", domain.SuggestionFilter{Completed: &open})
	require.NoError(t, err)
	require.Empty(t, pending)

	all, err := coach.Suggestions(ctx, "user-a", domain.SuggestionFilter{})
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.Len(t, all[0].ActivityTypes, 2)

	var rows int
	require.NoError(t, pool.QueryRow(ctx, `SELECT COUNT(*) FROM workout_suggestions`).Scan(&rows))
	require.Equal(t, 1, rows)
}
