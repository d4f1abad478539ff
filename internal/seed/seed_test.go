package seed_test

import (
	"context"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"example.com/octofit/internal/domain"
	"example.com/octofit/internal/persistence/memory"
	"example.com/octofit/internal/seed"
)

func TestPopulateDerivesTotalsThroughLedger(t *testing.T) {
	ctx := context.Background()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	repo := memory.NewRepository()
	directory := domain.NewDirectory(repo, logger)
	ledger := domain.NewLedger(repo, logger)
	ranker := domain.NewRanker(repo, logger)

	summary, err := seed.Populate(ctx, directory, ledger, logger)
	require.NoError(t, err)
	require.False(t, summary.Skipped)
	require.Equal(t, len(seed.DefaultActivityTypes()), summary.ActivityTypes)
	require.Equal(t, 6, summary.Users)
	require.Equal(t, 2, summary.Teams)
	require.Equal(t, 18, summary.Activities)

	// 30*10*1.3 + 30*8*1.0 + 30*4*0.8
	profile, err := ledger.Profile(ctx, "hero-tony-stark")
	require.NoError(t, err)
	require.Equal(t, 726, profile.TotalPoints)
	require.Equal(t, "ironman", profile.Username)

	teams, err := ranker.RankTeams(ctx, 0)
	require.NoError(t, err)
	require.Len(t, teams, 2)
	for _, team := range teams {
		require.Equal(t, 3, team.MemberCount)
		require.Equal(t, 3*726, team.TotalPoints)
	}
	require.Equal(t, 1, teams[0].Rank)
	require.Equal(t, 2, teams[1].Rank)

	again, err := seed.Populate(ctx, directory, ledger, logger)
	require.NoError(t, err)
	require.True(t, again.Skipped)

	users, err := ranker.RankUsers(ctx, 0)
	require.NoError(t, err)
	require.Len(t, users, 6)
}

func TestDefaultActivityTypesAreValid(t *testing.T) {
	seen := make(map[string]bool)
	for _, activityType := range seed.DefaultActivityTypes() {
		require.True(t, activityType.Category.Valid(), activityType.Name)
		require.Greater(t, activityType.PointsPerMinute, 0.0, activityType.Name)
		require.False(t, seen[activityType.Name], "duplicate %s", activityType.Name)
		seen[activityType.Name] = true
	}
}
