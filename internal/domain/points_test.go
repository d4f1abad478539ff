package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestComputePoints(t *testing.T) {
	cases := []struct {
		name      string
		duration  int
		rate      float64
		intensity Intensity
		want      int
	}{
		{"unit rate medium", 30, 1.0, IntensityMedium, 30},
		{"unit rate high", 30, 1.0, IntensityHigh, 39},
		{"unit rate low", 30, 1.0, IntensityLow, 24},
		{"half point floors", 10, 2.5, IntensityHigh, 32},
		{"medium is identity", 30, 10, IntensityMedium, 300},
		{"high multiplies", 40, 7.5, IntensityHigh, 390},
		{"low truncates", 20, 7.5, IntensityLow, 120},
		{"fractional result is truncated", 7, 3.3, IntensityHigh, 30},
		{"single minute low", 1, 1, IntensityLow, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ComputePoints(tc.duration, tc.rate, tc.intensity)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestComputePointsIsDeterministic(t *testing.T) {
	first, err := ComputePoints(45, 9.5, IntensityHigh)
	require.NoError(t, err)
	for i := 0; i < 100; i++ {
		again, err := ComputePoints(45, 9.5, IntensityHigh)
		require.NoError(t, err)
		require.Equal(t, first, again)
	}
}

func TestComputePointsRejectsInvalidInput(t *testing.T) {
	_, err := ComputePoints(0, 10, IntensityMedium)
	require.True(t, IsValidation(err))

	_, err = ComputePoints(-5, 10, IntensityMedium)
	require.True(t, IsValidation(err))

	_, err = ComputePoints(10, 0, IntensityMedium)
	require.True(t, IsValidation(err))

	_, err = ComputePoints(10, 10, Intensity("extreme"))
	require.True(t, IsValidation(err))
}

func TestComputePointsRejectsOversizedInput(t *testing.T) {
	got, err := ComputePoints(MaxDurationMinutes, 10, IntensityHigh)
	require.NoError(t, err)
	require.Equal(t, 18720, got)

	_, err = ComputePoints(MaxDurationMinutes+1, 10, IntensityMedium)
	require.True(t, IsValidation(err))

	_, err = ComputePoints(1<<62, 10, IntensityHigh)
	require.True(t, IsValidation(err))

	_, err = ComputePoints(MaxDurationMinutes, 2e6, IntensityHigh)
	require.True(t, IsValidation(err))
}

func TestParseIntensity(t *testing.T) {
	got, err := ParseIntensity(" HIGH ")
	require.NoError(t, err)
	require.Equal(t, IntensityHigh, got)

	_, err = ParseIntensity("")
	require.True(t, IsValidation(err))
}

func TestNotFoundMatchesSentinel(t *testing.T) {
	err := &NotFoundError{Resource: "activity", ID: "abc"}
	require.ErrorIs(t, err, ErrActivityNotFound)
	require.NotErrorIs(t, &NotFoundError{Resource: "user", ID: "abc"}, ErrActivityNotFound)
}
