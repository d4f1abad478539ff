package domain

import (
	"fmt"
	"math"
)

// MaxDurationMinutes bounds a single activity to one day.
const MaxDurationMinutes = 24 * 60

// maxPoints is the largest award the activities.points_awarded column holds.
const maxPoints = math.MaxInt32

// ComputePoints converts a logged duration into awarded points:
// trunc(duration × pointsPerMinute × multiplier(intensity)).
func ComputePoints(durationMin int, pointsPerMinute float64, intensity Intensity) (int, error) {
	if err := validateDuration(durationMin); err != nil {
		return 0, err
	}
	if !(pointsPerMinute > 0) || math.IsInf(pointsPerMinute, 0) {
		return 0, &ValidationError{Field: "points_per_minute", Reason: fmt.Sprintf("must be a positive rate, got %v", pointsPerMinute)}
	}
	multiplier, err := intensity.Multiplier()
	if err != nil {
		return 0, err
	}

	// Evaluated as two products in this order; do not fold the multiplier into the rate.
	base := float64(durationMin) * pointsPerMinute
	weighted := base * multiplier
	if weighted > maxPoints {
		return 0, &ValidationError{Field: "duration_minutes", Reason: fmt.Sprintf("awards %.0f points, above the %d limit", weighted, maxPoints)}
	}
	return int(math.Trunc(weighted)), nil
}

func validateDuration(durationMin int) error {
	if durationMin <= 0 {
		return &ValidationError{Field: "duration_minutes", Reason: fmt.Sprintf("must be > 0, got %d", durationMin)}
	}
	if durationMin > MaxDurationMinutes {
		return &ValidationError{Field: "duration_minutes", Reason: fmt.Sprintf("must be at most %d, got %d", MaxDurationMinutes, durationMin)}
	}
	return nil
}
