package domain

import (
	"fmt"
	"strings"
	"time"
)

// Intensity is the effort level a user reports for an activity.
type Intensity string

const (
	IntensityLow    Intensity = "low"
	IntensityMedium Intensity = "medium"
	IntensityHigh   Intensity = "high"
)

// ParseIntensity converts a raw token into an Intensity. Unknown tokens are
// rejected; there is no fallback level.
func ParseIntensity(raw string) (Intensity, error) {
	intensity := Intensity(strings.ToLower(strings.TrimSpace(raw)))
	if _, err := intensity.Multiplier(); err != nil {
		return "", err
	}
	return intensity, nil
}

// Multiplier returns the point multiplier applied for the intensity.
func (i Intensity) Multiplier() (float64, error) {
	switch i {
	case IntensityLow:
		return 0.8, nil
	case IntensityMedium:
		return 1.0, nil
	case IntensityHigh:
		return 1.3, nil
	default:
		return 0, &ValidationError{Field: "intensity", Reason: fmt.Sprintf("unknown intensity %q", string(i))}
	}
}

// Category groups activity types.
type Category string

const (
	CategoryCardio      Category = "cardio"
	CategoryStrength    Category = "strength"
	CategoryFlexibility Category = "flexibility"
	CategorySports      Category = "sports"
	CategoryOther       Category = "other"
)

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryCardio, CategoryStrength, CategoryFlexibility, CategorySports, CategoryOther:
		return true
	default:
		return false
	}
}

// ActivityType is immutable reference data describing how an activity earns points.
type ActivityType struct {
	ID              string
	Name            string
	Description     string
	PointsPerMinute float64
	Category        Category
}

// Activity is a single ledger entry. PointsAwarded is always derived from the
// other fields and is never accepted from callers.
type Activity struct {
	ID               string
	UserID           string
	ActivityTypeID   string
	ActivityTypeName string
	Category         Category
	DurationMin      int
	Intensity        Intensity
	PointsAwarded    int
	DistanceKM       *float64
	CaloriesBurned   *int
	Notes            string
	LoggedAt         time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Cursor models the pagination token for activity listings.
type Cursor struct {
	LoggedAt time.Time
	ID       string
}

// ActivityFilter narrows an activity listing.
type ActivityFilter struct {
	Start  *time.Time
	End    *time.Time
	Cursor *Cursor
	Limit  int
}

// ActivityTypeStats is the per-type slice of ActivityStats.
type ActivityTypeStats struct {
	ActivityType string
	Count        int
	TotalMinutes int
	TotalPoints  int
}

// ActivityStats summarises every activity a user has logged.
type ActivityStats struct {
	TotalActivities int
	TotalMinutes    int
	TotalPoints     int
	Breakdown       []ActivityTypeStats
}
