package domain

import "time"

// FitnessLevel is the self-reported experience of a user.
type FitnessLevel string

const (
	FitnessBeginner     FitnessLevel = "beginner"
	FitnessIntermediate FitnessLevel = "intermediate"
	FitnessAdvanced     FitnessLevel = "advanced"
)

// Valid reports whether f is a known fitness level.
func (f FitnessLevel) Valid() bool {
	switch f {
	case FitnessBeginner, FitnessIntermediate, FitnessAdvanced:
		return true
	default:
		return false
	}
}

// User is the identity row every activity, profile and membership refers to.
// The ID is the subject supplied by the identity provider.
type User struct {
	ID        string
	Username  string
	FirstName string
	LastName  string
	Email     string
}

// UserProfile extends a user with fitness data and the cached point total.
// TotalPoints always equals the sum of PointsAwarded over the user's activities.
type UserProfile struct {
	User
	FitnessLevel FitnessLevel
	HeightCM     *float64
	WeightKG     *float64
	DateOfBirth  *time.Time
	TotalPoints  int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Team groups users competing together. TotalPoints and MemberCount are
// derived at read time from the current members.
type Team struct {
	ID          string
	Name        string
	Description string
	CaptainID   string
	IsActive    bool
	CreatedAt   time.Time
	MemberIDs   []string
	MemberCount int
	TotalPoints int
}
