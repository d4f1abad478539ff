// Package events defines the ledger event payloads shared by the outbox and the consumer.
package events

import "time"

// Event types recorded in the outbox.
const (
	TypeActivityLogged       = "activity.logged"
	TypeActivityRevised      = "activity.revised"
	TypeProfilePointsUpdated = "profile.points_updated"
)

// ActivityLogged is emitted when an activity is written to the ledger, and
// again (as activity.revised) when a revision changes its points.
type ActivityLogged struct {
	ActivityID     string    `json:"activity_id"`
	UserID         string    `json:"user_id"`
	ActivityTypeID string    `json:"activity_type_id"`
	ActivityType   string    `json:"activity_type"`
	DurationMin    int       `json:"duration_min"`
	Intensity      string    `json:"intensity"`
	PointsAwarded  int       `json:"points_awarded"`
	LoggedAt       time.Time `json:"logged_at"`
	Version        string    `json:"version"`
}

// ProfilePointsUpdated carries a user's recomputed total after a ledger write.
type ProfilePointsUpdated struct {
	UserID      string    `json:"user_id"`
	TotalPoints int       `json:"total_points"`
	ActivityID  string    `json:"activity_id"`
	OccurredAt  time.Time `json:"occurred_at"`
}
