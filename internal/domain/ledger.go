// Package domain defines the business logic for the activity-points service.
package domain

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"example.com/octofit/internal/observability"
)

// DefaultActivityPageSize is used when a listing does not specify a limit.
const DefaultActivityPageSize = 20

// LedgerStore captures persistence operations for the points ledger.
//
// RecordActivity and ReviseActivity must write the activity and the
// recomputed profile total in one atomic unit and serialize concurrent
// writers of the same user. Both return the user's new total.
type LedgerStore interface {
	ActivityType(ctx context.Context, id string) (ActivityType, error)
	ListActivityTypes(ctx context.Context) ([]ActivityType, error)
	RecordActivity(ctx context.Context, activity Activity) (int, error)
	ReviseActivity(ctx context.Context, activity Activity) (int, error)
	Activity(ctx context.Context, userID, activityID string) (Activity, error)
	ListActivities(ctx context.Context, userID string, filter ActivityFilter) ([]Activity, *Cursor, error)
	ActivityStats(ctx context.Context, userID string) (ActivityStats, error)
	Profile(ctx context.Context, userID string) (UserProfile, error)
}

// Ledger owns the points formula and the cached-total invariant.
type Ledger struct {
	store  LedgerStore
	logger logrus.FieldLogger
	now    func() time.Time
}

// NewLedger constructs a Ledger.
func NewLedger(store LedgerStore, logger logrus.FieldLogger) *Ledger {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Ledger{
		store:  store,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// LogActivityInput captures the payload from the API layer.
type LogActivityInput struct {
	UserID         string
	ActivityTypeID string
	DurationMin    int
	Intensity      string
	DistanceKM     *float64
	CaloriesBurned *int
	Notes          string
	LoggedAt       time.Time
}

// LedgerEntry is the result of a ledger write: the stored activity and the
// user's total immediately after it.
type LedgerEntry struct {
	Activity    Activity
	TotalPoints int
}

// LogActivity validates the input, computes the awarded points and records
// the activity together with the user's recomputed total.
func (l *Ledger) LogActivity(ctx context.Context, input LogActivityInput) (*LedgerEntry, error) {
	start := time.Now()

	if strings.TrimSpace(input.UserID) == "" {
		return nil, &ValidationError{Field: "user_id", Reason: "is required"}
	}
	intensity, err := ParseIntensity(input.Intensity)
	if err != nil {
		return nil, err
	}
	if err := validateDuration(input.DurationMin); err != nil {
		return nil, err
	}
	activityType, err := l.resolveActivityType(ctx, input.ActivityTypeID)
	if err != nil {
		return nil, err
	}
	points, err := ComputePoints(input.DurationMin, activityType.PointsPerMinute, intensity)
	if err != nil {
		return nil, err
	}

	now := l.now()
	loggedAt := input.LoggedAt.UTC()
	if input.LoggedAt.IsZero() {
		loggedAt = now
	}

	activity := Activity{
		ID:               uuid.NewString(),
		UserID:           input.UserID,
		ActivityTypeID:   activityType.ID,
		ActivityTypeName: activityType.Name,
		Category:         activityType.Category,
		DurationMin:      input.DurationMin,
		Intensity:        intensity,
		PointsAwarded:    points,
		DistanceKM:       input.DistanceKM,
		CaloriesBurned:   input.CaloriesBurned,
		Notes:            input.Notes,
		LoggedAt:         loggedAt,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	total, err := l.store.RecordActivity(ctx, activity)
	observability.ObserveLedgerWrite("log", time.Since(start), err)
	if err != nil {
		l.logger.WithError(err).WithField("user_id", input.UserID).Warn("log activity failed")
		return nil, err
	}

	observability.RecordPointsAwarded(string(activity.Category), string(activity.Intensity), points)
	observability.RecordActivityPersisted(activity.UpdatedAt)
	l.logger.WithFields(logrus.Fields{
		"user_id":        activity.UserID,
		"activity_id":    activity.ID,
		"points_awarded": points,
		"total_points":   total,
	}).Info("activity logged")

	return &LedgerEntry{Activity: activity, TotalPoints: total}, nil
}

// ActivityRevision describes changes to an existing activity. Nil fields keep
// their stored value.
type ActivityRevision struct {
	UserID         string
	ActivityID     string
	ActivityTypeID *string
	DurationMin    *int
	Intensity      *string
	Notes          *string
}

// UpdateActivity applies a revision and recomputes both the activity's points
// and the owner's total.
func (l *Ledger) UpdateActivity(ctx context.Context, rev ActivityRevision) (*LedgerEntry, error) {
	start := time.Now()

	current, err := l.store.Activity(ctx, rev.UserID, rev.ActivityID)
	if err != nil {
		return nil, err
	}

	updated := current
	if rev.Intensity != nil {
		intensity, err := ParseIntensity(*rev.Intensity)
		if err != nil {
			return nil, err
		}
		updated.Intensity = intensity
	}
	if rev.DurationMin != nil {
		if err := validateDuration(*rev.DurationMin); err != nil {
			return nil, err
		}
		updated.DurationMin = *rev.DurationMin
	}
	typeID := current.ActivityTypeID
	if rev.ActivityTypeID != nil {
		typeID = *rev.ActivityTypeID
	}
	activityType, err := l.resolveActivityType(ctx, typeID)
	if err != nil {
		return nil, err
	}
	updated.ActivityTypeID = activityType.ID
	updated.ActivityTypeName = activityType.Name
	updated.Category = activityType.Category
	if rev.Notes != nil {
		updated.Notes = *rev.Notes
	}

	points, err := ComputePoints(updated.DurationMin, activityType.PointsPerMinute, updated.Intensity)
	if err != nil {
		return nil, err
	}
	updated.PointsAwarded = points
	updated.UpdatedAt = l.now()

	total, err := l.store.ReviseActivity(ctx, updated)
	observability.ObserveLedgerWrite("update", time.Since(start), err)
	if err != nil {
		l.logger.WithError(err).WithField("activity_id", rev.ActivityID).Warn("update activity failed")
		return nil, err
	}

	l.logger.WithFields(logrus.Fields{
		"user_id":      updated.UserID,
		"activity_id":  updated.ID,
		"points_delta": updated.PointsAwarded - current.PointsAwarded,
		"total_points": total,
	}).Info("activity revised")

	return &LedgerEntry{Activity: updated, TotalPoints: total}, nil
}

// GetActivity fetches one of the user's own activities.
func (l *Ledger) GetActivity(ctx context.Context, userID, activityID string) (*Activity, error) {
	activity, err := l.store.Activity(ctx, userID, activityID)
	if err != nil {
		return nil, err
	}
	return &activity, nil
}

// ListActivities returns the user's activities, newest first.
func (l *Ledger) ListActivities(ctx context.Context, userID string, filter ActivityFilter) ([]Activity, *Cursor, error) {
	if filter.Limit <= 0 {
		filter.Limit = DefaultActivityPageSize
	}
	if filter.Start != nil && filter.End != nil && filter.End.Before(*filter.Start) {
		return nil, nil, &ValidationError{Field: "end_date", Reason: "must not be before start_date"}
	}
	return l.store.ListActivities(ctx, userID, filter)
}

// Stats summarises the user's activity history.
func (l *Ledger) Stats(ctx context.Context, userID string) (ActivityStats, error) {
	return l.store.ActivityStats(ctx, userID)
}

// Profile returns the user's profile including the cached total.
func (l *Ledger) Profile(ctx context.Context, userID string) (*UserProfile, error) {
	profile, err := l.store.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// ActivityTypes lists the reference data.
func (l *Ledger) ActivityTypes(ctx context.Context) ([]ActivityType, error) {
	return l.store.ListActivityTypes(ctx)
}

func (l *Ledger) resolveActivityType(ctx context.Context, id string) (ActivityType, error) {
	if strings.TrimSpace(id) == "" {
		return ActivityType{}, &ValidationError{Field: "activity_type_id", Reason: "is required"}
	}
	activityType, err := l.store.ActivityType(ctx, id)
	if err != nil {
		var notFound *NotFoundError
		if errors.As(err, &notFound) {
			return ActivityType{}, &ValidationError{Field: "activity_type_id", Reason: "unknown activity type", Err: err}
		}
		return ActivityType{}, err
	}
	return activityType, nil
}
