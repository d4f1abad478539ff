// Package seed loads the default activity catalog and a demo roster of hero
// teams into an empty store.
package seed

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"example.com/octofit/internal/domain"
)

// DefaultActivityTypes is the reference catalog every deployment starts with.
func DefaultActivityTypes() []domain.ActivityType {
	return []domain.ActivityType{
		{Name: "Cardio Blast", Description: "High intensity cardio session", PointsPerMinute: 10, Category: domain.CategoryCardio},
		{Name: "Strength Training", Description: "Muscle building routine", PointsPerMinute: 8, Category: domain.CategoryStrength},
		{Name: "Recovery Stretch", Description: "Light stretching and mobility", PointsPerMinute: 4, Category: domain.CategoryFlexibility},
		{Name: "Running", Description: "Outdoor or treadmill run", PointsPerMinute: 9, Category: domain.CategoryCardio},
		{Name: "Cycling", Description: "Road or stationary bike", PointsPerMinute: 7, Category: domain.CategoryCardio},
		{Name: "Swimming", Description: "Pool or open water laps", PointsPerMinute: 9.5, Category: domain.CategoryCardio},
		{Name: "Yoga", Description: "Guided yoga flow", PointsPerMinute: 3.5, Category: domain.CategoryFlexibility},
		{Name: "Basketball", Description: "Pickup or league game", PointsPerMinute: 6, Category: domain.CategorySports},
	}
}

type hero struct {
	first, last, email, alias string
}

type roster struct {
	team        string
	description string
	heroes      []hero
}

var rosters = []roster{
	{
		team:        "Marvel",
		description: "Marvel Heroes Team",
		heroes: []hero{
			{"Tony", "Stark", "tony.stark@avengers.com", "Iron Man"},
			{"Steve", "Rogers", "steve.rogers@avengers.com", "Captain America"},
			{"Natasha", "Romanoff", "natasha.romanoff@avengers.com", "Black Widow"},
		},
	},
	{
		team:        "DC",
		description: "DC Heroes Team",
		heroes: []hero{
			{"Bruce", "Wayne", "bruce.wayne@justiceleague.com", "Batman"},
			{"Clark", "Kent", "clark.kent@justiceleague.com", "Superman"},
			{"Diana", "Prince", "diana.prince@justiceleague.com", "Wonder Woman"},
		},
	},
}

// workouts every hero logs once, by catalog name.
var workouts = []struct {
	name      string
	intensity domain.Intensity
	minutes   int
}{
	{"Cardio Blast", domain.IntensityHigh, 30},
	{"Strength Training", domain.IntensityMedium, 30},
	{"Recovery Stretch", domain.IntensityLow, 30},
}

// Summary reports what Populate wrote.
type Summary struct {
	Skipped       bool
	ActivityTypes int
	Users         int
	Teams         int
	Activities    int
}

// Populate writes the catalog, the hero teams and one of each workout per hero.
// Activities go through the ledger so points and totals are derived. A store
// that already holds activity types is left untouched.
func Populate(ctx context.Context, directory *domain.Directory, ledger *domain.Ledger, logger logrus.FieldLogger) (Summary, error) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	existing, err := ledger.ActivityTypes(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("list activity types: %w", err)
	}
	if len(existing) > 0 {
		logger.WithField("activity_types", len(existing)).Info("store already seeded, skipping")
		return Summary{Skipped: true}, nil
	}

	var summary Summary
	typeIDs := make(map[string]string)
	for _, activityType := range DefaultActivityTypes() {
		created, err := directory.CreateActivityType(ctx, activityType)
		if err != nil {
			return summary, fmt.Errorf("create activity type %s: %w", activityType.Name, err)
		}
		typeIDs[created.Name] = created.ID
		summary.ActivityTypes++
	}

	for _, r := range rosters {
		memberIDs := make([]string, 0, len(r.heroes))
		for _, h := range r.heroes {
			user := h.user()
			if _, err := directory.RegisterUser(ctx, user); err != nil {
				return summary, fmt.Errorf("register %s: %w", user.ID, err)
			}
			memberIDs = append(memberIDs, user.ID)
			summary.Users++
		}

		team, err := directory.CreateTeam(ctx, r.team, r.description, memberIDs[0])
		if err != nil {
			return summary, fmt.Errorf("create team %s: %w", r.team, err)
		}
		for _, id := range memberIDs[1:] {
			if err := directory.AddMember(ctx, team.ID, id); err != nil {
				return summary, fmt.Errorf("add %s to %s: %w", id, r.team, err)
			}
		}
		summary.Teams++

		for _, id := range memberIDs {
			for _, w := range workouts {
				if _, err := ledger.LogActivity(ctx, domain.LogActivityInput{
					UserID:         id,
					ActivityTypeID: typeIDs[w.name],
					DurationMin:    w.minutes,
					Intensity:      string(w.intensity),
				}); err != nil {
					return summary, fmt.Errorf("log %s for %s: %w", w.name, id, err)
				}
				summary.Activities++
			}
		}
	}

	logger.WithFields(logrus.Fields{
		"activity_types": summary.ActivityTypes,
		"users":          summary.Users,
		"teams":          summary.Teams,
		"activities":     summary.Activities,
	}).Info("seed data loaded")
	return summary, nil
}

// Heroes lists the demo users Populate registers.
func Heroes() []domain.User {
	var out []domain.User
	for _, r := range rosters {
		for _, h := range r.heroes {
			out = append(out, h.user())
		}
	}
	return out
}

func (h hero) user() domain.User {
	return domain.User{
		ID:        "hero-" + strings.ToLower(h.first+"-"+h.last),
		Username:  strings.ReplaceAll(strings.ToLower(h.alias), " ", ""),
		FirstName: h.first,
		LastName:  h.last,
		Email:     h.email,
	}
}
