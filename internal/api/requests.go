package api

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

type logActivityRequest struct {
	ActivityTypeID string     `json:"activity_type_id" validate:"required"`
	DurationMin    int        `json:"duration_minutes" validate:"gt=0,lte=1440"`
	Intensity      string     `json:"intensity" validate:"required"`
	DistanceKM     *float64   `json:"distance_km,omitempty" validate:"omitempty,gte=0"`
	CaloriesBurned *int       `json:"calories_burned,omitempty" validate:"omitempty,gte=0"`
	Notes          string     `json:"notes,omitempty" validate:"max=2000"`
	LoggedAt       *time.Time `json:"logged_at,omitempty"`
}

type updateActivityRequest struct {
	ActivityTypeID *string `json:"activity_type_id,omitempty" validate:"omitempty,min=1"`
	DurationMin    *int    `json:"duration_minutes,omitempty" validate:"omitempty,gt=0,lte=1440"`
	Intensity      *string `json:"intensity,omitempty"`
	Notes          *string `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

func (r updateActivityRequest) empty() bool {
	return r.ActivityTypeID == nil && r.DurationMin == nil && r.Intensity == nil && r.Notes == nil
}

type profileRequest struct {
	FitnessLevel *string  `json:"fitness_level,omitempty" validate:"omitempty,oneof=beginner intermediate advanced"`
	HeightCM     *float64 `json:"height_cm,omitempty" validate:"omitempty,gt=0,lt=300"`
	WeightKG     *float64 `json:"weight_kg,omitempty" validate:"omitempty,gt=0,lt=700"`
	DateOfBirth  *string  `json:"date_of_birth,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

type suggestionRequest struct {
	Title               string   `json:"title" validate:"required,max=100"`
	Description         string   `json:"description,omitempty" validate:"max=2000"`
	RecommendedDuration int      `json:"recommended_duration" validate:"gt=0,lte=1440"`
	DifficultyLevel     string   `json:"difficulty_level,omitempty"`
	ActivityTypeIDs     []string `json:"activity_type_ids,omitempty" validate:"dive,required"`
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// describeValidation flattens validator errors into a single detail string.
func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			parts = append(parts, fmt.Sprintf("%s is required", fe.Field()))
		case "oneof":
			parts = append(parts, fmt.Sprintf("%s must be one of [%s]", fe.Field(), fe.Param()))
		case "datetime":
			parts = append(parts, fmt.Sprintf("%s must match %s", fe.Field(), fe.Param()))
		default:
			parts = append(parts, fmt.Sprintf("%s failed %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		}
	}
	return strings.Join(parts, "; ")
}

// parseDateBound accepts RFC 3339 timestamps or bare dates. A bare end date
// covers the whole day.
func parseDateBound(raw string, end bool) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if ts, err := time.Parse(time.RFC3339, raw); err == nil {
		ts = ts.UTC()
		return &ts, nil
	}
	day, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, fmt.Errorf("expected YYYY-MM-DD or RFC 3339 timestamp")
	}
	if end {
		day = day.Add(24*time.Hour - time.Nanosecond)
	}
	return &day, nil
}
