package outbox

import "example.com/octofit/internal/events"

const activityEventSchema = `{
  "type": "object",
  "title": "ActivityLogged",
  "properties": {
    "activity_id": {"type": "string"},
    "user_id": {"type": "string"},
    "activity_type_id": {"type": "string"},
    "activity_type": {"type": "string"},
    "duration_min": {"type": "integer", "minimum": 1},
    "intensity": {"type": "string", "enum": ["low", "medium", "high"]},
    "points_awarded": {"type": "integer", "minimum": 0},
    "logged_at": {"type": "string", "format": "date-time"},
    "version": {"type": "string"}
  },
  "required": ["activity_id", "user_id", "activity_type_id", "duration_min", "intensity", "points_awarded", "logged_at", "version"],
  "additionalProperties": false
}`

const profilePointsUpdatedSchema = `{
  "type": "object",
  "title": "ProfilePointsUpdated",
  "properties": {
    "user_id": {"type": "string"},
    "total_points": {"type": "integer", "minimum": 0},
    "activity_id": {"type": "string"},
    "occurred_at": {"type": "string", "format": "date-time"}
  },
  "required": ["user_id", "total_points", "occurred_at"],
  "additionalProperties": false
}`

// schemaCatalog maps an event type to the JSON schema registered for its subject.
var schemaCatalog = map[string]string{
	events.TypeActivityLogged:       activityEventSchema,
	events.TypeActivityRevised:      activityEventSchema,
	events.TypeProfilePointsUpdated: profilePointsUpdatedSchema,
}
