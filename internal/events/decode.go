package events

import (
	"encoding/json"
	"fmt"
)

// Decode unmarshals payload into the struct registered for eventType.
func Decode(eventType string, payload []byte) (interface{}, error) {
	switch eventType {
	case TypeActivityLogged, TypeActivityRevised:
		var evt ActivityLogged
		if err := json.Unmarshal(payload, &evt); err != nil {
			return nil, fmt.Errorf("decode %s: %w", eventType, err)
		}
		if evt.ActivityID == "" || evt.UserID == "" {
			return nil, fmt.Errorf("decode %s: missing activity_id or user_id", eventType)
		}
		return evt, nil
	case TypeProfilePointsUpdated:
		var evt ProfilePointsUpdated
		if err := json.Unmarshal(payload, &evt); err != nil {
			return nil, fmt.Errorf("decode %s: %w", eventType, err)
		}
		if evt.UserID == "" {
			return nil, fmt.Errorf("decode %s: missing user_id", eventType)
		}
		return evt, nil
	default:
		return nil, fmt.Errorf("unknown event type: %s", eventType)
	}
}
