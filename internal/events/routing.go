package events

import "fmt"

// Kafka topics the ledger publishes to.
const (
	TopicActivityEvents = "ledger_activity_events"
	TopicProfileEvents  = "ledger_profile_events"
)

// Route describes where an event type is published and which Schema Registry
// subject validates it.
type Route struct {
	Topic         string
	SchemaSubject string
}

var routes = map[string]Route{
	TypeActivityLogged:       {Topic: TopicActivityEvents, SchemaSubject: TopicActivityEvents + "-value"},
	TypeActivityRevised:      {Topic: TopicActivityEvents, SchemaSubject: TopicActivityEvents + "-value"},
	TypeProfilePointsUpdated: {Topic: TopicProfileEvents, SchemaSubject: TopicProfileEvents + "-value"},
}

// RouteFor returns the routing metadata for eventType.
func RouteFor(eventType string) (Route, error) {
	route, ok := routes[eventType]
	if !ok {
		return Route{}, fmt.Errorf("unknown event type: %s", eventType)
	}
	return route, nil
}

// Topics lists every topic the ledger publishes to.
func Topics() []string {
	return []string{TopicActivityEvents, TopicProfileEvents}
}

// Kafka headers attached to every published record.
const (
	HeaderEventType     = "event_type"
	HeaderSchemaSubject = "schema_subject"
	HeaderAggregateID   = "aggregate_id"
)
