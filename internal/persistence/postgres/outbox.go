package postgres

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5"

	"example.com/octofit/internal/events"
)

type outboxRecord struct {
	AggregateType string
	AggregateID   string
	EventType     string
	PartitionKey  string
	DedupeKey     string
	Payload       interface{}
}

func insertOutbox(ctx context.Context, tx pgx.Tx, rec outboxRecord) error {
	body, err := json.Marshal(rec.Payload)
	if err != nil {
		return err
	}

	route, err := events.RouteFor(rec.EventType)
	if err != nil {
		return err
	}

	const stmt = `INSERT INTO outbox (aggregate_type, aggregate_id, event_type, topic, schema_subject, partition_key, payload, dedupe_key)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        ON CONFLICT (dedupe_key) DO NOTHING`

	_, err = tx.Exec(ctx, stmt,
		rec.AggregateType,
		rec.AggregateID,
		rec.EventType,
		route.Topic,
		route.SchemaSubject,
		rec.PartitionKey,
		body,
		rec.DedupeKey,
	)
	return err
}
