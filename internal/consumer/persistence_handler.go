package consumer

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/octofit/internal/events"
)

// PersistenceHandler writes consumed ledger events into Postgres for auditing.
type PersistenceHandler struct {
	pool *pgxpool.Pool
}

// NewPersistenceHandler constructs a handler backed by the provided pool.
func NewPersistenceHandler(pool *pgxpool.Pool) *PersistenceHandler {
	return &PersistenceHandler{pool: pool}
}

// Handle validates the payload against its event type and stores it in
// ledger_event_log. Redelivered records are ignored.
func (h *PersistenceHandler) Handle(ctx context.Context, msg Message) error {
	if _, err := events.Decode(msg.EventType, msg.Payload); err != nil {
		return Permanent(err)
	}

	_, err := h.pool.Exec(ctx,
		`INSERT INTO ledger_event_log (event_type, aggregate_id, schema_id, schema_subject, topic, partition, record_offset, payload, received_at)
         VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
         ON CONFLICT (topic, partition, record_offset) DO NOTHING`,
		msg.EventType,
		msg.AggregateID,
		msg.SchemaID,
		msg.SchemaSubject,
		msg.Topic,
		msg.Partition,
		msg.Offset,
		msg.Payload,
		msg.Timestamp,
	)
	return err
}
