package app

import (
	"leavedesk/internal/auth"
	"leavedesk/internal/leave"
	"leavedesk/internal/notification"

	"gorm.io/gorm"
)

const outboxTableDDL = `
CREATE TABLE IF NOT EXISTS outbox_events (
    id UUID PRIMARY KEY,
    request_id VARCHAR(64) NOT NULL DEFAULT '',
    aggregate_type VARCHAR(50) NOT NULL,
    aggregate_id UUID NOT NULL,
    event_type VARCHAR(50) NOT NULL,
    topic VARCHAR(100) NOT NULL,
    payload JSONB NOT NULL,
    status VARCHAR(20) NOT NULL DEFAULT 'pending',
    retry_count INT NOT NULL DEFAULT 0,
    error_message TEXT,
    next_retry_at TIMESTAMPTZ,
    processed_at TIMESTAMPTZ,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_outbox_events_status_created ON outbox_events (status, created_at);
`

func migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&auth.User{},
		&leave.Leave{},
		&notification.Notification{},
	); err != nil {
		return err
	}

	// The outbox table is accessed with raw SQL, so its schema is managed
	// here rather than through AutoMigrate.
	return db.Exec(outboxTableDDL).Error
}
