// ABOUTME: Store interfaces and record types for host persistence.
// ABOUTME: Agent text blobs and reminders are the two persisted collections.

package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound indicates the requested record does not exist.
var ErrNotFound = errors.New("not found")

// Blob is a named per-agent text document (persona, memory, config).
type Blob struct {
	AgentID   string    `json:"agent_id"`
	Name      string    `json:"name"`
	Content   string    `json:"content"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Reminder is a one-shot reminder scheduled for a point in time.
type Reminder struct {
	ID        string    `json:"id"`
	AgentID   string    `json:"agent_id"`
	Message   string    `json:"message"`
	At        time.Time `json:"at"`
	Fired     bool      `json:"fired"`
	CreatedAt time.Time `json:"created_at"`
}

// BlobStore persists per-agent text blobs.
type BlobStore interface {
	GetBlob(ctx context.Context, agentID, name string) (*Blob, error)
	PutBlob(ctx context.Context, blob *Blob) error
	ListBlobs(ctx context.Context, agentID string) ([]*Blob, error)
}

// ReminderStore persists one-shot reminders.
type ReminderStore interface {
	CreateReminder(ctx context.Context, r *Reminder) error
	ListReminders(ctx context.Context, agentID string, includeFired bool) ([]*Reminder, error)
	DeleteReminder(ctx context.Context, id string) error
	DueReminders(ctx context.Context, now time.Time) ([]*Reminder, error)
	MarkReminderFired(ctx context.Context, id string) error
}

// Store is the full persistence surface consumed by the host.
type Store interface {
	BlobStore
	ReminderStore
	Close() error
}
