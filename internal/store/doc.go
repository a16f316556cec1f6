// Package store provides SQLite-backed persistence for the host.
//
// Two collections are persisted: per-agent text blobs (the persona, memory,
// and config documents edited by the agent tools) and one-shot reminders
// consumed by the scheduler. The Store interface lets providers depend on
// the narrow slice they need; SQLiteStore is the production implementation.
package store
