// ABOUTME: SQLite persistence for per-agent text blobs (persona, memory, config).
// ABOUTME: Blobs are upserted whole; line-level edits happen in the provider.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// GetBlob fetches one blob. Returns ErrNotFound when it does not exist.
func (s *SQLiteStore) GetBlob(ctx context.Context, agentID, name string) (*Blob, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT agent_id, name, content, updated_at
		FROM blobs WHERE agent_id = ? AND name = ?
	`, agentID, name)

	var b Blob
	var updatedAt string
	if err := row.Scan(&b.AgentID, &b.Name, &b.Content, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: blob %s", ErrNotFound, name)
		}
		return nil, err
	}
	t, err := time.Parse(time.RFC3339, updatedAt)
	if err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	b.UpdatedAt = t
	return &b, nil
}

// PutBlob upserts a blob, stamping UpdatedAt.
func (s *SQLiteStore) PutBlob(ctx context.Context, blob *Blob) error {
	blob.UpdatedAt = time.Now().UTC()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO blobs (agent_id, name, content, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(agent_id, name) DO UPDATE SET
			content = excluded.content,
			updated_at = excluded.updated_at
	`, blob.AgentID, blob.Name, blob.Content, blob.UpdatedAt.Format(time.RFC3339))
	return err
}

// ListBlobs returns all blobs for an agent, ordered by name.
func (s *SQLiteStore) ListBlobs(ctx context.Context, agentID string) ([]*Blob, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT agent_id, name, content, updated_at
		FROM blobs WHERE agent_id = ? ORDER BY name
	`, agentID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var blobs []*Blob
	for rows.Next() {
		var b Blob
		var updatedAt string
		if err := rows.Scan(&b.AgentID, &b.Name, &b.Content, &updatedAt); err != nil {
			return nil, err
		}
		t, err := time.Parse(time.RFC3339, updatedAt)
		if err != nil {
			return nil, fmt.Errorf("parsing updated_at: %w", err)
		}
		b.UpdatedAt = t
		blobs = append(blobs, &b)
	}
	return blobs, rows.Err()
}
