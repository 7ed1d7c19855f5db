package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/eafipg/eafipg/internal/engine"
	"github.com/eafipg/eafipg/internal/ir"
)

// SnapshotInfo is one row of a snapshot listing.
type SnapshotInfo struct {
	Hash      string `json:"hash"`
	RunID     string `json:"run_id"`
	GraphHash string `json:"graph_hash"`
	CreatedAt string `json:"created_at"`
}

// PutSnapshot stores a run snapshot as canonical JSON under its content
// hash. A run id can only ever produce one snapshot; re-storing the same
// snapshot is a no-op.
func (s *Store) PutSnapshot(ctx context.Context, snap *engine.Snapshot) (string, error) {
	body, err := ir.MarshalCanonical(snap.ToValue())
	if err != nil {
		return "", fmt.Errorf("put snapshot: %w", err)
	}
	hash, err := snap.Hash()
	if err != nil {
		return "", fmt.Errorf("put snapshot: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO snapshots (hash, run_id, graph_hash, body)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(hash) DO NOTHING
	`, hash, snap.RunID, snap.GraphHash, body)
	if err != nil {
		return "", fmt.Errorf("put snapshot: %w", err)
	}

	return hash, nil
}

// GetSnapshot returns the canonical JSON body of a stored snapshot.
// Snapshots are read back as documents, not rehydrated runtimes.
func (s *Store) GetSnapshot(ctx context.Context, hash string) ([]byte, error) {
	var body []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT body FROM snapshots WHERE hash = ?`, hash,
	).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get snapshot %s: %w", hash, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get snapshot %s: %w", hash, err)
	}
	return body, nil
}

// ListSnapshots returns snapshots, newest first, optionally filtered to
// one source graph. An empty graphHash lists everything.
func (s *Store) ListSnapshots(ctx context.Context, graphHash string) ([]SnapshotInfo, error) {
	query := `
		SELECT hash, run_id, graph_hash, created_at
		FROM snapshots
	`
	var args []any
	if graphHash != "" {
		query += ` WHERE graph_hash = ?`
		args = append(args, graphHash)
	}
	query += ` ORDER BY created_at DESC, hash`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	var infos []SnapshotInfo
	for rows.Next() {
		var info SnapshotInfo
		if err := rows.Scan(&info.Hash, &info.RunID, &info.GraphHash, &info.CreatedAt); err != nil {
			return nil, fmt.Errorf("list snapshots: %w", err)
		}
		infos = append(infos, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	return infos, nil
}
