package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/eafipg/eafipg/internal/ir"
)

// ErrNotFound is returned when the requested hash is not in the store.
var ErrNotFound = errors.New("not found")

// GraphInfo is one row of a graph listing.
type GraphInfo struct {
	Hash      string `json:"hash"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
}

// PutGraph stores a graph under its content hash and returns the hash.
// Storing the same graph twice is a no-op (ON CONFLICT DO NOTHING), so
// puts are idempotent; the name of the first put wins.
func (s *Store) PutGraph(ctx context.Context, name string, g *ir.Graph) (string, error) {
	hash, err := ir.GraphHash(g)
	if err != nil {
		return "", fmt.Errorf("put graph: %w", err)
	}
	body, err := ir.EncodeGraph(g)
	if err != nil {
		return "", fmt.Errorf("put graph: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO graphs (hash, name, body)
		VALUES (?, ?, ?)
		ON CONFLICT(hash) DO NOTHING
	`, hash, name, body)
	if err != nil {
		return "", fmt.Errorf("put graph: %w", err)
	}

	return hash, nil
}

// GetGraph loads the graph stored under the given content hash.
func (s *Store) GetGraph(ctx context.Context, hash string) (*ir.Graph, error) {
	var body []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT body FROM graphs WHERE hash = ?`, hash,
	).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get graph %s: %w", hash, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get graph %s: %w", hash, err)
	}

	g, err := ir.DecodeGraph(body)
	if err != nil {
		return nil, fmt.Errorf("get graph %s: %w", hash, err)
	}
	return g, nil
}

// ListGraphs returns all stored graphs, newest first.
func (s *Store) ListGraphs(ctx context.Context) ([]GraphInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT hash, name, created_at
		FROM graphs
		ORDER BY created_at DESC, hash
	`)
	if err != nil {
		return nil, fmt.Errorf("list graphs: %w", err)
	}
	defer rows.Close()

	var infos []GraphInfo
	for rows.Next() {
		var info GraphInfo
		if err := rows.Scan(&info.Hash, &info.Name, &info.CreatedAt); err != nil {
			return nil, fmt.Errorf("list graphs: %w", err)
		}
		infos = append(infos, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list graphs: %w", err)
	}
	return infos, nil
}
