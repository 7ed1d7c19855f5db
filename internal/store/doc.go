// Package store persists graphs and run snapshots in SQLite.
//
// The store is a narrow put/get collaborator: graphs and snapshots are
// content-addressed blobs of canonical JSON, keyed by their domain hash.
// No validator, lowering, or engine state lives here.
package store
