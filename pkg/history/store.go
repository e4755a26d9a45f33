// Package history persists a record of every race outcome so dashboards
// and experiments can be built on top of the orchestrator without hooking
// into the request path.
package history

import (
	"context"
	"time"
)

// Run is one persisted race outcome.
type Run struct {
	ID        string    `json:"id"`
	TaskKind  string    `json:"task_kind"`
	Provider  string    `json:"provider,omitempty"`
	Model     string    `json:"model,omitempty"`
	Reason    string    `json:"routing_reason"`
	Success   bool      `json:"success"`
	ErrorKind string    `json:"error_kind,omitempty"`
	TokensIn  int       `json:"tokens_in"`
	TokensOut int       `json:"tokens_out"`
	Duration  int64     `json:"duration_ms"`
	CreatedAt time.Time `json:"created_at"`
}

// Store is the persistence backend for run records.
type Store interface {
	// Insert persists one run.
	Insert(ctx context.Context, run Run) error

	// Recent returns up to limit runs, newest first.
	Recent(ctx context.Context, limit int) ([]Run, error)

	// Prune deletes runs older than cutoff and trims the table down to
	// maxRecords, returning how many rows were deleted.
	Prune(ctx context.Context, cutoff time.Time, maxRecords int64) (int64, error)

	// Close releases the backend.
	Close() error
}
