// Package store defines persistence for refined token statistics and batch
// run records, so dictionary tuning can be audited across runs.
package store

import (
	"context"
	"time"
)

// Store persists refined token statistics and run records.
type Store interface {
	Close() error

	// Token statistics
	UpsertTokenStat(ctx context.Context, s TokenStat) error
	GetTokenStat(ctx context.Context, token string) (TokenStat, bool, error)
	AllTokenStats(ctx context.Context) ([]TokenStat, error)

	// Batch runs
	RecordRun(ctx context.Context, r Run) error
	RecentRuns(ctx context.Context, limit int) ([]Run, error)
}

// TokenStat is one refined token row: how often the token co-occurred with
// each prediction label.
type TokenStat struct {
	Token     string
	TrueFreq  int64
	FalseFreq int64
}

// Run records one batch invocation.
type Run struct {
	ID        string // ULID
	Mode      string
	Records   int64
	Tokens    int64
	StartedAt time.Time
}
