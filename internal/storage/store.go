package storage

import (
	"context"

	"xcskit/internal/report"
)

// Store persists training run reports. Population state is never stored;
// runs are reproducible from their seed.
type Store interface {
	Init(ctx context.Context) error
	SaveRun(ctx context.Context, run report.Run) error
	GetRun(ctx context.Context, runID string) (report.Run, bool, error)
	ListRuns(ctx context.Context) ([]string, error)
	SaveRewardHistory(ctx context.Context, runID string, history []float64) error
	GetRewardHistory(ctx context.Context, runID string) ([]float64, bool, error)
}
