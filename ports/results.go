package ports

import (
	"context"
	"time"

	"hamlet/domain/core"
)

// BinScore is one spatial bin's evaluation output.
type BinScore struct {
	Cell           core.CellID
	LogLikelihood  float64
	HasLogLike     bool
	MaxMagExceeded bool
	HasMaxMagCheck bool
}

// RunRecord summarizes one completed evaluation run.
type RunRecord struct {
	RunID     core.RunID
	Method    string
	StartedAt time.Time
	NumBins   int
	Scores    []BinScore
}

// ResultSink persists evaluation results. Persistence is optional output,
// never run state; a failed sink halts the run with the triggering error.
type ResultSink interface {
	SaveRun(ctx context.Context, rec RunRecord) error
}
