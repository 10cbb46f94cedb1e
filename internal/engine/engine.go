// Package engine orchestrates the evaluation tests over a bin collection.
package engine

import (
	"context"
	"fmt"
	"time"

	"hamlet/domain/core"
	"hamlet/internal"
	"hamlet/internal/bins"
	"hamlet/internal/config"
	"hamlet/internal/errors"
	"hamlet/ports"
)

// State tracks the engine's lifecycle. Transitions only move forward:
// Configured -> BinsLoaded -> Scored -> Reported.
type State int

const (
	StateConfigured State = iota
	StateBinsLoaded
	StateScored
	StateReported
)

func (s State) String() string {
	switch s {
	case StateConfigured:
		return "CONFIGURED"
	case StateBinsLoaded:
		return "BINS_LOADED"
	case StateScored:
		return "SCORED"
	case StateReported:
		return "REPORTED"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Engine runs the configured tests against a bin collection and attaches
// per-bin scores back onto it. A single engine handles a single run.
type Engine struct {
	cfg  *config.Config
	rngf ports.RNG
	log  *internal.Logger

	runID     core.RunID
	startedAt time.Time
	state     State
	col       *bins.Collection
	mfdComp   *MFDComparison
}

// New creates an engine for one run.
func New(cfg *config.Config, rngf ports.RNG, log *internal.Logger) *Engine {
	if log == nil {
		log = internal.DefaultLogger
	}
	return &Engine{
		cfg:   cfg,
		rngf:  rngf,
		log:   log,
		runID: core.NewRunID(),
		state: StateConfigured,
	}
}

// RunID returns the run identifier.
func (e *Engine) RunID() core.RunID {
	return e.runID
}

// State returns the current lifecycle state.
func (e *Engine) State() State {
	return e.state
}

// Collection returns the bin collection with any attached score columns.
func (e *Engine) Collection() *bins.Collection {
	return e.col
}

// MFDComparison returns the aggregate model-vs-observed MFD table, or nil
// if the model_mfd test did not run.
func (e *Engine) MFDComparison() *MFDComparison {
	return e.mfdComp
}

// LoadBins attaches the pre-assembled bin collection.
func (e *Engine) LoadBins(col *bins.Collection) error {
	if e.state != StateConfigured {
		return errors.InternalError("bins can only be loaded from the CONFIGURED state, engine is " + e.state.String())
	}
	if col == nil || col.Len() == 0 {
		return errors.InvalidInput("bin collection is empty")
	}
	e.col = col
	e.state = StateBinsLoaded
	e.log.Info("loaded %d spatial bins", col.Len())
	return nil
}

// Score runs the configured tests in order. Any test failure halts the run
// with the triggering error; there is no partial or resumable state.
func (e *Engine) Score(ctx context.Context) error {
	if e.state != StateBinsLoaded {
		return errors.InternalError("scoring requires the BINS_LOADED state, engine is " + e.state.String())
	}
	e.startedAt = time.Now()

	for _, name := range e.cfg.Tests.Order {
		t0 := time.Now()
		var err error
		switch name {
		case config.TestLikelihood:
			err = e.runLikelihoodTest(ctx)
		case config.TestMaxMagCheck:
			err = e.runMaxMagCheck()
		case config.TestModelMFD:
			err = e.runModelMFDComparison()
		default:
			err = errors.InvalidInput("unknown test: " + name)
		}
		if err != nil {
			return errors.Wrapf(err, "test %q failed", name)
		}
		e.log.Info("test %q done in %.2f s", name, time.Since(t0).Seconds())
	}

	e.state = StateScored
	return nil
}

// MarkReported closes the run after outputs and reports are written.
func (e *Engine) MarkReported() error {
	if e.state != StateScored {
		return errors.InternalError("reporting requires the SCORED state, engine is " + e.state.String())
	}
	e.state = StateReported
	e.log.Info("run %s done in %.2f s", e.runID, time.Since(e.startedAt).Seconds())
	return nil
}

// RunRecord assembles the persistable summary of a scored run.
func (e *Engine) RunRecord() ports.RunRecord {
	rec := ports.RunRecord{
		RunID:     e.runID,
		Method:    e.cfg.Tests.Likelihood.Method,
		StartedAt: e.startedAt,
		NumBins:   e.col.Len(),
	}
	e.col.Each(func(cell core.CellID, row *bins.Row) {
		rec.Scores = append(rec.Scores, ports.BinScore{
			Cell:           cell,
			LogLikelihood:  row.LogLike,
			HasLogLike:     row.HasLogLike,
			MaxMagExceeded: row.MaxMagExceeded,
			HasMaxMagCheck: row.HasMaxMagCheck,
		})
	})
	return rec
}
