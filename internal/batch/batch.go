// Package batch drives a Monte Carlo run: sample the inputs, then for each
// row apply it to the model, analyze, extract and append, checkpointing the
// result table as it grows.
package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/alexiusacademia/etabsmc/internal/analysis"
	"github.com/alexiusacademia/etabsmc/internal/ctxlog"
	"github.com/alexiusacademia/etabsmc/internal/params"
	"github.com/alexiusacademia/etabsmc/internal/results"
	"github.com/alexiusacademia/etabsmc/internal/sampler"
	"github.com/alexiusacademia/etabsmc/internal/session"
)

// ErrCheckpoint wraps a failure to persist the result table.
var ErrCheckpoint = errors.New("checkpoint failed")

// Sink persists a full snapshot of the result table, replacing the last one.
type Sink interface {
	Write(t *results.Table) error
}

// Option customizes an Orchestrator.
type Option func(*Orchestrator)

// WithObserver registers fn to be called after every row is appended.
func WithObserver(fn func(row results.Row, total int)) Option {
	return func(o *Orchestrator) { o.observer = fn }
}

// WithRunID overrides the generated run identifier.
func WithRunID(id string) Option {
	return func(o *Orchestrator) { o.runID = id }
}

// WithClock overrides time.Now for run metadata.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

// WithVersion records the tool version in the run metadata.
func WithVersion(v string) Option {
	return func(o *Orchestrator) { o.version = v }
}

// Orchestrator owns one batch: its session, its sample table and its result
// table. It is single use and not safe for concurrent use.
type Orchestrator struct {
	cfg     Config
	factory session.Factory
	sink    Sink

	observer func(results.Row, int)
	runID    string
	version  string
	now      func() time.Time

	state State
	table *results.Table
	saved int
}

// New validates cfg and returns an idle Orchestrator.
func New(cfg Config, factory session.Factory, sink Sink, opts ...Option) (*Orchestrator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if factory == nil {
		return nil, errors.New("batch: application factory is required")
	}
	if sink == nil {
		return nil, errors.New("batch: result sink is required")
	}
	o := &Orchestrator{
		cfg:     cfg,
		factory: factory,
		sink:    sink,
		now:     time.Now,
		state:   Idle,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.runID == "" {
		o.runID = uuid.NewString()
	}
	return o, nil
}

// State returns the current lifecycle stage.
func (o *Orchestrator) State() State {
	return o.state
}

// RunID returns the identifier recorded in the run metadata.
func (o *Orchestrator) RunID() string {
	return o.runID
}

// Table returns the result table, or nil before the model is loaded.
func (o *Orchestrator) Table() *results.Table {
	return o.table
}

// Run executes the batch. Fatal errors (invalid spec, connection, model
// open) abort before the loop; per-row failures are recorded on the row and
// the loop continues. The session is closed on every return path. When ctx
// is cancelled the loop stops between rows, the rows done so far are
// persisted, and the context error is returned.
func (o *Orchestrator) Run(ctx context.Context) (*results.Table, error) {
	if o.state != Idle {
		return nil, fmt.Errorf("batch: cannot run from state %s", o.state)
	}
	logger := ctxlog.FromContext(ctx).With("run_id", o.runID)
	ctx = ctxlog.WithLogger(ctx, logger)

	samples, err := sampler.Generate(o.cfg.Variables, o.cfg.Samples, o.cfg.Seed)
	if err != nil {
		return nil, o.abort(logger, err)
	}
	logger.Info("Samples generated.", "count", samples.Len(), "seed", o.cfg.Seed, "variables", samples.Columns)

	sess, err := session.Connect(ctx, o.factory, o.cfg.Connection)
	if err != nil {
		return nil, o.abort(logger, err)
	}
	defer func() {
		if err := sess.Close(o.cfg.TerminateOnClose); err != nil {
			logger.Warn("Closing the analysis session failed.", "error", err)
		}
	}()
	o.transition(logger, Connected)

	if err := sess.OpenModel(o.cfg.ModelPath); err != nil {
		return nil, o.abort(logger, err)
	}
	o.transition(logger, ModelLoaded)

	o.table = results.NewTable(results.Meta{
		RunID:       o.runID,
		ModelPath:   o.cfg.ModelPath,
		Seed:        o.cfg.Seed,
		Samples:     samples.Len(),
		Version:     o.version,
		GeneratedAt: o.now(),
	}, samples.Columns)
	o.transition(logger, Running)

	eng := sess.Model()
	applicator := params.New(o.cfg.Params)
	total := samples.Len()

	for i, row := range samples.Rows {
		if err := ctx.Err(); err != nil {
			logger.Warn("Batch interrupted.", "completed", i, "of", total)
			if cerr := o.checkpoint(logger); cerr != nil {
				err = errors.Join(err, cerr)
			}
			return o.table, o.abort(logger, fmt.Errorf("interrupted after %d of %d samples: %w", i, total, err))
		}

		r := o.runSample(logger, eng, applicator, i, row)
		o.table.Append(r)
		if o.observer != nil {
			o.observer(r, total)
		}

		if (i+1)%o.cfg.CheckpointInterval == 0 {
			// A failed intermediate snapshot is retried at the next checkpoint.
			_ = o.checkpoint(logger)
		}
	}

	var finalErr error
	if o.saved != o.table.Len() || o.table.Len() == 0 {
		finalErr = o.checkpoint(logger)
	}
	o.transition(logger, Completed)
	logger.Info("Batch completed.", "samples", o.table.Len(), "failures", o.table.Failures())
	return o.table, finalErr
}

func (o *Orchestrator) runSample(logger *slog.Logger, eng session.Engine, applicator *params.Applicator, i int, row sampler.Row) results.Row {
	r := results.Row{Index: i, Inputs: row}
	log := logger.With("sample", i+1)

	if err := applicator.Apply(eng, i, row); err != nil {
		log.Warn("Applying parameters failed.", "error", err)
		r.Err = err.Error()
		return r
	}
	if err := analysis.Run(eng); err != nil {
		log.Warn("Analysis failed.", "error", err)
		r.Err = err.Error()
		return r
	}

	metrics, err := analysis.Extract(eng)
	r.Metrics = metrics
	if err != nil {
		log.Warn("Some results are unavailable.", "error", err)
		r.Err = err.Error()
	}
	log.Info("Sample completed.", "metrics", len(metrics))
	return r
}

func (o *Orchestrator) checkpoint(logger *slog.Logger) error {
	if o.table == nil {
		return nil
	}
	if err := o.sink.Write(o.table); err != nil {
		logger.Error("Writing checkpoint failed.", "rows", o.table.Len(), "error", err)
		return fmt.Errorf("%w: %w", ErrCheckpoint, err)
	}
	o.saved = o.table.Len()
	attrs := []any{"rows", o.saved}
	if p, ok := o.sink.(interface{ Path() string }); ok {
		attrs = append(attrs, "path", p.Path())
	}
	logger.Info("Checkpoint written.", attrs...)
	return nil
}

func (o *Orchestrator) transition(logger *slog.Logger, to State) {
	if !canTransition(o.state, to) {
		panic(fmt.Sprintf("batch: illegal transition %s -> %s", o.state, to))
	}
	logger.Debug("Batch state changed.", "from", o.state, "to", to)
	o.state = to
}

func (o *Orchestrator) abort(logger *slog.Logger, err error) error {
	if !o.state.Terminal() {
		o.transition(logger, Aborted)
	}
	logger.Error("Batch aborted.", "error", err)
	return err
}
