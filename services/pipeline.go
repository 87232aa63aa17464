package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"

	"landscout/models"
	"landscout/storage"
	"landscout/utils"
)

// Pipeline runs one load: read rows from a source, normalize, aggregate and
// commit the resulting snapshot to the dataset state.
type Pipeline struct {
	logger     *utils.Logger
	normalizer *Normalizer
	aggregator *Aggregator
	state      *DatasetState

	// pass serializes normalize+aggregate+commit so two passes never interleave.
	pass sync.Mutex
}

// NewPipeline wires a Pipeline around its collaborators.
func NewPipeline(logger *utils.Logger, n *Normalizer, a *Aggregator, state *DatasetState) *Pipeline {
	return &Pipeline{logger: logger, normalizer: n, aggregator: a, state: state}
}

// State returns the dataset state the pipeline commits to.
func (p *Pipeline) State() *DatasetState {
	return p.state
}

// Aggregator returns the aggregator used for every load.
func (p *Pipeline) Aggregator() *Aggregator {
	return p.aggregator
}

// Load reads src and replaces the current dataset with the result. A source
// failure leaves the current dataset untouched and lets older loads still in
// flight commit. If a newer load is still running or has already committed,
// the result is discarded and ErrStaleLoad is returned.
func (p *Pipeline) Load(ctx context.Context, src storage.RowSource) (*models.Snapshot, error) {
	gen := p.state.Begin()
	start := time.Now()
	p.logger.Info("[pipeline] Load #%d from %s", gen, src.Name())

	rows, err := src.ReadRows(ctx)
	if err != nil {
		p.state.Abandon(gen)
		return nil, eris.Wrapf(err, "pipeline: read %s", src.Name())
	}
	if err := ctx.Err(); err != nil {
		p.state.Abandon(gen)
		return nil, eris.Wrapf(err, "pipeline: load #%d cancelled", gen)
	}

	p.pass.Lock()
	defer p.pass.Unlock()

	records := p.normalizer.NormalizeAll(rows)
	snap := &models.Snapshot{
		Generation:  gen,
		LoadID:      uuid.New(),
		Source:      src.Name(),
		LoadedAt:    time.Now().UTC(),
		RowsRead:    len(rows),
		RowsDropped: len(rows) - len(records),
		Records:     records,
		Summary:     p.aggregator.Summarize(records),
	}

	if !p.state.Commit(snap) {
		p.logger.Warn("[pipeline] Load #%d from %s superseded, discarding result", gen, src.Name())
		return nil, ErrStaleLoad
	}

	p.logger.Info("[pipeline] Load #%d committed: %d rows → %d records in %v",
		gen, snap.RowsRead, len(records), time.Since(start).Round(time.Millisecond))
	return snap, nil
}
