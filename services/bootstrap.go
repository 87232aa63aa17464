package services

import (
	"context"
	"errors"
	"sync"

	"landscout/models"
	"landscout/storage"
	"landscout/utils"
)

// BootState is the initialization state of the dashboard backend.
type BootState int

const (
	StateUninitialized BootState = iota
	StateReady
	StateFailed
)

func (s BootState) String() string {
	switch s {
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "uninitialized"
	}
}

// Bootstrapper performs the initial load with bounded retries and records the
// outcome as uninitialized → ready | failed.
type Bootstrapper struct {
	pipeline *Pipeline
	retry    *utils.RetryConfig
	logger   *utils.Logger

	mu      sync.RWMutex
	state   BootState
	lastErr error
}

// NewBootstrapper creates a Bootstrapper in the uninitialized state.
// Superseded and cancelled loads are never retried.
func NewBootstrapper(p *Pipeline, retry *utils.RetryConfig, logger *utils.Logger) *Bootstrapper {
	r := *retry
	r.Retryable = retryableLoadError
	return &Bootstrapper{pipeline: p, retry: &r, logger: logger}
}

func retryableLoadError(err error) bool {
	return !errors.Is(err, ErrStaleLoad) &&
		!errors.Is(err, context.Canceled) &&
		!errors.Is(err, context.DeadlineExceeded)
}

// Run loads src, retrying source failures up to the configured attempt count.
// It may be called again after a failure; a later successful load (from Run or
// MarkReady) moves the state to ready.
func (b *Bootstrapper) Run(ctx context.Context, src storage.RowSource) (*models.Snapshot, error) {
	var snap *models.Snapshot
	err := b.retry.Do(ctx, "initial load", func(ctx context.Context) error {
		s, err := b.pipeline.Load(ctx, src)
		if err != nil {
			return err
		}
		snap = s
		return nil
	})

	b.mu.Lock()
	defer b.mu.Unlock()
	if errors.Is(err, ErrStaleLoad) {
		// A newer load owns the dataset and reports its own outcome.
		b.logger.Info("[bootstrap] Initial load superseded by a newer load")
		return nil, err
	}
	if err != nil {
		b.state = StateFailed
		b.lastErr = err
		b.logger.Error("[bootstrap] Initial load failed: %v", err)
		return nil, err
	}
	b.state = StateReady
	b.lastErr = nil
	b.logger.Info("[bootstrap] Ready with %d records", len(snap.Records))
	return snap, nil
}

// MarkReady records that a dataset became available outside Run, for example
// through a user-triggered snapshot load after a failed start.
func (b *Bootstrapper) MarkReady() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state = StateReady
	b.lastErr = nil
}

// State returns the current boot state and the error that caused a failure.
func (b *Bootstrapper) State() (BootState, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.state, b.lastErr
}
