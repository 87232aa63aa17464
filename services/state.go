package services

import (
	"errors"
	"sync"

	"landscout/models"
)

// ErrStaleLoad is returned when a load finishes after a newer one was started.
var ErrStaleLoad = errors.New("load superseded by a newer load")

// DatasetState owns the single current snapshot shared by the API and
// renderers. Snapshots are swapped whole; readers never see a mix of two loads.
type DatasetState struct {
	mu        sync.RWMutex
	issued    uint64
	committed uint64
	inFlight  map[uint64]struct{}
	current   *models.Snapshot
}

// NewDatasetState returns an empty state with no snapshot.
func NewDatasetState() *DatasetState {
	return &DatasetState{inFlight: make(map[uint64]struct{})}
}

// Begin issues the generation number for a new load. Generations increase
// monotonically. The generation stays in flight until it is committed,
// rejected or abandoned.
func (s *DatasetState) Begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued++
	s.inFlight[s.issued] = struct{}{}
	return s.issued
}

// Commit installs snap as the current dataset when no newer generation has
// been committed and no newer load is still in flight. A superseded snapshot
// is discarded and Commit returns false.
func (s *DatasetState) Commit(snap *models.Snapshot) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if snap == nil {
		return false
	}
	gen := snap.Generation
	if _, ok := s.inFlight[gen]; !ok || gen <= s.committed {
		return false
	}
	delete(s.inFlight, gen)

	for g := range s.inFlight {
		if g > gen {
			return false
		}
	}
	s.current = snap
	s.committed = gen
	return true
}

// Abandon withdraws an in-flight generation whose load failed, so it no
// longer blocks older loads from committing.
func (s *DatasetState) Abandon(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, gen)
}

// Current returns the committed snapshot, or nil before the first commit.
func (s *DatasetState) Current() *models.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Generation returns the generation of the committed snapshot (0 when none).
func (s *DatasetState) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.committed
}
