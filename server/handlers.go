package server

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"landscout/models"
	"landscout/services"
	"landscout/storage"
)

type recordView struct {
	models.PropertyRecord
	PricePerAcre models.UnitPrice `json:"price_per_acre"`
}

type datasetView struct {
	Generation  uint64                `json:"generation"`
	LoadID      uuid.UUID             `json:"load_id"`
	Source      string                `json:"source"`
	LoadedAt    time.Time             `json:"loaded_at"`
	RowsRead    int                   `json:"rows_read"`
	RowsDropped int                   `json:"rows_dropped"`
	Records     []recordView          `json:"records"`
	Summary     models.DerivedSummary `json:"summary"`
}

func newDatasetView(snap *models.Snapshot) datasetView {
	records := make([]recordView, len(snap.Records))
	for i, r := range snap.Records {
		records[i] = recordView{PropertyRecord: r, PricePerAcre: services.PricePerAcre(r)}
	}
	return datasetView{
		Generation:  snap.Generation,
		LoadID:      snap.LoadID,
		Source:      snap.Source,
		LoadedAt:    snap.LoadedAt,
		RowsRead:    snap.RowsRead,
		RowsDropped: snap.RowsDropped,
		Records:     records,
		Summary:     snap.Summary,
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	state, err := s.boot.State()
	body := map[string]any{
		"status":     "ok",
		"state":      state.String(),
		"generation": s.pipeline.State().Generation(),
	}
	if err != nil {
		body["error"] = err.Error()
	}
	writeJSON(w, http.StatusOK, body)
}

func (s *Server) handleDataset(w http.ResponseWriter, r *http.Request) {
	snap := s.pipeline.State().Current()
	if snap == nil {
		writeError(w, http.StatusServiceUnavailable, "no dataset loaded")
		return
	}
	writeJSON(w, http.StatusOK, newDatasetView(snap))
}

func (s *Server) handleDatasetCSV(w http.ResponseWriter, r *http.Request) {
	snap := s.pipeline.State().Current()
	if snap == nil {
		writeError(w, http.StatusServiceUnavailable, "no dataset loaded")
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exportName(snap.Source)))
	rw, err := storage.NewRecordWriter(w)
	if err == nil {
		err = rw.Write(snap.Records)
	}
	if err != nil {
		s.logger.Error("[server] Export generation %d: %v", snap.Generation, err)
	}
}

func exportName(source string) string {
	base := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	if base == "" || base == "." {
		base = "dataset"
	}
	return base + "-records.csv"
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	snap := s.pipeline.State().Current()
	if snap == nil {
		writeError(w, http.StatusServiceUnavailable, "no dataset loaded")
		return
	}
	writeJSON(w, http.StatusOK, snap.Summary)
}

func (s *Server) handleListSnapshots(w http.ResponseWriter, r *http.Request) {
	names, err := storage.ListSnapshots(s.opts.SnapshotDir)
	if err != nil {
		s.logger.Error("[server] List snapshots: %v", err)
		writeError(w, http.StatusInternalServerError, "cannot list snapshots")
		return
	}
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"snapshots": names})
}

func (s *Server) handleLoadSnapshot(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	// Only names listed in the snapshot dir are loadable.
	names, err := storage.ListSnapshots(s.opts.SnapshotDir)
	if err != nil {
		s.logger.Error("[server] List snapshots: %v", err)
		writeError(w, http.StatusInternalServerError, "cannot list snapshots")
		return
	}
	if !slices.Contains(names, name) {
		writeError(w, http.StatusNotFound, "unknown snapshot")
		return
	}

	src, err := storage.OpenFile(filepath.Join(s.opts.SnapshotDir, name), s.opts.SheetName, s.logger)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	snap, err := s.pipeline.Load(r.Context(), src)
	switch {
	case errors.Is(err, services.ErrStaleLoad):
		writeError(w, http.StatusConflict, err.Error())
		return
	case err != nil:
		s.logger.Error("[server] Load %s: %v", name, err)
		writeError(w, http.StatusBadGateway, "failed to load snapshot")
		return
	}

	s.boot.MarkReady()
	writeJSON(w, http.StatusOK, map[string]any{
		"generation":   snap.Generation,
		"load_id":      snap.LoadID,
		"source":       snap.Source,
		"records":      len(snap.Records),
		"rows_dropped": snap.RowsDropped,
	})
}
