package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"landscout/models"
	"landscout/services"
	"landscout/utils"
)

const marchCSV = `Address,City,State,Price,Acres,Latitude,Longitude,Drive Dist (mi),LLM Score,Property URL Link
Ridge Rd,Bluemont,VA,300000,10,38.9,-77.4,42,95,"=HYPERLINK(""https://example.com/x"",""label"")"
Creek Ln,Hume,VA,0,5,38.8,-77.3,50,80,
Hollow Way,Paris,VA,150000,0,38.7,-77.9,61,70,View
`

func newTestServer(t *testing.T) (*Server, string) {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "march.csv"), []byte(marchCSV), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("x"), 0o644))

	logger := utils.NewNopLogger()
	p := services.NewPipeline(logger,
		services.NewNormalizer(logger, models.DefaultHeaders()),
		services.NewAggregator(logger, services.DefaultTopN, services.FoldZeroArea),
		services.NewDatasetState())
	boot := services.NewBootstrapper(p, &utils.RetryConfig{MaxAttempts: 1, Logger: logger}, logger)

	return New(p, boot, logger, Options{SnapshotDir: dir}), dir
}

func do(t *testing.T, s *Server, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

func TestHealthBeforeLoad(t *testing.T) {
	s, _ := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/health")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	decode(t, rec, &body)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "uninitialized", body["state"])
}

func TestDatasetUnavailableBeforeLoad(t *testing.T) {
	s, _ := newTestServer(t)
	assert.Equal(t, http.StatusServiceUnavailable, do(t, s, http.MethodGet, "/api/dataset").Code)
	assert.Equal(t, http.StatusServiceUnavailable, do(t, s, http.MethodGet, "/api/summary").Code)
}

func TestListSnapshots(t *testing.T) {
	s, _ := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/api/snapshots")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Snapshots []string `json:"snapshots"`
	}
	decode(t, rec, &body)
	assert.Equal(t, []string{"march.csv"}, body.Snapshots)
}

func TestLoadSnapshotAndReadDataset(t *testing.T) {
	s, _ := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/api/snapshots/march.csv/load")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var loaded struct {
		Generation  uint64 `json:"generation"`
		Records     int    `json:"records"`
		RowsDropped int    `json:"rows_dropped"`
	}
	decode(t, rec, &loaded)
	assert.Equal(t, uint64(1), loaded.Generation)
	assert.Equal(t, 2, loaded.Records)
	assert.Equal(t, 1, loaded.RowsDropped)

	rec = do(t, s, http.MethodGet, "/api/dataset")
	require.Equal(t, http.StatusOK, rec.Code)

	var ds struct {
		Generation uint64 `json:"generation"`
		Source     string `json:"source"`
		Records    []struct {
			ID           int      `json:"id"`
			Address      string   `json:"address"`
			URL          string   `json:"url"`
			Type         string   `json:"type"`
			PricePerAcre *float64 `json:"price_per_acre"`
		} `json:"records"`
		Summary struct {
			Count               int     `json:"count"`
			AveragePrice        float64 `json:"average_price"`
			AveragePricePerAcre float64 `json:"average_price_per_acre"`
			Narrative           string  `json:"narrative"`
			Top                 []struct {
				ID int `json:"id"`
			} `json:"top"`
		} `json:"summary"`
	}
	decode(t, rec, &ds)

	assert.Equal(t, "march.csv", ds.Source)
	require.Len(t, ds.Records, 2)
	assert.Equal(t, 0, ds.Records[0].ID)
	assert.Equal(t, "Ridge Rd, Bluemont, VA", ds.Records[0].Address)
	assert.Equal(t, "https://example.com/x", ds.Records[0].URL)
	assert.Equal(t, "Land", ds.Records[0].Type)
	require.NotNil(t, ds.Records[0].PricePerAcre)
	assert.Equal(t, 30000.0, *ds.Records[0].PricePerAcre)

	assert.Equal(t, 2, ds.Records[1].ID)
	assert.Equal(t, "#", ds.Records[1].URL)
	assert.Nil(t, ds.Records[1].PricePerAcre)

	assert.Equal(t, 2, ds.Summary.Count)
	assert.InDelta(t, 225000.0, ds.Summary.AveragePrice, 1e-9)
	assert.InDelta(t, 15000.0, ds.Summary.AveragePricePerAcre, 1e-9)
	assert.Contains(t, ds.Summary.Narrative, "Ridge Rd, Bluemont, VA scores 95/100")
	require.Len(t, ds.Summary.Top, 2)
	assert.Equal(t, 0, ds.Summary.Top[0].ID)

	rec = do(t, s, http.MethodGet, "/health")
	var health map[string]any
	decode(t, rec, &health)
	assert.Equal(t, "ready", health["state"])
	assert.Equal(t, 1.0, health["generation"])
}

func TestLoadUnknownSnapshot(t *testing.T) {
	s, _ := newTestServer(t)
	assert.Equal(t, http.StatusNotFound, do(t, s, http.MethodPost, "/api/snapshots/april.csv/load").Code)
	assert.Equal(t, http.StatusNotFound, do(t, s, http.MethodPost, "/api/snapshots/readme.txt/load").Code)
	assert.Equal(t, http.StatusNotFound, do(t, s, http.MethodPost, "/api/snapshots/..%2Fetc%2Fpasswd/load").Code)
}

func TestLoadBrokenSnapshotKeepsDataset(t *testing.T) {
	s, dir := newTestServer(t)
	require.Equal(t, http.StatusOK, do(t, s, http.MethodPost, "/api/snapshots/march.csv/load").Code)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.xlsx"), []byte("not a zip"), 0o644))
	assert.Equal(t, http.StatusBadGateway, do(t, s, http.MethodPost, "/api/snapshots/broken.xlsx/load").Code)

	rec := do(t, s, http.MethodGet, "/api/summary")
	require.Equal(t, http.StatusOK, rec.Code)
	var summary struct {
		Count int `json:"count"`
	}
	decode(t, rec, &summary)
	assert.Equal(t, 2, summary.Count)
}

func TestCORSPreflight(t *testing.T) {
	s, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/dataset", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestDatasetCSV(t *testing.T) {
	s, _ := newTestServer(t)
	assert.Equal(t, http.StatusServiceUnavailable, do(t, s, http.MethodGet, "/api/dataset.csv").Code)

	require.Equal(t, http.StatusOK, do(t, s, http.MethodPost, "/api/snapshots/march.csv/load").Code)
	rec := do(t, s, http.MethodGet, "/api/dataset.csv")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), `filename="march-records.csv"`)

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "id,address,price,acres,score,latitude,longitude,drive_miles,url,type", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], `0,"Ridge Rd, Bluemont, VA",300000,10,95,`))
	assert.True(t, strings.HasPrefix(lines[2], `2,"Hollow Way, Paris, VA",150000,0,70,`))
}

func TestExportName(t *testing.T) {
	assert.Equal(t, "march-records.csv", exportName("march.csv"))
	assert.Equal(t, "postgres:listings-records.csv", exportName("postgres:listings"))
	assert.Equal(t, "dataset-records.csv", exportName(""))
}
