package models

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// Placeholders used when a source column is absent or unusable.
const (
	AddressPlaceholder = "Address unavailable"
	URLPlaceholder     = "#"
	TypePlaceholder    = "Land"
)

// PropertyRecord is one validated land listing. Records are built once per
// load and never mutated afterwards.
type PropertyRecord struct {
	ID         int     `json:"id"`
	Address    string  `json:"address"`
	Price      float64 `json:"price"`
	Acres      float64 `json:"acres"`
	Score      int     `json:"score"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	DriveMiles int     `json:"drive_miles"`
	URL        string  `json:"url"`
	Type       string  `json:"type"`
}

// Retained reports whether the record satisfies the retention rule:
// a positive price and finite coordinates.
func (p PropertyRecord) Retained() bool {
	return p.Price > 0 && isFinite(p.Latitude) && isFinite(p.Longitude)
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// DerivedSummary holds the statistics and rankings computed over a full
// record collection.
type DerivedSummary struct {
	Count               int              `json:"count"`
	AveragePrice        float64          `json:"average_price"`
	AveragePricePerAcre float64          `json:"average_price_per_acre"`
	Ranked              []PropertyRecord `json:"ranked"`
	Top                 []PropertyRecord `json:"top"`
	Narrative           string           `json:"narrative,omitempty"`
	HasNarrative        bool             `json:"has_narrative"`
}

// Snapshot is one committed load: the retained records plus their summary.
type Snapshot struct {
	Generation  uint64           `json:"generation"`
	LoadID      uuid.UUID        `json:"load_id"`
	Source      string           `json:"source"`
	LoadedAt    time.Time        `json:"loaded_at"`
	RowsRead    int              `json:"rows_read"`
	RowsDropped int              `json:"rows_dropped"`
	Records     []PropertyRecord `json:"records"`
	Summary     DerivedSummary   `json:"summary"`
}
