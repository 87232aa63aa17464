package services

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"landscout/models"
	"landscout/utils"
)

// hyperlinkRegexp captures the first quoted argument of a HYPERLINK formula.
var hyperlinkRegexp = regexp.MustCompile(`(?i)^=\s*HYPERLINK\s*\(\s*"([^"]*)"`)

// Normalizer turns raw spreadsheet rows into validated PropertyRecords.
type Normalizer struct {
	logger  *utils.Logger
	headers models.HeaderContract
}

// NewNormalizer creates a Normalizer reading the given header contract.
// Blank headers fall back to the default contract.
func NewNormalizer(logger *utils.Logger, headers models.HeaderContract) *Normalizer {
	return &Normalizer{logger: logger, headers: headers.WithDefaults()}
}

// NormalizeAll normalizes every row and returns the retained records in
// source order. Each record's ID is the row's index in rows.
func (n *Normalizer) NormalizeAll(rows []models.RawRow) []models.PropertyRecord {
	result := make([]models.PropertyRecord, 0, len(rows))

	for i, row := range rows {
		rec, ok := n.Normalize(row, i)
		if !ok {
			n.logger.Debug("[normalizer] Dropping row %d (%s): %s", i, rec.Address, dropReason(rec))
			continue
		}
		result = append(result, rec)
	}

	n.logger.Info("[normalizer] Normalized %d → %d records (dropped %d)",
		len(rows), len(result), len(rows)-len(result))
	return result
}

// Normalize maps one row to a structurally complete record and reports
// whether the record is retained. It never fails: unusable cells fall back
// to their field defaults.
func (n *Normalizer) Normalize(row models.RawRow, ordinal int) (models.PropertyRecord, bool) {
	h := n.headers

	rec := models.PropertyRecord{
		ID:         ordinal,
		Address:    composeAddress(row.Get(h.Address), row.Get(h.City), row.Get(h.State)),
		Price:      nonNegative(parseFloat(row.Get(h.Price))),
		Acres:      nonNegative(parseFloat(row.Get(h.Acres))),
		Score:      parseInt(row.Get(h.Score)),
		Latitude:   parseFloat(row.Get(h.Latitude)),
		Longitude:  parseFloat(row.Get(h.Longitude)),
		DriveMiles: parseInt(row.Get(h.DriveMiles)),
		URL:        ExtractURL(row.Get(h.URL)),
		Type:       textOr(row.Get(h.Type), models.TypePlaceholder),
	}

	return rec, rec.Retained()
}

// ExtractURL resolves a listing link cell. A HYPERLINK formula yields its first
// quoted argument, a literal http(s) URL is returned as is, anything else
// yields the "#" placeholder.
func ExtractURL(c models.Cell) string {
	var raw string
	switch c.Kind {
	case models.CellText, models.CellFormula:
		raw = strings.TrimSpace(c.Text)
	case models.CellNumber, models.CellEmpty:
		return models.URLPlaceholder
	}

	if m := hyperlinkRegexp.FindStringSubmatch(raw); m != nil {
		if u := strings.TrimSpace(m[1]); u != "" {
			return u
		}
		return models.URLPlaceholder
	}

	lower := strings.ToLower(raw)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return raw
	}
	return models.URLPlaceholder
}

// parseFloat returns the numeric value of a cell, or NaN when the cell is
// empty, a formula, or text that is not a finite decimal number.
func parseFloat(c models.Cell) float64 {
	switch c.Kind {
	case models.CellNumber:
		if isFinite(c.Number) {
			return c.Number
		}
	case models.CellText:
		f, err := strconv.ParseFloat(strings.TrimSpace(c.Text), 64)
		if err == nil && isFinite(f) {
			return f
		}
	case models.CellEmpty, models.CellFormula:
	}
	return math.NaN()
}

// parseInt truncates the cell's numeric value toward zero; unusable cells
// and out-of-range values yield 0.
func parseInt(c models.Cell) int {
	f := parseFloat(c)
	if math.IsNaN(f) || f > math.MaxInt32 || f < math.MinInt32 {
		return 0
	}
	return int(math.Trunc(f))
}

func nonNegative(f float64) float64 {
	if math.IsNaN(f) || f < 0 {
		return 0
	}
	return f
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func composeAddress(address, city, state models.Cell) string {
	base := textOr(address, models.AddressPlaceholder)

	parts := []string{base}
	if c := cellText(city); c != "" {
		parts = append(parts, c)
	}
	if s := cellText(state); s != "" {
		parts = append(parts, s)
	}
	return strings.Join(parts, ", ")
}

// cellText returns the normalized display text of a literal cell; numbers
// parsed from text keep that text. Formula cells are not evaluated and read
// as blank.
func cellText(c models.Cell) string {
	switch c.Kind {
	case models.CellText, models.CellNumber:
		return normaliseText(c.String())
	case models.CellEmpty, models.CellFormula:
	}
	return ""
}

func textOr(c models.Cell, fallback string) string {
	if s := cellText(c); s != "" {
		return s
	}
	return fallback
}

// normaliseText strips leading/trailing whitespace and collapses internal whitespace.
func normaliseText(s string) string {
	fields := strings.FieldsFunc(s, unicode.IsSpace)
	return strings.Join(fields, " ")
}

func dropReason(rec models.PropertyRecord) string {
	switch {
	case rec.Price <= 0:
		return "missing or non-positive price"
	case !isFinite(rec.Latitude):
		return "missing latitude"
	default:
		return "missing longitude"
	}
}
