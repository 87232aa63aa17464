package storage

import (
	"strconv"
	"strings"

	"landscout/models"
)

// classify types a raw text cell from a source that has no native cell types:
// "=..." is an unevaluated formula, a decimal literal is a number that keeps
// its source text, anything else non-blank is text.
func classify(raw string) models.Cell {
	s := strings.TrimSpace(raw)
	switch {
	case s == "":
		return models.EmptyCell()
	case strings.HasPrefix(s, "="):
		return models.FormulaCell(s)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return models.ParsedNumberCell(f, s)
	}
	return models.TextCell(raw)
}

func isBlank(row models.RawRow) bool {
	for _, c := range row {
		if c.Kind != models.CellEmpty {
			return false
		}
	}
	return true
}

// headerIndex trims headers and drops blank or repeated ones; the first
// occurrence of a header wins.
func headerIndex(raw []string) map[int]string {
	out := make(map[int]string, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for i, h := range raw {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if h == "" {
			continue
		}
		if _, dup := seen[h]; dup {
			continue
		}
		seen[h] = struct{}{}
		out[i] = h
	}
	return out
}
