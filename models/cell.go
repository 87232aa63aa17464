package models

import (
	"strconv"
	"strings"
)

// CellKind tags the variant held by a Cell.
type CellKind int

const (
	CellEmpty CellKind = iota
	CellText
	CellNumber
	CellFormula
)

func (k CellKind) String() string {
	switch k {
	case CellEmpty:
		return "empty"
	case CellText:
		return "text"
	case CellNumber:
		return "number"
	case CellFormula:
		return "formula"
	}
	return "unknown"
}

// Cell is one spreadsheet cell as read in formula-preserving mode.
// The zero value is an empty cell.
type Cell struct {
	Kind   CellKind
	Text   string  // CellText: the literal, CellFormula: the formula including "=", CellNumber: source text if parsed from text
	Number float64 // CellNumber only
}

// EmptyCell returns a cell with no content.
func EmptyCell() Cell { return Cell{} }

// TextCell returns a literal text cell. Blank text collapses to an empty cell.
func TextCell(s string) Cell {
	if strings.TrimSpace(s) == "" {
		return Cell{}
	}
	return Cell{Kind: CellText, Text: s}
}

// NumberCell returns a numeric cell.
func NumberCell(f float64) Cell {
	return Cell{Kind: CellNumber, Number: f}
}

// ParsedNumberCell returns a numeric cell that keeps the text it was parsed
// from, so "0042" still reads as "0042" in a text field.
func ParsedNumberCell(f float64, text string) Cell {
	return Cell{Kind: CellNumber, Number: f, Text: strings.TrimSpace(text)}
}

// FormulaCell returns an unevaluated formula cell. A missing leading "=" is added.
func FormulaCell(formula string) Cell {
	formula = strings.TrimSpace(formula)
	if formula == "" {
		return Cell{}
	}
	if !strings.HasPrefix(formula, "=") {
		formula = "=" + formula
	}
	return Cell{Kind: CellFormula, Text: formula}
}

// String renders the cell the way a spreadsheet would show its raw content.
func (c Cell) String() string {
	switch c.Kind {
	case CellText, CellFormula:
		return c.Text
	case CellNumber:
		if c.Text != "" {
			return c.Text
		}
		return strconv.FormatFloat(c.Number, 'f', -1, 64)
	}
	return ""
}

// RawRow is one untyped spreadsheet row keyed by exact header text.
type RawRow map[string]Cell

// Get returns the cell under header, or an empty cell when the column is absent.
func (r RawRow) Get(header string) Cell {
	if r == nil {
		return Cell{}
	}
	return r[header]
}
