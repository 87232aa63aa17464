package storage

import (
	"context"
	"path/filepath"
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/xuri/excelize/v2"

	"landscout/models"
	"landscout/utils"
)

// XLSXSource reads listing rows from a workbook in formula-preserving mode:
// a cell holding a formula yields the formula text rather than its cached
// result, so HYPERLINK targets survive even when the visible label differs.
type XLSXSource struct {
	Path      string
	SheetName string // optional; the first sheet is used when blank
	Logger    *utils.Logger
}

// NewXLSXSource creates a source for the workbook at path.
func NewXLSXSource(path, sheet string, logger *utils.Logger) *XLSXSource {
	return &XLSXSource{Path: path, SheetName: sheet, Logger: logger}
}

// Name returns the workbook file name.
func (s *XLSXSource) Name() string {
	return filepath.Base(s.Path)
}

// ReadRows returns one RawRow per non-blank data row below the header row.
func (s *XLSXSource) ReadRows(ctx context.Context) ([]models.RawRow, error) {
	f, err := excelize.OpenFile(s.Path)
	if err != nil {
		return nil, eris.Wrapf(err, "xlsx: open %s", s.Path)
	}
	defer f.Close()

	sheet, err := s.sheet(f)
	if err != nil {
		return nil, err
	}

	grid, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, eris.Wrapf(err, "xlsx: read sheet %q", sheet)
	}
	if len(grid) == 0 {
		return nil, eris.Errorf("xlsx: sheet %q has no header row", sheet)
	}

	headers := headerIndex(grid[0])
	rows := make([]models.RawRow, 0, len(grid)-1)

	for r := 1; r < len(grid); r++ {
		if err := ctx.Err(); err != nil {
			return nil, eris.Wrap(err, "xlsx: read cancelled")
		}

		row := make(models.RawRow, len(headers))
		for col, header := range headers {
			cell, err := readCell(f, sheet, col+1, r+1)
			if err != nil {
				return nil, err
			}
			row[header] = cell
		}
		if isBlank(row) {
			continue
		}
		rows = append(rows, row)
	}

	if s.Logger != nil {
		s.Logger.Info("[xlsx] Read %d rows from %s (sheet %q, %d columns)", len(rows), s.Name(), sheet, len(headers))
	}
	return rows, nil
}

func (s *XLSXSource) sheet(f *excelize.File) (string, error) {
	sheets := f.GetSheetList()
	if s.SheetName != "" {
		for _, name := range sheets {
			if name == s.SheetName {
				return name, nil
			}
		}
		return "", eris.Errorf("xlsx: sheet %q not found", s.SheetName)
	}
	if len(sheets) == 0 {
		return "", eris.New("xlsx: workbook has no sheets")
	}
	return sheets[0], nil
}

// readCell reads one cell by 1-based column and row. Formula text takes
// precedence over the cached value.
func readCell(f *excelize.File, sheet string, col, row int) (models.Cell, error) {
	axis, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return models.Cell{}, eris.Wrapf(err, "xlsx: cell at column %d row %d", col, row)
	}

	formula, err := f.GetCellFormula(sheet, axis)
	if err != nil {
		return models.Cell{}, eris.Wrapf(err, "xlsx: formula %s", axis)
	}
	if formula != "" {
		return models.FormulaCell(formula), nil
	}

	value, err := f.GetCellValue(sheet, axis, excelize.Options{RawCellValue: true})
	if err != nil {
		return models.Cell{}, eris.Wrapf(err, "xlsx: value %s", axis)
	}
	if value == "" {
		return models.EmptyCell(), nil
	}

	typ, err := f.GetCellType(sheet, axis)
	if err != nil {
		return models.Cell{}, eris.Wrapf(err, "xlsx: type %s", axis)
	}
	switch typ {
	case excelize.CellTypeNumber, excelize.CellTypeUnset:
		if n, err := strconv.ParseFloat(value, 64); err == nil {
			return models.NumberCell(n), nil
		}
	}
	return models.TextCell(value), nil
}
