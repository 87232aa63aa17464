package storage

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"

	"landscout/models"
	"landscout/utils"
)

// CSVSource reads listing rows from a CSV export. CSV has no cell types, so
// cells are classified from their text: "=..." stays an unevaluated formula.
type CSVSource struct {
	Path   string
	Logger *utils.Logger
}

// NewCSVSource creates a source for the CSV file at path.
func NewCSVSource(path string, logger *utils.Logger) *CSVSource {
	return &CSVSource{Path: path, Logger: logger}
}

// Name returns the CSV file name.
func (s *CSVSource) Name() string {
	return filepath.Base(s.Path)
}

// ReadRows returns one RawRow per non-blank record below the header line.
func (s *CSVSource) ReadRows(ctx context.Context) ([]models.RawRow, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, eris.Wrapf(err, "csv: open %s", s.Path)
	}
	defer f.Close()

	rows, err := readCSV(ctx, f)
	if err != nil {
		return nil, eris.Wrapf(err, "csv: read %s", s.Path)
	}

	if s.Logger != nil {
		s.Logger.Info("[csv] Read %d rows from %s", len(rows), s.Name())
	}
	return rows, nil
}

func readCSV(ctx context.Context, r io.Reader) ([]models.RawRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, eris.New("missing header row")
	}
	if err != nil {
		return nil, eris.Wrap(err, "header row")
	}
	headers := headerIndex(header)

	var rows []models.RawRow
	for {
		if err := ctx.Err(); err != nil {
			return nil, eris.Wrap(err, "read cancelled")
		}

		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, eris.Wrapf(err, "record %d", len(rows)+1)
		}

		row := make(models.RawRow, len(headers))
		for i, h := range headers {
			if i < len(record) {
				row[h] = classify(record[i])
			} else {
				row[h] = models.EmptyCell()
			}
		}
		if isBlank(row) {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}
