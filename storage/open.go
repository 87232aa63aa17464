package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rotisserie/eris"

	"landscout/utils"
)

// ErrUnsupportedFormat is returned for snapshot files that are neither xlsx nor csv.
var ErrUnsupportedFormat = errors.New("unsupported snapshot format")

var supportedExt = map[string]bool{
	".xlsx": true,
	".xlsm": true,
	".csv":  true,
}

// OpenFile returns the RowSource matching the file extension of path.
func OpenFile(path, sheet string, logger *utils.Logger) (RowSource, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return NewXLSXSource(path, sheet, logger), nil
	case ".csv":
		return NewCSVSource(path, logger), nil
	}
	return nil, fmt.Errorf("open %s: %w", filepath.Base(path), ErrUnsupportedFormat)
}

// ListSnapshots returns the names of the snapshot files in dir, sorted.
func ListSnapshots(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, eris.Wrapf(err, "snapshots: read dir %s", dir)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), "~$") {
			continue
		}
		if supportedExt[strings.ToLower(filepath.Ext(e.Name()))] {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}
