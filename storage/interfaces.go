package storage

import (
	"context"

	"landscout/models"
)

// RowSource is the interface any tabular listing source must satisfy. Rows are
// returned in source order with header-keyed, formula-preserving cells.
type RowSource interface {
	ReadRows(ctx context.Context) ([]models.RawRow, error)
	Name() string
}
