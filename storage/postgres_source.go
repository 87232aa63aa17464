package storage

import (
	"context"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/rotisserie/eris"

	"landscout/models"
	"landscout/utils"
)

// PostgresSource reads listing rows from a table whose column names follow
// the spreadsheet header contract (e.g. "Drive Dist (mi)"), as produced by a
// straight import of the listing sheet.
type PostgresSource struct {
	db      *sqlx.DB
	table   string
	orderBy string
	logger  *utils.Logger
}

// NewPostgresSource opens a connection, waits for the server with bounded
// retries and returns a source over table. orderBy is an optional column that
// fixes the row order, and therefore the record IDs, between loads.
func NewPostgresSource(ctx context.Context, dsn, table, orderBy string, retry *utils.RetryConfig, logger *utils.Logger) (*PostgresSource, error) {
	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: open")
	}

	err = retry.Do(ctx, "postgres ping", func(ctx context.Context) error {
		return db.PingContext(ctx)
	})
	if err != nil {
		_ = db.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}

	return &PostgresSource{db: db, table: table, orderBy: orderBy, logger: logger}, nil
}

// Name identifies the source by table.
func (s *PostgresSource) Name() string {
	return "postgres:" + s.table
}

// ReadRows selects every row of the table.
func (s *PostgresSource) ReadRows(ctx context.Context) ([]models.RawRow, error) {
	rows, err := s.db.QueryxContext(ctx, s.query())
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: select %s", s.table)
	}
	defer rows.Close()

	var out []models.RawRow
	for rows.Next() {
		values := make(map[string]interface{})
		if err := rows.MapScan(values); err != nil {
			return nil, eris.Wrap(err, "postgres: scan row")
		}

		row := make(models.RawRow, len(values))
		for col, v := range values {
			row[col] = valueToCell(v)
		}
		if isBlank(row) {
			continue
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "postgres: iterate rows")
	}

	if s.logger != nil {
		s.logger.Info("[postgres] Read %d rows from %s", len(out), s.table)
	}
	return out, nil
}

func (s *PostgresSource) query() string {
	q := "SELECT * FROM " + pq.QuoteIdentifier(s.table)
	if s.orderBy != "" {
		q += " ORDER BY " + pq.QuoteIdentifier(s.orderBy)
	}
	return q
}

// Close releases the connection pool.
func (s *PostgresSource) Close() error {
	return s.db.Close()
}

// valueToCell converts a database/sql driver value into a typed cell.
// NUMERIC columns arrive from lib/pq as []byte and are classified from text.
func valueToCell(v interface{}) models.Cell {
	switch x := v.(type) {
	case nil:
		return models.EmptyCell()
	case int64:
		return models.NumberCell(float64(x))
	case float64:
		return models.NumberCell(x)
	case []byte:
		return classify(string(x))
	case string:
		return classify(x)
	case bool:
		return models.TextCell(strconv.FormatBool(x))
	case time.Time:
		return models.TextCell(x.Format(time.RFC3339))
	default:
		return models.EmptyCell()
	}
}
