package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"

	defaultMaxRows = 200
)

// Result is a query's column names and rows rendered as text.
type Result struct {
	Columns []string
	Rows    [][]string
}

func (r Result) Empty() bool { return len(r.Rows) == 0 }

// SalesDB runs read queries against the sales database.
type SalesDB struct {
	db      *sql.DB
	driver  string
	maxRows int
}

// SQLiteDSN builds a go-sqlite3 DSN for the file at path. Read-only
// handles fail to open when the file does not exist.
func SQLiteDSN(path string, readOnly bool) string {
	if readOnly {
		return "file:" + path + "?mode=ro&_foreign_keys=on"
	}
	return "file:" + path + "?_foreign_keys=on"
}

func OpenSalesDB(ctx context.Context, driver, dsn string) (*SalesDB, error) {
	if driver != DriverSQLite && driver != DriverPostgres {
		return nil, fmt.Errorf("store: unsupported driver %q", driver)
	}
	if dsn == "" {
		return nil, errors.New("store: dsn must not be empty")
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SalesDB{db: db, driver: driver, maxRows: defaultMaxRows}, nil
}

func (s *SalesDB) DB() *sql.DB { return s.db }
func (s *SalesDB) Driver() string { return s.driver }
func (s *SalesDB) Schema() string { return Schema() }
func (s *SalesDB) Close() error { return s.db.Close() }
func (s *SalesDB) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

// Query runs q and collects at most maxRows rows.
func (s *SalesDB) Query(ctx context.Context, q string) (Result, error) {
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return Result{}, fmt.Errorf("store: query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return Result{}, fmt.Errorf("store: columns: %w", err)
	}

	res := Result{Columns: cols}
	for rows.Next() {
		if len(res.Rows) >= s.maxRows {
			break
		}
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return Result{}, fmt.Errorf("store: scan: %w", err)
		}
		row := make([]string, len(cols))
		for i, v := range vals {
			row[i] = formatValue(v)
		}
		res.Rows = append(res.Rows, row)
	}
	return res, rows.Err()
}

func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return string(x)
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		return x.Format(time.RFC3339)
	default:
		return fmt.Sprint(x)
	}
}
