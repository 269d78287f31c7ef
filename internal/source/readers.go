package source

import (
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"
	_ "modernc.org/sqlite" // Pure-Go SQLite driver.
)

// ErrUnsupportedFormat is returned for files whose extension has no reader.
var ErrUnsupportedFormat = errors.New("unsupported source format")

// SQLiteTable is the table read from SQLite sources.
const SQLiteTable = "features"

// Reader reads the raw rows of one source file.
type Reader interface {
	Read(ctx context.Context, path string) ([]Row, error)
}

// ReaderFunc adapts a function to Reader.
type ReaderFunc func(ctx context.Context, path string) ([]Row, error)

// Read implements Reader.
func (f ReaderFunc) Read(ctx context.Context, path string) ([]Row, error) { return f(ctx, path) }

// ReaderFor picks a reader by file extension.
func ReaderFor(path string) (Reader, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return ReaderFunc(readXLSX), nil
	case ".csv":
		return ReaderFunc(readCSV), nil
	case ".json":
		return ReaderFunc(readJSON), nil
	case ".yaml", ".yml":
		return ReaderFunc(readYAML), nil
	case ".db", ".sqlite", ".sqlite3":
		return ReaderFunc(readSQLite), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
}

// readXLSX reads the first sheet. Raw cell values are requested so dates
// arrive as serial numbers rather than locale-formatted strings.
func readXLSX(_ context.Context, path string) ([]Row, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	table, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheets[0], err)
	}
	return rowsFromTable(table), nil
}

func readCSV(_ context.Context, path string) ([]Row, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()

	r := csv.NewReader(fh)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	table, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing csv: %w", err)
	}
	return rowsFromTable(table), nil
}

func readJSON(_ context.Context, path string) ([]Row, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var objs []map[string]any
	if err := json.Unmarshal(data, &objs); err != nil {
		return nil, fmt.Errorf("parsing json: %w", err)
	}
	rows := make([]Row, 0, len(objs))
	for _, o := range objs {
		rows = append(rows, rowFromMap(o))
	}
	return rows, nil
}

func readYAML(_ context.Context, path string) ([]Row, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var objs []map[string]any
	if err := yaml.Unmarshal(data, &objs); err != nil {
		return nil, fmt.Errorf("parsing yaml: %w", err)
	}
	rows := make([]Row, 0, len(objs))
	for _, o := range objs {
		rows = append(rows, rowFromMap(o))
	}
	return rows, nil
}

func readSQLite(ctx context.Context, path string) ([]Row, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(1)

	rs, err := db.QueryContext(ctx, "SELECT * FROM "+SQLiteTable)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", SQLiteTable, err)
	}
	defer rs.Close()

	cols, err := rs.Columns()
	if err != nil {
		return nil, fmt.Errorf("reading columns: %w", err)
	}
	var rows []Row
	for rs.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rs.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		m := make(map[string]any, len(cols))
		for i, c := range cols {
			m[c] = vals[i]
		}
		rows = append(rows, rowFromMap(m))
	}
	if err := rs.Err(); err != nil {
		return nil, fmt.Errorf("iterating rows: %w", err)
	}
	return rows, nil
}
