// Package dataset loads the reference lead population from sqlite or CSV.
package dataset

import (
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/okian/leadrank/internal/domain/model"
)

// Sentinel error kinds for this package.
var (
	ErrUnsupportedFormat = errors.New("unsupported dataset format")
	ErrMissingColumn     = errors.New("required column missing")
)

const sqliteTable = "crm"

// Column names shared by the sqlite table and the CSV header.
const (
	colCustomerID  = "customer_id"
	colName        = "name"
	colEmail       = "email"
	colIsHighValue = "is_high_value"
)

// Load reads records from path, dispatching on the file extension:
// .db/.sqlite/.sqlite3 open a sqlite database (table "crm"), .csv reads a
// headered CSV file.
func Load(ctx context.Context, path string) ([]model.Record, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return LoadSQLite(ctx, path)
	case ".csv":
		return LoadCSV(ctx, path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// LoadSQLite reads all rows of the crm table.
func LoadSQLite(ctx context.Context, path string) ([]model.Record, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("stat dataset: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, "SELECT * FROM "+sqliteTable)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", sqliteTable, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}

	var records []model.Record
	raw := make([]sql.NullString, len(cols))
	scan := make([]any, len(cols))
	for i := range raw {
		scan[i] = &raw[i]
	}
	for rows.Next() {
		if err := rows.Scan(scan...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		row := make(map[string]string, len(cols))
		for i, col := range cols {
			if raw[i].Valid {
				row[strings.ToLower(col)] = raw[i].String
			}
		}
		rec, err := recordFromRow(row, len(records))
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return records, nil
}

// LoadCSV reads a headered CSV file. Header names are matched
// case-insensitively; ragged rows are rejected by the csv reader.
func LoadCSV(ctx context.Context, path string) ([]model.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	for i := range header {
		header[i] = strings.ToLower(strings.TrimSpace(header[i]))
	}

	var records []model.Record
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		fields, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row: %w", err)
		}
		row := make(map[string]string, len(header))
		for i, col := range header {
			row[col] = fields[i]
		}
		rec, err := recordFromRow(row, len(records))
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// recordFromRow maps a string row onto a Record. customer_id is required;
// every other column falls back to a neutral default when absent.
func recordFromRow(row map[string]string, idx int) (model.Record, error) {
	id, ok := row[colCustomerID]
	if !ok || strings.TrimSpace(id) == "" {
		return model.Record{}, fmt.Errorf("%w: %s (row %d)", ErrMissingColumn, colCustomerID, idx)
	}
	return model.Record{
		CustomerID:           strings.TrimSpace(id),
		Name:                 row[colName],
		Email:                row[colEmail],
		Industry:             row[model.ColIndustry],
		Country:              row[model.ColCountry],
		JobTitle:             row[model.ColJobTitle],
		Bio:                  row[model.ColBio],
		CompanySize:          parseFloat(row[model.ColCompanySize]),
		WebActivityScore:     parseFloat(row[model.ColWebActivityScore]),
		EmailEngagementScore: parseFloat(row[model.ColEmailEngagementScore]),
		IsHighValue:          parseBool(row[colIsHighValue]),
	}, nil
}

func parseFloat(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}

func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "t", "yes":
		return true
	default:
		return false
	}
}
