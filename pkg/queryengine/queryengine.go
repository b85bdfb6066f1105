// Package queryengine runs declarative SQL over in-request tables. Every call
// materialises the input tables into a fresh in-memory SQLite database, runs
// the user's query against it, and throws the database away. The engine never
// touches disk and shares nothing between requests.
package queryengine

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/sheetflow/sheetflow-backend/pkg/dataframe"
	"github.com/sheetflow/sheetflow-backend/pkg/errs"
)

// Run executes query with the given tables bound by name and returns the
// single result table.
func Run(ctx context.Context, tables map[string]*dataframe.Table, query string) (*dataframe.Table, error) {
	const op errs.Op = "queryengine.Run"

	if len(tables) == 0 {
		return nil, errs.E(op, errs.InvalidRequest, "No tables provided")
	}

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, errs.E(op, errs.Internal, fmt.Errorf("opening in-memory database: %w", err))
	}
	defer db.Close()

	// The in-memory database vanishes if the pool opens a second connection.
	db.SetMaxOpenConns(1)

	names := make([]string, 0, len(tables))
	for name := range tables {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := materialize(ctx, db, name, tables[name]); err != nil {
			return nil, errs.E(op, err)
		}
	}

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, errs.E(op, err)
	}
	defer rows.Close()

	result, err := tableFromRows(rows)
	if err != nil {
		return nil, errs.E(op, err)
	}

	return result, nil
}

func materialize(ctx context.Context, db *sql.DB, name string, table *dataframe.Table) error {
	columns := table.Columns()
	if len(columns) == 0 {
		// SQLite cannot create a zero-column table; bind an empty one-column
		// placeholder so the name still resolves.
		columns = []string{"value"}
		table = dataframe.New("value")
	}

	defs := make([]string, len(columns))
	for i, col := range columns {
		defs[i] = quoteIdent(col)
	}

	_, err := db.ExecContext(ctx, fmt.Sprintf("CREATE TABLE %s (%s)", quoteIdent(name), strings.Join(defs, ", ")))
	if err != nil {
		return fmt.Errorf("creating table %s: %w", name, err)
	}

	if table.NumRows() == 0 {
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning insert transaction: %w", err)
	}
	defer tx.Rollback()

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(columns)), ",")
	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf("INSERT INTO %s VALUES (%s)", quoteIdent(name), placeholders))
	if err != nil {
		return fmt.Errorf("preparing insert for %s: %w", name, err)
	}
	defer stmt.Close()

	for _, rec := range table.Records() {
		args := make([]interface{}, len(columns))
		for i, col := range columns {
			args[i] = rec[col]
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("inserting into %s: %w", name, err)
		}
	}

	return tx.Commit()
}

func tableFromRows(rows *sql.Rows) (*dataframe.Table, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("reading result columns: %w", err)
	}

	table := dataframe.New(columns...)
	for rows.Next() {
		values := make([]interface{}, len(columns))
		scan := make([]interface{}, len(columns))
		for i := range values {
			scan[i] = &values[i]
		}
		if err := rows.Scan(scan...); err != nil {
			return nil, fmt.Errorf("scanning result row: %w", err)
		}
		table.AppendRow(cellValues(values)...)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating result rows: %w", err)
	}

	return table, nil
}

// cellValues converts driver values to the cell types a Table carries.
func cellValues(values []interface{}) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		switch v := v.(type) {
		case int64:
			out[i] = float64(v)
		case []byte:
			out[i] = string(v)
		default:
			out[i] = v
		}
	}
	return out
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
