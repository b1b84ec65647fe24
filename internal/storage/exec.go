package storage

import (
	"context"
	"database/sql"

	"flightlog/internal/apperr"
)

// ExecuteWrite runs one statement inside its own transaction, committed on
// success and rolled back on failure. When the statement produces rows (a
// RETURNING clause, say) the first row is returned; otherwise nil.
//
// Every exposed operation is a single statement, so each call is its own
// atomic unit; concurrent writers never observe another writer's partial
// effects, and no cross-call transaction exists.
func (d *DB) ExecuteWrite(ctx context.Context, query string, args ...any) ([]any, error) {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, sqlErr(err)
	}

	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		_ = tx.Rollback()
		return nil, sqlErr(err)
	}

	var first []any
	if rows.Next() {
		first, err = scanRow(rows)
		if err != nil {
			_ = rows.Close()
			_ = tx.Rollback()
			return nil, sqlErr(err)
		}
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		_ = tx.Rollback()
		return nil, sqlErr(err)
	}
	_ = rows.Close()

	if err := tx.Commit(); err != nil {
		return nil, sqlErr(err)
	}
	return first, nil
}

// ExecuteRead runs one statement outside any explicit transaction and returns
// all rows.
func (d *DB) ExecuteRead(ctx context.Context, query string, args ...any) ([][]any, error) {
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, sqlErr(err)
	}
	defer rows.Close()

	var out [][]any
	for rows.Next() {
		row, err := scanRow(rows)
		if err != nil {
			return nil, sqlErr(err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, sqlErr(err)
	}
	return out, nil
}

// scanRow scans the current row into a generic value slice.
func scanRow(rows *sql.Rows) ([]any, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	values := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range values {
		ptrs[i] = &values[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return nil, err
	}
	return values, nil
}

// sqlErr converts a driver failure into the service error the web layer
// knows how to render. Service errors already in the chain pass through.
func sqlErr(err error) error {
	if e, ok := apperr.From(err); ok {
		return e
	}
	return apperr.SQL(err)
}
