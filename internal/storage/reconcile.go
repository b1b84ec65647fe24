package storage

import (
	"context"
	"slices"
	"strings"

	"go.uber.org/zap"

	"flightlog/internal/model"
)

// reconcile brings every managed table in line with its expected shape. It
// runs once per startup, on a pre-existing database, before the handle is
// shared with request handlers. Per table, first match wins: absent tables
// are created, complete tables are left alone, tables missing an expected
// column are patched in place.
func (d *DB) reconcile(ctx context.Context) error {
	for _, spec := range tableSpecs() {
		columns, err := d.tableColumns(ctx, spec.name)
		if err != nil {
			return err
		}

		if len(columns) == 0 {
			d.log.Info("missing table, creating it", zap.String("table", spec.name))
			if _, err := d.ExecuteWrite(ctx, "CREATE TABLE "+spec.name+" "+spec.ddl+";"); err != nil {
				return err
			}
			// A database migrated from before accounts existed also gets the
			// default admin user.
			if spec.name == "users" {
				if err := d.createFirstUser(ctx); err != nil {
					return err
				}
			}
			continue
		}

		needsPatch := false
		for _, attr := range spec.attributes {
			if !slices.Contains(columns, attr) {
				d.log.Info("detected missing column, scheduled a patch",
					zap.String("table", spec.name), zap.String("column", attr))
				needsPatch = true
			}
		}

		if needsPatch {
			if err := d.patchTable(ctx, spec, columns); err != nil {
				return err
			}
		}
	}
	return nil
}

// tableColumns returns the live column names of a table in declaration order,
// or an empty slice when the table does not exist.
func (d *DB) tableColumns(ctx context.Context, table string) ([]string, error) {
	// PRAGMA table_info reports rows ordered by column position.
	rows, err := d.ExecuteRead(ctx, "PRAGMA table_info("+table+");")
	if err != nil {
		return nil, err
	}
	columns := make([]string, 0, len(rows))
	for _, row := range rows {
		// cid, name, type, notnull, dflt_value, pk
		columns = append(columns, model.AsString(row[1]))
	}
	return columns, nil
}

// patchTable rebuilds a table to its full target shape without losing data:
// create a shadow table from the target DDL, copy the live columns across by
// name, then swap the shadow in. New columns keep their table-level defaults
// or NULL for pre-existing rows.
//
// The explicit column list must match the live table's columns in order: the
// copy selects positionally from the old table and lands each value in the
// correctly named column of the shadow.
//
// A stale shadow from a previously interrupted patch is dropped first, so an
// aborted run is recovered by simply starting over.
//
// The whole sequence runs on one dedicated connection with foreign-key
// enforcement off: with it on, the implicit DELETE that DROP TABLE performs
// would fire ON DELETE actions against the rows just copied into the shadow.
func (d *DB) patchTable(ctx context.Context, spec tableSpec, present []string) error {
	d.log.Info("patching table", zap.String("table", spec.name))

	shadow := "_" + spec.name

	conn, err := d.db.Conn(ctx)
	if err != nil {
		return sqlErr(err)
	}
	defer func() {
		// The connection goes back to the pool; enforcement must be back on
		// before anything else uses it.
		_, _ = conn.ExecContext(ctx, "PRAGMA foreign_keys = ON;")
		_ = conn.Close()
	}()

	if _, err := conn.ExecContext(ctx, "PRAGMA foreign_keys = OFF;"); err != nil {
		return sqlErr(err)
	}

	steps := []string{
		"DROP TABLE IF EXISTS " + shadow + ";",
		"CREATE TABLE " + shadow + " " + spec.ddl + ";",
		"INSERT INTO " + shadow + " (" + strings.Join(present, ", ") + ") SELECT * FROM " + spec.name + ";",
		"DROP TABLE " + spec.name + ";",
		"ALTER TABLE " + shadow + " RENAME TO " + spec.name + ";",
	}
	for _, step := range steps {
		if _, err := conn.ExecContext(ctx, step); err != nil {
			return sqlErr(err)
		}
	}
	return nil
}
