package storage

import (
	"context"
	"strings"
)

// refreshReferenceData rebuilds the airports and airlines tables from the
// bundled snapshot databases. The tables are fully replaced, never merged.
//
// The rebuild runs in two transactional contexts. The DROP/CREATE pair is one
// atomic transaction. The ATTACH/copy/DETACH sequence then runs outside it,
// in autocommit mode on a single dedicated connection: ATTACH is
// per-connection state, and nesting it inside a long-running write
// transaction risks lock contention against the attached files.
func (d *DB) refreshReferenceData(ctx context.Context, dropOld bool) error {
	d.log.Info("updating airports and airlines tables")

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return sqlErr(err)
	}

	if dropOld {
		for _, table := range []string{"airports", "airlines"} {
			if _, err := tx.ExecContext(ctx, "DROP TABLE "+table+";"); err != nil {
				// A missing table just means a first refresh; anything else
				// is a real failure.
				if !isNoSuchTable(err) {
					_ = tx.Rollback()
					return sqlErr(err)
				}
			}
		}
	}

	if _, err := tx.ExecContext(ctx, airportsDDL+";"); err != nil {
		_ = tx.Rollback()
		return sqlErr(err)
	}
	if _, err := tx.ExecContext(ctx, airlinesDDL+";"); err != nil {
		_ = tx.Rollback()
		return sqlErr(err)
	}
	if err := tx.Commit(); err != nil {
		return sqlErr(err)
	}

	// The whole attach/copy/detach sequence must stay on one physical
	// connection; the pool must not migrate it mid-way.
	conn, err := d.db.Conn(ctx)
	if err != nil {
		return sqlErr(err)
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, "ATTACH ? AS ap;", d.cfg.AirportsDB); err != nil {
		return sqlErr(err)
	}
	if _, err := conn.ExecContext(ctx, "ATTACH ? AS ar;", d.cfg.AirlinesDB); err != nil {
		return sqlErr(err)
	}

	if _, err := conn.ExecContext(ctx, "INSERT INTO main.airports SELECT * FROM ap.airports;"); err != nil {
		return sqlErr(err)
	}
	if _, err := conn.ExecContext(ctx, "INSERT INTO main.airlines SELECT * FROM ar.airlines;"); err != nil {
		return sqlErr(err)
	}

	if _, err := conn.ExecContext(ctx, "DETACH ap;"); err != nil {
		return sqlErr(err)
	}
	if _, err := conn.ExecContext(ctx, "DETACH ar;"); err != nil {
		return sqlErr(err)
	}

	return nil
}

// isNoSuchTable matches the sqlite "no such table" error for defensive drops.
func isNoSuchTable(err error) bool {
	return err != nil && strings.Contains(err.Error(), "no such table")
}
