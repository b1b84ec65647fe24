package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"flightlog/internal/auth"
	"flightlog/internal/model"
)

// testAirports and testAirlines are the fixture rows written into the
// snapshot databases the refresher copies from.
var testAirports = [][]any{
	{"EDDF", "FRA", "large_airport", "Frankfurt am Main Airport", "Frankfurt", "Hesse", "Germany", "EU", 50.0333, 8.5706, "Europe/Berlin"},
	{"KJFK", "JFK", "large_airport", "John F Kennedy International Airport", "New York", "New York", "United States", "NA", 40.6398, -73.7789, "America/New_York"},
	{"LPPT", "LIS", "large_airport", "Humberto Delgado Airport", "Lisbon", "Lisboa", "Portugal", "EU", 38.7813, -9.13592, "Europe/Lisbon"},
}

var testAirlines = [][]any{
	{"DLH", "LH", "Lufthansa"},
	{"UAE", "EK", "Emirates"},
}

// writeSnapshot creates one snapshot database file with a single table.
func writeSnapshot(t *testing.T, path, ddl, insert string, rows [][]any) {
	t.Helper()

	db, err := sql.Open("sqlite", "file:"+path)
	if err != nil {
		t.Fatalf("open snapshot %s: %v", path, err)
	}
	defer db.Close()

	if _, err := db.Exec(ddl); err != nil {
		t.Fatalf("create snapshot table: %v", err)
	}
	for _, row := range rows {
		if _, err := db.Exec(insert, row...); err != nil {
			t.Fatalf("insert snapshot row: %v", err)
		}
	}
}

// newTestConfig creates a data directory with both snapshot files in place.
func newTestConfig(t *testing.T) Config {
	t.Helper()

	dir := t.TempDir()
	airports := filepath.Join(dir, "airports.db")
	airlines := filepath.Join(dir, "airlines.db")

	writeSnapshot(t, airports, airportsDDL,
		"INSERT INTO airports VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)", testAirports)
	writeSnapshot(t, airlines, airlinesDDL,
		"INSERT INTO airlines VALUES (?, ?, ?)", testAirlines)

	return Config{Dir: dir, AirportsDB: airports, AirlinesDB: airlines}
}

func openTest(t *testing.T, cfg Config) *DB {
	t.Helper()

	db, err := Open(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// rawOpen opens the database file directly, bypassing the storage layer, so
// tests can set up legacy shapes.
func rawOpen(t *testing.T, cfg Config) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", "file:"+filepath.Join(cfg.Dir, DBFileName))
	if err != nil {
		t.Fatalf("raw open: %v", err)
	}
	return db
}

func countRows(t *testing.T, db *DB, table string) int64 {
	t.Helper()

	rows, err := db.ExecuteRead(context.Background(), "SELECT count(*) FROM "+table+";")
	if err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return model.AsInt64(rows[0][0])
}

func TestFirstRunBootstrap(t *testing.T) {
	cfg := newTestConfig(t)
	db := openTest(t, cfg)
	ctx := context.Background()

	if got := countRows(t, db, "users"); got != 1 {
		t.Fatalf("users count = %d, want 1", got)
	}

	rows, err := db.ExecuteRead(ctx, "SELECT username, password_hash, is_admin FROM users;")
	if err != nil {
		t.Fatalf("read users: %v", err)
	}
	username := model.AsString(rows[0][0])
	hash := model.AsString(rows[0][1])
	isAdmin := model.AsInt64(rows[0][2])

	if username != "admin" {
		t.Errorf("default username = %q, want admin", username)
	}
	if isAdmin != 1 {
		t.Errorf("is_admin = %d, want 1", isAdmin)
	}
	if hash == "admin" || hash == "" {
		t.Errorf("password stored as plaintext or empty: %q", hash)
	}
	if !auth.CheckPassword("admin", hash) {
		t.Errorf("stored hash does not verify against the default password")
	}

	if got := countRows(t, db, "airports"); got != int64(len(testAirports)) {
		t.Errorf("airports count = %d, want %d", got, len(testAirports))
	}
	if got := countRows(t, db, "airlines"); got != int64(len(testAirlines)) {
		t.Errorf("airlines count = %d, want %d", got, len(testAirlines))
	}

	cols, err := db.tableColumns(ctx, "flights")
	if err != nil {
		t.Fatalf("flights columns: %v", err)
	}
	want := model.FlightAttributes()
	if len(cols) != len(want) {
		t.Fatalf("flights has %d columns, want %d", len(cols), len(want))
	}
	for i := range want {
		if cols[i] != want[i] {
			t.Errorf("flights column %d = %q, want %q", i, cols[i], want[i])
		}
	}
}

func TestOpenFailsWithoutDataDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "missing", "deeper")
	cfg := Config{
		Dir:        dir,
		AirportsDB: "unused",
		AirlinesDB: "unused",
	}

	if _, err := Open(context.Background(), cfg); err == nil {
		t.Fatal("Open succeeded against a nonexistent data directory")
	}
	if _, err := os.Stat(filepath.Join(dir, DBFileName)); err == nil {
		t.Error("database file left behind after failed bootstrap")
	}
}

func TestReconcileIdempotent(t *testing.T) {
	cfg := newTestConfig(t)
	ctx := context.Background()

	db := openTest(t, cfg)
	before, err := db.tableColumns(ctx, "flights")
	if err != nil {
		t.Fatalf("columns before: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	// Second startup against the same file exercises the no-op path for
	// every table.
	db2 := openTest(t, cfg)
	after, err := db2.tableColumns(ctx, "flights")
	if err != nil {
		t.Fatalf("columns after: %v", err)
	}

	if len(before) != len(after) {
		t.Fatalf("schema changed across restarts: %v -> %v", before, after)
	}
	for i := range before {
		if before[i] != after[i] {
			t.Errorf("column %d changed: %q -> %q", i, before[i], after[i])
		}
	}

	if got := countRows(t, db2, "users"); got != 1 {
		t.Errorf("users count after restart = %d, want 1", got)
	}
}

// legacyFlightsDDL is the flights shape before the notes and connection
// columns existed. Tests use it to simulate a database written by an older
// release.
const legacyFlightsDDL = `CREATE TABLE flights (
	id               INTEGER PRIMARY KEY AUTOINCREMENT,
	username         TEXT NOT NULL DEFAULT 'admin',
	date             TEXT NOT NULL,
	origin           TEXT NOT NULL,
	destination      TEXT NOT NULL,
	departure_time   TEXT,
	arrival_time     TEXT,
	arrival_date     TEXT,
	seat             TEXT,
	aircraft_side    TEXT,
	ticket_class     TEXT,
	purpose          TEXT,
	duration         INTEGER,
	distance         INTEGER,
	airplane         TEXT,
	airline          TEXT,
	tail_number      TEXT,
	flight_number    TEXT
)`

// downgradeFlights replaces the flights table with the legacy shape and
// seeds n rows.
func downgradeFlights(t *testing.T, cfg Config, n int) {
	t.Helper()

	raw := rawOpen(t, cfg)
	defer raw.Close()

	if _, err := raw.Exec("DROP TABLE flights;"); err != nil {
		t.Fatalf("drop flights: %v", err)
	}
	if _, err := raw.Exec(legacyFlightsDDL); err != nil {
		t.Fatalf("create legacy flights: %v", err)
	}
	for i := 0; i < n; i++ {
		if _, err := raw.Exec(
			"INSERT INTO flights (date, origin, destination, duration) VALUES (?, ?, ?, ?);",
			fmt.Sprintf("2024-01-%02d", i+1), "EDDF", "KJFK", 500+i); err != nil {
			t.Fatalf("seed legacy flight: %v", err)
		}
	}
}

func TestPatchPreservesData(t *testing.T) {
	cfg := newTestConfig(t)
	db := openTest(t, cfg)
	if err := db.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	downgradeFlights(t, cfg, 3)

	db2 := openTest(t, cfg)
	ctx := context.Background()

	if got := countRows(t, db2, "flights"); got != 3 {
		t.Fatalf("flights count after patch = %d, want 3", got)
	}

	cols, err := db2.tableColumns(ctx, "flights")
	if err != nil {
		t.Fatalf("columns: %v", err)
	}
	want := model.FlightAttributes()
	if len(cols) != len(want) {
		t.Fatalf("flights has %d columns after patch, want %d", len(cols), len(want))
	}

	rows, err := db2.ExecuteRead(ctx,
		"SELECT origin, destination, duration, notes, connection FROM flights ORDER BY id;")
	if err != nil {
		t.Fatalf("read patched rows: %v", err)
	}
	for i, row := range rows {
		if model.AsString(row[0]) != "EDDF" || model.AsString(row[1]) != "KJFK" {
			t.Errorf("row %d lost its values: %v", i, row)
		}
		if model.AsInt64(row[2]) != int64(500+i) {
			t.Errorf("row %d duration = %v, want %d", i, row[2], 500+i)
		}
		if row[3] != nil {
			t.Errorf("row %d notes = %v, want NULL", i, row[3])
		}
		if row[4] != nil {
			t.Errorf("row %d connection = %v, want NULL", i, row[4])
		}
	}
}

func TestPatchRecoversFromStaleShadow(t *testing.T) {
	cfg := newTestConfig(t)
	db := openTest(t, cfg)
	if err := db.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	downgradeFlights(t, cfg, 2)

	// Simulate a crash mid-patch: a leftover shadow table with a shape that
	// does not even match.
	raw := rawOpen(t, cfg)
	if _, err := raw.Exec("CREATE TABLE _flights (junk TEXT);"); err != nil {
		t.Fatalf("create stale shadow: %v", err)
	}
	if _, err := raw.Exec("INSERT INTO _flights (junk) VALUES ('leftover');"); err != nil {
		t.Fatalf("seed stale shadow: %v", err)
	}
	raw.Close()

	db2 := openTest(t, cfg)
	ctx := context.Background()

	if got := countRows(t, db2, "flights"); got != 2 {
		t.Fatalf("flights count = %d, want 2", got)
	}
	shadowCols, err := db2.tableColumns(ctx, "_flights")
	if err != nil {
		t.Fatalf("shadow columns: %v", err)
	}
	if len(shadowCols) != 0 {
		t.Errorf("stale shadow table survived the patch: %v", shadowCols)
	}
}

func TestPatchPreservesConnectionReferences(t *testing.T) {
	cfg := newTestConfig(t)
	db := openTest(t, cfg)
	if err := db.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	// Legacy shape missing only the notes column, connection FK included.
	raw := rawOpen(t, cfg)
	if _, err := raw.Exec("DROP TABLE flights;"); err != nil {
		t.Fatalf("drop flights: %v", err)
	}
	legacy := `CREATE TABLE flights (
		id               INTEGER PRIMARY KEY AUTOINCREMENT,
		username         TEXT NOT NULL DEFAULT 'admin',
		date             TEXT NOT NULL,
		origin           TEXT NOT NULL,
		destination      TEXT NOT NULL,
		departure_time   TEXT,
		arrival_time     TEXT,
		arrival_date     TEXT,
		seat             TEXT,
		aircraft_side    TEXT,
		ticket_class     TEXT,
		purpose          TEXT,
		duration         INTEGER,
		distance         INTEGER,
		airplane         TEXT,
		airline          TEXT,
		tail_number      TEXT,
		flight_number    TEXT,
		connection       INTEGER NULL,
		FOREIGN KEY (connection) REFERENCES flights (id) ON DELETE SET NULL,
		CHECK (connection IS NULL OR connection <> id)
	)`
	if _, err := raw.Exec(legacy); err != nil {
		t.Fatalf("create legacy flights: %v", err)
	}
	if _, err := raw.Exec(
		"INSERT INTO flights (date, origin, destination) VALUES ('2024-01-01', 'EDDF', 'KJFK');"); err != nil {
		t.Fatalf("seed flight: %v", err)
	}
	if _, err := raw.Exec(
		"INSERT INTO flights (date, origin, destination, connection) VALUES ('2024-01-02', 'KJFK', 'EDDF', 1);"); err != nil {
		t.Fatalf("seed connected flight: %v", err)
	}
	raw.Close()

	db2 := openTest(t, cfg)
	rows, err := db2.ExecuteRead(context.Background(),
		"SELECT connection FROM flights ORDER BY id;")
	if err != nil {
		t.Fatalf("read flights: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d flights, want 2", len(rows))
	}
	if rows[0][0] != nil {
		t.Errorf("first flight connection = %v, want NULL", rows[0][0])
	}
	if model.AsInt64(rows[1][0]) != 1 {
		t.Errorf("second flight connection = %v, want 1 (lost during patch)", rows[1][0])
	}
}

func TestReferenceDataFullyReplaced(t *testing.T) {
	cfg := newTestConfig(t)
	db := openTest(t, cfg)
	ctx := context.Background()

	if _, err := db.ExecuteWrite(ctx,
		"INSERT INTO airports (icao, name) VALUES ('ZZZZ', 'Not A Real Airport');"); err != nil {
		t.Fatalf("insert spurious airport: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	db2 := openTest(t, cfg)

	if got := countRows(t, db2, "airports"); got != int64(len(testAirports)) {
		t.Errorf("airports count = %d, want %d", got, len(testAirports))
	}
	rows, err := db2.ExecuteRead(ctx, "SELECT count(*) FROM airports WHERE icao = 'ZZZZ';")
	if err != nil {
		t.Fatalf("look up spurious airport: %v", err)
	}
	if model.AsInt64(rows[0][0]) != 0 {
		t.Error("spurious airport survived the refresh")
	}
}

func TestMissingTableRecreatedWithAdminSeed(t *testing.T) {
	cfg := newTestConfig(t)
	db := openTest(t, cfg)
	if err := db.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	raw := rawOpen(t, cfg)
	if _, err := raw.Exec("DROP TABLE users;"); err != nil {
		t.Fatalf("drop users: %v", err)
	}
	raw.Close()

	db2 := openTest(t, cfg)
	ctx := context.Background()

	if got := countRows(t, db2, "users"); got != 1 {
		t.Fatalf("users count = %d, want 1", got)
	}
	rows, err := db2.ExecuteRead(ctx, "SELECT is_admin FROM users;")
	if err != nil {
		t.Fatalf("read users: %v", err)
	}
	if model.AsInt64(rows[0][0]) != 1 {
		t.Error("recreated users table missing the admin seed")
	}
}

func TestForeignKeyEnforcement(t *testing.T) {
	cfg := newTestConfig(t)
	db := openTest(t, cfg)
	ctx := context.Background()

	// Dangling connection reference.
	if _, err := db.ExecuteWrite(ctx,
		"INSERT INTO flights (date, origin, destination, connection) VALUES ('2024-05-01', 'EDDF', 'KJFK', 999);"); err == nil {
		t.Error("insert with dangling connection succeeded")
	}

	row, err := db.ExecuteWrite(ctx,
		"INSERT INTO flights (date, origin, destination) VALUES ('2024-05-01', 'EDDF', 'KJFK') RETURNING id;")
	if err != nil {
		t.Fatalf("insert flight: %v", err)
	}
	id := model.AsInt64(row[0])

	// Self-reference is rejected by the CHECK constraint.
	if _, err := db.ExecuteWrite(ctx,
		"UPDATE flights SET connection = ? WHERE id = ?;", id, id); err == nil {
		t.Error("self-referencing connection succeeded")
	}

	// A real connection is allowed, and deleting its target nulls it out.
	row2, err := db.ExecuteWrite(ctx,
		"INSERT INTO flights (date, origin, destination, connection) VALUES ('2024-05-02', 'KJFK', 'EDDF', ?) RETURNING id;", id)
	if err != nil {
		t.Fatalf("insert connected flight: %v", err)
	}
	id2 := model.AsInt64(row2[0])

	if _, err := db.ExecuteWrite(ctx, "DELETE FROM flights WHERE id = ?;", id); err != nil {
		t.Fatalf("delete connection target: %v", err)
	}
	rows, err := db.ExecuteRead(ctx, "SELECT connection FROM flights WHERE id = ?;", id2)
	if err != nil {
		t.Fatalf("read surviving flight: %v", err)
	}
	if rows[0][0] != nil {
		t.Errorf("connection = %v after target delete, want NULL", rows[0][0])
	}
}
