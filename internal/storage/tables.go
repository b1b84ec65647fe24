package storage

import "flightlog/internal/model"

// tableSpec describes one managed table: its name, the DDL body used to
// create it, and the ordered column list the reconciler expects to find.
type tableSpec struct {
	name       string
	ddl        string
	attributes []string
}

const flightsDDL = `(
	id               INTEGER PRIMARY KEY AUTOINCREMENT,
	username         TEXT NOT NULL DEFAULT 'admin',
	date             TEXT NOT NULL,
	origin           TEXT NOT NULL,
	destination      TEXT NOT NULL,
	departure_time   TEXT,
	arrival_time     TEXT,
	arrival_date     TEXT,
	seat             TEXT NULL CHECK(seat IN ('aisle', 'middle', 'window')),
	aircraft_side    TEXT NULL CHECK(aircraft_side IN ('left', 'right', 'center')),
	ticket_class     TEXT NULL CHECK(ticket_class IN ('private', 'first', 'business', 'economy+', 'economy')),
	purpose          TEXT NULL CHECK(purpose IN ('leisure', 'business', 'crew', 'other')),
	duration         INTEGER,
	distance         INTEGER,
	airplane         TEXT,
	airline          TEXT,
	tail_number      TEXT,
	flight_number    TEXT,
	notes            TEXT,
	connection       INTEGER NULL,
	FOREIGN KEY (connection) REFERENCES flights (id) ON DELETE SET NULL,
	CHECK (connection IS NULL OR connection <> id)
)`

const usersDDL = `(
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	username      TEXT NOT NULL UNIQUE COLLATE NOCASE,
	password_hash TEXT NOT NULL,
	is_admin      INTEGER NOT NULL DEFAULT 0,
	last_login    DATETIME,
	created_on    DATETIME NOT NULL DEFAULT current_timestamp
)`

const airportsDDL = `CREATE TABLE airports (
	icao         TEXT PRIMARY KEY,
	iata         TEXT,
	type         TEXT,
	name         TEXT,
	municipality TEXT,
	region       TEXT,
	country      TEXT,
	continent    TEXT,
	latitude     REAL,
	longitude    REAL,
	timezone     TEXT
)`

const airlinesDDL = `CREATE TABLE airlines (
	icao TEXT PRIMARY KEY,
	iata TEXT,
	name TEXT
)`

// tableSpecs is the closed set of user tables the reconciler manages. The
// reference tables (airports, airlines) are rebuilt wholesale each startup
// and never patched, so they are not part of this set.
func tableSpecs() []tableSpec {
	return []tableSpec{
		{name: "flights", ddl: flightsDDL, attributes: model.FlightAttributes()},
		{name: "users", ddl: usersDDL, attributes: model.UserAttributes()},
	}
}
