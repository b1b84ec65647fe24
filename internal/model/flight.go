// Package model defines the row types stored by the persistence layer and the
// ordered attribute lists the schema reconciler checks against live tables.
package model

import (
	"fmt"
)

// Seat is the seat position on a flight.
type Seat string

// AircraftSide is which side of the aircraft the seat was on.
type AircraftSide string

// TicketClass is the fare class of a flight.
type TicketClass string

// Purpose is the reason for a flight.
type Purpose string

const (
	SeatAisle  Seat = "aisle"
	SeatMiddle Seat = "middle"
	SeatWindow Seat = "window"

	SideLeft   AircraftSide = "left"
	SideRight  AircraftSide = "right"
	SideCenter AircraftSide = "center"

	ClassPrivate  TicketClass = "private"
	ClassFirst    TicketClass = "first"
	ClassBusiness TicketClass = "business"
	ClassEconomyP TicketClass = "economy+"
	ClassEconomy  TicketClass = "economy"

	PurposeLeisure  Purpose = "leisure"
	PurposeBusiness Purpose = "business"
	PurposeCrew     Purpose = "crew"
	PurposeOther    Purpose = "other"
)

// Valid reports whether the seat is one of the values allowed by the table's
// CHECK constraint.
func (s Seat) Valid() bool {
	switch s {
	case SeatAisle, SeatMiddle, SeatWindow:
		return true
	}
	return false
}

// Valid reports whether the side is allowed by the CHECK constraint.
func (s AircraftSide) Valid() bool {
	switch s {
	case SideLeft, SideRight, SideCenter:
		return true
	}
	return false
}

// Valid reports whether the class is allowed by the CHECK constraint.
func (c TicketClass) Valid() bool {
	switch c {
	case ClassPrivate, ClassFirst, ClassBusiness, ClassEconomyP, ClassEconomy:
		return true
	}
	return false
}

// Valid reports whether the purpose is allowed by the CHECK constraint.
func (p Purpose) Valid() bool {
	switch p {
	case PurposeLeisure, PurposeBusiness, PurposeCrew, PurposeOther:
		return true
	}
	return false
}

// Flight is one logged flight row.
type Flight struct {
	ID            int64         `json:"id"`
	Username      string        `json:"username"`
	Date          string        `json:"date"`
	Origin        string        `json:"origin"`
	Destination   string        `json:"destination"`
	DepartureTime *string       `json:"departure_time"`
	ArrivalTime   *string       `json:"arrival_time"`
	ArrivalDate   *string       `json:"arrival_date"`
	Seat          *Seat         `json:"seat"`
	AircraftSide  *AircraftSide `json:"aircraft_side"`
	TicketClass   *TicketClass  `json:"ticket_class"`
	Purpose       *Purpose      `json:"purpose"`
	Duration      *int64        `json:"duration"`
	Distance      *int64        `json:"distance"`
	Airplane      *string       `json:"airplane"`
	Airline       *string       `json:"airline"`
	TailNumber    *string       `json:"tail_number"`
	FlightNumber  *string       `json:"flight_number"`
	Notes         *string       `json:"notes"`
	Connection    *int64        `json:"connection"`
}

// flightAttributes is the ordered column list of the flights table. The
// reconciler treats it as the set of columns that must exist.
var flightAttributes = []string{
	"id",
	"username",
	"date",
	"origin",
	"destination",
	"departure_time",
	"arrival_time",
	"arrival_date",
	"seat",
	"aircraft_side",
	"ticket_class",
	"purpose",
	"duration",
	"distance",
	"airplane",
	"airline",
	"tail_number",
	"flight_number",
	"notes",
	"connection",
}

// FlightAttributes returns the ordered column names of the flights table.
func FlightAttributes() []string {
	out := make([]string, len(flightAttributes))
	copy(out, flightAttributes)
	return out
}

// FlightInsertColumns returns the columns set on insert: every attribute
// except the autoincrement id.
func FlightInsertColumns() []string {
	out := make([]string, len(flightAttributes)-1)
	copy(out, flightAttributes[1:])
	return out
}

// InsertArgs returns the flight's values in FlightInsertColumns order.
func (f *Flight) InsertArgs() []any {
	return []any{
		f.Username,
		f.Date,
		f.Origin,
		f.Destination,
		f.DepartureTime,
		f.ArrivalTime,
		f.ArrivalDate,
		f.Seat,
		f.AircraftSide,
		f.TicketClass,
		f.Purpose,
		f.Duration,
		f.Distance,
		f.Airplane,
		f.Airline,
		f.TailNumber,
		f.FlightNumber,
		f.Notes,
		f.Connection,
	}
}

// Validate checks the enum fields against their CHECK constraints so callers
// can reject bad input before it reaches the database.
func (f *Flight) Validate() error {
	if f.Date == "" {
		return fmt.Errorf("date is required")
	}
	if f.Origin == "" || f.Destination == "" {
		return fmt.Errorf("origin and destination are required")
	}
	if f.Seat != nil && !f.Seat.Valid() {
		return fmt.Errorf("invalid seat %q", *f.Seat)
	}
	if f.AircraftSide != nil && !f.AircraftSide.Valid() {
		return fmt.Errorf("invalid aircraft side %q", *f.AircraftSide)
	}
	if f.TicketClass != nil && !f.TicketClass.Valid() {
		return fmt.Errorf("invalid ticket class %q", *f.TicketClass)
	}
	if f.Purpose != nil && !f.Purpose.Valid() {
		return fmt.Errorf("invalid purpose %q", *f.Purpose)
	}
	return nil
}

// FlightFromRow maps a raw row, in flights column order, to a Flight.
func FlightFromRow(row []any) (*Flight, error) {
	if len(row) != len(flightAttributes) {
		return nil, fmt.Errorf("flight row has %d columns, want %d", len(row), len(flightAttributes))
	}

	f := &Flight{
		ID:            asInt64(row[0]),
		Username:      asString(row[1]),
		Date:          asString(row[2]),
		Origin:        asString(row[3]),
		Destination:   asString(row[4]),
		DepartureTime: asStringPtr(row[5]),
		ArrivalTime:   asStringPtr(row[6]),
		ArrivalDate:   asStringPtr(row[7]),
		Duration:      asInt64Ptr(row[12]),
		Distance:      asInt64Ptr(row[13]),
		Airplane:      asStringPtr(row[14]),
		Airline:       asStringPtr(row[15]),
		TailNumber:    asStringPtr(row[16]),
		FlightNumber:  asStringPtr(row[17]),
		Notes:         asStringPtr(row[18]),
		Connection:    asInt64Ptr(row[19]),
	}
	if s := asStringPtr(row[8]); s != nil {
		v := Seat(*s)
		f.Seat = &v
	}
	if s := asStringPtr(row[9]); s != nil {
		v := AircraftSide(*s)
		f.AircraftSide = &v
	}
	if s := asStringPtr(row[10]); s != nil {
		v := TicketClass(*s)
		f.TicketClass = &v
	}
	if s := asStringPtr(row[11]); s != nil {
		v := Purpose(*s)
		f.Purpose = &v
	}
	return f, nil
}
