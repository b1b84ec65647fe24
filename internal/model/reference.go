package model

import "fmt"

// Airport is one row of the read-only airports reference table.
type Airport struct {
	ICAO         string  `json:"icao"`
	IATA         *string `json:"iata"`
	Type         *string `json:"type"`
	Name         *string `json:"name"`
	Municipality *string `json:"municipality"`
	Region       *string `json:"region"`
	Country      *string `json:"country"`
	Continent    *string `json:"continent"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	Timezone     *string `json:"timezone"`
}

// Airline is one row of the read-only airlines reference table.
type Airline struct {
	ICAO string  `json:"icao"`
	IATA *string `json:"iata"`
	Name *string `json:"name"`
}

// AirportFromRow maps a raw row, in airports column order, to an Airport.
func AirportFromRow(row []any) (*Airport, error) {
	if len(row) != 11 {
		return nil, fmt.Errorf("airport row has %d columns, want 11", len(row))
	}
	return &Airport{
		ICAO:         asString(row[0]),
		IATA:         asStringPtr(row[1]),
		Type:         asStringPtr(row[2]),
		Name:         asStringPtr(row[3]),
		Municipality: asStringPtr(row[4]),
		Region:       asStringPtr(row[5]),
		Country:      asStringPtr(row[6]),
		Continent:    asStringPtr(row[7]),
		Latitude:     asFloat64(row[8]),
		Longitude:    asFloat64(row[9]),
		Timezone:     asStringPtr(row[10]),
	}, nil
}

// AirlineFromRow maps a raw row, in airlines column order, to an Airline.
func AirlineFromRow(row []any) (*Airline, error) {
	if len(row) != 3 {
		return nil, fmt.Errorf("airline row has %d columns, want 3", len(row))
	}
	return &Airline{
		ICAO: asString(row[0]),
		IATA: asStringPtr(row[1]),
		Name: asStringPtr(row[2]),
	}, nil
}
