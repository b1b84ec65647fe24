package api

import (
	"net/http"

	"flightlog/internal/apperr"
	"flightlog/internal/model"
)

const searchLimit = 25

func (s *Server) handleSearchAirports(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		s.writeError(w, apperr.New(http.StatusBadRequest, "missing query parameter q"))
		return
	}

	pattern := "%" + q + "%"
	rows, err := s.db.ExecuteRead(r.Context(),
		`SELECT icao, iata, type, name, municipality, region, country, continent, latitude, longitude, timezone
		 FROM airports
		 WHERE icao LIKE ? OR iata LIKE ? OR name LIKE ? OR municipality LIKE ?
		 ORDER BY icao LIMIT ?;`,
		pattern, pattern, pattern, pattern, searchLimit)
	if err != nil {
		s.writeError(w, err)
		return
	}

	airports := make([]*model.Airport, 0, len(rows))
	for _, row := range rows {
		a, err := model.AirportFromRow(row)
		if err != nil {
			s.writeError(w, err)
			return
		}
		airports = append(airports, a)
	}
	writeJSON(w, http.StatusOK, airports)
}

func (s *Server) handleSearchAirlines(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		s.writeError(w, apperr.New(http.StatusBadRequest, "missing query parameter q"))
		return
	}

	pattern := "%" + q + "%"
	rows, err := s.db.ExecuteRead(r.Context(),
		`SELECT icao, iata, name FROM airlines
		 WHERE icao LIKE ? OR iata LIKE ? OR name LIKE ?
		 ORDER BY icao LIMIT ?;`,
		pattern, pattern, pattern, searchLimit)
	if err != nil {
		s.writeError(w, err)
		return
	}

	airlines := make([]*model.Airline, 0, len(rows))
	for _, row := range rows {
		a, err := model.AirlineFromRow(row)
		if err != nil {
			s.writeError(w, err)
			return
		}
		airlines = append(airlines, a)
	}
	writeJSON(w, http.StatusOK, airlines)
}
