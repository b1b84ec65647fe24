package api

import (
	"net/http"

	"flightlog/internal/model"
)

// Statistics summarizes the logged flights.
type Statistics struct {
	TotalFlights   int64            `json:"total_flights"`
	TotalDuration  int64            `json:"total_duration"`
	TotalDistance  int64            `json:"total_distance"`
	UniqueAirports int64            `json:"unique_airports"`
	FlightsPerUser map[string]int64 `json:"flights_per_user"`
}

func (s *Server) handleStatistics(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	rows, err := s.db.ExecuteRead(ctx,
		`SELECT COUNT(*), COALESCE(SUM(duration), 0), COALESCE(SUM(distance), 0) FROM flights;`)
	if err != nil {
		s.writeError(w, err)
		return
	}

	stats := Statistics{FlightsPerUser: make(map[string]int64)}
	if len(rows) > 0 {
		stats.TotalFlights = model.AsInt64(rows[0][0])
		stats.TotalDuration = model.AsInt64(rows[0][1])
		stats.TotalDistance = model.AsInt64(rows[0][2])
	}

	rows, err = s.db.ExecuteRead(ctx,
		`SELECT COUNT(DISTINCT airport) FROM (
			SELECT origin AS airport FROM flights
			UNION SELECT destination FROM flights
		);`)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if len(rows) > 0 {
		stats.UniqueAirports = model.AsInt64(rows[0][0])
	}

	rows, err = s.db.ExecuteRead(ctx,
		`SELECT username, COUNT(*) FROM flights GROUP BY username;`)
	if err != nil {
		s.writeError(w, err)
		return
	}
	for _, row := range rows {
		stats.FlightsPerUser[model.AsString(row[0])] = model.AsInt64(row[1])
	}

	writeJSON(w, http.StatusOK, stats)
}
