package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"flightlog/internal/apperr"
	"flightlog/internal/model"
)

// flightColumns is the SELECT list for flight queries, in attribute order so
// rows map straight onto model.FlightFromRow.
var flightColumns = strings.Join(model.FlightAttributes(), ", ")

// updatableFlightColumns is the closed set of columns a PATCH may touch.
// Values are always bound as parameters; only these fixed names ever reach
// the SQL text.
var updatableFlightColumns = map[string]bool{
	"date": true, "origin": true, "destination": true,
	"departure_time": true, "arrival_time": true, "arrival_date": true,
	"seat": true, "aircraft_side": true, "ticket_class": true, "purpose": true,
	"duration": true, "distance": true, "airplane": true, "airline": true,
	"tail_number": true, "flight_number": true, "notes": true, "connection": true,
}

func (s *Server) handleListFlights(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 1000 {
			s.writeError(w, apperr.New(http.StatusBadRequest, "invalid limit"))
			return
		}
		limit = n
	}
	offset := 0
	if v := r.URL.Query().Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.writeError(w, apperr.New(http.StatusBadRequest, "invalid offset"))
			return
		}
		offset = n
	}

	rows, err := s.db.ExecuteRead(r.Context(),
		"SELECT "+flightColumns+" FROM flights ORDER BY date DESC, id DESC LIMIT ? OFFSET ?;",
		limit, offset)
	if err != nil {
		s.writeError(w, err)
		return
	}

	flights := make([]*model.Flight, 0, len(rows))
	for _, row := range rows {
		f, err := model.FlightFromRow(row)
		if err != nil {
			s.writeError(w, err)
			return
		}
		flights = append(flights, f)
	}
	writeJSON(w, http.StatusOK, flights)
}

func (s *Server) handleGetFlight(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	rows, err := s.db.ExecuteRead(r.Context(),
		"SELECT "+flightColumns+" FROM flights WHERE id = ?;", id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if len(rows) == 0 {
		s.writeError(w, apperr.New(http.StatusNotFound, "flight not found"))
		return
	}

	f, err := model.FlightFromRow(rows[0])
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, f)
}

func (s *Server) handleCreateFlight(w http.ResponseWriter, r *http.Request) {
	var f model.Flight
	if err := json.NewDecoder(r.Body).Decode(&f); err != nil {
		s.writeError(w, apperr.New(http.StatusBadRequest, "invalid request body: "+err.Error()))
		return
	}
	if f.Username == "" {
		f.Username = "admin"
	}
	if err := f.Validate(); err != nil {
		s.writeError(w, apperr.New(http.StatusBadRequest, err.Error()))
		return
	}

	cols := model.FlightInsertColumns()
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")
	row, err := s.db.ExecuteWrite(r.Context(),
		"INSERT INTO flights ("+strings.Join(cols, ", ")+") VALUES ("+placeholders+") RETURNING id;",
		f.InsertArgs()...)
	if err != nil {
		s.writeError(w, err)
		return
	}

	f.ID = model.AsInt64(row[0])
	writeJSON(w, http.StatusCreated, f)
}

func (s *Server) handleUpdateFlight(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	var patch map[string]any
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		s.writeError(w, apperr.New(http.StatusBadRequest, "invalid request body: "+err.Error()))
		return
	}
	if len(patch) == 0 {
		s.writeError(w, apperr.New(http.StatusBadRequest, "empty patch"))
		return
	}

	var assignments []string
	var args []any
	for col, val := range patch {
		if !updatableFlightColumns[col] {
			s.writeError(w, apperr.Newf(http.StatusBadRequest, "column %q is not updatable", col))
			return
		}
		if err := validatePatchValue(col, val); err != nil {
			s.writeError(w, err)
			return
		}
		assignments = append(assignments, col+" = ?")
		args = append(args, val)
	}
	args = append(args, id)

	row, err := s.db.ExecuteWrite(r.Context(),
		"UPDATE flights SET "+strings.Join(assignments, ", ")+" WHERE id = ? RETURNING "+flightColumns+";",
		args...)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if row == nil {
		s.writeError(w, apperr.New(http.StatusNotFound, "flight not found"))
		return
	}

	f, err := model.FlightFromRow(row)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, f)
}

func (s *Server) handleDeleteFlight(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	row, err := s.db.ExecuteWrite(r.Context(),
		"DELETE FROM flights WHERE id = ? RETURNING id;", id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if row == nil {
		s.writeError(w, apperr.New(http.StatusNotFound, "flight not found"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// validatePatchValue rejects enum values the table CHECK constraints would
// refuse, so bad input fails with a 400 instead of a 500 from the driver.
func validatePatchValue(col string, val any) error {
	if val == nil {
		return nil
	}
	s, isString := val.(string)
	if !isString {
		return nil
	}
	switch col {
	case "seat":
		if !model.Seat(s).Valid() {
			return apperr.Newf(http.StatusBadRequest, "invalid seat %q", s)
		}
	case "aircraft_side":
		if !model.AircraftSide(s).Valid() {
			return apperr.Newf(http.StatusBadRequest, "invalid aircraft side %q", s)
		}
	case "ticket_class":
		if !model.TicketClass(s).Valid() {
			return apperr.Newf(http.StatusBadRequest, "invalid ticket class %q", s)
		}
	case "purpose":
		if !model.Purpose(s).Valid() {
			return apperr.Newf(http.StatusBadRequest, "invalid purpose %q", s)
		}
	}
	return nil
}
