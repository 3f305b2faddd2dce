package handler

import (
	"net/http"

	"github.com/tinytrails/backend/internal/upstream"
)

// MapToken is the body of GET /geocoding/token.
type MapToken struct {
	Token string `json:"token"`
}

// EventList is the body of GET /tourism/events.
type EventList struct {
	Data []upstream.Event `json:"data"`
}

// getWeather handles GET /weather?lat=&lon=.
func (s *Server) getWeather(w http.ResponseWriter, r *http.Request) {
	var lat, lon float64
	if !requiredQuery(w, r, "lat", &lat) || !requiredQuery(w, r, "lon", &lon) {
		return
	}
	weather, err := s.Weather.Current(r.Context(), lat, lon)
	if err != nil {
		s.fail(w, r, err, resWeather)
		return
	}
	writeJSON(w, http.StatusOK, weather)
}

// getMapToken handles GET /geocoding/token.
func (s *Server) getMapToken(w http.ResponseWriter, r *http.Request) {
	tok, err := s.MapTokens.Token()
	if err != nil {
		s.fail(w, r, err, resMap)
		return
	}
	w.Header().Set("Cache-Control", "private, max-age=3600")
	writeJSON(w, http.StatusOK, MapToken{Token: tok})
}

// listEvents handles GET /tourism/events?region=&limit=.
func (s *Server) listEvents(w http.ResponseWriter, r *http.Request) {
	var (
		region *string
		limit  *int
	)
	if !query(w, r, "region", &region) || !query(w, r, "limit", &limit) {
		return
	}
	var (
		reg string
		n   int
	)
	if region != nil {
		reg = *region
	}
	if limit != nil {
		n = *limit
	}

	events, err := s.Events.Events(r.Context(), reg, n)
	if err != nil {
		s.fail(w, r, err, resEvents)
		return
	}
	writeJSON(w, http.StatusOK, EventList{Data: events})
}
