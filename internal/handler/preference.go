package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/tinytrails/backend/internal/domain"
)

const resPreferences = "preferences"

// Preference is the JSON representation of an onboarding profile.
type Preference struct {
	UserID             uuid.UUID `json:"user_id"`
	Interests          []string  `json:"interests"`
	ChildAgeRanges     []string  `json:"child_age_ranges"`
	MaxDistanceKm      float64   `json:"max_distance_km"`
	AccessibilityNeeds []string  `json:"accessibility_needs"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// PreferenceRequest is the body of PUT /users/{userID}/preferences.
// The user id comes from the path.
type PreferenceRequest struct {
	Interests          []string `json:"interests"`
	ChildAgeRanges     []string `json:"child_age_ranges"`
	MaxDistanceKm      float64  `json:"max_distance_km"`
	AccessibilityNeeds []string `json:"accessibility_needs"`
}

// getPreferences handles GET /users/{userID}/preferences.
func (s *Server) getPreferences(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathUUID(w, r, "userID")
	if !ok {
		return
	}
	p, err := s.Preferences.Get(r.Context(), userID)
	if err != nil {
		s.fail(w, r, err, resPreferences)
		return
	}
	writeJSON(w, http.StatusOK, preferenceToResponse(p))
}

// putPreferences handles PUT /users/{userID}/preferences.
// The whole profile is replaced.
func (s *Server) putPreferences(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathUUID(w, r, "userID")
	if !ok {
		return
	}
	var body PreferenceRequest
	if !decodeBody(w, r, &body) {
		return
	}

	saved, err := s.Preferences.Save(r.Context(), domain.Preference{
		UserID:             userID,
		Interests:          body.Interests,
		ChildAgeRanges:     body.ChildAgeRanges,
		MaxDistanceKm:      body.MaxDistanceKm,
		AccessibilityNeeds: body.AccessibilityNeeds,
	})
	if err != nil {
		s.fail(w, r, err, resPreferences)
		return
	}
	writeJSON(w, http.StatusOK, preferenceToResponse(saved))
}

func preferenceToResponse(p domain.Preference) Preference {
	return Preference{
		UserID:             p.UserID,
		Interests:          orEmpty(p.Interests),
		ChildAgeRanges:     orEmpty(p.ChildAgeRanges),
		MaxDistanceKm:      p.MaxDistanceKm,
		AccessibilityNeeds: orEmpty(p.AccessibilityNeeds),
		UpdatedAt:          p.UpdatedAt,
	}
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
