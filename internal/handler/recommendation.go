package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/tinytrails/backend/internal/domain"
)

// Recommendation is the JSON representation of a scored activity.
type Recommendation struct {
	ActivityID uuid.UUID `json:"activity_id"`
	UserID     uuid.UUID `json:"user_id"`
	Score      float64   `json:"score"`
	Reason     string    `json:"reason"`
	CreatedAt  time.Time `json:"created_at"`
}

// RecommendationList is the body of both recommendation endpoints.
type RecommendationList struct {
	Data []Recommendation `json:"data"`
}

// RefreshRequest is the body of POST /recommendations/refresh.
type RefreshRequest struct {
	UserID uuid.UUID `json:"user_id"`
}

// refreshRecommendations handles POST /recommendations/refresh.
// The stored set is replaced by the freshly scored one, which is returned.
func (s *Server) refreshRecommendations(w http.ResponseWriter, r *http.Request) {
	var body RefreshRequest
	if !decodeBody(w, r, &body) {
		return
	}
	if body.UserID == uuid.Nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorBody(codeValidation, "user_id is required"))
		return
	}

	recs, err := s.Recommendations.Refresh(r.Context(), body.UserID)
	if err != nil {
		s.fail(w, r, err, resPreferences)
		return
	}
	writeJSON(w, http.StatusOK, recommendationsToResponse(recs))
}

// listRecommendations handles GET /users/{userID}/recommendations.
func (s *Server) listRecommendations(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathUUID(w, r, "userID")
	if !ok {
		return
	}
	recs, err := s.Recommendations.List(r.Context(), userID)
	if err != nil {
		s.fail(w, r, err, "recommendations")
		return
	}
	writeJSON(w, http.StatusOK, recommendationsToResponse(recs))
}

func recommendationsToResponse(recs []domain.Recommendation) RecommendationList {
	data := make([]Recommendation, len(recs))
	for i, rec := range recs {
		data[i] = Recommendation(rec)
	}
	return RecommendationList{Data: data}
}
