package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/tinytrails/backend/internal/domain"
	"github.com/tinytrails/backend/internal/hours"
	"github.com/tinytrails/backend/internal/service"
)

const resActivity = "activity"

// Activity is the JSON representation of a catalog entry.
// OpenNow is null when the activity has no schedule.
type Activity struct {
	ID           uuid.UUID      `json:"id"`
	Name         string         `json:"name"`
	Type         string         `json:"type"`
	AgeRange     []string       `json:"age_range"`
	Description  *string        `json:"description,omitempty"`
	OpeningHours *string        `json:"opening_hours"`
	Address      string         `json:"address,omitempty"`
	Latitude     *float64       `json:"latitude,omitempty"`
	Longitude    *float64       `json:"longitude,omitempty"`
	OpenNow      *bool          `json:"open_now"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	Hours        *ActivityHours `json:"hours,omitempty"`
}

// ActivityHours is the opening-hours block of an activity.
// Display is null when there is nothing to show.
type ActivityHours struct {
	Raw      *string              `json:"raw"`
	Schedule hours.Schedule       `json:"schedule"`
	Display  []hours.DisplayEntry `json:"display"`
	OpenNow  *bool                `json:"open_now"`
}

// Pagination describes the page returned by a list endpoint.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

// ActivityList is the body of GET /activities.
type ActivityList struct {
	Data       []Activity `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// CreateActivityRequest is the body of POST /activities.
type CreateActivityRequest struct {
	Name         string   `json:"name"`
	Type         string   `json:"type"`
	AgeRange     []string `json:"age_range"`
	Description  *string  `json:"description"`
	OpeningHours *string  `json:"opening_hours"`
	Address      string   `json:"address"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
}

// ScheduleRequest is the body of PUT /activities/{id}/hours.
type ScheduleRequest struct {
	Schedule hours.Schedule `json:"schedule"`
}

// listActivities handles GET /activities.
// Supports ?type=, ?open_now=, ?at= (RFC 3339), ?page= and ?limit=.
func (s *Server) listActivities(w http.ResponseWriter, r *http.Request) {
	var (
		typ     *string
		openNow *bool
		page    *int
		limit   *int
	)
	if !query(w, r, "type", &typ) || !query(w, r, "open_now", &openNow) ||
		!query(w, r, "page", &page) || !query(w, r, "limit", &limit) {
		return
	}
	at, ok := s.referenceTime(w, r)
	if !ok {
		return
	}

	filter := domain.ActivityFilter{OpenNow: openNow != nil && *openNow}
	if typ != nil {
		filter.Type = *typ
	}
	params := domain.NewPaginationParams(page, limit)

	items, total, err := s.Activities.List(r.Context(), filter, at, params)
	if err != nil {
		s.fail(w, r, err, resActivity)
		return
	}

	data := make([]Activity, len(items))
	for i, it := range items {
		data[i] = activityToResponse(it.Activity, it.Status)
	}
	writeJSON(w, http.StatusOK, ActivityList{
		Data:       data,
		Pagination: Pagination{Page: params.Page, Limit: params.Limit, Total: total},
	})
}

// createActivity handles POST /activities.
func (s *Server) createActivity(w http.ResponseWriter, r *http.Request) {
	var body CreateActivityRequest
	if !decodeBody(w, r, &body) {
		return
	}

	created, err := s.Activities.Create(r.Context(), domain.Activity{
		Name:         body.Name,
		Type:         body.Type,
		AgeRange:     body.AgeRange,
		Description:  body.Description,
		OpeningHours: body.OpeningHours,
		Address:      body.Address,
		Latitude:     body.Latitude,
		Longitude:    body.Longitude,
	})
	if err != nil {
		s.fail(w, r, err, resActivity)
		return
	}

	h := s.Activities.HoursOf(created, s.now())
	writeJSON(w, http.StatusCreated, activityWithHours(created, h))
}

// getActivity handles GET /activities/{id}. The response includes the
// hours block evaluated at ?at= or now.
func (s *Server) getActivity(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	at, ok := s.referenceTime(w, r)
	if !ok {
		return
	}

	a, err := s.Activities.GetByID(r.Context(), id)
	if err != nil {
		s.fail(w, r, err, resActivity)
		return
	}
	writeJSON(w, http.StatusOK, activityWithHours(a, s.Activities.HoursOf(a, at)))
}

// getActivityHours handles GET /activities/{id}/hours.
func (s *Server) getActivityHours(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	at, ok := s.referenceTime(w, r)
	if !ok {
		return
	}

	h, err := s.Activities.Hours(r.Context(), id, at)
	if err != nil {
		s.fail(w, r, err, resActivity)
		return
	}
	writeJSON(w, http.StatusOK, hoursToResponse(h))
}

// putActivityHours handles PUT /activities/{id}/hours.
// The schedule is validated strictly and stored in canonical text form.
func (s *Server) putActivityHours(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var body ScheduleRequest
	if !decodeBody(w, r, &body) {
		return
	}

	updated, err := s.Activities.SaveSchedule(r.Context(), id, body.Schedule)
	if err != nil {
		s.fail(w, r, err, resActivity)
		return
	}
	writeJSON(w, http.StatusOK, hoursToResponse(s.Activities.HoursOf(updated, s.now())))
}

// deleteActivityHours handles DELETE /activities/{id}/hours.
func (s *Server) deleteActivityHours(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	if err := s.Activities.ClearSchedule(r.Context(), id); err != nil {
		s.fail(w, r, err, resActivity)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- mapping helpers --------------------------------------------------------

func activityToResponse(a domain.Activity, st domain.OpenStatus) Activity {
	ageRange := a.AgeRange
	if ageRange == nil {
		ageRange = []string{}
	}
	return Activity{
		ID:           a.ID,
		Name:         a.Name,
		Type:         a.Type,
		AgeRange:     ageRange,
		Description:  a.Description,
		OpeningHours: a.OpeningHours,
		Address:      a.Address,
		Latitude:     a.Latitude,
		Longitude:    a.Longitude,
		OpenNow:      openNow(st),
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

func activityWithHours(a domain.Activity, h service.ActivityHours) Activity {
	resp := activityToResponse(a, h.Status)
	block := hoursToResponse(h)
	resp.Hours = &block
	return resp
}

func hoursToResponse(h service.ActivityHours) ActivityHours {
	return ActivityHours{
		Raw:      h.Raw,
		Schedule: h.Schedule,
		Display:  h.Display,
		OpenNow:  openNow(h.Status),
	}
}

// openNow maps the tri-state status to a nullable boolean.
func openNow(st domain.OpenStatus) *bool {
	if !st.Known {
		return nil
	}
	open := st.Open
	return &open
}
