// Package handler implements the HTTP handlers for the TinyTrails API.
// All handlers are methods on Server. Methods are split into domain-specific
// files (health.go, activity.go, etc.) but all share the same Server struct so
// they can access its dependencies.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tinytrails/backend/internal/domain"
	"github.com/tinytrails/backend/internal/hours"
	"github.com/tinytrails/backend/internal/service"
	"github.com/tinytrails/backend/internal/upstream"
)

// ActivityServicer defines the catalog and opening-hours operations the
// activity handlers depend on. Defining the interface here (in the consumer
// package) lets handler tests inject a mock without touching the database.
type ActivityServicer interface {
	Create(ctx context.Context, a domain.Activity) (domain.Activity, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Activity, error)
	List(ctx context.Context, filter domain.ActivityFilter, at time.Time, p domain.PaginationParams) ([]domain.ActivityWithStatus, int, error)
	Hours(ctx context.Context, id uuid.UUID, at time.Time) (service.ActivityHours, error)
	HoursOf(a domain.Activity, at time.Time) service.ActivityHours
	SaveSchedule(ctx context.Context, id uuid.UUID, sched hours.Schedule) (domain.Activity, error)
	ClearSchedule(ctx context.Context, id uuid.UUID) error
}

// PreferenceServicer defines the onboarding profile operations.
type PreferenceServicer interface {
	Get(ctx context.Context, userID uuid.UUID) (domain.Preference, error)
	Save(ctx context.Context, p domain.Preference) (domain.Preference, error)
}

// RecommendationServicer defines the recommendation operations.
type RecommendationServicer interface {
	Refresh(ctx context.Context, userID uuid.UUID) ([]domain.Recommendation, error)
	List(ctx context.Context, userID uuid.UUID) ([]domain.Recommendation, error)
}

// WeatherProvider returns current conditions at a coordinate.
type WeatherProvider interface {
	Current(ctx context.Context, lat, lon float64) (upstream.Weather, error)
}

// EventProvider returns tourism feed events for a region.
type EventProvider interface {
	Events(ctx context.Context, region string, limit int) ([]upstream.Event, error)
}

// TokenIssuer returns the public map token for the frontend geocoder.
type TokenIssuer interface {
	Token() (string, error)
}

// Services bundles every dependency of Server. Nil members are allowed in
// tests that do not hit the corresponding routes.
type Services struct {
	Activities      ActivityServicer
	Preferences     PreferenceServicer
	Recommendations RecommendationServicer
	Weather         WeatherProvider
	Events          EventProvider
	MapTokens       TokenIssuer
}

// Server holds the dependencies shared by all handlers.
type Server struct {
	Services
	log *slog.Logger
	now func() time.Time
}

// NewServer constructs the Server. A nil logger falls back to slog.Default().
func NewServer(svc Services, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{Services: svc, log: log, now: time.Now}
}

// NewHealthHandler returns a Server for health-check-only use.
func NewHealthHandler() *Server {
	return NewServer(Services{}, nil)
}

// WithClock replaces the time source used when a request carries no ?at=.
func (s *Server) WithClock(now func() time.Time) *Server {
	s.now = now
	return s
}

// Routes returns the API router. Cross-cutting middleware is applied by the
// caller so tests exercise the bare routes.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", s.getHealth)
	r.Get("/openapi.yaml", getOpenAPI)

	r.Route("/activities", func(r chi.Router) {
		r.Get("/", s.listActivities)
		r.Post("/", s.createActivity)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.getActivity)
			r.Get("/hours", s.getActivityHours)
			r.Put("/hours", s.putActivityHours)
			r.Delete("/hours", s.deleteActivityHours)
		})
	})

	r.Route("/users/{userID}", func(r chi.Router) {
		r.Get("/preferences", s.getPreferences)
		r.Put("/preferences", s.putPreferences)
		r.Get("/recommendations", s.listRecommendations)
	})
	r.Post("/recommendations/refresh", s.refreshRecommendations)

	r.Get("/weather", s.getWeather)
	r.Get("/geocoding/token", s.getMapToken)
	r.Get("/tourism/events", s.listEvents)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, errorBody(codeNotFound, "route not found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody("method_not_allowed", "method not allowed"))
	})
	return r
}
