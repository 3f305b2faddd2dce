package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/tinytrails/backend/internal/domain"
	"github.com/tinytrails/backend/internal/handler"
	"github.com/tinytrails/backend/internal/hours"
	"github.com/tinytrails/backend/internal/service"
	"github.com/tinytrails/backend/internal/upstream"
)

// mockActivityServicer is a test double for handler.ActivityServicer.
// Set only the method fields your test needs. HoursOf is evaluated by a real
// ActivityService in UTC since it is pure.
type mockActivityServicer struct {
	create        func(ctx context.Context, a domain.Activity) (domain.Activity, error)
	getByID       func(ctx context.Context, id uuid.UUID) (domain.Activity, error)
	list          func(ctx context.Context, f domain.ActivityFilter, at time.Time, p domain.PaginationParams) ([]domain.ActivityWithStatus, int, error)
	hours         func(ctx context.Context, id uuid.UUID, at time.Time) (service.ActivityHours, error)
	saveSchedule  func(ctx context.Context, id uuid.UUID, s hours.Schedule) (domain.Activity, error)
	clearSchedule func(ctx context.Context, id uuid.UUID) error
}

func (m *mockActivityServicer) Create(ctx context.Context, a domain.Activity) (domain.Activity, error) {
	return m.create(ctx, a)
}
func (m *mockActivityServicer) GetByID(ctx context.Context, id uuid.UUID) (domain.Activity, error) {
	return m.getByID(ctx, id)
}
func (m *mockActivityServicer) List(ctx context.Context, f domain.ActivityFilter, at time.Time, p domain.PaginationParams) ([]domain.ActivityWithStatus, int, error) {
	return m.list(ctx, f, at, p)
}
func (m *mockActivityServicer) Hours(ctx context.Context, id uuid.UUID, at time.Time) (service.ActivityHours, error) {
	return m.hours(ctx, id, at)
}
func (m *mockActivityServicer) HoursOf(a domain.Activity, at time.Time) service.ActivityHours {
	return service.NewActivityService(nil, time.UTC).HoursOf(a, at)
}
func (m *mockActivityServicer) SaveSchedule(ctx context.Context, id uuid.UUID, s hours.Schedule) (domain.Activity, error) {
	return m.saveSchedule(ctx, id, s)
}
func (m *mockActivityServicer) ClearSchedule(ctx context.Context, id uuid.UUID) error {
	return m.clearSchedule(ctx, id)
}

type mockPreferenceServicer struct {
	get  func(ctx context.Context, userID uuid.UUID) (domain.Preference, error)
	save func(ctx context.Context, p domain.Preference) (domain.Preference, error)
}

func (m *mockPreferenceServicer) Get(ctx context.Context, userID uuid.UUID) (domain.Preference, error) {
	return m.get(ctx, userID)
}
func (m *mockPreferenceServicer) Save(ctx context.Context, p domain.Preference) (domain.Preference, error) {
	return m.save(ctx, p)
}

type mockRecommendationServicer struct {
	refresh func(ctx context.Context, userID uuid.UUID) ([]domain.Recommendation, error)
	list    func(ctx context.Context, userID uuid.UUID) ([]domain.Recommendation, error)
}

func (m *mockRecommendationServicer) Refresh(ctx context.Context, userID uuid.UUID) ([]domain.Recommendation, error) {
	return m.refresh(ctx, userID)
}
func (m *mockRecommendationServicer) List(ctx context.Context, userID uuid.UUID) ([]domain.Recommendation, error) {
	return m.list(ctx, userID)
}

type mockWeather struct {
	current func(ctx context.Context, lat, lon float64) (upstream.Weather, error)
}

func (m *mockWeather) Current(ctx context.Context, lat, lon float64) (upstream.Weather, error) {
	return m.current(ctx, lat, lon)
}

type mockEvents struct {
	events func(ctx context.Context, region string, limit int) ([]upstream.Event, error)
}

func (m *mockEvents) Events(ctx context.Context, region string, limit int) ([]upstream.Event, error) {
	return m.events(ctx, region, limit)
}

// compile-time checks: the doubles must satisfy the handler interfaces.
var (
	_ handler.ActivityServicer       = (*mockActivityServicer)(nil)
	_ handler.PreferenceServicer     = (*mockPreferenceServicer)(nil)
	_ handler.RecommendationServicer = (*mockRecommendationServicer)(nil)
	_ handler.WeatherProvider        = (*mockWeather)(nil)
	_ handler.EventProvider          = (*mockEvents)(nil)
	_ handler.TokenIssuer            = (*upstream.MapTokenIssuer)(nil)
)

// ---- helpers ---------------------------------------------------------------

// fixedNow is Monday 2 June 2025, 12:00 UTC.
var fixedNow = time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)

// newHTTPHandler wires a Server with the given services into the real router,
// with the clock pinned to fixedNow.
func newHTTPHandler(svc handler.Services) http.Handler {
	return handler.NewServer(svc, nil).WithClock(func() time.Time { return fixedNow }).Routes()
}

func serve(h http.Handler, method, target string, body *bytes.Buffer) *httptest.ResponseRecorder {
	var req *http.Request
	if body == nil {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, body)
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) handler.ErrorDetail {
	t.Helper()
	var resp handler.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp.Error
}

func strPtr(s string) *string { return &s }
