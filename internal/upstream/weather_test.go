package upstream_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinytrails/backend/internal/domain"
	"github.com/tinytrails/backend/internal/upstream"
)

const owmPayload = `{
	"weather": [{"description": "leichter Regen", "icon": "10d"}],
	"main": {"temp": 14.2, "humidity": 81},
	"wind": {"speed": 3.6},
	"name": "Berlin"
}`

func TestWeatherClient_Current(t *testing.T) {
	var query url.Values
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		query = r.URL.Query()
		_, _ = w.Write([]byte(owmPayload))
	}))
	t.Cleanup(srv.Close)

	wc := upstream.NewWeatherClient(newTestClient(0), srv.URL+"/", "secret")
	got, err := wc.Current(context.Background(), 52.52, 13.405)

	require.NoError(t, err)
	assert.Equal(t, upstream.Weather{
		TemperatureC: 14.2,
		Description:  "leichter Regen",
		Icon:         "10d",
		WindSpeedMS:  3.6,
		Humidity:     81,
		Location:     "Berlin",
	}, got)
	assert.Equal(t, "/weather", path)
	assert.Equal(t, "52.5200", query.Get("lat"))
	assert.Equal(t, "13.4050", query.Get("lon"))
	assert.Equal(t, "metric", query.Get("units"))
	assert.Equal(t, "de", query.Get("lang"))
	assert.Equal(t, "secret", query.Get("appid"))
}

func TestWeatherClient_NotConfigured(t *testing.T) {
	wc := upstream.NewWeatherClient(newTestClient(0), "http://unused", "")

	_, err := wc.Current(context.Background(), 1, 1)

	assert.ErrorIs(t, err, upstream.ErrNotConfigured)
}

func TestWeatherClient_InvalidCoordinates(t *testing.T) {
	wc := upstream.NewWeatherClient(newTestClient(0), "http://unused", "key")

	_, err := wc.Current(context.Background(), 91, 0)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = wc.Current(context.Background(), 0, -181)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestWeatherClient_UpstreamFailure(t *testing.T) {
	srv, _ := countingServer(t, `{"message":"Invalid API key"}`, http.StatusUnauthorized)

	wc := upstream.NewWeatherClient(newTestClient(0), srv.URL, "bad")
	_, err := wc.Current(context.Background(), 0, 0)

	var se *upstream.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusUnauthorized, se.StatusCode)
}
