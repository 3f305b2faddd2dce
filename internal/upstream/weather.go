package upstream

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/tinytrails/backend/internal/domain"
)

// Weather is the current conditions at a coordinate, in metric units.
type Weather struct {
	TemperatureC float64 `json:"temperature_c"`
	Description  string  `json:"description"`
	Icon         string  `json:"icon"`
	WindSpeedMS  float64 `json:"wind_speed_ms"`
	Humidity     int     `json:"humidity"`
	Location     string  `json:"location"`
}

// owmCurrent is the subset of the OpenWeatherMap "current weather" payload we read.
type owmCurrent struct {
	Weather []struct {
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity int     `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Name string `json:"name"`
}

// WeatherClient reads current weather from an OpenWeatherMap-compatible API.
type WeatherClient struct {
	c       *Client
	baseURL string
	apiKey  string
}

// NewWeatherClient returns a WeatherClient. An empty apiKey makes every call
// fail with ErrNotConfigured.
func NewWeatherClient(c *Client, baseURL, apiKey string) *WeatherClient {
	return &WeatherClient{c: c, baseURL: strings.TrimRight(baseURL, "/"), apiKey: apiKey}
}

// Current returns the conditions at lat/lon with German descriptions.
// Returns domain.ErrValidation for coordinates outside the valid range.
func (w *WeatherClient) Current(ctx context.Context, lat, lon float64) (Weather, error) {
	if w.apiKey == "" {
		return Weather{}, ErrNotConfigured
	}
	if math.IsNaN(lat) || math.IsNaN(lon) || lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return Weather{}, fmt.Errorf("%w: coordinates out of range", domain.ErrValidation)
	}

	q := url.Values{}
	// Four decimals (~11 m) keeps nearby requests on the same cache entry.
	q.Set("lat", strconv.FormatFloat(lat, 'f', 4, 64))
	q.Set("lon", strconv.FormatFloat(lon, 'f', 4, 64))
	q.Set("units", "metric")
	q.Set("lang", "de")
	q.Set("appid", w.apiKey)

	var raw owmCurrent
	if err := w.c.GetJSON(ctx, w.baseURL+"/weather?"+q.Encode(), &raw); err != nil {
		return Weather{}, fmt.Errorf("upstream.WeatherClient.Current: %w", err)
	}

	out := Weather{
		TemperatureC: raw.Main.Temp,
		Humidity:     raw.Main.Humidity,
		WindSpeedMS:  raw.Wind.Speed,
		Location:     raw.Name,
	}
	if len(raw.Weather) > 0 {
		out.Description = raw.Weather[0].Description
		out.Icon = raw.Weather[0].Icon
	}
	return out, nil
}
