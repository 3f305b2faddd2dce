package upstream

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Event limits for TourismClient.Events.
const (
	DefaultEventLimit = 20
	MaxEventLimit     = 100
)

// Event is one entry of the regional tourism feed, normalised.
type Event struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Start       *time.Time `json:"start,omitempty"`
	End         *time.Time `json:"end,omitempty"`
	Location    string     `json:"location,omitempty"`
	URL         string     `json:"url,omitempty"`
}

// feedEvent accepts the field spellings seen across feed versions.
type feedEvent struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Title       string `json:"title"`
	Description string `json:"description"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Location    string `json:"location"`
	URL         string `json:"url"`
}

// TourismClient reads events from the tourism data feed.
type TourismClient struct {
	c       *Client
	feedURL string
}

// NewTourismClient returns a TourismClient. An empty feedURL makes every call
// fail with ErrNotConfigured.
func NewTourismClient(c *Client, feedURL string) *TourismClient {
	return &TourismClient{c: c, feedURL: feedURL}
}

// Events returns up to limit events for region. A limit of zero means
// DefaultEventLimit; larger values are capped at MaxEventLimit. Entries
// without a name are skipped.
func (t *TourismClient) Events(ctx context.Context, region string, limit int) ([]Event, error) {
	if t.feedURL == "" {
		return nil, ErrNotConfigured
	}
	switch {
	case limit <= 0:
		limit = DefaultEventLimit
	case limit > MaxEventLimit:
		limit = MaxEventLimit
	}

	u, err := url.Parse(t.feedURL)
	if err != nil {
		return nil, fmt.Errorf("upstream.TourismClient.Events: feed url: %w", err)
	}
	if region = strings.TrimSpace(region); region != "" {
		q := u.Query()
		q.Set("region", region)
		u.RawQuery = q.Encode()
	}

	var raw []feedEvent
	if err := t.c.GetJSON(ctx, u.String(), &raw); err != nil {
		return nil, fmt.Errorf("upstream.TourismClient.Events: %w", err)
	}

	out := make([]Event, 0, min(len(raw), limit))
	for _, fe := range raw {
		if len(out) == limit {
			break
		}
		name := strings.TrimSpace(fe.Name)
		if name == "" {
			name = strings.TrimSpace(fe.Title)
		}
		if name == "" {
			continue
		}
		out = append(out, Event{
			ID:          fe.ID,
			Name:        name,
			Description: strings.TrimSpace(fe.Description),
			Start:       parseFeedTime(fe.StartDate),
			End:         parseFeedTime(fe.EndDate),
			Location:    strings.TrimSpace(fe.Location),
			URL:         fe.URL,
		})
	}
	return out, nil
}

// parseFeedTime accepts RFC 3339 timestamps and plain dates; anything else is dropped.
func parseFeedTime(s string) *time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}
