package upstream_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinytrails/backend/internal/upstream"
)

const feedPayload = `[
	{"id": "e1", "name": " Kinderfest ", "startDate": "2025-06-07T10:00:00+02:00", "endDate": "2025-06-07", "location": "Stadtpark", "url": "https://example.org/e1"},
	{"id": "e2", "title": "Laternenumzug", "startDate": "bald"},
	{"id": "e3", "description": "no name"},
	{"id": "e4", "name": "Puppentheater"}
]`

func TestTourismClient_Events(t *testing.T) {
	var region string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		region = r.URL.Query().Get("region")
		_, _ = w.Write([]byte(feedPayload))
	}))
	t.Cleanup(srv.Close)

	tc := upstream.NewTourismClient(newTestClient(0), srv.URL+"/events")
	got, err := tc.Events(context.Background(), " Berlin ", 0)

	require.NoError(t, err)
	assert.Equal(t, "Berlin", region)
	require.Len(t, got, 3, "entries without a name are skipped")

	assert.Equal(t, "Kinderfest", got[0].Name)
	require.NotNil(t, got[0].Start)
	assert.True(t, got[0].Start.Equal(time.Date(2025, 6, 7, 8, 0, 0, 0, time.UTC)))
	require.NotNil(t, got[0].End)
	assert.Equal(t, "Stadtpark", got[0].Location)

	assert.Equal(t, "Laternenumzug", got[1].Name, "title is accepted as name")
	assert.Nil(t, got[1].Start, "unparseable dates are dropped")

	assert.Equal(t, "e4", got[2].ID)
}

func TestTourismClient_Events_Limit(t *testing.T) {
	var b strings.Builder
	b.WriteString("[")
	for i := range 150 {
		if i > 0 {
			b.WriteString(",")
		}
		fmt.Fprintf(&b, `{"id":"e%d","name":"Event %d"}`, i, i)
	}
	b.WriteString("]")
	srv, _ := countingServer(t, b.String(), http.StatusOK)
	tc := upstream.NewTourismClient(newTestClient(0), srv.URL)

	got, err := tc.Events(context.Background(), "", 2)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = tc.Events(context.Background(), "", 1000)
	require.NoError(t, err)
	assert.Len(t, got, upstream.MaxEventLimit)

	got, err = tc.Events(context.Background(), "", 0)
	require.NoError(t, err)
	assert.Len(t, got, upstream.DefaultEventLimit)
}

func TestTourismClient_NotConfigured(t *testing.T) {
	_, err := upstream.NewTourismClient(newTestClient(0), "").Events(context.Background(), "x", 1)

	assert.ErrorIs(t, err, upstream.ErrNotConfigured)
}

func TestMapTokenIssuer(t *testing.T) {
	tok, err := upstream.NewMapTokenIssuer("pk.public").Token()
	require.NoError(t, err)
	assert.Equal(t, "pk.public", tok)

	_, err = upstream.NewMapTokenIssuer("").Token()
	assert.ErrorIs(t, err, upstream.ErrNotConfigured)
}
