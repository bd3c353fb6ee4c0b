package graph

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julis-sh/mitgliederinfo/internal/api/rest"
	"github.com/julis-sh/mitgliederinfo/internal/config"
	"github.com/julis-sh/mitgliederinfo/internal/model"
	"github.com/julis-sh/mitgliederinfo/internal/testutil"
)

func testConfig() config.Graph {
	return config.Graph{
		CalendarUser:     "info@julis-sh.de",
		CalendarID:       "cal-1",
		PageSize:         50,
		MaxPages:         10,
		MaxParallelLists: 2,
	}
}

func setup(t *testing.T, cfg config.Graph, mux *http.ServeMux) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	rc, err := rest.New(srv.URL+"/v1.0", srv.Client(), rest.RetryPolicy{}, testutil.MakeNoopLogger())
	require.NoError(t, err)

	fixed := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)
	return New(rc, cfg, testutil.MakeNoopLogger(), func() time.Time { return fixed }), srv
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	io.WriteString(w, body)
}

func event(id, start, end, zone string) string {
	return fmt.Sprintf(`{"id":%q,"subject":"Sitzung %s","isAllDay":false,`+
		`"start":{"dateTime":%q,"timeZone":%q},"end":{"dateTime":%q,"timeZone":%q},`+
		`"location":{"displayName":"Kiel"}}`, id, id, start, zone, end, zone)
}

func TestFetchCalendarEvents_FollowsPagination(t *testing.T) {
	mux := http.NewServeMux()
	var srvURL string
	mux.HandleFunc("GET /v1.0/users/{user}/calendars/{calendar}/events", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "info@julis-sh.de", r.PathValue("user"))
		assert.Equal(t, "cal-1", r.PathValue("calendar"))
		assert.Equal(t, "start/dateTime asc", r.URL.Query().Get("$orderby"))
		assert.Equal(t, "50", r.URL.Query().Get("$top"))
		assert.Equal(t, "Bearer graph-token", r.Header.Get("Authorization"))

		writeJSON(w, http.StatusOK, fmt.Sprintf(`{"value":[%s,%s],"@odata.nextLink":%q}`,
			event("c", "2025-06-03T10:00:00.0000000", "2025-06-03T11:00:00.0000000", "UTC"),
			event("a", "2025-06-01T10:00:00.0000000", "2025-06-01T11:00:00.0000000", "UTC"),
			srvURL+"/v1.0/events-page-2?$skip=2"))
	})
	mux.HandleFunc("GET /v1.0/events-page-2", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2", r.URL.Query().Get("$skip"))
		writeJSON(w, http.StatusOK, fmt.Sprintf(`{"value":[%s]}`,
			event("b", "2025-06-02T10:00:00", "2025-06-02T11:00:00", "UTC")))
	})
	c, srv := setup(t, testConfig(), mux)
	srvURL = srv.URL

	events, err := c.FetchCalendarEvents(t.Context(), "graph-token", "", "")
	require.NoError(t, err)
	require.Len(t, events, 3)

	ids := []string{events[0].ID, events[1].ID, events[2].ID}
	assert.Equal(t, []string{"a", "b", "c"}, ids)
	assert.Equal(t, time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC), events[0].Start.UTC())
	assert.Equal(t, "Kiel", events[0].Location)
}

func TestFetchCalendarEvents_BadNextLink(t *testing.T) {
	tests := []struct {
		name string
		link func(srvURL string) string
	}{
		{name: "repeated next link", link: func(srvURL string) string { return srvURL + "/v1.0/loop" }},
		{name: "foreign host", link: func(string) string { return "https://evil.example.com/v1.0/loop" }},
		{name: "relative next link", link: func(string) string { return "/v1.0/loop" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux := http.NewServeMux()
			var srvURL string
			respond := func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusOK, fmt.Sprintf(`{"value":[],"@odata.nextLink":%q}`, tt.link(srvURL)))
			}
			mux.HandleFunc("GET /v1.0/users/{user}/calendars/{calendar}/events", respond)
			mux.HandleFunc("GET /v1.0/loop", respond)
			c, srv := setup(t, testConfig(), mux)
			srvURL = srv.URL

			_, err := c.FetchCalendarEvents(t.Context(), "graph-token", "", "")
			require.Error(t, err)
			assert.ErrorIs(t, err, model.ErrDecode)
		})
	}
}

func TestFetchCalendarEvents_PageCap(t *testing.T) {
	mux := http.NewServeMux()
	var srvURL string
	mux.HandleFunc("GET /v1.0/users/{user}/calendars/{calendar}/events", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, fmt.Sprintf(`{"value":[],"@odata.nextLink":%q}`, srvURL+"/v1.0/page?n=1"))
	})
	mux.HandleFunc("GET /v1.0/page", func(w http.ResponseWriter, r *http.Request) {
		var n int
		fmt.Sscanf(r.URL.Query().Get("n"), "%d", &n)
		writeJSON(w, http.StatusOK, fmt.Sprintf(`{"value":[],"@odata.nextLink":%q}`, fmt.Sprintf("%s/v1.0/page?n=%d", srvURL, n+1)))
	})

	cfg := testConfig()
	cfg.MaxPages = 3
	c, srv := setup(t, cfg, mux)
	srvURL = srv.URL

	_, err := c.FetchCalendarEvents(t.Context(), "graph-token", "", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrDecode)
	assert.Contains(t, err.Error(), "exceeded 3 pages")
}

func TestFetchCalendarEvents_UnparsableDate(t *testing.T) {
	body := fmt.Sprintf(`{"value":[%s]}`, event("x", "morgen", "2025-06-01T11:00:00", "UTC"))

	newMux := func() *http.ServeMux {
		mux := http.NewServeMux()
		mux.HandleFunc("GET /v1.0/users/{user}/calendars/{calendar}/events", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, body)
		})
		return mux
	}

	t.Run("strict", func(t *testing.T) {
		c, _ := setup(t, testConfig(), newMux())

		_, err := c.FetchCalendarEvents(t.Context(), "graph-token", "", "")
		require.Error(t, err)
		assert.ErrorIs(t, err, model.ErrDecode)
	})

	t.Run("lenient", func(t *testing.T) {
		cfg := testConfig()
		cfg.LenientDates = true
		c, _ := setup(t, cfg, newMux())

		events, err := c.FetchCalendarEvents(t.Context(), "graph-token", "", "")
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC), events[0].Start)
	})
}

func TestFetchCalendarEvents_ExplicitCalendar(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1.0/users/{user}/calendars/{calendar}/events", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "vorstand@julis-sh.de", r.PathValue("user"))
		assert.Equal(t, "AAMk-x=", r.PathValue("calendar"))
		writeJSON(w, http.StatusOK, `{"value":[]}`)
	})
	c, _ := setup(t, testConfig(), mux)

	events, err := c.FetchCalendarEvents(t.Context(), "graph-token", "AAMk-x=", "vorstand@julis-sh.de")
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestClient_RequiresToken(t *testing.T) {
	spy := &testutil.RoundTripSpy{}
	rc, err := rest.New("https://graph.example.com/v1.0", &http.Client{Transport: spy}, rest.RetryPolicy{}, testutil.MakeNoopLogger())
	require.NoError(t, err)
	c := New(rc, testConfig(), testutil.MakeNoopLogger(), nil)

	_, err = c.FetchCalendarEvents(t.Context(), "", "", "")
	assert.ErrorIs(t, err, model.ErrNotLoggedIn)
	_, err = c.FetchPlannerTasks(t.Context(), "")
	assert.ErrorIs(t, err, model.ErrNotLoggedIn)
	_, err = c.FetchToDoTasks(t.Context(), "")
	assert.ErrorIs(t, err, model.ErrNotLoggedIn)
	assert.Equal(t, 0, spy.Calls())
}
