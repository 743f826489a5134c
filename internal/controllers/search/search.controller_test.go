package searchController

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"peoplefinder/config"
	. "peoplefinder/internal/models"
	"peoplefinder/internal/upstream"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestController(t *testing.T, handler http.HandlerFunc) (*SearchController, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := upstream.New(config.Config{
		UpstreamURL:     server.URL,
		UpstreamTimeout: 5 * time.Second,
	})

	// No cache and no event bus; the controller degrades to direct fetches.
	return New(nil, client, nil), server
}

func TestFetch_InactiveStateNeverFetches(t *testing.T) {
	var calls atomic.Int32
	controller, _ := newTestController(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`[]`))
	})

	payload, err := controller.Fetch(context.Background(), "token", SearchState{Page: 1})
	require.NoError(t, err)
	assert.False(t, payload.Active)
	assert.Nil(t, payload.Response)
	assert.Equal(t, int32(0), calls.Load())
}

func TestFetch_ActiveState(t *testing.T) {
	controller, _ := newTestController(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Smith", r.URL.Query().Get("lastname"))
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		w.Write([]byte(`[{"id":"p1","firstname":"John","lastname":"Smith"}]`))
	})

	state := SearchState{Filters: &SearchFilters{LastName: "Smith"}, Page: 2}
	payload, err := controller.Fetch(context.Background(), "token", state)
	require.NoError(t, err)

	assert.True(t, payload.Active)
	assert.False(t, payload.Cached)
	assert.Equal(t, "lastName=Smith&page=2", payload.Key)
	require.NotNil(t, payload.Response)
	require.Len(t, payload.Response.Data, 1)
	assert.Equal(t, 2, payload.Response.Page)
}

func TestFetch_PageChangeIsADistinctKey(t *testing.T) {
	controller, _ := newTestController(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})

	filters := &SearchFilters{City: "Austin"}

	page1, err := controller.Fetch(context.Background(), "token", SearchState{Filters: filters, Page: 1})
	require.NoError(t, err)
	page2, err := controller.Fetch(context.Background(), "token", SearchState{Filters: filters, Page: 2})
	require.NoError(t, err)

	assert.NotEqual(t, page1.Key, page2.Key)
}

func TestFetch_UpstreamErrorPropagates(t *testing.T) {
	controller, _ := newTestController(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"message":"index rebuilding"}`))
	})

	state := SearchState{Filters: &SearchFilters{LastName: "Smith"}, Page: 1}
	_, err := controller.Fetch(context.Background(), "token", state)
	require.Error(t, err)
	assert.True(t, upstream.IsServer(err))
	assert.Equal(t, "index rebuilding", upstream.UserMessage(err, "fallback"))
}

func TestStates(t *testing.T) {
	controller, _ := newTestController(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/people/states", r.URL.Path)
		w.Write([]byte(`["KY","TX"]`))
	})

	states, err := controller.States(context.Background(), "token")
	require.NoError(t, err)
	assert.Equal(t, []string{"KY", "TX"}, states)
}

func TestPersonByID(t *testing.T) {
	controller, _ := newTestController(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/people/p1", r.URL.Path)
		w.Write([]byte(`{"id":"p1","firstname":"John","dob":"19800115"}`))
	})

	person, err := controller.PersonByID(context.Background(), "token", "p1")
	require.NoError(t, err)
	assert.Equal(t, "John", person.Firstname)
}
