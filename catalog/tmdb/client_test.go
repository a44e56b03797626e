package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"

	"github.com/poiesic/costar/catalog"
	"github.com/poiesic/costar/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testToken = "test-token"

func newTestClient(t *testing.T, handler http.Handler, opts ...catalog.ConfigOption) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	opts = append([]catalog.ConfigOption{
		catalog.WithBaseURL(server.URL),
		catalog.WithAccessToken(testToken),
		catalog.WithRequestsPerSecond(0),
	}, opts...)
	client, err := newClient(catalog.NewConfig(opts...), server.Client())
	require.NoError(t, err)
	return client
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

// pagedHandler serves totalPages pages of two works each for any contributor.
func pagedHandler(t *testing.T, totalPages int, requests *atomic.Int32) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		assert.Equal(t, "Bearer "+testToken, r.Header.Get("Authorization"))
		assert.Equal(t, "/discover/movie", r.URL.Path)

		person, err := strconv.Atoi(r.URL.Query().Get("with_people"))
		require.NoError(t, err)
		page, err := strconv.Atoi(r.URL.Query().Get("page"))
		require.NoError(t, err)

		base := int64(person*1000 + page*10)
		writeJSON(t, w, pageResponse{
			Page:       page,
			TotalPages: totalPages,
			Results: []movieResult{
				{ID: base + 1, Title: fmt.Sprintf("p%d-a", page)},
				{ID: base + 2, OriginalTitle: fmt.Sprintf("p%d-b", page)},
			},
		})
	}
}

func TestDiscoverWorksByContributor_ConcatenatesPagesInOrder(t *testing.T) {
	var requests atomic.Int32
	client := newTestClient(t, pagedHandler(t, 3, &requests))

	works, err := client.DiscoverWorksByContributor(context.Background(), 7)
	require.NoError(t, err)

	assert.Equal(t, int32(3), requests.Load())
	require.Len(t, works, 6)
	assert.Equal(t, []core.ID{7011, 7012, 7021, 7022, 7031, 7032},
		[]core.ID{works[0].ID, works[1].ID, works[2].ID, works[3].ID, works[4].ID, works[5].ID})
	assert.Equal(t, "p1-a", works[0].Title)
	// Falls back to original_title.
	assert.Equal(t, "p1-b", works[1].Title)
}

func TestDiscoverWorksByContributor_MaxPages(t *testing.T) {
	var requests atomic.Int32
	client := newTestClient(t, pagedHandler(t, 10, &requests), catalog.WithMaxPages(2))

	works, err := client.DiscoverWorksByContributor(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, works, 4)
	assert.Equal(t, int32(2), requests.Load())
}

func TestDiscoverWorksByContributor_Empty(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, pageResponse{Page: 1, TotalPages: 0})
	}))

	works, err := client.DiscoverWorksByContributor(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, works)
}

func TestDiscoverWorksByContributor_FailsOnAnyPage(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "2" {
			http.Error(w, `{"status_message":"boom"}`, http.StatusInternalServerError)
			return
		}
		writeJSON(t, w, pageResponse{Page: 1, TotalPages: 3, Results: []movieResult{{ID: 1}}})
	}))

	works, err := client.DiscoverWorksByContributor(context.Background(), 1)
	assert.Nil(t, works)
	require.ErrorIs(t, err, catalog.ErrUnexpectedStatus)

	var statusErr *catalog.StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
	assert.Contains(t, statusErr.Body, "boom")
}

func TestGetWorkDetails(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/movie/603", r.URL.Path)
		writeJSON(t, w, map[string]any{"id": 603, "title": "The Matrix", "release_date": "1999-03-30"})
	}))

	work, err := client.GetWorkDetails(context.Background(), 603)
	require.NoError(t, err)
	assert.Equal(t, core.Work{ID: 603, Title: "The Matrix"}, *work)
}

func TestGetWorkDetails_NotFound(t *testing.T) {
	client := newTestClient(t, http.NotFoundHandler())

	_, err := client.GetWorkDetails(context.Background(), 1)
	assert.ErrorIs(t, err, catalog.ErrUnexpectedStatus)
}

func TestGetWorkContributors(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/movie/603/credits", r.URL.Path)
		writeJSON(t, w, map[string]any{
			"id": 603,
			"cast": []map[string]any{
				{"id": 6384, "name": "Keanu Reeves", "character": "Neo"},
				{"id": 2975, "name": "Laurence Fishburne", "character": "Morpheus"},
			},
			"crew": []map[string]any{{"id": 9339, "name": "Lana Wachowski"}},
		})
	}))

	contributors, err := client.GetWorkContributors(context.Background(), 603)
	require.NoError(t, err)
	assert.Equal(t, []core.Contributor{
		{ID: 6384, Name: "Keanu Reeves"},
		{ID: 2975, Name: "Laurence Fishburne"},
	}, contributors)
}

func TestDiscoverSeedWorks(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/discover/movie", r.URL.Path)
		assert.Empty(t, r.URL.Query().Get("with_people"))
		writeJSON(t, w, pageResponse{Page: 1, TotalPages: 20, Results: []movieResult{{ID: 11, Title: "Star Wars"}, {ID: 0}}})
	}))

	works, err := client.DiscoverSeedWorks(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []core.Work{{ID: 11, Title: "Star Wars"}}, works)
}

func TestMalformedResponse(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("{not json"))
	}))

	_, err := client.GetWorkDetails(context.Background(), 1)
	assert.ErrorIs(t, err, catalog.ErrMalformedResponse)
}

func TestCancelledContext(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, pageResponse{})
	}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := client.DiscoverWorksByContributor(ctx, 1)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewClient_RequiresToken(t *testing.T) {
	_, err := NewClient(catalog.NewConfig())
	assert.ErrorIs(t, err, catalog.ErrAccessTokenRequired)
}

func TestHasNextPage(t *testing.T) {
	client := &Client{config: catalog.NewConfig()}
	assert.True(t, client.hasNextPage(1, 2))
	assert.False(t, client.hasNextPage(2, 2))
	assert.False(t, client.hasNextPage(maxAPIPage, maxAPIPage+10))
}
