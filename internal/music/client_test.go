package music

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Amr9876/music-sharing-microservices/playlist-service/internal/apperr"
)

func TestRetrieveByIDs_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/retrieveMusicsByIds", r.URL.Path)

		var body map[string][]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, []string{"m1", "m2"}, body["musicsIds"])

		// the music service keys its id field as "ID"
		_, _ = w.Write([]byte(`[{"ID":"m2","title":"Second","artistId":"a1"},{"ID":"m1","title":"First","likes":4}]`))
	}))
	defer srv.Close()

	tracks, err := NewClient(srv.URL, 0).RetrieveByIDs(context.Background(), []string{"m1", "m2"})
	require.NoError(t, err)
	require.Len(t, tracks, 2)
	assert.Equal(t, "m2", tracks[0].ID)
	assert.Equal(t, "Second", tracks[0].Title)
	assert.Equal(t, uint(4), tracks[1].Likes)
}

func TestRetrieveByIDs_NullIsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`null`))
	}))
	defer srv.Close()

	tracks, err := NewClient(srv.URL, 0).RetrieveByIDs(context.Background(), []string{"gone"})
	require.NoError(t, err)
	assert.NotNil(t, tracks)
	assert.Empty(t, tracks)
}

func TestRetrieveByIDs_Failures(t *testing.T) {
	t.Run("non success", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "mongo down", http.StatusInternalServerError)
		}))
		defer srv.Close()

		_, err := NewClient(srv.URL, 0).RetrieveByIDs(context.Background(), []string{"m1"})
		require.Error(t, err)
		assert.Equal(t, apperr.UpstreamUnavailable, apperr.KindOf(err))
		assert.Equal(t, http.StatusBadGateway, apperr.HTTPStatus(err))
		assert.ErrorContains(t, err, "mongo down")
	})

	t.Run("bad body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"not":"a list"}`))
		}))
		defer srv.Close()

		_, err := NewClient(srv.URL, 0).RetrieveByIDs(context.Background(), []string{"m1"})
		assert.Equal(t, apperr.UpstreamUnavailable, apperr.KindOf(err))
	})

	t.Run("unreachable", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		_, err := NewClient(url, 0).RetrieveByIDs(context.Background(), []string{"m1"})
		assert.Equal(t, apperr.UpstreamUnavailable, apperr.KindOf(err))
		assert.Equal(t, http.StatusServiceUnavailable, apperr.HTTPStatus(err))
	})
}
