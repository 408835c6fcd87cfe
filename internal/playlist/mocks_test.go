package playlist

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/mock"

	"github.com/Amr9876/music-sharing-microservices/playlist-service/internal/apperr"
	"github.com/Amr9876/music-sharing-microservices/playlist-service/internal/music"
	"github.com/Amr9876/music-sharing-microservices/playlist-service/internal/users"
)

const (
	ownerID    = "11111111-1111-1111-1111-111111111111"
	otherID    = "22222222-2222-2222-2222-222222222222"
	playlistID = "3b241101-e2bb-4255-8caf-4136c566a962"
	musicID    = "64a7f0c2e4b0a1b2c3d4e5f6"

	ownerToken = "owner-token"
	otherToken = "other-token"
)

// MockStore implements Store for handler tests.
type MockStore struct {
	mock.Mock
}

func (m *MockStore) Get(ctx context.Context, id string) (*Playlist, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Playlist), args.Error(1)
}

func (m *MockStore) List(ctx context.Context) ([]Playlist, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Playlist), args.Error(1)
}

func (m *MockStore) Create(ctx context.Context, p *Playlist) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockStore) UpdateDetails(ctx context.Context, id, name, shortDesc, posterURL string) error {
	args := m.Called(ctx, id, name, shortDesc, posterURL)
	return args.Error(0)
}

func (m *MockStore) AddLike(ctx context.Context, id, userID string) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

func (m *MockStore) RemoveLike(ctx context.Context, id, userID string) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

func (m *MockStore) AppendTrack(ctx context.Context, id, musicID string) error {
	args := m.Called(ctx, id, musicID)
	return args.Error(0)
}

func (m *MockStore) RemoveTrack(ctx context.Context, id, musicID string) error {
	args := m.Called(ctx, id, musicID)
	return args.Error(0)
}

// fakeVerifier resolves tokens from a fixed table and counts calls.
type fakeVerifier struct {
	users map[string]*users.User
	calls int32
}

func newFakeVerifier() *fakeVerifier {
	return &fakeVerifier{users: map[string]*users.User{
		ownerToken: {ID: ownerID, FullName: "Owner"},
		otherToken: {ID: otherID, FullName: "Other"},
	}}
}

func (f *fakeVerifier) Verify(ctx context.Context, token string) (*users.User, error) {
	atomic.AddInt32(&f.calls, 1)
	if token == "" {
		return nil, users.ErrNotAuthenticated
	}
	u, ok := f.users[token]
	if !ok {
		return nil, apperr.Upstream(apperr.Unauthenticated, "Not authenticated", http.StatusUnauthorized)
	}
	return u, nil
}

func (f *fakeVerifier) Calls() int {
	return int(atomic.LoadInt32(&f.calls))
}

// fakeTracks answers RetrieveByIDs through fn and records every call.
type fakeTracks struct {
	mu    sync.Mutex
	calls [][]string
	fn    func(ctx context.Context, ids []string) ([]music.Track, error)
}

func (f *fakeTracks) RetrieveByIDs(ctx context.Context, ids []string) ([]music.Track, error) {
	f.mu.Lock()
	f.calls = append(f.calls, append([]string(nil), ids...))
	f.mu.Unlock()
	if f.fn != nil {
		return f.fn(ctx, ids)
	}
	return tracksFor(ids), nil
}

func (f *fakeTracks) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func tracksFor(ids []string) []music.Track {
	out := make([]music.Track, 0, len(ids))
	for _, id := range ids {
		out = append(out, music.Track{ID: id, Title: "title-" + id})
	}
	return out
}

type fakeUploader struct {
	url   string
	err   error
	calls int32
	got   []byte
}

func (f *fakeUploader) Upload(ctx context.Context, data []byte) (string, error) {
	atomic.AddInt32(&f.calls, 1)
	f.got = data
	if f.err != nil {
		return "", f.err
	}
	return f.url, nil
}

var errUpstream = errors.New("connection refused")

type testEnv struct {
	srv      *Server
	router   chi.Router
	store    *MockStore
	verifier *fakeVerifier
	tracks   *fakeTracks
	uploader *fakeUploader
}

func newTestEnv(t *testing.T, opts ...Option) *testEnv {
	t.Helper()
	env := &testEnv{
		store:    &MockStore{},
		verifier: newFakeVerifier(),
		tracks:   &fakeTracks{},
		uploader: &fakeUploader{url: "https://res.cloudinary.com/demo/poster.png"},
	}
	env.srv = NewServer(env.store, env.verifier, env.tracks, env.uploader, opts...)
	env.router = env.srv.Router()
	t.Cleanup(func() { env.store.AssertExpectations(t) })
	return env
}

func ownedPlaylist() *Playlist {
	return &Playlist{
		ID:        playlistID,
		Name:      "Road trip",
		ShortDesc: "songs for the car",
		Author:    ownerID,
		PosterURL: "https://res.cloudinary.com/demo/old.png",
		Musics:    []string{},
		Likes:     []string{},
	}
}
