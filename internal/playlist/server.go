package playlist

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"

	"github.com/Amr9876/music-sharing-microservices/playlist-service/internal/media"
)

type Server struct {
	store    Store
	verifier Verifier
	guard    *Guard
	aggr     *Aggregator
	uploader media.Uploader
	validate *validator.Validate

	rdb         *redis.Client
	createLimit func(http.Handler) http.Handler
}

type Option func(*Server)

// WithEvents publishes playlist events through rdb.
func WithEvents(rdb *redis.Client) Option {
	return func(s *Server) { s.rdb = rdb }
}

// WithCreateLimit puts mw in front of POST /createPlaylist.
func WithCreateLimit(mw func(http.Handler) http.Handler) Option {
	return func(s *Server) { s.createLimit = mw }
}

func NewServer(store Store, verifier Verifier, tracks TrackFetcher, uploader media.Uploader, opts ...Option) *Server {
	s := &Server{
		store:    store,
		verifier: verifier,
		guard:    NewGuard(store),
		aggr:     NewAggregator(tracks),
		uploader: uploader,
		validate: newValidator(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Server) Router(middlewares ...func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	for _, mw := range middlewares {
		r.Use(mw)
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.Get("/", s.handleRoot)
	r.Get("/health", s.handleHealth)

	r.Get("/getPlaylistById/{id}", withPlaylistID(s.handleGetPlaylist))
	r.Get("/getPlaylists", s.handleListPlaylists)

	r.Post("/likePlaylist/{id}", withPlaylistID(WithAuth(s.verifier, s.handleLikePlaylist)))
	r.Post("/unlikePlaylist/{id}", withPlaylistID(WithAuth(s.verifier, s.handleUnlikePlaylist)))

	// Owner only
	r.Post("/uploadMusicToPlaylist/{id}", withPlaylistID(withMusicID(
		WithAuth(s.verifier, WithOwnership(s.guard, s.handleUploadMusic)))))
	r.Put("/removeMusicFromPlaylist/{id}", withPlaylistID(withMusicID(
		WithAuth(s.verifier, WithOwnership(s.guard, s.handleRemoveMusic)))))
	r.Put("/updatePlaylist/{id}", withPlaylistID(
		WithAuth(s.verifier, WithOwnership(s.guard, s.handleUpdatePlaylist))))

	r.Group(func(r chi.Router) {
		if s.createLimit != nil {
			r.Use(s.createLimit)
		}
		r.Post("/createPlaylist", WithAuth(s.verifier, s.handleCreatePlaylist))
	})

	return r
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"isActive": true})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "playlist-service",
	})
}
