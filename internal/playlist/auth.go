package playlist

import (
	"context"
	"encoding/hex"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Amr9876/music-sharing-microservices/playlist-service/internal/users"
)

// Verifier resolves a bearer credential to the calling user.
type Verifier interface {
	Verify(ctx context.Context, token string) (*users.User, error)
}

// AuthHandlerFunc handles a request on behalf of an already verified user.
type AuthHandlerFunc func(w http.ResponseWriter, r *http.Request, user *users.User)

// WithAuth verifies the caller before running next. A failed verification
// ends the request and next never runs.
func WithAuth(v Verifier, next AuthHandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := users.BearerToken(r.Header.Get("Authorization"))
		user, err := v.Verify(r.Context(), token)
		if err != nil {
			writeAppError(w, r, err)
			return
		}
		next(w, r, user)
	}
}

// WithOwnership runs next only when user authored the playlist named by the
// route. It expects withPlaylistID to have run, and WithAuth to wrap it:
// WithAuth(v, WithOwnership(g, h)).
func WithOwnership(g *Guard, next AuthHandlerFunc) AuthHandlerFunc {
	return func(w http.ResponseWriter, r *http.Request, user *users.User) {
		id, ok := playlistIDFrom(r.Context())
		if !ok {
			writeAppError(w, r, ErrInvalidID)
			return
		}
		if err := g.Check(r.Context(), user, id); err != nil {
			writeAppError(w, r, err)
			return
		}
		next(w, r, user)
	}
}

// Guard confirms a user authored a playlist.
type Guard struct {
	store Store
}

func NewGuard(store Store) *Guard {
	return &Guard{store: store}
}

// Check loads the playlist once. The wrapped handler loads it again if it
// needs it.
func (g *Guard) Check(ctx context.Context, user *users.User, playlistID string) error {
	p, err := g.store.Get(ctx, playlistID)
	if err != nil {
		return err
	}
	if user == nil || p.Author != user.ID {
		return ErrNotOwner
	}
	return nil
}

type ctxPlaylistIDKey struct{}
type ctxMusicIDKey struct{}

// withPlaylistID rejects a missing or malformed {id} before anything else
// runs and stores the canonical form on the context.
func withPlaylistID(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parsePlaylistID(chi.URLParam(r, "id"))
		if !ok {
			writeAppError(w, r, ErrInvalidID)
			return
		}
		ctx := context.WithValue(r.Context(), ctxPlaylistIDKey{}, id)
		next(w, r.WithContext(ctx))
	}
}

// withMusicID does the same for the musicId query parameter.
func withMusicID(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseMusicID(r.URL.Query().Get("musicId"))
		if !ok {
			writeAppError(w, r, ErrInvalidMusicID)
			return
		}
		ctx := context.WithValue(r.Context(), ctxMusicIDKey{}, id)
		next(w, r.WithContext(ctx))
	}
}

func playlistIDFrom(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(ctxPlaylistIDKey{}).(string)
	return id, ok && id != ""
}

func musicIDFrom(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(ctxMusicIDKey{}).(string)
	return id, ok && id != ""
}

func parsePlaylistID(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if len(raw) != 36 {
		return "", false
	}
	u, err := uuid.Parse(raw)
	if err != nil {
		return "", false
	}
	return u.String(), true
}

// parseMusicID accepts a UUID or the music service's 24 hex digit object id.
func parseMusicID(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if id, ok := parsePlaylistID(raw); ok {
		return id, true
	}
	if len(raw) != 24 {
		return "", false
	}
	if _, err := hex.DecodeString(raw); err != nil {
		return "", false
	}
	return strings.ToLower(raw), true
}
