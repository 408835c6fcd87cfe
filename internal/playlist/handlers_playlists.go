package playlist

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Amr9876/music-sharing-microservices/playlist-service/internal/media"
	"github.com/Amr9876/music-sharing-microservices/playlist-service/internal/users"
)

func (s *Server) handleGetPlaylist(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, _ := playlistIDFrom(ctx)

	pl, err := s.store.Get(ctx, id)
	if err != nil {
		writeAppError(w, r, err)
		return
	}

	out, err := s.aggr.Hydrate(ctx, *pl)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// handleListPlaylists returns every playlist fully hydrated, or an error.
func (s *Server) handleListPlaylists(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	playlists, err := s.store.List(ctx)
	if err != nil {
		writeAppError(w, r, err)
		return
	}

	out, err := s.aggr.HydrateAll(ctx, playlists)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// handleCreatePlaylist uploads the poster, then stores a new playlist
// authored by the caller.
func (s *Server) handleCreatePlaylist(w http.ResponseWriter, r *http.Request, user *users.User) {
	ctx := r.Context()

	var body createPlaylistRequest
	if err := s.decodeBody(r, &body, func() {
		body.Name = strings.TrimSpace(body.Name)
		body.ShortDesc = strings.TrimSpace(body.ShortDesc)
	}); err != nil {
		writeAppError(w, r, err)
		return
	}

	poster, err := media.DecodePoster(body.Poster)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	posterURL, err := s.uploader.Upload(ctx, poster)
	if err != nil {
		writeAppError(w, r, err)
		return
	}

	pl := Playlist{
		ID:        uuid.NewString(),
		Name:      body.Name,
		ShortDesc: body.ShortDesc,
		Author:    user.ID,
		PosterURL: posterURL,
		Musics:    []string{},
		Likes:     []string{},
	}
	if err := s.store.Create(ctx, &pl); err != nil {
		writeAppError(w, r, err)
		return
	}

	zerolog.Ctx(ctx).Info().Str("playlist_id", pl.ID).Str("author", pl.Author).Msg("playlist created")
	s.publishEvent(ctx, "playlist.created", map[string]any{"playlist": pl})

	writeJSON(w, http.StatusOK, mutationResponse{ID: pl.ID, Success: true})
}

// handleUpdatePlaylist replaces name and description. A new poster is
// uploaded only when one is sent.
func (s *Server) handleUpdatePlaylist(w http.ResponseWriter, r *http.Request, user *users.User) {
	ctx := r.Context()
	id, _ := playlistIDFrom(ctx)

	var body updatePlaylistRequest
	if err := s.decodeBody(r, &body, func() {
		body.Name = strings.TrimSpace(body.Name)
		body.ShortDesc = strings.TrimSpace(body.ShortDesc)
		body.Poster = strings.TrimSpace(body.Poster)
	}); err != nil {
		writeAppError(w, r, err)
		return
	}

	var posterURL string
	if body.Poster != "" {
		poster, err := media.DecodePoster(body.Poster)
		if err != nil {
			writeAppError(w, r, err)
			return
		}
		if posterURL, err = s.uploader.Upload(ctx, poster); err != nil {
			writeAppError(w, r, err)
			return
		}
	}

	if err := s.store.UpdateDetails(ctx, id, body.Name, body.ShortDesc, posterURL); err != nil {
		writeAppError(w, r, err)
		return
	}

	s.publishEvent(ctx, "playlist.updated", map[string]any{
		"playlistId": id,
		"name":       body.Name,
		"shortDesc":  body.ShortDesc,
		"posterUrl":  posterURL,
	})

	writeJSON(w, http.StatusOK, mutationResponse{ID: id, Success: true})
}
