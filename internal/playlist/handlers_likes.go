package playlist

import (
	"net/http"

	"github.com/Amr9876/music-sharing-microservices/playlist-service/internal/users"
)

func (s *Server) handleLikePlaylist(w http.ResponseWriter, r *http.Request, user *users.User) {
	ctx := r.Context()
	id, _ := playlistIDFrom(ctx)

	pl, err := s.store.Get(ctx, id)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	if pl.LikedBy(user.ID) {
		writeAppError(w, r, ErrAlreadyLiked)
		return
	}

	if err := s.store.AddLike(ctx, id, user.ID); err != nil {
		writeAppError(w, r, err)
		return
	}

	s.publishEvent(ctx, "playlist.liked", map[string]any{
		"playlistId": id,
		"userId":     user.ID,
	})
	writeJSON(w, http.StatusOK, mutationResponse{Success: true})
}

func (s *Server) handleUnlikePlaylist(w http.ResponseWriter, r *http.Request, user *users.User) {
	ctx := r.Context()
	id, _ := playlistIDFrom(ctx)

	pl, err := s.store.Get(ctx, id)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	if !pl.LikedBy(user.ID) {
		writeAppError(w, r, ErrNotLiked)
		return
	}

	if err := s.store.RemoveLike(ctx, id, user.ID); err != nil {
		writeAppError(w, r, err)
		return
	}

	s.publishEvent(ctx, "playlist.unliked", map[string]any{
		"playlistId": id,
		"userId":     user.ID,
	})
	writeJSON(w, http.StatusOK, mutationResponse{Success: true})
}
