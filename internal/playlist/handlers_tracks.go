package playlist

import (
	"net/http"

	"github.com/Amr9876/music-sharing-microservices/playlist-service/internal/users"
)

// handleUploadMusic appends musicId to the playlist. Duplicates are allowed.
func (s *Server) handleUploadMusic(w http.ResponseWriter, r *http.Request, user *users.User) {
	ctx := r.Context()
	id, _ := playlistIDFrom(ctx)
	musicID, _ := musicIDFrom(ctx)

	if err := s.store.AppendTrack(ctx, id, musicID); err != nil {
		writeAppError(w, r, err)
		return
	}

	s.publishEvent(ctx, "playlist.track_added", map[string]any{
		"playlistId": id,
		"musicId":    musicID,
		"userId":     user.ID,
	})
	writeJSON(w, http.StatusOK, mutationResponse{Success: true})
}

// handleRemoveMusic drops musicId from the playlist; an absent id is a no-op.
func (s *Server) handleRemoveMusic(w http.ResponseWriter, r *http.Request, user *users.User) {
	ctx := r.Context()
	id, _ := playlistIDFrom(ctx)
	musicID, _ := musicIDFrom(ctx)

	if err := s.store.RemoveTrack(ctx, id, musicID); err != nil {
		writeAppError(w, r, err)
		return
	}

	s.publishEvent(ctx, "playlist.track_removed", map[string]any{
		"playlistId": id,
		"musicId":    musicID,
		"userId":     user.ID,
	})
	writeJSON(w, http.StatusOK, mutationResponse{Success: true})
}
