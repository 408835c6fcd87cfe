package playlist

import "github.com/Amr9876/music-sharing-microservices/playlist-service/internal/apperr"

var (
	ErrInvalidID        = apperr.New(apperr.InvalidArgument, "Invalid ID")
	ErrInvalidMusicID   = apperr.New(apperr.InvalidArgument, "Invalid music ID")
	ErrInvalidBody      = apperr.New(apperr.InvalidArgument, "invalid JSON body")
	ErrBodyTooLarge     = apperr.New(apperr.TooLarge, "request body too large")
	ErrPlaylistNotFound = apperr.New(apperr.NotFound, "Playlist not found")
	ErrNotOwner         = apperr.New(apperr.Forbidden, "You are not the owner of this playlist")
	ErrAlreadyLiked     = apperr.New(apperr.Conflict, "You already liked this playlist")
	ErrNotLiked         = apperr.New(apperr.Conflict, "You didn't like this playlist")
)
