package playlist

import (
	"time"

	"github.com/Amr9876/music-sharing-microservices/playlist-service/internal/music"
)

// Playlist is the stored record. Musics holds track ids only; full tracks
// exist solely on HydratedPlaylist, which is never written back.
type Playlist struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	ShortDesc string    `json:"shortDesc"`
	Author    string    `json:"author"`
	PosterURL string    `json:"posterUrl"`
	Musics    []string  `json:"musics"`
	Likes     []string  `json:"likes"`
	CreatedAt time.Time `json:"createdAt"`
}

func (p *Playlist) LikedBy(userID string) bool {
	for _, id := range p.Likes {
		if id == userID {
			return true
		}
	}
	return false
}

// HydratedPlaylist is the outbound shape of a playlist.
type HydratedPlaylist struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	ShortDesc string        `json:"shortDesc"`
	Author    string        `json:"author"`
	PosterURL string        `json:"posterUrl"`
	Musics    []music.Track `json:"musics"`
	Likes     []string      `json:"likes"`
	CreatedAt time.Time     `json:"createdAt"`
}

func hydrated(p Playlist, tracks []music.Track) HydratedPlaylist {
	likes := p.Likes
	if likes == nil {
		likes = []string{}
	}
	return HydratedPlaylist{
		ID:        p.ID,
		Name:      p.Name,
		ShortDesc: p.ShortDesc,
		Author:    p.Author,
		PosterURL: p.PosterURL,
		Musics:    tracks,
		Likes:     likes,
		CreatedAt: p.CreatedAt,
	}
}

type createPlaylistRequest struct {
	Name      string `json:"name" validate:"required,max=200"`
	ShortDesc string `json:"shortDesc" validate:"required,max=1000"`
	Poster    string `json:"poster" validate:"required"`
}

// updatePlaylistRequest leaves the poster untouched when Poster is empty.
type updatePlaylistRequest struct {
	Name      string `json:"name" validate:"required,max=200"`
	ShortDesc string `json:"shortDesc" validate:"required,max=1000"`
	Poster    string `json:"poster"`
}

type mutationResponse struct {
	ID      string `json:"id,omitempty"`
	Success bool   `json:"success"`
}
