package playlist

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/Amr9876/music-sharing-microservices/playlist-service/internal/apperr"
	"github.com/Amr9876/music-sharing-microservices/playlist-service/internal/music"
)

// TrackFetcher resolves track ids to tracks in one batched call.
type TrackFetcher interface {
	RetrieveByIDs(ctx context.Context, ids []string) ([]music.Track, error)
}

// Aggregator swaps a playlist's track ids for the tracks themselves.
type Aggregator struct {
	tracks TrackFetcher
}

func NewAggregator(tracks TrackFetcher) *Aggregator {
	return &Aggregator{tracks: tracks}
}

// Hydrate fetches p's tracks with a single call. Track order is whatever
// the music service returns. A playlist without tracks makes no call.
func (a *Aggregator) Hydrate(ctx context.Context, p Playlist) (HydratedPlaylist, error) {
	if len(p.Musics) == 0 {
		return hydrated(p, []music.Track{}), nil
	}

	tracks, err := a.tracks.RetrieveByIDs(ctx, p.Musics)
	if err != nil {
		if apperr.KindOf(err) == apperr.Internal {
			err = apperr.Wrap(apperr.UpstreamUnavailable, "music service unavailable", err)
		}
		return HydratedPlaylist{}, err
	}
	if tracks == nil {
		tracks = []music.Track{}
	}
	return hydrated(p, tracks), nil
}

// HydrateAll hydrates every playlist concurrently, one music-service call
// per playlist. It returns all of them, in input order, or the first error
// and nothing else; the remaining calls are cancelled on failure.
func (a *Aggregator) HydrateAll(ctx context.Context, playlists []Playlist) ([]HydratedPlaylist, error) {
	out := make([]HydratedPlaylist, len(playlists))

	g, gctx := errgroup.WithContext(ctx)
	for i := range playlists {
		i := i
		g.Go(func() error {
			hp, err := a.Hydrate(gctx, playlists[i])
			if err != nil {
				return err
			}
			out[i] = hp
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
