package music

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Amr9876/music-sharing-microservices/playlist-service/internal/apperr"
)

// Track is a music-service track. Only its ID is ever stored by the
// playlist service.
type Track struct {
	ID        string `json:"id"`
	ArtistID  string `json:"artistId"`
	Likes     uint   `json:"likes"`
	FileURL   string `json:"fileUrl"`
	PosterURL string `json:"posterUrl"`
	Title     string `json:"title"`
	ShortDesc string `json:"shortDesc"`
}

type retrieveRequest struct {
	MusicsIDs []string `json:"musicsIds"`
}

type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient builds a client for baseURL. A zero timeout leaves requests
// bounded only by the caller's context.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// RetrieveByIDs fetches every track in ids with one batched call.
func (c *Client) RetrieveByIDs(ctx context.Context, ids []string) ([]Track, error) {
	body, err := json.Marshal(retrieveRequest{MusicsIDs: ids})
	if err != nil {
		return nil, fmt.Errorf("music: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/retrieveMusicsByIds", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("music: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, apperr.Wrap(apperr.UpstreamUnavailable, "music service unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &apperr.Error{
			Kind:   apperr.UpstreamUnavailable,
			Msg:    fmt.Sprintf("music service returned %d", resp.StatusCode),
			Status: resp.StatusCode,
			Err:    fmt.Errorf("%s", bytes.TrimSpace(snippet)),
		}
	}

	var tracks []Track
	if err := json.NewDecoder(resp.Body).Decode(&tracks); err != nil {
		return nil, &apperr.Error{
			Kind:   apperr.UpstreamUnavailable,
			Msg:    "music service sent an unreadable track list",
			Status: resp.StatusCode,
			Err:    err,
		}
	}
	// an empty result is encoded as null upstream
	if tracks == nil {
		tracks = []Track{}
	}
	return tracks, nil
}
