package media

import (
	"context"
	"encoding/base64"
	"strings"

	"github.com/Amr9876/music-sharing-microservices/playlist-service/internal/apperr"
)

var (
	ErrPosterRequired = apperr.New(apperr.InvalidArgument, "poster is required")
	ErrInvalidPoster  = apperr.New(apperr.InvalidArgument, "Invalid poster payload")
)

// Uploader stores a decoded media payload and returns its public https URL.
type Uploader interface {
	Upload(ctx context.Context, data []byte) (string, error)
}

// DecodePoster accepts raw base64 or a "data:<mime>;base64,<data>" URI.
func DecodePoster(payload string) ([]byte, error) {
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return nil, ErrPosterRequired
	}

	if strings.HasPrefix(payload, "data:") {
		header, data, ok := strings.Cut(payload, ",")
		if !ok || !strings.HasSuffix(header, ";base64") {
			return nil, ErrInvalidPoster
		}
		payload = data
	}

	decoded, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		decoded, err = base64.RawStdEncoding.DecodeString(payload)
	}
	if err != nil || len(decoded) == 0 {
		return nil, ErrInvalidPoster
	}
	return decoded, nil
}
