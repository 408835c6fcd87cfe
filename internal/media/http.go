package media

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog"

	"github.com/Amr9876/music-sharing-microservices/playlist-service/internal/apperr"
)

// HTTPUploader posts posters to a media service that answers {"url": "..."}.
// Uploads are idempotent on the media side, so transient failures are retried.
type HTTPUploader struct {
	baseURL string
	client  *retryablehttp.Client
}

func NewHTTPUploader(baseURL string, logger zerolog.Logger) *HTTPUploader {
	client := retryablehttp.NewClient()
	client.RetryMax = 3
	client.RetryWaitMax = time.Second * 10
	client.Logger = leveledLogger{logger.With().Str("component", "media-upload").Logger()}
	// hand the last response back instead of a bare "giving up" error
	client.ErrorHandler = retryablehttp.PassthroughErrorHandler

	return &HTTPUploader{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

type uploadResponse struct {
	URL       string `json:"url"`
	SecureURL string `json:"secure_url"`
}

func (u *HTTPUploader) Upload(ctx context.Context, data []byte) (string, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, u.baseURL+"/upload", data)
	if err != nil {
		return "", fmt.Errorf("media: build request: %w", err)
	}
	req.Header.Set("Content-Type", http.DetectContentType(data))
	req.Header.Set("Accept", "application/json")

	resp, err := u.client.Do(req)
	if err != nil {
		return "", apperr.Wrap(apperr.UpstreamUnavailable, "media upload failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", &apperr.Error{
			Kind:   apperr.UpstreamUnavailable,
			Msg:    fmt.Sprintf("media service returned %d", resp.StatusCode),
			Status: resp.StatusCode,
			Err:    fmt.Errorf("%s", strings.TrimSpace(string(body))),
		}
	}

	var out uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", &apperr.Error{
			Kind:   apperr.UpstreamUnavailable,
			Msg:    "media service sent an unreadable response",
			Status: resp.StatusCode,
			Err:    err,
		}
	}

	url := out.SecureURL
	if url == "" {
		url = out.URL
	}
	if url == "" {
		return "", apperr.Upstream(apperr.UpstreamUnavailable, "media upload returned no url", resp.StatusCode)
	}
	return url, nil
}

// leveledLogger routes retryablehttp's logs into zerolog.
type leveledLogger struct {
	logger zerolog.Logger
}

func (l leveledLogger) Error(msg string, kv ...interface{}) { l.logger.Error().Fields(kv).Msg(msg) }
func (l leveledLogger) Warn(msg string, kv ...interface{})  { l.logger.Warn().Fields(kv).Msg(msg) }
func (l leveledLogger) Info(msg string, kv ...interface{})  { l.logger.Debug().Fields(kv).Msg(msg) }
func (l leveledLogger) Debug(msg string, kv ...interface{}) { l.logger.Debug().Fields(kv).Msg(msg) }
