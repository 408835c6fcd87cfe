package users

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Amr9876/music-sharing-microservices/playlist-service/internal/apperr"
)

var ErrNotAuthenticated = apperr.New(apperr.Unauthenticated, "Not authenticated")

// User is the caller's profile as returned by the user service. It lives
// for one request and is never stored here.
type User struct {
	ID         string `json:"id"`
	FullName   string `json:"fullName"`
	Gender     string `json:"gender"`
	Email      string `json:"email"`
	Followers  uint   `json:"followers"`
	Followings uint   `json:"followings"`
	ProfileURL string `json:"profileUrl"`
	IsPrivate  bool   `json:"isPrivate"`
}

// profileResponse is the wire shape of /myProfile. The user service embeds
// gorm.Model, so the body also carries a numeric "ID" that would otherwise
// be folded case-insensitively onto User.ID.
type profileResponse struct {
	User
	ModelID json.RawMessage `json:"ID"`
}

// Client resolves bearer credentials through the user service. Every call
// goes over the wire: no caching, no retries.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient builds a client for baseURL. A zero timeout means requests are
// bounded only by the caller's context.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// Verify exchanges token for the caller's profile.
func (c *Client) Verify(ctx context.Context, token string) (*User, error) {
	if strings.TrimSpace(token) == "" {
		return nil, ErrNotAuthenticated
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/myProfile", nil)
	if err != nil {
		return nil, fmt.Errorf("users: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, apperr.Wrap(apperr.UpstreamUnavailable, "user service unreachable", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		// not only 401: unknown or malformed tokens also come back as 400/404
		return nil, apperr.Upstream(apperr.Unauthenticated, "Not authenticated", resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, apperr.Upstream(apperr.UpstreamUnavailable,
			fmt.Sprintf("user service returned %d", resp.StatusCode), resp.StatusCode)
	}

	var profile profileResponse
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, &apperr.Error{
			Kind:   apperr.UpstreamUnavailable,
			Msg:    "user service sent an unreadable profile",
			Status: resp.StatusCode,
			Err:    err,
		}
	}
	u := profile.User
	if u.ID == "" {
		return nil, ErrNotAuthenticated
	}
	return &u, nil
}

// BearerToken extracts the credential from an "Authorization: Bearer <t>"
// header. It returns "" when the header is absent or malformed.
func BearerToken(header string) string {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
