package amazon

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sellerpulse/ads-optimizer-backend/internal/config"
)

// refreshMargin forces a token refresh when the cached token is this close to expiry
const refreshMargin = 5 * time.Minute

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// AuthService caches the Amazon Advertising access token in memory and
// refreshes it through the refresh-token exchange when needed.
type AuthService struct {
	cfg        *config.AmazonConfig
	httpClient *http.Client

	mu          sync.Mutex
	accessToken string
	expiresAt   time.Time
}

// NewAuthService creates a new Amazon auth service
func NewAuthService(cfg *config.AmazonConfig) *AuthService {
	return &AuthService{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// GetAccessToken returns a valid access token, refreshing it when the cached
// token is absent or within the refresh margin of its declared expiry.
func (s *AuthService) GetAccessToken(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.accessToken != "" && time.Until(s.expiresAt) > refreshMargin {
		return s.accessToken, nil
	}

	logrus.Info("Access token expired or missing, refreshing...")
	return s.refreshAccessToken(ctx)
}

// refreshAccessToken exchanges the refresh token for a new access token.
// Caller must hold s.mu.
func (s *AuthService) refreshAccessToken(ctx context.Context) (string, error) {
	if !s.cfg.IsConfigured() {
		return "", fmt.Errorf("%w: set AMAZON_CLIENT_ID, AMAZON_CLIENT_SECRET and AMAZON_REFRESH_TOKEN", ErrConfiguration)
	}

	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", s.cfg.RefreshToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.TokenEndpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(s.cfg.ClientID, s.cfg.ClientSecret)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to reach token endpoint: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read token response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: token refresh returned status %d: %s", ErrUnauthorized, resp.StatusCode, string(body))
	}

	var token tokenResponse
	if err := json.Unmarshal(body, &token); err != nil {
		return "", fmt.Errorf("failed to parse token response: %w", err)
	}
	if token.AccessToken == "" {
		return "", fmt.Errorf("%w: token refresh returned empty access token", ErrUnauthorized)
	}

	s.accessToken = token.AccessToken
	s.expiresAt = time.Now().Add(time.Duration(token.ExpiresIn) * time.Second)

	logrus.Infof("Access token refreshed, valid for %d minutes", token.ExpiresIn/60)
	return s.accessToken, nil
}

// HasValidToken reports whether a non-expired token is cached
func (s *AuthService) HasValidToken() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accessToken != "" && time.Now().Before(s.expiresAt)
}
