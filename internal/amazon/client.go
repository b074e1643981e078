package amazon

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/sellerpulse/ads-optimizer-backend/internal/config"
)

const (
	requestTimeout = 30 * time.Second
	// rateLimitRetryDelay is the fixed backoff before the single 429 retry
	rateLimitRetryDelay  = 60 * time.Second
	maxRequestsPerMinute = 60
)

// Client is the authenticated, rate-limited client for the Amazon Advertising API.
// Calls are sequential by design; the rate-limit counters assume no parallel
// callers within one optimization run.
type Client struct {
	cfg        *config.AmazonConfig
	auth       *AuthService
	httpClient *http.Client

	// limiter enforces the minimum spacing between any two outbound calls
	limiter *rate.Limiter

	mu              sync.Mutex
	lastRequestTime time.Time
	requestCount    int
}

// NewClient creates a new Amazon Advertising API client
func NewClient(cfg *config.AmazonConfig, auth *AuthService) *Client {
	return &Client{
		cfg:  cfg,
		auth: auth,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
		limiter: rate.NewLimiter(rate.Every(time.Second), 1),
	}
}

// enforceRateLimit blocks until both the per-request spacing and the rolling
// per-minute request counter allow the next call.
func (c *Client) enforceRateLimit(ctx context.Context) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	sinceLast := time.Since(c.lastRequestTime)

	// Counter resets once a full minute has elapsed since the last call
	if sinceLast > time.Minute {
		c.requestCount = 0
	}

	if c.requestCount >= maxRequestsPerMinute {
		wait := time.Minute - sinceLast
		if wait > 0 {
			logrus.Warnf("Rate limit approaching, waiting %s", wait)
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		c.requestCount = 0
	}

	c.lastRequestTime = time.Now()
	c.requestCount++
	return nil
}

// do executes one API call, retrying exactly once after a fixed delay on 429
func (c *Client) do(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
	}

	err := c.doOnce(ctx, method, path, payload, out)
	if err == nil {
		return nil
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == 429 {
		logrus.Warnf("Rate limit exceeded (429) on %s %s, retrying in %s", method, path, rateLimitRetryDelay)
		select {
		case <-time.After(rateLimitRetryDelay):
		case <-ctx.Done():
			return ctx.Err()
		}
		return c.doOnce(ctx, method, path, payload, out)
	}

	return err
}

func (c *Client) doOnce(ctx context.Context, method, path string, payload []byte, out interface{}) error {
	if err := c.enforceRateLimit(ctx); err != nil {
		return err
	}

	accessToken, err := c.auth.GetAccessToken(ctx)
	if err != nil {
		return err
	}

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.APIEndpoint+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Amazon-Advertising-API-ClientId", c.cfg.ClientID)
	req.Header.Set("Amazon-Advertising-API-Scope", c.cfg.AdvertisingAccountID)

	logrus.Debugf("API request: %s %s", method, path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response from %s: %w", path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return wrapStatus(resp.StatusCode, string(respBody))
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("failed to parse response from %s: %w", path, err)
		}
	}
	return nil
}

// Get makes a GET request to the Amazon Advertising API
func (c *Client) Get(ctx context.Context, path string, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

// Post makes a POST request to the Amazon Advertising API
func (c *Client) Post(ctx context.Context, path string, body interface{}, out interface{}) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

// Put makes a PUT request to the Amazon Advertising API
func (c *Client) Put(ctx context.Context, path string, body interface{}, out interface{}) error {
	return c.do(ctx, http.MethodPut, path, body, out)
}

// GetCampaigns fetches campaigns with an optional state filter
func (c *Client) GetCampaigns(ctx context.Context, stateFilter string) ([]CampaignData, error) {
	path := "/sp/campaigns"
	if stateFilter != "" {
		path += "?stateFilter=" + stateFilter
	}
	var campaigns []CampaignData
	if err := c.Get(ctx, path, &campaigns); err != nil {
		return nil, err
	}
	return campaigns, nil
}
