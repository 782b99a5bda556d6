package mealapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/macrohero/backend/internal/domain"
)

const (
	planPath = "/v1/mealplan"
	mealPath = "/v1/meal"
)

// ClientConfig holds settings for the meal service client
type ClientConfig struct {
	APIKey            string
	BaseURL           string
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
	MaxRetries        int
}

// Client handles communication with the meal recommendation service
type Client struct {
	httpClient  *http.Client
	apiKey      string
	baseURL     string
	rateLimiter *rate.Limiter
	maxRetries  int
	backoff     func(attempt int) time.Duration
	debug       bool
	log         logrus.FieldLogger
}

// NewClient creates a new meal service client
func NewClient(cfg ClientConfig, log logrus.FieldLogger) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 5
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 10
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if log == nil {
		log = logrus.StandardLogger()
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		apiKey:      cfg.APIKey,
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		rateLimiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		maxRetries:  cfg.MaxRetries,
		backoff:     exponentialBackoff,
		log:         log.WithField("component", "mealapi"),
	}
}

// SetDebug enables request and response body logging
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// exponentialBackoff returns 500ms, 1s, 2s, ... for attempts 1, 2, 3, ...
func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(500*(1<<(attempt-1))) * time.Millisecond
}

// FetchPlan asks the service for breakfast, lunch and dinner in one call.
// Meals the service could not satisfy are simply absent from the result.
func (c *Client) FetchPlan(ctx context.Context, requests domain.PlanRequests) ([]domain.Meal, error) {
	status, body, err := c.post(ctx, planPath, toWirePlanRequest(requests))
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound || status == http.StatusNoContent {
		c.log.Info("meal service returned no plan")
		return []domain.Meal{}, nil
	}

	var raws []json.RawMessage
	if err := json.Unmarshal(body, &raws); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", domain.ErrTransportFailure, err)
	}

	meals := make([]domain.Meal, 0, len(raws))
	for _, raw := range raws {
		meal, err := decodeMeal(raw)
		if err != nil {
			c.log.WithError(err).Warn("skipping malformed meal")
			continue
		}
		meals = append(meals, meal)
	}

	c.log.WithField("meals", len(meals)).Debug("meal plan received")
	return meals, nil
}

// FetchReplacement asks the service for one meal. It returns nil, nil when
// no meal satisfies the request's constraint.
func (c *Client) FetchReplacement(ctx context.Context, request domain.MealRequest) (*domain.Meal, error) {
	status, body, err := c.post(ctx, mealPath, toWireRequest(request))
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound || status == http.StatusNoContent || len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}
	if bytes.Equal(bytes.TrimSpace(body), []byte("null")) {
		return nil, nil
	}

	if !json.Valid(body) {
		return nil, fmt.Errorf("%w: failed to decode response: invalid JSON", domain.ErrTransportFailure)
	}

	meal, err := decodeMeal(body)
	if err != nil {
		c.log.WithError(err).WithField("slot", request.Slot).Warn("replacement is malformed")
		return nil, nil
	}

	return &meal, nil
}

// post sends a JSON body, retrying transport errors, 429 and 5xx. It
// returns the final status and body; 404 and 204 come back without error.
func (c *Client) post(ctx context.Context, path string, payload interface{}) (int, []byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to encode request: %w", err)
	}

	reqURL := c.baseURL + path
	logger := c.log.WithField("path", path)
	if c.debug {
		logger.WithField("body", string(data)).Debug("sending request")
	}

	var lastErr error
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		if attempt > 1 {
			if err := sleepContext(ctx, c.backoff(attempt-1)); err != nil {
				return 0, nil, fmt.Errorf("%w: %v", domain.ErrTransportFailure, err)
			}
		}

		// Wait for rate limiter
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return 0, nil, fmt.Errorf("%w: rate limiter: %v", domain.ErrTransportFailure, err)
		}

		resp, err := c.doRequest(ctx, reqURL, data)
		if err != nil {
			logger.WithError(err).WithField("attempt", attempt).Warn("request error")
			lastErr = err
			if ctx.Err() != nil {
				return 0, nil, lastErr
			}
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			lastErr = fmt.Errorf("%w: reading body: %v", domain.ErrTransportFailure, readErr)
			continue
		}

		if c.debug {
			logger.WithFields(logrus.Fields{"status": resp.StatusCode, "body": string(body)}).Debug("received response")
		}

		switch {
		case resp.StatusCode == http.StatusOK,
			resp.StatusCode == http.StatusNotFound,
			resp.StatusCode == http.StatusNoContent:
			return resp.StatusCode, body, nil

		case resp.StatusCode == http.StatusTooManyRequests:
			logger.WithField("attempt", attempt).Warn("meal service rate limited us")
			lastErr = fmt.Errorf("%w: %v", domain.ErrTransportFailure, domain.ErrRateLimited)
			continue

		case resp.StatusCode >= http.StatusInternalServerError:
			logger.WithFields(logrus.Fields{"attempt": attempt, "status": resp.StatusCode}).Warn("meal service error")
			lastErr = fmt.Errorf("%w: status %d", domain.ErrTransportFailure, resp.StatusCode)
			continue

		default:
			// Other 4xx will not get better on retry
			return 0, nil, fmt.Errorf("%w: status %d, body: %s", domain.ErrTransportFailure, resp.StatusCode, string(body))
		}
	}

	logger.WithField("attempts", c.maxRetries).Error("all retries failed")
	return 0, nil, lastErr
}

// doRequest executes an HTTP POST request with proper headers and error handling
func (c *Client) doRequest(ctx context.Context, reqURL string, data []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "MacroHero/1.0")
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrTransportFailure, err)
	}

	return resp, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
