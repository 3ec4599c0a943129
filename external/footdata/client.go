package footdata

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"

	"github.com/goalsight/matchaudit/internal/domain/panel"
	"github.com/goalsight/matchaudit/internal/domain/rawdata"
	"github.com/goalsight/matchaudit/internal/platform/logging"
	"github.com/goalsight/matchaudit/internal/platform/resilience"
	"github.com/goalsight/matchaudit/internal/usecase"
)

const (
	defaultBaseURL     = "https://api.football-data-api.com"
	defaultTimeout     = 20 * time.Second
	maxResponseBytes   = 6 << 20
	abbreviatedBodyLen = 256
)

var apiKeyParamRegex = regexp.MustCompile(`key=[^&\s"']+`)
var errFootDataTransient = crerr.New("footdata transient failure")

type ClientConfig struct {
	HTTPClient *http.Client
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	MaxRetries int
	Logger     *logging.Logger
	Breaker    resilience.BreakerConfig
}

// Client fetches fixture panels and team match histories from the stats
// provider. Transient failures are retried with linear backoff; a run of
// failures opens the breaker and rejects calls until the provider recovers.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	maxRetries int
	logger     *logging.Logger
	breaker    *resilience.Breaker
	flight     resilience.Flight[[]byte]
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = defaultTimeout
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     strings.TrimSpace(cfg.APIKey),
		maxRetries: maxRetries,
		logger:     logger,
		breaker:    resilience.NewBreaker(cfg.Breaker),
	}
}

// FetchBundle returns the provider's statistical panels for one fixture,
// keyed by section.
func (c *Client) FetchBundle(ctx context.Context, fixtureID string) (panel.Bundle, error) {
	if strings.TrimSpace(fixtureID) == "" {
		return nil, fmt.Errorf("%w: fixture id is required", usecase.ErrInvalidInput)
	}

	var envelope struct {
		Data map[string]map[string]any `json:"data"`
	}
	if err := c.doJSON(ctx, "/fixture-panels", map[string]string{"fixture_id": fixtureID}, &envelope); err != nil {
		return nil, fmt.Errorf("fetch fixture panels fixture_id=%s: %w", fixtureID, err)
	}

	bundle := make(panel.Bundle, len(envelope.Data))
	for section, fields := range envelope.Data {
		bundle[section] = panel.Panel(fields)
	}
	return bundle, nil
}

// FetchTeamMatches returns the raw match history rows for one team. Rows are
// handed to the normalizer untouched.
func (c *Client) FetchTeamMatches(ctx context.Context, teamID string) ([]rawdata.Record, error) {
	if strings.TrimSpace(teamID) == "" {
		return nil, fmt.Errorf("%w: team id is required", usecase.ErrInvalidInput)
	}

	var envelope struct {
		Data []map[string]any `json:"data"`
	}
	if err := c.doJSON(ctx, "/team-matches", map[string]string{"team_id": teamID}, &envelope); err != nil {
		return nil, fmt.Errorf("fetch team matches team_id=%s: %w", teamID, err)
	}

	records := make([]rawdata.Record, 0, len(envelope.Data))
	for _, row := range envelope.Data {
		records = append(records, rawdata.Record(row))
	}
	return records, nil
}

func (c *Client) doJSON(ctx context.Context, path string, query map[string]string, target any) error {
	values := url.Values{}
	for key, value := range query {
		values.Set(key, value)
	}
	values.Set("key", c.apiKey)

	fullURL := c.baseURL + path
	if encoded := values.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	flightKey := path + "?" + values.Encode()
	raw, err, _ := c.flight.Do(flightKey, func() ([]byte, error) {
		var body []byte
		doErr := c.breaker.Do(func() error {
			var reqErr error
			body, reqErr = c.executeRequest(ctx, fullURL)
			return reqErr
		})
		return body, doErr
	})
	if err != nil {
		if crerr.Is(err, resilience.ErrBreakerOpen) {
			c.logger.WarnContext(ctx, "footdata breaker rejected request", "state", string(c.breaker.State()))
			return fmt.Errorf("%w: stats provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
		return err
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode provider payload: %w", err)
	}
	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %s", errFootDataTransient, sanitizeSensitiveText(err.Error(), c.apiKey))
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
			_ = resp.Body.Close()
			if readErr != nil {
				lastErr = fmt.Errorf("%w: read response body: %v", errFootDataTransient, readErr)
			} else if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				return raw, nil
			} else if isRetryableStatus(resp.StatusCode) {
				lastErr = fmt.Errorf("%w: provider status=%d body=%s", errFootDataTransient, resp.StatusCode, abbreviateBody(raw))
			} else {
				return nil, fmt.Errorf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("provider request failed")
	}
	c.logger.WarnContext(ctx, "footdata request failed", "url", redactAPIURL(fullURL), "error", lastErr.Error())
	return nil, lastErr
}

func isRetryableStatus(status int) bool {
	switch status {
	case http.StatusRequestTimeout, http.StatusTooManyRequests,
		http.StatusInternalServerError, http.StatusBadGateway,
		http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}

func sanitizeSensitiveText(value, apiKey string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return value
	}
	if apiKey != "" {
		value = strings.ReplaceAll(value, apiKey, "REDACTED")
	}
	return apiKeyParamRegex.ReplaceAllString(value, "key=REDACTED")
}

func redactAPIURL(rawURL string) string {
	return apiKeyParamRegex.ReplaceAllString(rawURL, "key=REDACTED")
}

func abbreviateBody(raw []byte) string {
	body := strings.TrimSpace(string(raw))
	if len(body) > abbreviatedBodyLen {
		return body[:abbreviatedBodyLen] + "..."
	}
	return body
}
