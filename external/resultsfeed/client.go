// Package resultsfeed implements the results provider against the external
// scores API.
package resultsfeed

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/survivorfc/lastman/internal/platform/logging"
	"github.com/survivorfc/lastman/internal/platform/resilience"
	"github.com/survivorfc/lastman/internal/usecase"
	"github.com/valyala/fasthttp"
)

var apiTokenParamRegex = regexp.MustCompile(`api_token=[^&\s"']+`)
var errFeedTransient = crerr.New("results feed transient failure")

const maxResponseBodySize = 2 << 20

type ClientConfig struct {
	BaseURL        string
	Token          string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

type Client struct {
	httpClient     *fasthttp.Client
	timeout        time.Duration
	baseURL        string
	token          string
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}

	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient: &fasthttp.Client{
			MaxResponseBodySize: maxResponseBodySize,
		},
		timeout:        timeout,
		baseURL:        strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		token:          strings.TrimSpace(cfg.Token),
		maxRetries:     maxInt(cfg.MaxRetries, 0),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

type resultItem struct {
	HomeTeam  string `json:"homeTeam"`
	AwayTeam  string `json:"awayTeam"`
	Status    string `json:"status"`
	HomeScore *int   `json:"homeScore"`
	AwayScore *int   `json:"awayScore"`
}

type resultsEnvelope struct {
	Results []resultItem `json:"results"`
}

// FetchResults returns the feed's scorelines for one gameweek's fixture set.
func (c *Client) FetchResults(ctx context.Context, edition int, gw string) ([]usecase.ExternalResult, error) {
	if c.baseURL == "" {
		return nil, fmt.Errorf("%w: results feed base url is not configured", usecase.ErrDependencyUnavailable)
	}
	gw = strings.TrimSpace(gw)
	if edition <= 0 || gw == "" {
		return nil, fmt.Errorf("edition and gameweek are required")
	}

	path := "/editions/" + strconv.Itoa(edition) + "/gameweeks/" + url.PathEscape(gw) + "/results"

	var envelope resultsEnvelope
	if err := c.doJSON(ctx, path, &envelope); err != nil {
		return nil, fmt.Errorf("fetch results %s: %w", path, err)
	}

	out := make([]usecase.ExternalResult, 0, len(envelope.Results))
	for _, item := range envelope.Results {
		home := strings.TrimSpace(item.HomeTeam)
		away := strings.TrimSpace(item.AwayTeam)
		if home == "" || away == "" {
			continue
		}
		out = append(out, usecase.ExternalResult{
			HomeTeam:  home,
			AwayTeam:  away,
			Status:    strings.TrimSpace(item.Status),
			HomeScore: item.HomeScore,
			AwayScore: item.AwayScore,
		})
	}
	return out, nil
}

func (c *Client) doJSON(ctx context.Context, path string, target any) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "results feed circuit breaker rejected request", "state", c.breaker.State())
			return fmt.Errorf("%w: results feed is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	values := url.Values{}
	if c.token != "" {
		values.Set("api_token", c.token)
	}

	fullURL := c.baseURL + path
	if encoded := values.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	out, err, _ := c.flight.Do(path, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && crerr.Is(reqErr, errFeedTransient) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return err
	}

	raw, ok := out.([]byte)
	if !ok {
		return fmt.Errorf("unexpected response payload type %T", out)
	}
	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode feed payload: %w", err)
	}
	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		raw, status, err := c.doOnce(fullURL)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %s", errFeedTransient, sanitizeSensitiveText(err.Error(), c.token))
		} else if status >= 200 && status < 300 {
			return raw, nil
		} else if isRetryableStatus(status) {
			lastErr = fmt.Errorf("%w: feed status=%d body=%s", errFeedTransient, status, abbreviateBody(raw))
		} else {
			return nil, fmt.Errorf("feed status=%d body=%s", status, abbreviateBody(raw))
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
		lastErr = fmt.Errorf("feed request failed")
	}
	c.logger.WarnContext(ctx, "results feed request failed", "url", redactAPIURL(fullURL), "error", lastErr)
	return nil, lastErr
}

// doOnce issues one GET over the pooled fasthttp client. The body is copied
// out before the response buffer goes back to the pool.
func (c *Client) doOnce(fullURL string) ([]byte, int, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(fullURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("accept", "application/json")

	if err := c.httpClient.DoTimeout(req, resp, c.timeout); err != nil {
		return nil, 0, err
	}
	return append([]byte(nil), resp.Body()...), resp.StatusCode(), nil
}

func isRetryableStatus(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}

func sanitizeSensitiveText(value, token string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return value
	}
	if token != "" {
		value = strings.ReplaceAll(value, token, "REDACTED")
	}
	return apiTokenParamRegex.ReplaceAllString(value, "api_token=REDACTED")
}

func redactAPIURL(raw string) string {
	return apiTokenParamRegex.ReplaceAllString(raw, "api_token=REDACTED")
}

func abbreviateBody(raw []byte) string {
	const limit = 256
	text := strings.TrimSpace(string(raw))
	if len(text) <= limit {
		return text
	}
	return text[:limit] + "..."
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
