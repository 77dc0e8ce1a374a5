package httputil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/wonny/oiwatch/pkg/config"
	"github.com/wonny/oiwatch/pkg/logger"
)

// MaxBodySize caps how much of a response body FetchBytes will read
const MaxBodySize = 32 << 20

// Client is an HTTP client wrapper with a bounded timeout, rate limiting and logging.
// It never retries: a failed request is reported once and the caller decides.
// ⭐ SSOT: 모든 HTTP 요청은 이 클라이언트를 통해서만 수행
type Client struct {
	httpClient *http.Client
	logger     *logger.Logger
	limiter    *rate.Limiter
	userAgent  string
	maxBody    int64
}

// StatusError is returned by FetchBytes for non-2xx responses
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code %d from %s", e.StatusCode, e.URL)
}

// ErrBodyTooLarge is returned by FetchBytes when a body exceeds the size cap
var ErrBodyTooLarge = errors.New("response body too large")

// New creates a new HTTP client from config
// ⭐ SSOT: http.Client 인스턴스는 여기서만 생성
func New(cfg *config.Config, log *logger.Logger) *Client {
	c := &Client{
		httpClient: &http.Client{
			Timeout: cfg.Source.Timeout,
		},
		logger:    log.WithComponent("httputil"),
		userAgent: "oiwatch/1.0",
		maxBody:   MaxBodySize,
	}

	if cfg.Source.RateLimit > 0 {
		burst := cfg.Source.RateBurst
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.Source.RateLimit), burst)
	}

	return c
}

// NewWithTimeout creates a client with custom timeout
func NewWithTimeout(cfg *config.Config, log *logger.Logger, timeout time.Duration) *Client {
	client := New(cfg, log)
	client.httpClient.Timeout = timeout
	return client
}

// Timeout returns the per-request timeout
func (c *Client) Timeout() time.Duration {
	return c.httpClient.Timeout
}

// Get performs a GET request. The caller owns the response body.
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create GET request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	return c.do(req)
}

// FetchBytes performs a GET and returns the body of a 2xx response
func (c *Client) FetchBytes(ctx context.Context, url string) ([]byte, error) {
	resp, err := c.Get(ctx, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// drain so the connection can be reused
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	// one byte past the cap tells a full body from a cut one
	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if int64(len(body)) > c.maxBody {
		return nil, fmt.Errorf("%w: more than %d bytes from %s", ErrBodyTooLarge, c.maxBody, url)
	}

	return body, nil
}

// do executes the request with rate limiting and logging
func (c *Client) do(req *http.Request) (*http.Response, error) {
	startTime := time.Now()
	url := req.URL.String()
	method := req.Method

	if c.limiter != nil {
		if err := c.limiter.Wait(req.Context()); err != nil {
			return nil, fmt.Errorf("rate limit wait failed: %w", err)
		}
	}

	c.logger.WithFields(map[string]interface{}{
		"method": method,
		"url":    url,
	}).Debug("HTTP request started")

	resp, err := c.httpClient.Do(req)
	duration := time.Since(startTime)

	if err != nil {
		c.logger.WithFields(map[string]interface{}{
			"method":   method,
			"url":      url,
			"duration": duration,
			"timeout":  IsTimeout(err),
			"error":    err.Error(),
		}).Error("HTTP request failed")
		return nil, err
	}

	c.logger.WithFields(map[string]interface{}{
		"method":      method,
		"url":         url,
		"status_code": resp.StatusCode,
		"duration":    duration,
	}).Debug("HTTP request completed")

	return resp, nil
}

// IsTimeout reports whether err came from a deadline or client timeout
func IsTimeout(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var te interface{ Timeout() bool }
	return errors.As(err, &te) && te.Timeout()
}
