package spoonacular

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"mealplanner/internal/config"
	"mealplanner/internal/shared"

	"go.uber.org/zap"
)

const (
	apiKeyParam = "apiKey"
	maskedKey   = "[API_KEY_HIDDEN]"

	maxBodyBytes = 10 << 20
)

// Recorder observes outbound calls.
type Recorder interface {
	ObserveUpstream(endpoint, outcome string, elapsed time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) ObserveUpstream(string, string, time.Duration) {}

// Client talks to the remote recipe API. The API key is attached to every
// outbound URL and never leaves the client unmasked.
type Client struct {
	baseURL    *url.URL
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
	recorder   Recorder
}

// NewClient creates a recipe API client from cfg. recorder may be nil.
func NewClient(cfg *config.Config, logger *zap.Logger, recorder Recorder) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(cfg.SpoonacularBaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid recipe api base url %q", cfg.SpoonacularBaseURL)
	}
	timeout := cfg.SpoonacularTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &Client{
		baseURL:    base,
		apiKey:     cfg.SpoonacularAPIKey,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
		recorder:   recorder,
	}, nil
}

// endpointURL returns base + path with the given query, without the key.
func (c *Client) endpointURL(path string, q url.Values) *url.URL {
	u := *c.baseURL
	u.Path = strings.TrimRight(c.baseURL.Path, "/") + path
	u.RawQuery = q.Encode()
	return &u
}

// get performs a GET against target with the key attached. ok is false when
// the remote answered with a non-2xx status.
func (c *Client) get(ctx context.Context, endpoint string, target *url.URL) (body []byte, ok bool, err error) {
	u := *target
	q := u.Query()
	q.Set(apiKeyParam, c.apiKey)
	u.RawQuery = q.Encode()
	masked := MaskAPIKey(&u)

	c.logger.Info("calling recipe api", zap.String("endpoint", endpoint), zap.String("url", masked))

	start := time.Now()
	outcome := "ok"
	defer func() { c.recorder.ObserveUpstream(endpoint, outcome, time.Since(start)) }()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		outcome = "transport_error"
		return nil, false, shared.Upstream("failed to build recipe api request", scrub(err, masked))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		err = scrub(err, masked)
		if isTimeout(err) {
			outcome = "timeout"
			c.logger.Error("recipe api timed out", zap.String("endpoint", endpoint), zap.String("url", masked), zap.Error(err))
			return nil, false, shared.Timeout("recipe api timed out", err)
		}
		outcome = "transport_error"
		c.logger.Error("recipe api request failed", zap.String("endpoint", endpoint), zap.String("url", masked), zap.Error(err))
		return nil, false, shared.Upstream("recipe api request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		outcome = "http_error"
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		c.logger.Warn("recipe api returned non-success status",
			zap.String("endpoint", endpoint), zap.String("url", masked), zap.Int("status", resp.StatusCode))
		return nil, false, nil
	}

	body, err = io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		err = scrub(err, masked)
		if isTimeout(err) {
			outcome = "timeout"
			return nil, false, shared.Timeout("recipe api timed out reading response", err)
		}
		outcome = "transport_error"
		return nil, false, shared.Upstream("failed to read recipe api response", err)
	}
	return body, true, nil
}

// MaskAPIKey renders u with the API key value replaced by a placeholder.
func MaskAPIKey(u *url.URL) string {
	clean := *u
	q := clean.Query()
	hadKey := q.Has(apiKeyParam)
	q.Del(apiKeyParam)
	clean.RawQuery = q.Encode()
	s := clean.String()
	if !hadKey {
		return s
	}
	sep := "&"
	if clean.RawQuery == "" {
		sep = "?"
	}
	return s + sep + apiKeyParam + "=" + maskedKey
}

// scrub drops the request URL that net/http embeds in transport errors,
// since it carries the key.
func scrub(err error, masked string) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return &scrubbedError{op: urlErr.Op, url: masked, err: urlErr.Err}
	}
	return err
}

type scrubbedError struct {
	op  string
	url string
	err error
}

func (e *scrubbedError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.op, e.url, e.err)
}

func (e *scrubbedError) Unwrap() error { return e.err }

func (e *scrubbedError) Timeout() bool {
	var t interface{ Timeout() bool }
	return errors.As(e.err, &t) && t.Timeout()
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return true
	}
	var se *scrubbedError
	return errors.As(err, &se) && se.Timeout()
}
