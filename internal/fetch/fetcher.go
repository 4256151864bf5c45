// Package fetch issues paced, retried GET requests against one external JSON API.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/avast/retry-go"
	"resty.dev/v3"

	"github.com/at-ishikawa/birdlog/internal/metrics"
	"github.com/at-ishikawa/birdlog/internal/ratelimit"
)

const (
	DefaultMaxAttempts uint = 3
	DefaultBaseDelay        = time.Second
	DefaultMaxDelay         = 8 * time.Second
	DefaultTimeout          = 15 * time.Second
	DefaultUserAgent        = "birdlog/1.0 (https://github.com/at-ishikawa/birdlog)"

	maxErrorBodyLength = 256
)

var (
	// ErrMaxRetriesExceeded is returned when every attempt was answered with 429.
	ErrMaxRetriesExceeded = errors.New("max retries exceeded")

	errRateLimited = errors.New("rate limited")
	// errServerError marks a 5xx response as a failure for the breaker only.
	errServerError = errors.New("server error")
)

// StatusError is a non-2xx response other than an exhausted 429.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("response error %d: %s", e.StatusCode, e.Body)
}

// Options configures a Fetcher. Zero values fall back to the defaults.
type Options struct {
	// Name labels logs and metrics, e.g. "wikidata".
	Name      string
	BaseURL   string
	UserAgent string
	Timeout   time.Duration

	Gate ratelimit.Gate

	// MaxAttempts is the total number of requests issued for one call while the source answers 429.
	MaxAttempts uint
	BaseDelay   time.Duration
	MaxDelay    time.Duration

	Breaker BreakerSettings
}

type Fetcher struct {
	name        string
	httpClient  *resty.Client
	gate        ratelimit.Gate
	breaker     *breaker
	maxAttempts uint
	baseDelay   time.Duration
	maxDelay    time.Duration
}

func New(opts Options) *Fetcher {
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Gate == nil {
		opts.Gate = ratelimit.NewLimiter(ratelimit.DefaultInterval)
	}
	if opts.MaxAttempts == 0 {
		opts.MaxAttempts = DefaultMaxAttempts
	}
	if opts.BaseDelay <= 0 {
		opts.BaseDelay = DefaultBaseDelay
	}
	if opts.MaxDelay <= 0 {
		opts.MaxDelay = DefaultMaxDelay
	}

	client := resty.New()
	client.SetBaseURL(opts.BaseURL)
	client.SetTimeout(opts.Timeout)
	client.SetHeader("User-Agent", opts.UserAgent)
	client.SetHeader("Accept", "application/json")

	return &Fetcher{
		name:        opts.Name,
		httpClient:  client,
		gate:        opts.Gate,
		breaker:     newBreaker(opts.Name, opts.Breaker),
		maxAttempts: opts.MaxAttempts,
		baseDelay:   opts.BaseDelay,
		maxDelay:    opts.MaxDelay,
	}
}

func (f *Fetcher) Close() error {
	return f.httpClient.Close()
}

func (f *Fetcher) Name() string {
	return f.name
}

// Get issues a GET and retries only while the source answers 429, waiting
// min(BaseDelay * 2^attempt, MaxDelay) between attempts. Any other status is returned as-is;
// a 5xx still counts as a failure for the circuit breaker.
// If every attempt is rate limited the call fails with ErrMaxRetriesExceeded.
// result, when not nil, is decoded from a successful JSON body.
func (f *Fetcher) Get(ctx context.Context, path string, params url.Values, result any) (*resty.Response, error) {
	response, err := f.breaker.execute(func() (*resty.Response, error) {
		response, err := f.getWithRetry(ctx, path, params, result)
		if err == nil && response.StatusCode() >= http.StatusInternalServerError {
			return response, errServerError
		}
		return response, err
	})
	if errors.Is(err, errServerError) {
		return response, nil
	}
	return response, err
}

// GetJSON is Get followed by a status check: any non-2xx response becomes a *StatusError.
func (f *Fetcher) GetJSON(ctx context.Context, path string, params url.Values, out any) error {
	response, err := f.Get(ctx, path, params, out)
	if err != nil {
		return err
	}
	if response.IsError() {
		return &StatusError{
			StatusCode: response.StatusCode(),
			Body:       truncate(response.String(), maxErrorBodyLength),
		}
	}
	return nil
}

func (f *Fetcher) getWithRetry(ctx context.Context, path string, params url.Values, result any) (*resty.Response, error) {
	var response *resty.Response
	err := retry.Do(
		func() error {
			res, err := f.do(ctx, path, params, result)
			if err != nil {
				return err
			}
			response = res
			if res.StatusCode() == http.StatusTooManyRequests {
				return errRateLimited
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(f.maxAttempts),
		retry.Delay(f.baseDelay),
		retry.MaxDelay(f.maxDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			return errors.Is(err, errRateLimited)
		}),
		retry.OnRetry(func(n uint, err error) {
			slog.Default().Debug("retrying source request",
				"source", f.name,
				"path", path,
				"attempt", n+1,
				"error", err,
			)
		}),
	)
	if errors.Is(err, errRateLimited) {
		slog.Default().Warn("source kept answering 429",
			"source", f.name,
			"path", path,
			"attempts", f.maxAttempts,
		)
		return response, fmt.Errorf("%s %s > %w", f.name, path, ErrMaxRetriesExceeded)
	}
	if err != nil {
		return nil, err
	}
	return response, nil
}

func (f *Fetcher) do(ctx context.Context, path string, params url.Values, result any) (*resty.Response, error) {
	if err := f.gate.Throttle(ctx); err != nil {
		return nil, fmt.Errorf("gate.Throttle > %w", err)
	}

	query := url.Values{}
	for key, values := range params {
		query[key] = values
	}
	query.Set("format", "json")
	query.Set("origin", "*")

	request := f.httpClient.R().
		SetContext(ctx).
		SetQueryParamsFromValues(query)
	if result != nil {
		request.SetResult(result)
	}

	start := time.Now()
	response, err := request.Get(path)
	duration := time.Since(start)
	if err != nil {
		metrics.RecordSourceRequest(f.name, metrics.OutcomeNetwork, duration)
		return nil, fmt.Errorf("httpClient.Get(%s) > %w", path, err)
	}

	switch {
	case response.StatusCode() == http.StatusTooManyRequests:
		metrics.RecordSourceRequest(f.name, metrics.OutcomeRateLimited, duration)
	case response.IsError():
		metrics.RecordSourceRequest(f.name, metrics.OutcomeHTTPError, duration)
	default:
		metrics.RecordSourceRequest(f.name, metrics.OutcomeOK, duration)
	}
	return response, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
