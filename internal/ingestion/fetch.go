package ingestion

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/guttosm/naftapulse/internal/logger"
)

// Fetcher retrieves the raw CSV text of a feed.
type Fetcher interface {
	Fetch(ctx context.Context) (string, error)
}

// FetcherFunc adapts a plain function to Fetcher.
type FetcherFunc func(ctx context.Context) (string, error)

func (f FetcherFunc) Fetch(ctx context.Context) (string, error) { return f(ctx) }

// HTTPFetcher downloads a feed over HTTP(S).
//
// Transport failures and 5xx responses are retried up to Retries times with
// exponential backoff starting at RetryWait. Anything still failing, and any
// non-2xx response, is returned as *TransportError.
type HTTPFetcher struct {
	url    string
	client *resty.Client
}

// NewHTTPFetcher builds an HTTPFetcher for url.
func NewHTTPFetcher(url string, timeout time.Duration, retries int, retryWait time.Duration) *HTTPFetcher {
	client := resty.New().
		SetTimeout(timeout).
		SetRetryCount(retries).
		SetRetryWaitTime(retryWait).
		SetRetryMaxWaitTime(8*retryWait).
		SetHeader("Accept", "text/csv, text/plain, */*").
		SetLogger(restyLogger{}).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || (r != nil && r.StatusCode() >= 500)
		})

	return &HTTPFetcher{url: url, client: client}
}

// URL returns the feed location.
func (f *HTTPFetcher) URL() string { return f.url }

func (f *HTTPFetcher) Fetch(ctx context.Context) (string, error) {
	resp, err := f.client.R().SetContext(ctx).Get(f.url)
	if err != nil {
		return "", &TransportError{URL: f.url, Err: err}
	}
	if !resp.IsSuccess() {
		return "", &TransportError{URL: f.url, StatusCode: resp.StatusCode()}
	}
	return resp.String(), nil
}

// restyLogger routes resty's internal messages (retry warnings) to zerolog.
type restyLogger struct{}

func (restyLogger) Errorf(format string, v ...interface{}) {
	logger.L().Error().Str("component", "fetch").Msgf(format, v...)
}

func (restyLogger) Warnf(format string, v ...interface{}) {
	logger.L().Warn().Str("component", "fetch").Msgf(format, v...)
}

func (restyLogger) Debugf(format string, v ...interface{}) {
	logger.L().Debug().Str("component", "fetch").Msgf(format, v...)
}
