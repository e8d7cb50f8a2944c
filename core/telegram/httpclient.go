package telegram

import (
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/m3rciful/quizbot/core/logger"
	"github.com/m3rciful/quizbot/core/telegram/netutil"
)

// Telegram API client tuning. Long polling holds requests open for the poll
// timeout, so the client timeout must stay above it.
const (
	dialTimeout     = 5 * time.Second
	keepAlive       = 30 * time.Second
	tlsHandshake    = 5 * time.Second
	idleConnTimeout = 30 * time.Second
	clientTimeout   = 30 * time.Second

	retryAttempts = 3
	retryBackoff  = 2 * time.Second
)

// BuildHTTPClient returns an HTTP client tuned for Telegram API calls.
// Transient network failures are retried with linear backoff.
func BuildHTTPClient() *http.Client {
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           (&net.Dialer{Timeout: dialTimeout, KeepAlive: keepAlive}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          32,
		MaxIdleConnsPerHost:   8,
		IdleConnTimeout:       idleConnTimeout,
		TLSHandshakeTimeout:   tlsHandshake,
		ExpectContinueTimeout: time.Second,
	}
	return &http.Client{
		Timeout:   clientTimeout,
		Transport: &retryTransport{base: transport, retries: retryAttempts, backoff: retryBackoff},
	}
}

var errNoReplay = errors.New("telegram: request body cannot be replayed")

type retryTransport struct {
	base    http.RoundTripper
	retries int
	backoff time.Duration
}

func (t *retryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}

	resp, err := base.RoundTrip(req)
	for attempt := 1; err != nil && attempt <= t.retries && netutil.ShouldRetry(err); attempt++ {
		retry, rerr := rewind(req)
		if rerr != nil {
			// Body cannot be replayed; surface the transport error.
			return nil, err
		}
		delay := t.backoff * time.Duration(attempt)
		logger.TG.LogAttrs(req.Context(), slog.LevelDebug, "",
			slog.String("event", "http.retry"),
			slog.Int("attempts", attempt),
			slog.Int64("backoff_ms", delay.Milliseconds()),
			slog.String("err", logger.SanitizeLimit(err.Error(), 200)),
		)
		if delay > 0 {
			timer := time.NewTimer(delay)
			select {
			case <-req.Context().Done():
				timer.Stop()
				return nil, req.Context().Err()
			case <-timer.C:
			}
		}
		resp, err = base.RoundTrip(retry)
	}
	return resp, err
}

// rewind clones req with a fresh body so it can be sent again.
func rewind(req *http.Request) (*http.Request, error) {
	clone := req.Clone(req.Context())
	if req.Body == nil || req.Body == http.NoBody {
		return clone, nil
	}
	if req.GetBody == nil {
		return nil, errNoReplay
	}
	body, err := req.GetBody()
	if err != nil {
		return nil, err
	}
	clone.Body = body
	return clone, nil
}
