package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/findablescore/auditor/internal/auditerrors"
	"github.com/findablescore/auditor/internal/config"
)

// ErrSkipped is returned when a URL is not worth fetching (non-HTML
// extension, or the caller should not treat the call as a failure).
var ErrSkipped = errors.New("fetch: url skipped")

const maxRedirects = 10

// Fetcher performs bounded HTTP GETs against pages discovered by the
// crawler. One Fetcher is shared across an entire Run; it multiplexes
// per-host rate limiting internally so callers can fan requests out
// concurrently without coordinating among themselves.
type Fetcher struct {
	client       *http.Client
	limiter      *hostLimiter
	userAgent    string
	maxRetries   int
	maxBodyBytes int64
	retryCfg     auditerrors.RetryConfig
}

// New builds a Fetcher from the audit configuration. userAgent comes from
// CrawlConfig rather than FetchConfig because it identifies the crawler to
// remote servers, independent of how fetches are retried or throttled.
func New(cfg config.FetchConfig, userAgent string) *Fetcher {
	f := &Fetcher{
		limiter:      newHostLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst),
		userAgent:    userAgent,
		maxRetries:   cfg.MaxRetries,
		maxBodyBytes: cfg.MaxBodyBytes,
		retryCfg: auditerrors.RetryConfig{
			MaxRetries:   cfg.MaxRetries,
			InitialDelay: 500 * time.Millisecond,
			MaxDelay:     8 * time.Second,
			Multiplier:   2.0,
			Jitter:       true,
		},
	}

	f.client = &http.Client{
		Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return fmt.Errorf("stopped after %d redirects", maxRedirects)
			}
			if chain, ok := req.Context().Value(redirectChainKey{}).(*[]string); ok {
				*chain = append(*chain, req.URL.String())
			}
			return nil
		},
	}

	return f
}

// Fetch retrieves rawURL, retrying transient failures with exponential
// backoff and respecting the per-host rate limit. The URL is canonicalized
// before the request is made and before it is recorded in the result, so
// the frontier's visited set and the fetcher always agree on identity.
func (f *Fetcher) Fetch(ctx context.Context, rawURL *url.URL) (*Result, error) {
	if isLikelyNonHTML(rawURL) {
		return nil, fmt.Errorf("%w: %s has a non-HTML extension", ErrSkipped, rawURL.Path)
	}

	target := Canonicalize(rawURL)

	limiter := f.limiter.forHost(target.Host)
	if err := limiter.Wait(ctx); err != nil {
		return nil, auditerrors.Wrap(auditerrors.ErrCodeNetworkUnavailable, err)
	}

	attempts := 0
	result, err := auditerrors.RetryWithResult(ctx, f.retryCfg, shouldRetryFetch, func() (*Result, error) {
		attempts++
		return f.doRequest(ctx, target)
	})
	if err != nil {
		return nil, err
	}
	result.Attempts = attempts
	return result, nil
}

// redirectChainKey is the context key CheckRedirect uses to accumulate the
// sequence of intermediate URLs for a single logical fetch.
type redirectChainKey struct{}

func (f *Fetcher) doRequest(ctx context.Context, target *url.URL) (*Result, error) {
	var redirectChain []string
	reqCtx := context.WithValue(ctx, redirectChainKey{}, &redirectChain)

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, auditerrors.New(auditerrors.ErrCodeNetworkUnavailable, "failed to build request", err)
	}
	applyHeaders(req, f.userAgent)

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, auditerrors.New(auditerrors.ErrCodeNetworkTimeout, fmt.Sprintf("request to %s failed", target), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
		return nil, auditerrors.New(auditerrors.ErrCodeHTTPStatus,
			fmt.Sprintf("%s returned %d", target, resp.StatusCode), nil).
			WithDetail("status", fmt.Sprintf("%d", resp.StatusCode)).
			WithDetail("retryable", "true")
	}
	if resp.StatusCode >= 400 {
		return nil, auditerrors.New(auditerrors.ErrCodeHTTPStatus,
			fmt.Sprintf("%s returned %d", target, resp.StatusCode), nil).
			WithDetail("status", fmt.Sprintf("%d", resp.StatusCode))
	}

	contentType := resp.Header.Get("Content-Type")
	if !isHTMLContentType(contentType) {
		return nil, fmt.Errorf("%w: %s served %s", ErrSkipped, target, contentType)
	}

	body, truncated, err := readLimited(resp.Body, f.maxBodyBytes)
	if err != nil {
		return nil, auditerrors.New(auditerrors.ErrCodeNetworkTimeout, "failed to read response body", err)
	}
	if truncated {
		return nil, auditerrors.New(auditerrors.ErrCodeContentTooLarge,
			fmt.Sprintf("%s exceeded %d byte cap", target, f.maxBodyBytes), nil)
	}

	finalURL := target
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = Canonicalize(resp.Request.URL)
	}

	return &Result{
		URL:           target,
		FinalURL:      finalURL,
		StatusCode:    resp.StatusCode,
		Body:          body,
		ContentType:   contentType,
		Headers:       resp.Header,
		FetchedAt:     start,
		Duration:      time.Since(start),
		RedirectChain: redirectChain,
	}, nil
}

// shouldRetryFetch retries network-layer failures and 5xx/429 responses,
// but never client errors (4xx other than 429) since another attempt at
// the same URL will not change the outcome.
func shouldRetryFetch(err error) bool {
	var ae *auditerrors.AuditError
	if errors.As(err, &ae) {
		if ae.Code == auditerrors.ErrCodeHTTPStatus {
			return ae.Details["retryable"] == "true"
		}
		return ae.Code == auditerrors.ErrCodeNetworkTimeout || ae.Code == auditerrors.ErrCodeNetworkUnavailable
	}
	return false
}

func applyHeaders(req *http.Request, userAgent string) {
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	req.Header.Set("Connection", "keep-alive")
}

// readLimited reads at most maxBytes+1 bytes, reporting whether the stream
// had more data than the cap allowed.
func readLimited(r io.Reader, maxBytes int64) (data []byte, truncated bool, err error) {
	limited := io.LimitReader(r, maxBytes+1)
	data, err = io.ReadAll(limited)
	if err != nil {
		return nil, false, err
	}
	if int64(len(data)) > maxBytes {
		return data[:maxBytes], true, nil
	}
	return data, false, nil
}
