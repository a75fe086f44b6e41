package fetch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html/charset"

	"github.com/muntasir-islam/seo-audit-tool/internal/shared/constants"
	apperrors "github.com/muntasir-islam/seo-audit-tool/internal/shared/errors"
)

// Snapshot is everything later pipeline stages may read about a fetched page.
// It is built once per audit and treated as read-only afterward.
type Snapshot struct {
	// URL is the normalized URL the audit was asked for.
	URL string
	// FinalURL is where the page actually lives after redirects.
	FinalURL   string
	StatusCode int
	Headers    http.Header
	// Body is the response body decoded to UTF-8.
	Body []byte
	// RawSize is the body size in bytes before charset decoding.
	RawSize int
	// ContentEncoding reports the wire compression ("gzip", "br", ...) even
	// when the transport decompressed transparently. Empty means the server
	// sent the body uncompressed.
	ContentEncoding string
	Elapsed         time.Duration
	Redirects       int
}

// Options configures a fetch Client. Zero values fall back to the defaults
// in internal/shared/constants.
type Options struct {
	Timeout      time.Duration
	UserAgent    string
	MaxRedirects int
	MaxBodyBytes int64
}

// Client performs the single page GET an audit starts from. It is safe for
// concurrent use by batch workers.
type Client struct {
	httpClient   *http.Client
	userAgent    string
	maxBodyBytes int64
}

type redirectCountKey struct{}

// NewClient builds a fetch client with a fixed timeout and a bounded
// redirect policy.
func NewClient(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = constants.DefaultFetchTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = constants.DefaultUserAgent
	}
	if opts.MaxRedirects <= 0 {
		opts.MaxRedirects = constants.DefaultMaxRedirects
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = constants.MaxBodyBytes
	}

	maxRedirects := opts.MaxRedirects
	return &Client{
		httpClient: &http.Client{
			Timeout: opts.Timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return fmt.Errorf("stopped after %d redirects", maxRedirects)
				}
				if n, ok := req.Context().Value(redirectCountKey{}).(*int); ok {
					*n = len(via)
				}
				return nil
			},
		},
		userAgent:    opts.UserAgent,
		maxBodyBytes: opts.MaxBodyBytes,
	}
}

// NormalizeURL makes a user-supplied target fetchable: bare hosts get an
// https scheme and trailing slashes are trimmed.
func NormalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return raw
	}
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		raw = "https://" + raw
	}
	return strings.TrimRight(raw, "/")
}

// Fetch performs one GET against the target URL and materializes the
// response into a Snapshot. Network failures, timeouts, and non-2xx statuses
// all come back as a *errors.FetchError for the target.
func (c *Client) Fetch(ctx context.Context, rawURL string) (*Snapshot, error) {
	target := NormalizeURL(rawURL)
	if target == "" {
		return nil, &apperrors.FetchError{URL: rawURL, Err: apperrors.ErrEmptyTargetURL}
	}

	redirects := 0
	ctx = context.WithValue(ctx, redirectCountKey{}, &redirects)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, &apperrors.FetchError{URL: target, Err: err}
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &apperrors.FetchError{URL: target, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodyBytes))
	elapsed := time.Since(start)
	if err != nil {
		return nil, &apperrors.FetchError{URL: target, Err: fmt.Errorf("read body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &apperrors.FetchError{URL: target, StatusCode: resp.StatusCode}
	}

	encoding := resp.Header.Get("Content-Encoding")
	if encoding == "" && resp.Uncompressed {
		// The transport negotiated gzip and already decompressed the body.
		encoding = "gzip"
	}

	return &Snapshot{
		URL:             target,
		FinalURL:        resp.Request.URL.String(),
		StatusCode:      resp.StatusCode,
		Headers:         resp.Header,
		Body:            decodeBody(raw, resp.Header.Get("Content-Type")),
		RawSize:         len(raw),
		ContentEncoding: encoding,
		Elapsed:         elapsed,
		Redirects:       redirects,
	}, nil
}

// decodeBody converts the body to UTF-8 using the declared or sniffed
// charset. A body that cannot be decoded is returned as-is; the parser is
// tolerant of stray bytes.
func decodeBody(raw []byte, contentType string) []byte {
	if len(raw) == 0 {
		return raw
	}
	reader, err := charset.NewReader(bytes.NewReader(raw), contentType)
	if err != nil {
		return raw
	}
	decoded, err := io.ReadAll(reader)
	if err != nil {
		return raw
	}
	return decoded
}

// Header returns a response header value, case-insensitively. Missing
// headers are the empty string.
func (s *Snapshot) Header(name string) string {
	if s.Headers == nil {
		return ""
	}
	return s.Headers.Get(name)
}
