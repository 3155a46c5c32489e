// Package index looks up published versions of a package in a sparse
// package index such as index.crates.io.
package index

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/hashicorp/go-cleanhttp"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/pkg/errors"

	"github.com/alexandre1a/cargo-freshen/internal/logger"
	"github.com/alexandre1a/cargo-freshen/internal/models/consts"
	"github.com/alexandre1a/cargo-freshen/internal/models/types"
	"github.com/alexandre1a/cargo-freshen/internal/utils/common"
)

var (
	// ErrNotFound means the index file had no usable version line.
	ErrNotFound = errors.New("no version found")
	// ErrTransport covers failed requests and non-200 answers.
	ErrTransport = errors.New("index request failed")
	// ErrDecode means the response body could not be read.
	ErrDecode = errors.New("index response unreadable")
)

// Client queries one index. It is safe for concurrent use; the underlying
// *http.Client is shared and never modified after construction.
type Client struct {
	http    common.Doer
	root    string
	headers map[string]string
}

type options struct {
	httpClient *http.Client
	root       string
	retries    int
	waitMin    time.Duration
	waitMax    time.Duration
	timeout    time.Duration
	userAgent  string
}

// Option configures a Client.
type Option func(*options)

// WithHTTPClient reuses an existing client, and with it its connection pool.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.httpClient = c }
}

// WithIndexRoot points the client at another index.
func WithIndexRoot(root string) Option {
	return func(o *options) { o.root = root }
}

// WithRetries sets how many times a 429/5xx or connection failure is retried.
func WithRetries(n int) Option {
	return func(o *options) { o.retries = n }
}

// WithRetryWait sets the backoff bounds between retries.
func WithRetryWait(minWait, maxWait time.Duration) Option {
	return func(o *options) { o.waitMin, o.waitMax = minWait, maxWait }
}

// WithTimeout bounds each request. Ignored when WithHTTPClient is used.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

func WithUserAgent(ua string) Option {
	return func(o *options) { o.userAgent = ua }
}

// NewClient builds a client for the crates.io sparse index unless told otherwise.
func NewClient(opts ...Option) *Client {
	o := options{
		root:      consts.CratesIndexURL,
		retries:   consts.DefaultRetries,
		timeout:   consts.DefaultTimeout,
		userAgent: consts.UserAgent,
	}
	for _, opt := range opts {
		opt(&o)
	}

	base := o.httpClient
	if base == nil {
		base = cleanhttp.DefaultPooledClient()
		base.Timeout = o.timeout
	}

	rc := retryablehttp.NewClient()
	rc.HTTPClient = base
	rc.RetryMax = max(o.retries, 0)
	if o.waitMin > 0 {
		rc.RetryWaitMin = o.waitMin
	}
	if o.waitMax > 0 {
		rc.RetryWaitMax = o.waitMax
	}
	rc.Logger = logger.HTTPLogger{}

	return &Client{
		http:    rc.StandardClient(),
		root:    strings.TrimRight(o.root, "/"),
		headers: map[string]string{"User-Agent": o.userAgent},
	}
}

// Root returns the index base URL.
func (c *Client) Root() string {
	return c.root
}

// URL returns the address of the index file for name.
func (c *Client) URL(name string) string {
	return c.root + "/" + ShardPath(name)
}

// Versions returns every decodable entry of the index file for name, in
// publication order.
func (c *Client) Versions(ctx context.Context, name string) ([]types.IndexEntry, error) {
	if name == "" {
		return nil, errors.Wrap(ErrNotFound, "empty package name")
	}

	body, err := common.Fetch(ctx, c.http, c.URL(name), c.headers)
	if err != nil {
		if errors.Is(err, common.ErrBodyRead) {
			return nil, errors.Wrapf(ErrDecode, "%s: %v", name, err)
		}
		return nil, errors.Wrapf(ErrTransport, "%s: %v", name, err)
	}

	entries := ParseEntries(body)
	if len(entries) == 0 {
		return nil, errors.Wrap(ErrNotFound, name)
	}
	return entries, nil
}

// LatestVersion returns the version of the last entry in the index file.
// The index is append-only, so the last line is the most recently published
// version. It is not necessarily the highest one.
func (c *Client) LatestVersion(ctx context.Context, name string) (*semver.Version, error) {
	entries, err := c.Versions(ctx, name)
	if err != nil {
		return nil, err
	}
	return entries[len(entries)-1].Version, nil
}
