package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/tartampluch/go-amlich/internal/config"
)

var (
	// ErrUnexpectedStatus is returned for any non-200 response.
	ErrUnexpectedStatus = errors.New(config.ErrHTTPStatus)

	// ErrTooLarge is returned by Read once the body passes the size limit.
	ErrTooLarge = errors.New(config.ErrTooLarge)
)

// Source locates a remote address book.
type Source struct {
	URL  string
	User string // HTTP Basic Auth, omitted when User and Pass are empty
	Pass string
}

// VCardFetcher downloads an address book.
type VCardFetcher interface {
	Fetch(ctx context.Context, src Source) (io.ReadCloser, error)
}

// HTTPFetcher fetches address books over HTTP(S).
type HTTPFetcher struct {
	Client   *http.Client
	MaxBytes int64 // Body size limit; zero means config.MaxHTTPResponseSize
}

// NewHTTPFetcher returns a fetcher with the default timeout and size limit.
func NewHTTPFetcher() *HTTPFetcher {
	return &HTTPFetcher{
		Client:   &http.Client{Timeout: config.HTTPTimeout},
		MaxBytes: config.MaxHTTPResponseSize,
	}
}

// Fetch opens src. The returned body fails with ErrTooLarge rather than
// truncating a vCard stream mid-card.
func (f *HTTPFetcher) Fetch(ctx context.Context, src Source) (io.ReadCloser, error) {
	u, err := url.Parse(src.URL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrInvalidURL, err)
	}
	if u.Scheme != config.SchemeHTTP && u.Scheme != config.SchemeHTTPS {
		return nil, fmt.Errorf("%s: %s", config.ErrProtocol, u.Scheme)
	}

	log := slog.With(
		slog.String(config.LogKeyComponent, config.CompFetcher),
		slog.String(config.LogKeyURL, redactURL(u)),
	)
	log.Debug(config.MsgFetchStart)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrRequest, err)
	}
	req.Header.Set(config.HeaderUserAgent, config.UserAgent)
	req.Header.Set(config.HeaderAccept, config.MimeVCardAccept)
	if src.User != "" || src.Pass != "" {
		req.SetBasicAuth(src.User, src.Pass)
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrNetwork, err)
	}

	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		log.Warn(config.MsgFetchStatus, slog.Int(config.LogKeyStatus, resp.StatusCode))
		return nil, fmt.Errorf("%w: %s", ErrUnexpectedStatus, resp.Status)
	}

	limit := f.MaxBytes
	if limit <= 0 {
		limit = config.MaxHTTPResponseSize
	}
	log.Info(config.MsgFetchBody,
		slog.Int64(config.LogKeyLength, resp.ContentLength),
		slog.Int64(config.LogKeyLimit, limit),
	)

	return &cappedBody{body: resp.Body, remaining: limit}, nil
}

// cappedBody reads at most remaining bytes and reports ErrTooLarge when the
// server sends more.
type cappedBody struct {
	body      io.ReadCloser
	remaining int64
}

func (c *cappedBody) Read(p []byte) (int, error) {
	if c.remaining < 0 {
		return 0, ErrTooLarge
	}
	// One extra byte tells a body of exactly the limit from a longer one.
	if int64(len(p)) > c.remaining+1 {
		p = p[:c.remaining+1]
	}
	n, err := c.body.Read(p)
	c.remaining -= int64(n)
	if c.remaining < 0 {
		return n + int(c.remaining), ErrTooLarge
	}
	return n, err
}

func (c *cappedBody) Close() error {
	return c.body.Close()
}

// redactURL drops user info and the query string for logging.
func redactURL(u *url.URL) string {
	return u.Scheme + "://" + u.Host + u.Path
}
