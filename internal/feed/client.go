package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/stickerdash/stickerdash-backend/pkg/config"
	"github.com/stickerdash/stickerdash-backend/pkg/logger"
)

const (
	defaultTimeout      = 30 * time.Second
	defaultMaxBodyBytes = 10 << 20
	defaultRPS          = 1.0
	defaultBurst        = 3
	userAgent           = "stickerdash-importer/1.0"
)

var (
	// ErrBodyTooLarge is returned when the feed exceeds the configured size cap.
	ErrBodyTooLarge = errors.New("feed body exceeds size limit")
	// ErrNotJSON is returned when the body does not decode as a feed array.
	ErrNotJSON = errors.New("feed body is not a JSON array of entries")
)

// StatusError reports a non-2xx response from the feed host.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("feed responded with status %d", e.StatusCode)
}

// Fetcher is the surface the importer depends on.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]Entry, error)
}

// Client is a rate-limited HTTP client for sticker feeds.
type Client struct {
	http         *http.Client
	limiter      *rate.Limiter
	maxBodyBytes int64
	logg         *logger.Logger
}

// NewClient builds a feed client from config. Zero values fall back to defaults.
func NewClient(cfg config.FeedConfig, logg *logger.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = defaultMaxBodyBytes
	}
	rps := cfg.RPS
	if rps <= 0 {
		rps = defaultRPS
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = defaultBurst
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &Client{
		http:         &http.Client{Timeout: timeout},
		limiter:      rate.NewLimiter(rate.Limit(rps), burst),
		maxBodyBytes: maxBody,
		logg:         logg,
	}
}

// Fetch downloads and decodes the feed at url.
func (c *Client) Fetch(ctx context.Context, url string) ([]Entry, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	c.logg.Debug(c.logg.WithField(ctx, "url", url), "fetching sticker feed")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &StatusError{StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if int64(len(body)) > c.maxBodyBytes {
		return nil, ErrBodyTooLarge
	}

	return Decode(body)
}

// Decode parses a feed document.
func Decode(body []byte) ([]Entry, error) {
	var entries []Entry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotJSON, err)
	}
	if entries == nil {
		// a literal null is not a feed
		return nil, ErrNotJSON
	}
	return entries, nil
}
