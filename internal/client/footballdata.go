// Package client downloads season CSV files from football-data.co.uk.
package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"clubelo/ratings/internal/metrics"

	"github.com/klauspost/compress/gzip"
	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

// DefaultBaseURL is the football-data.co.uk season archive
const DefaultBaseURL = "https://www.football-data.co.uk/mmz4281"

// backupTimeLayout stamps gzip backups in UTC
const backupTimeLayout = "20060102_150405"

// Options configures a Client
type Options struct {
	BaseURL    string
	Timeout    time.Duration
	RateLimit  float64 // requests per second
	MaxRetries int
	BackupDir  string
}

// Client is the football-data.co.uk downloader
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker
	maxRetries int
	retryDelay time.Duration
	backupDir  string
	now        func() time.Time
}

// NewClient creates a new downloader
func NewClient(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 2
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "football-data",
		MaxRequests: 1,
		Timeout:     time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		// a missing season file is an answer, not an outage
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrNotFound)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Circuit breaker state changed")
		},
	})

	return &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		limiter:    rate.NewLimiter(rate.Limit(opts.RateLimit), 1),
		breaker:    breaker,
		maxRetries: opts.MaxRetries,
		retryDelay: 1 * time.Second,
		backupDir:  opts.BackupDir,
		now:        time.Now,
		httpClient: &http.Client{
			Timeout: opts.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 2,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// SeasonFileURL returns the archive URL of one league season,
// e.g. <base>/2324/E0.csv
func (c *Client) SeasonFileURL(league, season string) string {
	return fmt.Sprintf("%s/%s/%s.csv", c.baseURL, season, league)
}

// LocalName returns the local file name of one league season, e.g. E0_2324.csv
func LocalName(league, season string) string {
	return fmt.Sprintf("%s_%s.csv", league, season)
}

// get performs a GET request with retry logic and rate limiting
func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	var lastErr error
	var wait time.Duration
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			// Exponential backoff unless the server asked for a delay
			backoff := c.retryDelay * time.Duration(1<<uint(attempt-1))
			if wait > 0 {
				backoff = wait
			}
			log.Info().
				Str("url", url).
				Int("attempt", attempt).
				Dur("backoff", backoff).
				Msg("Retrying request after backoff")

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}
		wait = 0

		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		body, retryAfter, err := c.do(ctx, url)
		if err == nil {
			return body, nil
		}
		lastErr = err

		var statusErr *StatusError
		if errors.As(err, &statusErr) && !statusErr.Retryable() {
			return nil, err
		}
		if errors.Is(err, ErrNotFound) || ctx.Err() != nil {
			return nil, err
		}
		wait = retryAfter

		log.Warn().
			Err(err).
			Str("url", url).
			Int("attempt", attempt+1).
			Msg("Request failed")
	}

	return nil, fmt.Errorf("giving up after %d attempts: %w", c.maxRetries+1, lastErr)
}

func (c *Client) do(ctx context.Context, url string) ([]byte, time.Duration, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "clubelo-ratings/1.0")
	req.Header.Set("Accept", "text/csv, */*")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusNotFound:
		return nil, 0, fmt.Errorf("%w: %s", ErrNotFound, url)
	default:
		io.Copy(io.Discard, resp.Body)
		return nil, retryAfter(resp.Header.Get("Retry-After")), &StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read response body: %w", err)
	}
	if len(body) == 0 {
		return nil, 0, fmt.Errorf("%w: %s", ErrEmptyBody, url)
	}
	return body, 0, nil
}

// retryAfter parses a Retry-After header given in seconds
func retryAfter(v string) time.Duration {
	secs, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

// Download fetches one league season into dir and returns the local path.
// The file is replaced atomically.
func (c *Client) Download(ctx context.Context, league, season, dir string) (string, error) {
	url := c.SeasonFileURL(league, season)
	start := time.Now()

	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.get(ctx, url)
	})
	duration := time.Since(start).Seconds()
	if err != nil {
		metrics.RecordDownload(league, "error", duration)
		return "", fmt.Errorf("failed to download %s: %w", url, err)
	}
	metrics.RecordDownload(league, "success", duration)

	body := result.([]byte)
	dest := filepath.Join(dir, LocalName(league, season))
	if err := writeAtomic(dest, body); err != nil {
		return "", err
	}

	log.Info().
		Str("url", url).
		Str("file", dest).
		Int("bytes", len(body)).
		Msg("Season file downloaded")

	if c.backupDir != "" {
		backup, err := c.backup(dest, body)
		if err != nil {
			// the fresh download is still usable
			log.Warn().Err(err).Str("file", dest).Msg("Backup failed")
		} else {
			log.Debug().Str("backup", backup).Msg("Backup created")
		}
	}

	return dest, nil
}

// backup writes a gzip copy named <file>.<UTC timestamp>.gz
func (c *Client) backup(src string, data []byte) (string, error) {
	if err := os.MkdirAll(c.backupDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create backup dir: %w", err)
	}

	name := fmt.Sprintf("%s.%s.gz", filepath.Base(src), c.now().UTC().Format(backupTimeLayout))
	path := filepath.Join(c.backupDir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create backup: %w", err)
	}
	defer f.Close()

	zw := gzip.NewWriter(f)
	zw.Name = filepath.Base(src)
	if _, err := zw.Write(data); err != nil {
		return "", fmt.Errorf("failed to compress backup: %w", err)
	}
	if err := zw.Close(); err != nil {
		return "", fmt.Errorf("failed to finish backup: %w", err)
	}
	return path, f.Close()
}

func writeAtomic(dest string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("failed to create data dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), "."+filepath.Base(dest)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, dest); err != nil {
		return fmt.Errorf("failed to move %s into place: %w", dest, err)
	}
	return nil
}

// DownloadResult tallies a DownloadAll pass
type DownloadResult struct {
	Downloaded int
	Skipped    int
	Failed     int
	Files      []string
}

// DownloadAll fetches every (league, season) pair. A failed file is logged
// and counted; only a cancelled context stops the pass. With skipExisting,
// files already present in dir are left alone.
func (c *Client) DownloadAll(ctx context.Context, leagues, seasons []string, dir string, skipExisting bool) (*DownloadResult, error) {
	res := &DownloadResult{}

	for _, league := range leagues {
		for _, season := range seasons {
			if err := ctx.Err(); err != nil {
				return res, err
			}

			if skipExisting {
				if _, err := os.Stat(filepath.Join(dir, LocalName(league, season))); err == nil {
					res.Skipped++
					continue
				}
			}

			path, err := c.Download(ctx, league, season, dir)
			if err != nil {
				if ctx.Err() != nil {
					return res, ctx.Err()
				}
				log.Error().
					Err(err).
					Str("league", league).
					Str("season", season).
					Msg("Season download failed")
				metrics.RecordError("client", "download")
				res.Failed++
				continue
			}
			res.Downloaded++
			res.Files = append(res.Files, path)
		}
	}

	log.Info().
		Int("downloaded", res.Downloaded).
		Int("skipped", res.Skipped).
		Int("failed", res.Failed).
		Msg("Season downloads finished")

	return res, nil
}
