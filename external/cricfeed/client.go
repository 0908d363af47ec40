// Package cricfeed is the HTTP client for the cricket data provider used
// to import tournament player rosters.
package cricfeed

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/panjf2000/ants/v2"

	"github.com/cricbid/auction-platform/internal/platform/logging"
	"github.com/cricbid/auction-platform/internal/platform/resilience"
	"github.com/cricbid/auction-platform/internal/usecase"
)

const (
	defaultBaseURL   = "https://api.cricfeed.io/v2"
	defaultWorkers   = 4
	defaultPageSize  = 100
	maxResponseBytes = 1 << 22
)

var errCricfeedTransient = crerr.New("cricfeed transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Token          string
	Timeout        time.Duration
	MaxRetries     int
	Workers        int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

type Client struct {
	httpClient     *http.Client
	baseURL        string
	token          string
	maxRetries     int
	workers        int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 20 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}

	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		token:          strings.TrimSpace(cfg.Token),
		maxRetries:     max(cfg.MaxRetries, 0),
		workers:        workers,
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

type playerItem struct {
	ID        string `json:"id"`
	FullName  string `json:"full_name"`
	Country   string `json:"country_code"`
	Role      string `json:"playing_role"`
	BasePrice int64  `json:"base_price"`
}

type playersEnvelope struct {
	Data []playerItem `json:"data"`
	Meta struct {
		Page       int `json:"page"`
		TotalPages int `json:"total_pages"`
	} `json:"meta"`
}

// FetchTournamentPlayers pulls every roster page for a tournament. The
// first page reveals the page count; the rest are fetched through a small
// worker pool.
func (c *Client) FetchTournamentPlayers(ctx context.Context, tournamentRef string) ([]usecase.ExternalPlayer, error) {
	tournamentRef = strings.TrimSpace(tournamentRef)
	if tournamentRef == "" {
		return nil, fmt.Errorf("tournament reference is required")
	}

	path := fmt.Sprintf("/tournaments/%s/players", url.PathEscape(tournamentRef))

	first, err := c.fetchPage(ctx, path, 1)
	if err != nil {
		return nil, fmt.Errorf("fetch players page=1: %w", err)
	}

	pages := make([][]playerItem, first.Meta.TotalPages)
	if len(pages) == 0 {
		pages = make([][]playerItem, 1)
	}
	pages[0] = first.Data

	if first.Meta.TotalPages > 1 {
		pool, err := ants.NewPool(c.workers)
		if err != nil {
			return nil, fmt.Errorf("create fetch pool: %w", err)
		}
		defer pool.Release()

		var (
			wg       sync.WaitGroup
			mu       sync.Mutex
			fetchErr error
		)
		for page := 2; page <= first.Meta.TotalPages; page++ {
			page := page
			wg.Add(1)
			submitErr := pool.Submit(func() {
				defer wg.Done()
				envelope, err := c.fetchPage(ctx, path, page)
				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					if fetchErr == nil {
						fetchErr = fmt.Errorf("fetch players page=%d: %w", page, err)
					}
					return
				}
				pages[page-1] = envelope.Data
			})
			if submitErr != nil {
				wg.Done()
				return nil, fmt.Errorf("submit page fetch: %w", submitErr)
			}
		}
		wg.Wait()
		if fetchErr != nil {
			return nil, fetchErr
		}
	}

	out := make([]usecase.ExternalPlayer, 0, len(first.Data)*len(pages))
	for _, items := range pages {
		for _, item := range items {
			out = append(out, usecase.ExternalPlayer{
				ExternalID: item.ID,
				FullName:   item.FullName,
				Country:    item.Country,
				Role:       item.Role,
				BasePrice:  item.BasePrice,
			})
		}
	}

	return out, nil
}

func (c *Client) fetchPage(ctx context.Context, path string, page int) (playersEnvelope, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("per_page", strconv.Itoa(defaultPageSize))

	var envelope playersEnvelope
	if err := c.doJSON(ctx, path, query, &envelope); err != nil {
		return playersEnvelope{}, err
	}

	return envelope, nil
}

func (c *Client) doJSON(ctx context.Context, path string, query url.Values, target any) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "cricfeed circuit breaker rejected request", "state", c.breaker.State())
			return fmt.Errorf("%w: player feed is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	fullURL := c.baseURL + path
	if encoded := query.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	out, err, _ := c.flight.Do(fullURL, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && stderrors.Is(reqErr, errCricfeedTransient) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return err
	}

	raw, ok := out.([]byte)
	if !ok {
		return fmt.Errorf("unexpected response payload type %T", out)
	}
	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode feed payload: %w", err)
	}

	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt) * 250 * time.Millisecond):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		if c.token != "" {
			req.Header.Set("Authorization", "Bearer "+c.token)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = crerr.Mark(fmt.Errorf("request feed: %w", err), errCricfeedTransient)
			continue
		}

		body, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
		resp.Body.Close()
		if readErr != nil {
			lastErr = crerr.Mark(fmt.Errorf("read feed response: %w", readErr), errCricfeedTransient)
			continue
		}

		switch {
		case resp.StatusCode == http.StatusOK:
			return body, nil
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			lastErr = crerr.Mark(fmt.Errorf("feed responded with status %d", resp.StatusCode), errCricfeedTransient)
			continue
		default:
			return nil, fmt.Errorf("feed responded with status %d", resp.StatusCode)
		}
	}

	return nil, lastErr
}
