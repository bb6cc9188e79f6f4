// Package bcb talks to the Banco Central do Brasil open-data services:
// the SGS time-series API and the SCR.data open-data portal.
package bcb

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/poxaedu/credtech/pkg/config"
	"github.com/poxaedu/credtech/pkg/httputil"
	"github.com/poxaedu/credtech/pkg/logger"
	"github.com/poxaedu/credtech/pkg/redis"
)

// Client is a rate-limited HTTP client for BCB endpoints.
// O limitador local vale sempre; o limitador distribuído (Redis) é
// opcional e entra via WithSharedRateLimit.
type Client struct {
	http    *httputil.Client
	portal  *httputil.Client
	limiter *rate.Limiter
	cfg     config.BCBConfig
	logger  *logger.Logger
}

// NewClient creates a new BCB Client instance
func NewClient(cfg *config.Config, log *logger.Logger) *Client {
	perSec := cfg.BCB.RatePerSec
	if perSec <= 0 {
		perSec = 1
	}
	return &Client{
		http:    httputil.NewWithTimeout(cfg, log, 60*time.Second).WithRetry(3, 2*time.Second),
		portal:  httputil.NewWithTimeout(cfg, log, 60*time.Second).WithRetry(3, 2*time.Second),
		limiter: rate.NewLimiter(rate.Limit(perSec), perSec),
		cfg:     cfg.BCB,
		logger:  log,
	}
}

// WithSharedRateLimit plugs the Redis sliding-window limiter in, so
// instâncias concorrentes dividem a mesma cota junto ao BCB. No-op
// transparente quando o Redis está desabilitado.
func (c *Client) WithSharedRateLimit(rdb *redis.Client) *Client {
	limiter := redis.NewRateLimiter(rdb, "credtech")
	c.http = c.http.WithRateLimiter(limiter, redis.BCBSGSRateLimit)
	c.portal = c.portal.WithRateLimiter(limiter, redis.BCBPortalRateLimit)
	return c
}

// fetch performs one rate-limited GET and returns the response body.
func (c *Client) fetch(ctx context.Context, url string) ([]byte, error) {
	return c.fetchVia(ctx, c.http, url)
}

// fetchPortal is fetch with the open-data portal quota.
func (c *Client) fetchPortal(ctx context.Context, url string) ([]byte, error) {
	return c.fetchVia(ctx, c.portal, url)
}

func (c *Client) fetchVia(ctx context.Context, hc *httputil.Client, url string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	resp, err := hc.Get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("get %s: unexpected status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body from %s: %w", url, err)
	}
	return body, nil
}
