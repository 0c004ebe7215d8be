package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Internal provider errors. Neither escapes the aggregator.
var (
	errNotFound            = errors.New("not found")
	errProviderUnavailable = errors.New("provider unavailable")
)

// maxResponseBytes caps how much of a provider response is read.
const maxResponseBytes = 8 << 20

// ProviderClientConfig tunes the HTTP plumbing shared by provider adapters.
type ProviderClientConfig struct {
	Timeout       time.Duration // per call, default 10s
	RatePerSecond float64       // outbound calls per second, default 5
	Burst         int           // default 10
	FailureRatio  float64       // circuit trips at this failure ratio, default 0.6
	MinRequests   uint32        // requests before the ratio is evaluated, default 5
	OpenTimeout   time.Duration // how long the circuit stays open, default 30s
}

func (c ProviderClientConfig) withDefaults() ProviderClientConfig {
	if c.Timeout <= 0 {
		c.Timeout = 10 * time.Second
	}
	if c.RatePerSecond <= 0 {
		c.RatePerSecond = 5
	}
	if c.Burst <= 0 {
		c.Burst = 10
	}
	if c.FailureRatio <= 0 || c.FailureRatio > 1 {
		c.FailureRatio = 0.6
	}
	if c.MinRequests == 0 {
		c.MinRequests = 5
	}
	if c.OpenTimeout <= 0 {
		c.OpenTimeout = 30 * time.Second
	}
	return c
}

// providerClient performs rate-limited, circuit-broken JSON GETs against
// one provider.
type providerClient struct {
	name    string
	http    *http.Client
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker
	timeout time.Duration
	metrics *Metrics
	logger  *zap.Logger
}

func newProviderClient(name string, cfg ProviderClientConfig, httpClient *http.Client, metrics *Metrics, logger *zap.Logger) *providerClient {
	cfg = cfg.withDefaults()
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if metrics == nil {
		metrics = NewMetrics("nutrition")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("provider", name))

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= cfg.FailureRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("provider circuit state changed",
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
		// a 404 is an answer, not an outage
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, errNotFound)
		},
	})

	return &providerClient{
		name:    name,
		http:    httpClient,
		limiter: rate.NewLimiter(rate.Limit(cfg.RatePerSecond), cfg.Burst),
		breaker: breaker,
		timeout: cfg.Timeout,
		metrics: metrics,
		logger:  logger,
	}
}

// getJSON fetches url and decodes the body into out. It returns nil,
// errNotFound, or an error wrapping errProviderUnavailable.
func (p *providerClient) getJSON(ctx context.Context, url string, out any) error {
	start := time.Now()
	err := p.fetch(ctx, url, out)
	p.metrics.ProviderDuration.WithLabelValues(p.name).Observe(time.Since(start).Seconds())

	outcome := outcomeSuccess
	switch {
	case err == nil:
	case errors.Is(err, errNotFound):
		outcome = outcomeNotFound
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		outcome = outcomeUnavailable
	default:
		outcome = outcomeFailure
	}
	p.metrics.ProviderRequests.WithLabelValues(p.name, outcome).Inc()

	if err == nil || errors.Is(err, errNotFound) {
		return err
	}
	return fmt.Errorf("%w: %s: %w", errProviderUnavailable, p.name, err)
}

func (p *providerClient) fetch(ctx context.Context, url string, out any) error {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	if err := p.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	_, err := p.breaker.Execute(func() (any, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := p.http.Do(req)
		if err != nil {
			return nil, fmt.Errorf("failed to call %s: %w", p.name, err)
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
		if err != nil {
			return nil, fmt.Errorf("failed to read %s response: %w", p.name, err)
		}
		if resp.StatusCode == http.StatusNotFound {
			return nil, errNotFound
		}
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("%s API error %d: %s", p.name, resp.StatusCode, truncate(string(body), 200))
		}
		if err := json.Unmarshal(body, out); err != nil {
			return nil, fmt.Errorf("failed to parse %s JSON: %w", p.name, err)
		}
		return nil, nil
	})
	return err
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
