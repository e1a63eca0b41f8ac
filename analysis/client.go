package analysis

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/time/rate"

	"github.com/tsawler/deckreader/model"
	"github.com/tsawler/deckreader/tree"
)

// Exporter renders a slide to an image at the given scale
type Exporter interface {
	Export(ctx context.Context, slide tree.Node, scale float64) (model.Raster, error)
}

// Analyzer finds regions and columns on an exported slide image
type Analyzer interface {
	Analyze(ctx context.Context, img model.Raster) (Result, error)
}

// ClientConfig holds configuration for analysis requests
type ClientConfig struct {
	// RequestsPerSecond is the sustained rate of export+analysis requests.
	// Zero or less disables limiting.
	// Default: 20
	RequestsPerSecond float64

	// Burst is the maximum request burst
	// Default: 5
	Burst int
}

// DefaultClientConfig returns sensible default configuration
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		RequestsPerSecond: 20,
		Burst:             5,
	}
}

// Client requests visual analysis of slides. Export happens in the calling
// goroutine; analysis runs in the background and is delivered to a Cache.
// Callers that release resources used by the analyzer must call Wait first.
type Client struct {
	exporter Exporter
	analyzer Analyzer
	limiter  *rate.Limiter

	wg sync.WaitGroup
}

// NewClient creates a client with default configuration
func NewClient(exporter Exporter, analyzer Analyzer) *Client {
	return NewClientWithConfig(exporter, analyzer, DefaultClientConfig())
}

// NewClientWithConfig creates a client with custom configuration
func NewClientWithConfig(exporter Exporter, analyzer Analyzer, config ClientConfig) *Client {
	limit := rate.Inf
	if config.RequestsPerSecond > 0 {
		limit = rate.Limit(config.RequestsPerSecond)
	}
	burst := config.Burst
	if burst < 1 {
		burst = 1
	}

	return &Client{
		exporter: exporter,
		analyzer: analyzer,
		limiter:  rate.NewLimiter(limit, burst),
	}
}

// Request exports slide at the space's scale and starts analysing it. The
// outcome is delivered to cache under the slide's id, including export
// failures, so a waiter never blocks longer than its own bound.
func (c *Client) Request(ctx context.Context, slide tree.Node, space model.AnalysisSpace, cache *Cache) error {
	id := slide.ID()

	if err := c.limiter.Wait(ctx); err != nil {
		cache.Fail(id, err)
		return fmt.Errorf("waiting for analysis slot: %w", err)
	}

	img, err := c.exporter.Export(ctx, slide, space.Scale)
	if err != nil {
		err = fmt.Errorf("exporting slide %s: %w", id, err)
		cache.Fail(id, err)
		return err
	}

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				cache.Fail(id, fmt.Errorf("analysing slide %s: panic: %v", id, r))
			}
		}()

		result, err := c.analyzer.Analyze(ctx, img)
		if err != nil {
			cache.Fail(id, fmt.Errorf("analysing slide %s: %w", id, err))
			return
		}
		cache.Put(id, result)
	}()

	return nil
}

// Wait blocks until every analysis started by Request has returned
func (c *Client) Wait() {
	c.wg.Wait()
}
