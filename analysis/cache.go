package analysis

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/tsawler/deckreader/model"
)

// ErrTimeout is returned by Await when no result arrived within the bound
var ErrTimeout = errors.New("analysis timed out")

// Result is what visual analysis found on one slide
type Result struct {
	// Regions found on the render, in analysis-space pixels
	Regions []model.ContentRegion

	// Layout is the detected column structure; nil when none was found
	Layout *model.ColumnLayout

	// Width and Height of the analysed render in pixels
	Width  int
	Height int
}

// ImageRegions returns the regions classified as images
func (r Result) ImageRegions() []model.ContentRegion {
	var out []model.ContentRegion
	for _, reg := range r.Regions {
		if reg.Kind == model.RegionImage {
			out = append(out, reg)
		}
	}
	return out
}

type entry struct {
	done   chan struct{}
	result Result
	err    error
}

// Cache holds analysis results for one extraction run, keyed by slide id.
// Each key resolves once; later deliveries for the same key are ignored.
// It is safe for concurrent use.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*entry
}

// NewCache creates an empty cache
func NewCache() *Cache {
	return &Cache{entries: make(map[string]*entry)}
}

// lookup returns the entry for id, creating a pending one if needed
func (c *Cache) lookup(id string) *entry {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[id]
	if !ok {
		e = &entry{done: make(chan struct{})}
		c.entries[id] = e
	}
	return e
}

// Put delivers a result for id
func (c *Cache) Put(id string, r Result) {
	c.resolve(id, r, nil)
}

// Fail records that analysis for id could not be produced
func (c *Cache) Fail(id string, err error) {
	if err == nil {
		err = errors.New("analysis failed")
	}
	c.resolve(id, Result{}, err)
}

func (c *Cache) resolve(id string, r Result, err error) {
	e := c.lookup(id)

	c.mu.Lock()
	defer c.mu.Unlock()

	select {
	case <-e.done:
		return
	default:
	}
	e.result, e.err = r, err
	close(e.done)
}

// Get returns the result for id without waiting. ok is false when nothing
// was delivered yet or the delivery was a failure.
func (c *Cache) Get(id string) (Result, bool) {
	c.mu.Lock()
	e, ok := c.entries[id]
	c.mu.Unlock()
	if !ok {
		return Result{}, false
	}

	select {
	case <-e.done:
		return e.result, e.err == nil
	default:
		return Result{}, false
	}
}

// Await waits up to timeout for the result for id. It returns ErrTimeout
// when the bound expires, the context error when ctx ends first, and the
// delivered error for failed analyses.
func (c *Cache) Await(ctx context.Context, id string, timeout time.Duration) (Result, error) {
	e := c.lookup(id)

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-e.done:
		return e.result, e.err
	case <-timer.C:
		return Result{}, ErrTimeout
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}

// Len returns the number of keys with a delivered result or failure
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	var n int
	for _, e := range c.entries {
		select {
		case <-e.done:
			n++
		default:
		}
	}
	return n
}
