package analysis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tsawler/deckreader/model"
)

func TestCache_PutThenAwait(t *testing.T) {
	c := NewCache()
	c.Put("s1", Result{Width: 400, Height: 225})

	got, err := c.Await(context.Background(), "s1", time.Second)
	if err != nil {
		t.Fatalf("Await failed: %v", err)
	}
	if got.Width != 400 {
		t.Errorf("Width = %d, want 400", got.Width)
	}
}

func TestCache_AwaitThenPut(t *testing.T) {
	c := NewCache()

	go func() {
		time.Sleep(10 * time.Millisecond)
		c.Put("s1", Result{Width: 7})
	}()

	got, err := c.Await(context.Background(), "s1", 2*time.Second)
	if err != nil {
		t.Fatalf("Await failed: %v", err)
	}
	if got.Width != 7 {
		t.Errorf("Width = %d, want 7", got.Width)
	}
}

func TestCache_AwaitTimeout(t *testing.T) {
	c := NewCache()

	start := time.Now()
	_, err := c.Await(context.Background(), "never", 20*time.Millisecond)
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("Await took %v, expected to respect the bound", elapsed)
	}
}

func TestCache_AwaitContextCancelled(t *testing.T) {
	c := NewCache()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Await(ctx, "s1", time.Minute)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestCache_FirstDeliveryWins(t *testing.T) {
	c := NewCache()
	c.Put("s1", Result{Width: 1})
	c.Put("s1", Result{Width: 2})
	c.Fail("s1", errors.New("late failure"))

	got, ok := c.Get("s1")
	if !ok || got.Width != 1 {
		t.Errorf("Get() = (%+v, %v), want first result", got, ok)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
}

func TestCache_Fail(t *testing.T) {
	c := NewCache()
	boom := errors.New("boom")
	c.Fail("s1", boom)

	if _, ok := c.Get("s1"); ok {
		t.Error("Get() should report failure as not ok")
	}
	if _, err := c.Await(context.Background(), "s1", time.Second); !errors.Is(err, boom) {
		t.Errorf("Await() error = %v, want boom", err)
	}

	c.Fail("s2", nil)
	if _, err := c.Await(context.Background(), "s2", time.Second); err == nil {
		t.Error("Fail with nil error should still deliver an error")
	}
}

func TestCache_GetPending(t *testing.T) {
	c := NewCache()
	if _, ok := c.Get("missing"); ok {
		t.Error("expected miss for unknown key")
	}

	// A timed-out wait leaves a pending entry behind
	_, _ = c.Await(context.Background(), "pending", time.Millisecond)
	if _, ok := c.Get("pending"); ok {
		t.Error("expected miss for pending key")
	}
	if c.Len() != 0 {
		t.Errorf("Len() = %d, want 0", c.Len())
	}
}

func TestResult_ImageRegions(t *testing.T) {
	r := Result{Regions: []model.ContentRegion{
		{Kind: model.RegionText},
		{Kind: model.RegionImage, Confidence: 0.9},
	}}

	images := r.ImageRegions()
	if len(images) != 1 || images[0].Confidence != 0.9 {
		t.Errorf("ImageRegions() = %+v", images)
	}
}
