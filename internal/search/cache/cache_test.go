package cache

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/Yateesh1508/IR-ASSIGNMENT/internal/ranker"
	"github.com/Yateesh1508/IR-ASSIGNMENT/internal/search/engine"
	"github.com/Yateesh1508/IR-ASSIGNMENT/pkg/config"
	pkgredis "github.com/Yateesh1508/IR-ASSIGNMENT/pkg/redis"
)

// fakeStore is an in-memory Store. forceMisses makes the next N Gets report
// a miss even when the key is present, to drive the re-check inside the
// singleflight group.
type fakeStore struct {
	mu          sync.Mutex
	data        map[string][]byte
	forceMisses int
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: make(map[string][]byte)}
}

func (s *fakeStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.forceMisses > 0 {
		s.forceMisses--
		return nil, pkgredis.ErrMiss
	}
	v, ok := s.data[key]
	if !ok {
		return nil, pkgredis.ErrMiss
	}
	return v, nil
}

func (s *fakeStore) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

func (s *fakeStore) DeletePrefix(_ context.Context, prefix string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var deleted int64
	for k := range s.data {
		if strings.HasPrefix(k, prefix) {
			delete(s.data, k)
			deleted++
		}
	}
	return deleted, nil
}

func testCache(store Store) *QueryCache {
	return New(store, config.RedisConfig{CacheTTL: time.Minute})
}

func testResult(query string) *engine.Result {
	return &engine.Result{
		Query:     query,
		TotalHits: 1,
		Results: []ranker.ScoredDoc{
			{DocID: 1, Label: "doc1", Score: 0.5},
		},
	}
}

func TestBuildKeyNormalization(t *testing.T) {
	c := testCache(newFakeStore())

	base := c.buildKey("cat dog", 10)
	if !strings.HasPrefix(base, keyPrefix) {
		t.Errorf("key %q missing prefix %q", base, keyPrefix)
	}

	// Case and whitespace variants of the same query share one entry.
	for _, query := range []string{"Cat Dog", "  cat   dog  ", "CAT\tDOG"} {
		if got := c.buildKey(query, 10); got != base {
			t.Errorf("buildKey(%q) = %q, want %q", query, got, base)
		}
	}

	if got := c.buildKey("cat dog", 5); got == base {
		t.Error("different limits produced the same key")
	}
	if got := c.buildKey("dog cat", 10); got == base {
		t.Error("different queries produced the same key")
	}
}

func TestGetOrComputeMissThenHit(t *testing.T) {
	c := testCache(newFakeStore())
	ctx := context.Background()

	var computed int
	compute := func() (*engine.Result, error) {
		computed++
		return testResult("cat"), nil
	}

	result, hit, err := c.GetOrCompute(ctx, "cat", 10, compute)
	if err != nil {
		t.Fatalf("first GetOrCompute: %v", err)
	}
	if hit || computed != 1 {
		t.Fatalf("first call: hit=%v computed=%d, want miss and one computation", hit, computed)
	}

	cached, hit, err := c.GetOrCompute(ctx, "cat", 10, compute)
	if err != nil {
		t.Fatalf("second GetOrCompute: %v", err)
	}
	if !hit || computed != 1 {
		t.Fatalf("second call: hit=%v computed=%d, want hit with no recomputation", hit, computed)
	}
	if diff := cmp.Diff(result, cached); diff != "" {
		t.Errorf("cached result mismatch (-first +second):\n%s", diff)
	}

	hits, misses := c.Stats()
	if hits != 1 || misses != 1 {
		t.Errorf("Stats() = %d hits, %d misses, want 1/1", hits, misses)
	}
}

func TestGetOrComputeCollapsesConcurrentMisses(t *testing.T) {
	c := testCache(newFakeStore())
	ctx := context.Background()

	// The first computation stores its result before the group call returns,
	// and every group execution re-checks the store first, so the compute
	// function can only ever run once no matter how the goroutines interleave.
	var computed atomic.Int64
	compute := func() (*engine.Result, error) {
		computed.Add(1)
		return testResult("cat"), nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, _, err := c.GetOrCompute(ctx, "cat", 10, compute); err != nil {
				t.Errorf("GetOrCompute: %v", err)
			}
		}()
	}
	wg.Wait()

	if got := computed.Load(); got != 1 {
		t.Errorf("compute ran %d times, want 1", got)
	}
}

func TestGetOrComputeRecheckInsideGroup(t *testing.T) {
	// The store misses on the outer check but hits on the re-check inside
	// the group call: the compute function must not run.
	store := newFakeStore()
	c := testCache(store)
	ctx := context.Background()

	want := testResult("cat")
	c.set(ctx, c.buildKey("cat", 10), want)
	store.forceMisses = 1

	got, _, err := c.GetOrCompute(ctx, "cat", 10, func() (*engine.Result, error) {
		t.Error("compute ran despite a cached entry")
		return testResult("cat"), nil
	})
	if err != nil {
		t.Fatalf("GetOrCompute: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("result mismatch (-want +got):\n%s", diff)
	}
}

func TestGetOrComputeToleratesCorruptEntry(t *testing.T) {
	store := newFakeStore()
	c := testCache(store)
	ctx := context.Background()

	key := c.buildKey("cat", 10)
	if err := store.Set(ctx, key, []byte("{not json"), time.Minute); err != nil {
		t.Fatal(err)
	}

	var computed int
	got, hit, err := c.GetOrCompute(ctx, "cat", 10, func() (*engine.Result, error) {
		computed++
		return testResult("cat"), nil
	})
	if err != nil {
		t.Fatalf("GetOrCompute: %v", err)
	}
	if hit || computed != 1 {
		t.Errorf("hit=%v computed=%d, want recomputation past the corrupt entry", hit, computed)
	}
	if got.Query != "cat" {
		t.Errorf("result = %+v, want the recomputed result", got)
	}
}

func TestInvalidateDropsEntries(t *testing.T) {
	store := newFakeStore()
	c := testCache(store)
	ctx := context.Background()

	for _, query := range []string{"cat", "dog"} {
		if _, _, err := c.GetOrCompute(ctx, query, 10, func() (*engine.Result, error) {
			return testResult(query), nil
		}); err != nil {
			t.Fatal(err)
		}
	}
	if err := c.Invalidate(ctx); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}

	var computed int
	if _, _, err := c.GetOrCompute(ctx, "cat", 10, func() (*engine.Result, error) {
		computed++
		return testResult("cat"), nil
	}); err != nil {
		t.Fatal(err)
	}
	if computed != 1 {
		t.Errorf("compute ran %d times after invalidation, want 1", computed)
	}
}
