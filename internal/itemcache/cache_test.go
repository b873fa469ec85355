package itemcache

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"citedeck/internal/reference"
)

var smith2021 = reference.Item{
	Key:     "AB12",
	Authors: []reference.Author{{Family: "Smith", Given: "John"}},
	Year:    2021,
	Title:   "Deep learning at scale",
}

func openCache(t *testing.T) (*Cache, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "items.db")

	c, err := Open(context.Background(), path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	t.Cleanup(func() { _ = c.Close() })

	return c, path
}

func TestCache_MissThenHit(t *testing.T) {
	t.Parallel()

	c, _ := openCache(t)
	ctx := context.Background()

	if _, hit, err := c.Get(ctx, "AB12", DefaultTTL); err != nil || hit {
		t.Fatalf("empty cache: hit=%v err=%v", hit, err)
	}

	if err := c.Put(ctx, smith2021); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, hit, err := c.Get(ctx, "AB12", DefaultTTL)
	if err != nil || !hit {
		t.Fatalf("get: hit=%v err=%v", hit, err)
	}

	if diff := cmp.Diff(smith2021, got); diff != "" {
		t.Errorf("item mismatch (-want +got):\n%s", diff)
	}
}

func TestCache_ExpiredEntryIsAMiss(t *testing.T) {
	t.Parallel()

	c, _ := openCache(t)
	ctx := context.Background()

	if err := c.Put(ctx, smith2021); err != nil {
		t.Fatalf("put: %v", err)
	}

	if _, hit, err := c.Get(ctx, "AB12", -time.Second); err != nil || hit {
		t.Errorf("expired entry: hit=%v err=%v", hit, err)
	}
}

func TestCache_SurvivesReopen(t *testing.T) {
	t.Parallel()

	c, path := openCache(t)
	ctx := context.Background()

	if err := c.Put(ctx, smith2021); err != nil {
		t.Fatalf("put: %v", err)
	}

	if err := c.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	c2, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}

	defer func() { _ = c2.Close() }()

	if _, hit, err := c2.Get(ctx, "AB12", DefaultTTL); err != nil || !hit {
		t.Errorf("after reopen: hit=%v err=%v", hit, err)
	}
}

func TestCache_Purge(t *testing.T) {
	t.Parallel()

	c, _ := openCache(t)
	ctx := context.Background()

	if err := c.Put(ctx, smith2021); err != nil {
		t.Fatalf("put: %v", err)
	}

	n, err := c.Purge(ctx, -time.Second)
	if err != nil {
		t.Fatalf("purge: %v", err)
	}

	if n != 1 {
		t.Errorf("purged %d entries, want 1", n)
	}

	if _, hit, _ := c.Get(ctx, "AB12", DefaultTTL); hit {
		t.Error("entry survived purge")
	}
}

type countingSource struct {
	items map[string]reference.Item
	gets  int
}

func (s *countingSource) Search(_ context.Context, _ string) ([]reference.Item, error) {
	out := make([]reference.Item, 0, len(s.items))
	for _, it := range s.items {
		out = append(out, it)
	}

	return out, nil
}

func (s *countingSource) Get(_ context.Context, key string) (reference.Item, error) {
	s.gets++

	it, ok := s.items[key]
	if !ok {
		return reference.Item{}, &reference.SourceError{Op: "get", Key: key, Err: reference.ErrNotFound}
	}

	return it, nil
}

func TestClient_SecondGetSkipsSource(t *testing.T) {
	t.Parallel()

	c, _ := openCache(t)
	src := &countingSource{items: map[string]reference.Item{"AB12": smith2021}}
	client := Wrap(src, c, DefaultTTL, nil)

	ctx := context.Background()

	for range 2 {
		got, err := client.Get(ctx, "AB12")
		if err != nil {
			t.Fatalf("get: %v", err)
		}

		if got.Key != "AB12" {
			t.Errorf("got %+v", got)
		}
	}

	if src.gets != 1 {
		t.Errorf("source saw %d gets, want 1", src.gets)
	}
}

func TestClient_SearchWarmsCache(t *testing.T) {
	t.Parallel()

	c, _ := openCache(t)
	src := &countingSource{items: map[string]reference.Item{"AB12": smith2021}}
	client := Wrap(src, c, DefaultTTL, nil)

	ctx := context.Background()

	if _, err := client.Search(ctx, "deep"); err != nil {
		t.Fatalf("search: %v", err)
	}

	if _, err := client.Get(ctx, "AB12"); err != nil {
		t.Fatalf("get: %v", err)
	}

	if src.gets != 0 {
		t.Errorf("source saw %d gets, want 0 after warmed search", src.gets)
	}
}
