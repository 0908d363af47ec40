package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestStore_SetGetDelete(t *testing.T) {
	s := NewStore(time.Minute)
	ctx := context.Background()

	if _, ok := s.Get(ctx, "missing"); ok {
		t.Fatal("expected miss for unknown key")
	}

	s.Set(ctx, "auction:auc-1", "snapshot")
	value, ok := s.Get(ctx, "auction:auc-1")
	if !ok || value != "snapshot" {
		t.Fatalf("expected cached snapshot, got %v ok=%v", value, ok)
	}

	s.Delete(ctx, "auction:auc-1")
	if _, ok := s.Get(ctx, "auction:auc-1"); ok {
		t.Fatal("expected miss after delete")
	}
}

func TestStore_TTLExpiry(t *testing.T) {
	s := NewStore(10 * time.Millisecond)
	ctx := context.Background()

	s.Set(ctx, "key", "value")
	time.Sleep(20 * time.Millisecond)

	if _, ok := s.Get(ctx, "key"); ok {
		t.Fatal("expected entry to expire")
	}
}

func TestStore_GetOrLoad_SingleLoad(t *testing.T) {
	s := NewStore(time.Minute)
	ctx := context.Background()

	var loads int32
	const workers = 10
	var wg sync.WaitGroup
	wg.Add(workers)
	start := make(chan struct{})

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			value, err := s.GetOrLoad(ctx, "auction:auc-1", func(context.Context) (any, error) {
				atomic.AddInt32(&loads, 1)
				time.Sleep(5 * time.Millisecond)
				return "loaded", nil
			})
			if err != nil {
				t.Errorf("get or load failed: %v", err)
			}
			if value != "loaded" {
				t.Errorf("unexpected value %v", value)
			}
		}()
	}

	close(start)
	wg.Wait()

	if got := atomic.LoadInt32(&loads); got != 1 {
		t.Fatalf("expected one load, got %d", got)
	}
}
