package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestStore_GetOrLoad_SharesConcurrentLoads(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32

	loader := func(context.Context) (any, error) {
		calls.Add(1)
		time.Sleep(20 * time.Millisecond)
		return "deadline", nil
	}

	const workers = 32
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			v, err := store.GetOrLoad(context.Background(), "deadline:edition1_gw2", loader)
			if err != nil {
				t.Errorf("GetOrLoad error: %v", err)
				return
			}
			if got, _ := v.(string); got != "deadline" {
				t.Errorf("value = %v, want deadline", v)
			}
		}()
	}

	close(start)
	wg.Wait()

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}

func TestStore_GetOrLoad_ServesCachedValue(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32

	loader := func(context.Context) (any, error) {
		calls.Add(1)
		return "cached", nil
	}

	for i := 0; i < 3; i++ {
		if _, err := store.GetOrLoad(context.Background(), "k", loader); err != nil {
			t.Fatalf("GetOrLoad %d error: %v", i, err)
		}
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}

func TestStore_EntriesExpire(t *testing.T) {
	t.Parallel()

	store := NewStore(10 * time.Millisecond)
	ctx := context.Background()

	store.Set(ctx, "k", "v")
	if _, ok := store.Get(ctx, "k"); !ok {
		t.Fatal("expected fresh entry to be served")
	}

	time.Sleep(20 * time.Millisecond)
	if _, ok := store.Get(ctx, "k"); ok {
		t.Fatal("expected entry to expire")
	}
}

func TestStore_DeletePrefix(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	ctx := context.Background()

	store.Set(ctx, "pickstatus:ply-1:2:Arsenal", true)
	store.Set(ctx, "pickstatus:ply-1:2:Chelsea", false)
	store.Set(ctx, "pickstatus:ply-2:2:Arsenal", true)

	store.DeletePrefix(ctx, "pickstatus:ply-1:2:")

	if _, ok := store.Get(ctx, "pickstatus:ply-1:2:Arsenal"); ok {
		t.Fatal("expected ply-1 statuses to be invalidated")
	}
	if _, ok := store.Get(ctx, "pickstatus:ply-1:2:Chelsea"); ok {
		t.Fatal("expected ply-1 statuses to be invalidated")
	}
	if _, ok := store.Get(ctx, "pickstatus:ply-2:2:Arsenal"); !ok {
		t.Fatal("expected other players' statuses to survive")
	}
}

func TestStore_ZeroTTLNeverExpires(t *testing.T) {
	t.Parallel()

	store := NewStore(0)
	ctx := context.Background()

	store.Set(ctx, "k", "v")
	time.Sleep(5 * time.Millisecond)
	if _, ok := store.Get(ctx, "k"); !ok {
		t.Fatal("expected entry without TTL to persist")
	}
}
