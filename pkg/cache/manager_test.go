package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type payload struct {
	Name  string   `json:"name"`
	Items []string `json:"items"`
}

// setupTestRedis starts an in-process Redis. Integration tests use
// testcontainers-go with a real Redis instance instead.
func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return mr, client
}

func TestNewManager(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
	defer client.Close()

	manager := NewManager(client)
	if manager == nil {
		t.Fatal("NewManager returned nil")
	}
	if manager.redis != client {
		t.Error("Manager redis client not set correctly")
	}
}

func TestNewManager_Panic(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("NewManager should panic with nil redis client")
		}
	}()
	NewManager(nil)
}

func TestConnect(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		wantAddr string
		wantDB   int
		wantErr  bool
	}{
		{name: "default", url: "", wantAddr: "localhost:6379"},
		{name: "redis url", url: "redis://cache.internal:6380/2", wantAddr: "cache.internal:6380", wantDB: 2},
		{name: "bare host port", url: "localhost:6379", wantAddr: "localhost:6379"},
		{name: "bad scheme", url: "http://localhost:6379", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := Connect(tt.url)
			if tt.wantErr {
				if err == nil {
					t.Error("Expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Connect failed: %v", err)
			}
			defer client.Close()

			opts := client.Options()
			if opts.Addr != tt.wantAddr {
				t.Errorf("Addr = %q, want %q", opts.Addr, tt.wantAddr)
			}
			if opts.DB != tt.wantDB {
				t.Errorf("DB = %d, want %d", opts.DB, tt.wantDB)
			}
			if opts.MaxRetries != 2 {
				t.Errorf("MaxRetries = %d, want 2", opts.MaxRetries)
			}
		})
	}
}

func TestManager_SetAndGet(t *testing.T) {
	mr, client := setupTestRedis(t)
	manager := NewManager(client)
	ctx := context.Background()

	key := CatalogKey("LOC1")
	want := payload{Name: "menu", Items: []string{"A", "D"}}

	manager.Set(ctx, key, want, DefaultTTL)

	var got payload
	if !manager.Get(ctx, key, &got) {
		t.Fatal("Expected cache hit")
	}
	if got.Name != want.Name || len(got.Items) != 2 || got.Items[1] != "D" {
		t.Errorf("Got %+v, want %+v", got, want)
	}

	if ttl := mr.TTL("catalog:LOC1"); ttl != DefaultTTL {
		t.Errorf("TTL = %v, want %v", ttl, DefaultTTL)
	}
}

func TestManager_Get_Miss(t *testing.T) {
	_, client := setupTestRedis(t)
	manager := NewManager(client)

	var got payload
	if manager.Get(context.Background(), CatalogKey("nope"), &got) {
		t.Error("Expected cache miss")
	}
}

func TestManager_Get_Expired(t *testing.T) {
	mr, client := setupTestRedis(t)
	manager := NewManager(client)
	ctx := context.Background()

	manager.Set(ctx, CategoriesKey("LOC1"), payload{Name: "x"}, 10*time.Second)
	mr.FastForward(11 * time.Second)

	var got payload
	if manager.Get(ctx, CategoriesKey("LOC1"), &got) {
		t.Error("Expected miss after TTL elapsed")
	}
}

func TestManager_Get_CorruptEntry(t *testing.T) {
	mr, client := setupTestRedis(t)
	manager := NewManager(client)

	mr.Set("catalog:LOC1", "{not json")

	var got payload
	if manager.Get(context.Background(), CatalogKey("LOC1"), &got) {
		t.Error("Expected miss for undecodable entry")
	}
}

func TestManager_StoreFailuresDegrade(t *testing.T) {
	mr, client := setupTestRedis(t)
	manager := NewManager(client)
	ctx := context.Background()

	manager.Set(ctx, CatalogKey("LOC1"), payload{Name: "menu"}, DefaultTTL)
	mr.SetError("LOADING Redis is loading the dataset in memory")

	var got payload
	if manager.Get(ctx, CatalogKey("LOC1"), &got) {
		t.Error("Get should report a miss when the store fails")
	}

	// Must not panic or block.
	manager.Set(ctx, CatalogKey("LOC2"), payload{Name: "menu"}, DefaultTTL)

	if n := manager.Invalidate(ctx, "catalog:*"); n != 0 {
		t.Errorf("Invalidate = %d, want 0 on failure", n)
	}

	mr.SetError("")
	if mr.Exists("catalog:LOC2") {
		t.Error("Failed Set should not have stored a value")
	}
}

func TestManager_StoreUnreachable(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()
	manager := NewManager(client)
	ctx := context.Background()

	var got payload
	if manager.Get(ctx, CatalogKey("LOC1"), &got) {
		t.Error("Expected miss with unreachable store")
	}
	manager.Set(ctx, CatalogKey("LOC1"), payload{}, DefaultTTL)
	if n := manager.Invalidate(ctx, "catalog:*"); n != 0 {
		t.Errorf("Invalidate = %d, want 0", n)
	}
	if err := manager.Ping(ctx); err == nil {
		t.Error("Ping should fail with unreachable store")
	}
}

func TestManager_Invalidate(t *testing.T) {
	mr, client := setupTestRedis(t)
	manager := NewManager(client)
	ctx := context.Background()

	// More keys than one SCAN batch.
	for i := 0; i < 250; i++ {
		manager.Set(ctx, CatalogKey(fmt.Sprintf("LOC%d", i)), payload{}, DefaultTTL)
	}
	manager.Set(ctx, CategoriesKey("LOC1"), payload{}, DefaultTTL)
	manager.Set(ctx, LocationsKey(), payload{}, DefaultTTL)

	if n := manager.Invalidate(ctx, CatalogKey("").Pattern()); n != 250 {
		t.Errorf("Invalidate(catalog:*) = %d, want 250", n)
	}
	if mr.Exists("catalog:LOC7") {
		t.Error("catalog:LOC7 should be deleted")
	}
	if !mr.Exists("categories:LOC1") || !mr.Exists("locations") {
		t.Error("Keys outside the pattern must survive")
	}

	if n := manager.Invalidate(ctx, "catalog:*"); n != 0 {
		t.Errorf("Second Invalidate = %d, want 0", n)
	}
}

func TestManager_Ping(t *testing.T) {
	_, client := setupTestRedis(t)
	if err := NewManager(client).Ping(context.Background()); err != nil {
		t.Errorf("Ping failed: %v", err)
	}
}
