package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/storefront/commerce-api/internal/pkg/config"
)

// fakeCmdable stubs the two commands the store uses.
type fakeCmdable struct {
	redis.Cmdable
	data   map[string]string
	ttls   map[string]time.Duration
	getErr error
}

func newFakeCmdable() *fakeCmdable {
	return &fakeCmdable{data: make(map[string]string), ttls: make(map[string]time.Duration)}
}

func (f *fakeCmdable) Get(ctx context.Context, key string) *redis.StringCmd {
	cmd := redis.NewStringCmd(ctx, "get", key)
	switch v, ok := f.data[key]; {
	case f.getErr != nil:
		cmd.SetErr(f.getErr)
	case !ok:
		cmd.SetErr(redis.Nil)
	default:
		cmd.SetVal(v)
	}
	return cmd
}

func (f *fakeCmdable) SetNX(ctx context.Context, key string, value interface{}, ttl time.Duration) *redis.BoolCmd {
	cmd := redis.NewBoolCmd(ctx, "set", key, value, "nx")
	if _, exists := f.data[key]; exists {
		cmd.SetVal(false)
		return cmd
	}
	f.data[key] = value.(string)
	f.ttls[key] = ttl
	cmd.SetVal(true)
	return cmd
}

func TestIdempotencyStore(t *testing.T) {
	fake := newFakeCmdable()
	store := NewIdempotencyStore(fake, 0)
	ctx := context.Background()

	if _, found, err := store.Lookup(ctx, "7", "k1"); err != nil || found {
		t.Fatalf("empty store: found=%v err=%v", found, err)
	}

	if err := store.Remember(ctx, "7", "k1", "order-1"); err != nil {
		t.Fatalf("Remember: %v", err)
	}
	if err := store.Remember(ctx, "7", "k1", "order-2"); err != nil {
		t.Fatalf("second Remember: %v", err)
	}

	v, found, err := store.Lookup(ctx, "7", "k1")
	if err != nil || !found || v != "order-1" {
		t.Fatalf("Lookup = %q, %v, %v", v, found, err)
	}
	if fake.ttls["idem:7:k1"] != defaultIdempotencyTTL {
		t.Fatalf("ttl = %v", fake.ttls["idem:7:k1"])
	}

	if _, found, _ := store.Lookup(ctx, "8", "k1"); found {
		t.Fatal("keys must be scoped")
	}
}

func TestIdempotencyStore_LookupError(t *testing.T) {
	fake := newFakeCmdable()
	fake.getErr = errors.New("connection refused")
	store := NewIdempotencyStore(fake, time.Minute)

	if _, _, err := store.Lookup(context.Background(), "7", "k1"); err == nil {
		t.Fatal("expected error")
	}
}

func TestClientOptions(t *testing.T) {
	opts := clientOptions(config.RedisConfig{Addr: "cache:6379", Password: "pw", DB: 2, Timeout: 2 * time.Second})
	if opts.Addr != "cache:6379" || opts.Password != "pw" || opts.DB != 2 {
		t.Fatalf("unexpected options %+v", opts)
	}
	if opts.DialTimeout != 2*time.Second || opts.ReadTimeout != 2*time.Second || opts.WriteTimeout != 2*time.Second {
		t.Fatalf("timeouts not applied: %+v", opts)
	}

	defaults := clientOptions(config.RedisConfig{Addr: "cache:6379"})
	if defaults.DialTimeout != defaultTimeout {
		t.Fatalf("default dial timeout = %v", defaults.DialTimeout)
	}
}
