package redisserver

import (
	"context"
	"fmt"
	"strconv"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

func newClient(t *testing.T, addr string) *redis.Client {
	t.Helper()
	rdb := redis.NewClient(&redis.Options{
		Addr:             addr,
		Protocol:         2,
		DisableIndentity: true,
		DialTimeout:      time.Second,
		ReadTimeout:      2 * time.Second,
	})
	t.Cleanup(func() { rdb.Close() })
	return rdb
}

func TestE2E_Strings(t *testing.T) {
	_, addr := startServer(t, nil)
	rdb := newClient(t, addr)
	ctx := context.Background()

	if err := rdb.Set(ctx, "k", "v1", 0).Err(); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := rdb.Set(ctx, "k", "v2", time.Minute).Err(); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	got, err := rdb.Get(ctx, "k").Result()
	if err != nil || got != "v2" {
		t.Fatalf("Get() = %q, %v, want v2", got, err)
	}
	if ttl := rdb.TTL(ctx, "k").Val(); ttl <= 0 || ttl > time.Minute {
		t.Errorf("TTL() = %v, want within (0, 1m]", ttl)
	}
	if _, err := rdb.Get(ctx, "missing").Result(); err != redis.Nil {
		t.Errorf("Get(missing) error = %v, want redis.Nil", err)
	}

	n, err := rdb.Incr(ctx, "counter").Result()
	if err != nil || n != 1 {
		t.Fatalf("Incr() = %d, %v, want 1", n, err)
	}
	if err := rdb.Incr(ctx, "k").Err(); err == nil || err.Error() != "ERR value is not an integer or out of range" {
		t.Errorf("Incr(k) error = %v, want not an integer", err)
	}
	if del := rdb.Del(ctx, "k", "counter", "missing").Val(); del != 2 {
		t.Errorf("Del() = %d, want 2", del)
	}
}

func TestE2E_Collections(t *testing.T) {
	_, addr := startServer(t, nil)
	rdb := newClient(t, addr)
	ctx := context.Background()

	rdb.RPush(ctx, "l", "a", "b", "c")
	if got := rdb.LRange(ctx, "l", 0, -1).Val(); !cmp.Equal(got, []string{"a", "b", "c"}) {
		t.Errorf("LRange() = %v", got)
	}

	rdb.HSet(ctx, "h", "name", "ada", "lang", "go")
	want := map[string]string{"name": "ada", "lang": "go"}
	if diff := cmp.Diff(want, rdb.HGetAll(ctx, "h").Val()); diff != "" {
		t.Errorf("HGetAll() mismatch (-want +got):\n%s", diff)
	}

	rdb.SAdd(ctx, "s", "x", "y", "x")
	if got := rdb.SCard(ctx, "s").Val(); got != 2 {
		t.Errorf("SCard() = %d, want 2", got)
	}

	rdb.ZAdd(ctx, "z", redis.Z{Score: 2, Member: "b"}, redis.Z{Score: 1.5, Member: "a"})
	wantZ := []redis.Z{{Score: 1.5, Member: "a"}, {Score: 2, Member: "b"}}
	if diff := cmp.Diff(wantZ, rdb.ZRangeWithScores(ctx, "z", 0, -1).Val()); diff != "" {
		t.Errorf("ZRangeWithScores() mismatch (-want +got):\n%s", diff)
	}

	if typ := rdb.Type(ctx, "z").Val(); typ != "zset" {
		t.Errorf("Type(z) = %q, want zset", typ)
	}
	if n := rdb.DBSize(ctx).Val(); n != 4 {
		t.Errorf("DBSize() = %d, want 4", n)
	}
}

func TestE2E_PubSub(t *testing.T) {
	_, addr := startServer(t, nil)
	rdb := newClient(t, addr)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ps := rdb.Subscribe(ctx, "events")
	defer ps.Close()
	if _, err := ps.Receive(ctx); err != nil {
		t.Fatalf("Receive(subscription) error = %v", err)
	}

	if n := rdb.Publish(ctx, "events", "one").Val(); n != 1 {
		t.Fatalf("Publish() = %d, want 1", n)
	}
	msg, err := ps.ReceiveMessage(ctx)
	if err != nil {
		t.Fatalf("ReceiveMessage() error = %v", err)
	}
	if msg.Channel != "events" || msg.Payload != "one" {
		t.Errorf("ReceiveMessage() = %s/%s, want events/one", msg.Channel, msg.Payload)
	}

	if got := rdb.PubSubNumSub(ctx, "events").Val(); got["events"] != 1 {
		t.Errorf("PubSubNumSub() = %v, want events:1", got)
	}
}

func TestE2E_ConcurrentClients(t *testing.T) {
	_, addr := startServer(t, nil)
	rdb := newClient(t, addr)
	ctx := context.Background()

	const workers, rounds = 8, 50
	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			key := fmt.Sprintf("worker:%d", w)
			for i := 0; i < rounds; i++ {
				if err := rdb.Incr(gctx, "shared").Err(); err != nil {
					return err
				}
				if err := rdb.RPush(gctx, key, strconv.Itoa(i)).Err(); err != nil {
					return err
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("workers error = %v", err)
	}

	if got := rdb.Get(ctx, "shared").Val(); got != strconv.Itoa(workers*rounds) {
		t.Errorf("shared = %s, want %d", got, workers*rounds)
	}
	for w := 0; w < workers; w++ {
		if n := rdb.LLen(ctx, fmt.Sprintf("worker:%d", w)).Val(); n != rounds {
			t.Errorf("LLen(worker:%d) = %d, want %d", w, n, rounds)
		}
	}
}
