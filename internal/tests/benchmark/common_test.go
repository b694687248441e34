package benchmark

import (
	"context"
	"fmt"
	"net"
	"runtime"
	"strconv"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/yndnr/simple-redis/internal/core/pubsub"
	"github.com/yndnr/simple-redis/internal/server/redisserver"
	"github.com/yndnr/simple-redis/internal/storage/memory"
	"github.com/yndnr/simple-redis/internal/telemetry/logger"
)

// KeyCounts defines the keyspace sizes for benchmarking.
var KeyCounts = []int{10000, 100000, 500000}

// SmallKeyCounts for quick benchmarks.
var SmallKeyCounts = []int{1000, 10000}

func key(i int) string {
	return "key:" + strconv.Itoa(i)
}

// prefillStore writes count string keys.
func prefillStore(b *testing.B, store *memory.Store, count int) {
	b.Helper()
	value := []byte("value")
	for i := 0; i < count; i++ {
		if _, err := store.Set(key(i), value, memory.SetOptions{}); err != nil {
			b.Fatalf("Set failed: %v", err)
		}
	}
}

// reportMemory reports memory usage.
func reportMemory(b *testing.B, prefix string) {
	var m runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&m)
	b.ReportMetric(float64(m.Alloc)/(1024*1024), prefix+"_MB")
	b.ReportMetric(float64(m.NumGC), prefix+"_GC")
}

// runWithKeyCounts runs a benchmark function with various keyspace sizes.
func runWithKeyCounts(b *testing.B, counts []int, benchFn func(b *testing.B, count int)) {
	for _, count := range counts {
		b.Run(fmt.Sprintf("keys_%d", count), func(b *testing.B) {
			benchFn(b, count)
		})
	}
}

// startServer runs a RESP server on a loopback port and returns a go-redis
// client connected to it.
func startServer(b *testing.B, store *memory.Store) *redis.Client {
	b.Helper()
	srv := redisserver.New(redisserver.DefaultConfig(), store, pubsub.NewHub(),
		redisserver.WithLogger(logger.Discard()))

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		b.Fatalf("Listen failed: %v", err)
	}
	go srv.Serve(context.Background(), ln)

	rdb := redis.NewClient(&redis.Options{
		Addr:             ln.Addr().String(),
		Protocol:         2,
		DisableIndentity: true,
		PoolSize:         runtime.GOMAXPROCS(0) * 2,
	})
	b.Cleanup(func() {
		rdb.Close()
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(ctx)
	})
	return rdb
}
