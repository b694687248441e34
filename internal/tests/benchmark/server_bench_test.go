package benchmark

import (
	"context"
	"strconv"
	"testing"

	"github.com/yndnr/simple-redis/internal/core/pubsub"
	"github.com/yndnr/simple-redis/internal/storage/memory"
)

// BenchmarkServerSetGet measures a SET/GET round trip over TCP.
func BenchmarkServerSetGet(b *testing.B) {
	rdb := startServer(b, memory.New())
	ctx := context.Background()

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		k := key(i % 1000)
		if err := rdb.Set(ctx, k, "value", 0).Err(); err != nil {
			b.Fatalf("SET failed: %v", err)
		}
		if err := rdb.Get(ctx, k).Err(); err != nil {
			b.Fatalf("GET failed: %v", err)
		}
	}
}

// BenchmarkServerParallel issues INCR from many connections at once.
func BenchmarkServerParallel(b *testing.B) {
	rdb := startServer(b, memory.New())
	ctx := context.Background()

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			if err := rdb.Incr(ctx, "counter").Err(); err != nil {
				b.Fatalf("INCR failed: %v", err)
			}
		}
	})
}

// BenchmarkServerPipeline sends batches of 100 SETs per round trip.
func BenchmarkServerPipeline(b *testing.B) {
	rdb := startServer(b, memory.New())
	ctx := context.Background()
	const batch = 100

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		pipe := rdb.Pipeline()
		for j := 0; j < batch; j++ {
			pipe.Set(ctx, key(j), strconv.Itoa(i), 0)
		}
		if _, err := pipe.Exec(ctx); err != nil {
			b.Fatalf("pipeline failed: %v", err)
		}
	}
}

// BenchmarkHubFanout publishes to one channel with many subscribers whose
// queues are drained concurrently.
func BenchmarkHubFanout(b *testing.B) {
	for _, n := range []int{1, 10, 100} {
		b.Run("subscribers_"+strconv.Itoa(n), func(b *testing.B) {
			hub := pubsub.NewHub(pubsub.WithOverflowPolicy(pubsub.DropOldest))
			subs := make([]*pubsub.Subscriber, n)
			for i := range subs {
				subs[i] = hub.NewSubscriber(strconv.Itoa(i))
				hub.Subscribe(subs[i], "news")
				go func(s *pubsub.Subscriber) {
					for range s.Messages() {
					}
				}(subs[i])
			}
			b.Cleanup(func() {
				for _, s := range subs {
					hub.Close(s)
				}
			})

			payload := []byte("payload")
			b.ResetTimer()
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				hub.Publish("news", payload)
			}
		})
	}
}
