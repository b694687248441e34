// Package metric provides Prometheus metrics for simple-redis.
//
//   - prometheus.go: the registry, command counters and latency histograms
//   - collector.go: a collector that reads keyspace and pub/sub statistics
//     at scrape time
//
// Metrics are exposed at /metrics by the httpserver package.
package metric
