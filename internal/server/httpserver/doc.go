// Package httpserver serves the operational HTTP endpoints of
// simple-redis-server:
//
//   - GET /metrics: Prometheus exposition
//   - GET /healthz: liveness, with build information
//
// The RESP port is served by redisserver; this server only runs when
// server.metrics.enabled is set.
package httpserver
