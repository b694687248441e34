// Package shutdown coordinates graceful process termination.
//
// A Handler waits for SIGINT/SIGTERM (or for a context to end, when a
// component fails on its own), then runs the registered hooks in reverse
// order of registration under a shared timeout.
//
// Usage:
//
//	h := shutdown.NewHandler(10 * time.Second)
//	h.OnShutdown(srv.Shutdown)
//	err := h.Wait(ctx)
package shutdown
