// Package buildinfo exposes build-time information injected via ldflags:
//
//	go build -ldflags "-X github.com/yndnr/simple-redis/internal/infra/buildinfo.Version=v1.0.0"
//
// GoVersion falls back to the toolchain recorded in the binary.
package buildinfo
