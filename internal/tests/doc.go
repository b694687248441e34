// Package tests holds cross-package integration tests that run the RESP
// server together with the metrics endpoint.
package tests
