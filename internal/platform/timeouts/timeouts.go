// Package timeouts defines shared timeout constants used by the dice
// binaries, so the HTTP transport and the entrypoints agree on them.
package timeouts

import "time"

// ReadHeader limits how long an HTTP server waits for request headers.
const ReadHeader = 5 * time.Second

// Shutdown limits how long an HTTP server waits for in-flight requests
// during graceful shutdown.
const Shutdown = 5 * time.Second

// TelemetryShutdown caps how long a binary waits to flush spans on exit.
const TelemetryShutdown = 5 * time.Second
