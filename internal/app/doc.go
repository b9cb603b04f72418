// Package app wires the dashboard server together: configuration, logging,
// telemetry, dataset loading, the reactive boards, and the HTTP router with
// its websocket endpoint. The cmd/web binary is a thin shell around
// NewApplication and Run.
package app
