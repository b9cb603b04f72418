// Package http exposes the dashboard server's HTTP surface: health and
// version endpoints, per-board panel metadata and compute endpoints, the
// websocket upgrade, and static file serving.
package http
