// Package config provides configuration loading and the centralized path
// layout for the weekly-dataset explorer.
//
// Configuration is read from environment variables with the TT prefix and an
// optional config.yaml next to the executable; environment variables take
// precedence. The Paths type is the single source of truth for where cached
// datasets, rendered artifacts, reports, and logs live on disk.
package config
