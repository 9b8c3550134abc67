// Package config loads and merges wishsync configuration from environment
// variables, command-line flags, and an optional JSON file, then exposes
// client- and server-specific views of the merged result.
//
// Sources are merged with earlier sources winning for non-zero fields:
// environment, then flags, then the JSON file whose path the first two
// sources may name.
package config
