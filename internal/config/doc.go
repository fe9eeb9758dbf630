// Package config loads the server configuration from environment variables,
// command-line flags, and an optional JSON file, merging all sources into a
// single [StructuredConfig] value.
//
// Sources are merged in priority order (earlier sources win for fields they
// set): environment, flags, JSON file. The JSON file path itself may come
// from either the CONFIG environment variable or the -c/-config flag.
package config
