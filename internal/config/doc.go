// Package config loads, normalizes, and validates vidshrink configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads an optional TOML file. CLI flags are layered on top by
// the command package; once merged, Config.Run produces the read-only
// RunConfiguration consumed by the pipeline for the life of one invocation.
//
// Always obtain settings through this package so downstream code receives
// absolute paths, canonical formats, and clear validation errors.
package config
