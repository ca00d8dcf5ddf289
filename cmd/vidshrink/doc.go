// Package main hosts the vidshrink CLI entrypoint and command graph.
//
// The root command runs one incremental transcoding pass from a source tree
// into a mirrored destination tree. Subcommands cover configuration
// scaffolding, dependency checks, and the run history ledger. Configuration
// resolution, logger construction, and flag overrides live here; the work
// itself lives in the internal packages.
package main
