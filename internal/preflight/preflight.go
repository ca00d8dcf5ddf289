package preflight

import (
	"fmt"
	"strings"

	"vidshrink/internal/config"
	"vidshrink/internal/deps"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes the checks a processing run needs. Directory checks are
// skipped for roots that are not configured, which lets "vidshrink check"
// report tool availability on its own.
func RunAll(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result
	if cfg.Paths.SourceDir != "" {
		results = append(results, CheckSourceAccess("Source directory", cfg.Paths.SourceDir))
	}
	if cfg.Paths.DestDir != "" {
		results = append(results, CheckDestinationAccess("Destination directory", cfg.Paths.DestDir))
	}
	results = append(results, CheckBinaries(deps.CheckBinaries(deps.Requirements(cfg)))...)
	return results
}

// Failures returns the results that did not pass.
func Failures(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}

// Summarize joins failed results into a single message, or returns "" when all passed.
func Summarize(results []Result) string {
	failed := Failures(results)
	if len(failed) == 0 {
		return ""
	}
	parts := make([]string, 0, len(failed))
	for _, r := range failed {
		parts = append(parts, fmt.Sprintf("%s: %s", r.Name, r.Detail))
	}
	return strings.Join(parts, "; ")
}
