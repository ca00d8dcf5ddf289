// Package preflight provides readiness checks for the filesystem roots and
// external tools a vidshrink run depends on.
//
// The root command calls RunAll before any file is processed; a failed check
// aborts the run with a configuration error. The "vidshrink check" command
// renders the same results as a table.
package preflight
