// Package report renders live progress, the per-file table, and the final
// run summary in human or structured form.
package report
