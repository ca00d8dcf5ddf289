package report

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"

	"vidshrink/internal/stats"
)

// MB is a size in mebibytes that always encodes with two decimal places.
type MB float64

// MarshalJSON implements json.Marshaler.
func (m MB) MarshalJSON() ([]byte, error) {
	v := float64(m)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = 0
	}
	return []byte(strconv.FormatFloat(math.Round(v*100)/100, 'f', 2, 64)), nil
}

// Record is the structured run summary.
type Record struct {
	ProcessedFiles     int   `json:"processed_files"`
	MinimizedFiles     int   `json:"minimized_files"`
	ElapsedTime        int64 `json:"elapsed_time"`
	TotalSourceSize    MB    `json:"total_source_size"`
	TotalMinimizedSize MB    `json:"total_minimized_size"`
}

// NewRecord maps finalized statistics onto the structured summary.
func NewRecord(s stats.RunStatistics) Record {
	return Record{
		ProcessedFiles:     s.Discovered,
		MinimizedFiles:     s.Processed,
		ElapsedTime:        s.ElapsedSeconds(),
		TotalSourceSize:    MB(s.SourceMB()),
		TotalMinimizedSize: MB(s.DestMB()),
	}
}

// WriteSummary prints the run summary in exactly one of the two modes.
func WriteSummary(w io.Writer, s stats.RunStatistics, structured, colorize bool) error {
	if structured {
		return WriteRecord(w, NewRecord(s))
	}
	return WriteHuman(w, s, colorize)
}

// WriteRecord emits rec as a single line of JSON.
func WriteRecord(w io.Writer, rec Record) error {
	return json.NewEncoder(w).Encode(rec)
}

const summaryLabelWidth = 22

type summaryLine struct {
	label string
	value string
	color string
}

// WriteHuman prints the labelled human-readable summary.
func WriteHuman(w io.Writer, s stats.RunStatistics, colorize bool) error {
	lines := []summaryLine{
		{label: "Processed files:", value: strconv.Itoa(s.Discovered)},
		{label: "Minimized files:", value: strconv.Itoa(s.Processed), color: ansiGreen},
	}
	if s.Failed > 0 {
		lines = append(lines, summaryLine{label: "Failed files:", value: strconv.Itoa(s.Failed), color: ansiRed})
	}
	lines = append(lines,
		summaryLine{label: "Elapsed time:", value: FormatElapsed(s.ElapsedSeconds())},
		summaryLine{label: "Total source size:", value: fmt.Sprintf("%.2f MB", s.SourceMB())},
		summaryLine{label: "Total minimized size:", value: fmt.Sprintf("%.2f MB", s.DestMB())},
	)
	if s.Cancelled {
		lines = append(lines, summaryLine{label: "Status:", value: "interrupted", color: ansiYellow})
	}

	for _, line := range lines {
		value := line.value
		if colorize && line.color != "" {
			value = line.color + value + ansiReset
		}
		if _, err := fmt.Fprintf(w, "%-*s %s\n", summaryLabelWidth, line.label, value); err != nil {
			return err
		}
	}
	return nil
}
