package report

import (
	"errors"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"vidshrink/internal/stats"
	"vidshrink/internal/transcode"
)

// Alignment selects column text alignment for RenderTable.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignRight
)

// RenderTable draws rows beneath headers using the rounded box style.
func RenderTable(headers []string, rows [][]string, aligns []Alignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := range columns {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := range columns {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := range columns {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == AlignRight {
			align = text.AlignRight
		}
		columnConfigs = append(columnConfigs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(columnConfigs)

	return tw.Render()
}

// FileTable renders one row per handled file: path, outcome, source and
// destination sizes, and the failure reason when there is one.
func FileTable(results []stats.FileResult) string {
	if len(results) == 0 {
		return ""
	}
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		dest := "-"
		if r.DestBytes > 0 {
			dest = humanize.IBytes(uint64(r.DestBytes))
		}
		rows = append(rows, []string{
			r.RelPath,
			OutcomeLabel(r.Outcome),
			humanize.IBytes(uint64(max(r.SourceBytes, 0))),
			dest,
			failureNote(r.Err),
		})
	}
	return RenderTable(
		[]string{"File", "Result", "Source", "Output", "Note"},
		rows,
		[]Alignment{AlignLeft, AlignLeft, AlignRight, AlignRight, AlignLeft},
	)
}

// OutcomeLabel title-cases an outcome for display.
func OutcomeLabel(o stats.Outcome) string {
	return cases.Title(language.English).String(string(o))
}

func failureNote(err error) string {
	if err == nil {
		return ""
	}
	var terr *transcode.Error
	if errors.As(err, &terr) {
		return string(terr.Reason)
	}
	return err.Error()
}
