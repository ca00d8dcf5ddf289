package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"vidshrink/internal/history"
	"vidshrink/internal/report"
)

type historyRunView struct {
	ID           string    `json:"id"`
	StartedAt    string    `json:"started_at"`
	ElapsedTime  int64     `json:"elapsed_time"`
	SourceRoot   string    `json:"source_root"`
	DestRoot     string    `json:"dest_root"`
	Format       string    `json:"format"`
	MaxDimension int       `json:"max_dimension"`
	Quality      int       `json:"quality"`
	Discovered   int       `json:"processed_files"`
	Encoded      int       `json:"minimized_files"`
	Failed       int       `json:"failed_files"`
	SourceSize   report.MB `json:"total_source_size"`
	DestSize     report.MB `json:"total_minimized_size"`
	Cancelled    bool      `json:"cancelled"`
}

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := history.OpenFromConfig(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.ListRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}

			if asJSON {
				return writeHistoryJSON(cmd.OutOrStdout(), runs)
			}

			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded")
				return nil
			}
			rows := make([][]string, 0, len(runs))
			for _, r := range runs {
				rows = append(rows, []string{
					r.StartedAt.Local().Format("2006-01-02 15:04:05"),
					r.DestRoot,
					strconv.Itoa(r.Discovered),
					strconv.Itoa(r.Encoded),
					strconv.Itoa(r.Failed),
					humanize.IBytes(uint64(r.SourceBytes)),
					humanize.IBytes(uint64(r.DestBytes)),
					runState(r),
				})
			}
			fmt.Fprintln(out, report.RenderTable(
				[]string{"Started", "Destination", "Files", "Encoded", "Failed", "Source", "Output", "State"},
				rows,
				[]report.Alignment{
					report.AlignLeft, report.AlignLeft, report.AlignRight, report.AlignRight,
					report.AlignRight, report.AlignRight, report.AlignRight, report.AlignLeft,
				},
			))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Number of runs to show (0 for all)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print runs as JSON")
	return cmd
}

// writeHistoryJSON prints runs as an indented JSON array, empty when none.
func writeHistoryJSON(w io.Writer, runs []history.Run) error {
	views := make([]historyRunView, 0, len(runs))
	for _, r := range runs {
		views = append(views, toHistoryView(r))
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(views)
}

func toHistoryView(r history.Run) historyRunView {
	return historyRunView{
		ID:           r.ID,
		StartedAt:    r.StartedAt.UTC().Format(time.RFC3339),
		ElapsedTime:  int64(r.Elapsed / time.Second),
		SourceRoot:   r.SourceRoot,
		DestRoot:     r.DestRoot,
		Format:       r.Format,
		MaxDimension: r.MaxDimension,
		Quality:      r.Quality,
		Discovered:   r.Discovered,
		Encoded:      r.Encoded,
		Failed:       r.Failed,
		SourceSize:   report.MB(float64(r.SourceBytes) / (1 << 20)),
		DestSize:     report.MB(float64(r.DestBytes) / (1 << 20)),
		Cancelled:    r.Cancelled,
	}
}

func runState(r history.Run) string {
	switch {
	case r.Cancelled:
		return "interrupted"
	case r.Failed > 0:
		return "partial"
	default:
		return "complete"
	}
}
