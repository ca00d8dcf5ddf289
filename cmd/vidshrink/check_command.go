package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"vidshrink/internal/apperr"
	"vidshrink/internal/preflight"
	"vidshrink/internal/report"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	var src, dest string

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Verify external tools and directory access",
		Long: "check reports whether ffmpeg and ffprobe can be found and, when roots are\n" +
			"configured or passed with -s and -d, whether they are usable.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			cfg := *loaded
			if cmd.Flags().Changed("src") {
				cfg.Paths.SourceDir = src
			}
			if cmd.Flags().Changed("dest") {
				cfg.Paths.DestDir = dest
			}
			if err := resolveRoots(&cfg); err != nil {
				return err
			}

			results := preflight.RunAll(&cfg)
			rows := make([][]string, 0, len(results))
			for _, r := range results {
				status := "ok"
				if !r.Passed {
					status = "FAIL"
				}
				rows = append(rows, []string{r.Name, status, r.Detail})
			}
			fmt.Fprintln(cmd.OutOrStdout(), report.RenderTable(
				[]string{"Check", "Status", "Detail"},
				rows,
				[]report.Alignment{report.AlignLeft, report.AlignLeft, report.AlignLeft},
			))

			failed := preflight.Failures(results)
			if len(failed) == 0 {
				return nil
			}
			names := make([]string, 0, len(failed))
			for _, r := range failed {
				names = append(names, r.Name)
			}
			return apperr.Configuration("check", errors.New(strings.Join(names, ", ")+" failed"))
		},
	}

	cmd.Flags().StringVarP(&src, "src", "s", "", "Source root to check")
	cmd.Flags().StringVarP(&dest, "dest", "d", "", "Destination root to check")
	return cmd
}
