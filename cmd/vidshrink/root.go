package main

import (
	"strings"

	"github.com/spf13/cobra"

	"vidshrink/internal/config"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	flags := &runFlags{}

	ctx := newCommandContext(&configFlag)

	rootCmd := &cobra.Command{
		Use:   "vidshrink -s SRC -d DEST [flags]",
		Short: "Incrementally shrink a tree of videos into a mirrored destination",
		Long: "vidshrink walks SRC for .mp4, .mov, .mkv and .avi files and re-encodes each one\n" +
			"into the same relative location under DEST, skipping files whose output is\n" +
			"already newer than the source.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTranscode(cmd, ctx, flags)
		},
	}
	rootCmd.SetFlagErrorFunc(flagErrorWithUsage)

	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "Configuration file path")

	f := rootCmd.Flags()
	f.StringVarP(&flags.src, "src", "s", "", "Source root directory (required)")
	f.StringVarP(&flags.dest, "dest", "d", "", "Destination root directory (required)")
	f.IntVarP(&flags.maxDimension, "max-dimension", "m", 800, "Long-side target in pixels")
	f.IntVarP(&flags.compression, "compression", "c", 23, "Quality factor; 0 is near lossless, higher is smaller")
	f.StringVar(&flags.format, "format", "mp4", "Output container ("+strings.Join(config.SupportedFormats, ", ")+")")
	f.BoolVarP(&flags.structured, "json", "j", false, "Print the summary as a single JSON record")
	f.BoolVarP(&flags.quiet, "quiet", "q", false, "Suppress progress, the file table and the human summary")
	f.BoolVar(&flags.noTable, "no-table", false, "Do not print the per-file table")
	f.BoolVar(&flags.noHistory, "no-history", false, "Do not record this run in the history ledger")
	f.StringVar(&flags.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(newConfigCommand(ctx))
	rootCmd.AddCommand(newCheckCommand(ctx))
	rootCmd.AddCommand(newHistoryCommand(ctx))

	return rootCmd
}
