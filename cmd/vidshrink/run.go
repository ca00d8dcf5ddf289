package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"vidshrink/internal/apperr"
	"vidshrink/internal/config"
	"vidshrink/internal/history"
	"vidshrink/internal/logging"
	"vidshrink/internal/pipeline"
	"vidshrink/internal/preflight"
	"vidshrink/internal/report"
	"vidshrink/internal/runlock"
	"vidshrink/internal/transcode"
)

func runTranscode(cmd *cobra.Command, ctx *commandContext, flags *runFlags) error {
	loaded, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	cfg := *loaded
	if err := applyOverrides(cmd, &cfg, flags); err != nil {
		return err
	}

	logger, err := logging.NewFromConfig(&cfg, cmd.ErrOrStderr())
	if err != nil {
		return apperr.Configuration("logging", err)
	}
	runID := history.NewRunID()
	logger = logger.With(logging.String(logging.FieldRunID, runID))

	if msg := preflight.Summarize(preflight.RunAll(&cfg)); msg != "" {
		return apperr.Configuration("preflight", errors.New(msg))
	}

	if err := cfg.EnsureStateDir(); err != nil {
		return apperr.Configuration("state directory", err)
	}
	lock, err := runlock.Acquire(cfg.LockDir(), cfg.Paths.DestDir)
	if err != nil {
		return apperr.Configuration("run lock", err)
	}
	defer func() { _ = lock.Release() }()

	run := cfg.Run()
	out := cmd.OutOrStdout()
	humanOutput := !run.Quiet && !run.Structured

	p := &pipeline.Pipeline{
		Transcoder: transcode.NewFFmpeg(&cfg, logger),
		Options:    transcode.OptionsFromConfig(&cfg),
		Progress:   report.NewProgress(out, humanOutput),
		Logger:     logging.NewComponentLogger(logger, "pipeline"),
	}
	logger.Info("run starting",
		logging.String("source", run.SourceRoot),
		logging.String("dest", run.DestRoot),
		logging.Int("max_dimension", run.MaxDimension),
		logging.Int("quality", run.Quality),
		logging.String("format", run.Format),
	)

	res, err := p.Run(cmd.Context(), run)
	if err != nil {
		return err
	}

	if cfg.History.Enabled {
		recordHistory(context.WithoutCancel(cmd.Context()), &cfg, logger, runID, run, res)
	}

	if humanOutput && run.FileTable && len(res.Files) > 0 {
		fmt.Fprintln(out, report.FileTable(res.Files))
	}
	if run.Structured || !run.Quiet {
		if err := report.WriteSummary(out, res.Stats, run.Structured, report.ShouldColorize(out)); err != nil {
			return apperr.Wrap(apperr.ErrIO, "report", "write summary", "", err)
		}
	}

	if res.Stats.Cancelled {
		return context.Canceled
	}
	return nil
}

func recordHistory(ctx context.Context, cfg *config.Config, logger *slog.Logger, runID string, run config.Run, res pipeline.Result) {
	store, err := history.OpenFromConfig(cfg)
	if err != nil {
		logging.WarnWithContext(logger, "history unavailable", "history_open_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "run not recorded"),
		)
		return
	}
	defer store.Close()

	rec, files := history.FromStats(runID, run, res.Stats, res.Files)
	if err := store.RecordRun(ctx, rec, files); err != nil {
		logging.WarnWithContext(logger, "history write failed", "history_write_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "run not recorded"),
		)
	}
}
