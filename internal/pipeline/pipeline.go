package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"vidshrink/internal/config"
	"vidshrink/internal/discovery"
	"vidshrink/internal/fileutil"
	"vidshrink/internal/logging"
	"vidshrink/internal/mirror"
	"vidshrink/internal/staleness"
	"vidshrink/internal/stats"
	"vidshrink/internal/transcode"
)

// Progress receives one update per handled file.
type Progress interface {
	Update(current, total int)
	Finish()
}

// Pipeline holds the collaborators of a run.
type Pipeline struct {
	Transcoder transcode.Transcoder
	Options    transcode.Options
	Progress   Progress
	Logger     *slog.Logger
	// Now defaults to time.Now.
	Now func() time.Time
}

// Result is everything a run produced for reporters and the history ledger.
type Result struct {
	Stats stats.RunStatistics
	Files []stats.FileResult
}

// Run processes every video under run.SourceRoot. Per-file failures are
// logged and recorded; only a failure to enumerate the source tree aborts
// the run. Cancelling ctx stops after the current file.
func (p *Pipeline) Run(ctx context.Context, run config.Run) (Result, error) {
	now := p.Now
	if now == nil {
		now = time.Now
	}
	logger := p.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	opts := p.Options
	opts.Format = run.Format
	opts.MaxDimension = run.MaxDimension
	opts.Quality = run.Quality

	started := now()
	tasks, err := discovery.Discover(run.SourceRoot, run.DestRoot, run.Format)
	if err != nil {
		return Result{}, err
	}
	logger.Info("discovered source files",
		logging.String("source", run.SourceRoot),
		logging.Int("count", len(tasks)),
	)

	p.sweepPartials(logger, run.DestRoot)

	agg := stats.NewAggregator(started)
	total := len(tasks)
	p.update(0, total)

	cancelled := false
	for i, task := range tasks {
		if ctx.Err() != nil {
			cancelled = true
			logger.Warn("run interrupted",
				logging.Int("handled", i),
				logging.Int("remaining", total-i),
			)
			break
		}
		agg.Record(task.Size)
		agg.AddResult(p.handle(ctx, logger, agg, run, task, opts))
		p.update(i+1, total)
	}
	if p.Progress != nil {
		p.Progress.Finish()
	}
	if ctx.Err() != nil {
		cancelled = true
	}

	failures, err := mirror.PropagateDirTimes(run.SourceRoot, run.DestRoot)
	if err != nil {
		logging.WarnWithContext(logger, "directory timestamps not propagated", "dir_times_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "destination directory times may differ from source"),
		)
	}
	for _, f := range failures {
		logging.WarnWithContext(logger, "directory timestamp not copied", "dir_time_failed",
			logging.String("dir", f.Dir),
			logging.Error(f.Err),
			logging.String(logging.FieldImpact, "destination directory time may differ from source"),
		)
	}

	destBytes, err := fileutil.TreeSize(run.DestRoot)
	if err != nil {
		logging.WarnWithContext(logger, "destination size unavailable", "dest_size_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "minimized size reported as zero"),
		)
	}

	result := Result{
		Stats: agg.Finalize(destBytes, now().Sub(started)),
		Files: agg.Results(),
	}
	result.Stats.Cancelled = cancelled
	logger.Info("run finished",
		logging.Int("discovered", result.Stats.Discovered),
		logging.Int("encoded", result.Stats.Processed),
		logging.Int("failed", result.Stats.Failed),
		logging.Int64("source_bytes", result.Stats.SourceBytes),
		logging.Int64("dest_bytes", result.Stats.DestBytes),
		logging.Duration("elapsed", result.Stats.Elapsed),
	)
	return result, nil
}

func (p *Pipeline) handle(ctx context.Context, logger *slog.Logger, agg *stats.Aggregator, run config.Run, task discovery.Task, opts transcode.Options) stats.FileResult {
	res := stats.FileResult{RelPath: task.RelPath, SourceBytes: task.Size}
	fileLogger := logger.With(logging.String(logging.FieldFile, task.RelPath))

	fail := func(msg, eventType, hint string, err error) stats.FileResult {
		agg.RecordFailed()
		res.Outcome = stats.OutcomeFailed
		res.Err = err
		logging.WarnWithContext(fileLogger, msg, eventType,
			logging.Error(err),
			logging.String(logging.FieldErrorHint, hint),
			logging.String(logging.FieldImpact, "file skipped; retried on next run"),
		)
		return res
	}

	dest, err := mirror.Mirror(run.SourceRoot, run.DestRoot, task.SourcePath, run.Format)
	if err != nil {
		return fail("destination directory unavailable", "mirror_failed", "check destination permissions and free space", err)
	}

	stale, err := staleness.NeedsProcessing(task.SourcePath, dest)
	if err != nil {
		return fail("staleness check failed", "staleness_failed", "check that source and destination are readable", err)
	}
	if !stale {
		res.Outcome = stats.OutcomeCurrent
		if size, err := fileutil.FileSize(dest); err == nil {
			res.DestBytes = size
		}
		fileLogger.Debug("destination up to date", logging.String("dest", dest))
		return res
	}

	fileLogger.Info("transcoding", logging.String("dest", dest))
	sizes, err := p.Transcoder.Transcode(ctx, task.SourcePath, dest, opts)
	if err != nil {
		// A previous output, if any, is left in place; it stays older than the
		// source and is retried on the next run.
		return fail("transcode failed", "transcode_failed", transcodeHint(err), err)
	}

	agg.RecordProcessed()
	res.Outcome = stats.OutcomeEncoded
	res.DestBytes = sizes.Dest
	if err := mirror.CopyTimes(task.SourcePath, dest); err != nil {
		logging.WarnWithContext(fileLogger, "timestamp copy failed", "copy_times_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "file may be re-encoded on next run"),
		)
	}
	fileLogger.Info("transcoded",
		logging.Int64("source_bytes", sizes.Source),
		logging.Int64("dest_bytes", sizes.Dest),
	)
	return res
}

// sweepPartials removes encoder output left behind by an interrupted run so
// it neither lingers in the tree nor counts toward the destination size.
func (p *Pipeline) sweepPartials(logger *slog.Logger, destRoot string) {
	removed, err := fileutil.RemoveMatching(destRoot, transcode.IsPartial)
	for _, path := range removed {
		logger.Info("removed stale partial output", logging.String("path", path))
	}
	if err != nil {
		logging.WarnWithContext(logger, "stale partial outputs not removed", "partial_sweep_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "leftover partial files count toward destination size"),
		)
	}
}

func (p *Pipeline) update(current, total int) {
	if p.Progress != nil {
		p.Progress.Update(current, total)
	}
}

func transcodeHint(err error) string {
	var terr *transcode.Error
	if !errors.As(err, &terr) {
		return "check logs for details"
	}
	switch terr.Reason {
	case transcode.ReasonOutOfMemory:
		return "lower max dimension or free memory"
	case transcode.ReasonUnsupportedCodec:
		return "install an ffmpeg build with the required codec"
	case transcode.ReasonCorruptInput:
		return "verify the source file plays"
	case transcode.ReasonCancelled:
		return "rerun to resume"
	default:
		return "inspect ffmpeg stderr in the debug log"
	}
}
