package transcode

import (
	"context"

	"vidshrink/internal/config"
)

// Options are the encoder settings applied to every file in a run.
type Options struct {
	MaxDimension  int
	Quality       int
	Format        string
	VideoCodec    string
	AudioCodec    string
	Preset        string
	DenoiseFilter string
}

// OptionsFromConfig extracts encoder settings from the merged configuration.
func OptionsFromConfig(cfg *config.Config) Options {
	t := cfg.Transcode
	return Options{
		MaxDimension:  t.MaxDimension,
		Quality:       t.Quality,
		Format:        t.Format,
		VideoCodec:    t.VideoCodec,
		AudioCodec:    t.AudioCodec,
		Preset:        t.Preset,
		DenoiseFilter: t.DenoiseFilter,
	}
}

// Sizes are the on-disk sizes of a source and its produced destination.
type Sizes struct {
	Source int64
	Dest   int64
}

// Transcoder converts one source file into dest. Implementations must leave
// no file at dest when they return an error.
type Transcoder interface {
	Transcode(ctx context.Context, src, dest string, opts Options) (Sizes, error)
}

// Func adapts a plain function to the Transcoder interface.
type Func func(ctx context.Context, src, dest string, opts Options) (Sizes, error)

// Transcode calls f.
func (f Func) Transcode(ctx context.Context, src, dest string, opts Options) (Sizes, error) {
	return f(ctx, src, dest, opts)
}
