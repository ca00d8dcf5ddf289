package config

const (
	defaultStateDir      = "~/.local/share/vidshrink"
	defaultMaxDimension  = 800
	defaultQuality       = 23
	defaultFormat        = "mp4"
	defaultVideoCodec    = "libx264"
	defaultAudioCodec    = "aac"
	defaultPreset        = "medium"
	defaultDenoiseFilter = "hqdn3d"
	defaultFFmpegBinary  = "ffmpeg"
	defaultFFprobeBinary = "ffprobe"
	defaultLogFormat     = "console"
	defaultLogLevel      = "info"
)

// MaxQuality is the highest accepted quality factor (x264/x265 CRF scale).
const MaxQuality = 51

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir: defaultStateDir,
		},
		Transcode: Transcode{
			MaxDimension:  defaultMaxDimension,
			Quality:       defaultQuality,
			Format:        defaultFormat,
			VideoCodec:    defaultVideoCodec,
			AudioCodec:    defaultAudioCodec,
			Preset:        defaultPreset,
			DenoiseFilter: defaultDenoiseFilter,
			FFmpegBinary:  defaultFFmpegBinary,
			FFprobeBinary: defaultFFprobeBinary,
		},
		Output: Output{
			FileTable: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		History: History{
			Enabled: true,
		},
	}
}
