package abiz

import (
	"fmt"
	"log/slog"

	"github.com/arloliu/abiz/compress"
	"github.com/arloliu/abiz/format"
	"github.com/arloliu/abiz/internal/options"
)

// Config holds the settings of a compression or decompression run.
//
// Decompression only uses Logger.
type Config struct {
	// Logger receives per-stage metrics at debug level. Defaults to a discarding logger.
	Logger *slog.Logger
	// Verify decodes the output after compressing and compares it with the input.
	Verify bool
	// Baselines lists general-purpose codecs to compress the input with for comparison.
	Baselines []format.CompressionType
}

// Option is a functional option for Config.
type Option = options.Option[*Config]

func defaultConfig() *Config {
	return &Config{
		Logger: slog.New(slog.DiscardHandler),
	}
}

func newConfig(opts ...Option) (*Config, error) {
	cfg := defaultConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return cfg, nil
}

// WithLogger sets the logger used for run metrics. A nil logger keeps the default.
func WithLogger(logger *slog.Logger) Option {
	return options.NoError(func(cfg *Config) {
		if logger != nil {
			cfg.Logger = logger
		}
	})
}

// WithVerify enables or disables decoding the output to check it reproduces the input.
func WithVerify(enabled bool) Option {
	return options.NoError(func(cfg *Config) {
		cfg.Verify = enabled
	})
}

// WithBaselines compresses the input with each listed codec and reports the results in Stats.
//
// Returns an error when applied if a type has no built-in codec.
func WithBaselines(types ...format.CompressionType) Option {
	return options.New(func(cfg *Config) error {
		for _, typ := range types {
			if _, err := compress.GetCodec(typ); err != nil {
				return fmt.Errorf("invalid baseline: %w", err)
			}
		}
		cfg.Baselines = append(cfg.Baselines[:0], types...)

		return nil
	})
}
