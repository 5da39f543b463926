package flatbin

import "go.uber.org/zap"

// DecodeOption configures a single decode call.
type DecodeOption func(*decodeConfig)

type decodeConfig struct {
	logger *zap.Logger
	strict bool
}

func newDecodeConfig(opts []DecodeOption) decodeConfig {
	cfg := decodeConfig{logger: Logger()}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithStrict rejects input with bytes left over after the value.
func WithStrict() DecodeOption {
	return func(c *decodeConfig) {
		c.strict = true
	}
}

// WithLogger overrides the package logger for one call.
func WithLogger(l *zap.Logger) DecodeOption {
	return func(c *decodeConfig) {
		if l != nil {
			c.logger = l
		}
	}
}
