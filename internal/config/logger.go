package config

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger builds the zap logger described by the logging section. verbose
// forces the debug level.
func (c *Config) Logger(verbose bool) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if c.Logging.Development {
		zcfg = zap.NewDevelopmentConfig()
	}

	level := zapcore.InfoLevel
	if c.Logging.Level != "" {
		if err := level.UnmarshalText([]byte(c.Logging.Level)); err != nil {
			return nil, errors.Wrapf(err, "unable to parse log level %q", c.Logging.Level)
		}
	}

	if verbose {
		level = zapcore.DebugLevel
	}

	zcfg.Level = zap.NewAtomicLevelAt(level)

	logger, err := zcfg.Build()
	if err != nil {
		return nil, errors.Wrap(err, "unable to build logger")
	}

	return logger, nil
}
