package logs

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/cube2222/shaclplan/config"
)

var Logger zerolog.Logger

var output *os.File

func init() {
	SetGlobalLogger(zerolog.Nop())
}

// SetGlobalLogger also makes logger the fallback of zerolog.Ctx for
// contexts without a logger.
func SetGlobalLogger(logger zerolog.Logger) {
	Logger = logger
	zerolog.DefaultContextLogger = &Logger
}

// Initialize sets up the global logger as configured. With cfg.File set,
// logs go to logs.txt in the shaclplan directory instead of stderr.
func Initialize(cfg config.LoggingConfig) error {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return errors.Wrapf(err, "couldn't parse log level '%s'", cfg.Level)
	}

	var w io.Writer = os.Stderr
	if cfg.File {
		if err := os.MkdirAll(config.ShaclplanDir, 0755); err != nil {
			return errors.Wrap(err, "couldn't create shaclplan directory")
		}
		f, err := os.Create(filepath.Join(config.ShaclplanDir, "logs.txt"))
		if err != nil {
			return errors.Wrap(err, "couldn't create logs file")
		}
		output = f
		w = f
	}

	SetGlobalLogger(newLogger(w, cfg.Format, level))
	return nil
}

func newLogger(w io.Writer, format string, level zerolog.Level) zerolog.Logger {
	if format == "console" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen, NoColor: output != nil}
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

func CloseLogger() error {
	if output == nil {
		return nil
	}
	err := output.Close()
	output = nil
	return err
}
