package logger

import (
	"io"
	stdlog "log"
	"os"
	"strings"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/rvasily/incident-capture-service/internal/config"
)

// Init configures the global zerolog logger once at startup. LOG_PRETTY
// switches between the human console writer (local development) and raw JSON
// on stdout (production log collectors). The stdlib logger is redirected so
// third-party log.Print output lands in the same stream.
func Init(cfg config.Config) {
	level := zerolog.InfoLevel
	if l, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(cfg.LogLevel))); err == nil {
		level = l
	}
	zerolog.SetGlobalLevel(level)

	var w io.Writer = os.Stdout
	if cfg.LogPretty {
		w = zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: "15:04:05",
		}
	}

	zlog.Logger = zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Str("service", "incident-capture").
		Logger()

	stdlog.SetFlags(0)
	stdlog.SetOutput(zlog.Logger)
}
