package logger

import (
	"fmt"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/huseyingedek/geras-api/internal/config"
)

func Init(cfg *config.Config) {
	zerolog.TimeFieldFormat = time.RFC3339

	if !cfg.IsProduction() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	} else {
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	log.Debug().Str("level", level.String()).Msg("logger initialized")
}

type stackTracer interface {
	StackTrace() errors.StackTrace
}

// ErrorWithStack starts an error event for err with a "stack" field. The
// outermost stack recorded in err's chain is used, else the caller's.
func ErrorWithStack(err error) *zerolog.Event {
	var st stackTracer
	if !errors.As(err, &st) {
		st = errors.WithStack(err).(stackTracer)
	}
	return log.Error().Err(err).Str("stack", fmt.Sprintf("%+v", st.StackTrace()))
}
