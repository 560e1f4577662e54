package logging

import (
	"github.com/rs/zerolog"
)

// Logger is the process-wide logger used by the containers in this module. It
// discards everything until SetGlobalLogger is called.
var Logger zerolog.Logger

func init() {
	SetGlobalLogger(zerolog.Nop())
}

func SetGlobalLogger(logger zerolog.Logger) {
	Logger = logger
	zerolog.DefaultContextLogger = &Logger
}

func With() zerolog.Context { return Logger.With() }

func Err(err error) *zerolog.Event { return Logger.Err(err) }

func Trace() *zerolog.Event { return Logger.Trace() }

func Debug() *zerolog.Event { return Logger.Debug() }

func Warn() *zerolog.Event { return Logger.Warn() }
