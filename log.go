package pgwire

import (
	"os"

	"github.com/rs/zerolog"
)

// Logger is the sink the connection writes diagnostic and notice traffic to.
// The zero value of ConnConfig uses newDefaultLogger, a zerolog.Logger
// writing to stderr with no level filter of its own.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

type zerologLogger struct {
	l zerolog.Logger
}

func newDefaultLogger() Logger {
	return &zerologLogger{l: zerolog.New(os.Stderr).With().Timestamp().Str("component", "pgwire").Logger()}
}

func (z *zerologLogger) Debugf(format string, args ...interface{}) {
	z.l.Debug().Msgf(format, args...)
}

func (z *zerologLogger) Infof(format string, args ...interface{}) {
	z.l.Info().Msgf(format, args...)
}

func (z *zerologLogger) Errorf(format string, args ...interface{}) {
	z.l.Error().Msgf(format, args...)
}

// Notification is a server-pushed NOTIFY payload (§3.1 supplement).
type Notification struct {
	Pid     int32
	Channel string
	Payload string
}
