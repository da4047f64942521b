package flexlog

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
)

// internalLog is flexlog's own diagnostic channel: a freestanding
// zerolog.Logger, deliberately never the package-level zerolog global, so
// embedding an application doesn't have its own zerolog configuration
// silently hijacked by this library (§7).
var internalLog = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).With().Timestamp().Logger()

// defaultErrorHandler is used by a Handle until SetErrorHandler overrides
// it: log the failure to flexlog's internal channel and move on (§7 — a
// broken appender must never panic or block the caller).
func defaultErrorHandler(err error) {
	internalLog.Error().Err(err).Msg("flexlog: appender error")
}

// ConfigError wraps a failure encountered while building or loading a
// configuration, so callers can distinguish it from a runtime dispatch
// error with errors.As. Build, Load and LoadFile return plain wrapped errors,
// not *ConfigError.
type ConfigError struct {
	Err error
}

func (e *ConfigError) Error() string { return fmt.Sprintf("flexlog: config: %v", e.Err) }

func (e *ConfigError) Unwrap() error { return e.Err }
