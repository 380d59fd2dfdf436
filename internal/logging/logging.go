// Package logging configures the zerolog logger shared by the server, the
// CLI commands and the event consumer.
package logging

import (
    "io"
    "os"
    "strings"
    "time"

    "github.com/rs/zerolog"
    "github.com/rs/zerolog/log"

    "github.com/iliyamo/wedding-marketplace/internal/config"
)

// Standard field names.
const (
    COMPONENT   = "component"
    EVENT       = "event"
    REQUEST_ID  = "request_id"
    USER_ID     = "user_id"
    ROLE        = "role"
    RESERVATION = "reservation_id"
    STATUS      = "status"
)

func init() {
    zerolog.TimeFieldFormat = time.RFC3339Nano
}

// New builds a logger from cfg writing to stdout and installs it as the
// global zerolog logger.
func New(cfg config.LogConfig) zerolog.Logger {
    return NewWithWriter(cfg, os.Stdout)
}

// NewWithWriter is New with an explicit destination.
func NewWithWriter(cfg config.LogConfig, w io.Writer) zerolog.Logger {
    level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
    if err != nil || level == zerolog.NoLevel {
        level = zerolog.InfoLevel
    }
    if strings.EqualFold(cfg.Format, "console") {
        w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
    }
    logger := zerolog.New(w).Level(level).With().Timestamp().Logger()
    log.Logger = logger
    return logger
}

// Component returns a child logger tagged with the component name.
func Component(l zerolog.Logger, name string) zerolog.Logger {
    return l.With().Str(COMPONENT, name).Logger()
}
