// Package logger настраивает глобальный zerolog под окружение приложения.
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/vasiliy-maslov/honey-shop/internal/config"
)

// Setup выставляет уровень и формат глобального логгера и возвращает его копию с полем service.
// В development пишет человекочитаемый вывод, иначе JSON.
func Setup(app config.AppConfig, service string) zerolog.Logger {
	return setup(os.Stderr, app, service)
}

func setup(out io.Writer, app config.AppConfig, service string) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.SetGlobalLevel(ParseLevel(app.LogLevel, app.Debug))

	if strings.EqualFold(app.Environment, "development") {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	logger := zerolog.New(out).With().Timestamp().Str("service", service).Logger()
	log.Logger = logger
	return logger
}

// ParseLevel переводит LOG_LEVEL в zerolog.Level. DEBUG=true всегда включает debug.
func ParseLevel(raw string, debug bool) zerolog.Level {
	if debug {
		return zerolog.DebugLevel
	}
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(raw)))
	if err != nil || raw == "" {
		return zerolog.InfoLevel
	}
	return level
}
