// Package logger builds the process logger and component-scoped entries.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"PriceSentinel/internal/config"
)

// New creates a logger from the logging config.
func New(cfg config.LoggingConfig) (*logrus.Logger, error) {
	log := logrus.New()

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %s: %w", cfg.Level, err)
	}
	log.SetLevel(level)

	switch strings.ToLower(cfg.Format) {
	case "json":
		log.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05.000",
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "timestamp",
				logrus.FieldKeyLevel: "level",
				logrus.FieldKeyMsg:   "message",
			},
		})
	default:
		log.SetFormatter(&logrus.TextFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
			FullTimestamp:   true,
		})
	}

	out, err := output(cfg.Output)
	if err != nil {
		return nil, fmt.Errorf("failed to set output: %w", err)
	}
	log.SetOutput(out)
	return log, nil
}

// Component returns an entry tagged with the component name.
func Component(log *logrus.Logger, name string) *logrus.Entry {
	if log == nil {
		return Nop()
	}
	return log.WithField("component", name)
}

// Nop returns an entry that discards everything. Used as the nil default.
func Nop() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

func output(dest string) (io.Writer, error) {
	switch strings.ToLower(dest) {
	case "", "stderr":
		return os.Stderr, nil
	case "stdout":
		return os.Stdout, nil
	default:
		return os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	}
}
