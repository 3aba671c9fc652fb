// Package logging builds the structured logger used by commands and the store.
package logging

import (
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Options controls logger construction.
type Options struct {
	// Debug lowers the level to debug.
	Debug bool

	// JSON selects the JSON formatter instead of the text formatter.
	JSON bool

	// Session tags every entry. A random id is generated when empty.
	Session string
}

// New creates a logger writing to w.
// Every entry carries a "session" field so that log lines from one
// shell session or command invocation can be correlated.
func New(w io.Writer, opts Options) *logrus.Entry {
	logger := logrus.New()
	logger.SetOutput(w)

	if opts.JSON {
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: time.RFC3339Nano,
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "ts",
				logrus.FieldKeyLevel: "level",
				logrus.FieldKeyMsg:   "message",
			},
		})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			DisableTimestamp: true,
			DisableColors:    true,
		})
	}

	if opts.Debug {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetLevel(logrus.InfoLevel)
	}

	session := opts.Session
	if session == "" {
		session = uuid.NewString()
	}
	return logger.WithField("session", session)
}

// Discard returns a logger that drops everything.
func Discard() *logrus.Entry {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logrus.NewEntry(logger)
}
