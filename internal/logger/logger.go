package logger

import (
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

// New creates a configured logrus logger. Unknown levels fall back to info;
// any format other than "text" produces JSON output.
func New(level, format string) *logrus.Logger {
	log := logrus.New()

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	log.SetLevel(parsed)

	if format == "text" {
		log.SetFormatter(&logrus.TextFormatter{
			TimestampFormat: time.RFC3339Nano,
			FullTimestamp:   true,
		})
	} else {
		log.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: time.RFC3339Nano,
		})
	}

	log.SetOutput(os.Stdout)
	return log
}
