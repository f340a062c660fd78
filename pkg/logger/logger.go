package logger

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"crudefi-api/pkg/config"
)

// Setup configures the standard logrus logger and returns it.
// JSON output is used in production or when LOG_FORMAT=json.
func Setup(cfg config.LogConfig, production bool) *logrus.Logger {
	log := logrus.StandardLogger()
	log.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	format := strings.ToLower(cfg.Format)
	if format == "json" || (format == "" && production) {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	if err != nil && cfg.Level != "" {
		log.Warnf("unknown LOG_LEVEL %q, using info", cfg.Level)
	}
	return log
}

// Component returns an entry tagged with the component name.
func Component(name string) *logrus.Entry {
	return logrus.WithField("component", name)
}
