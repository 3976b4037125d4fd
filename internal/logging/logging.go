// Package logging configures the process-wide logrus logger.
package logging

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Setup applies the configured level and format to the standard logger.
func Setup(level, format string) error {
	if level == "" {
		level = "info"
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	logrus.SetLevel(lvl)

	switch format {
	case "", "text":
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	case "json":
		logrus.SetFormatter(&logrus.JSONFormatter{})
	default:
		return fmt.Errorf("invalid log format %q (want \"text\" or \"json\")", format)
	}
	return nil
}
