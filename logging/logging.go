package logging

import (
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

// Configure sets up the standard logrus logger. format is "json" or "text".
func Configure(level string, format string, out io.Writer) error {
	parsedLevel, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	logrus.SetLevel(parsedLevel)
	if out != nil {
		logrus.SetOutput(out)
	}
	if strings.EqualFold(format, "text") {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}
	return nil
}

func Component(name string) *logrus.Entry {
	return logrus.WithField("component", name)
}
