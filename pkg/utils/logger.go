package utils

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// ParseLogLevel accepts the logrus level names (trace, debug, info, warn, error...)
func ParseLogLevel(lvl string) (logrus.Level, error) {
	level, err := logrus.ParseLevel(lvl)
	if err != nil {
		return logrus.InfoLevel, errors.Wrapf(err, "invalid log level %q", lvl)
	}
	return level, nil
}

// ParseLogOutput maps terminal/stdout and stderr to their writers.
// The report is written to stdout, so stderr is the default for logs.
func ParseLogOutput(output string) (io.Writer, error) {
	switch output {
	case "terminal", "stdout":
		return os.Stdout, nil
	case "stderr", "":
		return os.Stderr, nil
	}
	return os.Stderr, errors.Errorf("invalid log output %q", output)
}

func ParseLogFormatter(format string) (logrus.Formatter, error) {
	switch format {
	case "text", "":
		return &logrus.TextFormatter{FullTimestamp: true}, nil
	case "json":
		return &logrus.JSONFormatter{}, nil
	}
	return nil, errors.Errorf("invalid log format %q", format)
}

// ConfigureLogger sets level, output and format of the standard logger,
// nothing is changed if any of them is invalid.
func ConfigureLogger(level, output, format string) error {
	lvl, err := ParseLogLevel(level)
	if err != nil {
		return err
	}
	out, err := ParseLogOutput(output)
	if err != nil {
		return err
	}
	formatter, err := ParseLogFormatter(format)
	if err != nil {
		return err
	}
	logrus.SetLevel(lvl)
	logrus.SetOutput(out)
	logrus.SetFormatter(formatter)
	return nil
}
