package utils

import (
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// Log is the application logger. Access logs go through the Fiber logger middleware instead.
var Log = logrus.New()

func InitLogger() {
	Log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	level, err := logrus.ParseLevel(GetConfig("LOG_LEVEL"))
	if err != nil {
		level = logrus.InfoLevel
	}
	Log.SetLevel(level)

	path := GetConfig("LOG_FILE")
	if path == "" {
		Log.SetOutput(os.Stdout)
		return
	}
	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		Log.WithError(err).Warn("cannot create log directory, logging to stdout")
		return
	}
	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		Log.WithError(err).Warn("cannot open log file, logging to stdout")
		return
	}
	Log.SetOutput(io.MultiWriter(os.Stdout, file))
}
