package logger

import (
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

type Fields = logrus.Fields

type Level = logrus.Level

const (
	ErrorLevel = logrus.ErrorLevel
	WarnLevel  = logrus.WarnLevel
	InfoLevel  = logrus.InfoLevel
	DebugLevel = logrus.DebugLevel
	TraceLevel = logrus.TraceLevel
)

var (
	instance *logrus.Logger
	once     sync.Once
)

// GetLogger returns the process-wide logger. Log lines go to stderr so that
// stdout stays free for the summary table.
func GetLogger() *logrus.Logger {
	once.Do(func() {
		instance = logrus.New()
		instance.SetOutput(os.Stderr)
		instance.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
		instance.SetLevel(InfoLevel)
	})

	return instance
}
