package logger

import (
	"io"

	"github.com/sirupsen/logrus"
)

// Log общий логгер приложения. До вызова Init пишет в stderr с уровнем info.
var Log = logrus.New()

// Init настраивает уровень и формат логов под окружение.
// В development логи текстовые и подробные, в остальных окружениях — JSON.
func Init(env, level string) {
	Log = logrus.New()

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	Log.SetLevel(lvl)

	if env == "development" {
		Log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
		return
	}
	Log.SetFormatter(&logrus.JSONFormatter{})
}

// SetOutput перенаправляет вывод логгера (используется в тестах).
func SetOutput(w io.Writer) {
	Log.SetOutput(w)
}

// RecoveryLogger реализует goroutine.Logger поверх logrus.
type RecoveryLogger struct{}

func (RecoveryLogger) Errorf(format string, args ...interface{}) {
	Log.Errorf(format, args...)
}
