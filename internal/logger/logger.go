package logger

import (
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	Log *logrus.Logger
	mu  sync.Mutex
)

// Init инициализирует структурированный логгер.
func Init(level string) {
	Log = logrus.New()

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	Log.SetLevel(lvl)

	// JSON для production, text для development
	Log.SetFormatter(&logrus.JSONFormatter{})
}

// SetTextFormatter устанавливает текстовый формат логов (для development).
func SetTextFormatter() {
	if Log != nil {
		Log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}
}

// Get возвращает глобальный логгер. Если Init не вызывался (например, в тестах),
// создаётся логгер logrus по умолчанию.
func Get() *logrus.Logger {
	mu.Lock()
	defer mu.Unlock()
	if Log == nil {
		Log = logrus.New()
	}
	return Log
}
