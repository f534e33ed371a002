package logger

import (
	"go.uber.org/zap"
)

// Log is the process-wide logger. It discards everything until Init is called.
var Log = zap.NewNop().Sugar()

func Init(development bool) {
	var (
		logger *zap.Logger
		err    error
	)
	if development {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		panic("failed to initialize zap logger: " + err.Error())
	}
	Log = logger.Sugar()
}

// Sync flushes buffered log entries.
func Sync() {
	_ = Log.Sync()
}
