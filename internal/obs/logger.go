package obs

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log is the process-wide structured logger, initialized by InitLogger or
// TestInitLogger before any package in this module emits a log line.
var Log *zap.Logger

func init() {
	Log = zap.NewNop()
}

// InitLogger configures Log for production use: JSON encoding, ISO8601
// timestamps.
func InitLogger() {
	config := zap.NewProductionConfig()
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var err error
	Log, err = config.Build()
	if err != nil {
		panic(err)
	}
}

// Field wraps zap.Any for callers that don't want to import zap directly.
func Field(key string, value interface{}) zap.Field {
	return zap.Any(key, value)
}

// TestInitLogger installs a no-op logger, used by package tests.
func TestInitLogger() {
	Log = zap.NewNop()
}
