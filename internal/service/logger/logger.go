package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	AccessLogger *zap.Logger = zap.NewNop()
	DBLogger     *zap.Logger = zap.NewNop()
)

func InitLoggers() error {
	var err error
	AccessLogger, err = build(envOr("ACCESS_LOG_PATH", "access.log"))
	if err != nil {
		return err
	}

	DBLogger, err = build(envOr("DB_LOG_PATH", "db.log"))
	if err != nil {
		return err
	}

	return nil
}

func build(path string) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	config.OutputPaths = []string{
		path,
	}
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return config.Build()
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func SyncLoggers() error {
	err := AccessLogger.Sync()
	if err != nil {
		return err
	}
	err = DBLogger.Sync()
	if err != nil {
		return err
	}
	return nil
}
