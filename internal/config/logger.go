package config

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds the application logger. ENV=prod selects the JSON
// production config, anything else the console development config.
func NewLogger() (*zap.Logger, error) {
	var cfg zap.Config
	if strings.ToLower(os.Getenv("ENV")) == "prod" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg.Build(zap.AddStacktrace(zap.ErrorLevel))
}
