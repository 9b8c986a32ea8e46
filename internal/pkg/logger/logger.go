// Package logger builds the zap loggers used across the service.
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a JSON logger for the "production" environment and a colored
// console logger otherwise. An unknown level falls back to the config default.
func New(environment, level string) (*zap.Logger, error) {
	var config zap.Config

	if environment == "production" {
		config = zap.NewProductionConfig()
	} else {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	if l, err := zapcore.ParseLevel(level); err == nil {
		config.Level = zap.NewAtomicLevelAt(l)
	}

	return config.Build()
}

// Component returns l tagged with the component field.
func Component(l *zap.Logger, name string) *zap.Logger {
	return l.With(zap.String("component", name))
}
