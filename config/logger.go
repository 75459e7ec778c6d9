package config

import (
	"github.com/MonkyMars/gecho"
)

var logger *gecho.Logger

// InitializeLogger builds the process logger at the environment's level.
// Callers are only shown outside production.
func InitializeLogger() *gecho.Logger {
	logger = gecho.NewLogger(gecho.NewConfig(
		gecho.WithShowCaller(!IsProduction()),
		gecho.WithLogLevel(gecho.ParseLogLevel(GetLogLevel())),
	))
	return logger
}

// GetLogger returns the process logger, building it on first use
func GetLogger() *gecho.Logger {
	if logger == nil {
		return InitializeLogger()
	}
	return logger
}
