package core

import "go.uber.org/zap"

// NewLogger returns a development logger when debugLogs is on and a
// production JSON logger otherwise.
func NewLogger(config Config) (*zap.Logger, error) {
	if config.DebugLogs {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
