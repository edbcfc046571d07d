// Package logger builds the process-wide zap logger.
package logger

import (
	"go.uber.org/zap"
)

// New returns a development logger for the development environment and a
// production logger otherwise.
func New(environment string) (*zap.Logger, error) {
	if environment == "development" || environment == "" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
