package logger

import (
	"fmt"

	"go.uber.org/zap"
)

// New builds a zap logger suited to the given environment.
// Production gets JSON output at info level, everything else the development console encoder.
func New(env string) (*zap.Logger, error) {
	var (
		logger *zap.Logger
		err    error
	)
	if env == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}
