package logger

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
)

// New builds the process logger: human-readable in dev, JSON in prod.
// The mode is selected by the APP_ENV environment variable.
func New() *zap.SugaredLogger {
	var (
		log *zap.Logger
		err error
	)
	if strings.ToLower(os.Getenv("APP_ENV")) == "dev" {
		log, err = zap.NewDevelopment()
	} else {
		log, err = zap.NewProduction()
	}
	if err != nil {
		panic(fmt.Errorf("failed to initialize logger: %w", err))
	}
	return log.Sugar()
}

// NewNop returns a logger that discards everything, for tests.
func NewNop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}
