package log

import (
	"fmt"
	"io"
	"strings"
)

// NewSubLogger allows for a new sub logger to be registered.
func NewSubLogger(name string) (*SubLogger, error) {
	if name == "" {
		return nil, errEmptyLoggerName
	}
	name = strings.ToUpper(name)
	mu.RLock()
	_, ok := subLoggers[name]
	mu.RUnlock()
	if ok {
		return nil, fmt.Errorf("%w %s", errSubLoggerAlreadyRegistered, name)
	}
	return registerNewSubLogger(name), nil
}

// SetOutput overrides the default output with a new writer
func (sl *SubLogger) SetOutput(o io.Writer) {
	mu.Lock()
	sl.output = o
	mu.Unlock()
}

// SetLevels overrides the default levels with new levels
func (sl *SubLogger) SetLevels(newLevels Levels) {
	mu.Lock()
	sl.levels = newLevels
	mu.Unlock()
}

// GetLevels returns current functional log levels
func (sl *SubLogger) GetLevels() Levels {
	mu.RLock()
	defer mu.RUnlock()
	return sl.levels
}

// Name returns the upper case registered name
func (sl *SubLogger) Name() string {
	return sl.name
}

func (sl *SubLogger) getFields() *logFields {
	if sl == nil {
		return nil
	}
	return &logFields{
		info:   sl.levels.Info,
		warn:   sl.levels.Warn,
		debug:  sl.levels.Debug,
		error:  sl.levels.Error,
		name:   sl.name,
		output: sl.output,
		logger: logger,
	}
}
