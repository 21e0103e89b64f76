package log

import "io"

// Global vars related to the logger package
var (
	subLoggers = map[string]*SubLogger{}

	Global     *SubLogger
	BackTester *SubLogger
	Data       *SubLogger
	Strategy   *SubLogger
	Portfolio  *SubLogger
	Exchange   *SubLogger
	Statistics *SubLogger
	ConfigMgr  *SubLogger
	Database   *SubLogger
)

// SubLogger defines a sub logger can be used externally for packages wanted to
// share the backtester log output.
type SubLogger struct {
	name   string
	levels Levels
	output io.Writer
}

// logFields is used to store data in a non-global and thread-safe manner
// so logs cannot be modified mid-log causing a data-race issue
type logFields struct {
	info   bool
	warn   bool
	debug  bool
	error  bool
	name   string
	output io.Writer
	logger Logger
}
