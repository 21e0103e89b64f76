package log

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/common/convert"
)

var (
	errSubloggerConfigIsNil       = errors.New("sublogger config is nil")
	errUnhandledOutputWriter      = errors.New("unhandled output writer")
	errSubLoggerNotFound          = errors.New("sub logger not found")
	errSubLoggerAlreadyRegistered = errors.New("sub logger already registered")
	errEmptyLoggerName            = errors.New("cannot have empty logger name")
	errLogFileNotSet              = errors.New("log file name not set")
)

// logFile is the shared file writer used when a sub logger outputs to "file"
var logFile io.WriteCloser

func getWriters(s *SubLoggerConfig) (io.Writer, error) {
	if s == nil {
		return nil, errSubloggerConfigIsNil
	}
	mw, err := MultiWriter()
	if err != nil {
		return nil, err
	}
	outputWriters := strings.Split(s.Output, "|")
	for x := range outputWriters {
		var writer io.Writer
		switch strings.ToLower(outputWriters[x]) {
		case "stdout", "console":
			writer = os.Stdout
		case "stderr":
			writer = os.Stderr
		case "file":
			if logFile == nil {
				return nil, errLogFileNotSet
			}
			writer = logFile
		default:
			return nil, fmt.Errorf("%w: %s", errUnhandledOutputWriter, outputWriters[x])
		}
		err = mw.Add(writer)
		if err != nil {
			return nil, err
		}
	}
	return mw, nil
}

// GenDefaultSettings return struct with known sane/working logger settings
func GenDefaultSettings() Config {
	return Config{
		Enabled: convert.BoolPtr(true),
		SubLoggerConfig: SubLoggerConfig{
			Level:  defaultLevels,
			Output: "console",
		},
		AdvancedSettings: advancedSettings{
			ShowLogSystemName: convert.BoolPtr(true),
			Spacer:            spacer,
			TimeStampFormat:   timestampFormat,
			Headers: headers{
				Info:  "[INFO]",
				Warn:  "[WARN]",
				Debug: "[DEBUG]",
				Error: "[ERROR]",
			},
		},
	}
}

// SetFileOutput opens the named file for appending so sub loggers configured
// with the "file" output can write to it
func SetFileOutput(fileName string) error {
	if fileName == "" {
		return errLogFileNotSet
	}
	f, err := os.OpenFile(fileName, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	mu.Lock()
	defer mu.Unlock()
	if logFile != nil {
		_ = logFile.Close()
	}
	logFile = f
	return nil
}

// CloseLogger is called on shutdown of application
func CloseLogger() error {
	mu.Lock()
	defer mu.Unlock()
	if logFile == nil {
		return nil
	}
	err := logFile.Close()
	logFile = nil
	return err
}

func configureSubLogger(subLogger, levels string, output io.Writer) error {
	logPtr, found := subLoggers[subLogger]
	if !found {
		return fmt.Errorf("%w %v", errSubLoggerNotFound, subLogger)
	}
	logPtr.output = output
	logPtr.levels = splitLevel(levels)
	return nil
}

// SetupSubLoggers configure all sub loggers with provided configuration values
func SetupSubLoggers(s []SubLoggerConfig) error {
	mu.Lock()
	defer mu.Unlock()
	for x := range s {
		output, err := getWriters(&s[x])
		if err != nil {
			return err
		}
		err = configureSubLogger(strings.ToUpper(s[x].Name), s[x].Level, output)
		if err != nil {
			return err
		}
	}
	return nil
}

// SetupGlobalLogger setup the global loggers with the provided config values
func SetupGlobalLogger(c *Config) error {
	if c == nil {
		return errSubloggerConfigIsNil
	}
	mu.Lock()
	globalLogConfig = *c
	output, err := getWriters(&globalLogConfig.SubLoggerConfig)
	if err != nil {
		mu.Unlock()
		return err
	}
	levels := globalLogConfig.Level
	if globalLogConfig.Enabled != nil && !*globalLogConfig.Enabled {
		levels = ""
	}
	for x := range subLoggers {
		subLoggers[x].levels = splitLevel(levels)
		subLoggers[x].output = output
	}
	logger = newLogger(&globalLogConfig)
	mu.Unlock()
	return SetupSubLoggers(c.SubLoggers)
}

func splitLevel(level string) (l Levels) {
	enabledLevels := strings.Split(level, "|")
	for x := range enabledLevels {
		switch level := strings.ToUpper(strings.TrimSpace(enabledLevels[x])); level {
		case "DEBUG":
			l.Debug = true
		case "INFO":
			l.Info = true
		case "WARN":
			l.Warn = true
		case "ERROR":
			l.Error = true
		}
	}
	return
}

func registerNewSubLogger(subLogger string) *SubLogger {
	temp := &SubLogger{
		name:   strings.ToUpper(subLogger),
		output: os.Stdout,
		levels: splitLevel(defaultLevels),
	}
	mu.Lock()
	subLoggers[temp.name] = temp
	mu.Unlock()
	return temp
}

// register all loggers at package init()
func init() {
	logger = newLogger(&globalLogConfig)

	Global = registerNewSubLogger("LOG")
	BackTester = registerNewSubLogger("BACKTESTER")
	Data = registerNewSubLogger("DATA")
	Strategy = registerNewSubLogger("STRATEGY")
	Portfolio = registerNewSubLogger("PORTFOLIO")
	Exchange = registerNewSubLogger("EXCHANGE")
	Statistics = registerNewSubLogger("STATISTICS")
	ConfigMgr = registerNewSubLogger("CONFIG")
	Database = registerNewSubLogger("DATABASE")
}
