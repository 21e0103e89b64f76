package log

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"
	"time"
)

var (
	errWriterIsNil = errors.New("io.Writer not set")

	bufferPool = &sync.Pool{New: func() any { return new(bytes.Buffer) }}
)

func newLogger(c *Config) Logger {
	showName := true
	if c.AdvancedSettings.ShowLogSystemName != nil {
		showName = *c.AdvancedSettings.ShowLogSystemName
	}
	return Logger{
		ShowLogSystemName: showName,
		TimestampFormat:   c.AdvancedSettings.TimeStampFormat,
		Spacer:            c.AdvancedSettings.Spacer,
		ErrorHeader:       c.AdvancedSettings.Headers.Error,
		InfoHeader:        c.AdvancedSettings.Headers.Info,
		WarnHeader:        c.AdvancedSettings.Headers.Warn,
		DebugHeader:       c.AdvancedSettings.Headers.Debug,
	}
}

// newLogEvent formats a single line and writes it to w
func (l *Logger) newLogEvent(data, header, slName string, w io.Writer) error {
	if w == nil {
		return errWriterIsNil
	}
	buf := bufferPool.Get().(*bytes.Buffer)
	defer bufferPool.Put(buf)
	buf.Reset()
	buf.WriteString(header)
	if l.ShowLogSystemName {
		buf.WriteString(l.Spacer)
		buf.WriteString(slName)
	}
	buf.WriteString(l.Spacer)
	if l.TimestampFormat != "" {
		buf.WriteString(time.Now().Format(l.TimestampFormat))
	}
	buf.WriteString(l.Spacer)
	buf.WriteString(data)
	if data == "" || data[len(data)-1] != '\n' {
		buf.WriteByte('\n')
	}
	_, err := w.Write(buf.Bytes())
	return err
}

func displayError(err error) {
	if err != nil {
		log.Printf("Logger write error: %v\n", err)
	}
}

// enabled checks if the log level is enabled
func (l *logFields) enabled(header string) bool {
	switch header {
	case l.logger.InfoHeader:
		return l.info
	case l.logger.WarnHeader:
		return l.warn
	case l.logger.ErrorHeader:
		return l.error
	case l.logger.DebugHeader:
		return l.debug
	}
	return false
}

// stage formats and writes a log event
func (l *logFields) stage(header string, build func() string) {
	if l == nil || !l.enabled(header) {
		return
	}
	data := build()
	if customLogHook != nil && customLogHook(header, l.name, data) {
		return
	}
	displayError(l.logger.newLogEvent(data, header, l.name, l.output))
}

func (l *logFields) stagef(header, format string, v ...any) {
	l.stage(header, func() string { return fmt.Sprintf(format, v...) })
}

func (l *logFields) stageln(header string, v ...any) {
	l.stage(header, func() string { return fmt.Sprintln(v...) })
}
