package log

// Info takes a pointer subLogger struct and string sends to newLogEvent
func Info(sl *SubLogger, data string) {
	mu.RLock()
	defer mu.RUnlock()
	sl.getFields().stage(logger.InfoHeader, func() string { return data })
}

// Infoln takes a pointer subLogger struct and interface sends to newLogEvent
func Infoln(sl *SubLogger, v ...any) {
	mu.RLock()
	defer mu.RUnlock()
	sl.getFields().stageln(logger.InfoHeader, v...)
}

// Infof takes a pointer subLogger struct, string and interface formats sends to newLogEvent
func Infof(sl *SubLogger, data string, v ...any) {
	mu.RLock()
	defer mu.RUnlock()
	sl.getFields().stagef(logger.InfoHeader, data, v...)
}

// Debug takes a pointer subLogger struct and string sends to newLogEvent
func Debug(sl *SubLogger, data string) {
	mu.RLock()
	defer mu.RUnlock()
	sl.getFields().stage(logger.DebugHeader, func() string { return data })
}

// Debugln takes a pointer subLogger struct, string and interface sends to newLogEvent
func Debugln(sl *SubLogger, v ...any) {
	mu.RLock()
	defer mu.RUnlock()
	sl.getFields().stageln(logger.DebugHeader, v...)
}

// Debugf takes a pointer subLogger struct, string and interface formats sends to newLogEvent
func Debugf(sl *SubLogger, data string, v ...any) {
	mu.RLock()
	defer mu.RUnlock()
	sl.getFields().stagef(logger.DebugHeader, data, v...)
}

// Warn takes a pointer subLogger struct & string and sends to newLogEvent
func Warn(sl *SubLogger, data string) {
	mu.RLock()
	defer mu.RUnlock()
	sl.getFields().stage(logger.WarnHeader, func() string { return data })
}

// Warnln takes a pointer subLogger struct & interface formats and sends to newLogEvent
func Warnln(sl *SubLogger, v ...any) {
	mu.RLock()
	defer mu.RUnlock()
	sl.getFields().stageln(logger.WarnHeader, v...)
}

// Warnf takes a pointer subLogger struct, string and interface formats sends to newLogEvent
func Warnf(sl *SubLogger, data string, v ...any) {
	mu.RLock()
	defer mu.RUnlock()
	sl.getFields().stagef(logger.WarnHeader, data, v...)
}

// Error takes a pointer subLogger struct & interface formats and sends to newLogEvent
func Error(sl *SubLogger, data string) {
	mu.RLock()
	defer mu.RUnlock()
	sl.getFields().stage(logger.ErrorHeader, func() string { return data })
}

// Errorln takes a pointer subLogger struct, string & interface formats and sends to newLogEvent
func Errorln(sl *SubLogger, v ...any) {
	mu.RLock()
	defer mu.RUnlock()
	sl.getFields().stageln(logger.ErrorHeader, v...)
}

// Errorf takes a pointer subLogger struct, string and interface formats sends to newLogEvent
func Errorf(sl *SubLogger, data string, v ...any) {
	mu.RLock()
	defer mu.RUnlock()
	sl.getFields().stagef(logger.ErrorHeader, data, v...)
}
