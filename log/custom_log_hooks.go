package log

// CustomLogHook is a function type for external log handling. It should return
// true if the internal logging system should be bypassed, or false if the
// line should also be written to the configured outputs.
type CustomLogHook func(header, subLoggerName string, a ...any) (bypassLibraryLogSystem bool)

var customLogHook CustomLogHook

// SetCustomLogHook sets a custom log hook function that allows the complete
// bypass of the internal logging system.
func SetCustomLogHook(h CustomLogHook) {
	mu.Lock()
	customLogHook = h
	mu.Unlock()
}
