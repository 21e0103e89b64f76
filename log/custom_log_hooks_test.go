package log

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetCustomLogHook(t *testing.T) {
	sl, err := NewSubLogger("testSetCustomLogHook")
	require.NoError(t, err, "NewSubLogger must not error")
	var buf bytes.Buffer
	sl.SetOutput(&buf)

	var captured []any
	SetCustomLogHook(func(header, subLoggerName string, a ...any) bool {
		if subLoggerName != sl.Name() {
			return false
		}
		captured = append(captured, a...)
		return true
	})
	defer SetCustomLogHook(nil)

	Warnf(sl, "captured %v", "line")
	require.Len(t, captured, 1)
	assert.Equal(t, "captured line", captured[0])
	assert.Empty(t, buf.String(), "hook bypass must not write to output")
}
