package log

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSubLogger(t *testing.T) {
	t.Parallel()
	_, err := NewSubLogger("")
	assert.ErrorIs(t, err, errEmptyLoggerName)

	sl, err := NewSubLogger("testNewSubLogger")
	require.NoError(t, err, "NewSubLogger must not error")
	assert.Equal(t, "TESTNEWSUBLOGGER", sl.Name())

	_, err = NewSubLogger("TESTNEWSUBLOGGER")
	assert.ErrorIs(t, err, errSubLoggerAlreadyRegistered)
}

func TestSubLoggerOutput(t *testing.T) {
	t.Parallel()
	sl, err := NewSubLogger("testSubLoggerOutput")
	require.NoError(t, err, "NewSubLogger must not error")
	var buf bytes.Buffer
	sl.SetOutput(&buf)

	Infof(sl, "hello %s", "world")
	assert.Contains(t, buf.String(), "hello world")
	assert.Contains(t, buf.String(), "TESTSUBLOGGEROUTPUT")

	buf.Reset()
	sl.SetLevels(Levels{Error: true})
	Info(sl, "should not appear")
	Warnln(sl, "nor", "this")
	Debugf(sl, "or %v", "this")
	assert.Empty(t, buf.String())

	Errorf(sl, "broken %d", 1337)
	assert.True(t, strings.HasSuffix(buf.String(), "broken 1337\n"))
}

func TestNilSubLogger(t *testing.T) {
	t.Parallel()
	assert.NotPanics(t, func() { Info(nil, "nothing") })
	assert.NotPanics(t, func() { Errorf(nil, "nothing %v", 1) })
}

func TestSplitLevel(t *testing.T) {
	t.Parallel()
	l := splitLevel("INFO|warn| ERROR")
	assert.True(t, l.Info)
	assert.True(t, l.Warn)
	assert.True(t, l.Error)
	assert.False(t, l.Debug)
	assert.Equal(t, Levels{}, splitLevel(""))
}

func TestGetWriters(t *testing.T) {
	t.Parallel()
	_, err := getWriters(nil)
	assert.ErrorIs(t, err, errSubloggerConfigIsNil)

	_, err = getWriters(&SubLoggerConfig{Output: "pigeon"})
	assert.ErrorIs(t, err, errUnhandledOutputWriter)

	w, err := getWriters(&SubLoggerConfig{Output: "stdout|stderr"})
	require.NoError(t, err, "getWriters must not error")
	mw, ok := w.(*multiWriter)
	require.True(t, ok, "writer must be a multiWriter")
	assert.Len(t, mw.writers, 2)
}

func TestMultiWriter(t *testing.T) {
	t.Parallel()
	var a, b bytes.Buffer
	mw, err := MultiWriter(&a, &b)
	require.NoError(t, err, "MultiWriter must not error")

	assert.ErrorIs(t, mw.Add(&a), errWriterAlreadyLoaded)
	assert.ErrorIs(t, mw.Add(nil), errWriterIsNil)

	n, err := mw.Write([]byte("data"))
	require.NoError(t, err, "Write must not error")
	assert.Equal(t, 4, n)
	assert.Equal(t, "data", a.String())
	assert.Equal(t, "data", b.String())

	require.NoError(t, mw.Remove(&b), "Remove must not error")
	assert.ErrorIs(t, mw.Remove(&b), errWriterNotFound)

	_, err = mw.Write([]byte("more"))
	require.NoError(t, err, "Write must not error")
	assert.Equal(t, "data", b.String())
	assert.Equal(t, "datamore", a.String())

	_, err = MultiWriter(io.Discard, io.Discard)
	assert.ErrorIs(t, err, errWriterAlreadyLoaded)
}

func TestSetFileOutput(t *testing.T) {
	assert.ErrorIs(t, SetFileOutput(""), errLogFileNotSet)
	fileName := filepath.Join(t.TempDir(), "backtester.log")
	require.NoError(t, SetFileOutput(fileName), "SetFileOutput must not error")
	w, err := getWriters(&SubLoggerConfig{Output: "file"})
	require.NoError(t, err, "getWriters must not error")
	_, err = w.Write([]byte("to file\n"))
	require.NoError(t, err, "Write must not error")
	require.NoError(t, CloseLogger(), "CloseLogger must not error")

	contents, err := os.ReadFile(fileName)
	require.NoError(t, err, "ReadFile must not error")
	assert.Equal(t, "to file\n", string(contents))
}
