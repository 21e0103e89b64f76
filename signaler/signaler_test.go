package signaler

import (
	"os"
	"runtime"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWaitForInterrupt(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("signalling the current process is not supported on windows")
	}
	sigC := WaitForInterrupt()
	proc, err := os.FindProcess(os.Getpid())
	require.NoError(t, err, "FindProcess must not error")
	require.NoError(t, proc.Signal(syscall.SIGTERM), "Signal must not error")

	select {
	case got := <-sigC:
		require.Equal(t, syscall.SIGTERM, got)
	case <-time.After(2 * time.Second):
		t.Fatal("interrupt not received")
	}
}
