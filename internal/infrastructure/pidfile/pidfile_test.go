package pidfile

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquireAndRelease(t *testing.T) {
	// Arrange
	path := filepath.Join(t.TempDir(), "sim.pid")
	pf := New(path)

	// Act
	require.NoError(t, pf.Acquire())
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, pf.Release())

	// Assert
	assert.Equal(t, strconv.Itoa(os.Getpid())+"\n", string(data))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestAcquire_ReplacesGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sim.pid")
	require.NoError(t, os.WriteFile(path, []byte("not a pid"), 0o644))

	err := New(path).Acquire()

	assert.NoError(t, err)
}

func TestAcquire_HeldByLiveProcess(t *testing.T) {
	// Arrange: PID 1 always exists
	path := filepath.Join(t.TempDir(), "sim.pid")
	require.NoError(t, os.WriteFile(path, []byte("1\n"), 0o644))

	// Act
	err := New(path).Acquire()

	// Assert
	assert.True(t, errors.Is(err, ErrLocked))
}

func TestRelease_LeavesForeignFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sim.pid")
	require.NoError(t, os.WriteFile(path, []byte("1\n"), 0o644))

	require.NoError(t, New(path).Release())

	_, err := os.Stat(path)
	assert.NoError(t, err)
}
