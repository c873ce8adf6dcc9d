package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRotatingWriter_RotatesPastMaxBytes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bourseiq.log")

	w := newRotatingWriter(path, 10, 2)
	_, err := w.Write([]byte("0123456789")) // exactly fills, no rotation yet
	require.NoError(t, err)

	_, err = w.Write([]byte("more")) // exceeds maxBytes, rotates first
	require.NoError(t, err)

	_, statErr := os.Stat(path + ".1")
	assert.NoError(t, statErr, "expected a .1 backup to exist after rotation")
}

func TestRotatingWriter_RespectsBackupCount(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bourseiq.log")

	w := newRotatingWriter(path, 4, 2)
	for i := 0; i < 10; i++ {
		_, err := w.Write([]byte("xxxxx"))
		require.NoError(t, err)
	}

	_, err3 := os.Stat(path + ".3")
	assert.Error(t, err3, "should not retain more than backupCount rotated files")
}
