package logger

import (
	"fmt"
	"os"
	"sync"
)

// rotatingWriter is a minimal size-based log rotator: when the current file
// would exceed maxBytes it is renamed to a numbered backup (path.1, path.2,
// ...) up to backupCount, and a fresh file is opened in its place.
//
// No third-party rotation library appears anywhere in the retrieval pack
// (only unrelated manifest go.mod listings reference one), so this is kept
// to the standard library rather than inventing a dependency.
type rotatingWriter struct {
	mu          sync.Mutex
	path        string
	maxBytes    int64
	backupCount int
	file        *os.File
	size        int64
}

func newRotatingWriter(path string, maxBytes int64, backupCount int) *rotatingWriter {
	if maxBytes <= 0 {
		maxBytes = 30 * 1024 * 1024
	}
	if backupCount <= 0 {
		backupCount = 5
	}
	w := &rotatingWriter{path: path, maxBytes: maxBytes, backupCount: backupCount}
	_ = w.open()
	return w
}

func (w *rotatingWriter) open() error {
	f, err := os.OpenFile(w.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return err
	}
	w.file = f
	w.size = info.Size()
	return nil
}

func (w *rotatingWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file == nil {
		if err := w.open(); err != nil {
			return 0, err
		}
	}

	if w.size+int64(len(p)) > w.maxBytes {
		if err := w.rotate(); err != nil {
			return 0, err
		}
	}

	n, err := w.file.Write(p)
	w.size += int64(n)
	return n, err
}

func (w *rotatingWriter) rotate() error {
	if w.file != nil {
		_ = w.file.Close()
		w.file = nil
	}

	for i := w.backupCount - 1; i >= 1; i-- {
		src := fmt.Sprintf("%s.%d", w.path, i)
		dst := fmt.Sprintf("%s.%d", w.path, i+1)
		if _, err := os.Stat(src); err == nil {
			_ = os.Rename(src, dst)
		}
	}
	if _, err := os.Stat(w.path); err == nil {
		_ = os.Rename(w.path, w.path+".1")
	}

	return w.open()
}
