package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// rotatingFile is an io.Writer over a log file that rotates by size and age
type rotatingFile struct {
	config Config
	mu     sync.Mutex
	file   *os.File
}

func openRotating(config Config) (*rotatingFile, error) {
	logDir := filepath.Dir(config.FilePath)
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	file, err := os.OpenFile(config.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	r := &rotatingFile{config: config, file: file}
	if err := r.rotateIfNeeded(); err != nil {
		file.Close()
		return nil, err
	}
	return r, nil
}

// Write appends p, rotating first when the file is too big or too old
func (r *rotatingFile) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.file == nil {
		return 0, os.ErrClosed
	}
	_ = r.rotateIfNeeded()
	return r.file.Write(p)
}

// Close closes the current file
func (r *rotatingFile) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	return err
}

// rotateIfNeeded must be called with mu held (or before the file is shared)
func (r *rotatingFile) rotateIfNeeded() error {
	info, err := r.file.Stat()
	if err != nil {
		return err
	}

	if r.config.MaxSize > 0 && info.Size() >= r.config.MaxSize {
		return r.rotate()
	}

	if r.config.MaxAge > 0 && info.Size() > 0 &&
		time.Since(info.ModTime()) > time.Duration(r.config.MaxAge)*24*time.Hour {
		return r.rotate()
	}

	return nil
}

func (r *rotatingFile) rotate() error {
	r.file.Close()

	// Shift existing backups: .1 -> .2 ...
	for i := r.config.MaxBackups - 1; i >= 1; i-- {
		oldPath := fmt.Sprintf("%s.%d", r.config.FilePath, i)
		newPath := fmt.Sprintf("%s.%d", r.config.FilePath, i+1)
		_ = os.Rename(oldPath, newPath)
	}

	if r.config.MaxBackups > 0 {
		if _, err := os.Stat(r.config.FilePath); err == nil {
			if err := os.Rename(r.config.FilePath, r.config.FilePath+".1"); err != nil {
				return err
			}
		}
	} else {
		_ = os.Remove(r.config.FilePath)
	}

	file, err := os.OpenFile(r.config.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return err
	}
	r.file = file
	return nil
}
