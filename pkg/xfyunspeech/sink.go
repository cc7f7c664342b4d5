package xfyunspeech

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// FileSink assembles the output artifact at Path.
//
// No file handle is held between calls: every Append opens, writes and
// closes, so an interrupted session leaves no descriptor behind.
type FileSink struct {
	Path string
}

// Prepare deletes any file at Path. A missing file is not an error.
func (s FileSink) Prepare() error {
	if err := os.Remove(s.Path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove stale output: %w", err)
	}
	return nil
}

// Append appends b to the file, creating it if needed.
func (s FileSink) Append(b []byte) error {
	f, err := os.OpenFile(s.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open output: %w", err)
	}
	if _, err := f.Write(b); err != nil {
		f.Close()
		return fmt.Errorf("write output: %w", err)
	}
	return f.Close()
}

// Stat reports whether the file exists and its size.
func (s FileSink) Stat() (exists bool, size int64, err error) {
	info, err := os.Stat(s.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, 0, nil
		}
		return false, 0, err
	}
	return true, info.Size(), nil
}
