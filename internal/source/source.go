// Package source loads raw study material from text, files, web pages and
// git repositories.
package source

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// MaxFileSize is the largest file FromFile accepts.
const MaxFileSize = 10 << 20

var (
	// ErrEmptyContent is returned when a source yields no text.
	ErrEmptyContent = errors.New("source has no content")

	// ErrUnsupportedFile is returned for file types that cannot be read as text.
	ErrUnsupportedFile = errors.New("unsupported file type")

	// ErrFileTooLarge is returned for files above MaxFileSize.
	ErrFileTooLarge = errors.New("file too large")
)

var textExtensions = map[string]bool{
	".txt":      true,
	".md":       true,
	".markdown": true,
}

// IsSheet reports whether path names a spreadsheet that should be imported
// as cards rather than read as text.
func IsSheet(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".csv":
		return true
	}
	return false
}

// FromText trims s and rejects empty input.
func FromText(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ErrEmptyContent
	}
	return s, nil
}

// FromFile reads a plain text or markdown file.
func FromFile(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if !textExtensions[ext] {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFile, ext)
	}

	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if info.Size() > MaxFileSize {
		return "", fmt.Errorf("%w: %s is %d bytes", ErrFileTooLarge, path, info.Size())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return FromText(string(data))
}
