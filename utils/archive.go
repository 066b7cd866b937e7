package utils

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zip"
)

// Extraction status codes. 0 is success, everything else is a failure.
const (
	ExtractOK          = 0
	ExtractErrOpen     = -1
	ExtractErrEntry    = -2
	ExtractErrWrite    = -3
	ExtractErrUnsafe   = -4
	ExtractErrAborted  = -5
	ExtractErrDestPath = -6
)

// ZipExtractor unpacks in-memory zip archives onto disk
type ZipExtractor struct {
	fs *FileOperations
}

// NewZipExtractor creates a new ZipExtractor
func NewZipExtractor() *ZipExtractor {
	return &ZipExtractor{fs: NewFileOperations()}
}

// Extract writes every entry of the archive in data below dest. onEntry may be
// nil. Entries whose path would leave dest are rejected.
func (z *ZipExtractor) Extract(data []byte, dest string, onEntry func(name string) error) (int, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return ExtractErrOpen, fmt.Errorf("failed to open archive: %w", err)
	}

	// Nothing touches the disk unless every entry stays below dest
	for _, file := range reader.File {
		if !z.safeEntry(dest, file.Name) {
			return ExtractErrUnsafe, fmt.Errorf("archive entry %q escapes destination", file.Name)
		}
	}

	if err := z.fs.EnsureDir(dest); err != nil {
		return ExtractErrDestPath, fmt.Errorf("failed to create destination %s: %w", dest, err)
	}

	for _, file := range reader.File {
		target := filepath.Join(dest, filepath.FromSlash(file.Name))

		if onEntry != nil {
			if err := onEntry(file.Name); err != nil {
				return ExtractErrAborted, fmt.Errorf("extraction aborted at %q: %w", file.Name, err)
			}
		}

		if file.FileInfo().IsDir() {
			if err := z.fs.EnsureDir(target); err != nil {
				return ExtractErrWrite, fmt.Errorf("failed to create directory %s: %w", target, err)
			}
			continue
		}

		if code, err := z.writeEntry(file, target); err != nil {
			return code, err
		}
	}

	return ExtractOK, nil
}

func (z *ZipExtractor) safeEntry(dest, name string) bool {
	if filepath.IsAbs(name) || strings.HasPrefix(name, "/") {
		return false
	}
	return z.fs.IsWithin(dest, filepath.Join(dest, filepath.FromSlash(name)))
}

func (z *ZipExtractor) writeEntry(file *zip.File, target string) (int, error) {
	if err := z.fs.EnsureDir(filepath.Dir(target)); err != nil {
		return ExtractErrWrite, fmt.Errorf("failed to create directory for %s: %w", target, err)
	}

	src, err := file.Open()
	if err != nil {
		return ExtractErrEntry, fmt.Errorf("failed to open archive entry %q: %w", file.Name, err)
	}
	defer src.Close()

	dst, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return ExtractErrWrite, fmt.Errorf("failed to create %s: %w", target, err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return ExtractErrEntry, fmt.Errorf("failed to extract %q: %w", file.Name, err)
	}
	if err := dst.Close(); err != nil {
		return ExtractErrWrite, fmt.Errorf("failed to close %s: %w", target, err)
	}

	return ExtractOK, nil
}
