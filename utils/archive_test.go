package utils

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zip"
)

func buildZip(t *testing.T, files map[string]string) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, content := range files {
		f, err := w.Create(name)
		if err != nil {
			t.Fatalf("Failed to create zip entry %s: %v", name, err)
		}
		if _, err := f.Write([]byte(content)); err != nil {
			t.Fatalf("Failed to write zip entry %s: %v", name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Failed to close zip writer: %v", err)
	}
	return buf.Bytes()
}

func TestZipExtractor_Extract(t *testing.T) {
	extractor := NewZipExtractor()
	dest := filepath.Join(t.TempDir(), "abc123 (Song - Author)")

	data := buildZip(t, map[string]string{
		"info.dat":       `{"_songName":"Song"}`,
		"Expert.dat":     `{"_notes":[]}`,
		"covers/art.jpg": "jpeg",
	})

	var entries []string
	code, err := extractor.Extract(data, dest, func(name string) error {
		entries = append(entries, name)
		return nil
	})
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if code != ExtractOK {
		t.Errorf("Expected code %d, got %d", ExtractOK, code)
	}
	if len(entries) != 3 {
		t.Errorf("Expected 3 entries, got %d", len(entries))
	}

	content, err := os.ReadFile(filepath.Join(dest, "info.dat"))
	if err != nil {
		t.Fatalf("info.dat was not extracted: %v", err)
	}
	if string(content) != `{"_songName":"Song"}` {
		t.Errorf("Unexpected info.dat content: %s", content)
	}

	if _, err := os.Stat(filepath.Join(dest, "covers", "art.jpg")); err != nil {
		t.Errorf("Nested entry was not extracted: %v", err)
	}
}

func TestZipExtractor_InvalidArchive(t *testing.T) {
	extractor := NewZipExtractor()
	dest := filepath.Join(t.TempDir(), "out")

	code, err := extractor.Extract([]byte("not a zip"), dest, nil)
	if err == nil {
		t.Fatal("Expected error for invalid archive")
	}
	if code != ExtractErrOpen {
		t.Errorf("Expected code %d, got %d", ExtractErrOpen, code)
	}
	if _, statErr := os.Stat(dest); !os.IsNotExist(statErr) {
		t.Error("Destination should not be created for an unreadable archive")
	}
}

func TestZipExtractor_RejectsEscapingEntries(t *testing.T) {
	extractor := NewZipExtractor()
	root := t.TempDir()
	dest := filepath.Join(root, "map")

	data := buildZip(t, map[string]string{
		"../evil.txt": "owned",
	})

	code, err := extractor.Extract(data, dest, nil)
	if err == nil {
		t.Fatal("Expected error for escaping entry")
	}
	if code >= 0 {
		t.Errorf("Expected a negative failure code, got %d", code)
	}
	if _, statErr := os.Stat(filepath.Join(root, "evil.txt")); !os.IsNotExist(statErr) {
		t.Error("Escaping entry was written outside the destination")
	}
}

func TestZipExtractor_EscapingEntryLeavesNoPartialFolder(t *testing.T) {
	extractor := NewZipExtractor()
	root := t.TempDir()
	dest := filepath.Join(root, "abc123 (Song - Author)")

	// Ordered so the safe entry comes first
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, name := range []string{"info.dat", "../escape.dat"} {
		f, err := w.Create(name)
		if err != nil {
			t.Fatalf("Failed to create zip entry %s: %v", name, err)
		}
		f.Write([]byte("data"))
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Failed to close zip writer: %v", err)
	}

	var entries []string
	code, err := extractor.Extract(buf.Bytes(), dest, func(name string) error {
		entries = append(entries, name)
		return nil
	})
	if err == nil {
		t.Fatal("Expected error for escaping entry")
	}
	if code >= 0 {
		t.Errorf("Expected a negative failure code, got %d", code)
	}
	if len(entries) != 0 {
		t.Errorf("Expected no entries to be processed, got %v", entries)
	}
	if _, statErr := os.Stat(dest); !os.IsNotExist(statErr) {
		t.Error("Destination folder was created for a rejected archive")
	}
	if _, statErr := os.Stat(filepath.Join(root, "escape.dat")); !os.IsNotExist(statErr) {
		t.Error("Escaping entry was written outside the destination")
	}
}

func TestZipExtractor_AbortFromCallback(t *testing.T) {
	extractor := NewZipExtractor()
	dest := filepath.Join(t.TempDir(), "map")

	data := buildZip(t, map[string]string{"info.dat": "{}"})
	stop := errors.New("stop")

	code, err := extractor.Extract(data, dest, func(name string) error {
		return stop
	})
	if !errors.Is(err, stop) {
		t.Fatalf("Expected wrapped callback error, got %v", err)
	}
	if code != ExtractErrAborted {
		t.Errorf("Expected code %d, got %d", ExtractErrAborted, code)
	}
	if _, statErr := os.Stat(filepath.Join(dest, "info.dat")); !os.IsNotExist(statErr) {
		t.Error("Entry should not be written after abort")
	}
}
