package utils

import (
	"os"
	"path/filepath"
	"strings"
	"unicode"
)

// illegalNameChars are rejected by at least one of the filesystems the game runs on
const illegalNameChars = `<>:"/\|?*`

// FileOperations provides file system utilities
type FileOperations struct{}

// NewFileOperations creates a new FileOperations instance
func NewFileOperations() *FileOperations {
	return &FileOperations{}
}

// EnsureDir creates the directory dir and its parents if needed
func (f *FileOperations) EnsureDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}

// FileExists checks if a file exists
func (f *FileOperations) FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// SanitizeName drops characters that are illegal in file names and trims
// trailing dots and spaces. It never returns an empty name.
func (f *FileOperations) SanitizeName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if unicode.IsControl(r) || strings.ContainsRune(illegalNameChars, r) {
			continue
		}
		b.WriteRune(r)
	}

	cleaned := strings.TrimRight(strings.TrimSpace(b.String()), ". ")
	if cleaned == "" || cleaned == "." || cleaned == ".." {
		return "_"
	}
	return cleaned
}

// IsWithin reports whether target lies inside dir after cleaning both paths
func (f *FileOperations) IsWithin(dir, target string) bool {
	rel, err := filepath.Rel(filepath.Clean(dir), filepath.Clean(target))
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// LevelsDirectory is a fixed custom levels directory
type LevelsDirectory string

// CustomLevelsPath returns the directory as configured
func (d LevelsDirectory) CustomLevelsPath() string {
	return string(d)
}
