package catalog

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// File is a discovered catalog file.
type File struct {
	Path    string
	RelPath string
	Size    int64
	Kind    Kind
	Format  Format
}

// Discover expands glob patterns relative to root into catalog files.
// Patterns may use ** and {a,b} alternation. Directories, unsupported
// extensions and duplicates are skipped; results are sorted by path.
func Discover(root string, patterns []string) ([]File, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("invalid root %q: %w", root, err)
	}

	seen := make(map[string]bool)
	var files []File
	for _, pattern := range patterns {
		pattern = filepath.ToSlash(pattern)
		base, rel := absRoot, pattern
		if filepath.IsAbs(pattern) {
			base, rel = doublestar.SplitPattern(pattern)
		}

		matches, err := doublestar.Glob(os.DirFS(base), rel)
		if err != nil {
			return nil, fmt.Errorf("error evaluating pattern %s: %w", pattern, err)
		}
		for _, match := range matches {
			f, ok := processMatch(base, match, absRoot)
			if !ok || seen[f.Path] {
				continue
			}
			seen[f.Path] = true
			files = append(files, f)
		}
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

// processMatch converts a glob match into a File, returning false if the
// match should be skipped.
func processMatch(base, match, root string) (File, bool) {
	fullPath := filepath.Join(base, filepath.FromSlash(match))
	info, err := os.Stat(fullPath)
	if err != nil || info.IsDir() {
		return File{}, false
	}
	format, err := DetectFormat(fullPath)
	if err != nil {
		return File{}, false
	}
	rel, err := filepath.Rel(root, fullPath)
	if err != nil || strings.HasPrefix(rel, "..") {
		rel = fullPath
	}
	return File{
		Path:    fullPath,
		RelPath: filepath.ToSlash(rel),
		Size:    info.Size(),
		Kind:    DetectKind(fullPath),
		Format:  format,
	}, true
}

// ValidateFilePath checks that path names a readable, non-empty text file
// and returns its absolute form.
func ValidateFilePath(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("invalid path %q: %w", path, err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("file not found: %s", absPath)
		}
		if os.IsPermission(err) {
			return "", fmt.Errorf("permission denied: %s", absPath)
		}
		return "", fmt.Errorf("cannot access file: %s: %w", absPath, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("path is a directory, not a file: %s", absPath)
	}
	if info.Size() == 0 {
		return "", fmt.Errorf("file is empty: %s", absPath)
	}

	f, err := os.Open(absPath)
	if err != nil {
		return "", fmt.Errorf("cannot read file: %s: %w", absPath, err)
	}
	defer f.Close()

	buf := make([]byte, 512)
	n, err := f.Read(buf)
	if err != nil {
		return "", fmt.Errorf("cannot read file: %s: %w", absPath, err)
	}
	if bytes.Contains(buf[:n], []byte{0}) {
		return "", fmt.Errorf("file appears to be binary, not text: %s", absPath)
	}
	return absPath, nil
}
