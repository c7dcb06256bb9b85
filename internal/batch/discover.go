package batch

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Accepted extensions, matched exactly (case-sensitive) against the
// substring after the final dot.
var supportedExtensions = map[string]bool{
	"mp4":  true,
	"avi":  true,
	"mkv":  true,
	"mov":  true,
	"webm": true,
	"wmv":  true,
}

// Artifact name markers. Files carrying either marker are leftovers of a
// previous run and are excluded from discovery so a crashed run's temp
// files are never reprocessed.
const (
	TempMarker   = "_temp"
	OutputMarker = "_AV1"
)

// SupportedExtension reports whether name ends in one of the accepted
// video extensions.
func SupportedExtension(name string) bool {
	idx := strings.LastIndexByte(name, '.')
	if idx < 0 {
		return false
	}
	return supportedExtensions[name[idx+1:]]
}

// isArtifact reports whether name carries a temp or output marker.
func isArtifact(name string) bool {
	return strings.Contains(name, TempMarker) || strings.Contains(name, OutputMarker)
}

// Discover lists the regular files directly inside dir, excluding
// directories, non-regular files and conversion artifacts. Results are
// sorted for deterministic processing order. Extension filtering is left
// to the runner so unsupported files can be recorded as skips.
func Discover(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		if isArtifact(e.Name()) {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}

// DiscoverRecursive walks dir and collects files with supported extensions,
// excluding conversion artifacts. Used by the output-directory variant.
func DiscoverRecursive(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		name := d.Name()
		if isArtifact(name) || !SupportedExtension(name) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}
