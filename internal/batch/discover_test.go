package batch

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSupportedExtension(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"movie.mp4", true},
		{"movie.avi", true},
		{"movie.mkv", true},
		{"movie.mov", true},
		{"movie.webm", true},
		{"movie.wmv", true},
		{"movie.MP4", false}, // case-sensitive
		{"movie.mpg", false},
		{"notes.txt", false},
		{"noextension", false},
		{"trailing.", false},
		{"archive.tar.mp4", true}, // only the final extension counts
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SupportedExtension(tt.name); got != tt.want {
				t.Errorf("SupportedExtension(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()

	for _, name := range []string{"1.mp4", "2.avi", "notes.txt", "3_temp.mp4", "4_AV1.mp4"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	// Subdirectories are not candidates and must not be descended into.
	if err := os.MkdirAll(filepath.Join(dir, "sub"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "sub", "5.mp4"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	files, err := Discover(dir)
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}

	want := []string{
		filepath.Join(dir, "1.mp4"),
		filepath.Join(dir, "2.avi"),
		filepath.Join(dir, "notes.txt"), // unsupported extensions are recorded later, not here
	}
	if len(files) != len(want) {
		t.Fatalf("Discover() = %v, want %v", files, want)
	}
	for i := range want {
		if files[i] != want[i] {
			t.Errorf("Discover()[%d] = %q, want %q", i, files[i], want[i])
		}
	}
}

func TestDiscoverRecursive(t *testing.T) {
	dir := t.TempDir()

	if err := os.MkdirAll(filepath.Join(dir, "nested"), 0o755); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"a.mp4", "b.txt", "c_temp.mkv", "d_AV1.mp4", "nested/e.webm"} {
		if err := os.WriteFile(filepath.Join(dir, filepath.FromSlash(name)), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	files, err := DiscoverRecursive(dir)
	if err != nil {
		t.Fatalf("DiscoverRecursive() error = %v", err)
	}

	want := []string{
		filepath.Join(dir, "a.mp4"),
		filepath.Join(dir, "nested", "e.webm"),
	}
	if len(files) != len(want) {
		t.Fatalf("DiscoverRecursive() = %v, want %v", files, want)
	}
	for i := range want {
		if files[i] != want[i] {
			t.Errorf("DiscoverRecursive()[%d] = %q, want %q", i, files[i], want[i])
		}
	}
}
