package logsource

import (
	"os"
	"path/filepath"
	"testing"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("x\n"), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestDiscoverRotated(t *testing.T) {
	dir := t.TempDir()
	primary := filepath.Join(dir, "server.log")
	touch(t, primary)
	touch(t, filepath.Join(dir, "server.log.1"))
	touch(t, filepath.Join(dir, "server.log.3"))
	// A different stem must not be picked up.
	touch(t, filepath.Join(dir, "worker.log.1"))

	rotated := DiscoverRotated(primary)
	want := []string{
		filepath.Join(dir, "server.log.1"),
		filepath.Join(dir, "server.log.3"),
	}
	if len(rotated) != len(want) {
		t.Fatalf("rotated = %v, want %v", rotated, want)
	}
	for i := range want {
		if rotated[i] != want[i] {
			t.Errorf("rotated[%d] = %q, want %q", i, rotated[i], want[i])
		}
	}
}

func TestDiscoverRotated_None(t *testing.T) {
	dir := t.TempDir()
	primary := filepath.Join(dir, "server.log")
	touch(t, primary)

	if rotated := DiscoverRotated(primary); len(rotated) != 0 {
		t.Errorf("rotated = %v, want none", rotated)
	}
}

func TestFiles(t *testing.T) {
	dir := t.TempDir()
	primary := filepath.Join(dir, "server.log")
	touch(t, primary)
	touch(t, filepath.Join(dir, "server.log.2"))

	files, err := Files(primary, true)
	if err != nil {
		t.Fatalf("Files: %v", err)
	}
	if len(files) != 2 || files[0] != primary {
		t.Errorf("files = %v, want primary first then rotation", files)
	}

	files, err = Files(primary, false)
	if err != nil {
		t.Fatalf("Files: %v", err)
	}
	if len(files) != 1 {
		t.Errorf("files = %v, want primary only", files)
	}
}

func TestFiles_MissingPrimary(t *testing.T) {
	if _, err := Files(filepath.Join(t.TempDir(), "absent.log"), true); err == nil {
		t.Error("expected error for missing primary log")
	}
}
