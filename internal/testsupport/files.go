package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// StubBinary writes an executable script with the given name into a temp
// directory and prepends that directory to PATH for the test's duration.
func StubBinary(t testing.TB, name, script string) {
	t.Helper()

	binDir := t.TempDir()
	target := filepath.Join(binDir, name)
	if err := os.WriteFile(target, []byte(script), 0o755); err != nil {
		t.Fatalf("write stub %s: %v", name, err)
	}

	oldPath := os.Getenv("PATH")
	if err := os.Setenv("PATH", binDir+string(os.PathListSeparator)+oldPath); err != nil {
		t.Fatalf("set PATH: %v", err)
	}
	t.Cleanup(func() {
		_ = os.Setenv("PATH", oldPath)
	})
}

// WriteFile creates a file with content under dir, creating parents.
func WriteFile(t testing.TB, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", name, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}
