package fsutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestReadFileScoped_ReadsFile(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "input.yaml")
	if err := os.WriteFile(p, []byte("factors: [MR1]"), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}

	b, err := ReadFileScoped(p, 0)
	if err != nil {
		t.Fatalf("ReadFileScoped error: %v", err)
	}
	if string(b) != "factors: [MR1]" {
		t.Fatalf("unexpected content: %q", string(b))
	}
}

func TestReadFileScoped_RejectsInvalidPath(t *testing.T) {
	for _, p := range []string{"", ".", string(filepath.Separator)} {
		if _, err := ReadFileScoped(p, 0); err == nil {
			t.Fatalf("expected error for %q", p)
		}
	}
}

func TestReadFileScoped_Missing(t *testing.T) {
	dir := t.TempDir()
	for _, p := range []string{
		filepath.Join(dir, "missing.yaml"),
		filepath.Join(dir, "nodir", "file.yaml"),
	} {
		if _, err := ReadFileScoped(p, 0); err == nil {
			t.Errorf("expected error for %q", p)
		}
	}
}

func TestReadFileScoped_Limit(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "big.json")
	if err := os.WriteFile(p, []byte(strings.Repeat("x", 100)), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := ReadFileScoped(p, 100); err != nil {
		t.Errorf("file at the limit should be accepted: %v", err)
	}
	_, err := ReadFileScoped(p, 99)
	if err == nil || !strings.Contains(err.Error(), "exceeds 99 bytes") {
		t.Errorf("err = %v, want size error", err)
	}
}

func TestReadFileScoped_EmptyFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "empty.yaml")
	if err := os.WriteFile(p, nil, 0o600); err != nil {
		t.Fatal(err)
	}

	data, err := ReadFileScoped(p, 0)
	if err != nil {
		t.Fatalf("ReadFileScoped: %v", err)
	}
	if len(data) != 0 {
		t.Errorf("expected empty content, got %d bytes", len(data))
	}
}
