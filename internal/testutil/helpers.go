package testutil

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/hugo-lorenzo-mato/interpret-ai/internal/core"
)

// ErrTest is a generic collaborator failure.
var ErrTest = errors.New("test error")

// WriteDocument encodes v as YAML into dir/name and returns the path.
// Input documents and model exports are both read as YAML.
func WriteDocument(t *testing.T, dir, name string, v interface{}) string {
	t.Helper()
	data, err := yaml.Marshal(v)
	if err != nil {
		t.Fatalf("encoding %s: %v", name, err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

// AssertDomainError fails unless err is a DomainError with the given
// category and code.
func AssertDomainError(t *testing.T, err error, category core.ErrorCategory, code string) {
	t.Helper()
	var de *core.DomainError
	if !errors.As(err, &de) {
		t.Fatalf("expected a domain error, got %v", err)
	}
	if de.Category != category || de.Code != code {
		t.Fatalf("got %s/%s (%v), want %s/%s", de.Category, de.Code, err, category, code)
	}
}

// AssertNoError fails if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails if err is nil.
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// AssertEqual fails if got != want.
func AssertEqual[T comparable](t *testing.T, got, want T) {
	t.Helper()
	if got != want {
		t.Fatalf("got %v, want %v", got, want)
	}
}

// AssertLen fails if len(s) != want.
func AssertLen[T any](t *testing.T, s []T, want int) {
	t.Helper()
	if len(s) != want {
		t.Fatalf("len() = %d, want %d", len(s), want)
	}
}

// AssertTrue fails if b is false.
func AssertTrue(t *testing.T, b bool, msg string) {
	t.Helper()
	if !b {
		t.Fatalf("expected true: %s", msg)
	}
}
