package clip

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"
)

func failingNative(string) error { return errors.New("no clipboard") }

func TestCopy_Native(t *testing.T) {
	var got string
	c := &Copier{native: func(s string) error { got = s; return nil }}

	res, err := c.Copy("# Report")
	if err != nil {
		t.Fatalf("Copy() error = %v", err)
	}
	if res.Method != MethodNative || got != "# Report" {
		t.Fatalf("res = %+v, got = %q", res, got)
	}
	if res.Describe() != "report copied to the clipboard" {
		t.Errorf("Describe() = %q", res.Describe())
	}
}

func TestCopy_OSC52(t *testing.T) {
	t.Setenv("TMUX", "")
	t.Setenv("STY", "")
	var buf bytes.Buffer
	c := &Copier{native: failingNative, terminal: &buf, isTTY: func() bool { return true }}

	res, err := c.Copy("hello")
	if err != nil {
		t.Fatalf("Copy() error = %v", err)
	}
	if res.Method != MethodOSC52 {
		t.Fatalf("Method = %s, want osc52", res.Method)
	}
	// "hello" base64-encoded.
	if !strings.Contains(buf.String(), "aGVsbG8=") {
		t.Errorf("escape sequence = %q", buf.String())
	}
}

func TestCopy_FileFallback(t *testing.T) {
	dir := t.TempDir()
	c := &Copier{native: failingNative, isTTY: func() bool { return false }, tempDir: dir}

	res, err := c.Copy("report body")
	if err != nil {
		t.Fatalf("Copy() error = %v", err)
	}
	if res.Method != MethodFile {
		t.Fatalf("Method = %s, want file", res.Method)
	}
	data, err := os.ReadFile(res.FilePath)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "report body" {
		t.Errorf("file content = %q", data)
	}
	if !strings.Contains(res.Describe(), res.FilePath) {
		t.Errorf("Describe() should name the file: %q", res.Describe())
	}
}

func TestCopy_OversizedSkipsOSC52(t *testing.T) {
	var buf bytes.Buffer
	c := &Copier{native: failingNative, terminal: &buf, isTTY: func() bool { return true }, tempDir: t.TempDir()}

	res, err := c.Copy(strings.Repeat("x", OSC52Limit+1))
	if err != nil {
		t.Fatalf("Copy() error = %v", err)
	}
	if res.Method != MethodFile {
		t.Errorf("Method = %s, want file", res.Method)
	}
	if buf.Len() != 0 {
		t.Error("nothing should be written to the terminal")
	}
}

func TestCopy_Empty(t *testing.T) {
	if _, err := NewCopier().Copy(""); err == nil {
		t.Fatal("Copy(\"\") error = nil")
	}
}
