// Package clip copies rendered reports to the clipboard.
package clip

import (
	"errors"
	"fmt"
	"io"
	"os"

	atotto "github.com/atotto/clipboard"
	osc52 "github.com/aymanbagabas/go-osc52/v2"
	"golang.org/x/term"
)

// Method is the mechanism that made a report copyable.
type Method string

const (
	MethodNative Method = "native" // OS clipboard
	MethodOSC52  Method = "osc52"  // terminal clipboard escape sequence
	MethodFile   Method = "file"   // temp file fallback
)

// OSC52Limit caps escape-sequence payloads; terminals drop larger ones.
const OSC52Limit = 100_000

// Result describes a completed copy.
type Result struct {
	Method   Method
	FilePath string // only set when Method == MethodFile
}

// Describe returns a one-line message for the user.
func (r Result) Describe() string {
	switch r.Method {
	case MethodNative:
		return "report copied to the clipboard"
	case MethodOSC52:
		return "report sent to the terminal clipboard"
	default:
		return "clipboard unavailable; report saved to " + r.FilePath
	}
}

// Copier tries each copy method in turn.
type Copier struct {
	native   func(string) error
	terminal io.Writer
	isTTY    func() bool
	tempDir  string
}

// NewCopier creates a copier using the OS clipboard, then OSC52 on
// stderr, then a temp file.
func NewCopier() *Copier {
	return &Copier{
		native:   atotto.WriteAll,
		terminal: os.Stderr,
		isTTY:    func() bool { return term.IsTerminal(int(os.Stderr.Fd())) },
	}
}

// Copy makes text available to the user.
func (c *Copier) Copy(text string) (Result, error) {
	if text == "" {
		return Result{}, errors.New("nothing to copy")
	}
	if c.native != nil {
		if err := c.native(text); err == nil {
			return Result{Method: MethodNative}, nil
		}
	}
	if err := c.writeOSC52(text); err == nil {
		return Result{Method: MethodOSC52}, nil
	}

	path, err := c.writeTempFile(text)
	if err != nil {
		return Result{}, fmt.Errorf("saving report copy: %w", err)
	}
	return Result{Method: MethodFile, FilePath: path}, nil
}

func (c *Copier) writeOSC52(text string) error {
	if c.terminal == nil || c.isTTY == nil || !c.isTTY() {
		return errors.New("no terminal for OSC52")
	}
	if len(text) > OSC52Limit {
		return fmt.Errorf("text too large for OSC52 (%d bytes > %d)", len(text), OSC52Limit)
	}

	seq := osc52.New(text).Limit(OSC52Limit)
	if os.Getenv("TMUX") != "" {
		seq = seq.Tmux()
	} else if os.Getenv("STY") != "" {
		seq = seq.Screen()
	}
	_, err := seq.WriteTo(c.terminal)
	return err
}

func (c *Copier) writeTempFile(text string) (string, error) {
	f, err := os.CreateTemp(c.tempDir, "interpret-report-*.md")
	if err != nil {
		return "", err
	}
	path := f.Name()
	if _, err := f.WriteString(text); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", err
	}
	return path, nil
}
