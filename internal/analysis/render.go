package analysis

import (
	"bytes"
	"fmt"
	"io/fs"
	"sort"
	"strconv"
	"strings"
	"sync"
	"text/template"
)

const templateSuffix = ".tmpl"

// Renderer renders the prompt and report templates of one kind.
type Renderer struct {
	templates map[string]*template.Template
	mu        sync.RWMutex
}

// NewRenderer loads every *.tmpl file under dir in fsys. Template names are
// file paths relative to dir without the suffix.
func NewRenderer(fsys fs.FS, dir string) (*Renderer, error) {
	r := &Renderer{
		templates: make(map[string]*template.Template),
	}

	err := fs.WalkDir(fsys, dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, templateSuffix) {
			return nil
		}

		content, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}

		name := strings.TrimPrefix(path, dir+"/")
		name = strings.TrimSuffix(name, templateSuffix)

		tmpl, err := template.New(name).Funcs(TemplateFuncs()).Parse(string(content))
		if err != nil {
			return fmt.Errorf("parsing template %s: %w", name, err)
		}
		r.templates[name] = tmpl
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("loading templates: %w", err)
	}
	return r, nil
}

// MustRenderer is like NewRenderer but panics on error. Templates are
// embedded, so a failure is a programming error.
func MustRenderer(fsys fs.FS, dir string) *Renderer {
	r, err := NewRenderer(fsys, dir)
	if err != nil {
		panic(err)
	}
	return r
}

// Render executes the named template.
func (r *Renderer) Render(name string, data interface{}) (string, error) {
	r.mu.RLock()
	tmpl, ok := r.templates[name]
	r.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("template %q not found", name)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("executing template %s: %w", name, err)
	}
	return buf.String(), nil
}

// Has reports whether a template exists.
func (r *Renderer) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.templates[name]
	return ok
}

// List returns the loaded template names, sorted.
func (r *Renderer) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.templates))
	for name := range r.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// TemplateFuncs returns the functions available to every template.
func TemplateFuncs() template.FuncMap {
	return template.FuncMap{
		"join":      strings.Join,
		"indent":    indent,
		"trimSpace": strings.TrimSpace,
		"upper":     strings.ToUpper,
		"lower":     strings.ToLower,
		"quote":     strconv.Quote,
		"add":       func(a, b int) int { return a + b },
		"sub":       func(a, b int) int { return a - b },
		"heading":   Heading,
		"num":       func(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) },
		"pct":       func(v float64) string { return strconv.FormatFloat(v*100, 'f', 1, 64) + "%" },
		"lowerBand": func(limit int) int { return limit * 80 / 100 },
		"last":      func(i, n int) bool { return i == n-1 },
		"cell":      TableCell,
	}
}

// Heading returns the markdown heading marker for a level offset from base,
// capped at six.
func Heading(base, offset int) string {
	level := base + offset
	if level < 1 {
		level = 1
	}
	if level > 6 {
		level = 6
	}
	return strings.Repeat("#", level)
}

// TableCell makes s safe inside a markdown table cell: pipes are escaped
// and whitespace runs, line breaks included, collapse to single spaces.
func TableCell(s string) string {
	return strings.Join(strings.Fields(strings.ReplaceAll(s, "|", `\|`)), " ")
}

func indent(spaces int, s string) string {
	pad := strings.Repeat(" ", spaces)
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = pad + line
		}
	}
	return strings.Join(lines, "\n")
}
