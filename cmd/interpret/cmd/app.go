package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/hugo-lorenzo-mato/interpret-ai/internal/adapters/modelfile"
	"github.com/hugo-lorenzo-mato/interpret-ai/internal/analysis"
	"github.com/hugo-lorenzo-mato/interpret-ai/internal/analysis/builtin"
	"github.com/hugo-lorenzo-mato/interpret-ai/internal/config"
	"github.com/hugo-lorenzo-mato/interpret-ai/internal/core"
	"github.com/hugo-lorenzo-mato/interpret-ai/internal/logging"
	"github.com/hugo-lorenzo-mato/interpret-ai/internal/report"
	"github.com/hugo-lorenzo-mato/interpret-ai/internal/service"
)

// app wires the interpreter stack for one command invocation.
type app struct {
	cfg         *config.Config
	opts        core.Options
	interpreter *service.Interpreter
	formatter   *report.Formatter
	logger      *logging.Logger
}

func newApp(cfg *config.Config, logger *logging.Logger, echo io.Writer) (*app, error) {
	opts, err := cfg.Interpret.ToOptions()
	if err != nil {
		return nil, err
	}
	sessions, err := newSessionFactory(cfg.LLM, echo, logger)
	if err != nil {
		return nil, err
	}

	registry := builtin.Default()
	return &app{
		cfg:  cfg,
		opts: opts,
		interpreter: service.NewInterpreter(service.InterpreterConfig{
			Registry:  registry,
			Sessions:  sessions,
			Extractor: modelfile.NewExtractor(),
			Logger:    logger,
		}),
		formatter: report.NewFormatter(registry),
		logger:    logger,
	}, nil
}

// request builds a request from an input document or a model export path.
func (a *app) request(inputPath, modelPath string) (service.Request, error) {
	req := service.Request{Kind: a.opts.Kind, Options: a.opts}
	switch {
	case inputPath != "" && modelPath != "":
		return req, fmt.Errorf("--input and --model-file are mutually exclusive")
	case inputPath != "":
		input, err := modelfile.ReadInput(inputPath)
		if err != nil {
			return req, err
		}
		req.Input = input
	case modelPath != "":
		req.Model = modelPath
	default:
		return req, fmt.Errorf("one of --input or --model-file is required")
	}
	return req, nil
}

// markdown renders res as markdown regardless of the configured format.
func (a *app) markdown(res *analysis.Interpretation) (string, error) {
	return a.formatter.Format(res, report.Options{
		Format:       core.FormatMarkdown,
		HeadingLevel: a.opts.HeadingLevel,
	})
}

// progress writes a status line unless output is silenced.
type progress struct {
	w       io.Writer
	enabled bool
	style   lipgloss.Style
}

func newProgress(w io.Writer, opts core.Options) *progress {
	p := &progress{
		w:       w,
		enabled: !quiet && opts.Verbosity <= core.VerbosityProgress,
		style:   lipgloss.NewStyle(),
	}
	if colorEnabled(w) {
		p.style = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	}
	return p
}

func (p *progress) Printf(format string, args ...interface{}) {
	if !p.enabled {
		return
	}
	line := strings.TrimRight(fmt.Sprintf(format, args...), "\n")
	fmt.Fprintln(p.w, p.style.Render("› "+line))
}

// summarize reports provenance and usage of a finished interpretation.
func (p *progress) summarize(res *analysis.Interpretation) {
	p.Printf("%s via %s/%s: %d components, parsed %s, tokens %s",
		res.Kind.Label(), res.Provider, res.Model, res.Result.Len(), res.Tier(), res.Tokens)
	if res.Placeholder() {
		p.Printf("warning: the reply could not be parsed; the report holds placeholders")
	} else if res.Tier().Degraded() {
		p.Printf("warning: names were recovered by pattern matching")
	}
}
