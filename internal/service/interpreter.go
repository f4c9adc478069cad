// Package service sequences a complete interpretation request: options,
// data building, prompting, the chat exchange, parsing and diagnostics.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/hugo-lorenzo-mato/interpret-ai/internal/analysis"
	"github.com/hugo-lorenzo-mato/interpret-ai/internal/analysis/builtin"
	"github.com/hugo-lorenzo-mato/interpret-ai/internal/core"
	"github.com/hugo-lorenzo-mato/interpret-ai/internal/logging"
	"github.com/hugo-lorenzo-mato/interpret-ai/internal/parser"
)

// Request is one interpretation request. Exactly one of Input and Model must
// be set. When Session is set the request runs on a fork of it; otherwise a
// session is obtained from the interpreter's factory.
type Request struct {
	Kind    core.AnalysisKind
	Input   interface{}
	Model   interface{}
	Session core.ChatSession
	Options core.Options
}

// InterpreterConfig holds the interpreter's collaborators. Only one of
// Sessions or a per-request Session is required.
type InterpreterConfig struct {
	Registry  *analysis.Registry
	Sessions  core.SessionFactory
	Extractor core.ModelExtractor
	Metrics   *MetricsCollector
	Logger    *logging.Logger
}

// Interpreter runs interpretation requests. It is safe for concurrent use;
// every request owns its data, session and result.
type Interpreter struct {
	registry  *analysis.Registry
	sessions  core.SessionFactory
	extractor core.ModelExtractor
	metrics   *MetricsCollector
	logger    *logging.Logger
	now       func() time.Time
}

// NewInterpreter creates an interpreter. A nil registry means the built-in
// registry; a nil logger discards logs.
func NewInterpreter(cfg InterpreterConfig) *Interpreter {
	if cfg.Registry == nil {
		cfg.Registry = builtin.Default()
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.NewNop()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = NewMetricsCollector()
	}
	return &Interpreter{
		registry:  cfg.Registry,
		sessions:  cfg.Sessions,
		extractor: cfg.Extractor,
		metrics:   cfg.Metrics,
		logger:    cfg.Logger.WithComponent("interpreter"),
		now:       time.Now,
	}
}

// Registry returns the registry requests are resolved against.
func (i *Interpreter) Registry() *analysis.Registry {
	return i.registry
}

// Metrics returns the interpreter's metrics collector.
func (i *Interpreter) Metrics() *MetricsCollector {
	return i.metrics
}

// Interpret runs req to completion. Configuration and input errors are
// returned before any chat call. A failed chat call aborts the request and
// no partial result is returned. An unparseable reply is not an error: the
// result then holds placeholders and records the parse tier.
func (i *Interpreter) Interpret(ctx context.Context, req Request) (*analysis.Interpretation, error) {
	start := i.now()

	id := logging.RequestIDFromContext(ctx)
	if id == "" {
		id = uuid.NewString()
	}

	opts := req.Options
	if req.Kind != "" {
		opts.Kind = req.Kind
	}
	if k, ok := core.ParseKind(string(opts.Kind)); ok {
		opts.Kind = k
	}

	log := i.requestLogger(id, opts)

	res, err := i.interpret(ctx, req, opts, id, log)
	if err != nil {
		i.metrics.RecordFailure(opts.Kind, err)
		log.Error("interpretation failed", "error", err, "category", string(core.GetCategory(err)))
		return nil, err
	}

	res.Elapsed = i.now().Sub(start)
	i.metrics.RecordInterpretation(res)
	log.Info("interpretation complete",
		"tier", res.Tier().String(),
		"tokens", res.Tokens.String(),
		"elapsed", res.Elapsed.Round(time.Millisecond).String())
	return res, nil
}

func (i *Interpreter) interpret(ctx context.Context, req Request, opts core.Options, id string, log *logging.Logger) (*analysis.Interpretation, error) {
	hs, err := i.registry.Lookup(opts.Kind)
	if err != nil {
		return nil, err
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	input, err := i.resolveInput(ctx, req, opts.Kind)
	if err != nil {
		return nil, err
	}

	log.Info("building analysis data")
	data, err := hs.BuildData(input, opts)
	if err != nil {
		return nil, err
	}

	systemPrompt, err := hs.SystemPrompt(opts)
	if err != nil {
		return nil, fmt.Errorf("rendering system prompt: %w", err)
	}
	mainPrompt, err := hs.MainPrompt(data, opts)
	if err != nil {
		return nil, fmt.Errorf("rendering main prompt: %w", err)
	}

	session, err := i.openSession(ctx, req.Session, systemPrompt)
	if err != nil {
		return nil, err
	}
	defer closeSession(session, log)

	log = log.WithProvider(session.Provider(), session.Model())
	log.Info("sending prompt", "components", len(data.Components()))
	log.Debug("prompt", "system", systemPrompt, "main", mainPrompt)

	before := session.TokenCounts()
	reply, err := session.Send(ctx, mainPrompt, opts.Echo)
	if err != nil {
		return nil, core.ErrCollaborator(core.CodeChatFailed,
			fmt.Sprintf("chat call to %s failed", describeSession(session)), err)
	}
	usage := core.UsageBetween(before, session.TokenCounts())
	log.Debug("reply", "text", reply)

	result := parser.New(log).Parse(reply, data, hs)

	return &analysis.Interpretation{
		ID:           id,
		Kind:         opts.Kind,
		Data:         data,
		Result:       result,
		Diagnostics:  hs.FitSummary(data),
		Tokens:       usage,
		Provider:     session.Provider(),
		Model:        session.Model(),
		SystemPrompt: systemPrompt,
		MainPrompt:   mainPrompt,
		RawReply:     reply,
		Options:      opts,
		CreatedAt:    i.now().UTC(),
	}, nil
}

// resolveInput returns the raw input for the data builder, routing foreign
// model handles through the extractor.
func (i *Interpreter) resolveInput(ctx context.Context, req Request, kind core.AnalysisKind) (interface{}, error) {
	switch {
	case req.Input != nil && req.Model != nil:
		return nil, core.ErrValidation(core.CodeInvalidInput, "input and model are mutually exclusive")
	case req.Input != nil:
		return req.Input, nil
	case req.Model == nil:
		return nil, core.ErrValidation(core.CodeInvalidInput, "either input data or a fitted model is required")
	}

	if i.extractor == nil {
		return nil, core.ErrValidation(core.CodeUnsupportedModel, "no model extractor is configured")
	}
	raw, err := i.extractor.Extract(ctx, req.Model, kind)
	if err != nil {
		var domErr *core.DomainError
		if errors.As(err, &domErr) {
			return nil, err
		}
		return nil, core.ErrValidation(core.CodeUnsupportedModel, "extracting model").WithCause(err)
	}
	return raw, nil
}

// openSession returns a request-scoped session: a fork of the supplied
// session, which is never modified, or a new one from the factory.
func (i *Interpreter) openSession(ctx context.Context, supplied core.ChatSession, systemPrompt string) (core.ChatSession, error) {
	if supplied != nil {
		return supplied.Fork(systemPrompt), nil
	}
	if i.sessions == nil {
		return nil, core.ErrConfig(core.CodeNoSession, "no chat session supplied and no session factory configured")
	}
	s, err := i.sessions.NewSession(ctx, systemPrompt)
	if err != nil {
		return nil, core.ErrCollaborator(core.CodeSessionFailed, "creating chat session", err)
	}
	return s, nil
}

func (i *Interpreter) requestLogger(id string, opts core.Options) *logging.Logger {
	if opts.Verbosity == core.VerbositySilent {
		return logging.NewNop()
	}
	return i.logger.WithKind(string(opts.Kind)).WithRequest(id)
}

func closeSession(s core.ChatSession, log *logging.Logger) {
	c, ok := s.(io.Closer)
	if !ok {
		return
	}
	if err := c.Close(); err != nil {
		log.Warn("closing chat session", "error", err)
	}
}

func describeSession(s core.ChatSession) string {
	if s.Model() == "" {
		return s.Provider()
	}
	return s.Provider() + "/" + s.Model()
}
