package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/hugo-lorenzo-mato/interpret-ai/internal/adapters/modelfile"
	"github.com/hugo-lorenzo-mato/interpret-ai/internal/analysis"
	"github.com/hugo-lorenzo-mato/interpret-ai/internal/core"
	"github.com/hugo-lorenzo-mato/interpret-ai/internal/report"
	"github.com/hugo-lorenzo-mato/interpret-ai/internal/service"
)

// InterpretRequest is the body of POST /api/v1/interpret. Data and Model
// are mutually exclusive. Options override the server defaults field by
// field.
type InterpretRequest struct {
	Kind           string              `json:"kind"`
	Data           map[string]any      `json:"data,omitempty"`
	Model          *modelfile.Document `json:"model,omitempty"`
	Options        json.RawMessage     `json:"options,omitempty"`
	AdditionalInfo string              `json:"additional_info,omitempty"`
	// Report selects a rendered report format ("markdown" or "cli").
	Report string `json:"report,omitempty"`
}

// InterpretResponse is the body of a successful interpretation.
type InterpretResponse struct {
	Interpretation *analysis.Interpretation `json:"interpretation"`
	Report         string                   `json:"report,omitempty"`
}

// KindInfo describes one analysis kind.
type KindInfo struct {
	Kind       core.AnalysisKind `json:"kind"`
	Label      string            `json:"label"`
	Component  string            `json:"component"`
	Registered bool              `json:"registered"`
}

func (s *Server) handleListKinds(w http.ResponseWriter, _ *http.Request) {
	registered := make(map[core.AnalysisKind]bool)
	for _, k := range s.interpreter.Registry().Kinds() {
		registered[k] = true
	}

	kinds := make([]KindInfo, 0, len(core.KnownKinds()))
	for _, k := range core.KnownKinds() {
		kinds = append(kinds, KindInfo{
			Kind:       k,
			Label:      k.Label(),
			Component:  k.ComponentNoun(),
			Registered: registered[k],
		})
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"kinds": kinds})
}

func (s *Server) handleMetrics(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, s.interpreter.Metrics().Snapshot())
}

func (s *Server) handleInterpret(w http.ResponseWriter, r *http.Request) {
	var body InterpretRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit))
			return
		}
		respondError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}

	opts, err := s.requestOptions(body)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	req := service.Request{
		Kind:    opts.Kind,
		Options: opts,
	}
	if body.Data != nil {
		req.Input = body.Data
	}
	if body.Model != nil {
		req.Model = body.Model
	}

	res, err := s.interpreter.Interpret(r.Context(), req)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	resp := InterpretResponse{Interpretation: res}
	if body.Report != "" {
		rendered, err := s.formatter.Format(res, report.Options{
			Format:       core.OutputFormat(body.Report),
			HeadingLevel: opts.HeadingLevel,
		})
		if err != nil {
			respondDomainError(w, err)
			return
		}
		resp.Report = rendered
	}
	respondJSON(w, http.StatusOK, resp)
}

// requestOptions overlays the request's options on the server defaults.
// Verbosity may be given as a legacy boolean.
func (s *Server) requestOptions(body InterpretRequest) (core.Options, error) {
	opts := s.defaults

	if len(bytes.TrimSpace(body.Options)) > 0 {
		var raw map[string]interface{}
		if err := json.Unmarshal(body.Options, &raw); err != nil {
			return core.Options{}, core.ErrValidation(core.CodeInvalidInput, "options must be a JSON object").
				WithDetail("field", "options")
		}
		verbosity, hasVerbosity := raw["verbosity"]
		delete(raw, "verbosity")

		rest, _ := json.Marshal(raw)
		dec := json.NewDecoder(bytes.NewReader(rest))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&opts); err != nil {
			return core.Options{}, core.ErrValidation(core.CodeInvalidInput, fmt.Sprintf("invalid options: %v", err)).
				WithDetail("field", "options")
		}
		if hasVerbosity {
			v, err := core.NormalizeVerbosity(verbosity)
			if err != nil {
				return core.Options{}, err
			}
			opts.Verbosity = v
		}
	}

	if body.Kind != "" {
		opts.Kind, _ = core.ParseKind(body.Kind)
	}
	if body.AdditionalInfo != "" {
		opts.AdditionalInfo = body.AdditionalInfo
	}
	return opts, nil
}
