package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hugo-lorenzo-mato/interpret-ai/internal/adapters/chat"
	"github.com/hugo-lorenzo-mato/interpret-ai/internal/core"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("config validation: %s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors collects multiple validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// HasErrors returns true if there are any validation errors.
func (e ValidationErrors) HasErrors() bool {
	return len(e) > 0
}

// Validator validates configuration.
type Validator struct {
	errors ValidationErrors
}

// NewValidator creates a new validator.
func NewValidator() *Validator {
	return &Validator{
		errors: make(ValidationErrors, 0),
	}
}

// Validate validates the entire configuration.
func (v *Validator) Validate(cfg *Config) error {
	v.validateLog(&cfg.Log)
	v.validateLLM(&cfg.LLM)
	v.validateInterpret(&cfg.Interpret)
	v.validateServer(&cfg.Server)

	if len(v.errors) > 0 {
		return v.errors
	}
	return nil
}

// Errors returns the collected validation errors.
func (v *Validator) Errors() ValidationErrors {
	return v.errors
}

func (v *Validator) addError(field string, value interface{}, msg string) {
	v.errors = append(v.errors, ValidationError{
		Field:   field,
		Value:   value,
		Message: msg,
	})
}

func (v *Validator) validateLog(cfg *LogConfig) {
	validLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLevels[cfg.Level] {
		v.addError("log.level", cfg.Level, "must be one of: debug, info, warn, error")
	}

	validFormats := map[string]bool{
		"auto": true, "text": true, "json": true,
	}
	if !validFormats[cfg.Format] {
		v.addError("log.format", cfg.Format, "must be one of: auto, text, json")
	}
}

func (v *Validator) validateLLM(cfg *LLMConfig) {
	known := false
	for _, p := range chat.Providers() {
		if strings.EqualFold(cfg.Provider, p) {
			known = true
			break
		}
	}
	if !known {
		v.addError("llm.provider", cfg.Provider, "must be one of: "+strings.Join(chat.Providers(), ", "))
	}
	if strings.TrimSpace(cfg.Model) == "" {
		v.addError("llm.model", cfg.Model, "must not be empty")
	}
	if cfg.MaxTokens < 1 {
		v.addError("llm.max_tokens", cfg.MaxTokens, "must be positive")
	}
	if cfg.Temperature != nil && (*cfg.Temperature < 0 || *cfg.Temperature > 2) {
		v.addError("llm.temperature", *cfg.Temperature, "must be between 0 and 2")
	}
	if d, err := cfg.TimeoutDuration(); err != nil || d < 0 {
		v.addError("llm.timeout", cfg.Timeout, "must be a non-negative duration such as 90s or 2m")
	}
	if cfg.MaxRetries < 0 {
		v.addError("llm.max_retries", cfg.MaxRetries, "must be non-negative")
	}
}

// validateInterpret delegates to the option bounds so that the config file
// and per-request options share one definition.
func (v *Validator) validateInterpret(cfg *InterpretConfig) {
	opts, err := cfg.ToOptions()
	if err == nil {
		err = opts.Validate()
	}
	if err == nil {
		return
	}

	var de *core.DomainError
	if errors.As(err, &de) {
		field, _ := de.Details["field"].(string)
		if field == "" {
			field = "options"
		}
		v.addError("interpret."+field, de.Details["got"], de.Message)
		return
	}
	v.addError("interpret", nil, err.Error())
}

func (v *Validator) validateServer(cfg *ServerConfig) {
	if cfg.Port < 0 || cfg.Port > 65535 {
		v.addError("server.port", cfg.Port, "must be between 0 and 65535")
	}
	for _, field := range []struct {
		name, value string
	}{
		{"server.read_timeout", cfg.ReadTimeout},
		{"server.write_timeout", cfg.WriteTimeout},
	} {
		if field.value == "" {
			continue
		}
		if _, err := time.ParseDuration(field.value); err != nil {
			v.addError(field.name, field.value, "invalid duration format")
		}
	}
	if cfg.MaxBodyBytes < 0 {
		v.addError("server.max_body_bytes", cfg.MaxBodyBytes, "must be non-negative")
	}
}

// ValidateConfig is a convenience function to validate a config.
func ValidateConfig(cfg *Config) error {
	return NewValidator().Validate(cfg)
}
