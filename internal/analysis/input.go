package analysis

import (
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/hugo-lorenzo-mato/interpret-ai/internal/core"
)

// DecodeInput decodes a loosely typed structure (as produced by JSON or YAML
// decoding into map[string]interface{}) into target, which must be a
// pointer to a struct with json tags. Unknown keys are rejected.
func DecodeInput(raw interface{}, target interface{}) error {
	if raw == nil {
		return core.ErrValidation(core.CodeInvalidInput, "input is empty").WithDetail("field", "input")
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           target,
	})
	if err != nil {
		return fmt.Errorf("creating input decoder: %w", err)
	}

	if err := dec.Decode(raw); err != nil {
		return core.ErrValidation(core.CodeInvalidInput, fmt.Sprintf("decoding input: %v", err)).
			WithCause(err).
			WithDetail("field", "input")
	}
	return nil
}
