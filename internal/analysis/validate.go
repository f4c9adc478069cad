package analysis

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/buger/jsonparser"

	"github.com/hugo-lorenzo-mato/interpret-ai/internal/core"
)

// Field names every component object must carry in a model reply.
const (
	FieldName           = "name"
	FieldInterpretation = "interpretation"
)

// ValidateComponentJSON checks that candidate is a JSON object holding, for
// every declared component, an object with string name and interpretation
// fields. Any missing or mistyped component rejects the whole candidate. The
// result follows the declared component order.
func ValidateComponentJSON(candidate []byte, components []string) (*core.ComponentResult, error) {
	trimmed := bytes.TrimSpace(candidate)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, errors.New("reply is not a JSON object")
	}
	if !json.Valid(trimmed) {
		return nil, errors.New("reply is not valid JSON")
	}

	result := core.NewComponentResult(core.TierNone)
	for _, comp := range components {
		value, dataType, _, err := jsonparser.Get(trimmed, comp)
		if err != nil {
			return nil, fmt.Errorf("component %q is missing", comp)
		}
		if dataType != jsonparser.Object {
			return nil, fmt.Errorf("component %q is a %s, want object", comp, dataType)
		}

		name, err := stringField(value, comp, FieldName)
		if err != nil {
			return nil, err
		}
		summary, err := stringField(value, comp, FieldInterpretation)
		if err != nil {
			return nil, err
		}
		result.Set(comp, name, summary)
	}
	return result, nil
}

func stringField(obj []byte, comp, field string) (string, error) {
	raw, dataType, _, err := jsonparser.Get(obj, field)
	if err != nil {
		return "", fmt.Errorf("component %q has no %q field", comp, field)
	}
	if dataType != jsonparser.String {
		return "", fmt.Errorf("component %q field %q is a %s, want string", comp, field, dataType)
	}
	s, err := jsonparser.ParseString(raw)
	if err != nil {
		return "", fmt.Errorf("component %q field %q: %w", comp, field, err)
	}
	return s, nil
}

// ValidateResponse is the validation handler shared by kinds whose reply
// contract is one {name, interpretation} object per component.
func ValidateResponse(candidate []byte, data Data) (*core.ComponentResult, error) {
	return ValidateComponentJSON(candidate, data.Components())
}
