package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// ErrSchemaValidation wraps structural page configuration failures.
var ErrSchemaValidation = errors.New("page config schema validation failed")

// ValidationIssue captures a single structural failure.
type ValidationIssue struct {
	Location string
	Message  string
}

// PayloadValidationError surfaces structural issues with location context.
type PayloadValidationError struct {
	Issues []ValidationIssue
	Cause  error
}

func (e *PayloadValidationError) Error() string {
	if len(e.Issues) == 0 {
		if e.Cause != nil {
			return e.Cause.Error()
		}
		return ErrSchemaValidation.Error()
	}
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		location := strings.TrimSpace(issue.Location)
		if location == "" {
			location = "#"
		} else if !strings.HasPrefix(location, "#") {
			location = "#" + location
		}
		if issue.Message == "" {
			parts = append(parts, location)
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", location, issue.Message))
	}
	return strings.Join(parts, "; ")
}

func (e *PayloadValidationError) Unwrap() error {
	return ErrSchemaValidation
}

// Issues extracts validation issues from an error.
func Issues(err error) []ValidationIssue {
	if err == nil {
		return nil
	}
	var payloadErr *PayloadValidationError
	if errors.As(err, &payloadErr) && payloadErr != nil {
		return payloadErr.Issues
	}
	var validationErr *jsonschema.ValidationError
	if errors.As(err, &validationErr) && validationErr != nil {
		return collectValidationIssues(validationErr)
	}
	return []ValidationIssue{{Message: err.Error()}}
}

// pageConfigSchema is the structural tier of page configuration validation:
// required fields and shapes only. Length bounds and cross-field rules are
// semantic checks that live in the pageconfig package.
var pageConfigSchema = map[string]any{
	"type":     "object",
	"required": []any{"meta", "layout", "sections"},
	"properties": map[string]any{
		"meta": map[string]any{
			"type":     "object",
			"required": []any{"title", "description"},
			"properties": map[string]any{
				"title":       map[string]any{"type": "string"},
				"description": map[string]any{"type": "string"},
				"keywords":    map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
				"socialImage": map[string]any{"type": "string"},
				"robots":      map[string]any{"type": "string"},
			},
		},
		"layout": map[string]any{"type": "string", "minLength": 1},
		"sections": map[string]any{
			"type":     "array",
			"minItems": 1,
			"items": map[string]any{
				"type":     "object",
				"required": []any{"id", "component"},
				"properties": map[string]any{
					"id":         map[string]any{"type": "string", "minLength": 1},
					"component":  map[string]any{"type": "string", "minLength": 1},
					"props":      map[string]any{"type": "object"},
					"visibility": map[string]any{"type": "object"},
					"variants":   map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
				},
			},
		},
		"features": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		"auth": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"required": map[string]any{"type": "boolean"},
				"roles":    map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
				"redirect": map[string]any{"type": "string"},
			},
		},
		"analytics": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"pageType":   map[string]any{"type": "string"},
				"category":   map[string]any{"type": "string"},
				"dimensions": map[string]any{"type": "object"},
			},
		},
	},
}

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

// ValidatePageConfig validates a raw page configuration document against the
// structural schema. Failures come back as a *PayloadValidationError carrying
// one issue per leaf cause.
func ValidatePageConfig(doc map[string]any) error {
	if doc == nil {
		doc = map[string]any{}
	}
	compiled, err := compiledPageConfigSchema()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSchemaValidation, err)
	}
	if err := compiled.Validate(doc); err != nil {
		return &PayloadValidationError{
			Issues: Issues(err),
			Cause:  err,
		}
	}
	return nil
}

func compiledPageConfigSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiledSchema, compileErr = compileSchema(pageConfigSchema)
	})
	return compiledSchema, compileErr
}

func compileSchema(schema map[string]any) (*jsonschema.Schema, error) {
	encoded, err := json.Marshal(schema)
	if err != nil {
		return nil, err
	}
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource("schema.json", bytes.NewReader(encoded)); err != nil {
		return nil, err
	}
	return compiler.Compile("schema.json")
}

func collectValidationIssues(err *jsonschema.ValidationError) []ValidationIssue {
	if err == nil {
		return nil
	}
	issues := []ValidationIssue{}
	var walk func(*jsonschema.ValidationError)
	walk = func(node *jsonschema.ValidationError) {
		if node == nil {
			return
		}
		if len(node.Causes) == 0 {
			issues = append(issues, ValidationIssue{
				Location: strings.TrimSpace(node.InstanceLocation),
				Message:  strings.TrimSpace(node.Message),
			})
			return
		}
		for _, cause := range node.Causes {
			walk(cause)
		}
	}
	walk(err)
	return issues
}
