package todo

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schema/*.json
var schemaFS embed.FS

const schemaBaseURL = "https://smarttask.dev/schema/"

var (
	schemaOnce  sync.Once
	draftSchema *jsonschema.Schema
	patchSchema *jsonschema.Schema
	schemaErr   error
	schemaFiles = []string{"due.schema.json", "draft.schema.json", "patch.schema.json"}
)

// compileSchemas compiles the embedded draft and patch schemas once.
func compileSchemas() error {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.AssertFormat = true

		for _, name := range schemaFiles {
			data, err := schemaFS.ReadFile("schema/" + name)
			if err != nil {
				schemaErr = fmt.Errorf("read schema %s: %w", name, err)
				return
			}
			if err := compiler.AddResource(schemaBaseURL+name, bytes.NewReader(data)); err != nil {
				schemaErr = fmt.Errorf("add schema %s: %w", name, err)
				return
			}
		}

		draftSchema, schemaErr = compiler.Compile(schemaBaseURL + "draft.schema.json")
		if schemaErr != nil {
			schemaErr = fmt.Errorf("compile draft schema: %w", schemaErr)
			return
		}
		patchSchema, schemaErr = compiler.Compile(schemaBaseURL + "patch.schema.json")
		if schemaErr != nil {
			schemaErr = fmt.Errorf("compile patch schema: %w", schemaErr)
		}
	})
	return schemaErr
}

// CheckSchemas reports whether the embedded schemas compile.
func CheckSchemas() error {
	return compileSchemas()
}

// DecodeDraft validates a JSON draft payload and converts it to a Draft.
// Relative due dates ("today", "tomorrow", "+3d") resolve against today.
// Invalid payloads return one or more *ValidationError values.
func DecodeDraft(data []byte, today Date) (Draft, error) {
	if err := compileSchemas(); err != nil {
		return Draft{}, err
	}
	if err := validateJSON(data, draftSchema); err != nil {
		return Draft{}, err
	}

	var raw struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Priority    string `json:"priority"`
		Category    string `json:"category"`
		DueDate     string `json:"due_date"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return Draft{}, &ValidationError{Err: fmt.Errorf("parse draft: %w", err)}
	}

	due, err := ResolveDue(raw.DueDate, today)
	if err != nil {
		return Draft{}, &ValidationError{Path: "due_date", Err: err}
	}
	return Draft{
		Title:       raw.Title,
		Description: raw.Description,
		Priority:    Priority(raw.Priority),
		Category:    Category(raw.Category),
		DueDate:     due,
	}, nil
}

// DecodePatch validates a JSON patch payload and converts it to a Patch.
// A due_date of "" or "none" clears the due date.
func DecodePatch(data []byte, today Date) (Patch, error) {
	if err := compileSchemas(); err != nil {
		return Patch{}, err
	}
	if err := validateJSON(data, patchSchema); err != nil {
		return Patch{}, err
	}

	var raw struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
		Priority    *string `json:"priority"`
		Category    *string `json:"category"`
		DueDate     *string `json:"due_date"`
		Completed   *bool   `json:"completed"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return Patch{}, &ValidationError{Err: fmt.Errorf("parse patch: %w", err)}
	}

	p := Patch{
		Title:       raw.Title,
		Description: raw.Description,
		Completed:   raw.Completed,
	}
	if raw.Priority != nil {
		priority := Priority(*raw.Priority)
		p.Priority = &priority
	}
	if raw.Category != nil {
		category := Category(*raw.Category)
		p.Category = &category
	}
	if raw.DueDate != nil {
		due, err := ResolveDue(*raw.DueDate, today)
		if err != nil {
			return Patch{}, &ValidationError{Path: "due_date", Err: err}
		}
		p.DueDate = &due
	}
	return p, nil
}

// validateJSON checks data against schema, converting schema failures into
// *ValidationError values keyed by field path.
func validateJSON(data []byte, schema *jsonschema.Schema) error {
	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return &ValidationError{Err: fmt.Errorf("parse json: %w", err)}
	}
	if err := schema.Validate(doc); err != nil {
		return schemaErrors(err)
	}
	return nil
}

func schemaErrors(err error) error {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return &ValidationError{Err: err}
	}
	var errs []error
	collectSchemaErrors(&errs, ve)
	if len(errs) == 1 {
		return errs[0]
	}
	return errors.Join(errs...)
}

func collectSchemaErrors(errs *[]error, err *jsonschema.ValidationError) {
	if err == nil {
		return
	}
	if len(err.Causes) == 0 {
		*errs = append(*errs, &ValidationError{
			Path: jsonPointerToPath(err.InstanceLocation),
			Err:  errors.New(err.Message),
		})
		return
	}
	for _, cause := range err.Causes {
		collectSchemaErrors(errs, cause)
	}
}

// jsonPointerToPath converts a JSON Pointer such as "/tasks/0/title" to a
// dotted path such as "tasks[0].title".
func jsonPointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "#")
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return ""
	}

	path := ""
	for _, part := range strings.Split(ptr, "/") {
		part = strings.ReplaceAll(part, "~1", "/")
		part = strings.ReplaceAll(part, "~0", "~")
		if part == "" {
			continue
		}
		if idx, err := strconv.Atoi(part); err == nil {
			path += fmt.Sprintf("[%d]", idx)
			continue
		}
		if path == "" {
			path = part
		} else {
			path += "." + part
		}
	}
	return path
}
