package schema

import (
	"fmt"
	"strings"
)

const (
	CodeInvalidType    = "invalid_type"
	CodeInvalidLiteral = "invalid_literal"
	CodeInvalidDate    = "invalid_date"
	CodeInvalidJSON    = "invalid_json"
	CodeRule           = "rule"
)

// Issue is a single offending field.
type Issue struct {
	Path     string `json:"path"`
	Code     string `json:"code"`
	Expected string `json:"expected,omitempty"`
	Received string `json:"received,omitempty"`
	Message  string `json:"message"`
}

// ValidationError enumerates every field that failed validation for one record.
// It is all-or-nothing: a record that produced a ValidationError was not decoded.
type ValidationError struct {
	Issues []Issue `json:"issues"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, is := range e.Issues {
		path := is.Path
		if path == "" {
			path = "(root)"
		}
		parts = append(parts, path+": "+is.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Paths returns the offending field paths in report order.
func (e *ValidationError) Paths() []string {
	out := make([]string, 0, len(e.Issues))
	for _, is := range e.Issues {
		out = append(out, is.Path)
	}
	return out
}

// Has reports whether path is among the offending fields.
func (e *ValidationError) Has(path string) bool {
	for _, is := range e.Issues {
		if is.Path == path {
			return true
		}
	}
	return false
}

// Fields flattens the issues into a path -> message map, the shape the API
// itself returns for a 400.
func (e *ValidationError) Fields() map[string]string {
	out := make(map[string]string, len(e.Issues))
	for _, is := range e.Issues {
		out[is.Path] = is.Message
	}
	return out
}

func typeIssue(path, expected, received string) Issue {
	return Issue{
		Path:     path,
		Code:     CodeInvalidType,
		Expected: expected,
		Received: received,
		Message:  fmt.Sprintf("expected %s, received %s", expected, received),
	}
}
