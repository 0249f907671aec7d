package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Field options are read from the `schema` struct tag:
//
//	optional       the key may be absent
//	nullable       the value may be JSON null
//	enum=a|b       the string must be one of the listed literals
type fieldRules struct {
	optional bool
	nullable bool
	enum     []string
}

var dateType = reflect.TypeOf(Date{})

// Parse validates the shape of data against T and then decodes it. Either a
// fully populated record or a *ValidationError is returned, never both.
func Parse[T any](data []byte) (*T, error) {
	var raw any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return nil, &ValidationError{Issues: []Issue{{
			Code:    CodeInvalidJSON,
			Message: "invalid JSON: " + err.Error(),
		}}}
	}

	var out T
	if issues := check(reflect.TypeOf(out), raw, ""); len(issues) > 0 {
		return nil, &ValidationError{Issues: issues}
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode %T: %w", out, err)
	}
	return &out, nil
}

// ParseProject validates and decodes a project payload.
func ParseProject(data []byte) (*Project, error) { return Parse[Project](data) }

// ParseBenchmark validates and decodes a benchmark payload.
func ParseBenchmark(data []byte) (*Benchmark, error) { return Parse[Benchmark](data) }

// ParseUser validates and decodes a user payload.
func ParseUser(data []byte) (*User, error) { return Parse[User](data) }

func check(t reflect.Type, v any, path string) []Issue {
	if t == dateType {
		// null coerces to the zero Date, the same value the zero Date
		// marshals back to.
		if v == nil {
			return nil
		}
		if _, ok := coerceDate(v); !ok {
			return []Issue{{
				Path:     path,
				Code:     CodeInvalidDate,
				Expected: "date",
				Received: jsonKind(v),
				Message:  "expected date, received " + jsonKind(v),
			}}
		}
		return nil
	}

	switch t.Kind() {
	case reflect.Pointer:
		return check(t.Elem(), v, path)

	case reflect.String:
		if _, ok := v.(string); !ok {
			return []Issue{typeIssue(path, "string", jsonKind(v))}
		}

	case reflect.Bool:
		if _, ok := v.(bool); !ok {
			return []Issue{typeIssue(path, "boolean", jsonKind(v))}
		}

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, ok := v.(json.Number)
		if !ok {
			return []Issue{typeIssue(path, "integer", jsonKind(v))}
		}
		if _, err := strconv.ParseInt(n.String(), 10, 64); err != nil {
			return []Issue{typeIssue(path, "integer", "float")}
		}

	case reflect.Float32, reflect.Float64:
		if _, ok := v.(json.Number); !ok {
			return []Issue{typeIssue(path, "number", jsonKind(v))}
		}

	case reflect.Slice:
		items, ok := v.([]any)
		if !ok {
			return []Issue{typeIssue(path, "array", jsonKind(v))}
		}
		var issues []Issue
		for i, item := range items {
			issues = append(issues, check(t.Elem(), item, fmt.Sprintf("%s[%d]", path, i))...)
		}
		return issues

	case reflect.Struct:
		obj, ok := v.(map[string]any)
		if !ok {
			return []Issue{typeIssue(path, "object", jsonKind(v))}
		}
		return checkStruct(t, obj, path)
	}

	return nil
}

func checkStruct(t reflect.Type, obj map[string]any, path string) []Issue {
	var issues []Issue
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name := jsonName(f)
		if name == "-" {
			continue
		}
		rules := parseRules(f.Tag.Get("schema"))
		fpath := joinPath(path, name)

		val, present := obj[name]
		if !present {
			if rules.optional {
				continue
			}
			issues = append(issues, Issue{
				Path:     fpath,
				Code:     CodeInvalidType,
				Expected: expectedKind(f.Type),
				Received: "undefined",
				Message:  "required",
			})
			continue
		}
		if val == nil {
			if rules.nullable || f.Type == dateType {
				continue
			}
			issues = append(issues, typeIssue(fpath, expectedKind(f.Type), "null"))
			continue
		}

		sub := check(f.Type, val, fpath)
		if len(sub) == 0 && len(rules.enum) > 0 {
			s, _ := val.(string)
			if !contains(rules.enum, s) {
				sub = append(sub, Issue{
					Path:     fpath,
					Code:     CodeInvalidLiteral,
					Expected: strings.Join(rules.enum, " | "),
					Received: s,
					Message:  fmt.Sprintf("expected one of %s, received %q", strings.Join(rules.enum, ", "), s),
				})
			}
		}
		issues = append(issues, sub...)
	}
	return issues
}

func parseRules(tag string) fieldRules {
	var r fieldRules
	for _, opt := range strings.Split(tag, ",") {
		opt = strings.TrimSpace(opt)
		switch {
		case opt == "optional":
			r.optional = true
		case opt == "nullable":
			r.nullable = true
		case strings.HasPrefix(opt, "enum="):
			r.enum = strings.Split(strings.TrimPrefix(opt, "enum="), "|")
		}
	}
	return r
}

func jsonName(f reflect.StructField) string {
	tag := f.Tag.Get("json")
	if tag == "" {
		return f.Name
	}
	name, _, _ := strings.Cut(tag, ",")
	if name == "" {
		return f.Name
	}
	return name
}

func joinPath(base, name string) string {
	if base == "" {
		return name
	}
	return base + "." + name
}

func jsonKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case json.Number, float64:
		return "number"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	}
	return fmt.Sprintf("%T", v)
}

func expectedKind(t reflect.Type) string {
	if t == dateType {
		return "date"
	}
	switch t.Kind() {
	case reflect.Pointer:
		return expectedKind(t.Elem())
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return "integer"
	case reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Slice:
		return "array"
	case reflect.Struct:
		return "object"
	}
	return t.Kind().String()
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
