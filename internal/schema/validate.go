package schema

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func formValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New()
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := jsonName(f)
			if name == "-" {
				return ""
			}
			return name
		})
		v.RegisterCustomTypeFunc(func(f reflect.Value) any {
			d, ok := f.Interface().(Date)
			if !ok || d.IsZero() {
				return nil
			}
			return d.Time
		}, Date{})
		_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
		v.RegisterStructValidation(projectRules, Project{})
		v.RegisterStructValidation(metricsRules, Metrics{})
		validate = v
	})
	return validate
}

func projectRules(sl validator.StructLevel) {
	p := sl.Current().Interface().(Project)
	if strings.TrimSpace(p.ClientRepresentative.ID) == "" {
		sl.ReportError(p.ClientRepresentative.ID, "clientRepresentative.id", "ClientRepresentative", "notblank", "")
	}
	if strings.TrimSpace(p.Team.ProjectLead.ID) == "" {
		sl.ReportError(p.Team.ProjectLead.ID, "team.projectLead.id", "Team", "notblank", "")
	}
}

func metricsRules(sl validator.StructLevel) {
	m := sl.Current().Interface().(Metrics)
	for i, item := range m.Benchmarking.Benchmarks {
		if strings.TrimSpace(item.BenchmarkID) == "" {
			sl.ReportError(item.BenchmarkID, fmt.Sprintf("benchmarking.benchmarks[%d].benchmarkId", i), "Benchmarking", "notblank", "")
		}
	}
}

// Validate runs the pre-submit form rules for a record the user is about to
// send. It complements Parse: Parse checks shape, Validate checks content.
func Validate(record any) error {
	err := formValidator().Struct(record)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate %T: %w", record, err)
	}

	issues := make([]Issue, 0, len(verrs))
	for _, fe := range verrs {
		path := fe.Namespace()
		if _, rest, ok := strings.Cut(path, "."); ok {
			path = rest
		}
		issues = append(issues, Issue{
			Path:    path,
			Code:    CodeRule,
			Message: ruleMessage(fe),
		})
	}
	return &ValidationError{Issues: issues}
}

func (p *Project) Validate() error   { return Validate(p) }
func (b *Benchmark) Validate() error { return Validate(b) }
func (u *User) Validate() error      { return Validate(u) }
func (m *Metrics) Validate() error   { return Validate(m) }

func ruleMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return "is required"
	case "required_if":
		cond := strings.Fields(fe.Param())
		if len(cond) == 2 {
			return "is required for " + cond[1] + "s"
		}
		return "is required"
	case "email":
		return "invalid email"
	case "oneof":
		return "must be either " + strings.Join(strings.Fields(fe.Param()), " or ")
	case "gte":
		return "must be greater or equals to " + fe.Param()
	}
	return fmt.Sprintf("failed %q rule", fe.Tag())
}
