package domain

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidRecord matches every *ValidationError.
var ErrInvalidRecord = errors.New("invalid record")

// FieldError names one field that failed a rule.
type FieldError struct {
	Field string
	Rule  string
}

// ValidationError reports a record rejected at the store boundary.
type ValidationError struct {
	Record string
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = fmt.Sprintf("%s (%s)", f.Field, f.Rule)
	}
	return fmt.Sprintf("invalid %s: %s", e.Record, strings.Join(parts, ", "))
}

func (e *ValidationError) Is(target error) bool { return target == ErrInvalidRecord }

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterStructValidation(validateSessionCounts, StudySession{})
	return v
}

// Correct and incorrect answers are a subset of the cards reviewed.
func validateSessionCounts(sl validator.StructLevel) {
	s := sl.Current().Interface().(StudySession)
	if s.CorrectAnswers+s.IncorrectAnswers > s.CardsReviewed {
		sl.ReportError(s.CardsReviewed, "cardsReviewed", "CardsReviewed", "gradedsubset", "")
	}
	if s.CompletedAt != nil && s.CompletedAt.Before(s.StartedAt) {
		sl.ReportError(s.CompletedAt, "completedAt", "CompletedAt", "afterstart", "")
	}
}

// Validate checks a record against its struct tags. record names the record
// kind in the returned error.
func Validate(record string, v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate %s: %w", record, err)
	}
	ve := &ValidationError{Record: record}
	for _, fe := range verrs {
		ve.Fields = append(ve.Fields, FieldError{Field: fe.Field(), Rule: fe.Tag()})
	}
	return ve
}
