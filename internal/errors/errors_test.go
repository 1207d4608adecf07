// Package apperrors provides tests for application error types.
package apperrors

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestParseError(t *testing.T) {
	cause := errors.New("unbalanced parenthesis")
	err := NewParseError("n^(3", cause)

	if !strings.Contains(err.Error(), "n^(3") {
		t.Errorf("ParseError message should contain the formula, got %q", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Error("ParseError should unwrap to its cause")
	}

	var pe ParseError
	if !errors.As(err, &pe) {
		t.Fatal("errors.As should match ParseError")
	}
	if pe.Formula != "n^(3" {
		t.Errorf("Formula = %q, want %q", pe.Formula, "n^(3")
	}
}

func TestParseError_NoCause(t *testing.T) {
	err := NewParseError("", nil)
	if err.Error() == "" {
		t.Error("ParseError without cause should still produce a message")
	}
}

func TestEvalError(t *testing.T) {
	err := NewEvalError("log of non-positive value %g", -2.5)
	if !strings.Contains(err.Error(), "-2.5") {
		t.Errorf("EvalError should carry the formatted message, got %q", err.Error())
	}

	var ee EvalError
	if !errors.As(err, &ee) {
		t.Error("errors.As should match EvalError")
	}
}

func TestMappingError(t *testing.T) {
	cause := NewEvalError("division by zero")
	err := NewMappingError("2^q / 0", cause)

	if !strings.Contains(err.Error(), "2^q / 0") {
		t.Errorf("MappingError should contain the mapping formula, got %q", err.Error())
	}
	var ee EvalError
	if !errors.As(err, &ee) {
		t.Error("MappingError should unwrap to the underlying EvalError")
	}
}

func TestIsFormulaError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"parse error", NewParseError("??", nil), true},
		{"eval error", NewEvalError("overflow"), true},
		{"wrapped parse error", fmt.Errorf("compile: %w", NewParseError("-", nil)), true},
		{"config error", NewConfigError("bad port"), false},
		{"plain error", errors.New("boom"), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsFormulaError(tt.err); got != tt.want {
				t.Errorf("IsFormulaError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestIsContextError(t *testing.T) {
	if !IsContextError(context.Canceled) {
		t.Error("context.Canceled should be a context error")
	}
	if !IsContextError(fmt.Errorf("wrapped: %w", context.DeadlineExceeded)) {
		t.Error("wrapped DeadlineExceeded should be a context error")
	}
	if IsContextError(errors.New("other")) {
		t.Error("unrelated errors are not context errors")
	}
}

func TestWrapError(t *testing.T) {
	if WrapError(nil, "context") != nil {
		t.Error("WrapError(nil) should return nil")
	}

	base := ErrDomainExhausted
	wrapped := WrapError(base, "size search in [%g, %g]", 2.0, 1e100)
	if !errors.Is(wrapped, ErrDomainExhausted) {
		t.Error("wrapped error should match ErrDomainExhausted")
	}
	if !strings.Contains(wrapped.Error(), "size search") {
		t.Errorf("wrapped error should carry context, got %q", wrapped.Error())
	}
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("processors", "must be at least 1", 0)
	if !strings.Contains(err.Error(), "processors") {
		t.Errorf("ValidationError should name the field, got %q", err.Error())
	}

	anon := NewValidationError("", "empty model", nil)
	if strings.Contains(anon.Error(), "''") {
		t.Errorf("field-less ValidationError should omit the field clause, got %q", anon.Error())
	}
}
