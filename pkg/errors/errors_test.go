package errors

import (
	"errors"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidSets, "set column %q not found", "treatment")

	if err.Code != ErrCodeInvalidSets {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidSets)
	}

	if err.Message != `set column "treatment" not found` {
		t.Errorf("Message = %v", err.Message)
	}

	expected := `INVALID_SETS: set column "treatment" not found`
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeConverter, cause, "converting to png")

	if err.Code != ErrCodeConverter {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeConverter)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	if unwrapped := errors.Unwrap(err); unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{
			name:     "matching code",
			err:      New(ErrCodeCoercion, "test"),
			code:     ErrCodeCoercion,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeCoercion, "test"),
			code:     ErrCodeInvalidSets,
			expected: false,
		},
		{
			name:     "plain error",
			err:      errors.New("plain"),
			code:     ErrCodeCoercion,
			expected: false,
		},
		{
			name:     "wrapped structured error",
			err:      Wrap(ErrCodeInvalidConfig, errors.New("cause"), "outer"),
			code:     ErrCodeInvalidConfig,
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestIsValidation(t *testing.T) {
	if !IsValidation(New(ErrCodeInvalidDimensions, "width")) {
		t.Error("IsValidation(INVALID_DIMENSIONS) = false, want true")
	}
	if IsValidation(New(ErrCodeCoercion, "bad value")) {
		t.Error("IsValidation(COERCION) = true, want false")
	}
	if IsValidation(errors.New("plain")) {
		t.Error("IsValidation(plain) = true, want false")
	}
}

func TestIsCoercion(t *testing.T) {
	if !IsCoercion(New(ErrCodeCoercion, "bad value")) {
		t.Error("IsCoercion = false, want true")
	}
	if IsCoercion(New(ErrCodeInvalidSets, "missing")) {
		t.Error("IsCoercion(INVALID_SETS) = true, want false")
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(ErrCodeNotFound, "missing")); got != ErrCodeNotFound {
		t.Errorf("GetCode = %v, want %v", got, ErrCodeNotFound)
	}
	if got := GetCode(errors.New("plain")); got != "" {
		t.Errorf("GetCode(plain) = %v, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage(New(ErrCodeInvalidInput, "bad input")); got != "bad input" {
		t.Errorf("UserMessage = %v, want %v", got, "bad input")
	}
	if got := UserMessage(errors.New("plain")); got != "plain" {
		t.Errorf("UserMessage(plain) = %v, want %v", got, "plain")
	}
}
