package errors

import (
	"errors"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidInput, "test message: %s", "value")

	if err.Code != ErrCodeInvalidInput {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidInput)
	}

	if err.Message != "test message: value" {
		t.Errorf("Message = %v, want %v", err.Message, "test message: value")
	}

	expected := "INVALID_INPUT: test message: value"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeFileNotFound, cause, "failed to open")

	if err.Code != ErrCodeFileNotFound {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeFileNotFound)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	// Test Unwrap
	unwrapped := errors.Unwrap(err)
	if unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	// Test errors.Is with wrapped error
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
			err:      New(ErrCodeInvalidInput, "test"),
			code:     ErrCodeInvalidInput,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeInvalidInput, "test"),
			code:     ErrCodeFileNotFound,
			expected: false,
		},
		{
			name:     "wrapped error",
			err:      Wrap(ErrCodeFileNotFound, New(ErrCodeInvalidInput, "inner"), "outer"),
			code:     ErrCodeFileNotFound,
			expected: true,
		},
		{
			name:     "non-Error type",
			err:      errors.New("plain error"),
			code:     ErrCodeInvalidInput,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			code:     ErrCodeInvalidInput,
			expected: false,
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

func TestGetCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Code
	}{
		{
			name:     "Error type",
			err:      New(ErrCodeFormat, "test"),
			expected: ErrCodeFormat,
		},
		{
			name:     "plain error",
			err:      errors.New("plain"),
			expected: "",
		},
		{
			name:     "nil",
			err:      nil,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.expected {
				t.Errorf("GetCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "Error type",
			err:      New(ErrCodeInvalidInput, "friendly message"),
			expected: "friendly message",
		},
		{
			name:     "plain error",
			err:      errors.New("plain error"),
			expected: "plain error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.expected {
				t.Errorf("UserMessage() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestWarning(t *testing.T) {
	tests := []struct {
		name string
		w    Warning
		want string
	}{
		{
			name: "with subject",
			w:    Warn(ErrCodeUndefinedNet, "n7", "net is never driven"),
			want: "UNDEFINED_NET: n7: net is never driven",
		},
		{
			name: "without subject",
			w:    Warn(ErrCodeCycleDetected, "", "removed %d edges", 2),
			want: "CYCLE_DETECTED: removed 2 edges",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.w.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCountByCode(t *testing.T) {
	ws := []Warning{
		Warn(ErrCodeUndefinedNet, "a", "x"),
		Warn(ErrCodeUndefinedNet, "b", "x"),
		Warn(ErrCodeUnobservable, "c", "x"),
	}
	counts := CountByCode(ws)
	if counts[ErrCodeUndefinedNet] != 2 {
		t.Errorf("counts[UNDEFINED_NET] = %d, want 2", counts[ErrCodeUndefinedNet])
	}
	if counts[ErrCodeUnobservable] != 1 {
		t.Errorf("counts[UNOBSERVABLE_NET] = %d, want 1", counts[ErrCodeUnobservable])
	}
}

func TestNonConvergenceError(t *testing.T) {
	inner := &NonConvergenceError{Engine: "controllability", Sweeps: 4, Pending: 2}
	want := "controllability did not converge after 4 sweeps (2 updates pending)"
	if inner.Error() != want {
		t.Errorf("Error() = %q, want %q", inner.Error(), want)
	}
	if inner.Code() != ErrCodeNonConvergence {
		t.Errorf("Code() = %v, want %v", inner.Code(), ErrCodeNonConvergence)
	}

	err := Wrap(ErrCodeNonConvergence, inner, "relaxation stopped")
	if !Is(err, ErrCodeNonConvergence) {
		t.Error("Is(err, NON_CONVERGENCE) = false, want true")
	}
	var nc *NonConvergenceError
	if !errors.As(err, &nc) || nc.Sweeps != 4 {
		t.Errorf("errors.As() = %v, want sweeps 4", nc)
	}
}
