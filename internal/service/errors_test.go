package service

import (
	"errors"
	"testing"
)

func TestValidationError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *ValidationError
		want string
	}{
		{
			name: "field and message",
			err:  &ValidationError{Field: "message", Message: "cannot be empty"},
			want: "validation error on field message: cannot be empty",
		},
		{
			name: "empty field",
			err:  &ValidationError{Message: "invalid"},
			want: "validation error: invalid",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("ValidationError.Error() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValidationError_IsInvalidInput(t *testing.T) {
	err := WrapError(&ValidationError{Field: "mode", Message: "bad"}, "chat")
	if !errors.Is(err, ErrInvalidInput) {
		t.Error("errors.Is(ValidationError, ErrInvalidInput) = false, want true")
	}
	if errors.Is(err, ErrNotFound) {
		t.Error("errors.Is(ValidationError, ErrNotFound) = true, want false")
	}
}

func TestWrapError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		msg     string
		wantNil bool
		wantMsg string
	}{
		{name: "nil error", err: nil, msg: "context", wantNil: true},
		{name: "wrapped error", err: errors.New("original error"), msg: "context", wantMsg: "context: original error"},
		{name: "wrapped sentinel", err: ErrNotFound, msg: "lookup", wantMsg: "lookup: not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WrapError(tt.err, tt.msg)
			if tt.wantNil {
				if got != nil {
					t.Errorf("WrapError() = %v, want nil", got)
				}
				return
			}
			if got == nil {
				t.Fatal("WrapError() returned nil")
			}
			if got.Error() != tt.wantMsg {
				t.Errorf("WrapError() = %q, want %q", got.Error(), tt.wantMsg)
			}
			if !errors.Is(got, tt.err) {
				t.Error("WrapError() result does not wrap the original error")
			}
		})
	}
}
