package types

import (
	"errors"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
	}{
		{
			name: "with message",
			err: &Error{
				Op:      "test.Op",
				Kind:    ErrNotFound,
				Message: "term not found",
			},
		},
		{
			name: "with underlying error",
			err: &Error{
				Op:   "test.Op",
				Kind: ErrStoreOpenFailed,
				Err:  errors.New("disk full"),
			},
		},
		{
			name: "kind only",
			err: &Error{
				Op:   "test.Op",
				Kind: ErrInvalidArg,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Error() == "" {
				t.Error("Error() returned empty string")
			}
		})
	}
}

func TestError_Is(t *testing.T) {
	err := &Error{
		Op:   "test",
		Kind: ErrDupDoc,
	}

	if !errors.Is(err, ErrDupDoc) {
		t.Error("Error should match ErrDupDoc")
	}
	if errors.Is(err, ErrNotFound) {
		t.Error("Error should not match ErrNotFound")
	}
}

func TestError_Unwrap(t *testing.T) {
	inner := errors.New("inner")
	err := WrapError("test", ErrCorruptValue, inner)

	if !errors.Is(err, inner) {
		t.Error("wrapped error should match the inner error")
	}
	if !errors.Is(err, ErrCorruptValue) {
		t.Error("wrapped error should match its kind")
	}
}

func TestErrorf(t *testing.T) {
	err := Errorf("dict.MarkStopword", ErrStopwordAfterWrite, "term %q has id %d", "the", 7)

	if !errors.Is(err, ErrStopwordAfterWrite) {
		t.Error("Errorf should preserve the kind")
	}
	if err.Error() == "" {
		t.Error("Errorf message is empty")
	}
}
