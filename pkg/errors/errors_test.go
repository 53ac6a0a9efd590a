package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidInput, "bad scale %g", 9.5)
	if err.Code != ErrCodeInvalidInput {
		t.Errorf("code = %q", err.Code)
	}
	if err.Message != "bad scale 9.5" {
		t.Errorf("message = %q", err.Message)
	}
	if got := err.Error(); got != "INVALID_INPUT: bad scale 9.5" {
		t.Errorf("Error() = %q", got)
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := stderrors.New("disk full")
	err := Wrap(ErrCodeStore, cause, "write version")

	if !stderrors.Is(err, cause) {
		t.Error("wrapped error should match its cause with errors.Is")
	}
	if got := err.Error(); got != "STORE_ERROR: write version: disk full" {
		t.Errorf("Error() = %q", got)
	}
}

func TestIs(t *testing.T) {
	base := New(ErrCodeRenderFailed, "boom")
	wrapped := fmt.Errorf("outer context: %w", base)

	tests := []struct {
		name string
		err  error
		code Code
		want bool
	}{
		{"direct match", base, ErrCodeRenderFailed, true},
		{"direct mismatch", base, ErrCodeStore, false},
		{"through fmt wrapping", wrapped, ErrCodeRenderFailed, true},
		{"plain error", stderrors.New("plain"), ErrCodeRenderFailed, false},
		{"nil error", nil, ErrCodeRenderFailed, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.want {
				t.Errorf("Is = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(ErrCodeNoOpEdit, "nothing to do")); got != ErrCodeNoOpEdit {
		t.Errorf("GetCode = %q", got)
	}
	if got := GetCode(stderrors.New("plain")); got != "" {
		t.Errorf("GetCode on plain error = %q, want empty", got)
	}
	inner := New(ErrCodeProvider, "upstream")
	outer := Wrap(ErrCodeRenderFailed, inner, "render")
	if got := GetCode(outer); got != ErrCodeRenderFailed {
		t.Errorf("GetCode = %q, want the outermost code", got)
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage(New(ErrCodeNotFound, "no such document")); got != "no such document" {
		t.Errorf("UserMessage = %q", got)
	}
	if got := UserMessage(stderrors.New("raw failure")); got != "raw failure" {
		t.Errorf("UserMessage on plain error = %q", got)
	}
}

func ExampleWrap() {
	cause := stderrors.New("connection refused")
	err := Wrap(ErrCodeStore, cause, "load document %q", "doc-7")
	fmt.Println(err)
	fmt.Println(GetCode(err))
	fmt.Println(UserMessage(err))
	// Output:
	// STORE_ERROR: load document "doc-7": connection refused
	// STORE_ERROR
	// load document "doc-7"
}
