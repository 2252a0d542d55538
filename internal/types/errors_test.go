package types

import (
	"errors"
	"fmt"
	"testing"
)

func TestRetryableErrorUnwrap(t *testing.T) {
	base := errors.New("rate limited")
	err := NewRetryableError(base)

	if !errors.Is(err, base) {
		t.Error("expected errors.Is to find the wrapped error")
	}

	var re *RetryableError
	if !errors.As(err, &re) {
		t.Fatal("expected errors.As to match RetryableError")
	}
	if re.Err != base {
		t.Errorf("expected wrapped error %v, got %v", base, re.Err)
	}
}

func TestRetryableErrorThroughWrapping(t *testing.T) {
	base := errors.New("503")
	err := fmt.Errorf("llm request: %w", NewRetryableError(base))

	var re *RetryableError
	if !errors.As(err, &re) {
		t.Error("expected RetryableError to survive fmt.Errorf wrapping")
	}
}
