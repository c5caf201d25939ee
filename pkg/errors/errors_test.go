package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeSelfRelation, "goal %d cannot relate to itself", 42)

	if err.Code != ErrCodeSelfRelation {
		t.Errorf("Code = %s, want %s", err.Code, ErrCodeSelfRelation)
	}
	want := "SELF_RELATION: goal 42 cannot relate to itself"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestWrap(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := Wrap(ErrCodeStore, cause, "commit position for %d", 7)

	if !stderrors.Is(err, cause) {
		t.Error("wrapped error should match cause via errors.Is")
	}
	if err.Unwrap() != cause {
		t.Error("Unwrap() should return the cause")
	}
}

func TestIs(t *testing.T) {
	err := New(ErrCodeNodeNotFound, "node 3 not in graph")

	if !Is(err, ErrCodeNodeNotFound) {
		t.Error("Is() should match the error's own code")
	}
	if Is(err, ErrCodeStore) {
		t.Error("Is() should not match a different code")
	}
	if Is(stderrors.New("plain"), ErrCodeStore) {
		t.Error("Is() should not match plain errors")
	}
}

func TestIs_WrappedChain(t *testing.T) {
	inner := New(ErrCodeInvalidRelation, "unknown relation %q", "friend")
	outer := fmt.Errorf("ingest edge: %w", inner)

	if !Is(outer, ErrCodeInvalidRelation) {
		t.Error("Is() should find the code through fmt.Errorf wrapping")
	}
	if GetCode(outer) != ErrCodeInvalidRelation {
		t.Errorf("GetCode() = %s, want %s", GetCode(outer), ErrCodeInvalidRelation)
	}
}

func TestUserMessage(t *testing.T) {
	err := New(ErrCodeInvalidInput, "name is required")
	if got := UserMessage(err); got != "name is required" {
		t.Errorf("UserMessage() = %q, want %q", got, "name is required")
	}

	plain := stderrors.New("boom")
	if got := UserMessage(plain); got != "boom" {
		t.Errorf("UserMessage(plain) = %q, want %q", got, "boom")
	}
}

func TestGetCode_Plain(t *testing.T) {
	if got := GetCode(stderrors.New("x")); got != "" {
		t.Errorf("GetCode(plain) = %q, want empty", got)
	}
}
