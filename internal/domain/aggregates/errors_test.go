package aggregates

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorCodeSurvivesWrapping(t *testing.T) {
	cause := errors.New("no such question")
	err := fmt.Errorf("submit: %w", NewError(CodeNotFound, "Study.Quiz.Submit", "question q-1 not found", cause))

	if !IsCode(err, CodeNotFound) {
		t.Fatalf("expected not_found, got %q", CodeOf(err))
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected cause reachable through errors.Is")
	}
	if !errors.Is(err, &Error{Code: CodeNotFound}) {
		t.Fatalf("expected code match through errors.Is")
	}
	if errors.Is(err, &Error{Code: CodeNotFound, Op: "Study.Quiz.Start"}) {
		t.Fatalf("op mismatch must not match")
	}
	if got := CodeOf(errors.New("plain")); got != "" || IsCode(errors.New("plain"), "") {
		t.Fatalf("expected empty code for plain error, got %q", got)
	}
}

func TestErrorString(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{Errorf(CodeDivisionByZero, "op", "%d answers submitted", 0), "op: 0 answers submitted [division_by_zero]"},
		{NewError(CodeNotConnected, "", "", nil), "not_connected"},
		{NewError(CodeRetryable, "Study.User.Create", "", nil), "Study.User.Create: retryable"},
	}
	for _, tc := range cases {
		if got := tc.err.Error(); got != tc.want {
			t.Fatalf("got %q, want %q", got, tc.want)
		}
	}
	if Wrap(CodeInternal, "op", nil) != nil {
		t.Fatalf("Wrap(nil) must be nil")
	}
	if !Retryable(Wrap(CodeRetryable, "op", errors.New("database is locked"))) {
		t.Fatalf("expected retryable")
	}
}
