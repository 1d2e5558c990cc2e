package aggregates

import (
	"errors"
	"fmt"
	"testing"
)

func TestError_Format(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{NewError(CodeNotFound, "Enroll", "course not found", nil), "Enroll: course not found (not_found)"},
		{NewError(CodeStorage, " Score ", "", nil), "Score (storage)"},
		{NewError(CodeConflict, "", "lost race", nil), "lost race (conflict)"},
		{NewError(CodeInternal, "", "", nil), "internal"},
	}
	for _, tc := range cases {
		if got := tc.err.Error(); got != tc.want {
			t.Fatalf("want %q, got %q", tc.want, got)
		}
	}
}

func TestCodeOf_FindsOutermost(t *testing.T) {
	cause := errors.New("driver: broken pipe")
	inner := Wrap(CodeConflict, "store.Upsert", cause)
	outer := NewError(CodeStorage, "Enroll", "storage failure", fmt.Errorf("retry: %w", inner))

	if got := CodeOf(outer); got != CodeStorage {
		t.Fatalf("want storage, got %q", got)
	}
	if !errors.Is(outer, cause) {
		t.Fatalf("cause not reachable")
	}
	if CodeOf(cause) != "" || IsCode(nil, CodeStorage) {
		t.Fatalf("plain errors carry no code")
	}
	if Wrap(CodeStorage, "op", nil) != nil {
		t.Fatalf("wrap of nil must be nil")
	}
}

func TestContract_Satisfies(t *testing.T) {
	if err := CourseworkContract.Satisfies(CourseworkContract); err != nil {
		t.Fatalf("contract must satisfy itself: %v", err)
	}
	weak := Contract{Name: "weak", InsertIfAbsent: true}
	if err := weak.Satisfies(CourseworkContract); err == nil {
		t.Fatalf("expected atomic-writes failure")
	}
	if err := weak.Satisfies(Contract{InsertIfAbsent: true}); err != nil {
		t.Fatalf("unexpected: %v", err)
	}
}
