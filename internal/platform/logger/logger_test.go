package logger

import (
	"strings"
	"testing"
)

func TestSanitizeKVs(t *testing.T) {
	redactOnce.Do(func() { redactionEnabled = true })

	got := sanitizeKVs([]interface{}{
		"email", "ada@example.com",
		"student_id", "6f1c0e3a",
		"course_id", "c-1",
		"payload", map[string]interface{}{"Password": "hunter22", "score": 75},
		"dangling",
	})
	if len(got) != 9 {
		t.Fatalf("unexpected length %d: %v", len(got), got)
	}
	if got[1] != "[REDACTED]" {
		t.Fatalf("email not redacted: %v", got[1])
	}
	if s, _ := got[3].(string); !strings.HasPrefix(s, "hash:") || len(s) != len("hash:")+12 {
		t.Fatalf("student_id not hashed: %v", got[3])
	}
	if got[5] != "c-1" {
		t.Fatalf("course_id must pass through: %v", got[5])
	}
	nested, _ := got[7].(map[string]interface{})
	if nested["Password"] != "[REDACTED]" || nested["score"] != 75 {
		t.Fatalf("nested map not sanitized: %v", nested)
	}
	if got[8] != "dangling" {
		t.Fatalf("odd trailing key dropped: %v", got)
	}
}

func TestNew_Modes(t *testing.T) {
	for _, mode := range []string{"production", "test", "development"} {
		l, err := New(mode)
		if err != nil {
			t.Fatalf("%s: %v", mode, err)
		}
		l.With("component", "test").Debug("ok", "k", "v")
	}
}
