package enginelog

import "testing"

func TestLoggerAccumulatesAndClears(t *testing.T) {
	l := New()
	if l.Str() != "" {
		t.Fatal("expected empty logger to report empty string")
	}
	l.Log("first error")
	l.Log("second error")
	if got := l.Str(); got != "first error\nsecond error" {
		t.Fatalf("unexpected log contents: %q", got)
	}
	l.Clear()
	if l.Str() != "" {
		t.Fatal("expected logger to be empty after Clear")
	}
}
