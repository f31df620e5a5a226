package timex

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDuration_UnmarshalString(t *testing.T) {
	var d Duration
	if err := json.Unmarshal([]byte(`"90m"`), &d); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Duration != 90*time.Minute {
		t.Fatalf("got %v, want 90m", d.Duration)
	}
}

func TestDuration_UnmarshalNanoseconds(t *testing.T) {
	var d Duration
	if err := json.Unmarshal([]byte(`1000000000`), &d); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Duration != time.Second {
		t.Fatalf("got %v, want 1s", d.Duration)
	}
}

func TestDuration_UnmarshalInvalid(t *testing.T) {
	var d Duration
	if err := json.Unmarshal([]byte(`"not-a-duration"`), &d); err == nil {
		t.Fatal("expected error for invalid duration string")
	}
	if err := json.Unmarshal([]byte(`true`), &d); err == nil {
		t.Fatal("expected error for invalid duration type")
	}
}

func TestDuration_MarshalRoundTrip(t *testing.T) {
	d := Duration{Duration: 30 * time.Minute}
	b, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var back Duration
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if back.Duration != d.Duration {
		t.Fatalf("round trip mismatch: %v != %v", back.Duration, d.Duration)
	}
}
