package flagx

import (
	"reflect"
	"testing"
)

func TestFilterArgs_SeparateValue(t *testing.T) {
	args := []string{"-a", ":8000", "-x", "ignored", "-d", "dsn"}
	got := FilterArgs(args, []string{"-a", "-d"})
	want := []string{"-a", ":8000", "-d", "dsn"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("FilterArgs = %v, want %v", got, want)
	}
}

func TestFilterArgs_EqualsForm(t *testing.T) {
	args := []string{"--config=conf.json", "--other=skip", "-s=key"}
	got := FilterArgs(args, []string{"--config", "-s"})
	want := []string{"--config=conf.json", "-s=key"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("FilterArgs = %v, want %v", got, want)
	}
}

func TestFilterArgs_FlagFollowedByFlag(t *testing.T) {
	// A bare allowed flag immediately followed by another flag must not
	// swallow the next flag as its value.
	args := []string{"-a", "-d", "dsn"}
	got := FilterArgs(args, []string{"-a", "-d"})
	want := []string{"-a", "-d", "dsn"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("FilterArgs = %v, want %v", got, want)
	}
}

func TestFilterArgs_Empty(t *testing.T) {
	got := FilterArgs(nil, []string{"-a"})
	if len(got) != 0 {
		t.Fatalf("expected empty result, got %v", got)
	}
}
