package core

import (
	"reflect"
	"sync"
	"testing"
)

func TestPolicy_DateFormatter_Memoized(t *testing.T) {
	policy := &Policy{}

	first := policy.DateFormatter()
	second := policy.DateFormatter()

	if first == nil {
		t.Fatal("DateFormatter() returned nil")
	}
	if first != second {
		t.Error("DateFormatter() should return the same instance on every call")
	}
	if _, ok := first.(*DateFormatter); !ok {
		t.Errorf("default helper is %T, want *DateFormatter", first)
	}
}

func TestPolicy_DateFormatter_ConcurrentFirstAccess(t *testing.T) {
	policy := &Policy{}

	const workers = 32
	results := make([]DateParser, workers)

	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			results[i] = policy.DateFormatter()
		}(i)
	}
	close(start)
	wg.Wait()

	for i, r := range results {
		if r != results[0] {
			t.Fatalf("worker %d saw a different helper instance", i)
		}
	}
}

func TestPolicy_DateFormatter_Installed(t *testing.T) {
	helper := NewDateFormatter(DateFormatterConfig{InputDateFormat: "MM/DD/YYYY"})
	policy := &Policy{}
	policy.SetDateFormatter(helper)

	if got := policy.DateFormatter(); got != DateParser(helper) {
		t.Errorf("DateFormatter() = %v, want installed helper", got)
	}

	policy.SetDateFormatter(nil)
	if got := policy.DateFormatter(); got == DateParser(helper) {
		t.Error("clearing the helper should build a fresh default")
	}
}

func TestPolicy_IndependentHelpers(t *testing.T) {
	a, b := &Policy{}, &Policy{}
	if a.DateFormatter() == b.DateFormatter() {
		t.Error("each policy should own its own helper")
	}
}

func TestPolicy_ResolvedDateFormat(t *testing.T) {
	policy := &Policy{}
	if got := policy.ResolvedDateFormat(); got != DefaultInputDateFormat {
		t.Errorf("ResolvedDateFormat() = %q, want %q", got, DefaultInputDateFormat)
	}
	if policy.formatter.Load() == nil {
		t.Error("resolving the format should build the helper")
	}

	policy.DateFormat = "DD.MM.YYYY"
	if got := policy.ResolvedDateFormat(); got != "DD.MM.YYYY" {
		t.Errorf("ResolvedDateFormat() = %q, want %q", got, "DD.MM.YYYY")
	}

	custom := &Policy{}
	custom.SetDateFormatter(NewDateFormatter(DateFormatterConfig{InputDateFormat: "YYYY/MM/DD"}))
	if got := custom.ResolvedDateFormat(); got != "YYYY/MM/DD" {
		t.Errorf("ResolvedDateFormat() = %q, want helper default", got)
	}
}

func TestPolicy_Overlap(t *testing.T) {
	tests := []struct {
		name    string
		numbers []string
		dates   []string
		want    []string
	}{
		{"disjoint", []string{"qty"}, []string{"d"}, nil},
		{"one shared", []string{"qty", "f"}, []string{"f", "d"}, []string{"f"}},
		{"sorted", []string{"z", "a"}, []string{"a", "z"}, []string{"a", "z"}},
		{"absent", nil, nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewPolicy(tt.numbers, tt.dates).Overlap()
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Overlap() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFieldSet(t *testing.T) {
	var absent FieldSet
	if absent.Has("x") {
		t.Error("nil FieldSet should not contain anything")
	}
	if absent.Len() != 0 {
		t.Errorf("nil FieldSet Len() = %d, want 0", absent.Len())
	}

	set := NewFieldSet("b", "a", "", "b")
	if set.Len() != 2 {
		t.Errorf("Len() = %d, want 2", set.Len())
	}
	if !set.Has("a") || !set.Has("b") || set.Has("") {
		t.Errorf("unexpected membership: %v", set)
	}
	if got := set.Names(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("Names() = %v, want [a b]", got)
	}
}
