package models

import "testing"

func TestStringArrayRoundTrip(t *testing.T) {
	a := StringArray{"work", "q1"}
	v, err := a.Value()
	if err != nil {
		t.Fatalf("Value: %v", err)
	}

	var out StringArray
	if err := out.Scan(v); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(out) != 2 || out[0] != "work" || out[1] != "q1" {
		t.Errorf("round trip = %v, order must be preserved", out)
	}
}

func TestStringArrayScanLegacyCommaSeparated(t *testing.T) {
	var out StringArray
	if err := out.Scan("reading, go ,"); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(out) != 2 || out[0] != "reading" || out[1] != "go" {
		t.Errorf("legacy scan = %v", out)
	}
}

func TestStringArrayScanNull(t *testing.T) {
	var out StringArray
	if err := out.Scan(nil); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if out == nil || len(out) != 0 {
		t.Errorf("nil scan = %v, want empty non-nil", out)
	}
}

func TestStringArrayNilValue(t *testing.T) {
	var a StringArray
	v, err := a.Value()
	if err != nil {
		t.Fatalf("Value: %v", err)
	}
	if v != "[]" {
		t.Errorf("nil Value = %v, want []", v)
	}
}
