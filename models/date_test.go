package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDateOnlyJSONRoundTrip(t *testing.T) {
	d := NewDateOnly(time.Date(2026, 8, 15, 17, 42, 3, 0, time.Local))

	b, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `"2026-08-15"` {
		t.Fatalf("marshal = %s", b)
	}

	var back DateOnly
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !back.Equal(d.Time) {
		t.Fatalf("round trip = %v, want %v", back.Time, d.Time)
	}
	if h, m, s := back.Clock(); h+m+s != 0 {
		t.Fatalf("time component survived: %02d:%02d:%02d", h, m, s)
	}
}

func TestDateOnlyUnmarshalRejectsGarbage(t *testing.T) {
	var d DateOnly
	if err := json.Unmarshal([]byte(`"15/08/2026"`), &d); err == nil {
		t.Fatal("expected error for non-ISO date")
	}
	if err := json.Unmarshal([]byte(`"2026-08-15T10:00:00Z"`), &d); err == nil {
		t.Fatal("expected error for timestamp where date expected")
	}
}

func TestDateOnlyScanFormats(t *testing.T) {
	want := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)

	cases := []any{
		time.Date(2026, 8, 15, 13, 30, 0, 0, time.UTC),
		"2026-08-15",
		"2026-08-15 00:00:00+00:00",
		[]byte("2026-08-15"),
	}
	for _, src := range cases {
		var d DateOnly
		if err := d.Scan(src); err != nil {
			t.Errorf("scan %v (%T): %v", src, src, err)
			continue
		}
		if !d.Equal(want) {
			t.Errorf("scan %v (%T) = %v, want %v", src, src, d.Time, want)
		}
	}
}
