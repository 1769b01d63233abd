package dbtime

import (
	"testing"
	"time"
)

func TestTod(t *testing.T) {
	a, err := ParseTod("08:30")
	if err != nil {
		t.Fatal(err)
	}
	b, err := ParseTod("08:30:01")
	if err != nil {
		t.Fatal(err)
	}
	if !a.Before(b) || b.Before(a) || a.Before(a) {
		t.Fatalf("Before is wrong for %s / %s", a, b)
	}
	if _, err := ParseTod("8h30"); err == nil {
		t.Fatalf("bad clock accepted")
	}

	var scanned Tod
	if err := scanned.Scan("13:05:00"); err != nil || scanned.String() != "13:05" {
		t.Fatalf("scan string = %s, %v", scanned, err)
	}
	if err := scanned.Scan(time.Date(2024, 1, 1, 7, 45, 0, 0, time.UTC)); err != nil || scanned.String() != "07:45" {
		t.Fatalf("scan time = %s, %v", scanned, err)
	}
	if v, _ := a.Value(); v != "08:30:00" {
		t.Fatalf("value = %v", v)
	}

	raw, err := a.MarshalJSON()
	if err != nil || string(raw) != `"08:30"` {
		t.Fatalf("json = %s, %v", raw, err)
	}
	var back Tod
	if err := back.UnmarshalJSON([]byte(`"16:20"`)); err != nil || back.String() != "16:20" {
		t.Fatalf("unmarshal = %s, %v", back, err)
	}
}

func TestCalendar(t *testing.T) {
	// 23:30 UTC on Sunday is already Monday at UTC+3.
	now := func() time.Time { return time.Date(2024, 3, 3, 23, 30, 0, 0, time.UTC) }
	plus3 := time.FixedZone("UTC+3", 3*3600)

	if got := Today(now, plus3); got != time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC) {
		t.Fatalf("Today = %s", got)
	}
	if got := Today(now, nil); got != time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC) {
		t.Fatalf("Today utc = %s", got)
	}

	tests := map[int]int{3: 7, 4: 1, 9: 6}
	for d, want := range tests {
		if got := Weekday(time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC)); got != want {
			t.Errorf("Weekday(2024-03-%02d) = %d, want %d", d, got, want)
		}
	}

	if _, err := ParseDate("2024-13-01"); err == nil {
		t.Fatalf("month 13 accepted")
	}
	p, err := ParseDatePtr("  ")
	if err != nil || p != nil {
		t.Fatalf("blank = %v, %v", p, err)
	}
	d, _ := ParseDate("2024-03-17")
	if MonthStart(d) != time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC) || FormatDate(ToDate(d)) != "2024-03-17" {
		t.Fatalf("month start / format mismatch")
	}
}
