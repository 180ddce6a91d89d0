package analytics

import (
	"testing"
	"time"
)

func fixedResolver(t *testing.T, now string) *PeriodResolver {
	t.Helper()
	parsed, err := time.ParseInLocation("2006-01-02 15:04:05", now, time.UTC)
	if err != nil {
		t.Fatalf("parse now: %v", err)
	}
	resolver := NewPeriodResolver(time.UTC)
	resolver.now = func() time.Time { return parsed }
	return resolver
}

func TestResolve_DefaultTrailing30Days(t *testing.T) {
	resolver := fixedResolver(t, "2025-06-30 14:30:00")

	window, err := resolver.Resolve("", "")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if got := window.Start.Format("2006-01-02 15:04:05"); got != "2025-06-01 00:00:00" {
		t.Fatalf("unexpected start: %s", got)
	}
	if got := window.End.Format("2006-01-02 15:04:05"); got != "2025-06-30 23:59:59" {
		t.Fatalf("unexpected end: %s", got)
	}
	if days := window.Days(); days != 30 {
		t.Fatalf("expected 30 days, got %d", days)
	}
}

func TestResolve_ExplicitBounds(t *testing.T) {
	resolver := fixedResolver(t, "2025-06-30 14:30:00")

	window, err := resolver.Resolve("2025-03-05", "2025-03-09")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if got := window.Start.Format("2006-01-02 15:04:05"); got != "2025-03-05 00:00:00" {
		t.Fatalf("unexpected start: %s", got)
	}
	if got := window.End.Format("2006-01-02 15:04:05"); got != "2025-03-09 23:59:59" {
		t.Fatalf("unexpected end: %s", got)
	}
	if days := window.Days(); days != 5 {
		t.Fatalf("expected 5 days, got %d", days)
	}
}

func TestResolve_MalformedDates(t *testing.T) {
	resolver := fixedResolver(t, "2025-06-30 14:30:00")

	if _, err := resolver.Resolve("03/05/2025", ""); err == nil {
		t.Fatalf("expected error for malformed date_from")
	}
	if _, err := resolver.Resolve("", "yesterday"); err == nil {
		t.Fatalf("expected error for malformed date_to")
	}
}

func TestResolve_InvertedRange(t *testing.T) {
	resolver := fixedResolver(t, "2025-06-30 14:30:00")
	if _, err := resolver.Resolve("2025-06-20", "2025-06-10"); err == nil {
		t.Fatalf("expected error for inverted range")
	}
}

func TestPrevious(t *testing.T) {
	resolver := fixedResolver(t, "2025-06-30 14:30:00")
	window, err := resolver.Resolve("2025-06-08", "2025-06-14")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}

	previous := resolver.Previous(window)
	if got := previous.Start.Format("2006-01-02"); got != "2025-06-01" {
		t.Fatalf("unexpected previous start: %s", got)
	}
	if got := previous.End.Format("2006-01-02"); got != "2025-06-07" {
		t.Fatalf("unexpected previous end: %s", got)
	}
	if previous.Days() != window.Days() {
		t.Fatalf("previous window length %d != %d", previous.Days(), window.Days())
	}
}

func TestYearAgo(t *testing.T) {
	resolver := fixedResolver(t, "2025-06-30 14:30:00")
	window, err := resolver.Resolve("2025-06-01", "2025-06-30")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}

	yearAgo := resolver.YearAgo(window)
	if got := yearAgo.Start.Format("2006-01-02"); got != "2024-06-01" {
		t.Fatalf("unexpected year-ago start: %s", got)
	}
	if got := yearAgo.End.Format("2006-01-02"); got != "2024-06-30" {
		t.Fatalf("unexpected year-ago end: %s", got)
	}
}

func TestEachDayAndEachMonth(t *testing.T) {
	resolver := fixedResolver(t, "2025-06-30 14:30:00")
	window, err := resolver.Resolve("2025-01-30", "2025-03-02")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}

	var days []string
	window.EachDay(func(day string) { days = append(days, day) })
	if len(days) != 32 {
		t.Fatalf("expected 32 days, got %d", len(days))
	}
	if days[0] != "2025-01-30" || days[len(days)-1] != "2025-03-02" {
		t.Fatalf("unexpected day bounds: %s .. %s", days[0], days[len(days)-1])
	}

	var months []string
	window.EachMonth(func(month string) { months = append(months, month) })
	want := []string{"2025-01", "2025-02", "2025-03"}
	if len(months) != len(want) {
		t.Fatalf("expected %d months, got %d", len(want), len(months))
	}
	for i := range want {
		if months[i] != want[i] {
			t.Fatalf("month %d = %s, want %s", i, months[i], want[i])
		}
	}
}

func TestTodayAndMonthToDate(t *testing.T) {
	resolver := fixedResolver(t, "2025-06-15 08:00:00")

	today := resolver.Today()
	if got := today.Start.Format("2006-01-02 15:04:05"); got != "2025-06-15 00:00:00" {
		t.Fatalf("unexpected today start: %s", got)
	}
	if today.Days() != 1 {
		t.Fatalf("expected single day, got %d", today.Days())
	}

	month := resolver.MonthToDate()
	if got := month.Start.Format("2006-01-02"); got != "2025-06-01" {
		t.Fatalf("unexpected month start: %s", got)
	}
	if got := month.End.Format("2006-01-02"); got != "2025-06-15" {
		t.Fatalf("unexpected month end: %s", got)
	}
}
