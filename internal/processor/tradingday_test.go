package processor

import (
	"testing"
	"time"
)

func mustBeijing(t *testing.T, value string) time.Time {
	t.Helper()
	d, err := time.ParseInLocation("2006-01-02 15:04", value, locEast8)
	if err != nil {
		t.Fatalf("parse %q: %v", value, err)
	}
	return d
}

func TestPrevTradingDayFromMonday(t *testing.T) {
	cal := NewTradingCalendar(nil)
	// 2025-09-01 周一，上一交易日是上周五
	got := cal.PrevTradingDayLabel(mustBeijing(t, "2025-09-01 09:00"))
	if got != "2025-08-29" {
		t.Fatalf("got %q, want 2025-08-29", got)
	}
}

func TestPrevTradingDayFromWeekend(t *testing.T) {
	cal := NewTradingCalendar(nil)
	for _, day := range []string{"2025-08-30 12:00", "2025-08-31 12:00"} {
		got := cal.PrevTradingDayLabel(mustBeijing(t, day))
		if got != "2025-08-29" {
			t.Fatalf("run on %s: got %q, want 2025-08-29", day, got)
		}
	}
}

func TestPrevTradingDaySkipsHoliday(t *testing.T) {
	cal := NewTradingCalendar([]string{"2025-08-29"})
	// 周五是节假日时继续往前找周四
	got := cal.PrevTradingDayLabel(mustBeijing(t, "2025-09-01 09:00"))
	if got != "2025-08-28" {
		t.Fatalf("got %q, want 2025-08-28", got)
	}
}

func TestPrevTradingDayStrictlyEarlier(t *testing.T) {
	cal := NewTradingCalendar(nil)
	// 周三运行，即使当天是交易日也取前一天
	run := mustBeijing(t, "2025-09-03 15:00")
	got := cal.PrevTradingDay(run)
	if got.Format("2006-01-02") != "2025-09-02" {
		t.Fatalf("got %s, want 2025-09-02", got.Format("2006-01-02"))
	}
}

func TestIsTradingDay(t *testing.T) {
	cal := NewTradingCalendar([]string{"2025-10-01"})
	cases := []struct {
		day  string
		want bool
	}{
		{"2025-09-03 10:00", true},  // 周三
		{"2025-08-30 10:00", false}, // 周六
		{"2025-10-01 10:00", false}, // 国庆节
	}
	for _, c := range cases {
		if got := cal.IsTradingDay(mustBeijing(t, c.day)); got != c.want {
			t.Fatalf("IsTradingDay(%s) = %v, want %v", c.day, got, c.want)
		}
	}
}
