package recurrence

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDaysUntilNext(t *testing.T) {
	tests := []struct {
		name  string
		month int
		day   int
		ref   time.Time
		want  int
	}{
		{"upcoming in same year", 3, 15, date(2024, time.January, 1), 74},
		{"same day is zero", 3, 15, date(2024, time.March, 15), 0},
		{"day after rolls to next year", 3, 15, date(2024, time.March, 16), 364},
		{"new year's day from mid december", 1, 1, date(2024, time.December, 31), 1},
		{"december 31 on december 31", 12, 31, date(2024, time.December, 31), 0},
		{"time of day is ignored", 3, 15, time.Date(2024, time.March, 15, 23, 59, 0, 0, time.UTC), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DaysUntilNext(tt.month, tt.day, tt.ref)
			if got != tt.want {
				t.Errorf("DaysUntilNext(%d, %d, %v) = %d, want %d", tt.month, tt.day, tt.ref, got, tt.want)
			}
		})
	}
}

func TestDaysUntilNextLeapDay(t *testing.T) {
	// 闰年当年，2月29日是真实存在的日期
	if got := DaysUntilNext(2, 29, date(2024, time.February, 29)); got != 0 {
		t.Errorf("leap day on leap day = %d, want 0", got)
	}

	// 非闰年中，2月29日归一化为3月1日
	next := NextOccurrence(2, 29, date(2025, time.January, 1))
	if !next.Equal(date(2025, time.March, 1)) {
		t.Errorf("NextOccurrence(2, 29) in 2025 = %v, want 2025-03-01", next)
	}
	if got := DaysUntilNext(2, 29, date(2025, time.March, 1)); got != 0 {
		t.Errorf("normalized leap day on march 1 = %d, want 0", got)
	}

	// 2025-03-02起，下一次落在2026-03-01
	next = NextOccurrence(2, 29, date(2025, time.March, 2))
	if !next.Equal(date(2026, time.March, 1)) {
		t.Errorf("NextOccurrence(2, 29) after 2025-03-01 = %v, want 2026-03-01", next)
	}
}

func TestDaysUntilNextRange(t *testing.T) {
	refs := []time.Time{
		date(2024, time.January, 1),
		date(2024, time.February, 29),
		date(2024, time.December, 31),
		date(2025, time.June, 15),
	}
	for _, ref := range refs {
		for month := 1; month <= 12; month++ {
			for day := 1; day <= 31; day++ {
				if !IsValidDate(month, day) {
					continue
				}
				got := DaysUntilNext(month, day, ref)
				if got < 0 || got > 366 {
					t.Fatalf("DaysUntilNext(%d, %d, %v) = %d, out of [0, 366]", month, day, ref, got)
				}
				sameDay := int(ref.Month()) == month && ref.Day() == day
				if sameDay != (got == 0) {
					t.Fatalf("DaysUntilNext(%d, %d, %v) = %d, zero-iff-same-day violated", month, day, ref, got)
				}
			}
		}
	}
}

func TestIsValidDate(t *testing.T) {
	valid := [][2]int{{1, 31}, {2, 29}, {4, 30}, {12, 31}, {7, 1}}
	invalid := [][2]int{{0, 1}, {13, 1}, {2, 30}, {4, 31}, {6, 0}, {11, 31}}

	for _, pair := range valid {
		if !IsValidDate(pair[0], pair[1]) {
			t.Errorf("IsValidDate(%d, %d) = false, want true", pair[0], pair[1])
		}
	}
	for _, pair := range invalid {
		if IsValidDate(pair[0], pair[1]) {
			t.Errorf("IsValidDate(%d, %d) = true, want false", pair[0], pair[1])
		}
	}
}
