package service

import (
	"testing"
	"time"

	"factfake_backend/internal/repository"
)

func TestStreakRowsReplay(t *testing.T) {
	outcomes := []repository.WindowOutcome{
		{UserID: 1, Name: "alice", IsCorrect: true, TimeSpentSeconds: 10},
		{UserID: 1, Name: "alice", IsCorrect: true, TimeSpentSeconds: 10},
		{UserID: 1, Name: "alice", IsCorrect: false, TimeSpentSeconds: 5},
		{UserID: 1, Name: "alice", IsCorrect: true, TimeSpentSeconds: 5},
		{UserID: 2, Name: "bob", IsCorrect: true, TimeSpentSeconds: 8},
		{UserID: 2, Name: "bob", IsCorrect: true, TimeSpentSeconds: 8},
		{UserID: 2, Name: "bob", IsCorrect: true, TimeSpentSeconds: 8},
	}

	rows := streakRows(outcomes)
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}

	// alice 峰值 2（答错后重来只到 1），bob 连续 3 对
	if rows[0].UserID != 1 || rows[0].Value != 2 || rows[0].TimeSeconds != 30 {
		t.Fatalf("alice row = %+v", rows[0])
	}
	if rows[1].UserID != 2 || rows[1].Value != 3 || rows[1].TimeSeconds != 24 {
		t.Fatalf("bob row = %+v", rows[1])
	}
}

func TestStreakRowsAllIncorrect(t *testing.T) {
	rows := streakRows([]repository.WindowOutcome{
		{UserID: 1, Name: "alice", IsCorrect: false, TimeSpentSeconds: 4},
		{UserID: 1, Name: "alice", IsCorrect: false, TimeSpentSeconds: 6},
	})
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	if rows[0].Value != 0 || rows[0].TimeSeconds != 10 {
		t.Fatalf("row = %+v", rows[0])
	}
}

func TestSortRowsAndRanking(t *testing.T) {
	rows := []metricRow{
		{UserID: 1, Value: 5, TimeSeconds: 100},
		{UserID: 2, Value: 9, TimeSeconds: 80},
		{UserID: 3, Value: 5, TimeSeconds: 50},
		{UserID: 4, Value: 5, TimeSeconds: 50},
	}
	sortRows(rows)

	wantOrder := []uint{2, 3, 4, 1}
	for i, id := range wantOrder {
		if rows[i].UserID != id {
			t.Fatalf("position %d: user %d, want %d", i, rows[i].UserID, id)
		}
	}

	// 名次 = 1 + 严格更优者数：并列者共享名次
	ranks := make([]int, len(rows))
	for i := range rows {
		rank := 1
		for j := range rows {
			if strictlyBetter(rows[j], rows[i]) {
				rank++
			}
		}
		ranks[i] = rank
	}
	wantRanks := []int{1, 2, 2, 4}
	for i, want := range wantRanks {
		if ranks[i] != want {
			t.Fatalf("rank[%d] = %d, want %d", i, ranks[i], want)
		}
	}
}

func TestStrictlyBetter(t *testing.T) {
	tests := []struct {
		name string
		a, b metricRow
		want bool
	}{
		{"higher value wins", metricRow{Value: 10}, metricRow{Value: 5}, true},
		{"lower value loses", metricRow{Value: 5}, metricRow{Value: 10}, false},
		{"tie broken by time", metricRow{Value: 5, TimeSeconds: 30}, metricRow{Value: 5, TimeSeconds: 40}, true},
		{"exact tie is not better", metricRow{Value: 5, TimeSeconds: 30}, metricRow{Value: 5, TimeSeconds: 30}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := strictlyBetter(tt.a, tt.b); got != tt.want {
				t.Fatalf("strictlyBetter = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWindowStart(t *testing.T) {
	// 2026-03-18 是周三
	wed := time.Date(2026, 3, 18, 15, 30, 0, 0, time.UTC)

	if got := windowStart(WindowWeekly, wed); !got.Equal(time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("weekly start = %v", got)
	}
	if got := windowStart(WindowMonthly, wed); !got.Equal(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("monthly start = %v", got)
	}
	if got := windowStart(WindowYearly, wed); !got.Equal(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("yearly start = %v", got)
	}
	if got := windowStart(WindowAllTime, wed); !got.IsZero() {
		t.Fatalf("all-time start = %v, want zero", got)
	}
}

func TestWindowStartMondayBoundary(t *testing.T) {
	// 周一零点整属于当周，不回退到上一周
	monday := time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC)
	if got := windowStart(WindowWeekly, monday); !got.Equal(monday) {
		t.Fatalf("weekly start on Monday midnight = %v, want %v", got, monday)
	}

	// 周日晚归入从上周一起算的那一周
	sunday := time.Date(2026, 3, 22, 23, 59, 0, 0, time.UTC)
	if got := windowStart(WindowWeekly, sunday); !got.Equal(monday) {
		t.Fatalf("weekly start on Sunday night = %v, want %v", got, monday)
	}
}
