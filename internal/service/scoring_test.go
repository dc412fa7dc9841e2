package service

import "testing"

func TestDailyScoreStreakBonus(t *testing.T) {
	scorer := NewScorer(ScoreDaily)

	// 连对序列 C C C C C I C：第 5 连对得 2 分，答错清零后重新从 1 分起
	outcomes := []bool{true, true, true, true, true, false, true}
	want := []int{1, 1, 1, 1, 2, 0, 1}

	total := 0
	for i, correct := range outcomes {
		got := scorer.Score(correct, 10, 1)
		if got != want[i] {
			t.Fatalf("question %d: score = %d, want %d", i+1, got, want[i])
		}
		total += got
	}
	if total != 7 {
		t.Fatalf("total = %d, want 7", total)
	}
}

func TestDailyScoreLongStreak(t *testing.T) {
	scorer := NewScorer(ScoreDaily)
	var got int
	for i := 0; i < 10; i++ {
		got = scorer.Score(true, 0, 1)
	}
	// 第 10 连对：1 + 10/5 = 3
	if got != 3 {
		t.Fatalf("10th consecutive correct = %d, want 3", got)
	}
}

func TestCollectionScore(t *testing.T) {
	tests := []struct {
		name    string
		correct bool
		elapsed int
		want    int
	}{
		{"instant answer", true, 0, 150},
		{"within bonus window", true, 20, 130},
		{"bonus boundary", true, 50, 100},
		{"past bonus window", true, 90, 100},
		{"negative elapsed clamped", true, -5, 150},
		{"incorrect", false, 3, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scorer := NewScorer(ScoreCollection)
			if got := scorer.Score(tt.correct, tt.elapsed, 3); got != tt.want {
				t.Fatalf("Score(%v, %d) = %d, want %d", tt.correct, tt.elapsed, got, tt.want)
			}
		})
	}
}

func TestSingleScore(t *testing.T) {
	tests := []struct {
		name       string
		correct    bool
		elapsed    int
		difficulty int
		want       int
	}{
		{"easy fast", true, 0, 1, 240},
		{"hard fast", true, 0, 5, 320},
		{"hard slow", true, 60, 5, 200},
		{"past time bonus", true, 120, 3, 160},
		{"incorrect", false, 10, 5, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scorer := NewScorer(ScoreSingle)
			if got := scorer.Score(tt.correct, tt.elapsed, tt.difficulty); got != tt.want {
				t.Fatalf("Score(%v, %d, %d) = %d, want %d", tt.correct, tt.elapsed, tt.difficulty, got, tt.want)
			}
		})
	}
}

func TestIncorrectResetsStreakAcrossModes(t *testing.T) {
	scorer := NewScorer(ScoreDaily)
	for i := 0; i < 4; i++ {
		scorer.Score(true, 0, 1)
	}
	if scorer.Streak() != 4 {
		t.Fatalf("streak = %d, want 4", scorer.Streak())
	}
	if got := scorer.Score(false, 0, 1); got != 0 {
		t.Fatalf("incorrect answer scored %d, want 0", got)
	}
	if scorer.Streak() != 0 {
		t.Fatalf("streak after incorrect = %d, want 0", scorer.Streak())
	}
}
