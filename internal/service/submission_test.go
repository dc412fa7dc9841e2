package service

import (
	"testing"
	"time"

	"factfake_backend/internal/model"
)

func testQuestions() map[uint]*model.Question {
	q1 := &model.Question{Statement: "q1", IsTrue: true, Difficulty: 2, Explanation: "because", Source: "src"}
	q1.ID = 1
	q2 := &model.Question{Statement: "q2", IsTrue: false, Difficulty: 3}
	q2.ID = 2
	q3 := &model.Question{Statement: "q3", IsTrue: true, Difficulty: 1}
	q3.ID = 3
	return map[uint]*model.Question{1: q1, 2: q2, 3: q3}
}

func TestJudgeSubmission(t *testing.T) {
	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	results := []AnswerSubmission{
		{QuestionID: 1, Answer: true, TimeSpentSeconds: 10},  // 对
		{QuestionID: 2, Answer: true, TimeSpentSeconds: 20},  // 错，真值为 false
		{QuestionID: 3, Answer: true, TimeSpentSeconds: -5},  // 对，用时钳制为 0
	}

	judged := judgeSubmission(7, testQuestions(), results, ScoreDaily, model.ModeDailySet, now)

	if judged.correct != 2 {
		t.Fatalf("correct = %d, want 2", judged.correct)
	}
	if judged.score != 2 {
		t.Fatalf("score = %d, want 2", judged.score)
	}
	if judged.totalTime != 30 {
		t.Fatalf("totalTime = %d, want 30", judged.totalTime)
	}
	if judged.peakStreak != 1 || judged.finalStreak != 1 {
		t.Fatalf("streaks = peak %d final %d, want 1/1", judged.peakStreak, judged.finalStreak)
	}

	if len(judged.records) != 3 {
		t.Fatalf("records = %d, want 3", len(judged.records))
	}
	for i, rec := range judged.records {
		if rec.UserID != 7 || rec.Mode != model.ModeDailySet || !rec.AnsweredAt.Equal(now) {
			t.Fatalf("record %d malformed: %+v", i, rec)
		}
	}
	if judged.records[2].TimeSpentSeconds != 0 {
		t.Fatalf("negative time not clamped: %d", judged.records[2].TimeSpentSeconds)
	}

	// 判分后才揭示真值与解释
	if !judged.reviews[0].Correct || !judged.reviews[0].IsTrue || judged.reviews[0].Explanation != "because" {
		t.Fatalf("review 0 = %+v", judged.reviews[0])
	}
	if judged.reviews[1].Correct || judged.reviews[1].IsTrue {
		t.Fatalf("review 1 = %+v", judged.reviews[1])
	}
	if judged.reviews[1].Score != 0 {
		t.Fatalf("incorrect answer scored %d", judged.reviews[1].Score)
	}
}

func TestJudgeSubmissionOrderMatters(t *testing.T) {
	now := time.Now()
	questions := testQuestions()

	// 全对的每日题组：提交内连对一路递增
	all := []AnswerSubmission{
		{QuestionID: 1, Answer: true},
		{QuestionID: 3, Answer: true},
		{QuestionID: 2, Answer: false},
	}
	judged := judgeSubmission(1, questions, all, ScoreDaily, model.ModeDailySet, now)
	if judged.peakStreak != 3 || judged.finalStreak != 3 {
		t.Fatalf("streaks = peak %d final %d, want 3/3", judged.peakStreak, judged.finalStreak)
	}

	// 末题答错：峰值保留，收尾清零
	lastWrong := []AnswerSubmission{
		{QuestionID: 1, Answer: true},
		{QuestionID: 3, Answer: true},
		{QuestionID: 2, Answer: true},
	}
	judged = judgeSubmission(1, questions, lastWrong, ScoreDaily, model.ModeDailySet, now)
	if judged.peakStreak != 2 || judged.finalStreak != 0 {
		t.Fatalf("streaks = peak %d final %d, want 2/0", judged.peakStreak, judged.finalStreak)
	}
}

func TestAdvanceAnswerStreak(t *testing.T) {
	rec := func(correct bool) model.AnswerRecord {
		return model.AnswerRecord{IsCorrect: correct}
	}

	tests := []struct {
		name      string
		current   int
		records   []model.AnswerRecord
		wantFinal int
		wantPeak  int
	}{
		{"empty submission", 3, nil, 3, 3},
		{"extends existing streak", 3, []model.AnswerRecord{rec(true), rec(true)}, 5, 5},
		{"reset mid-submission", 3, []model.AnswerRecord{rec(true), rec(false), rec(true)}, 1, 4},
		{"peak survives trailing miss", 0, []model.AnswerRecord{rec(true), rec(true), rec(false)}, 0, 2},
		{"all incorrect", 5, []model.AnswerRecord{rec(false), rec(false)}, 0, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			final, peak := advanceAnswerStreak(tt.current, tt.records)
			if final != tt.wantFinal || peak != tt.wantPeak {
				t.Fatalf("got final %d peak %d, want %d/%d", final, peak, tt.wantFinal, tt.wantPeak)
			}
		})
	}
}

func TestQuestionIndex(t *testing.T) {
	questions := make([]model.Question, 3)
	for i := range questions {
		questions[i].ID = uint(i + 1)
	}
	idx := questionIndex(questions)
	if len(idx) != 3 {
		t.Fatalf("index size = %d, want 3", len(idx))
	}
	for id := uint(1); id <= 3; id++ {
		if idx[id] == nil || idx[id].ID != id {
			t.Fatalf("index missing question %d", id)
		}
	}
}
