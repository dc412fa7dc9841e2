package service

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"factfake_backend/internal/model"
	"factfake_backend/internal/repository"
	"factfake_backend/internal/util"
)

func record(questionID uint, correct bool, answeredAt time.Time) model.AnswerRecord {
	return model.AnswerRecord{
		QuestionID: questionID,
		IsCorrect:  correct,
		AnsweredAt: answeredAt,
	}
}

func TestExcludedQuestionIDs(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		records []model.AnswerRecord
		want    map[uint]bool
	}{
		{
			name:    "no history",
			records: nil,
			want:    map[uint]bool{},
		},
		{
			name: "recent correct excluded",
			records: []model.AnswerRecord{
				record(1, true, now.AddDate(0, 0, -13)),
			},
			want: map[uint]bool{1: true},
		},
		{
			name: "old correct eligible again",
			records: []model.AnswerRecord{
				record(1, true, now.AddDate(0, 0, -15)),
			},
			want: map[uint]bool{},
		},
		{
			name: "recent incorrect excluded",
			records: []model.AnswerRecord{
				record(2, false, now.AddDate(0, 0, -6)),
			},
			want: map[uint]bool{2: true},
		},
		{
			name: "incorrect past shorter window eligible",
			records: []model.AnswerRecord{
				record(2, false, now.AddDate(0, 0, -8)),
			},
			want: map[uint]bool{},
		},
		{
			name: "only latest record counts",
			records: []model.AnswerRecord{
				record(3, true, now.AddDate(0, 0, -10)),
				record(3, false, now.AddDate(0, 0, -8)),
			},
			// 最近一次是 8 天前的答错，已出 7 天窗口
			want: map[uint]bool{},
		},
		{
			name: "latest incorrect overrides old correct",
			records: []model.AnswerRecord{
				record(4, true, now.AddDate(0, 0, -20)),
				record(4, false, now.AddDate(0, 0, -2)),
			},
			want: map[uint]bool{4: true},
		},
		{
			name: "mixed pool",
			records: []model.AnswerRecord{
				record(1, true, now.AddDate(0, 0, -1)),
				record(2, false, now.AddDate(0, 0, -1)),
				record(3, true, now.AddDate(0, 0, -20)),
			},
			want: map[uint]bool{1: true, 2: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := excludedQuestionIDs(tt.records, now)
			if len(got) != len(tt.want) {
				t.Fatalf("excluded %v, want %v", got, tt.want)
			}
			for _, id := range got {
				if !tt.want[id] {
					t.Fatalf("question %d excluded unexpectedly", id)
				}
			}
		})
	}
}

func TestSelectRejectsNonPositiveCount(t *testing.T) {
	// 数量校验先于任何仓储访问，空 service 即可验证
	s := &SelectorService{}
	for _, count := range []int{0, -1} {
		if _, err := s.Select(1, repository.QuestionFilter{}, count); !errors.Is(err, util.ErrQuestionPoolEmpty) {
			t.Fatalf("Select(count=%d) = %v, want ErrQuestionPoolEmpty", count, err)
		}
	}
}

func TestShuffleQuestionsPreservesElements(t *testing.T) {
	questions := make([]model.Question, 20)
	for i := range questions {
		questions[i].ID = uint(i + 1)
	}

	rng := rand.New(rand.NewSource(42))
	shuffleQuestions(questions, rng.Intn)

	seen := make(map[uint]bool, len(questions))
	for _, q := range questions {
		if seen[q.ID] {
			t.Fatalf("question %d duplicated by shuffle", q.ID)
		}
		seen[q.ID] = true
	}
	if len(seen) != 20 {
		t.Fatalf("shuffle lost questions: %d remain", len(seen))
	}
}

func TestShuffleQuestionsSmallSlices(t *testing.T) {
	// 空切片与单元素切片不应触碰随机源
	shuffleQuestions(nil, func(int) int { t.Fatal("rng called for empty slice"); return 0 })

	one := []model.Question{{}}
	one[0].ID = 7
	shuffleQuestions(one, func(int) int { t.Fatal("rng called for single element"); return 0 })
	if one[0].ID != 7 {
		t.Fatalf("single element changed: %d", one[0].ID)
	}
}
