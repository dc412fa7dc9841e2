package service

import (
	"factfake_backend/internal/model"
	"time"
)

// AnswerSubmission 客户端提交的单题作答：对陈述的真假判断与作答用时
// swagger:model AnswerSubmission
type AnswerSubmission struct {
	QuestionID       uint `json:"questionId" binding:"required"`
	Answer           bool `json:"answer"`
	TimeSpentSeconds int  `json:"timeSpentSeconds"`
}

// AnswerReview 判分后返回给客户端的逐题反馈，此时才揭示真值与解释
// swagger:model AnswerReview
type AnswerReview struct {
	QuestionID  uint   `json:"questionId"`
	Correct     bool   `json:"correct"`
	IsTrue      bool   `json:"isTrue"`
	Explanation string `json:"explanation,omitempty"`
	Source      string `json:"source,omitempty"`
	Score       int    `json:"score"`
}

// judgedSubmission 一次提交判分后的汇总结果
type judgedSubmission struct {
	records   []model.AnswerRecord
	reviews   []AnswerReview
	score     int
	correct   int
	totalTime int

	// 提交内连对：peak 为本次提交达到的最高值，final 为收尾时的值
	peakStreak  int
	finalStreak int
}

// judgeSubmission 按提交顺序逐题判分。正确性由服务端根据存储的真值判定，
// 连对重置与计分顺序由 Scorer 保证。
func judgeSubmission(userID uint, questions map[uint]*model.Question, results []AnswerSubmission, mode ScoreMode, recordMode model.AnswerMode, now time.Time) judgedSubmission {
	scorer := NewScorer(mode)
	out := judgedSubmission{
		records: make([]model.AnswerRecord, 0, len(results)),
		reviews: make([]AnswerReview, 0, len(results)),
	}

	for _, res := range results {
		q := questions[res.QuestionID]
		correct := res.Answer == q.IsTrue
		timeSpent := res.TimeSpentSeconds
		if timeSpent < 0 {
			timeSpent = 0
		}

		score := scorer.Score(correct, timeSpent, q.Difficulty)

		if correct {
			out.correct++
		}
		out.score += score
		out.totalTime += timeSpent
		if scorer.Streak() > out.peakStreak {
			out.peakStreak = scorer.Streak()
		}

		out.records = append(out.records, model.AnswerRecord{
			UserID:           userID,
			QuestionID:       q.ID,
			IsCorrect:        correct,
			TimeSpentSeconds: timeSpent,
			Score:            score,
			Mode:             recordMode,
			AnsweredAt:       now,
		})
		out.reviews = append(out.reviews, AnswerReview{
			QuestionID:  q.ID,
			Correct:     correct,
			IsTrue:      q.IsTrue,
			Explanation: q.Explanation,
			Source:      q.Source,
			Score:       score,
		})
	}

	out.finalStreak = scorer.Streak()
	return out
}

// advanceAnswerStreak 将全时连对沿一次提交的结果序列向前推进，
// 返回收尾值与过程中达到的峰值。峰值交给 GREATEST 保证 best 只增不减。
func advanceAnswerStreak(current int, records []model.AnswerRecord) (final, peak int) {
	final = current
	peak = current
	for _, rec := range records {
		if rec.IsCorrect {
			final++
			if final > peak {
				peak = final
			}
		} else {
			final = 0
		}
	}
	return final, peak
}

// questionIndex 把题目切片转成按 ID 索引的映射
func questionIndex(questions []model.Question) map[uint]*model.Question {
	idx := make(map[uint]*model.Question, len(questions))
	for i := range questions {
		idx[questions[i].ID] = &questions[i]
	}
	return idx
}
