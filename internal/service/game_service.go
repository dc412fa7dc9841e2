package service

import (
	"errors"
	"factfake_backend/internal/model"
	"factfake_backend/internal/repository"
	"factfake_backend/internal/util"
	"factfake_backend/pkg/monitoring"
	"time"

	"gorm.io/gorm"
)

// GameService 零散单题作答：不经题组或会话，直接对任意已审核题目答题
type GameService struct {
	QuestionRepo *repository.QuestionRepository
	AnswerRepo   *repository.AnswerRepository
	UserRepo     *repository.UserRepository
	Selector     *SelectorService
	DB           *gorm.DB
}

func NewGameService(questionRepo *repository.QuestionRepository, answerRepo *repository.AnswerRepository, userRepo *repository.UserRepository, selector *SelectorService, db *gorm.DB) *GameService {
	return &GameService{
		QuestionRepo: questionRepo,
		AnswerRepo:   answerRepo,
		UserRepo:     userRepo,
		Selector:     selector,
		DB:           db,
	}
}

// SingleAnswerResult 单题作答结果
// swagger:model SingleAnswerResult
type SingleAnswerResult struct {
	Correct             bool   `json:"correct"`
	IsTrue              bool   `json:"isTrue"`
	Explanation         string `json:"explanation,omitempty"`
	Source              string `json:"source,omitempty"`
	Score               int    `json:"score"`
	CurrentAnswerStreak int    `json:"currentAnswerStreak"`
}

// SubmitAnswer 单题作答，难度加权计分。
// 与题组提交同构的事务：历史追加、题目统计原子更新、用户进度；
// 不增加场次计数，也不触碰提交内连对。
func (s *GameService) SubmitAnswer(userID, questionID uint, answer bool, timeSpentSeconds int) (*SingleAnswerResult, error) {
	q, err := s.QuestionRepo.FindApprovedByID(questionID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrQuestionNotFound
	}
	if err != nil {
		return nil, err
	}

	now := time.Now()
	idx := map[uint]*model.Question{q.ID: q}
	results := []AnswerSubmission{{
		QuestionID:       questionID,
		Answer:           answer,
		TimeSpentSeconds: timeSpentSeconds,
	}}
	judged := judgeSubmission(userID, idx, results, ScoreSingle, model.ModeSingle, now)

	var answerStreak int
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.AnswerRepo.Create(tx, judged.records); err != nil {
			return err
		}
		if err := s.QuestionRepo.ApplyAnswerStats(tx, questionID, judged.records[0].IsCorrect, judged.records[0].TimeSpentSeconds); err != nil {
			return err
		}

		var user model.User
		if err := tx.First(&user, userID).Error; err != nil {
			return err
		}
		var answerPeak int
		answerStreak, answerPeak = advanceAnswerStreak(user.CurrentAnswerStreak, judged.records)

		return s.UserRepo.ApplyProgress(tx, userID, repository.ProgressDelta{
			CorrectAnswers:      judged.correct,
			Score:               judged.score,
			CurrentAnswerStreak: answerStreak,
			PeakAnswerStreak:    answerPeak,
			PlayedAt:            now,
		})
	})
	if err != nil {
		return nil, err
	}

	monitoring.SubmissionCounter.WithLabelValues(string(model.ModeSingle)).Inc()

	review := judged.reviews[0]
	return &SingleAnswerResult{
		Correct:             review.Correct,
		IsTrue:              review.IsTrue,
		Explanation:         review.Explanation,
		Source:              review.Source,
		Score:               review.Score,
		CurrentAnswerStreak: answerStreak,
	}, nil
}

// NextQuestion 为用户抽一道未处于冷却期的题
func (s *GameService) NextQuestion(userID uint, filter repository.QuestionFilter) (*QuestionView, error) {
	questions, err := s.Selector.Select(userID, filter, 1)
	if err != nil {
		return nil, err
	}
	view := NewQuestionView(&questions[0])
	return &view, nil
}
