package service

import (
	"context"
	"errors"
	"factfake_backend/internal/model"
	"factfake_backend/internal/repository"
	"factfake_backend/internal/util"
	"factfake_backend/pkg/logger"
	"factfake_backend/pkg/monitoring"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type CollectionService struct {
	CollectionRepo *repository.CollectionRepository
	QuestionRepo   *repository.QuestionRepository
	AnswerRepo     *repository.AnswerRepository
	UserRepo       *repository.UserRepository
	Selector       *SelectorService
	Sessions       SessionStore
	DB             *gorm.DB
}

func NewCollectionService(collectionRepo *repository.CollectionRepository, questionRepo *repository.QuestionRepository, answerRepo *repository.AnswerRepository, userRepo *repository.UserRepository, selector *SelectorService, sessions SessionStore, db *gorm.DB) *CollectionService {
	return &CollectionService{
		CollectionRepo: collectionRepo,
		QuestionRepo:   questionRepo,
		AnswerRepo:     answerRepo,
		UserRepo:       userRepo,
		Selector:       selector,
		Sessions:       sessions,
		DB:             db,
	}
}

// StartSessionRequest 开启一次合集游玩
// swagger:model StartSessionRequest
type StartSessionRequest struct {
	Type         model.CollectionType `json:"type" binding:"required"`
	CategoryID   uint                 `json:"categoryId"`
	Difficulty   int                  `json:"difficulty"`
	CollectionID uint                 `json:"collectionId"`
	Count        int                  `json:"count"`
	Language     string               `json:"language"`
}

// StartSessionResult 新会话及其题目
// swagger:model StartSessionResult
type StartSessionResult struct {
	SessionID string         `json:"sessionId"`
	Questions []QuestionView `json:"questions"`
}

// Start 抽取一批题目并签发单次使用的会话。
// category/difficulty 走防重复选题；curated 合集按编排顺序取题，
// 刻意跳过防重复——合集允许重玩。创建前先清理过期会话。
func (s *CollectionService) Start(ctx context.Context, userID uint, req StartSessionRequest) (*StartSessionResult, error) {
	if swept, err := s.Sessions.Sweep(ctx); err != nil {
		logger.Log.Warn("session sweep failed", zap.Error(err))
	} else if swept > 0 {
		monitoring.SessionCounter.WithLabelValues("expired").Add(float64(swept))
	}

	count := req.Count
	if count <= 0 {
		count = 10
	}

	var questions []model.Question
	var err error
	referenceID := uint(0)

	switch req.Type {
	case model.CollectionByCategory:
		referenceID = req.CategoryID
		questions, err = s.Selector.Select(userID, repository.QuestionFilter{
			CategoryID: req.CategoryID,
			Language:   req.Language,
		}, count)
	case model.CollectionByDifficulty:
		questions, err = s.Selector.Select(userID, repository.QuestionFilter{
			MinDifficulty: req.Difficulty,
			MaxDifficulty: req.Difficulty,
			Language:      req.Language,
		}, count)
	case model.CollectionCurated:
		referenceID = req.CollectionID
		questions, err = s.curatedQuestions(req.CollectionID)
	default:
		return nil, util.ErrCollectionNotFound
	}
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, util.ErrQuestionPoolEmpty
	}

	ids := make([]uint, len(questions))
	for i, q := range questions {
		ids[i] = q.ID
	}

	session := &CollectionSession{
		ID:          uuid.New().String(),
		UserID:      userID,
		Type:        req.Type,
		ReferenceID: referenceID,
		Difficulty:  req.Difficulty,
		QuestionIDs: ids,
		CreatedAt:   time.Now(),
	}
	if err := s.Sessions.Create(ctx, session); err != nil {
		return nil, err
	}
	monitoring.SessionCounter.WithLabelValues("started").Inc()

	return &StartSessionResult{
		SessionID: session.ID,
		Questions: NewQuestionViews(questions),
	}, nil
}

// curatedQuestions 按编排顺序取合集题目，只保留仍处于已审核状态的
func (s *CollectionService) curatedQuestions(collectionID uint) ([]model.Question, error) {
	collection, err := s.CollectionRepo.FindByID(collectionID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrCollectionNotFound
	}
	if err != nil {
		return nil, err
	}

	ids := make([]uint, len(collection.Questions))
	for i, link := range collection.Questions {
		ids[i] = link.QuestionID
	}
	questions, err := s.QuestionRepo.FindByIDs(ids)
	if err != nil {
		return nil, err
	}
	idx := questionIndex(questions)
	ordered := make([]model.Question, 0, len(ids))
	for _, id := range ids {
		if q, ok := idx[id]; ok && q.Status == model.QuestionApproved {
			ordered = append(ordered, *q)
		}
	}
	return ordered, nil
}

// CollectionSubmitResult 合集提交结果
// swagger:model CollectionSubmitResult
type CollectionSubmitResult struct {
	Score          int            `json:"score"`
	CorrectAnswers int            `json:"correctAnswers"`
	TotalQuestions int            `json:"totalQuestions"`
	Reviews        []AnswerReview `json:"reviews"`
}

// Submit 兑现一个会话：校验存在、归属与题目成员关系，
// 事务内落历史、题目统计、用户进度与一条不带唯一约束的完成记录
// （重玩被允许），提交成功后删除会话（单次使用）。
func (s *CollectionService) Submit(ctx context.Context, userID uint, sessionID string, results []AnswerSubmission) (*CollectionSubmitResult, error) {
	if len(results) == 0 {
		return nil, util.ErrEmptySubmission
	}

	session, err := s.Sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.UserID != userID {
		return nil, util.ErrSessionOwnership
	}

	member := make(map[uint]bool, len(session.QuestionIDs))
	for _, id := range session.QuestionIDs {
		member[id] = true
	}
	ids := make([]uint, 0, len(results))
	for _, res := range results {
		if !member[res.QuestionID] {
			return nil, util.ErrQuestionNotInSession
		}
		ids = append(ids, res.QuestionID)
	}

	questions, err := s.QuestionRepo.FindByIDs(ids)
	if err != nil {
		return nil, err
	}
	idx := questionIndex(questions)
	if len(idx) != len(ids) {
		return nil, util.ErrQuestionNotInSession
	}

	now := time.Now()
	judged := judgeSubmission(userID, idx, results, ScoreCollection, model.ModeCollection, now)

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.AnswerRepo.Create(tx, judged.records); err != nil {
			return err
		}
		for _, rec := range judged.records {
			if err := s.QuestionRepo.ApplyAnswerStats(tx, rec.QuestionID, rec.IsCorrect, rec.TimeSpentSeconds); err != nil {
				return err
			}
		}

		var user model.User
		if err := tx.First(&user, userID).Error; err != nil {
			return err
		}
		answerStreak, answerPeak := advanceAnswerStreak(user.CurrentAnswerStreak, judged.records)

		if err := s.UserRepo.ApplyProgress(tx, userID, repository.ProgressDelta{
			CorrectAnswers:      judged.correct,
			Score:               judged.score,
			GamesPlayed:         1,
			CurrentAnswerStreak: answerStreak,
			PeakAnswerStreak:    answerPeak,
			PlayedAt:            now,
		}); err != nil {
			return err
		}

		return s.CollectionRepo.CreateProgress(tx, &model.CollectionProgress{
			UserID:         userID,
			CollectionType: session.Type,
			ReferenceID:    session.ReferenceID,
			Difficulty:     session.Difficulty,
			Score:          judged.score,
			CorrectAnswers: judged.correct,
			TotalQuestions: len(judged.records),
			CompletedAt:    now,
		})
	})
	if err != nil {
		return nil, err
	}

	// 会话单次使用，提交成功后销毁；删除失败只记录，不影响已提交结果
	if err := s.Sessions.Delete(ctx, sessionID); err != nil {
		logger.Log.Warn("failed to delete consumed session", zap.Error(err), zap.String("sessionId", sessionID))
	}
	monitoring.SubmissionCounter.WithLabelValues(string(model.ModeCollection)).Inc()
	monitoring.SessionCounter.WithLabelValues("submitted").Inc()

	return &CollectionSubmitResult{
		Score:          judged.score,
		CorrectAnswers: judged.correct,
		TotalQuestions: len(judged.records),
		Reviews:        judged.reviews,
	}, nil
}

func (s *CollectionService) List(language string) ([]model.Collection, error) {
	return s.CollectionRepo.List(language)
}

func (s *CollectionService) RecentProgress(userID uint, limit int) ([]model.CollectionProgress, error) {
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	return s.CollectionRepo.FindProgressByUser(userID, limit)
}
