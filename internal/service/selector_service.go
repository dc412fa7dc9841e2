package service

import (
	"factfake_backend/internal/model"
	"factfake_backend/internal/repository"
	"factfake_backend/internal/util"
	"math/rand"
	"time"
)

// 防重复冷却窗口：最近一次答对 14 天内不再出现，答错 7 天内不再出现
const (
	correctCooldownDays   = 14
	incorrectCooldownDays = 7
)

// SelectorService 防重复选题：排除冷却期内的题目后均匀随机抽样
type SelectorService struct {
	QuestionRepo *repository.QuestionRepository
	AnswerRepo   *repository.AnswerRepository
}

func NewSelectorService(questionRepo *repository.QuestionRepository, answerRepo *repository.AnswerRepository) *SelectorService {
	return &SelectorService{
		QuestionRepo: questionRepo,
		AnswerRepo:   answerRepo,
	}
}

// QuestionView 面向客户端的题目视图，不含真值与解释
// swagger:model QuestionView
type QuestionView struct {
	ID         uint   `json:"id"`
	Statement  string `json:"statement"`
	CategoryID uint   `json:"categoryId"`
	Difficulty int    `json:"difficulty"`
	Language   string `json:"language"`
}

func NewQuestionView(q *model.Question) QuestionView {
	return QuestionView{
		ID:         q.ID,
		Statement:  q.Statement,
		CategoryID: q.CategoryID,
		Difficulty: q.Difficulty,
		Language:   q.Language,
	}
}

func NewQuestionViews(questions []model.Question) []QuestionView {
	views := make([]QuestionView, len(questions))
	for i := range questions {
		views[i] = NewQuestionView(&questions[i])
	}
	return views
}

// Select 为用户抽取 count 道题：排除冷却期内的题目，均匀洗牌后取前 count 道。
// 候选池为空或 count 非正数返回 ErrQuestionPoolEmpty；
// 不足 count 道时返回实际数量。只读，无副作用。
func (s *SelectorService) Select(userID uint, filter repository.QuestionFilter, count int) ([]model.Question, error) {
	if count <= 0 {
		return nil, util.ErrQuestionPoolEmpty
	}

	excluded, err := s.ExcludedIDs(userID, time.Now())
	if err != nil {
		return nil, err
	}

	questions, err := s.QuestionRepo.FindEligible(filter, excluded)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, util.ErrQuestionPoolEmpty
	}

	shuffleQuestions(questions, rand.Intn)
	if len(questions) > count {
		questions = questions[:count]
	}
	return questions, nil
}

// ExcludedIDs 计算用户当前处于冷却期的题目集合
func (s *SelectorService) ExcludedIDs(userID uint, now time.Time) ([]uint, error) {
	// 两个窗口以较长者为准，更早的记录不可能触发排除
	records, err := s.AnswerRepo.FindSince(userID, now.AddDate(0, 0, -correctCooldownDays))
	if err != nil {
		return nil, err
	}
	return excludedQuestionIDs(records, now), nil
}

// excludedQuestionIDs 由答题历史推导排除集。
// 对每道题只看最近一次记录：答对且 14 天内、或答错且 7 天内则排除。
// records 必须按时间升序，后写入覆盖先写入即得到每题最近一次。
func excludedQuestionIDs(records []model.AnswerRecord, now time.Time) []uint {
	latest := make(map[uint]model.AnswerRecord, len(records))
	for _, rec := range records {
		latest[rec.QuestionID] = rec
	}

	var excluded []uint
	for qid, rec := range latest {
		age := now.Sub(rec.AnsweredAt)
		if rec.IsCorrect && age < correctCooldownDays*24*time.Hour {
			excluded = append(excluded, qid)
		}
		if !rec.IsCorrect && age < incorrectCooldownDays*24*time.Hour {
			excluded = append(excluded, qid)
		}
	}
	return excluded
}

// shuffleQuestions 无偏 Fisher-Yates 洗牌：i 从末位递减到 1，
// 与 [0,i] 上均匀随机的 j 交换
func shuffleQuestions(questions []model.Question, intn func(n int) int) {
	for i := len(questions) - 1; i >= 1; i-- {
		j := intn(i + 1)
		questions[i], questions[j] = questions[j], questions[i]
	}
}
