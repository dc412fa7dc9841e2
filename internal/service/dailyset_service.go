package service

import (
	"errors"
	"factfake_backend/internal/model"
	"factfake_backend/internal/repository"
	"factfake_backend/internal/util"
	"factfake_backend/pkg/logger"
	"factfake_backend/pkg/monitoring"
	"math"
	"math/rand"
	"time"

	"github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// 每次完成每日题组后的锁定天数
const lockoutDays = 7

// PlayState 每日题组对某个用户的当前状态
type PlayState string

const (
	StateNoSet     PlayState = "no_set"
	StateFallback  PlayState = "fallback"
	StateAvailable PlayState = "available"
	StateLocked    PlayState = "locked"
	StateCompleted PlayState = "completed"
)

type DailySetService struct {
	SetRepo      *repository.DailySetRepository
	QuestionRepo *repository.QuestionRepository
	AnswerRepo   *repository.AnswerRepository
	UserRepo     *repository.UserRepository
	DB           *gorm.DB
	SetSize      int
}

func NewDailySetService(setRepo *repository.DailySetRepository, questionRepo *repository.QuestionRepository, answerRepo *repository.AnswerRepository, userRepo *repository.UserRepository, db *gorm.DB, setSize int) *DailySetService {
	return &DailySetService{
		SetRepo:      setRepo,
		QuestionRepo: questionRepo,
		AnswerRepo:   answerRepo,
		UserRepo:     userRepo,
		DB:           db,
		SetSize:      setSize,
	}
}

// TodayResult 今日题组解析结果
// swagger:model TodayResult
type TodayResult struct {
	State      PlayState                 `json:"state"`
	SetID      uint                      `json:"setId,omitempty"`
	Date       time.Time                 `json:"date"`
	Questions  []QuestionView            `json:"questions,omitempty"`
	UnlocksAt  *time.Time                `json:"unlocksAt,omitempty"`
	LastResult *model.DailySetCompletion `json:"lastResult,omitempty"`
}

// GetToday 解析用户今天的题组状态。
// "今天"按 UTC 零点计算。近 7 天内有任何完成记录即锁定（按完成时间，
// 与题组属于哪一天无关）；完成的恰好是今天的题组时呈现为已完成。
// 无发布题组时走降级路径：在已审核题库上取随机连续窗口，
// 降级路径刻意不做防重复过滤。
func (s *DailySetService) GetToday(userID uint) (*TodayResult, error) {
	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	set, err := s.SetRepo.FindPublishedByDate(today)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	latest, err := s.SetRepo.LatestCompletionSince(userID, now.AddDate(0, 0, -lockoutDays))
	if err != nil {
		return nil, err
	}
	if result := resolveRecentCompletion(set, latest, today); result != nil {
		return result, nil
	}

	if set != nil {
		questions, err := s.setQuestions(set)
		if err != nil {
			return nil, err
		}
		return &TodayResult{
			State:     StateAvailable,
			SetID:     set.ID,
			Date:      today,
			Questions: NewQuestionViews(questions),
		}, nil
	}

	return s.fallbackSet(today)
}

// resolveRecentCompletion 由今天的题组与最近一次完成记录推导锁定态。
// 恰好完成的是今天的题组时呈现为已完成，否则为锁定；
// 锁定期内不返回题目，即使已有更新的题组。
// 无近期完成记录时返回 nil，由调用方继续走可玩或降级路径。
func resolveRecentCompletion(set *model.DailySet, latest *model.DailySetCompletion, today time.Time) *TodayResult {
	if latest == nil {
		return nil
	}

	unlocksAt := latest.CreatedAt.Add(lockoutDays * 24 * time.Hour)
	state := StateLocked
	if set != nil && latest.DailySetID == set.ID {
		state = StateCompleted
	}
	result := &TodayResult{
		State:      state,
		Date:       today,
		UnlocksAt:  &unlocksAt,
		LastResult: latest,
	}
	if set != nil {
		result.SetID = set.ID
	}
	return result
}

// submissionLockoutErr 提交侧的锁定判定。锁定状态不能只在查询时呈现：
// 客户端拿着题组 ID 仍可直连提交接口，写路径必须独立拒绝锁定期内的提交。
// 近期完成的恰好是目标题组时归为重复提交，否则归为锁定。
func submissionLockoutErr(latest *model.DailySetCompletion, setID uint) error {
	if latest == nil {
		return nil
	}
	if latest.DailySetID == setID {
		return util.ErrSetAlreadySubmitted
	}
	return util.ErrSetLocked
}

// fallbackSet 无发布题组时的降级方案：随机偏移的连续窗口加洗牌
func (s *DailySetService) fallbackSet(today time.Time) (*TodayResult, error) {
	total, err := s.QuestionRepo.CountApproved("")
	if err != nil {
		return nil, err
	}
	if total == 0 {
		return &TodayResult{State: StateNoSet, Date: today}, nil
	}

	offset := 0
	if int(total) > s.SetSize {
		offset = rand.Intn(int(total) - s.SetSize + 1)
	}
	questions, err := s.QuestionRepo.FindApprovedWindow("", offset, s.SetSize)
	if err != nil {
		return nil, err
	}
	shuffleQuestions(questions, rand.Intn)

	return &TodayResult{
		State:     StateFallback,
		Date:      today,
		Questions: NewQuestionViews(questions),
	}, nil
}

// setQuestions 按题组内顺序加载题目
func (s *DailySetService) setQuestions(set *model.DailySet) ([]model.Question, error) {
	ids := make([]uint, len(set.Questions))
	for i, link := range set.Questions {
		ids[i] = link.QuestionID
	}
	questions, err := s.QuestionRepo.FindByIDs(ids)
	if err != nil {
		return nil, err
	}
	idx := questionIndex(questions)
	ordered := make([]model.Question, 0, len(ids))
	for _, id := range ids {
		if q, ok := idx[id]; ok {
			ordered = append(ordered, *q)
		}
	}
	return ordered, nil
}

// DailySubmitResult 每日题组提交结果
// swagger:model DailySubmitResult
type DailySubmitResult struct {
	Score               int            `json:"score"`
	CorrectAnswers      int            `json:"correctAnswers"`
	TotalQuestions      int            `json:"totalQuestions"`
	TotalTimeSeconds    int            `json:"totalTimeSeconds"`
	LeaderboardPosition int            `json:"leaderboardPosition"`
	Percentile          int            `json:"percentile"`
	CurrentStreak       int            `json:"currentStreak"`
	Reviews             []AnswerReview `json:"reviews"`
}

// Submit 提交每日题组。历史追加、题目统计、用户进度、完成记录
// 在一个事务内完成；(user_id, daily_set_id) 唯一索引是并发重复提交的
// 最终防线，提交冲突统一映射为 ErrSetAlreadySubmitted。
func (s *DailySetService) Submit(userID, setID uint, results []AnswerSubmission) (*DailySubmitResult, error) {
	if len(results) == 0 {
		return nil, util.ErrEmptySubmission
	}

	set, err := s.SetRepo.FindByID(setID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrSetNotFound
	}
	if err != nil {
		return nil, err
	}

	// 预检查；并发窗口下靠唯一索引兜底
	existing, err := s.SetRepo.FindCompletion(userID, setID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, util.ErrSetAlreadySubmitted
	}

	// 七天锁定在写路径同样生效
	latest, err := s.SetRepo.LatestCompletionSince(userID, time.Now().AddDate(0, 0, -lockoutDays))
	if err != nil {
		return nil, err
	}
	if err := submissionLockoutErr(latest, setID); err != nil {
		return nil, err
	}

	member := make(map[uint]bool, len(set.Questions))
	for _, link := range set.Questions {
		member[link.QuestionID] = true
	}
	ids := make([]uint, 0, len(results))
	for _, res := range results {
		if !member[res.QuestionID] {
			return nil, util.ErrQuestionNotInSet
		}
		ids = append(ids, res.QuestionID)
	}

	questions, err := s.QuestionRepo.FindByIDs(ids)
	if err != nil {
		return nil, err
	}
	idx := questionIndex(questions)
	if len(idx) != len(ids) {
		return nil, util.ErrQuestionNotInSet
	}

	now := time.Now()
	judged := judgeSubmission(userID, idx, results, ScoreDaily, model.ModeDailySet, now)

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
			CorrectAnswers:        judged.correct,
			Score:                 judged.score,
			GamesPlayed:           1,
			TouchSubmissionStreak: true,
			CurrentStreak:         judged.finalStreak,
			PeakStreak:            judged.peakStreak,
			CurrentAnswerStreak:   answerStreak,
			PeakAnswerStreak:      answerPeak,
			PlayedAt:              now,
		}); err != nil {
			return err
		}

		return s.SetRepo.CreateCompletion(tx, &model.DailySetCompletion{
			UserID:           userID,
			DailySetID:       setID,
			Score:            judged.score,
			CorrectAnswers:   judged.correct,
			TotalQuestions:   len(judged.records),
			TotalTimeSeconds: judged.totalTime,
		})
	})
	if err != nil {
		if isDuplicateKeyErr(err) {
			// 并发双提交：输掉竞争的一方看到与预检查一致的结果
			return nil, util.ErrSetAlreadySubmitted
		}
		return nil, err
	}

	monitoring.SubmissionCounter.WithLabelValues(string(model.ModeDailySet)).Inc()

	result := &DailySubmitResult{
		Score:            judged.score,
		CorrectAnswers:   judged.correct,
		TotalQuestions:   len(judged.records),
		TotalTimeSeconds: judged.totalTime,
		CurrentStreak:    judged.finalStreak,
		Reviews:          judged.reviews,
	}

	// 排名与百分位在事务外计算，失败不影响已提交的结果
	position, percentile, err := s.standing(setID, userID, judged.correct, judged.totalTime)
	if err != nil {
		logger.Log.Error("failed to compute daily set standing", zap.Error(err), zap.Uint("setId", setID))
	} else {
		result.LeaderboardPosition = position
		result.Percentile = percentile
	}

	return result, nil
}

// standing 提交后的名次与百分位：
// 名次 = 1 + 严格更优（答对更多，或同答对数用时更短）的其他提交者数；
// 百分位 = round(100 × 严格更差 / 总提交者)。
func (s *DailySetService) standing(setID, userID uint, correct, totalTime int) (int, int, error) {
	better, err := s.SetRepo.CountStrictlyBetter(setID, userID, correct, totalTime)
	if err != nil {
		return 0, 0, err
	}
	worse, err := s.SetRepo.CountStrictlyWorse(setID, userID, correct, totalTime)
	if err != nil {
		return 0, 0, err
	}
	total, err := s.SetRepo.CountSubmitters(setID)
	if err != nil {
		return 0, 0, err
	}

	position, percentile := standingFromCounts(better, worse, total)
	return position, percentile, nil
}

// standingFromCounts 名次 = 1 + 严格更优者数（并列共享名次）；
// 百分位 = round(100 × 严格更差 / 总提交者)，无提交者时为 0
func standingFromCounts(better, worse, total int64) (position, percentile int) {
	position = int(better) + 1
	if total > 0 {
		percentile = int(math.Round(float64(worse) / float64(total) * 100))
	}
	return position, percentile
}

// PublishSet 为指定日期发布题组，题目按给定顺序呈现。
// date 上的唯一索引拒绝同一天重复发布。
func (s *DailySetService) PublishSet(date time.Time, questionIDs []uint, language string) (*model.DailySet, error) {
	if len(questionIDs) == 0 {
		return nil, util.ErrEmptySubmission
	}

	questions, err := s.QuestionRepo.FindByIDs(questionIDs)
	if err != nil {
		return nil, err
	}
	approved := 0
	for _, q := range questions {
		if q.Status == model.QuestionApproved {
			approved++
		}
	}
	if approved != len(questionIDs) {
		return nil, util.ErrQuestionNotFound
	}

	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	set := &model.DailySet{
		Date:     day,
		Status:   model.DailySetPublished,
		Language: language,
	}
	if err := s.SetRepo.Create(set, questionIDs); err != nil {
		if isDuplicateKeyErr(err) {
			return nil, util.ErrSetAlreadyPublished
		}
		return nil, err
	}
	return set, nil
}

// isDuplicateKeyErr 识别唯一约束冲突，兼顾 gorm 的错误翻译与
// MySQL 1062 原生错误码
func isDuplicateKeyErr(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1062
	}
	return false
}
