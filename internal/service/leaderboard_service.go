package service

import (
	"factfake_backend/internal/repository"
	"sort"
	"time"
)

// Window 排行榜时间窗
type Window string

const (
	WindowWeekly  Window = "weekly"
	WindowMonthly Window = "monthly"
	WindowYearly  Window = "yearly"
	WindowAllTime Window = "all"
)

// Metric 排行指标
type Metric string

const (
	MetricCorrect Metric = "correct" // 窗口内答对题数
	MetricScore   Metric = "score"   // 窗口内累计得分
	MetricStreak  Metric = "streak"  // 窗口内最佳连对，逐条历史重算，非存储计数器
)

const topN = 100

type LeaderboardService struct {
	AnswerRepo *repository.AnswerRepository
	UserRepo   *repository.UserRepository
}

func NewLeaderboardService(answerRepo *repository.AnswerRepository, userRepo *repository.UserRepository) *LeaderboardService {
	return &LeaderboardService{
		AnswerRepo: answerRepo,
		UserRepo:   userRepo,
	}
}

// LeaderboardEntry 排行榜条目。并列者共享名次：
// 名次 = 1 + 严格更优（指标更高，或同指标用时更短）的条目数。
// swagger:model LeaderboardEntry
type LeaderboardEntry struct {
	Rank             int    `json:"rank"`
	UserID           uint   `json:"userId"`
	Name             string `json:"name"`
	Value            int64  `json:"value"`
	TotalTimeSeconds int64  `json:"totalTimeSeconds"`
}

// Standings 一次排行榜查询的完整结果。Me 永不缺席：
// 调用者在窗口内无任何活动时返回 rank 0 的占位行。
// swagger:model Standings
type Standings struct {
	Window     Window             `json:"window"`
	Metric     Metric             `json:"metric"`
	Entries    []LeaderboardEntry `json:"entries"`
	Me         *LeaderboardEntry  `json:"me"`
	TotalUsers int                `json:"totalUsers"`
}

// metricRow 指标提取的统一中间表示，三种指标共用同一套
// 排序/排名/上下文逻辑，两条排名路径天然共享比较基准
type metricRow struct {
	UserID      uint
	Name        string
	Value       int64
	TimeSeconds int64
}

// GetStandings 计算窗口内某指标的前 100 名与调用者的名次。
// 始终基于请求时刻的墙钟现算，不做缓存。
func (s *LeaderboardService) GetStandings(userID uint, window Window, metric Metric) (*Standings, error) {
	since := windowStart(window, time.Now())

	rows, err := s.extract(metric, since)
	if err != nil {
		return nil, err
	}

	sortRows(rows)

	entries := make([]LeaderboardEntry, 0, topN)
	var me *LeaderboardEntry

	prevRank := 0
	for i, row := range rows {
		rank := prevRank
		if i == 0 || strictlyBetter(rows[i-1], row) {
			rank = i + 1
		}
		prevRank = rank

		entry := LeaderboardEntry{
			Rank:             rank,
			UserID:           row.UserID,
			Name:             row.Name,
			Value:            row.Value,
			TotalTimeSeconds: row.TimeSeconds,
		}
		if i < topN {
			entries = append(entries, entry)
		}
		if row.UserID == userID {
			e := entry
			me = &e
		}
	}

	if me == nil {
		// 窗口内无任何活动：返回占位行而不是缺席
		me = &LeaderboardEntry{Rank: 0, UserID: userID}
		if user, err := s.UserRepo.FindByID(userID); err == nil {
			me.Name = user.Name
		}
	}

	return &Standings{
		Window:     window,
		Metric:     metric,
		Entries:    entries,
		Me:         me,
		TotalUsers: len(rows),
	}, nil
}

// extract 按指标把窗口内历史折算成统一的 metricRow。
// correct/score 直接用分组聚合；streak 必须逐用户按时间顺序重放。
func (s *LeaderboardService) extract(metric Metric, since time.Time) ([]metricRow, error) {
	switch metric {
	case MetricStreak:
		outcomes, err := s.AnswerRepo.OutcomesSince(since)
		if err != nil {
			return nil, err
		}
		return streakRows(outcomes), nil
	default:
		aggregates, err := s.AnswerRepo.AggregateSince(since)
		if err != nil {
			return nil, err
		}
		rows := make([]metricRow, len(aggregates))
		for i, agg := range aggregates {
			value := agg.CorrectCount
			if metric == MetricScore {
				value = agg.ScoreSum
			}
			rows[i] = metricRow{
				UserID:      agg.UserID,
				Name:        agg.Name,
				Value:       value,
				TimeSeconds: agg.TimeSum,
			}
		}
		return rows, nil
	}
}

// streakRows 重放窗口内每个用户按时间升序的答题结果：
// 答对递增、答错清零，取过程峰值作为排名值
func streakRows(outcomes []repository.WindowOutcome) []metricRow {
	var rows []metricRow
	var current *metricRow
	streak := int64(0)

	for _, o := range outcomes {
		if current == nil || current.UserID != o.UserID {
			rows = append(rows, metricRow{UserID: o.UserID, Name: o.Name})
			current = &rows[len(rows)-1]
			streak = 0
		}
		current.TimeSeconds += o.TimeSpentSeconds
		if o.IsCorrect {
			streak++
			if streak > current.Value {
				current.Value = streak
			}
		} else {
			streak = 0
		}
	}
	return rows
}

// strictlyBetter 两条排名路径共用的唯一比较基准：
// 指标降序，同指标按累计用时升序
func strictlyBetter(a, b metricRow) bool {
	if a.Value != b.Value {
		return a.Value > b.Value
	}
	return a.TimeSeconds < b.TimeSeconds
}

func sortRows(rows []metricRow) {
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Value != rows[j].Value {
			return rows[i].Value > rows[j].Value
		}
		if rows[i].TimeSeconds != rows[j].TimeSeconds {
			return rows[i].TimeSeconds < rows[j].TimeSeconds
		}
		return rows[i].UserID < rows[j].UserID
	})
}

// windowStart 各窗口的起点；边界含当下时刻，
// 周一零点整的答题记录计入当周。全时窗口返回零值。
func windowStart(window Window, now time.Time) time.Time {
	switch window {
	case WindowWeekly:
		// 周从周一零点起算
		daysSinceMonday := (int(now.Weekday()) + 6) % 7
		day := now.AddDate(0, 0, -daysSinceMonday)
		return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, now.Location())
	case WindowMonthly:
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	case WindowYearly:
		return time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())
	default:
		return time.Time{}
	}
}
