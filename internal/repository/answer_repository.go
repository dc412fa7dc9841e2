package repository

import (
	"factfake_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type AnswerRepository struct {
	DB *gorm.DB
}

func NewAnswerRepository(db *gorm.DB) *AnswerRepository {
	return &AnswerRepository{DB: db}
}

// Create 在事务内追加答题历史。历史只追加，永不修改。
func (r *AnswerRepository) Create(tx *gorm.DB, records []model.AnswerRecord) error {
	if len(records) == 0 {
		return nil
	}
	return tx.Create(&records).Error
}

// FindSince 取某用户自 since 起的答题记录，按时间升序。
// 防重复窗口最长 14 天，更早的记录不可能触发排除，无需读取。
func (r *AnswerRepository) FindSince(userID uint, since time.Time) ([]model.AnswerRecord, error) {
	var records []model.AnswerRecord
	err := r.DB.Where("user_id = ? AND answered_at >= ?", userID, since).
		Order("answered_at ASC, id ASC").
		Find(&records).Error
	return records, err
}

// UserWindowAggregate 单用户在时间窗内的聚合指标
type UserWindowAggregate struct {
	UserID       uint
	Name         string
	CorrectCount int64
	ScoreSum     int64
	TimeSum      int64
}

// AggregateSince 按用户分组聚合窗口内的答题历史。
// since 为零值时聚合全部历史（全时窗口）。
func (r *AnswerRepository) AggregateSince(since time.Time) ([]UserWindowAggregate, error) {
	query := r.DB.Model(&model.AnswerRecord{}).
		Select(`answer_records.user_id AS user_id,
			users.name AS name,
			SUM(answer_records.is_correct) AS correct_count,
			SUM(answer_records.score) AS score_sum,
			SUM(answer_records.time_spent_seconds) AS time_sum`).
		Joins("JOIN users ON users.id = answer_records.user_id").
		Group("answer_records.user_id, users.name")

	if !since.IsZero() {
		query = query.Where("answer_records.answered_at >= ?", since)
	}

	var rows []UserWindowAggregate
	err := query.Scan(&rows).Error
	return rows, err
}

// WindowOutcome 连对指标重算所需的最小字段集
type WindowOutcome struct {
	UserID           uint
	Name             string
	IsCorrect        bool
	TimeSpentSeconds int64
}

// OutcomesSince 取窗口内全部答题结果，按用户分组、时间升序，
// 供排行榜在内存中顺序重算每用户的窗口最佳连对。
func (r *AnswerRepository) OutcomesSince(since time.Time) ([]WindowOutcome, error) {
	query := r.DB.Model(&model.AnswerRecord{}).
		Select(`answer_records.user_id AS user_id,
			users.name AS name,
			answer_records.is_correct AS is_correct,
			answer_records.time_spent_seconds AS time_spent_seconds`).
		Joins("JOIN users ON users.id = answer_records.user_id").
		Order("answer_records.user_id ASC, answer_records.answered_at ASC, answer_records.id ASC")

	if !since.IsZero() {
		query = query.Where("answer_records.answered_at >= ?", since)
	}

	var rows []WindowOutcome
	err := query.Scan(&rows).Error
	return rows, err
}
