package repository

import (
	"errors"
	"factfake_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type DailySetRepository struct {
	DB *gorm.DB
}

func NewDailySetRepository(db *gorm.DB) *DailySetRepository {
	return &DailySetRepository{DB: db}
}

func (r *DailySetRepository) FindByID(id uint) (*model.DailySet, error) {
	var set model.DailySet
	err := r.DB.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	}).First(&set, id).Error
	if err != nil {
		return nil, err
	}
	return &set, nil
}

// FindPublishedByDate 查找某天已发布的题组，date 必须是 UTC 零点
func (r *DailySetRepository) FindPublishedByDate(date time.Time) (*model.DailySet, error) {
	var set model.DailySet
	err := r.DB.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	}).Where("date = ? AND status = ?", date, model.DailySetPublished).
		First(&set).Error
	if err != nil {
		return nil, err
	}
	return &set, nil
}

// Create 创建题组及其题目顺序。date 上的唯一索引保证一天最多一组。
func (r *DailySetRepository) Create(set *model.DailySet, questionIDs []uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(set).Error; err != nil {
			return err
		}
		var links []model.DailySetQuestion
		for i, qid := range questionIDs {
			links = append(links, model.DailySetQuestion{
				DailySetID: set.ID,
				QuestionID: qid,
				Position:   i,
			})
		}
		if len(links) > 0 {
			if err := tx.Create(&links).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *DailySetRepository) CreateCompletion(tx *gorm.DB, completion *model.DailySetCompletion) error {
	return tx.Create(completion).Error
}

// FindCompletion 查某用户对某题组的完成记录，不存在时返回 (nil, nil)
func (r *DailySetRepository) FindCompletion(userID, setID uint) (*model.DailySetCompletion, error) {
	var completion model.DailySetCompletion
	err := r.DB.Where("user_id = ? AND daily_set_id = ?", userID, setID).
		First(&completion).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &completion, nil
}

// LatestCompletionSince 查用户在 since 之后最近一次完成记录（按完成时间，
// 与题组属于哪一天无关），用于七天锁定判定。不存在时返回 (nil, nil)。
func (r *DailySetRepository) LatestCompletionSince(userID uint, since time.Time) (*model.DailySetCompletion, error) {
	var completion model.DailySetCompletion
	err := r.DB.Where("user_id = ? AND created_at >= ?", userID, since).
		Order("created_at DESC").
		First(&completion).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &completion, nil
}

// CountStrictlyBetter 统计同题组内严格更优的提交数：
// 答对更多，或答对相同但用时更短。排名两条路径共用此比较基准。
func (r *DailySetRepository) CountStrictlyBetter(setID, excludeUserID uint, correct, totalTime int) (int64, error) {
	var count int64
	err := r.DB.Model(&model.DailySetCompletion{}).
		Where("daily_set_id = ? AND user_id <> ?", setID, excludeUserID).
		Where("correct_answers > ? OR (correct_answers = ? AND total_time_seconds < ?)", correct, correct, totalTime).
		Count(&count).Error
	return count, err
}

// CountStrictlyWorse 统计严格更差的提交数，供百分位计算
func (r *DailySetRepository) CountStrictlyWorse(setID, excludeUserID uint, correct, totalTime int) (int64, error) {
	var count int64
	err := r.DB.Model(&model.DailySetCompletion{}).
		Where("daily_set_id = ? AND user_id <> ?", setID, excludeUserID).
		Where("correct_answers < ? OR (correct_answers = ? AND total_time_seconds > ?)", correct, correct, totalTime).
		Count(&count).Error
	return count, err
}

func (r *DailySetRepository) CountSubmitters(setID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.DailySetCompletion{}).
		Where("daily_set_id = ?", setID).
		Count(&count).Error
	return count, err
}
