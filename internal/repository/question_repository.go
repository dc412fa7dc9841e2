package repository

import (
	"factfake_backend/internal/model"

	"gorm.io/gorm"
)

type QuestionRepository struct {
	DB *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{DB: db}
}

// QuestionFilter 选题筛选条件，零值字段不参与过滤
type QuestionFilter struct {
	CategoryID    uint
	MinDifficulty int
	MaxDifficulty int
	Language      string
}

func (r *QuestionRepository) FindByID(id uint) (*model.Question, error) {
	var q model.Question
	err := r.DB.First(&q, id).Error
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *QuestionRepository) FindApprovedByID(id uint) (*model.Question, error) {
	var q model.Question
	err := r.DB.Where("id = ? AND status = ?", id, model.QuestionApproved).First(&q).Error
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *QuestionRepository) FindByIDs(ids []uint) ([]model.Question, error) {
	var questions []model.Question
	err := r.DB.Where("id IN ?", ids).Find(&questions).Error
	return questions, err
}

// FindEligible 查询符合条件且不在排除集内的已审核题目
func (r *QuestionRepository) FindEligible(filter QuestionFilter, excluded []uint) ([]model.Question, error) {
	query := r.DB.Where("status = ?", model.QuestionApproved)

	if filter.CategoryID != 0 {
		query = query.Where("category_id = ?", filter.CategoryID)
	}
	if filter.MinDifficulty > 0 {
		query = query.Where("difficulty >= ?", filter.MinDifficulty)
	}
	if filter.MaxDifficulty > 0 {
		query = query.Where("difficulty <= ?", filter.MaxDifficulty)
	}
	if filter.Language != "" {
		query = query.Where("language = ?", filter.Language)
	}
	if len(excluded) > 0 {
		query = query.Where("id NOT IN ?", excluded)
	}

	var questions []model.Question
	err := query.Find(&questions).Error
	return questions, err
}

func (r *QuestionRepository) CountApproved(language string) (int64, error) {
	var count int64
	query := r.DB.Model(&model.Question{}).Where("status = ?", model.QuestionApproved)
	if language != "" {
		query = query.Where("language = ?", language)
	}
	err := query.Count(&count).Error
	return count, err
}

// FindApprovedWindow 按主键顺序取一段连续的已审核题目，
// 供无发布题组时的降级路径使用
func (r *QuestionRepository) FindApprovedWindow(language string, offset, limit int) ([]model.Question, error) {
	query := r.DB.Where("status = ?", model.QuestionApproved)
	if language != "" {
		query = query.Where("language = ?", language)
	}

	var questions []model.Question
	err := query.Order("id ASC").Offset(offset).Limit(limit).Find(&questions).Error
	return questions, err
}

// ApplyAnswerStats 原子更新题目的生命周期统计。
// 运行均值必须在 times_shown 自增之前计算，MySQL 按 SET 顺序
// 从左到右求值，因此只能用一条裸 SQL，不能用无序的列映射。
func (r *QuestionRepository) ApplyAnswerStats(tx *gorm.DB, questionID uint, correct bool, timeSpent int) error {
	correctInc := 0
	if correct {
		correctInc = 1
	}
	return tx.Exec(
		`UPDATE questions
		 SET avg_time_seconds = (avg_time_seconds * times_shown + ?) / (times_shown + 1),
		     times_shown = times_shown + 1,
		     times_correct = times_correct + ?
		 WHERE id = ?`,
		timeSpent, correctInc, questionID,
	).Error
}

func (r *QuestionRepository) List(page, limit int, filter QuestionFilter) ([]model.Question, int64, error) {
	query := r.DB.Model(&model.Question{}).Where("status = ?", model.QuestionApproved)

	if filter.CategoryID != 0 {
		query = query.Where("category_id = ?", filter.CategoryID)
	}
	if filter.Language != "" {
		query = query.Where("language = ?", filter.Language)
	}

	var total int64
	query.Count(&total)

	var questions []model.Question
	offset := (page - 1) * limit
	err := query.Offset(offset).Limit(limit).Order("id ASC").Find(&questions).Error
	return questions, total, err
}

func (r *QuestionRepository) ListCategories() ([]model.Category, error) {
	var categories []model.Category
	err := r.DB.Where("enabled = ?", true).Order("id ASC").Find(&categories).Error
	return categories, err
}
