package repository

import (
	"factfake_backend/internal/model"

	"gorm.io/gorm"
)

type CollectionRepository struct {
	DB *gorm.DB
}

func NewCollectionRepository(db *gorm.DB) *CollectionRepository {
	return &CollectionRepository{DB: db}
}

func (r *CollectionRepository) FindByID(id uint) (*model.Collection, error) {
	var collection model.Collection
	err := r.DB.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	}).Where("enabled = ?", true).First(&collection, id).Error
	if err != nil {
		return nil, err
	}
	return &collection, nil
}

func (r *CollectionRepository) List(language string) ([]model.Collection, error) {
	query := r.DB.Where("enabled = ?", true)
	if language != "" {
		query = query.Where("language = ?", language)
	}
	var collections []model.Collection
	err := query.Order("id ASC").Find(&collections).Error
	return collections, err
}

// CreateProgress 记录一次合集完成。刻意不设唯一约束：合集允许重玩。
func (r *CollectionRepository) CreateProgress(tx *gorm.DB, progress *model.CollectionProgress) error {
	return tx.Create(progress).Error
}

func (r *CollectionRepository) FindProgressByUser(userID uint, limit int) ([]model.CollectionProgress, error) {
	var progress []model.CollectionProgress
	err := r.DB.Where("user_id = ?", userID).
		Order("completed_at DESC").
		Limit(limit).
		Find(&progress).Error
	return progress, err
}
