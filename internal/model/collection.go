package model

import "time"

type CollectionType string

const (
	CollectionByCategory   CollectionType = "category"
	CollectionByDifficulty CollectionType = "difficulty"
	CollectionCurated      CollectionType = "collection"
)

// Collection 编辑人工编排的题目合集，可反复游玩
// swagger:model Collection
type Collection struct {
	BaseModel
	Title       string `gorm:"size:200;not null" json:"title"`
	Description string `gorm:"type:text" json:"description,omitempty"`
	Language    string `gorm:"size:10;default:'en'" json:"language"`
	Enabled     bool   `gorm:"default:true" json:"enabled"`

	Questions []CollectionQuestion `gorm:"foreignKey:CollectionID" json:"-"`
}

func (Collection) TableName() string {
	return "collections"
}

type CollectionQuestion struct {
	BaseModel
	CollectionID uint `gorm:"index:idx_collection_position;not null" json:"collectionId"`
	QuestionID   uint `gorm:"not null" json:"questionId"`
	Position     int  `gorm:"index:idx_collection_position;not null" json:"position"`
}

func (CollectionQuestion) TableName() string {
	return "collection_questions"
}

// CollectionProgress 一次合集游玩的结果。与每日题组不同，
// 不带唯一约束：同一合集允许无限次重玩。
// swagger:model CollectionProgress
type CollectionProgress struct {
	BaseModel
	UserID         uint           `gorm:"index;not null" json:"userId"`
	CollectionType CollectionType `gorm:"type:enum('category','difficulty','collection');not null" json:"collectionType"`
	ReferenceID    uint           `gorm:"default:0" json:"referenceId"`
	Difficulty     int            `gorm:"default:0" json:"difficulty,omitempty"`
	Score          int            `gorm:"default:0" json:"score"`
	CorrectAnswers int            `gorm:"default:0" json:"correctAnswers"`
	TotalQuestions int            `gorm:"default:0" json:"totalQuestions"`
	CompletedAt    time.Time      `gorm:"not null" json:"completedAt"`
}

func (CollectionProgress) TableName() string {
	return "collection_progress"
}
