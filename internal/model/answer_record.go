package model

import "time"

type AnswerMode string

const (
	ModeDailySet   AnswerMode = "daily_set"
	ModeCollection AnswerMode = "collection"
	ModeSingle     AnswerMode = "single"
)

// AnswerRecord 只追加的答题历史，防重复选题与排行榜聚合的唯一事实来源。
// 创建后永不修改。
// swagger:model AnswerRecord
type AnswerRecord struct {
	BaseModel
	UserID           uint       `gorm:"index:idx_user_question;index:idx_user_answered;not null" json:"userId"`
	QuestionID       uint       `gorm:"index:idx_user_question;not null" json:"questionId"`
	IsCorrect        bool       `gorm:"not null" json:"isCorrect"`
	TimeSpentSeconds int        `gorm:"default:0" json:"timeSpentSeconds"`
	Score            int        `gorm:"default:0" json:"score"`
	Mode             AnswerMode `gorm:"type:enum('daily_set','collection','single');default:'single'" json:"mode"`
	AnsweredAt       time.Time  `gorm:"index:idx_user_answered;not null" json:"answeredAt"`
}

func (AnswerRecord) TableName() string {
	return "answer_records"
}
