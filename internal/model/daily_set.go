package model

import "time"

type DailySetStatus string

const (
	DailySetDraft     DailySetStatus = "draft"
	DailySetPublished DailySetStatus = "published"
)

// DailySet 按日期发布的每日题组，一天最多一组
// swagger:model DailySet
type DailySet struct {
	BaseModel
	Date     time.Time      `gorm:"type:date;uniqueIndex;not null" json:"date"`
	Status   DailySetStatus `gorm:"type:enum('draft','published');default:'draft'" json:"status"`
	Language string         `gorm:"size:10;default:'en'" json:"language"`

	Questions []DailySetQuestion `gorm:"foreignKey:DailySetID" json:"-"`
}

func (DailySet) TableName() string {
	return "daily_sets"
}

// DailySetQuestion 题组内的题目及其顺序
type DailySetQuestion struct {
	BaseModel
	DailySetID uint `gorm:"index:idx_set_position;not null" json:"dailySetId"`
	QuestionID uint `gorm:"not null" json:"questionId"`
	Position   int  `gorm:"index:idx_set_position;not null" json:"position"`
}

func (DailySetQuestion) TableName() string {
	return "daily_set_questions"
}

// DailySetCompletion 每用户每题组一行，(user_id, daily_set_id) 唯一索引
// 是并发重复提交的最终防线。创建后不可变。
// swagger:model DailySetCompletion
type DailySetCompletion struct {
	BaseModel
	UserID           uint `gorm:"index:idx_user_set,unique;not null" json:"userId"`
	DailySetID       uint `gorm:"index:idx_user_set,unique;not null" json:"dailySetId"`
	Score            int  `gorm:"default:0" json:"score"`
	CorrectAnswers   int  `gorm:"default:0" json:"correctAnswers"`
	TotalQuestions   int  `gorm:"default:0" json:"totalQuestions"`
	TotalTimeSeconds int  `gorm:"default:0" json:"totalTimeSeconds"`
}

func (DailySetCompletion) TableName() string {
	return "daily_set_completions"
}
