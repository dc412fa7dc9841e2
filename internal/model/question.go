package model

type QuestionStatus string

const (
	QuestionDraft    QuestionStatus = "draft"
	QuestionApproved QuestionStatus = "approved"
	QuestionRetired  QuestionStatus = "retired"
)

// Category 题目分类
// swagger:model Category
type Category struct {
	BaseModel
	Code    string `gorm:"size:50;unique;not null" json:"code"`
	Name    string `gorm:"size:100;not null" json:"name"`
	Enabled bool   `gorm:"default:true" json:"enabled"`
}

func (Category) TableName() string {
	return "categories"
}

// Question 真假判断题。IsTrue 为陈述的真值，仅服务端可见。
// TimesShown/TimesCorrect/AvgTimeSeconds 为生命周期统计，
// 必须通过服务端原子表达式更新，禁止应用层读改写。
// swagger:model Question
type Question struct {
	BaseModel
	Statement   string         `gorm:"type:text;not null" json:"statement"`
	IsTrue      bool           `gorm:"not null" json:"-"`
	Explanation string         `gorm:"type:text" json:"explanation,omitempty"`
	Source      string         `gorm:"size:500" json:"source,omitempty"`
	Language    string         `gorm:"size:10;default:'en';index" json:"language"`
	CategoryID  uint           `gorm:"index" json:"categoryId"`
	Difficulty  int            `gorm:"default:1;index" json:"difficulty"` // 1-5
	Status      QuestionStatus `gorm:"type:enum('draft','approved','retired');default:'draft';index" json:"status"`

	TimesShown     int     `gorm:"default:0" json:"timesShown"`
	TimesCorrect   int     `gorm:"default:0" json:"timesCorrect"`
	AvgTimeSeconds float64 `gorm:"default:0" json:"avgTimeSeconds"`
}

func (Question) TableName() string {
	return "questions"
}
