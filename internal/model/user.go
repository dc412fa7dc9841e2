package model

import (
	"time"
)

type UserRole string

const (
	Player UserRole = "player"
	Editor UserRole = "editor"
	Admin  UserRole = "admin"
)

// User 玩家账号及其累计的游戏进度统计
// swagger:model User
type User struct {
	BaseModel
	Name     string   `gorm:"size:100;not null" json:"name"`
	Email    string   `gorm:"size:100;unique;not null" json:"email"`
	Password string   `gorm:"size:100;not null" json:"-"`
	Role     UserRole `gorm:"type:enum('player','editor','admin');default:'player'" json:"role"`
	Language string   `gorm:"size:10;default:'en'" json:"language"`
	Avatar   string   `gorm:"size:255" json:"avatar"`
	Disabled bool     `gorm:"default:false" json:"disabled"`

	// 进度统计：CurrentStreak/BestStreak 为单次提交内的连对纪录，
	// CurrentAnswerStreak/BestAnswerStreak 为跨提交的全时连对纪录。
	// Best* 只增不减。
	CurrentStreak       int        `gorm:"default:0" json:"currentStreak"`
	BestStreak          int        `gorm:"default:0" json:"bestStreak"`
	CurrentAnswerStreak int        `gorm:"default:0" json:"currentAnswerStreak"`
	BestAnswerStreak    int        `gorm:"default:0" json:"bestAnswerStreak"`
	TotalCorrectAnswers int        `gorm:"default:0" json:"totalCorrectAnswers"`
	TotalScore          int        `gorm:"default:0" json:"totalScore"`
	TotalGamesPlayed    int        `gorm:"default:0" json:"totalGamesPlayed"`
	LastPlayedDate      *time.Time `json:"lastPlayedDate"`

	LastLogin time.Time `gorm:"default:CURRENT_TIMESTAMP(3)" json:"lastLogin"`
}

func (User) TableName() string {
	return "users"
}
