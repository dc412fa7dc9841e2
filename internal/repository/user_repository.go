package repository

import (
	"factfake_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) Create(user *model.User) error {
	return r.DB.Create(user).Error
}

func (r *UserRepository) FindByID(id uint) (*model.User, error) {
	var user model.User
	err := r.DB.First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByEmail(email string) (*model.User, error) {
	var user model.User
	err := r.DB.Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) Update(user *model.User) error {
	return r.DB.Save(user).Error
}

func (r *UserRepository) UpdateLastLogin(userID uint) error {
	return r.DB.Model(&model.User{}).Where("id = ?", userID).
		UpdateColumn("last_login", time.Now()).Error
}

// ProgressDelta 一次提交对用户进度的全部影响。
// 计数器用服务端自增表达式累加；Best* 用 GREATEST 保证只增不减，
// 即使并发提交也不会回退历史最高纪录。
type ProgressDelta struct {
	CorrectAnswers int
	Score          int
	GamesPlayed    int

	// 提交内连对（每日题组语义），仅当 TouchSubmissionStreak 时写入
	TouchSubmissionStreak bool
	CurrentStreak         int
	PeakStreak            int

	// 全时连对，所有写路径都会推进
	CurrentAnswerStreak int
	PeakAnswerStreak    int

	PlayedAt time.Time
}

// ApplyProgress 在事务内更新用户的进度计数器
func (r *UserRepository) ApplyProgress(tx *gorm.DB, userID uint, d ProgressDelta) error {
	updates := map[string]interface{}{
		"total_correct_answers": gorm.Expr("total_correct_answers + ?", d.CorrectAnswers),
		"total_score":           gorm.Expr("total_score + ?", d.Score),
		"total_games_played":    gorm.Expr("total_games_played + ?", d.GamesPlayed),
		"current_answer_streak": d.CurrentAnswerStreak,
		"best_answer_streak":    gorm.Expr("GREATEST(best_answer_streak, ?)", d.PeakAnswerStreak),
		"last_played_date":      d.PlayedAt,
	}
	if d.TouchSubmissionStreak {
		updates["current_streak"] = d.CurrentStreak
		updates["best_streak"] = gorm.Expr("GREATEST(best_streak, ?)", d.PeakStreak)
	}

	return tx.Model(&model.User{}).Where("id = ?", userID).
		UpdateColumns(updates).Error
}
