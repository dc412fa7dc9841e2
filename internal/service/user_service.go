package service

import (
	"errors"
	"factfake_backend/internal/model"
	"factfake_backend/internal/repository"
	"factfake_backend/internal/util"
	"time"

	"gorm.io/gorm"
)

// UserService 玩家资料与进度统计
type UserService struct {
	UserRepo *repository.UserRepository
}

func NewUserService(userRepo *repository.UserRepository) *UserService {
	return &UserService{UserRepo: userRepo}
}

// UserProfile 个人资料视图，附带全部进度计数器
// swagger:model UserProfile
type UserProfile struct {
	ID                  uint           `json:"id"`
	Name                string         `json:"name"`
	Email               string         `json:"email"`
	Role                model.UserRole `json:"role"`
	Language            string         `json:"language"`
	Avatar              string         `json:"avatar,omitempty"`
	CurrentStreak       int            `json:"currentStreak"`
	BestStreak          int            `json:"bestStreak"`
	CurrentAnswerStreak int            `json:"currentAnswerStreak"`
	BestAnswerStreak    int            `json:"bestAnswerStreak"`
	TotalCorrectAnswers int            `json:"totalCorrectAnswers"`
	TotalScore          int            `json:"totalScore"`
	TotalGamesPlayed    int            `json:"totalGamesPlayed"`
	LastPlayedDate      *time.Time     `json:"lastPlayedDate"`
}

func (s *UserService) GetProfile(userID uint) (*UserProfile, error) {
	user, err := s.UserRepo.FindByID(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	return &UserProfile{
		ID:                  user.ID,
		Name:                user.Name,
		Email:               user.Email,
		Role:                user.Role,
		Language:            user.Language,
		Avatar:              user.Avatar,
		CurrentStreak:       user.CurrentStreak,
		BestStreak:          user.BestStreak,
		CurrentAnswerStreak: user.CurrentAnswerStreak,
		BestAnswerStreak:    user.BestAnswerStreak,
		TotalCorrectAnswers: user.TotalCorrectAnswers,
		TotalScore:          user.TotalScore,
		TotalGamesPlayed:    user.TotalGamesPlayed,
		LastPlayedDate:      user.LastPlayedDate,
	}, nil
}

// UpdateLanguage 更新界面语言偏好
func (s *UserService) UpdateLanguage(userID uint, language string) error {
	user, err := s.UserRepo.FindByID(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return util.ErrUserNotFound
	}
	if err != nil {
		return err
	}
	user.Language = language
	return s.UserRepo.Update(user)
}
