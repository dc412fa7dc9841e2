package database

import (
	"factfake_backend/internal/config"
	"factfake_backend/internal/model"
	"fmt"
	"log"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Info),
		TranslateError: true,
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	err = db.AutoMigrate(
		&model.User{},
		&model.Category{},
		&model.Question{},
		&model.AnswerRecord{},
		&model.DailySet{},
		&model.DailySetQuestion{},
		&model.DailySetCompletion{},
		&model.Collection{},
		&model.CollectionQuestion{},
		&model.CollectionProgress{},
	)

	if err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	// 默认题目分类
	var count int64
	db.Model(&model.Category{}).Count(&count)
	if count == 0 {
		defaultCategories := []model.Category{
			{Code: "science", Name: "科学", Enabled: true},
			{Code: "history", Name: "历史", Enabled: true},
			{Code: "geography", Name: "地理", Enabled: true},
			{Code: "culture", Name: "文化", Enabled: true},
			{Code: "sports", Name: "体育", Enabled: true},
			{Code: "technology", Name: "科技", Enabled: true},
		}
		for _, c := range defaultCategories {
			db.Create(&c)
		}
	}

	return db, nil
}
