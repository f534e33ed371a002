// persistence/gorm_postgresql.go
package persistence

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/wfunc/snake/logger"
	"github.com/wfunc/snake/models"
)

// GormPostgreSQL 使用GORM的PostgreSQL实现
type GormPostgreSQL struct {
	db *gorm.DB
}

// zapWriter 把 gorm 日志转到 zap
type zapWriter struct{}

func (zapWriter) Printf(format string, args ...interface{}) {
	logger.Log.Debugf(format, args...)
}

// NewGormPostgreSQL 创建GORM PostgreSQL数据库连接
func NewGormPostgreSQL(host string, port int, user, password, dbname string) (*GormPostgreSQL, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	gormLogger := gormlogger.New(zapWriter{}, gormlogger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  gormlogger.Warn,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, err
	}
	return newGormStore(db)
}

func newGormStore(db *gorm.DB) (*GormPostgreSQL, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	// 设置连接池
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.AutoMigrate(&models.GormGameRecord{}); err != nil {
		return nil, fmt.Errorf("migrate game records: %w", err)
	}
	return &GormPostgreSQL{db: db}, nil
}

// SaveGameRecord 保存游戏记录
func (p *GormPostgreSQL) SaveGameRecord(record models.GameRecord) error {
	if err := validate(record); err != nil {
		return err
	}
	row := models.NewGormGameRecord(record)
	return p.db.Create(&row).Error
}

func (p *GormPostgreSQL) LoadGameRecord(id string) (models.GameRecord, error) {
	var row models.GormGameRecord
	if err := p.db.Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.GameRecord{}, ErrRecordNotFound
		}
		return models.GameRecord{}, err
	}
	return row.Record(), nil
}

func (p *GormPostgreSQL) TopScores(limit int) ([]models.GameRecord, error) {
	if limit <= 0 {
		return nil, nil
	}
	var rows []models.GormGameRecord
	err := p.db.
		Order("score DESC").
		Order("duration_ms ASC").
		Order("finished_at ASC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]models.GameRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.Record())
	}
	return out, nil
}

// Close 关闭数据库连接
func (p *GormPostgreSQL) Close() error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
