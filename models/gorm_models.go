// models/gorm_models.go
package models

import (
	"time"
)

// GormGameRecord 游戏记录表
type GormGameRecord struct {
	ID         string    `gorm:"primaryKey;type:varchar(36)"`
	RoomID     string    `gorm:"index;not null"`
	Outcome    string    `gorm:"type:varchar(20);not null"`
	Score      int       `gorm:"index;not null;default:0"`
	Length     int       `gorm:"not null;default:0"`
	DurationMS int64     `gorm:"not null;default:0"` // 游戏时长(毫秒)
	Width      int       `gorm:"not null"`
	Height     int       `gorm:"not null"`
	AIMode     bool      `gorm:"default:false"`
	Immortal   bool      `gorm:"default:false"`
	FinishedAt time.Time `gorm:"index;not null"`
	CreatedAt  time.Time
}

func (GormGameRecord) TableName() string {
	return "game_records"
}

func NewGormGameRecord(r GameRecord) GormGameRecord {
	return GormGameRecord{
		ID:         r.ID,
		RoomID:     r.RoomID,
		Outcome:    r.Outcome,
		Score:      r.Score,
		Length:     r.Length,
		DurationMS: r.Duration.Milliseconds(),
		Width:      r.Width,
		Height:     r.Height,
		AIMode:     r.AIMode,
		Immortal:   r.Immortal,
		FinishedAt: r.FinishedAt,
	}
}

func (g GormGameRecord) Record() GameRecord {
	return GameRecord{
		ID:         g.ID,
		RoomID:     g.RoomID,
		Outcome:    g.Outcome,
		Score:      g.Score,
		Length:     g.Length,
		Duration:   time.Duration(g.DurationMS) * time.Millisecond,
		Width:      g.Width,
		Height:     g.Height,
		AIMode:     g.AIMode,
		Immortal:   g.Immortal,
		FinishedAt: g.FinishedAt,
	}
}
