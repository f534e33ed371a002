// models/models.go
package models

import (
	"time"
)

// GameRecord 一局结束的游戏记录
type GameRecord struct {
	ID         string        `json:"id"`
	RoomID     string        `json:"room_id"`
	Outcome    string        `json:"outcome"` // game_over / win
	Score      int           `json:"score"`
	Length     int           `json:"length"`
	Duration   time.Duration `json:"duration_ns"`
	Width      int           `json:"width"`
	Height     int           `json:"height"`
	AIMode     bool          `json:"ai_mode"`
	Immortal   bool          `json:"immortal"`
	FinishedAt time.Time     `json:"finished_at"`
}

// Better reports whether r ranks above o on the high score table.
// Higher score wins, then shorter duration, then earlier finish.
func (r GameRecord) Better(o GameRecord) bool {
	if r.Score != o.Score {
		return r.Score > o.Score
	}
	if r.Duration != o.Duration {
		return r.Duration < o.Duration
	}
	return r.FinishedAt.Before(o.FinishedAt)
}
