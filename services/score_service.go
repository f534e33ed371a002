// services/score_service.go
package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/wfunc/snake/game"
	"github.com/wfunc/snake/models"
	"github.com/wfunc/snake/persistence"
)

const (
	DefaultHighScoreLimit = 10
	MaxHighScoreLimit     = 100
)

// GameResult 房间在一局结束时交给 ScoreService 的信息
type GameResult struct {
	RoomID   string
	Snapshot game.Snapshot
	AIMode   bool
	Immortal bool
	// FinishedAt 为零值时使用当前时间
	FinishedAt time.Time
}

type ScoreService struct {
	db  persistence.Database
	now func() time.Time
}

func NewScoreService(db persistence.Database) *ScoreService {
	return &ScoreService{db: db, now: time.Now}
}

// RecordGame 保存一局已结束的游戏, 未结束的局面被拒绝
func (s *ScoreService) RecordGame(res GameResult) (models.GameRecord, error) {
	snap := res.Snapshot
	if !snap.Status.Terminal() {
		return models.GameRecord{}, fmt.Errorf("record game in room %s: status %s is not terminal", res.RoomID, snap.Status)
	}

	finished := res.FinishedAt
	if finished.IsZero() {
		finished = s.now()
	}

	record := models.GameRecord{
		ID:         uuid.NewString(),
		RoomID:     res.RoomID,
		Outcome:    snap.Status.String(),
		Score:      snap.Score,
		Length:     len(snap.Snake),
		Duration:   snap.Elapsed,
		Width:      snap.Width,
		Height:     snap.Height,
		AIMode:     res.AIMode,
		Immortal:   res.Immortal,
		FinishedAt: finished,
	}
	if err := s.db.SaveGameRecord(record); err != nil {
		return models.GameRecord{}, fmt.Errorf("save game record: %w", err)
	}
	return record, nil
}

// HighScores limit <= 0 时使用默认值, 最多 MaxHighScoreLimit 条
func (s *ScoreService) HighScores(limit int) ([]models.GameRecord, error) {
	if limit <= 0 {
		limit = DefaultHighScoreLimit
	}
	if limit > MaxHighScoreLimit {
		limit = MaxHighScoreLimit
	}
	return s.db.TopScores(limit)
}
