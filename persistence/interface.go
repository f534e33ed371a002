// persistence/interface.go
package persistence

import (
	"errors"

	"github.com/wfunc/snake/models"
)

// Database 游戏记录存储接口
type Database interface {
	SaveGameRecord(record models.GameRecord) error
	LoadGameRecord(id string) (models.GameRecord, error)
	// TopScores 按分数降序返回最多 limit 条记录
	TopScores(limit int) ([]models.GameRecord, error)
	Close() error
}

// 错误定义
var (
	ErrRecordNotFound = errors.New("record not found")
	ErrInvalidRecord  = errors.New("invalid game record")
)

func validate(r models.GameRecord) error {
	if r.ID == "" || r.RoomID == "" || r.Outcome == "" {
		return ErrInvalidRecord
	}
	return nil
}
