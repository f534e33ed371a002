// persistence/postgresql.go
package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL 驱动

	"github.com/wfunc/snake/models"
)

const queryTimeout = 5 * time.Second

// PostgreSQL 基于 database/sql 的实现
type PostgreSQL struct {
	db *sql.DB
}

// NewPostgreSQL 创建 PostgreSQL 数据库连接
func NewPostgreSQL(host string, port int, user, password, dbname string) (*PostgreSQL, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}

	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := initTables(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &PostgreSQL{db: db}, nil
}

// initTables 与 GormGameRecord 使用同一张表
func initTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
        CREATE TABLE IF NOT EXISTS game_records (
            id VARCHAR(36) PRIMARY KEY,
            room_id TEXT NOT NULL,
            outcome VARCHAR(20) NOT NULL,
            score BIGINT NOT NULL DEFAULT 0,
            length BIGINT NOT NULL DEFAULT 0,
            duration_ms BIGINT NOT NULL DEFAULT 0,
            width BIGINT NOT NULL,
            height BIGINT NOT NULL,
            ai_mode BOOLEAN DEFAULT FALSE,
            immortal BOOLEAN DEFAULT FALSE,
            finished_at TIMESTAMPTZ NOT NULL,
            created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
        )
    `)
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
        CREATE INDEX IF NOT EXISTS idx_game_records_room_id ON game_records(room_id);
        CREATE INDEX IF NOT EXISTS idx_game_records_score ON game_records(score);
        CREATE INDEX IF NOT EXISTS idx_game_records_finished_at ON game_records(finished_at);
    `)
	return err
}

const selectColumns = `id, room_id, outcome, score, length, duration_ms, width, height, ai_mode, immortal, finished_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(row rowScanner) (models.GameRecord, error) {
	var (
		r          models.GameRecord
		durationMS int64
	)
	err := row.Scan(&r.ID, &r.RoomID, &r.Outcome, &r.Score, &r.Length, &durationMS,
		&r.Width, &r.Height, &r.AIMode, &r.Immortal, &r.FinishedAt)
	if err != nil {
		return models.GameRecord{}, err
	}
	r.Duration = time.Duration(durationMS) * time.Millisecond
	return r, nil
}

// SaveGameRecord 保存游戏记录
func (p *PostgreSQL) SaveGameRecord(record models.GameRecord) error {
	if err := validate(record); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	query := `
        INSERT INTO game_records (` + selectColumns + `)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
    `
	_, err := p.db.ExecContext(ctx, query,
		record.ID,
		record.RoomID,
		record.Outcome,
		record.Score,
		record.Length,
		record.Duration.Milliseconds(),
		record.Width,
		record.Height,
		record.AIMode,
		record.Immortal,
		record.FinishedAt)
	return err
}

func (p *PostgreSQL) LoadGameRecord(id string) (models.GameRecord, error) {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	row := p.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM game_records WHERE id = $1`, id)
	r, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.GameRecord{}, ErrRecordNotFound
	}
	return r, err
}

func (p *PostgreSQL) TopScores(limit int) ([]models.GameRecord, error) {
	if limit <= 0 {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	rows, err := p.db.QueryContext(ctx, `
        SELECT `+selectColumns+` FROM game_records
        ORDER BY score DESC, duration_ms ASC, finished_at ASC
        LIMIT $1
    `, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.GameRecord
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Close 关闭数据库连接
func (p *PostgreSQL) Close() error {
	return p.db.Close()
}
