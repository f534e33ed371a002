package network

import (
	"github.com/wfunc/snake/game"
	"github.com/wfunc/snake/models"
)

// 客户端 -> 服务器
const (
	MsgTypeHeartbeat  = 1
	MsgTypeDirection  = 201
	MsgTypeRestart    = 202
	MsgTypeHighScores = 203
)

// 服务器 -> 客户端
const (
	MsgTypeSnapshot  = 301
	MsgTypeEvent     = 302
	MsgTypeGameStart = 303
	MsgTypeGameEnd   = 305
	MsgTypeError     = 500
)

type DirectionRequest struct {
	Direction game.Direction `json:"direction"`
}

type HighScoresRequest struct {
	Limit int `json:"limit"`
}

type HighScoresResponse struct {
	Records []models.GameRecord `json:"records"`
}

// GameStartPayload is sent once the room's game enters running.
type GameStartPayload struct {
	RoomID string `json:"room_id"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type GameEndPayload struct {
	RoomID  string      `json:"room_id"`
	Outcome game.Status `json:"outcome"`
	Score   int         `json:"score"`
	Length  int         `json:"length"`
	Elapsed string      `json:"elapsed"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}
