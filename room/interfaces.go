package room

import (
	"time"

	"github.com/wfunc/snake/models"
	"github.com/wfunc/snake/services"
)

// Broadcaster defines the interface for broadcasting messages to a room.
// This is defined here to break the import cycle between room and broadcast.
type Broadcaster interface {
	BroadcastToRoom(roomID string, msgID uint16, data []byte) error
}

// Scheduler runs the tick callback. timer.TimerManager implements it.
type Scheduler interface {
	AddTimer(delay time.Duration, interval time.Duration, callback func()) int64
	RemoveTimer(timerId int64)
}

// Recorder stores finished games. services.ScoreService implements it.
type Recorder interface {
	RecordGame(res services.GameResult) (models.GameRecord, error)
}

// Metrics is the subset of monitor.Monitor the rooms report to.
type Metrics interface {
	ObserveTick(duration time.Duration)
	IncFoodEaten()
	IncCollision(kind string)
	IncGameFinished(outcome string)
	SetActiveRooms(count int)
}

type nopMetrics struct{}

func (nopMetrics) ObserveTick(time.Duration) {}
func (nopMetrics) IncFoodEaten()             {}
func (nopMetrics) IncCollision(string)       {}
func (nopMetrics) IncGameFinished(string)    {}
func (nopMetrics) SetActiveRooms(int)        {}
