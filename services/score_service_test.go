package services

import (
	"errors"
	"testing"
	"time"

	"github.com/wfunc/snake/game"
	"github.com/wfunc/snake/models"
)

type MockDatabase struct {
	saved     []models.GameRecord
	saveErr   error
	lastLimit int
}

func (m *MockDatabase) SaveGameRecord(r models.GameRecord) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = append(m.saved, r)
	return nil
}

func (m *MockDatabase) LoadGameRecord(id string) (models.GameRecord, error) {
	for _, r := range m.saved {
		if r.ID == id {
			return r, nil
		}
	}
	return models.GameRecord{}, errors.New("not found")
}

func (m *MockDatabase) TopScores(limit int) ([]models.GameRecord, error) {
	m.lastLimit = limit
	return m.saved, nil
}

func (m *MockDatabase) Close() error { return nil }

func finishedSnapshot() game.Snapshot {
	return game.Snapshot{
		Width:   10,
		Height:  8,
		Status:  game.GameOver,
		Score:   4,
		Snake:   []game.Cell{{X: 1, Y: 1}, {X: 2, Y: 1}, {X: 3, Y: 1}},
		Elapsed: 65 * time.Second,
	}
}

func TestScoreService_RecordGame(t *testing.T) {
	db := &MockDatabase{}
	s := NewScoreService(db)
	at := time.Unix(1000, 0)

	rec, err := s.RecordGame(GameResult{RoomID: "r1", Snapshot: finishedSnapshot(), AIMode: true, FinishedAt: at})
	if err != nil {
		t.Fatalf("RecordGame failed: %v", err)
	}
	if len(db.saved) != 1 {
		t.Fatalf("expected 1 saved record, got %d", len(db.saved))
	}
	if rec.ID == "" {
		t.Error("record id should be set")
	}
	if rec.Outcome != "game_over" || rec.Score != 4 || rec.Length != 3 {
		t.Errorf("unexpected record %+v", rec)
	}
	if rec.Duration != 65*time.Second || !rec.FinishedAt.Equal(at) || !rec.AIMode {
		t.Errorf("unexpected record %+v", rec)
	}
	if rec.Width != 10 || rec.Height != 8 {
		t.Errorf("board size = %dx%d, want 10x8", rec.Width, rec.Height)
	}
}

func TestScoreService_RecordGameRejectsRunning(t *testing.T) {
	db := &MockDatabase{}
	snap := finishedSnapshot()
	snap.Status = game.Running

	if _, err := NewScoreService(db).RecordGame(GameResult{RoomID: "r1", Snapshot: snap}); err == nil {
		t.Error("expected an error for a running game")
	}
	if len(db.saved) != 0 {
		t.Error("running game must not be saved")
	}
}

func TestScoreService_RecordGameWrapsError(t *testing.T) {
	boom := errors.New("boom")
	db := &MockDatabase{saveErr: boom}

	_, err := NewScoreService(db).RecordGame(GameResult{RoomID: "r1", Snapshot: finishedSnapshot()})
	if !errors.Is(err, boom) {
		t.Errorf("expected wrapped boom, got %v", err)
	}
}

func TestScoreService_HighScoresLimit(t *testing.T) {
	db := &MockDatabase{}
	s := NewScoreService(db)

	cases := map[int]int{0: DefaultHighScoreLimit, -3: DefaultHighScoreLimit, 5: 5, 1000: MaxHighScoreLimit}
	for in, want := range cases {
		if _, err := s.HighScores(in); err != nil {
			t.Fatalf("HighScores(%d) failed: %v", in, err)
		}
		if db.lastLimit != want {
			t.Errorf("HighScores(%d) used limit %d, want %d", in, db.lastLimit, want)
		}
	}
}
