package main

import (
	"strings"
	"testing"
	"time"

	"github.com/wfunc/snake/game"
	"github.com/wfunc/snake/models"
	"github.com/wfunc/snake/network"
)

func TestRender(t *testing.T) {
	snap := game.Snapshot{
		Width:   4,
		Height:  2,
		Status:  game.Running,
		Score:   1,
		Snake:   []game.Cell{{X: 1, Y: 0}, {X: 0, Y: 0}},
		Food:    []game.Food{{ID: 1, Cell: game.Cell{X: 3, Y: 1}}},
		Elapsed: 65 * time.Second,
	}

	want := strings.Join([]string{
		"######",
		"#o@  #",
		"#   *#",
		"######",
		"score 1  time 1m 5s  running",
		"",
	}, "\n")
	if got := render(snap); got != want {
		t.Errorf("render mismatch\n got:\n%s\nwant:\n%s", got, want)
	}
}

func TestRenderGameEnd(t *testing.T) {
	win := renderGameEnd(network.GameEndPayload{Outcome: game.Win, Score: 7, Elapsed: "12s"})
	if !strings.HasPrefix(win, "You win!") {
		t.Errorf("unexpected win text %q", win)
	}
	lose := renderGameEnd(network.GameEndPayload{Outcome: game.GameOver, Score: 2, Length: 4, Elapsed: "3s"})
	if !strings.Contains(lose, "Game over") || !strings.Contains(lose, "length 4") {
		t.Errorf("unexpected game over text %q", lose)
	}
}

func TestRenderHighScores(t *testing.T) {
	if got := renderHighScores(network.HighScoresResponse{}); got != "No games recorded yet.\n" {
		t.Errorf("empty table = %q", got)
	}
	got := renderHighScores(network.HighScoresResponse{Records: []models.GameRecord{
		{Score: 12, Outcome: "win", Duration: 90 * time.Second},
	}})
	if !strings.Contains(got, " 1.   12  win") || !strings.Contains(got, "1m 30s") {
		t.Errorf("unexpected table %q", got)
	}
}

func TestParseCommand(t *testing.T) {
	tests := []struct {
		line string
		want command
		ok   bool
	}{
		{"w", command{msgID: network.MsgTypeDirection, direction: game.Up}, true},
		{" D ", command{msgID: network.MsgTypeDirection, direction: game.Right}, true},
		{"left", command{msgID: network.MsgTypeDirection, direction: game.Left}, true},
		{"r", command{msgID: network.MsgTypeRestart}, true},
		{"h", command{msgID: network.MsgTypeHighScores}, true},
		{"q", command{quit: true}, true},
		{"jump", command{}, false},
	}
	for _, tt := range tests {
		got, ok := parseCommand(tt.line)
		if ok != tt.ok || got != tt.want {
			t.Errorf("parseCommand(%q) = %+v, %v; want %+v, %v", tt.line, got, ok, tt.want, tt.ok)
		}
	}
}
