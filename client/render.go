package main

import (
	"fmt"
	"strings"

	"github.com/wfunc/snake/game"
	"github.com/wfunc/snake/network"
)

const (
	glyphWall  = '#'
	glyphHead  = '@'
	glyphBody  = 'o'
	glyphFood  = '*'
	glyphEmpty = ' '
)

// render draws the board with a one-cell wall and a HUD line below it.
func render(snap game.Snapshot) string {
	grid := make([][]rune, snap.Height)
	for y := range grid {
		grid[y] = []rune(strings.Repeat(string(glyphEmpty), snap.Width))
	}
	put := func(c game.Cell, r rune) {
		if c.X >= 0 && c.X < snap.Width && c.Y >= 0 && c.Y < snap.Height {
			grid[c.Y][c.X] = r
		}
	}
	for _, f := range snap.Food {
		put(f.Cell, glyphFood)
	}
	for i := len(snap.Snake) - 1; i >= 0; i-- {
		if i == 0 {
			put(snap.Snake[i], glyphHead)
		} else {
			put(snap.Snake[i], glyphBody)
		}
	}

	var b strings.Builder
	border := strings.Repeat(string(glyphWall), snap.Width+2)
	b.WriteString(border)
	b.WriteByte('\n')
	for _, row := range grid {
		b.WriteRune(glyphWall)
		b.WriteString(string(row))
		b.WriteRune(glyphWall)
		b.WriteByte('\n')
	}
	b.WriteString(border)
	b.WriteByte('\n')
	fmt.Fprintf(&b, "score %d  time %s  %s\n", snap.Score, game.FormatElapsed(snap.Elapsed), snap.Status)
	return b.String()
}

func renderGameEnd(end network.GameEndPayload) string {
	if end.Outcome == game.Win {
		return fmt.Sprintf("You win! score %d in %s. Press r to play again.\n", end.Score, end.Elapsed)
	}
	return fmt.Sprintf("Game over. score %d, length %d, %s. Press r to restart.\n", end.Score, end.Length, end.Elapsed)
}

func renderHighScores(resp network.HighScoresResponse) string {
	if len(resp.Records) == 0 {
		return "No games recorded yet.\n"
	}
	var b strings.Builder
	b.WriteString("High scores\n")
	for i, r := range resp.Records {
		fmt.Fprintf(&b, "%2d. %4d  %-9s %s\n", i+1, r.Score, r.Outcome, game.FormatElapsed(r.Duration))
	}
	return b.String()
}

// command is one parsed input line.
type command struct {
	msgID     uint16
	direction game.Direction
	quit      bool
}

func parseCommand(line string) (command, bool) {
	line = strings.ToLower(strings.TrimSpace(line))
	switch line {
	case "r", "restart":
		return command{msgID: network.MsgTypeRestart}, true
	case "h", "scores":
		return command{msgID: network.MsgTypeHighScores}, true
	case "q", "quit":
		return command{quit: true}, true
	}
	if d, ok := game.ParseDirection(line); ok {
		return command{msgID: network.MsgTypeDirection, direction: d}, true
	}
	return command{}, false
}
