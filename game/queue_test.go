package game

import (
	"reflect"
	"testing"
)

func TestDirectionQueue_Submit(t *testing.T) {
	var q DirectionQueue

	if !q.Submit(Up) {
		t.Fatal("first submit should be accepted")
	}
	if q.Submit(Up) {
		t.Error("duplicate of the last entry should be rejected")
	}
	if !q.Submit(Left) {
		t.Fatal("second distinct submit should be accepted")
	}
	if q.Submit(Right) {
		t.Error("submit into a full queue should be rejected")
	}
	if q.Len() != 2 {
		t.Fatalf("expected 2 pending moves, got %d", q.Len())
	}
	if got := q.Pending(); !reflect.DeepEqual(got, []Direction{Up, Left}) {
		t.Errorf("unexpected pending moves %v", got)
	}
}

func TestDirectionQueue_SubmitDedupAgainstWholeBuffer(t *testing.T) {
	var q DirectionQueue
	q.Submit(Up)
	q.Submit(Left)
	snake := []Cell{{5, 5}, {4, 5}}
	q.ConsumeValid(snake, Right) // drops Up, Left remains

	if q.Submit(Left) {
		t.Error("direction already buffered should be rejected")
	}
	if !q.Submit(Up) {
		t.Error("direction no longer buffered should be accepted")
	}
}

func TestDirectionQueue_SubmitInvalid(t *testing.T) {
	var q DirectionQueue
	if q.Submit(Direction(0)) || q.Submit(Direction(9)) {
		t.Error("invalid directions should be rejected")
	}
	if q.Len() != 0 {
		t.Errorf("queue should stay empty, got %d", q.Len())
	}
}

func TestDirectionQueue_ConsumeValid(t *testing.T) {
	// Head at (5,5), neck at (4,5): Left would reverse onto the neck.
	snake := []Cell{{5, 5}, {4, 5}}

	var q DirectionQueue
	q.Submit(Left)
	q.Submit(Up)

	dir, consumed := q.ConsumeValid(snake, Right)
	if dir != Up || consumed != 2 {
		t.Fatalf("expected (up, 2), got (%v, %d)", dir, consumed)
	}
	if q.Len() != 0 {
		t.Errorf("rejected entries before the accepted one should be discarded, %d left", q.Len())
	}
}

func TestDirectionQueue_ConsumeValidKeepsLaterEntries(t *testing.T) {
	snake := []Cell{{5, 5}, {4, 5}}

	var q DirectionQueue
	q.Submit(Up)
	q.Submit(Left)

	dir, consumed := q.ConsumeValid(snake, Right)
	if dir != Up || consumed != 1 {
		t.Fatalf("expected (up, 1), got (%v, %d)", dir, consumed)
	}
	if got := q.Pending(); !reflect.DeepEqual(got, []Direction{Left}) {
		t.Errorf("expected [left] to remain, got %v", got)
	}
}

func TestDirectionQueue_ConsumeValidNoCandidate(t *testing.T) {
	snake := []Cell{{5, 5}, {4, 5}}

	var q DirectionQueue
	q.Submit(Left)

	dir, consumed := q.ConsumeValid(snake, Right)
	if dir != Right || consumed != 0 {
		t.Fatalf("expected (right, 0), got (%v, %d)", dir, consumed)
	}
	if q.Len() != 1 {
		t.Errorf("queue should be untouched when nothing validates, got %d", q.Len())
	}
}

func TestDirectionQueue_ReversalJudgedByBody(t *testing.T) {
	// Nominal heading says Right, but the body says the snake came from above.
	snake := []Cell{{5, 5}, {5, 4}}

	var q DirectionQueue
	q.Submit(Left)
	dir, consumed := q.ConsumeValid(snake, Right)
	if dir != Left || consumed != 1 {
		t.Errorf("left should be valid against the body, got (%v, %d)", dir, consumed)
	}

	q.Submit(Up)
	if dir, consumed := q.ConsumeValid(snake, Right); consumed != 0 || dir != Right {
		t.Errorf("up should be rejected against the body, got (%v, %d)", dir, consumed)
	}
}
