package timer

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestTimerManager_OneShot(t *testing.T) {
	m := NewTimerManager(time.Millisecond)
	defer m.Stop()

	fired := make(chan struct{}, 1)
	m.AddTimer(5*time.Millisecond, 0, func() { fired <- struct{}{} })

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("one-shot timer did not fire")
	}
	if m.Len() != 0 {
		t.Errorf("one-shot timer should be dropped after firing, %d left", m.Len())
	}
}

func TestTimerManager_Periodic(t *testing.T) {
	m := NewTimerManager(time.Millisecond)
	defer m.Stop()

	var count int32
	id := m.AddTimer(0, 2*time.Millisecond, func() { atomic.AddInt32(&count, 1) })

	deadline := time.Now().Add(time.Second)
	for atomic.LoadInt32(&count) < 3 {
		if time.Now().After(deadline) {
			t.Fatalf("periodic timer fired %d times, expected at least 3", atomic.LoadInt32(&count))
		}
		time.Sleep(time.Millisecond)
	}

	m.RemoveTimer(id)
	if m.Len() != 0 {
		t.Errorf("RemoveTimer should unschedule the task, %d left", m.Len())
	}
}

func TestTimerManager_RemoveBeforeFire(t *testing.T) {
	m := NewTimerManager(time.Millisecond)
	defer m.Stop()

	var fired int32
	id := m.AddTimer(50*time.Millisecond, 0, func() { atomic.StoreInt32(&fired, 1) })
	m.RemoveTimer(id)

	time.Sleep(100 * time.Millisecond)
	if atomic.LoadInt32(&fired) != 0 {
		t.Error("removed timer should not fire")
	}
}

func TestTimerManager_IdsAreUnique(t *testing.T) {
	m := NewTimerManager(0)
	defer m.Stop()

	a := m.AddTimer(time.Hour, 0, func() {})
	b := m.AddTimer(time.Hour, 0, func() {})
	if a == b {
		t.Errorf("expected distinct ids, got %d twice", a)
	}
	m.Stop()
	m.Stop()
}
