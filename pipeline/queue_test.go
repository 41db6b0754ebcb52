package pipeline

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestQueueDropOldest(t *testing.T) {
	q := NewFrameQueue(5)
	frames := make([]*Frame, 8)
	for i := range frames {
		frames[i] = &Frame{ID: uuid.New(), Taken: time.Now()}
		dropped := q.Push(frames[i])
		if i < 5 && dropped {
			t.Errorf("push %d dropped while queue not full", i)
		}
		if i >= 5 && !dropped {
			t.Errorf("push %d should evict the oldest", i)
		}
		if q.Len() > 5 {
			t.Fatalf("queue exceeded its bound: %d", q.Len())
		}
	}
	// The 5 most recent survive, oldest first
	for i := 3; i < 8; i++ {
		f, ok := q.TryPop()
		if !ok {
			t.Fatalf("queue ran dry at %d", i)
		}
		if f.ID != frames[i].ID {
			t.Errorf("pop %d = frame %v, want %v", i, f.ID, frames[i].ID)
		}
	}
	if _, ok := q.TryPop(); ok {
		t.Error("queue should be empty")
	}
}

func TestQueueLatest(t *testing.T) {
	q := NewFrameQueue(3)
	if _, ok := q.Latest(); ok {
		t.Error("empty queue has no latest frame")
	}
	first := &Frame{ID: uuid.New()}
	second := &Frame{ID: uuid.New()}
	q.Push(first)
	q.Push(second)
	f, ok := q.Latest()
	if !ok || f.ID != second.ID {
		t.Errorf("Latest() = %v, want newest frame", f)
	}
	// Peeking removes nothing
	if q.Len() != 2 {
		t.Errorf("Latest() consumed frames, len = %d", q.Len())
	}
}

func TestQueueZeroCapacity(t *testing.T) {
	q := NewFrameQueue(0)
	q.Push(&Frame{ID: uuid.New()})
	if q.Len() != 1 {
		t.Errorf("zero capacity should clamp to 1, len = %d", q.Len())
	}
}
