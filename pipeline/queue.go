package pipeline

import (
	"image"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Annotation carries what the display layer needs to draw one face:
// box, label text and the colour class of the result.
type Annotation struct {
	Rect  image.Rectangle
	Label string
	Score float64
	Known bool
}

// Frame is one processed camera frame ready for display
type Frame struct {
	ID          uuid.UUID
	Image       image.Image
	Annotations []Annotation
	Taken       time.Time
}

// FrameQueue is the bounded hand-off between the processing worker and the
// render loop. When full, admitting a new frame evicts the oldest one:
// freshness is prioritised over completeness and neither side ever blocks
// the other. No frame is mandatory to display.
type FrameQueue struct {
	mu       sync.Mutex
	frames   []*Frame
	capacity int
}

func NewFrameQueue(capacity int) *FrameQueue {
	if capacity <= 0 {
		capacity = 1
	}
	return &FrameQueue{capacity: capacity}
}

// Push admits a frame, evicting the oldest when full. Reports whether an
// eviction happened.
func (q *FrameQueue) Push(f *Frame) (dropped bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.frames) >= q.capacity {
		copy(q.frames, q.frames[1:])
		q.frames[len(q.frames)-1] = f
		return true
	}
	q.frames = append(q.frames, f)
	return false
}

// TryPop removes and returns the oldest frame, without blocking
func (q *FrameQueue) TryPop() (*Frame, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.frames) == 0 {
		return nil, false
	}
	f := q.frames[0]
	copy(q.frames, q.frames[1:])
	q.frames[len(q.frames)-1] = nil
	q.frames = q.frames[:len(q.frames)-1]
	return f, true
}

// Latest peeks at the newest frame without removing anything
func (q *FrameQueue) Latest() (*Frame, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.frames) == 0 {
		return nil, false
	}
	return q.frames[len(q.frames)-1], true
}

func (q *FrameQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.frames)
}
