package pipeline

import (
	"image"
	"log"
	"sync/atomic"
	"time"

	"attendance/config"
	"attendance/faces"
	"attendance/gallery"
	"attendance/ledger"
	"attendance/utils"

	"github.com/google/uuid"
	cmap "github.com/orcaman/concurrent-map/v2"
)

// FrameSource is the external camera collaborator. NextFrame blocks until a
// frame is available or acquisition fails.
type FrameSource interface {
	NextFrame() (image.Image, error)
}

// Pipeline runs the per-frame detect-crop-match-mark-annotate loop on a
// dedicated worker goroutine. All blocking detection/embedding work happens
// here; the render side only ever touches the bounded queue.
type Pipeline struct {
	source FrameSource
	rec    faces.Recognizer
	store  *gallery.Store
	book   *ledger.Ledger
	Queue  *FrameQueue

	Confidence float64
	FaceSize   int
	Threshold  float64

	running atomic.Bool
	done    chan struct{}
	lastErr atomic.Value // string, "" when healthy

	// marked memoises (name, date) pairs already in the ledger so repeat
	// sightings within a day skip the database round-trip. The unique
	// constraint stays authoritative.
	marked cmap.ConcurrentMap[string, bool]

	now func() time.Time
}

func New(source FrameSource, rec faces.Recognizer, store *gallery.Store, book *ledger.Ledger) *Pipeline {
	return &Pipeline{
		source:     source,
		rec:        rec,
		store:      store,
		book:       book,
		Queue:      NewFrameQueue(config.FRAME_QUEUE_SIZE),
		Confidence: config.FACE_CONFIDENCE,
		FaceSize:   config.FACE_SIZE,
		Threshold:  config.MATCH_THRESHOLD,
		marked:     cmap.New[bool](),
		now:        time.Now,
	}
}

func (p *Pipeline) Start() {
	if !p.running.CompareAndSwap(false, true) {
		return
	}
	p.done = make(chan struct{})
	go p.loop()
}

// Stop flips the run flag and waits for worker quiescence. An in-flight
// detection call is allowed to finish; release the frame source only after
// Stop returns.
func (p *Pipeline) Stop() {
	if !p.running.CompareAndSwap(true, false) {
		return
	}
	<-p.done
}

// Running reports whether the worker loop is active
func (p *Pipeline) Running() bool {
	return p.running.Load()
}

// LastError returns the current acquisition error state ("" when healthy).
// Camera failure is user-visible but never crashes the process.
func (p *Pipeline) LastError() string {
	if v := p.lastErr.Load(); v != nil {
		return v.(string)
	}
	return ""
}

func (p *Pipeline) loop() {
	defer close(p.done)
	for p.running.Load() {
		p.processNextFrame()
	}
}

func (p *Pipeline) processNextFrame() {
	img, err := p.source.NextFrame()
	if err != nil {
		p.lastErr.Store(err.Error())
		log.Printf("Frame acquisition failed: %v", err)
		time.Sleep(500 * time.Millisecond)
		return
	}
	p.lastErr.Store("")

	frame := &Frame{ID: uuid.New(), Image: img, Taken: p.now()}
	snap := p.store.Current()

	detections, err := p.rec.Detect(img)
	if err != nil {
		// Local, non-fatal: publish the raw frame and move on
		log.Printf("Detection failed: %v", err)
		p.Queue.Push(frame)
		return
	}
	for _, d := range detections {
		if d.Confidence <= p.Confidence {
			continue
		}
		crop := utils.CropFace(img, d.Rect, p.FaceSize)
		if crop == nil {
			continue
		}
		result := gallery.ClassifyCrop(p.rec, crop, snap, p.Threshold)
		result.Rect = d.Rect
		if result.Outcome == gallery.MatchKnown {
			p.mark(result.Name, frame.Taken)
		}
		frame.Annotations = append(frame.Annotations, Annotation{
			Rect:  d.Rect,
			Label: result.Label(),
			Score: result.Score,
			Known: result.Outcome == gallery.MatchKnown,
		})
	}
	p.Queue.Push(frame)
}

func (p *Pipeline) mark(name string, t time.Time) {
	key := name + "@" + t.Format("2006-01-02")
	if _, seen := p.marked.Get(key); seen {
		return
	}
	switch p.book.Mark(name, t) {
	case ledger.Inserted, ledger.AlreadyPresent:
		p.marked.Set(key, true)
	}
}
