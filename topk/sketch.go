package topk

import (
	"sync"

	"github.com/keilerkonzept/topk/sliding"
)

// SketchParams holds the configuration for a sliding top-k sketch.
type SketchParams struct {
	K          int
	WindowSize int
	Width      int
	Depth      int
	TickSize   uint64 // number of observations per tick
}

// Item is one entry of a top-k report.
type Item struct {
	Path  string
	Count uint32
}

// Sketch provides thread-safe access to a sliding top-k sketch and manages
// ticking. It answers "which asset paths were requested most in the recent
// window" with a fixed, small memory footprint regardless of how many
// distinct paths pass through.
type Sketch struct {
	mu        sync.Mutex
	sketch    *sliding.Sketch
	tickSize  uint64 // observations per tick
	tickReq   uint64 // observations since last tick
	tickCount uint64 // total ticks processed
}

// New creates a new thread-safe sketch.
func New(p SketchParams) *Sketch {
	if p.TickSize == 0 {
		p.TickSize = 1000
	}

	instance := sliding.New(p.K, p.WindowSize,
		sliding.WithWidth(p.Width), sliding.WithDepth(p.Depth))

	return &Sketch{
		sketch:   instance,
		tickSize: p.TickSize,
	}
}

// SizeBytes reports the sketch memory usage.
func (s *Sketch) SizeBytes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sketch.SizeBytes()
}

// Observe counts one request for path. Every tickSize observations the
// window advances one tick and the current top-k is returned, sorted by
// descending count. All other calls return nil.
func (s *Sketch) Observe(path string) []Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sketch.Incr(path)
	s.tickReq++

	if s.tickReq < s.tickSize {
		return nil
	}

	s.sketch.Tick()
	s.tickCount++
	s.tickReq = 0

	sorted := s.sketch.SortedSlice()
	items := make([]Item, 0, len(sorted))
	for _, it := range sorted {
		if it.Count == 0 {
			break // sorted slice, nothing but zeros follow
		}
		items = append(items, Item{Path: it.Item, Count: it.Count})
	}
	return items
}
