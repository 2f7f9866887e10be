package topk

import (
	"testing"
)

func testParams(tickSize uint64) SketchParams {
	return SketchParams{
		K:          3,
		WindowSize: 10,
		Width:      1024,
		Depth:      3,
		TickSize:   tickSize,
	}
}

func TestNew_Initialization(t *testing.T) {
	s := New(testParams(100))
	if s.sketch == nil {
		t.Fatalf("New() did not initialize the underlying sketch")
	}
	if s.tickSize != 100 {
		t.Errorf("tickSize = %d, want 100", s.tickSize)
	}
	if s.SizeBytes() <= 0 {
		t.Errorf("SizeBytes() = %d, want > 0", s.SizeBytes())
	}

	// Zero tick size falls back to a usable default.
	s = New(testParams(0))
	if s.tickSize == 0 {
		t.Errorf("tickSize default was not applied")
	}
}

func TestObserve_ReportsOnlyOnTick(t *testing.T) {
	s := New(testParams(10))

	for i := 0; i < 9; i++ {
		if report := s.Observe("/app.js"); report != nil {
			t.Fatalf("Observe() returned a report before the tick boundary: %v", report)
		}
	}

	report := s.Observe("/app.js")
	if report == nil {
		t.Fatalf("Observe() returned no report at the tick boundary")
	}
	if report[0].Path != "/app.js" {
		t.Errorf("top item = %q, want %q", report[0].Path, "/app.js")
	}
}

func TestObserve_RanksByFrequency(t *testing.T) {
	s := New(testParams(100))

	var report []Item
	for i := 0; i < 60; i++ {
		report = s.Observe("/hot.css")
	}
	for i := 0; i < 30; i++ {
		report = s.Observe("/warm.js")
	}
	for i := 0; i < 10; i++ {
		report = s.Observe("/cold.png")
	}

	if report == nil {
		t.Fatalf("expected a report after %d observations", 100)
	}
	if len(report) < 2 {
		t.Fatalf("report has %d items, want at least 2", len(report))
	}
	if report[0].Path != "/hot.css" {
		t.Errorf("hottest path = %q, want %q", report[0].Path, "/hot.css")
	}
	if report[0].Count < report[1].Count {
		t.Errorf("report not sorted by count: %v", report)
	}
}
