package metrics

import (
	"testing"

	"github.com/npillmayer/palimpsest"
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/uax/grapheme"
)

func setupTracing(t *testing.T) func() {
	gtrace.CoreTracer = gotestingadapter.New(t)
	teardown := gotestingadapter.RedirectTracing(t)
	gtrace.CoreTracer.SetTraceLevel(tracing.LevelInfo)
	return teardown
}

func TestLineCount(t *testing.T) {
	teardown := setupTracing(t)
	defer teardown()
	//
	b := palimpsest.FromString("one\ntwo\r\nthree")
	if got := LineCount(b, Full(b)); got != 3 {
		t.Errorf("line count = %d, want 3", got)
	}
	b2 := palimpsest.FromString("trailing\n")
	if got := LineCount(b2, Full(b2)); got != 1 {
		t.Errorf("line count with trailing newline = %d, want 1", got)
	}
	empty := palimpsest.New()
	if got := LineCount(empty, Full(empty)); got != 0 {
		t.Errorf("line count of empty buffer = %d, want 0", got)
	}
}

func TestWordCount(t *testing.T) {
	teardown := setupTracing(t)
	defer teardown()
	//
	b := palimpsest.FromString("the quick\nbrown  fox")
	if got := WordCount(b, Full(b)); got != 4 {
		t.Errorf("word count = %d, want 4", got)
	}
	spans := WordSpans(b, Full(b))
	if len(spans) != 4 || spans[0].Pos != 0 || spans[0].Len != 3 {
		t.Errorf("word spans = %v", spans)
	}
}

func TestWordCountOnRange(t *testing.T) {
	teardown := setupTracing(t)
	defer teardown()
	//
	b := palimpsest.FromString("alpha beta gamma")
	r := palimpsest.Range{
		Start: palimpsest.Point{Row: 0, Column: 6},
		End:   palimpsest.Point{Row: 0, Column: 10},
	}
	if got := WordCount(b, r); got != 1 {
		t.Errorf("range word count = %d, want 1", got)
	}
}

func TestWordCountSeesEdits(t *testing.T) {
	teardown := setupTracing(t)
	defer teardown()
	//
	b := palimpsest.FromString("one three")
	b.SetTextInRange(palimpsest.Range{
		Start: palimpsest.Point{Row: 0, Column: 3},
		End:   palimpsest.Point{Row: 0, Column: 3},
	}, " two")
	if got := WordCount(b, Full(b)); got != 3 {
		t.Errorf("word count after edit = %d, want 3", got)
	}
	snap := b.CreateSnapshot()
	if got := WordCount(snap, Full(snap)); got != 3 {
		t.Errorf("snapshot word count = %d, want 3", got)
	}
	snap.Release()
}

func TestGraphemeCount(t *testing.T) {
	teardown := setupTracing(t)
	defer teardown()
	//
	grapheme.SetupGraphemeClasses()
	b := palimpsest.FromString("héllo")
	if got := GraphemeCount(b, Full(b)); got != 5 {
		t.Errorf("grapheme count = %d, want 5", got)
	}
	if got := GraphemeCount(b, palimpsest.Range{}); got != 0 {
		t.Errorf("grapheme count of empty range = %d, want 0", got)
	}
}
