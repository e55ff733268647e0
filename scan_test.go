package palimpsest

import (
	"regexp"
	"testing"

	"github.com/npillmayer/palimpsest/text"
)

func TestSearchAcrossChunkBoundaries(t *testing.T) {
	teardown := setupTracing(t)
	defer teardown()
	//
	b := FromString("foofoo")
	b.SetTextInRange(Range{Start: text.P(0, 3), End: text.P(0, 3)}, "bar")
	if b.Text() != "foobarfoo" {
		t.Fatalf("text = %q", b.Text())
	}
	// "ob", "bar" and "rf" live in three different chunks.
	match, ok := b.Search(regexp.MustCompile(`ob.*rf`))
	if !ok {
		t.Fatalf("no match found")
	}
	want := Range{Start: text.P(0, 2), End: text.P(0, 7)}
	if match != want {
		t.Errorf("match = %s, want %s", match, want)
	}
}

func TestSearchAll(t *testing.T) {
	teardown := setupTracing(t)
	defer teardown()
	//
	b := FromString("one two\nthree two\ntwo")
	matches := b.SearchAll(regexp.MustCompile(`two`))
	want := []Range{
		{Start: text.P(0, 4), End: text.P(0, 7)},
		{Start: text.P(1, 6), End: text.P(1, 9)},
		{Start: text.P(2, 0), End: text.P(2, 3)},
	}
	if len(matches) != len(want) {
		t.Fatalf("found %d matches, want %d", len(matches), len(want))
	}
	for i, m := range matches {
		if m != want[i] {
			t.Errorf("match %d = %s, want %s", i, m, want[i])
		}
	}
}

func TestSearchNoMatch(t *testing.T) {
	teardown := setupTracing(t)
	defer teardown()
	//
	b := FromString("abc")
	if _, ok := b.Search(regexp.MustCompile(`xyz`)); ok {
		t.Errorf("unexpected match")
	}
}

func TestSearchInSubRange(t *testing.T) {
	teardown := setupTracing(t)
	defer teardown()
	//
	b := FromString("abc abc abc")
	r := Range{Start: text.P(0, 4), End: text.P(0, 11)}
	match, ok := b.SearchInRange(regexp.MustCompile(`abc`), r)
	if !ok || match.Start != text.P(0, 4) {
		t.Errorf("sub-range match = %v/%v", match, ok)
	}
	all := b.SearchAllInRange(regexp.MustCompile(`abc`), r)
	if len(all) != 2 {
		t.Errorf("sub-range matches = %d, want 2", len(all))
	}
}

func TestScanAbortsOnCallbackRequest(t *testing.T) {
	teardown := setupTracing(t)
	defer teardown()
	//
	b := FromString("x x x x")
	count := 0
	b.ScanInRange(regexp.MustCompile(`x`), Range{End: b.Extent()}, func(Range) bool {
		count++
		return count == 2
	})
	if count != 2 {
		t.Errorf("scan delivered %d matches after abort request", count)
	}
}

func TestMatchEndingInCRLFSnapsLeft(t *testing.T) {
	teardown := setupTracing(t)
	defer teardown()
	//
	b := FromString("a\r\nb")
	match, ok := b.Search(regexp.MustCompile("a\r"))
	if !ok {
		t.Fatalf("no match found")
	}
	// The match ends between CR and LF; the end column snaps onto the CR.
	want := Range{Start: text.P(0, 0), End: text.P(0, 1)}
	if match != want {
		t.Errorf("match = %s, want %s", match, want)
	}
}

func TestEmptyMatchesAdvance(t *testing.T) {
	teardown := setupTracing(t)
	defer teardown()
	//
	b := FromString("ab")
	matches := b.SearchAll(regexp.MustCompile(`x*`))
	want := []Range{
		{Start: text.P(0, 0), End: text.P(0, 0)},
		{Start: text.P(0, 1), End: text.P(0, 1)},
		{Start: text.P(0, 2), End: text.P(0, 2)},
	}
	if len(matches) != len(want) {
		t.Fatalf("found %d empty matches, want %d", len(matches), len(want))
	}
	for i, m := range matches {
		if m != want[i] {
			t.Errorf("match %d = %s, want %s", i, m, want[i])
		}
	}
}

func TestSearchMultibyte(t *testing.T) {
	teardown := setupTracing(t)
	defer teardown()
	//
	b := FromString("héllo")
	// The multi-byte rune sits right before a chunk boundary.
	b.SetTextInRange(Range{Start: text.P(0, 3), End: text.P(0, 3)}, "xx")
	if b.Text() != "héxxllo" {
		t.Fatalf("text = %q", b.Text())
	}
	match, ok := b.Search(regexp.MustCompile(`éxxl`))
	if !ok {
		t.Fatalf("no match found in %q", b.Text())
	}
	if match.Start != text.P(0, 1) || match.End != text.P(0, 6) {
		t.Errorf("match = %s", match)
	}
}

func TestSnapshotSearchSeesOldState(t *testing.T) {
	teardown := setupTracing(t)
	defer teardown()
	//
	b := FromString("needle in haystack")
	snap := b.CreateSnapshot()
	b.SetTextInRange(Range{Start: text.P(0, 0), End: text.P(0, 6)}, "nothing")

	if _, ok := b.Search(regexp.MustCompile(`needle`)); ok {
		t.Errorf("edited buffer still matches")
	}
	match, ok := snap.Search(regexp.MustCompile(`needle`))
	if !ok || match.Start != text.P(0, 0) || match.End != text.P(0, 6) {
		t.Errorf("snapshot match = %v/%v", match, ok)
	}
	all := snap.SearchAll(regexp.MustCompile(`a`))
	if len(all) != 2 {
		t.Errorf("snapshot matches = %d, want 2", len(all))
	}
	snap.Release()
}
