package text

import "testing"

func TestExtentCountsTerminators(t *testing.T) {
	cases := []struct {
		input  string
		extent Point
	}{
		{"", P(0, 0)},
		{"abc", P(0, 3)},
		{"a\nb", P(1, 1)},
		{"a\r\nb", P(1, 1)},
		{"a\rb", P(1, 1)},
		{"a\r\r\nb", P(2, 1)},
		{"abc\n", P(1, 0)},
		{"abc\r\n", P(1, 0)},
	}
	for _, c := range cases {
		got := FromString(c.input).Extent()
		if got != c.extent {
			t.Errorf("extent of %q = %s, want %s", c.input, got, c.extent)
		}
	}
}

func TestClipClampsRowsAndColumns(t *testing.T) {
	txt := FromString("one\ntwo\nthree")
	if got := txt.ClipPosition(P(0, 99)); got.Position != P(0, 3) || got.Offset != 3 {
		t.Errorf("clip past line end = %v", got)
	}
	if got := txt.ClipPosition(P(9, 0)); got.Position != P(2, 5) || got.Offset != 13 {
		t.Errorf("clip past last row = %v", got)
	}
	if got := txt.ClipPosition(P(1, 1)); got.Position != P(1, 1) || got.Offset != 5 {
		t.Errorf("clip of valid position = %v", got)
	}
}

func TestClipSnapsOutOfCRLF(t *testing.T) {
	txt := FromString("a\r\nb")
	// (0,2) addresses the LF inside the CRLF pair and must snap onto the CR.
	got := txt.ClipPosition(P(0, 2))
	if got.Position != P(0, 1) || got.Offset != 1 {
		t.Errorf("clip of mid-CRLF position = %v, want {(0,1) 1}", got)
	}
	// The start of the following row is valid.
	if got := txt.ClipPosition(P(1, 0)); got.Position != P(1, 0) || got.Offset != 3 {
		t.Errorf("clip of row start = %v", got)
	}
}

func TestClipLineLengths(t *testing.T) {
	txt := FromString("ab\r\ncd\ne\rf")
	wantLengths := []uint32{2, 2, 1, 1}
	for row, want := range wantLengths {
		got := txt.ClipPosition(P(uint32(row), ^uint32(0))).Position.Column
		if got != want {
			t.Errorf("content length of row %d = %d, want %d", row, got, want)
		}
	}
}

func TestPositionForOffsetRoundTrip(t *testing.T) {
	txt := FromString("ab\r\ncd\ne")
	for offset := uint32(0); offset <= txt.Size(); offset++ {
		p := txt.PositionForOffset(offset)
		back := txt.OffsetForPosition(p)
		if back != offset {
			t.Errorf("offset %d → %s → %d", offset, p, back)
		}
	}
}

func TestPositionForOffsetHint(t *testing.T) {
	txt := FromString("a\nb\nc\nd")
	if got := txt.PositionForOffsetHint(6, 2); got != P(3, 0) {
		t.Errorf("hinted position = %s, want (3,0)", got)
	}
	// Overshooting hints fall back to a full search.
	if got := txt.PositionForOffsetHint(2, 3); got != P(1, 0) {
		t.Errorf("overshooting hint position = %s, want (1,0)", got)
	}
}

func TestAtReadsTerminatorBytes(t *testing.T) {
	txt := FromString("a\r\nb")
	if got := txt.At(P(0, 1)); got != '\r' {
		t.Errorf("At(0,1) = %q, want CR", got)
	}
	if got := txt.At(P(0, 2)); got != '\n' {
		t.Errorf("At(0,2) = %q, want LF", got)
	}
	if got := txt.At(P(1, 0)); got != 'b' {
		t.Errorf("At(1,0) = %q, want b", got)
	}
	if got := txt.At(P(5, 5)); got != 0 {
		t.Errorf("At past end = %q, want 0", got)
	}
}

func TestSpliceReplacesRange(t *testing.T) {
	txt := FromString("ab\r\ncd")
	txt.Splice(P(0, 1), P(0, 1), FromString("X\r"))
	if txt.String() != "aX\r\r\ncd" {
		t.Errorf("spliced text = %q", txt.String())
	}
	if txt.Extent() != P(2, 2) {
		t.Errorf("spliced extent = %s, want (2,2)", txt.Extent())
	}
}

func TestSpliceAcrossRows(t *testing.T) {
	txt := FromString("one\ntwo\nthree")
	txt.Splice(P(0, 2), P(1, 1), FromString("-"))
	if txt.String() != "on-wo\nthree" {
		t.Errorf("spliced text = %q", txt.String())
	}
}

func TestSliceWindowing(t *testing.T) {
	txt := FromString("one\ntwo\nthree")
	s := NewSlice(txt)
	if s.Size() != txt.Size() || s.Extent() != txt.Extent() {
		t.Fatalf("full slice size/extent mismatch")
	}
	sub := s.Slice(R(P(1, 0), P(1, 3)))
	if sub.String() != "two" {
		t.Errorf("sub slice = %q, want 'two'", sub.String())
	}
	if sub.Front() != 't' || sub.Back() != 'o' {
		t.Errorf("front/back = %q/%q", sub.Front(), sub.Back())
	}
	if got := sub.PositionForOffset(2); got != P(0, 2) {
		t.Errorf("relative position = %s, want (0,2)", got)
	}
	suffix := sub.Suffix(P(0, 1))
	if suffix.String() != "wo" {
		t.Errorf("suffix = %q, want 'wo'", suffix.String())
	}
	prefix := sub.Prefix(P(0, 1))
	if prefix.String() != "t" {
		t.Errorf("prefix = %q, want 't'", prefix.String())
	}
}

func TestSliceClampsOverlongRanges(t *testing.T) {
	txt := FromString("ab")
	s := NewSlice(txt).Slice(R(P(0, 1), P(9, 9)))
	if s.String() != "b" {
		t.Errorf("clamped slice = %q, want 'b'", s.String())
	}
}

func TestPointTraverseAndTraversal(t *testing.T) {
	if got := P(1, 2).Traverse(P(0, 3)); got != P(1, 5) {
		t.Errorf("same-row traverse = %s", got)
	}
	if got := P(1, 2).Traverse(P(2, 1)); got != P(3, 1) {
		t.Errorf("row-carry traverse = %s", got)
	}
	if got := P(3, 1).Traversal(P(1, 2)); got != P(2, 1) {
		t.Errorf("traversal = %s", got)
	}
	if got := P(1, 5).Traversal(P(1, 2)); got != P(0, 3) {
		t.Errorf("same-row traversal = %s", got)
	}
}
