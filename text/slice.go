package text

/*
BSD 3-Clause License

Copyright (c) 2020–21, Norbert Pillmayer

Please refer to the License file in the repository root.

*/

// Slice is a borrowed window into a Text. Positions passed to and returned
// from slice methods are relative to the slice start. Slices are cheap to
// copy and never own their bytes.
type Slice struct {
	text  *Text
	start ClipResult
	end   ClipResult
}

// NewSlice returns a slice covering all of t.
func NewSlice(t *Text) Slice {
	return Slice{
		text: t,
		end:  ClipResult{Position: t.Extent(), Offset: t.Size()},
	}
}

// absolute translates a slice-relative position into text coordinates.
func (s Slice) absolute(position Point) Point {
	return s.start.Position.Traverse(position)
}

// Clip validates a slice-relative position, clamping it into the window.
func (s Slice) Clip(position Point) ClipResult {
	c := s.text.ClipPosition(s.absolute(position))
	if c.Offset <= s.start.Offset {
		return ClipResult{Offset: 0}
	}
	if c.Offset >= s.end.Offset {
		return ClipResult{Position: s.Extent(), Offset: s.Size()}
	}
	return ClipResult{
		Position: c.Position.Traversal(s.start.Position),
		Offset:   c.Offset - s.start.Offset,
	}
}

// Slice narrows the window to a sub-range given in slice-relative
// coordinates. Out-of-window endpoints clamp.
func (s Slice) Slice(r Range) Slice {
	start := s.Clip(r.Start)
	end := s.Clip(r.End)
	return Slice{
		text: s.text,
		start: ClipResult{
			Position: s.absolute(start.Position),
			Offset:   s.start.Offset + start.Offset,
		},
		end: ClipResult{
			Position: s.absolute(end.Position),
			Offset:   s.start.Offset + end.Offset,
		},
	}
}

// Prefix keeps the window up to a slice-relative position.
func (s Slice) Prefix(position Point) Slice {
	return s.Slice(Range{Start: Point{}, End: position})
}

// Suffix keeps the window from a slice-relative position on.
func (s Slice) Suffix(position Point) Slice {
	return s.Slice(Range{Start: position, End: s.Extent()})
}

// Extent returns the relative distance covered by the window.
func (s Slice) Extent() Point {
	return s.end.Position.Traversal(s.start.Position)
}

// Size returns the window length in bytes.
func (s Slice) Size() uint32 {
	return s.end.Offset - s.start.Offset
}

// IsEmpty reports whether the window covers no bytes.
func (s Slice) IsEmpty() bool {
	return s.Size() == 0
}

// Bytes returns the windowed bytes. Callers must not mutate them.
func (s Slice) Bytes() []byte {
	return s.text.content[s.start.Offset:s.end.Offset]
}

func (s Slice) String() string {
	return string(s.Bytes())
}

// Front returns the first byte of the window, or 0 if empty.
func (s Slice) Front() byte {
	if s.IsEmpty() {
		return 0
	}
	return s.text.content[s.start.Offset]
}

// Back returns the last byte of the window, or 0 if empty.
func (s Slice) Back() byte {
	if s.IsEmpty() {
		return 0
	}
	return s.text.content[s.end.Offset-1]
}

// Text exposes the backing text, for identity comparisons.
func (s Slice) Text() *Text {
	return s.text
}

// PositionForOffset returns the slice-relative position of a slice-relative
// byte offset.
func (s Slice) PositionForOffset(offset uint32) Point {
	if offset > s.Size() {
		offset = s.Size()
	}
	abs := s.text.PositionForOffsetHint(s.start.Offset+offset, s.start.Position.Row)
	return abs.Traversal(s.start.Position)
}
