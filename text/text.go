package text

/*
BSD 3-Clause License

Copyright (c) 2020–21, Norbert Pillmayer

Please refer to the License file in the repository root.

*/

import "sort"

// Text owns a contiguous sequence of UTF-8 bytes together with a precomputed
// index of row-start offsets. Rows terminate at "\n", at "\r\n" (a single
// terminator) and at a lone "\r".
//
// The zero value is not ready for use: its row index is empty. Create texts
// with New, FromString or FromBytes.
type Text struct {
	content    []byte
	lineStarts []uint32
}

// New creates an empty text.
func New() *Text {
	return &Text{lineStarts: []uint32{0}}
}

// FromString creates a text from a Go string.
func FromString(s string) *Text {
	return FromBytes([]byte(s))
}

// FromBytes creates a text owning the given bytes. The slice must not be
// mutated by the caller afterwards.
func FromBytes(b []byte) *Text {
	t := &Text{content: b}
	t.scanLineStarts()
	return t
}

// scanLineStarts rebuilds the row index. "\r\n" is one terminator; a lone
// "\r" and a lone "\n" each terminate a row on their own.
func (t *Text) scanLineStarts() {
	starts := t.lineStarts[:0]
	if starts == nil {
		starts = make([]uint32, 0, 8)
	}
	starts = append(starts, 0)
	for i := 0; i < len(t.content); {
		switch t.content[i] {
		case '\n':
			starts = append(starts, uint32(i+1))
			i++
		case '\r':
			if i+1 < len(t.content) && t.content[i+1] == '\n' {
				starts = append(starts, uint32(i+2))
				i += 2
			} else {
				starts = append(starts, uint32(i+1))
				i++
			}
		default:
			i++
		}
	}
	t.lineStarts = starts
}

// Size returns the text length in bytes.
func (t *Text) Size() uint32 {
	return uint32(len(t.content))
}

// Extent returns the text dimensions: the index of the last row and the
// byte length of that trailing row.
func (t *Text) Extent() Point {
	last := t.lineStarts[len(t.lineStarts)-1]
	return Point{Row: uint32(len(t.lineStarts) - 1), Column: t.Size() - last}
}

// IsEmpty reports whether the text has no bytes.
func (t *Text) IsEmpty() bool {
	return len(t.content) == 0
}

// Bytes returns the backing bytes. Callers must not mutate them.
func (t *Text) Bytes() []byte {
	return t.content
}

func (t *Text) String() string {
	return string(t.content)
}

// rowSpan returns the byte span [start, next) covered by a row, including
// its terminator.
func (t *Text) rowSpan(row uint32) (uint32, uint32) {
	start := t.lineStarts[row]
	if int(row+1) < len(t.lineStarts) {
		return start, t.lineStarts[row+1]
	}
	return start, t.Size()
}

// ClipPosition returns the nearest valid position at or before the requested
// one, together with its byte offset. Rows past the end clamp to the text
// extent; columns clamp to the row's content length. A position addressing
// the LF inside a CRLF terminator is invalid and snaps left by one column,
// onto the CR.
func (t *Text) ClipPosition(position Point) ClipResult {
	extent := t.Extent()
	if position.Row > extent.Row {
		return ClipResult{Position: extent, Offset: t.Size()}
	}
	start, next := t.rowSpan(position.Row)
	maxColumn := next - start
	if position.Row < extent.Row {
		maxColumn-- // row carries a terminator byte
	}
	column := position.Column
	if column > maxColumn {
		column = maxColumn
	}
	offset := start + column
	if column > 0 && offset < t.Size() && t.content[offset] == '\n' && t.content[offset-1] == '\r' {
		column--
		offset--
	}
	return ClipResult{Position: Point{Row: position.Row, Column: column}, Offset: offset}
}

// PositionForOffset returns the position of a byte offset. Offsets past the
// end clamp to the extent.
func (t *Text) PositionForOffset(offset uint32) Point {
	return t.PositionForOffsetHint(offset, 0)
}

// PositionForOffsetHint is PositionForOffset with a monotone row floor: the
// answer is known to lie at or below no row smaller than minRow, which
// narrows the search.
func (t *Text) PositionForOffsetHint(offset uint32, minRow uint32) Point {
	if offset > t.Size() {
		offset = t.Size()
	}
	if int(minRow) >= len(t.lineStarts) {
		minRow = uint32(len(t.lineStarts) - 1)
	}
	if t.lineStarts[minRow] > offset {
		minRow = 0 // hint overshot, fall back to a full search
	}
	tail := t.lineStarts[minRow:]
	i := sort.Search(len(tail), func(i int) bool { return tail[i] > offset })
	row := minRow + uint32(i-1)
	return Point{Row: row, Column: offset - t.lineStarts[row]}
}

// OffsetForPosition resolves a position to a raw byte offset without CRLF
// correction, clamping rows and columns to the row span. Terminator bytes
// are addressable this way.
func (t *Text) OffsetForPosition(position Point) uint32 {
	extent := t.Extent()
	if position.Row > extent.Row {
		return t.Size()
	}
	start, next := t.rowSpan(position.Row)
	column := position.Column
	if column > next-start {
		column = next - start
	}
	return start + column
}

// At returns the byte at a position, or 0 past the end. Terminator bytes are
// readable.
func (t *Text) At(position Point) byte {
	offset := t.OffsetForPosition(position)
	if offset >= t.Size() {
		return 0
	}
	return t.content[offset]
}

// Splice replaces the range [start, start+deletedExtent] with the contents
// of inserted, rebuilding the row index.
func (t *Text) Splice(start Point, deletedExtent Point, inserted *Text) {
	s := t.ClipPosition(start).Offset
	e := t.ClipPosition(start.Traverse(deletedExtent)).Offset
	replacement := make([]byte, 0, uint32(len(t.content))-(e-s)+inserted.Size())
	replacement = append(replacement, t.content[:s]...)
	replacement = append(replacement, inserted.content...)
	replacement = append(replacement, t.content[e:]...)
	t.content = replacement
	t.scanLineStarts()
}
