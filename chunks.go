package palimpsest

/*
BSD 3-Clause License

Copyright (c) 2020–21, Norbert Pillmayer

Please refer to the License file in the repository root.

*/

import (
	"iter"

	"github.com/npillmayer/palimpsest/text"
)

// Chunks returns the whole document as contiguous slices in document order.
// Concatenating them reproduces Text() exactly; no slice straddles a
// patch/base boundary.
func (b *Buffer) Chunks() []text.Slice {
	return b.topLayer.chunksInRange(Range{Start: Point{}, End: b.Extent()})
}

// ChunksInRange returns the slices covering a range.
func (b *Buffer) ChunksInRange(r Range) []text.Slice {
	return b.topLayer.chunksInRange(r)
}

// RangeChunks returns an iterator over the slices covering a range.
func (b *Buffer) RangeChunks(r Range) iter.Seq[text.Slice] {
	return func(yield func(text.Slice) bool) {
		b.topLayer.forEachChunkInRange(r.Start, r.End, false, func(slice text.Slice) bool {
			return !yield(slice)
		})
	}
}

// EachChunk visits the document's slices in order, with each slice's
// starting byte offset. Iteration stops at the first callback error and
// returns that error to the caller.
func (b *Buffer) EachChunk(f func(text.Slice, uint32) error) error {
	var err error
	var pos uint32
	b.topLayer.forEachChunkInRange(Point{}, b.Extent(), false, func(slice text.Slice) bool {
		if err = f(slice, pos); err != nil {
			return true
		}
		pos += slice.Size()
		return false
	})
	return err
}
