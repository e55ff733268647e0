package palimpsest

/*
BSD 3-Clause License

Copyright (c) 2020–21, Norbert Pillmayer

Please refer to the License file in the repository root.

*/

import (
	"regexp"

	"github.com/npillmayer/palimpsest/text"
)

// Snapshot is a named reference pinning a layer and the base layer alive,
// reading the document as of its creation. Edits made to the buffer after
// the snapshot was taken never become visible through it.
//
// All snapshot reads use pure queries; the pinned layers never splay. A
// snapshot must be released exactly once; releasing it twice panics.
type Snapshot struct {
	buffer    *Buffer
	layer     *layer
	baseLayer *layer
	released  bool
}

// CreateSnapshot pins the current top and base layers and returns a snapshot
// reading the document as of now.
func (b *Buffer) CreateSnapshot() *Snapshot {
	b.topLayer.snapshotCount++
	b.baseLayer.snapshotCount++
	return &Snapshot{buffer: b, layer: b.topLayer, baseLayer: b.baseLayer}
}

// Release unpins the snapshot's layers and consolidates the buffer if a
// layer just became unreferenced. Using the snapshot afterwards is illegal.
func (s *Snapshot) Release() {
	assert(!s.released, "snapshot released twice")
	assert(s.layer.snapshotCount > 0, "snapshot count underflow")
	s.released = true
	s.layer.snapshotCount--
	s.baseLayer.snapshotCount--
	if s.layer.snapshotCount == 0 || s.baseLayer.snapshotCount == 0 {
		s.buffer.consolidateLayers()
	}
}

// FlushPrecedingChanges materializes the snapshot layer's text. If the layer
// sits at or above the buffer's current base layer, the base pointer moves
// up to it before consolidating.
func (s *Snapshot) FlushPrecedingChanges() {
	if s.layer.text == nil {
		s.layer.text = text.FromString(s.Text())
		if s.layer.isAbove(s.buffer.baseLayer) {
			s.buffer.baseLayer = s.layer
		}
		s.buffer.consolidateLayers()
	}
}

// Extent returns the snapshot document dimensions.
func (s *Snapshot) Extent() Point {
	return s.layer.extent
}

// Size returns the snapshot document length in bytes.
func (s *Snapshot) Size() uint32 {
	return s.layer.size
}

// BaseText exposes the snapshot's base layer text.
func (s *Snapshot) BaseText() *text.Text {
	return s.baseLayer.text
}

// Text returns the whole snapshot document as a string.
func (s *Snapshot) Text() string {
	return s.layer.textInRange(Range{Start: Point{}, End: s.Extent()}, false)
}

// TextInRange returns the snapshot text covered by a range.
func (s *Snapshot) TextInRange(r Range) string {
	return s.layer.textInRange(r, false)
}

// Chunks returns the whole snapshot document as contiguous slices.
func (s *Snapshot) Chunks() []text.Slice {
	return s.layer.chunksInRange(Range{Start: Point{}, End: s.Extent()})
}

// ChunksInRange returns the slices covering a range.
func (s *Snapshot) ChunksInRange(r Range) []text.Slice {
	return s.layer.chunksInRange(r)
}

// LineLengthForRow returns the content length of a row, excluding its
// terminator.
func (s *Snapshot) LineLengthForRow(row uint32) uint32 {
	return s.layer.clipPosition(Point{Row: row, Column: ColumnMax}, false).Position.Column
}

// ClipPosition returns the nearest valid position at or before the requested
// one.
func (s *Snapshot) ClipPosition(position Point) ClipResult {
	return s.layer.clipPosition(position, false)
}

// PositionForOffset translates a byte offset into a position.
func (s *Snapshot) PositionForOffset(offset uint32) Point {
	return s.layer.positionForOffset(offset)
}

// Search returns the range of the first match of re, or false.
func (s *Snapshot) Search(re *regexp.Regexp) (Range, bool) {
	return s.layer.searchInRange(re, Range{Start: Point{}, End: s.Extent()}, false)
}

// SearchAll returns the ranges of all matches of re.
func (s *Snapshot) SearchAll(re *regexp.Regexp) []Range {
	return s.layer.searchAllInRange(re, Range{Start: Point{}, End: s.Extent()}, false)
}
