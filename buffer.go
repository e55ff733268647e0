package palimpsest

/*
BSD 3-Clause License

Copyright (c) 2020–21, Norbert Pillmayer

Please refer to the License file in the repository root.

*/

import (
	"bytes"

	"github.com/npillmayer/palimpsest/patch"
	"github.com/npillmayer/palimpsest/text"
)

// Point, Range and ClipResult are re-exported from the text subpackage; they
// are the coordinate vocabulary of the whole module.
type (
	Point      = text.Point
	Range      = text.Range
	ClipResult = text.ClipResult
)

// ColumnMax addresses the end of a row's content, whatever its length.
const ColumnMax = ^uint32(0)

// Buffer is a layered patch-buffer text document.
//
// A buffer created by
//
//	palimpsest.New()
//
// is valid and behaves like the empty document. Buffers are not internally
// synchronized; writers must be serialized by the host.
type Buffer struct {
	topLayer  *layer
	baseLayer *layer
}

// New creates an empty buffer.
func New() *Buffer {
	base := newBaseLayer(text.New())
	return &Buffer{topLayer: base, baseLayer: base}
}

// FromString creates a buffer holding the given content as its base text.
func FromString(s string) *Buffer {
	return FromText(text.FromString(s))
}

// FromText creates a buffer over an existing base text, taking ownership.
func FromText(t *text.Text) *Buffer {
	base := newBaseLayer(t)
	return &Buffer{topLayer: base, baseLayer: base}
}

// Extent returns the document dimensions: last row index and the byte length
// of the trailing row.
func (b *Buffer) Extent() Point {
	return b.topLayer.extent
}

// Size returns the document length in bytes.
func (b *Buffer) Size() uint32 {
	return b.topLayer.size
}

// BaseText exposes the base layer's text.
func (b *Buffer) BaseText() *text.Text {
	return b.baseLayer.text
}

// Text returns the whole document as a string. This may be an expensive
// operation; prefer chunked iteration for large documents.
func (b *Buffer) Text() string {
	return b.topLayer.textInRange(Range{Start: Point{}, End: b.Extent()}, false)
}

// TextInRange returns the document text covered by a range.
func (b *Buffer) TextInRange(r Range) string {
	return b.topLayer.textInRange(r, true)
}

// ClipPosition returns the nearest valid position at or before the requested
// one, paired with its byte offset.
func (b *Buffer) ClipPosition(position Point) ClipResult {
	return b.topLayer.clipPosition(position, true)
}

// PositionForOffset translates a byte offset into a position.
func (b *Buffer) PositionForOffset(offset uint32) Point {
	return b.topLayer.positionForOffset(offset)
}

// CharacterAt returns the byte at a position, or 0 past the end.
func (b *Buffer) CharacterAt(position Point) byte {
	return b.topLayer.characterAt(position)
}

// LineLengthForRow returns the content length of a row, excluding its line
// terminator. The second value is false for rows past the end.
func (b *Buffer) LineLengthForRow(row uint32) (uint32, bool) {
	if row > b.Extent().Row {
		return 0, false
	}
	return b.topLayer.clipPosition(Point{Row: row, Column: ColumnMax}, true).Position.Column, true
}

// LineEndingForRow returns the terminator of a row: "\n", "\r\n", or "" for
// the final row. The second value is false for rows past the end.
func (b *Buffer) LineEndingForRow(row uint32) (string, bool) {
	if row > b.Extent().Row {
		return "", false
	}
	result := ""
	b.topLayer.forEachChunkInRange(
		Point{Row: row, Column: ColumnMax},
		Point{Row: row + 1, Column: 0},
		true,
		func(slice text.Slice) bool {
			if slice.IsEmpty() {
				return false
			}
			if slice.Front() == '\r' {
				result = "\r\n"
			} else {
				result = "\n"
			}
			return true
		})
	return result, true
}

// LineForRow returns the content of a row, without its terminator. The
// second value is false for rows past the end.
func (b *Buffer) LineForRow(row uint32) (string, bool) {
	if row > b.Extent().Row {
		return "", false
	}
	return b.TextInRange(Range{
		Start: Point{Row: row, Column: 0},
		End:   Point{Row: row, Column: ColumnMax},
	}), true
}

// SetText replaces the whole document.
func (b *Buffer) SetText(content string) {
	b.SetTextInRange(Range{Start: Point{}, End: b.Extent()}, content)
}

// SetTextInRange replaces the text in oldRange with new content. The range
// endpoints are clipped first. Replacing a range with identical content is
// detected and collapses to a no-op.
func (b *Buffer) SetTextInRange(oldRange Range, content string) {
	if b.topLayer == b.baseLayer || b.topLayer.snapshotCount > 0 {
		b.topLayer = newPatchLayer(b.topLayer)
	}

	start := b.ClipPosition(oldRange.Start)
	end := b.ClipPosition(oldRange.End)
	deletedExtent := end.Position.Traversal(start.Position)
	newText := text.FromString(content)
	insertedExtent := newText.Extent()
	newRangeEnd := start.Position.Traverse(insertedExtent)
	deletedTextSize := end.Offset - start.Offset

	b.topLayer.extent = newRangeEnd.Traverse(b.topLayer.extent.Traversal(end.Position))
	b.topLayer.size += newText.Size() - deletedTextSize
	b.topLayer.patch.Splice(
		start.Position, deletedExtent, insertedExtent, nil, newText, deletedTextSize)

	// Noop detection: if the recorded change replaces text with itself, drop
	// the record — and the layer, if it just became empty.
	change := b.topLayer.patch.GrabChangeStartingBeforeNewPosition(start.Position)
	if change != nil && change.OldTextSize == change.NewText.Size() {
		changeIsNoop := true
		newTextOffset := uint32(0)
		b.topLayer.previous.forEachChunkInRange(change.OldStart, change.OldEnd, false,
			func(chunk text.Slice) bool {
				next := newTextOffset + chunk.Size()
				if !bytes.Equal(change.NewText.Bytes()[newTextOffset:next], chunk.Bytes()) {
					changeIsNoop = false
					return true
				}
				newTextOffset = next
				return false
			})
		if changeIsNoop {
			b.topLayer.patch.SpliceOld(change.OldStart, Point{}, Point{})
			if b.topLayer.patch.IsEmpty() && b.topLayer.snapshotCount == 0 &&
				b.topLayer != b.baseLayer {
				b.topLayer = b.topLayer.previous
			}
		}
	}
}

// Reset replaces the buffer with a fresh base text. Without history this
// converts the top layer in place; otherwise it is a full SetText followed
// by FlushChanges.
func (b *Buffer) Reset(newBaseText *text.Text) {
	if b.topLayer.previous == nil && b.topLayer.snapshotCount == 0 {
		b.topLayer.extent = newBaseText.Extent()
		b.topLayer.size = newBaseText.Size()
		b.topLayer.text = newBaseText
		b.topLayer.patch = patch.New()
		b.topLayer.usesPatch = false
		return
	}
	b.SetText(newBaseText.String())
	b.FlushChanges()
}

// FlushChanges materializes the top layer's text, promotes it to the new
// base layer and consolidates the stack.
func (b *Buffer) FlushChanges() {
	if b.topLayer.text == nil {
		b.topLayer.text = text.FromString(b.Text())
		b.baseLayer = b.topLayer
		b.consolidateLayers()
	}
}

// IsModified reports whether the document differs from the base text.
func (b *Buffer) IsModified() bool {
	return b.topLayer.isModified(b.baseLayer)
}

// IsModifiedSince reports whether the document differs from a snapshot's
// base text.
func (b *Buffer) IsModifiedSince(snapshot *Snapshot) bool {
	return b.topLayer.isModified(snapshot.baseLayer)
}

// LayerCount returns the depth of the layer stack.
func (b *Buffer) LayerCount() int {
	result := 1
	for layer := b.topLayer; layer.previous != nil; layer = layer.previous {
		result++
	}
	return result
}

// InvertedChanges builds a patch that would undo every change made since the
// snapshot was taken: each change's replacement becomes its original base
// text. This is the undo primitive; history policy lives with the host.
func (b *Buffer) InvertedChanges(snapshot *Snapshot) *patch.Patch {
	var combination *patch.Patch
	for l := b.topLayer; l != snapshot.baseLayer; l = l.previous {
		if combination == nil {
			combination = l.patch.Clone()
			continue
		}
		lower := l.patch.Clone()
		lower.Combine(combination)
		combination = lower
	}
	result := patch.New()
	if combination == nil {
		return result
	}
	base := text.NewSlice(snapshot.baseLayer.text)
	for _, change := range combination.Changes() {
		oldText := base.Slice(Range{Start: change.OldStart, End: change.OldEnd})
		result.Splice(
			change.OldStart,
			change.NewExtent(),
			change.OldExtent(),
			change.NewText,
			text.FromBytes(append([]byte(nil), oldText.Bytes()...)),
			change.NewText.Size())
	}
	return result
}
