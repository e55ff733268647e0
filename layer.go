package palimpsest

/*
BSD 3-Clause License

Copyright (c) 2020–21, Norbert Pillmayer

Please refer to the License file in the repository root.

*/

import (
	"bytes"
	"strings"

	"github.com/npillmayer/palimpsest/patch"
	"github.com/npillmayer/palimpsest/text"
)

// layer is one level of the document stack. Exactly one of two
// representations is authoritative, selected by usesPatch: a materialized
// text, or a patch over the previous layer. A promoted layer may hold both
// while an old snapshot still reads it through the patch.
//
// extent and size always describe the document as observed through this
// layer; they are maintained incrementally on every splice. A layer with
// snapshotCount > 0 is frozen: only pure queries may touch it.
type layer struct {
	previous      *layer
	patch         *patch.Patch
	text          *text.Text
	usesPatch     bool
	extent        text.Point
	size          uint32
	snapshotCount uint32
}

func newBaseLayer(t *text.Text) *layer {
	return &layer{
		text:   t,
		extent: t.Extent(),
		size:   t.Size(),
	}
}

func newPatchLayer(previous *layer) *layer {
	return &layer{
		previous:  previous,
		patch:     patch.New(),
		usesPatch: true,
		extent:    previous.extent,
		size:      previous.size,
	}
}

func previousColumn(position text.Point) text.Point {
	return text.Point{Row: position.Row, Column: position.Column - 1}
}

// isAbove reports whether other is reachable from l through previous links.
func (l *layer) isAbove(other *layer) bool {
	for predecessor := l.previous; predecessor != nil; predecessor = predecessor.previous {
		if predecessor == other {
			return true
		}
	}
	return false
}

// characterAt reads one byte. On a patch layer the position is either served
// from a change's replacement text or translated into the layer below.
func (l *layer) characterAt(position text.Point) byte {
	if !l.usesPatch {
		return l.text.At(position)
	}
	change := l.patch.ChangeStartingBeforeNewPosition(position)
	if change == nil {
		return l.previous.characterAt(position)
	}
	if position.Less(change.NewEnd) {
		return change.NewText.At(position.Traversal(change.NewStart))
	}
	return l.previous.characterAt(
		change.OldEnd.Traverse(position.Traversal(change.NewEnd)))
}

// clipPosition returns the nearest valid position at or before the requested
// one, with its byte offset through this layer. The splay flag selects the
// hinted patch queries; it is silently downgraded on a frozen layer.
func (l *layer) clipPosition(position text.Point, splay bool) text.ClipResult {
	if !l.usesPatch {
		return l.text.ClipPosition(position)
	}
	if l.snapshotCount > 0 {
		splay = false
	}

	var preceding *patch.Change
	if splay {
		preceding = l.patch.GrabChangeStartingBeforeNewPosition(position)
	} else {
		preceding = l.patch.ChangeStartingBeforeNewPosition(position)
	}
	if preceding == nil {
		return l.previous.clipPosition(position, false)
	}

	baseOffset := l.previous.clipPosition(preceding.OldStart, false).Offset
	currentOffset := baseOffset + preceding.PrecedingNewTextSize - preceding.PrecedingOldTextSize

	if position.Less(preceding.NewEnd) {
		within := preceding.NewText.ClipPosition(position.Traversal(preceding.NewStart))

		// The replacement text starts with a LF right after a CR below:
		// clipping to its start would land inside a CRLF pair.
		if within.Offset == 0 && preceding.OldStart.Column > 0 {
			if preceding.NewText.Size() > 0 && preceding.NewText.Bytes()[0] == '\n' &&
				l.previous.characterAt(previousColumn(preceding.OldStart)) == '\r' {
				return text.ClipResult{
					Position: previousColumn(preceding.NewStart),
					Offset:   currentOffset - 1,
				}
			}
		}

		return text.ClipResult{
			Position: preceding.NewStart.Traverse(within.Position),
			Offset:   currentOffset + within.Offset,
		}
	}

	baseLocation := l.previous.clipPosition(
		preceding.OldEnd.Traverse(position.Traversal(preceding.NewEnd)), false)

	distancePast := text.ClipResult{
		Position: baseLocation.Position.Traversal(preceding.OldEnd),
		Offset:   baseLocation.Offset - (baseOffset + preceding.OldTextSize),
	}

	// The position lands exactly at the change's end while the byte below is
	// a LF and the byte before it (the replacement's last byte, or the byte
	// before the change) is a CR.
	if distancePast.Offset == 0 && baseLocation.Offset < l.previous.size {
		var previousCharacter byte
		if preceding.NewText.Size() > 0 {
			previousCharacter = preceding.NewText.Bytes()[preceding.NewText.Size()-1]
		} else if preceding.OldStart.Column > 0 {
			previousCharacter = l.previous.characterAt(previousColumn(preceding.OldStart))
		}

		if previousCharacter == '\r' && l.previous.characterAt(baseLocation.Position) == '\n' {
			return text.ClipResult{
				Position: previousColumn(preceding.NewEnd),
				Offset:   currentOffset + preceding.NewText.Size() - 1,
			}
		}
	}

	return text.ClipResult{
		Position: preceding.NewEnd.Traverse(distancePast.Position),
		Offset:   currentOffset + preceding.NewText.Size() + distancePast.Offset,
	}
}

// positionForOffset translates a byte offset into a position, delegating
// unchanged regions to the layer below.
func (l *layer) positionForOffset(offset uint32) text.Point {
	if l.text != nil {
		return l.text.PositionForOffset(offset)
	}
	return l.patch.NewPositionForNewOffset(offset,
		func(oldPosition text.Point) uint32 {
			return l.previous.clipPosition(oldPosition, false).Offset
		},
		func(oldOffset uint32) text.Point {
			return l.previous.positionForOffset(oldOffset)
		})
}

// forEachChunkInRange yields the text of [start, end] as contiguous slices in
// document order, without concatenating. The callback returns true to abort;
// forEachChunkInRange then returns true as well.
func (l *layer) forEachChunkInRange(start, end text.Point, splay bool, callback func(text.Slice) bool) bool {
	goalPosition := l.clipPosition(end, splay).Position
	currentPosition := l.clipPosition(start, splay).Position

	if !l.usesPatch {
		return callback(text.NewSlice(l.text).Slice(text.Range{Start: currentPosition, End: goalPosition}))
	}
	if l.snapshotCount > 0 {
		splay = false
	}

	var basePosition text.Point
	var change *patch.Change
	if splay {
		change = l.patch.GrabChangeStartingBeforeNewPosition(currentPosition)
	} else {
		change = l.patch.ChangeStartingBeforeNewPosition(currentPosition)
	}
	if change == nil {
		basePosition = currentPosition
	} else if currentPosition.Less(change.NewEnd) {
		slice := text.NewSlice(change.NewText).Slice(text.Range{
			Start: text.MinPoint(change.NewEnd, currentPosition).Traversal(change.NewStart),
			End:   goalPosition.Traversal(change.NewStart),
		})
		if callback(slice) {
			return true
		}
		basePosition = change.OldEnd
		currentPosition = change.NewEnd
	} else {
		basePosition = change.OldEnd.Traverse(currentPosition.Traversal(change.NewEnd))
	}

	var changes []patch.Change
	if splay {
		changes = l.patch.GrabChangesInNewRange(currentPosition, goalPosition)
	} else {
		changes = l.patch.ChangesInNewRange(currentPosition, goalPosition)
	}
	for _, change := range changes {
		if basePosition.Less(change.OldStart) {
			if l.previous.forEachChunkInRange(basePosition, change.OldStart, false, callback) {
				return true
			}
		}

		slice := text.NewSlice(change.NewText).
			Prefix(text.MinPoint(change.NewEnd, goalPosition).Traversal(change.NewStart))
		if callback(slice) {
			return true
		}

		basePosition = change.OldEnd
		currentPosition = change.NewEnd
	}

	if currentPosition.Less(goalPosition) {
		return l.previous.forEachChunkInRange(
			basePosition,
			basePosition.Traverse(goalPosition.Traversal(currentPosition)),
			false,
			callback)
	}

	return false
}

func (l *layer) textInRange(r text.Range, splay bool) string {
	var sb strings.Builder
	l.forEachChunkInRange(r.Start, r.End, splay, func(slice text.Slice) bool {
		sb.Write(slice.Bytes())
		return false
	})
	return sb.String()
}

func (l *layer) chunksInRange(r text.Range) []text.Slice {
	var result []text.Slice
	l.forEachChunkInRange(r.Start, r.End, false, func(slice text.Slice) bool {
		result = append(result, slice)
		return false
	})
	return result
}

// isModified reports whether the document seen through l differs from the
// base layer's text, comparing chunkwise without concatenation.
func (l *layer) isModified(base *layer) bool {
	if l.size != base.size {
		return true
	}
	result := false
	startOffset := uint32(0)
	l.forEachChunkInRange(text.Point{}, l.extent, false, func(chunk text.Slice) bool {
		if bytes.Equal(chunk.Bytes(), base.text.Bytes()[startOffset:startOffset+chunk.Size()]) {
			startOffset += chunk.Size()
			return false
		}
		result = true
		return true
	})
	return result
}
