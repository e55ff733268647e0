package patch

/*
BSD 3-Clause License

Copyright (c) 2020–21, Norbert Pillmayer

Please refer to the License file in the repository root.

*/

import (
	"sort"

	"github.com/npillmayer/palimpsest/text"
)

// Change is one contiguous replacement record. The old range addresses the
// layer below, the new range the owning layer; NewText carries the
// replacement bytes. OldText is optional and only populated for inverted
// patches. The Preceding* sums aggregate the sizes of all changes ordered
// before this one and are maintained by the patch.
type Change struct {
	OldStart text.Point
	OldEnd   text.Point
	NewStart text.Point
	NewEnd   text.Point

	NewText *text.Text
	OldText *text.Text

	OldTextSize          uint32
	PrecedingOldTextSize uint32
	PrecedingNewTextSize uint32
}

// OldExtent returns the distance covered by the change's old range.
func (c Change) OldExtent() text.Point {
	return c.OldEnd.Traversal(c.OldStart)
}

// NewExtent returns the distance covered by the change's new range.
func (c Change) NewExtent() text.Point {
	return c.NewEnd.Traversal(c.NewStart)
}

// Patch is an ordered set of non-overlapping changes. The zero value is an
// empty patch, ready for use.
type Patch struct {
	changes []Change
	hint    int
}

// New creates an empty patch.
func New() *Patch {
	return &Patch{}
}

// ChangeCount returns the number of change records.
func (p *Patch) ChangeCount() int {
	return len(p.changes)
}

// IsEmpty reports whether the patch holds no changes.
func (p *Patch) IsEmpty() bool {
	return len(p.changes) == 0
}

// Clear removes all changes.
func (p *Patch) Clear() {
	p.changes = p.changes[:0]
	p.hint = 0
}

// Clone returns a structural copy. New-text payloads are shared; they are
// immutable by convention.
func (p *Patch) Clone() *Patch {
	q := &Patch{changes: make([]Change, len(p.changes))}
	copy(q.changes, p.changes)
	return q
}

// Changes returns a copy of all change records in order.
func (p *Patch) Changes() []Change {
	result := make([]Change, len(p.changes))
	copy(result, p.changes)
	return result
}

// rebuildPrefixSums refreshes the Preceding* aggregates from index from on.
func (p *Patch) rebuildPrefixSums(from int) {
	for i := from; i < len(p.changes); i++ {
		if i == 0 {
			p.changes[i].PrecedingOldTextSize = 0
			p.changes[i].PrecedingNewTextSize = 0
			continue
		}
		prev := &p.changes[i-1]
		p.changes[i].PrecedingOldTextSize = prev.PrecedingOldTextSize + prev.OldTextSize
		p.changes[i].PrecedingNewTextSize = prev.PrecedingNewTextSize + prev.NewText.Size()
	}
}

// indexStartingBeforeNew returns the index of the last change whose new
// start is at or before position, or -1.
func (p *Patch) indexStartingBeforeNew(position text.Point, fromHint bool) int {
	lo, hi := 0, len(p.changes)
	if fromHint && p.hint < len(p.changes) {
		// The hint narrows the search to one side.
		if p.changes[p.hint].NewStart.LessEq(position) {
			lo = p.hint
		} else {
			hi = p.hint
		}
	}
	tail := p.changes[lo:hi]
	i := sort.Search(len(tail), func(i int) bool { return position.Less(tail[i].NewStart) })
	return lo + i - 1
}

// ChangeStartingBeforeNewPosition returns a copy of the last change whose
// new range starts at or before position, or nil. Pure.
func (p *Patch) ChangeStartingBeforeNewPosition(position text.Point) *Change {
	i := p.indexStartingBeforeNew(position, false)
	if i < 0 {
		return nil
	}
	c := p.changes[i]
	return &c
}

// GrabChangeStartingBeforeNewPosition is the hinted variant of
// ChangeStartingBeforeNewPosition. It records the access position to seed
// future lookups and must not be called on a frozen layer's patch.
func (p *Patch) GrabChangeStartingBeforeNewPosition(position text.Point) *Change {
	i := p.indexStartingBeforeNew(position, true)
	if i < 0 {
		return nil
	}
	p.hint = i
	c := p.changes[i]
	return &c
}

// ChangesInNewRange returns copies of all changes whose new range properly
// intersects the open interval (start, end). Pure.
func (p *Patch) ChangesInNewRange(start, end text.Point) []Change {
	var result []Change
	for _, c := range p.changes {
		if start.Less(c.NewEnd) && c.NewStart.Less(end) {
			result = append(result, c)
		}
	}
	return result
}

// GrabChangesInNewRange is the hinted variant of ChangesInNewRange.
func (p *Patch) GrabChangesInNewRange(start, end text.Point) []Change {
	if i := p.indexStartingBeforeNew(start, true); i >= 0 {
		p.hint = i
	}
	return p.ChangesInNewRange(start, end)
}

// shiftNewCoordinates rewrites the new coordinates of all changes from index
// from on, replacing the boundary oldBoundary with newBoundary.
func (p *Patch) shiftNewCoordinates(from int, oldBoundary, newBoundary text.Point) {
	for i := from; i < len(p.changes); i++ {
		c := &p.changes[i]
		c.NewStart = newBoundary.Traverse(c.NewStart.Traversal(oldBoundary))
		c.NewEnd = newBoundary.Traverse(c.NewEnd.Traversal(oldBoundary))
	}
}

// Splice records a replacement in new coordinates: the range
// [newStart, newStart+deletedExtent] is replaced by newText, whose extent is
// insertedExtent. deletedTextSize is the byte count of the deleted new-space
// text, which the caller knows and the patch cannot compute on its own.
// Overlapping and touching changes are merged into one record.
func (p *Patch) Splice(newStart, deletedExtent, insertedExtent text.Point,
	oldText, newText *text.Text, deletedTextSize uint32) {
	//
	newEnd := newStart.Traverse(deletedExtent)
	insertEnd := newStart.Traverse(insertedExtent)

	first := sort.Search(len(p.changes), func(i int) bool {
		return newStart.LessEq(p.changes[i].NewEnd)
	})

	if first == len(p.changes) || newEnd.Less(p.changes[first].NewStart) {
		// No overlap: record a fresh change.
		oldStart := newStart
		if first > 0 {
			prev := p.changes[first-1]
			oldStart = prev.OldEnd.Traverse(newStart.Traversal(prev.NewEnd))
		}
		c := Change{
			OldStart:    oldStart,
			OldEnd:      oldStart.Traverse(deletedExtent),
			NewStart:    newStart,
			NewEnd:      insertEnd,
			NewText:     newText,
			OldText:     oldText,
			OldTextSize: deletedTextSize,
		}
		p.changes = append(p.changes, Change{})
		copy(p.changes[first+1:], p.changes[first:])
		p.changes[first] = c
		p.shiftNewCoordinates(first+1, newEnd, insertEnd)
		p.rebuildPrefixSums(first)
		p.hint = 0
		return
	}

	// Merge with the run of intersecting changes [first, last].
	last := first
	for last+1 < len(p.changes) && p.changes[last+1].NewStart.LessEq(newEnd) {
		last++
	}
	c1 := p.changes[first]
	ck := p.changes[last]

	oldStart := c1.OldStart
	if newStart.Less(c1.NewStart) {
		oldStart = newStart
		if first > 0 {
			prev := p.changes[first-1]
			oldStart = prev.OldEnd.Traverse(newStart.Traversal(prev.NewEnd))
		}
	}
	oldEnd := ck.OldEnd
	if ck.NewEnd.LessEq(newEnd) {
		oldEnd = ck.OldEnd.Traverse(newEnd.Traversal(ck.NewEnd))
	}

	// Assemble the merged replacement text: surviving prefix of the first
	// change, the inserted text, surviving suffix of the last change.
	var content []byte
	mergedStart := text.MinPoint(newStart, c1.NewStart)
	if c1.NewStart.Less(newStart) {
		cut := c1.NewText.OffsetForPosition(newStart.Traversal(c1.NewStart))
		content = append(content, c1.NewText.Bytes()[:cut]...)
	}
	content = append(content, newText.Bytes()...)
	mergedEnd := insertEnd
	if newEnd.Less(ck.NewEnd) {
		cut := ck.NewText.OffsetForPosition(newEnd.Traversal(ck.NewStart))
		content = append(content, ck.NewText.Bytes()[cut:]...)
		mergedEnd = insertEnd.Traverse(ck.NewEnd.Traversal(newEnd))
	}

	// Old bytes covered by the merged record: the incoming deletion minus
	// the parts that were layer-introduced, plus the old bytes the merged
	// changes already accounted for.
	covered := uint32(0)
	oldBytes := uint32(0)
	for i := first; i <= last; i++ {
		c := p.changes[i]
		lo := text.MaxPoint(newStart, c.NewStart)
		hi := text.MinPoint(newEnd, c.NewEnd)
		covered += c.NewText.OffsetForPosition(hi.Traversal(c.NewStart)) -
			c.NewText.OffsetForPosition(lo.Traversal(c.NewStart))
		oldBytes += c.OldTextSize
	}
	assert(deletedTextSize >= covered, "patch.Splice: deleted size below covered new text")

	merged := Change{
		OldStart:    oldStart,
		OldEnd:      oldEnd,
		NewStart:    mergedStart,
		NewEnd:      mergedEnd,
		NewText:     text.FromBytes(content),
		OldTextSize: deletedTextSize - covered + oldBytes,
	}

	p.changes = append(p.changes[:first+1], p.changes[last+1:]...)
	p.changes[first] = merged
	p.shiftNewCoordinates(first+1, newEnd, insertEnd)
	p.rebuildPrefixSums(first)
	p.hint = 0
}

// SpliceOld edits the patch in old coordinate space: the old range
// [oldStart, oldStart+deletedExtent] is declared replaced by insertedExtent
// of content that maps identically to the layer above. Changes intersecting
// the range are dropped; with two zero extents this removes a change that
// turned out to be a no-op.
func (p *Patch) SpliceOld(oldStart, deletedExtent, insertedExtent text.Point) {
	oldEnd := oldStart.Traverse(deletedExtent)
	oldInsertEnd := oldStart.Traverse(insertedExtent)

	first := sort.Search(len(p.changes), func(i int) bool {
		return oldStart.LessEq(p.changes[i].OldEnd)
	})
	if first < len(p.changes) && p.changes[first].OldStart.LessEq(oldEnd) {
		last := first
		for last+1 < len(p.changes) && p.changes[last+1].OldStart.LessEq(oldEnd) {
			last++
		}
		p.changes = append(p.changes[:first], p.changes[last+1:]...)
	}

	// Shift the old coordinates of everything past the edited region, then
	// recompute new coordinates from the chain invariant: the gap between
	// consecutive changes maps identically.
	for i := first; i < len(p.changes); i++ {
		c := &p.changes[i]
		c.OldStart = oldInsertEnd.Traverse(c.OldStart.Traversal(oldEnd))
		c.OldEnd = oldInsertEnd.Traverse(c.OldEnd.Traversal(oldEnd))
	}
	for i := first; i < len(p.changes); i++ {
		c := &p.changes[i]
		newExtent := c.NewEnd.Traversal(c.NewStart)
		if i == 0 {
			c.NewStart = c.OldStart
		} else {
			prev := p.changes[i-1]
			c.NewStart = prev.NewEnd.Traverse(c.OldStart.Traversal(prev.OldEnd))
		}
		c.NewEnd = c.NewStart.Traverse(newExtent)
	}
	p.rebuildPrefixSums(first)
	p.hint = 0
}

// Combine folds a later patch into p. p maps an original space to an
// intermediate one; later maps that intermediate space onward. Afterwards p
// maps the original space directly to later's new space.
//
// Each of later's changes is spliced at its own new start: changes are
// ordered and disjoint, so by the time a change is folded, p's new space
// agrees with later's new space up to that position.
func (p *Patch) Combine(later *Patch) {
	for _, c := range later.changes {
		p.Splice(c.NewStart, c.OldExtent(), c.NewExtent(), nil, c.NewText, c.OldTextSize)
	}
}

// NewPositionForNewOffset translates a byte offset in the patch's new space
// into a position. The patch has no absolute notion of unchanged regions, so
// the caller supplies two callbacks into the layer below: one resolving an
// old position to its offset, one resolving an old offset to its position.
func (p *Patch) NewPositionForNewOffset(offset uint32,
	oldPositionToOffset func(text.Point) uint32,
	oldOffsetToPosition func(uint32) text.Point) text.Point {
	//
	startOffset := func(i int) uint32 {
		c := p.changes[i]
		return oldPositionToOffset(c.OldStart) - c.PrecedingOldTextSize + c.PrecedingNewTextSize
	}
	i := sort.Search(len(p.changes), func(i int) bool { return startOffset(i) > offset })
	i--
	if i < 0 {
		return oldOffsetToPosition(offset)
	}
	c := p.changes[i]
	newStartOffset := startOffset(i)
	if offset < newStartOffset+c.NewText.Size() {
		return c.NewStart.Traverse(c.NewText.PositionForOffset(offset - newStartOffset))
	}
	oldEndOffset := oldPositionToOffset(c.OldStart) + c.OldTextSize
	oldPosition := oldOffsetToPosition(oldEndOffset + (offset - (newStartOffset + c.NewText.Size())))
	return c.NewEnd.Traverse(oldPosition.Traversal(c.OldEnd))
}
