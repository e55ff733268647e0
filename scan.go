package palimpsest

/*
BSD 3-Clause License

Copyright (c) 2020–21, Norbert Pillmayer

Please refer to the License file in the repository root.

*/

import (
	"io"
	"iter"
	"regexp"
	"unicode/utf8"

	"github.com/npillmayer/palimpsest/text"
)

// The scan engine streams regular-expression matches over the chunk
// iterator, never concatenating the scanned range. Go's regexp consumes a
// stream through io.RuneReader; chunkReader adapts the chunk walk to that
// interface, carrying runes that straddle chunk boundaries.
//
// Search-all restarts the reader past each match, so start-of-text anchors
// relate to the resumption point, not to the document.

// chunkReader feeds the chunks of a layer range to a regexp as runes.
type chunkReader struct {
	next    func() (text.Slice, bool)
	stop    func()
	current []byte
	carry   []byte
}

func newChunkReader(l *layer, start, end Point, splay bool) *chunkReader {
	seq := func(yield func(text.Slice) bool) {
		l.forEachChunkInRange(start, end, splay, func(slice text.Slice) bool {
			return !yield(slice)
		})
	}
	next, stop := iter.Pull(iter.Seq[text.Slice](seq))
	return &chunkReader{next: next, stop: stop}
}

// fill makes current non-empty, reporting false at end of range.
func (cr *chunkReader) fill() bool {
	for len(cr.current) == 0 {
		slice, ok := cr.next()
		if !ok {
			return false
		}
		cr.current = slice.Bytes()
	}
	return true
}

// ReadRune implements io.RuneReader over the chunk stream.
func (cr *chunkReader) ReadRune() (rune, int, error) {
	if len(cr.carry) > 0 {
		for !utf8.FullRune(cr.carry) {
			if !cr.fill() {
				break
			}
			cr.carry = append(cr.carry, cr.current[0])
			cr.current = cr.current[1:]
		}
		r, size := utf8.DecodeRune(cr.carry)
		cr.carry = cr.carry[size:]
		return r, size, nil
	}
	if !cr.fill() {
		return 0, 0, io.EOF
	}
	if c := cr.current[0]; c < utf8.RuneSelf {
		cr.current = cr.current[1:]
		return rune(c), 1, nil
	}
	if !utf8.FullRune(cr.current) {
		// The rune continues in the next chunk.
		cr.carry = append(cr.carry[:0], cr.current...)
		cr.current = nil
		return cr.ReadRune()
	}
	r, size := utf8.DecodeRune(cr.current)
	cr.current = cr.current[size:]
	return r, size, nil
}

// runeLenAtOffset returns the byte length of the rune starting at a document
// offset, judged by its leading byte.
func (l *layer) runeLenAtOffset(offset uint32) uint32 {
	b := l.characterAt(l.positionForOffset(offset))
	switch {
	case b < 0x80:
		return 1
	case b>>5 == 0x6:
		return 2
	case b>>4 == 0xE:
		return 3
	case b>>3 == 0x1E:
		return 4
	default:
		return 1
	}
}

// scanInRange streams every match of re within r to the callback, in
// document order. The callback returns true to abort the scan. A match whose
// end lands between a CR and a following LF has its end column decremented:
// positions inside CRLF terminators are not valid.
func (l *layer) scanInRange(re *regexp.Regexp, r Range, splay bool, callback func(Range) bool) {
	start := l.clipPosition(r.Start, splay)
	end := l.clipPosition(r.End, splay)

	searchStart := start.Offset
	for searchStart <= end.Offset {
		reader := newChunkReader(l, l.positionForOffset(searchStart), end.Position, splay)
		loc := re.FindReaderIndex(reader)
		reader.stop()
		if loc == nil {
			return
		}
		matchStart := searchStart + uint32(loc[0])
		matchEnd := searchStart + uint32(loc[1])

		startPosition := l.positionForOffset(matchStart)
		endPosition := l.positionForOffset(matchEnd)
		if matchEnd > 0 && matchEnd < l.size &&
			l.characterAt(endPosition) == '\n' &&
			l.characterAt(l.positionForOffset(matchEnd-1)) == '\r' {
			endPosition.Column--
		}

		if callback(Range{Start: startPosition, End: endPosition}) {
			return
		}

		if matchEnd == matchStart {
			searchStart = matchEnd + l.runeLenAtOffset(matchEnd)
		} else {
			searchStart = matchEnd
		}
	}
}

func (l *layer) searchInRange(re *regexp.Regexp, r Range, splay bool) (Range, bool) {
	var result Range
	found := false
	l.scanInRange(re, r, splay, func(match Range) bool {
		result = match
		found = true
		return true
	})
	return result, found
}

func (l *layer) searchAllInRange(re *regexp.Regexp, r Range, splay bool) []Range {
	var result []Range
	l.scanInRange(re, r, splay, func(match Range) bool {
		result = append(result, match)
		return false
	})
	return result
}

// ScanInRange streams every match of re within r to the callback. The
// callback returns true to abort.
func (b *Buffer) ScanInRange(re *regexp.Regexp, r Range, callback func(Range) bool) {
	b.topLayer.scanInRange(re, r, false, callback)
}

// Search returns the range of the first match of re, or false.
func (b *Buffer) Search(re *regexp.Regexp) (Range, bool) {
	return b.topLayer.searchInRange(re, Range{Start: Point{}, End: b.Extent()}, false)
}

// SearchInRange returns the range of the first match of re within r.
func (b *Buffer) SearchInRange(re *regexp.Regexp, r Range) (Range, bool) {
	return b.topLayer.searchInRange(re, r, false)
}

// SearchAll returns the ranges of all matches of re.
func (b *Buffer) SearchAll(re *regexp.Regexp) []Range {
	return b.topLayer.searchAllInRange(re, Range{Start: Point{}, End: b.Extent()}, false)
}

// SearchAllInRange returns the ranges of all matches of re within r.
func (b *Buffer) SearchAllInRange(re *regexp.Regexp, r Range) []Range {
	return b.topLayer.searchAllInRange(re, r, false)
}

// ScanInRange on a snapshot streams matches over the pinned document state.
func (s *Snapshot) ScanInRange(re *regexp.Regexp, r Range, callback func(Range) bool) {
	s.layer.scanInRange(re, r, false, callback)
}
