package metrics

import (
	"unicode"
	"unicode/utf8"

	"github.com/npillmayer/palimpsest/text"
	"github.com/npillmayer/uax/grapheme"
)

// Source is any document the metrics can measure: the buffer itself or one
// of its snapshots.
type Source interface {
	TextInRange(text.Range) string
	Extent() text.Point
}

// Span is a byte-range descriptor inside a measured range.
//
// Pos is the start byte offset relative to the range start, Len is the span
// length in bytes.
type Span struct {
	Pos uint64
	Len uint64
}

// Full returns the range covering all of src.
func Full(src Source) text.Range {
	return text.Range{End: src.Extent()}
}

// LineCount counts the lines of the measured range, delimited by "\n",
// "\r\n" or a lone "\r". Text without a trailing terminator still counts as
// a line; an empty range counts zero.
func LineCount(src Source, r text.Range) int {
	content := src.TextInRange(r)
	if len(content) == 0 {
		return 0
	}
	count := 1
	for i := 0; i < len(content); {
		switch content[i] {
		case '\n':
			count++
			i++
		case '\r':
			if i+1 < len(content) && content[i+1] == '\n' {
				i += 2
			} else {
				i++
			}
			count++
		default:
			i++
		}
	}
	if last := content[len(content)-1]; last == '\n' || last == '\r' {
		count-- // trailing terminator opens no further line
	}
	return count
}

// WordCount counts whitespace-delimited words in the measured range.
func WordCount(src Source, r text.Range) int {
	return len(WordSpans(src, r))
}

// WordSpans scans the measured range for words and returns their spans.
//
// The range is materialized first; measuring operates on the flat string.
func WordSpans(src Source, r text.Range) []Span {
	content := src.TextInRange(r)
	spans := make([]Span, 0, 8)
	for pos := 0; pos < len(content); {
		rn, width := utf8.DecodeRuneInString(content[pos:])
		if unicode.IsSpace(rn) {
			pos += width
			continue
		}
		start := pos
		pos += width
		for pos < len(content) {
			rn, width = utf8.DecodeRuneInString(content[pos:])
			if unicode.IsSpace(rn) {
				break
			}
			pos += width
		}
		spans = append(spans, Span{Pos: uint64(start), Len: uint64(pos - start)})
	}
	return spans
}

// GraphemeCount counts user-perceived characters (grapheme clusters) in the
// measured range. Callers must have initialized the grapheme classes once,
// e.g. via grapheme.SetupGraphemeClasses().
func GraphemeCount(src Source, r text.Range) int {
	content := src.TextInRange(r)
	if content == "" {
		return 0
	}
	gstr := grapheme.StringFromString(content)
	n := gstr.Len()
	tracer().Debugf("metrics: %d graphemes in %d bytes", n, len(content))
	return n
}
