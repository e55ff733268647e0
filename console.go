package palimpsest

/*
BSD 3-Clause License

Copyright (c) 2020–21, Norbert Pillmayer

Please refer to the License file in the repository root.

*/

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// layerPalette maps layer roles to console colors for Dump.
type layerPalette struct {
	base    *color.Color
	patched *color.Color
	frozen  *color.Color
}

func makeDefaultPalette() layerPalette {
	return layerPalette{
		base:    color.New(color.FgBlue),
		patched: color.New(color.FgRed),
		frozen:  color.New(color.FgCyan),
	}
}

// Dump writes a human-readable rendition of the layer stack to w: per layer
// a header line, then a line for its text and one line per patch change.
// Header lines are colored when the color package enables color (it checks
// standard output, not w): blue for text layers, red for patch layers, cyan
// for frozen layers. Intended for debugging sessions, not for programmatic
// use.
func (b *Buffer) Dump(w io.Writer) {
	palette := makeDefaultPalette()
	width := 80
	if term.IsTerminal(0) {
		if tw, _, err := term.GetSize(0); err == nil && tw > 20 {
			width = tw
		}
	}

	index := b.LayerCount() - 1
	for l := b.topLayer; l != nil; l = l.previous {
		role := palette.patched
		kind := "patch"
		if !l.usesPatch {
			role = palette.base
			kind = "text"
		}
		if l.snapshotCount > 0 {
			role = palette.frozen
		}
		header := fmt.Sprintf("layer %d  [%s, %d snapshots, extent %s, %d bytes]",
			index, kind, l.snapshotCount, l.extent, l.size)
		if l == b.baseLayer {
			header += "  *base"
		}
		role.Fprintln(w, header)

		if l.text != nil {
			fmt.Fprintln(w, clipLine("  text: "+quoted(l.text.String()), width))
		}
		if l.patch != nil {
			for _, change := range l.patch.Changes() {
				line := fmt.Sprintf("  %s..%s → %s..%s %s",
					change.OldStart, change.OldEnd, change.NewStart, change.NewEnd,
					quoted(change.NewText.String()))
				fmt.Fprintln(w, clipLine(line, width))
			}
		}
		index--
	}
}

func quoted(s string) string {
	s = strings.ReplaceAll(s, "\r", "\\r")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return "“" + s + "”"
}

func clipLine(s string, width int) string {
	if len(s) > width {
		return s[:width-1] + "…"
	}
	return s
}
