package palimpsest

import (
	"fmt"
	"io"
	"strings"
)

// Buffer2Dot outputs the layer stack of a buffer in Graphviz DOT format
// (for debugging purposes).
//
func Buffer2Dot(buffer *Buffer, w io.Writer) {
	var layers []*layer
	for l := buffer.topLayer; l != nil; l = l.previous {
		layers = append(layers, l)
	}

	io.WriteString(w, "digraph {\n")
	io.WriteString(w, "\tnode [fontname=Arial,fontsize=12];\n")
	nodelist, edgelist := "", ""
	for i := len(layers) - 1; i >= 0; i-- {
		l := layers[i]
		index := len(layers) - 1 - i
		flags := ""
		if l == buffer.baseLayer {
			flags += ",base"
		}
		if l.usesPatch {
			flags += ",patch"
		}
		label := fmt.Sprintf("layer %d\\nsnapshots %d%s", index, l.snapshotCount, flags)
		nodelist += fmt.Sprintf("\"L%d\" [label=\"%s\",shape=box,style=filled,fillcolor=\"#a3d7e4\"];\n", index, label)
		if i < len(layers)-1 {
			edgelist += fmt.Sprintf("\"L%d\" -> \"L%d\";\n", index, index-1)
		}
		if l.text != nil {
			nodelist += fmt.Sprintf("\"T%d\" [label=\"“%s”\",shape=note];\n", index, dotEscape(l.text.String()))
			edgelist += fmt.Sprintf("\"L%d\" -> \"T%d\";\n", index, index)
		}
		if l.patch != nil {
			for k, change := range l.patch.Changes() {
				label := fmt.Sprintf("%s→%s @%s\\n“%s”",
					change.OldStart, change.OldEnd, change.NewStart, dotEscape(change.NewText.String()))
				nodelist += fmt.Sprintf("\"C%d_%d\" [label=\"%s\",shape=box];\n", index, k, label)
				edgelist += fmt.Sprintf("\"L%d\" -> \"C%d_%d\";\n", index, index, k)
			}
		}
	}
	io.WriteString(w, nodelist)
	io.WriteString(w, edgelist)
	io.WriteString(w, "}\n")
}

// DotGraph returns the DOT dump of the layer stack as a string.
func (b *Buffer) DotGraph() string {
	var sb strings.Builder
	Buffer2Dot(b, &sb)
	return sb.String()
}

func dotEscape(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	s = strings.ReplaceAll(s, "\r", "\\\\r")
	s = strings.ReplaceAll(s, "\n", "\\\\n")
	if len(s) > 24 {
		s = s[:24] + "…"
	}
	return s
}
