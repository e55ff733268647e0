/*
Package textfile loads text files into palimpsest buffers and writes buffers
back out, streaming in both directions.

Loading reads the file fragment-wise and broadcasts a Progress message per
fragment, so user interfaces can observe long loads. Saving streams the
buffer's chunks to a writer without concatenating the document.

_________________________________________________________________________

# BSD 3-Clause License

# Copyright (c) 2020–21, Norbert Pillmayer

Please refer to the LICENSE file for details.
*/
package textfile

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'palimpsest'
func tracer() tracing.Trace {
	return tracing.Select("palimpsest")
}
