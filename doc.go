/*
Package palimpsest implements a layered patch buffer: an in-memory text
document designed to back interactive editors.

Layered patch buffer

The document is a linear stack of layers. At the bottom sits a base layer
holding immutable text — the document at some past moment. Above it, patch
layers each hold a set of non-overlapping changes against the layer below.
The topmost layer is the current document; edits accumulate there. A snapshot
pins its layer and the base, and keeps reading the document as of its
creation, no matter how the buffer moves on. When no snapshot needs them any
longer, adjacent layers are squashed back into one.

A palimpsest, from the Greek, is a manuscript page whose earlier text has
been scraped off and written over — with the earlier writing still shining
through. That is precisely the shape of this data structure.

Reading the document never concatenates it: range queries walk the layers and
yield contiguous slices, taken alternately from patch replacement texts and
from the base text. Regular-expression search streams over those slices.
Coordinate translation between (row, column) positions and byte offsets is
CRLF-aware: a position between a carriage return and a following line feed is
not a valid place to stand and clips left onto the CR.

Positions count UTF-8 bytes. Apart from CRLF, multi-byte sequences are opaque
to the core; a richer grapheme policy is a concern of packages above it (see
the metrics subpackage).

The buffer is not internally synchronized. Writers must be serialized by the
host; snapshot readers may run concurrently with other readers, which is safe
because layers referenced by snapshots only ever answer pure queries.

_________________________________________________________________________

BSD 3-Clause License

Copyright (c) 2020–21, Norbert Pillmayer

All rights reserved.

Redistribution and use in source and binary forms, with or without
modification, are permitted provided that the following conditions are met:

1. Redistributions of source code must retain the above copyright notice, this
list of conditions and the following disclaimer.

2. Redistributions in binary form must reproduce the above copyright notice,
this list of conditions and the following disclaimer in the documentation
and/or other materials provided with the distribution.

3. Neither the name of the copyright holder nor the names of its
contributors may be used to endorse or promote products derived from
this software without specific prior written permission.

THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS "AS IS"
AND ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT LIMITED TO, THE
IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR A PARTICULAR PURPOSE ARE
DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT HOLDER OR CONTRIBUTORS BE LIABLE
FOR ANY DIRECT, INDIRECT, INCIDENTAL, SPECIAL, EXEMPLARY, OR CONSEQUENTIAL
DAMAGES (INCLUDING, BUT NOT LIMITED TO, PROCUREMENT OF SUBSTITUTE GOODS OR
SERVICES; LOSS OF USE, DATA, OR PROFITS; OR BUSINESS INTERRUPTION) HOWEVER
CAUSED AND ON ANY THEORY OF LIABILITY, WHETHER IN CONTRACT, STRICT LIABILITY,
OR TORT (INCLUDING NEGLIGENCE OR OTHERWISE) ARISING IN ANY WAY OUT OF THE USE
OF THIS SOFTWARE, EVEN IF ADVISED OF THE POSSIBILITY OF SUCH DAMAGE.

*/
package palimpsest

import (
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
)

// T traces to a global core-tracer.
func T() tracing.Trace {
	return gtrace.CoreTracer
}

// BufferError is an error type for the palimpsest module.
type BufferError string

func (e BufferError) Error() string {
	return string(e)
}

// ErrBufferNotPristine signals that deserialization was attempted on a
// buffer that already carries history (patch layers above its base).
const ErrBufferNotPristine = BufferError("buffer already carries changes; cannot deserialize onto it")

func assert(condition bool, msg string) {
	if !condition {
		panic(msg)
	}
}
