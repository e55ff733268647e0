package palimpsest

/*
BSD 3-Clause License

Copyright (c) 2020–21, Norbert Pillmayer

Please refer to the License file in the repository root.

*/

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/npillmayer/palimpsest/patch"
)

// The buffer serializes its accumulated changes — not its base text — as
// `size | extent | patch`, little endian, without a version tag. The host
// pairs this with however it persists the base text itself.

// SerializeChanges writes the document size, extent and the composition of
// all patch layers above the base to w.
func (b *Buffer) SerializeChanges(w io.Writer) error {
	var buf [12]byte
	binary.LittleEndian.PutUint32(buf[0:], b.topLayer.size)
	binary.LittleEndian.PutUint32(buf[4:], b.topLayer.extent.Row)
	binary.LittleEndian.PutUint32(buf[8:], b.topLayer.extent.Column)
	if _, err := w.Write(buf[:]); err != nil {
		return err
	}

	if b.topLayer == b.baseLayer {
		return patch.New().Serialize(w)
	}
	if b.topLayer.previous == b.baseLayer {
		return b.topLayer.patch.Serialize(w)
	}

	var combined *patch.Patch
	for l := b.topLayer; l != b.baseLayer; l = l.previous {
		if combined == nil {
			combined = l.patch.Clone()
			continue
		}
		lower := l.patch.Clone()
		lower.Combine(combined)
		combined = lower
	}
	return combined.Serialize(w)
}

// DeserializeChanges reads changes previously written by SerializeChanges
// into a fresh patch layer above the base. The buffer must be in the
// pristine single-layer state; otherwise ErrBufferNotPristine is returned
// and the buffer is left untouched.
func (b *Buffer) DeserializeChanges(r io.Reader) error {
	if b.topLayer != b.baseLayer || b.baseLayer.previous != nil {
		return ErrBufferNotPristine
	}

	var buf [12]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return fmt.Errorf("%w: %v", patch.ErrCorruptPatch, err)
	}
	p, err := patch.Deserialize(r)
	if err != nil {
		return err
	}

	top := newPatchLayer(b.baseLayer)
	top.size = binary.LittleEndian.Uint32(buf[0:])
	top.extent = Point{
		Row:    binary.LittleEndian.Uint32(buf[4:]),
		Column: binary.LittleEndian.Uint32(buf[8:]),
	}
	top.patch = p
	b.topLayer = top
	return nil
}
