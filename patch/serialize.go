package patch

/*
BSD 3-Clause License

Copyright (c) 2020–21, Norbert Pillmayer

Please refer to the License file in the repository root.

*/

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/npillmayer/palimpsest/text"
)

// The wire form is little endian and carries no version tag: a change count,
// then per change the four point pairs, the old text size and the new text
// bytes. Old-text payloads are not serialized.

func writeUint32(w io.Writer, values ...uint32) error {
	var buf [4]byte
	for _, v := range values {
		binary.LittleEndian.PutUint32(buf[:], v)
		if _, err := w.Write(buf[:]); err != nil {
			return err
		}
	}
	return nil
}

func readUint32(r io.Reader, values ...*uint32) error {
	var buf [4]byte
	for _, v := range values {
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return fmt.Errorf("%w: %v", ErrCorruptPatch, err)
		}
		*v = binary.LittleEndian.Uint32(buf[:])
	}
	return nil
}

// Serialize writes the patch's changes to w.
func (p *Patch) Serialize(w io.Writer) error {
	if err := writeUint32(w, uint32(len(p.changes))); err != nil {
		return err
	}
	for _, c := range p.changes {
		err := writeUint32(w,
			c.OldStart.Row, c.OldStart.Column, c.OldEnd.Row, c.OldEnd.Column,
			c.NewStart.Row, c.NewStart.Column, c.NewEnd.Row, c.NewEnd.Column,
			c.OldTextSize, c.NewText.Size())
		if err != nil {
			return err
		}
		if _, err := w.Write(c.NewText.Bytes()); err != nil {
			return err
		}
	}
	return nil
}

// Deserialize reads a patch previously written by Serialize.
func Deserialize(r io.Reader) (*Patch, error) {
	var count uint32
	if err := readUint32(r, &count); err != nil {
		return nil, err
	}
	p := &Patch{changes: make([]Change, 0, count)}
	for i := uint32(0); i < count; i++ {
		var c Change
		var size uint32
		err := readUint32(r,
			&c.OldStart.Row, &c.OldStart.Column, &c.OldEnd.Row, &c.OldEnd.Column,
			&c.NewStart.Row, &c.NewStart.Column, &c.NewEnd.Row, &c.NewEnd.Column,
			&c.OldTextSize, &size)
		if err != nil {
			return nil, err
		}
		content := make([]byte, size)
		if _, err := io.ReadFull(r, content); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorruptPatch, err)
		}
		c.NewText = text.FromBytes(content)
		p.changes = append(p.changes, c)
	}
	p.rebuildPrefixSums(0)
	return p, nil
}
