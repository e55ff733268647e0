package textfile

/*
BSD 3-Clause License

Copyright (c) 2020–21, Norbert Pillmayer

Please refer to the License file in the repository root.

*/

import (
	"fmt"
	"io"
	"os"

	"github.com/guiguan/caster"
	"github.com/npillmayer/palimpsest"
	"github.com/npillmayer/palimpsest/text"
)

// Some constants for fragment size defaults
const (
	twoKb     = 2048
	sixKb     = 6144
	tenKb     = 10240
	hundredKb = 102400
	oneMb     = 1048576
)

// Progress is broadcast to subscribers once per loaded fragment.
type Progress struct {
	Path   string
	Loaded int64
	Total  int64
}

// File represents an OS file which will be loaded as a buffer.
type File struct {
	path string
	info os.FileInfo
	file *os.File
	cast *caster.Caster // broadcaster for fragment progress
}

// Open opens a text file for loading, checking that it is a regular file.
func Open(name string) (*File, error) {
	fi, err := os.Stat(name)
	if err != nil {
		return nil, err
	}
	if !fi.Mode().IsRegular() {
		return nil, fmt.Errorf("file is not a regular file")
	}
	file, err := os.Open(name) // just open for read access
	if err != nil {
		return nil, err
	}
	return &File{
		path: name,
		info: fi,
		file: file,
		cast: caster.New(nil), // we will broadcast messages when fragments are loaded
	}, nil
}

// Subscribe returns a channel receiving a Progress message per loaded
// fragment. The channel closes when loading finishes.
func (f *File) Subscribe() <-chan interface{} {
	ch, _ := f.cast.Sub(nil, 16)
	return ch
}

// Load reads the whole file fragment-wise and returns it as a buffer.
// Clients may indicate a recommended fragment length; 0 lets Load use
// sensible defaults depending on the file size.
func (f *File) Load(fragSize int64) (*palimpsest.Buffer, error) {
	defer f.cast.Close()
	defer f.file.Close()

	size := f.info.Size()
	if fragSize <= 0 || fragSize > tenKb {
		switch {
		case size < 64:
			fragSize = size
		case size < 1024:
			fragSize = 64
		case size < tenKb:
			fragSize = 256
		case size < hundredKb:
			fragSize = 512
		case size < oneMb:
			fragSize = twoKb
		default:
			fragSize = sixKb
		}
	}
	if fragSize <= 0 {
		fragSize = 64
	}

	content := make([]byte, 0, size)
	buf := make([]byte, fragSize)
	var loaded int64
	for loaded < size {
		n, err := f.file.ReadAt(buf, loaded)
		if err != nil && err != io.EOF {
			return nil, fmt.Errorf("error loading text fragment: %w", err)
		}
		if n == 0 {
			break
		}
		content = append(content, buf[:n]...)
		loaded += int64(n)
		f.cast.Pub(Progress{Path: f.path, Loaded: loaded, Total: size})
		if err == io.EOF {
			break
		}
	}
	tracer().Infof("loaded %d bytes from %s", loaded, f.path)
	return palimpsest.FromText(text.FromBytes(content)), nil
}

// Load reads a file, which must be a text file, and loads it as a buffer.
// fragSize may be 0, letting Load choose a default.
func Load(name string, fragSize int64) (*palimpsest.Buffer, error) {
	f, err := Open(name)
	if err != nil {
		return nil, err
	}
	return f.Load(fragSize)
}

// Save streams the buffer's chunks to w without concatenating the document.
func Save(buf *palimpsest.Buffer, w io.Writer) error {
	return buf.EachChunk(func(slice text.Slice, pos uint32) error {
		_, err := w.Write(slice.Bytes())
		return err
	})
}

// SaveFile writes the buffer to a file, creating or truncating it.
func SaveFile(buf *palimpsest.Buffer, name string) error {
	file, err := os.Create(name)
	if err != nil {
		return err
	}
	if err := Save(buf, file); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
