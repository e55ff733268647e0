package textfile

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/npillmayer/palimpsest"
	"github.com/npillmayer/palimpsest/text"
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func setupTracing(t *testing.T) func() {
	gtrace.CoreTracer = gotestingadapter.New(t)
	teardown := gotestingadapter.RedirectTracing(t)
	gtrace.CoreTracer.SetTraceLevel(tracing.LevelInfo)
	return teardown
}

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	name := filepath.Join(t.TempDir(), "sample.txt")
	if err := os.WriteFile(name, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return name
}

func TestLoad(t *testing.T) {
	teardown := setupTracing(t)
	defer teardown()
	//
	content := "lorem ipsum\ndolor sit amet\r\nconsectetur"
	name := writeTempFile(t, content)
	buf, err := Load(name, 0)
	if err != nil {
		t.Fatal(err)
	}
	if buf.Text() != content {
		t.Errorf("loaded text = %q", buf.Text())
	}
	if buf.IsModified() {
		t.Errorf("freshly loaded buffer reads as modified")
	}
}

func TestLoadBroadcastsProgress(t *testing.T) {
	teardown := setupTracing(t)
	defer teardown()
	//
	content := strings.Repeat("0123456789abcdef\n", 100)
	name := writeTempFile(t, content)
	f, err := Open(name)
	if err != nil {
		t.Fatal(err)
	}
	progress := f.Subscribe()
	done := make(chan int)
	go func() {
		fragments := 0
		var last Progress
		for m := range progress {
			if p, ok := m.(Progress); ok {
				fragments++
				last = p
			}
		}
		if last.Loaded != last.Total {
			t.Errorf("final progress = %d of %d", last.Loaded, last.Total)
		}
		done <- fragments
	}()

	buf, err := f.Load(256)
	if err != nil {
		t.Fatal(err)
	}
	if buf.Text() != content {
		t.Errorf("loaded text differs from file content")
	}
	if fragments := <-done; fragments < 2 {
		t.Errorf("expected several progress messages, got %d", fragments)
	}
}

func TestLoadRejectsDirectories(t *testing.T) {
	teardown := setupTracing(t)
	defer teardown()
	//
	if _, err := Load(t.TempDir(), 0); err == nil {
		t.Errorf("loading a directory did not fail")
	}
}

func TestSaveStreamsChunks(t *testing.T) {
	teardown := setupTracing(t)
	defer teardown()
	//
	b := palimpsest.FromString("aaaa bbbb")
	b.SetTextInRange(palimpsest.Range{
		Start: text.P(0, 5),
		End:   text.P(0, 9),
	}, "2222")

	var out bytes.Buffer
	if err := Save(b, &out); err != nil {
		t.Fatal(err)
	}
	if out.String() != "aaaa 2222" {
		t.Errorf("saved content = %q", out.String())
	}
}

func TestSaveFileRoundTrip(t *testing.T) {
	teardown := setupTracing(t)
	defer teardown()
	//
	name := filepath.Join(t.TempDir(), "out.txt")
	b := palimpsest.FromString("round\ntrip\n")
	if err := SaveFile(b, name); err != nil {
		t.Fatal(err)
	}
	loaded, err := Load(name, 0)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Text() != b.Text() {
		t.Errorf("round trip = %q, want %q", loaded.Text(), b.Text())
	}
}
