package red

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/rcarmo/go-red/pkg/config"
	"github.com/rcarmo/go-red/pkg/editor"
	"github.com/rcarmo/go-red/pkg/editor/buffer"
	"github.com/rcarmo/go-red/pkg/testutil"
)

func TestRendererPlain(t *testing.T) {
	var out bytes.Buffer
	r := newRenderer(&out, false)
	r.Line("\tliteral")
	r.Numbered(7, 3, "text")
	r.Size(42)
	r.Notice("Creating a new file")
	r.Error(errors.New("boom"))
	r.Error(fmt.Errorf("docs: %w", editor.ErrIsFolder))
	r.Error(fmt.Errorf("%w: denied", editor.ErrProtected))
	r.Goodbye()

	want := "\tliteral\n" +
		"  7   text\n" +
		"42\n" +
		"Creating a new file\n" +
		"?\n" +
		"docs: is a folder\n" +
		"File is protected\n" +
		"Have a nice day !\n"
	testutil.AssertOutput(t, out.String(), want)
}

func TestRendererColor(t *testing.T) {
	var out bytes.Buffer
	r := newRenderer(&out, true)
	r.Error(errors.New("boom"))
	r.Line("plain")
	got := out.String()
	if !strings.Contains(got, "\x1b[") {
		t.Errorf("colored output has no escape sequence: %q", got)
	}
	if !strings.HasSuffix(got, "\nplain\n") {
		t.Errorf("buffer text must not be styled: %q", got)
	}
}

func TestRendererPrompt(t *testing.T) {
	r := newRenderer(&bytes.Buffer{}, false)

	b := buffer.New(nil)
	testutil.AssertOutput(t, r.Prompt(b), "0/0*")

	b = buffer.New([]string{"a", "b", "c"})
	b.SetCursor(1)
	testutil.AssertOutput(t, r.Prompt(b), "2/3*")

	b.Set(0, "z")
	testutil.AssertOutput(t, r.Prompt(b), "2/3+*")
}

func TestUseColor(t *testing.T) {
	stdio, _, _ := testutil.CaptureStdio("")
	if !useColor(config.ColorAlways, stdio) {
		t.Error("always should color")
	}
	if useColor(config.ColorNever, stdio) {
		t.Error("never should not color")
	}
	if useColor(config.ColorAuto, stdio) {
		t.Error("auto should not color a buffer")
	}
}
