package editor

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/rcarmo/go-red/pkg/editor/buffer"
	"github.com/rcarmo/go-red/pkg/editor/subst"
)

func drawLines(t *rapid.T, minLen int) []string {
	return rapid.SliceOfN(rapid.StringMatching(`[ab ]{0,8}`), minLen, 20).Draw(t, "lines")
}

func TestPropertyGotoPrintsExactlyThatLine(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		lines := drawLines(t, 1)
		n := rapid.IntRange(1, len(lines)).Draw(t, "n")
		ed, out := newTestEditor(lines...)

		if err := ed.Feed(fmt.Sprint(n)); err != nil {
			t.Fatalf("goto %d: %v", n, err)
		}
		assert.Equal(t, n-1, ed.Buffer().Cursor())
		assert.Equal(t, []string{lines[n-1]}, out.lines)
	})
}

func TestPropertyPrintIsVerbatim(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		lines := drawLines(t, 1)
		start := rapid.IntRange(1, len(lines)).Draw(t, "start")
		end := rapid.IntRange(start, len(lines)).Draw(t, "end")
		ed, out := newTestEditor(lines...)

		if err := ed.Feed(fmt.Sprintf("%d,%dp", start, end)); err != nil {
			t.Fatalf("print: %v", err)
		}
		assert.Equal(t, lines[start-1:end], out.lines)
	})
}

func TestPropertyDeleteReinsertRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		lines := drawLines(t, 1)
		start := rapid.IntRange(1, len(lines)).Draw(t, "start")
		end := rapid.IntRange(start, len(lines)).Draw(t, "end")
		buf := buffer.New(lines)
		ed := New(&recorder{}, WithBuffer(buf))

		removed := buf.Slice(start-1, end-1)
		if err := ed.Feed(fmt.Sprintf("%d,%dd", start, end)); err != nil {
			t.Fatalf("delete: %v", err)
		}
		buf.Insert(start-1, removed...)
		assert.Equal(t, lines, buf.Lines())
	})
}

func TestPropertyWholeBufferSubstitution(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		lines := drawLines(t, 1)
		want := 0
		for _, l := range lines {
			if strings.Contains(l, "a") {
				want++
			}
		}
		ed, out := newTestEditor(lines...)

		err := ed.Feed("%s/a/X/")
		if want == 0 {
			assert.ErrorIs(t, err, subst.ErrNoChange)
		} else {
			assert.NoError(t, err)
		}
		assert.Len(t, out.lines, want)

		changed := 0
		for i, l := range ed.Buffer().Lines() {
			if l != lines[i] {
				changed++
			}
		}
		assert.Equal(t, want, changed)
	})
}

func TestPropertyWriteQuitNeedsFilename(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		lines := drawLines(t, 0)
		ed := New(&recorder{}, WithBuffer(buffer.New(lines)), WithStorage(&memStore{}))
		assert.ErrorIs(t, ed.Feed("wq"), ErrNoFilename)
		assert.False(t, ed.Done())
	})
}
