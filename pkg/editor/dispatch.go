package editor

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/rcarmo/go-red/pkg/core/textutil"
	"github.com/rcarmo/go-red/pkg/editor/buffer"
	"github.com/rcarmo/go-red/pkg/editor/subst"
)

// Commands that do not read any line and so work on an empty buffer.
const lineless = "aiqQwP"

// dispatch applies a command letter to the inclusive range [start, end].
// Single-letter commands arrive here with the cursor as both ends.
func (ed *Editor) dispatch(cmd byte, start, end int) error {
	if ed.buf.Empty() && !containsByte(lineless, cmd) {
		if !isCommand(cmd) {
			return ErrUnknownCommand
		}
		return ErrEmptyBuffer
	}

	switch cmd {
	case 'p':
		for i := start; i <= end; i++ {
			ed.out.Line(ed.buf.Line(i))
		}
	case 'n':
		ed.printNumbered(start, end)
	case 'd':
		ed.buf.Remove(start, end)
		ed.buf.SetCursor(min(start, max(ed.buf.Len()-1, 0)))
	case 'c':
		ed.buf.Remove(start, end)
		ed.enterInsert(start)
	case 'i':
		// Insertion lands after the addressed line unless the cursor
		// sits on the first line.
		at := start
		if ed.buf.Cursor() != 0 {
			at = start + 1
		}
		ed.enterInsert(at)
	case 'a':
		ed.enterInsert(start)
	case 'y':
		cursor := ed.buf.Cursor()
		text := ed.buf.Line(cursor)
		ed.buf.Insert(start, repeat(text, end-start+1)...)
		if end < cursor {
			ed.buf.SetCursor(cursor + 1)
		}
	case 'r':
		text := ed.buf.Line(ed.buf.Cursor())
		ed.buf.Replace(start, end, repeat(text, end-start+1)...)
	case 'q':
		if ed.buf.Modified() {
			return ErrUnsaved
		}
		ed.done = true
	case 'Q':
		ed.done = true
	case 'w':
		name := ed.buf.Filename()
		if name == "" {
			return ErrNoFilename
		}
		return ed.save(name)
	case 'P':
		ed.prompt = !ed.prompt
	case 'k':
		ed.buf.SetCursor(max(ed.buf.Cursor()-1, 0))
		ed.out.Line(ed.buf.Line(ed.buf.Cursor()))
	case 'j':
		ed.buf.SetCursor(min(ed.buf.Cursor()+1, ed.buf.Len()-1))
		ed.out.Line(ed.buf.Line(ed.buf.Cursor()))
	case 'e':
		return ed.edit()
	case ',', '%':
		last := ed.buf.Len() - 1
		ed.buf.SetCursor(last)
		ed.out.Line(ed.buf.Line(last))
	default:
		return fmt.Errorf("%w: %q", ErrUnknownCommand, cmd)
	}
	return nil
}

func (ed *Editor) printNumbered(start, end int) {
	width := textutil.NumberWidth(end + 1)
	for i := start; i <= end; i++ {
		ed.out.Numbered(i+1, width, ed.buf.Line(i))
	}
}

func (ed *Editor) edit() error {
	if ed.lines == nil {
		return ErrUnknownCommand
	}
	cursor := ed.buf.Cursor()
	text, err := ed.lines.EditLine(ed.buf.Line(cursor))
	if err != nil {
		return fmt.Errorf("edit line %d: %w", cursor+1, err)
	}
	ed.buf.Set(cursor, text)
	return nil
}

func (ed *Editor) substitute(directive string, start, end int) error {
	d, err := subst.Parse(directive)
	if err != nil {
		return err
	}
	type numbered struct {
		n    int
		text string
	}
	var changed []numbered
	before := ed.buf.Len()
	err = d.Apply(splitTarget{ed.buf}, start, end, func(i int, text string) {
		changed = append(changed, numbered{i + 1, text})
	})
	if len(changed) > 0 {
		width := textutil.NumberWidth(end + 1 + ed.buf.Len() - before)
		for _, c := range changed {
			ed.out.Numbered(c.n, width, c.text)
		}
	}
	return err
}

// splitTarget keeps the cursor on its line when a substitution above it
// splits one line into several.
type splitTarget struct {
	buf *buffer.Buffer
}

func (t splitTarget) Line(i int) string { return t.buf.Line(i) }

func (t splitTarget) Replace(start, end int, text ...string) {
	cursor := t.buf.Cursor()
	t.buf.Replace(start, end, text...)
	if cursor > end {
		t.buf.SetCursor(cursor + len(text) - (end - start + 1))
	}
}

func (ed *Editor) search(pattern string) error {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNoMatch, err)
	}
	var hits []int
	for i := 0; i < ed.buf.Len(); i++ {
		if re.MatchString(ed.buf.Line(i)) {
			hits = append(hits, i)
		}
	}
	if len(hits) == 0 {
		return ErrNoMatch
	}
	width := textutil.NumberWidth(hits[len(hits)-1] + 1)
	for _, i := range hits {
		ed.out.Numbered(i+1, width, ed.buf.Line(i))
	}
	return nil
}

// save writes the whole buffer to path. Only a save to the tracked file
// clears the modified flag. A failed save forgets the tracked filename and
// leaves the buffer and its modified flag alone.
func (ed *Editor) save(path string) error {
	if ed.store == nil {
		ed.buf.SetFilename("")
		return ErrProtected
	}
	n, err := ed.store.Save(path, ed.buf.Lines())
	if err != nil {
		ed.buf.SetFilename("")
		return fmt.Errorf("%w: %w", ErrProtected, err)
	}
	if path == ed.buf.Filename() {
		ed.buf.SetModified(false)
	}
	ed.out.Size(n)
	return nil
}

func isCommand(c byte) bool {
	return containsByte("pndciayrqQwPkje,%", c)
}

func containsByte(set string, c byte) bool {
	return strings.IndexByte(set, c) >= 0
}

func repeat(text string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = text
	}
	return out
}
