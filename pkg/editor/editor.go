// Package editor interprets the red command language over a line buffer.
//
// An Editor is fed one input line at a time. In command mode the line is
// resolved to an address and dispatched; a, i and c switch to insert mode,
// where lines are taken literally until a lone "." returns to command mode.
// Printing, saving and interactive line editing are delegated to the
// Output, Storage and LineEditor collaborators.
package editor

import (
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/rcarmo/go-red/pkg/editor/address"
	"github.com/rcarmo/go-red/pkg/editor/buffer"
)

// Editor errors. Every error renders as "?" except ErrIsFolder and
// ErrProtected, which name the file problem.
var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrAddress        = errors.New("invalid address")
	ErrEmptyBuffer    = errors.New("empty buffer")
	ErrNoMatch        = errors.New("no match")
	ErrUnsaved        = errors.New("buffer modified")
	ErrNoFilename     = errors.New("no current filename")
	ErrIsFolder       = errors.New("is a folder")
	ErrProtected      = errors.New("file is protected")
)

// Terminator ends insert mode when it is the whole input line.
const Terminator = "."

// Mode is the interpreter state.
type Mode int

const (
	// Command parses each input line as a command.
	Command Mode = iota
	// Insert adds each input line to the buffer.
	Insert
)

func (m Mode) String() string {
	switch m {
	case Command:
		return "command"
	case Insert:
		return "insert"
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// Output receives everything the editor prints.
type Output interface {
	// Line prints text as is.
	Line(text string)
	// Numbered prints text after its 1-based line number, right-aligned
	// in width columns.
	Numbered(n, width int, text string)
	// Size reports the byte size of a saved file.
	Size(n int64)
}

// Storage writes the buffer out.
type Storage interface {
	Save(path string, lines []string) (int64, error)
}

// LineEditor supplies one replacement line for the e command, starting
// from the current text.
type LineEditor interface {
	EditLine(initial string) (string, error)
}

// Editor is a single editing session.
type Editor struct {
	buf    *buffer.Buffer
	mode   Mode
	prompt bool
	done   bool

	out   Output
	store Storage
	lines LineEditor
	log   *log.Logger
}

// Option configures an Editor.
type Option func(*Editor)

// WithBuffer edits b instead of a new empty buffer.
func WithBuffer(b *buffer.Buffer) Option {
	return func(ed *Editor) { ed.buf = b }
}

// WithStorage sets where w, wq and "w <file>" save to.
func WithStorage(s Storage) Option {
	return func(ed *Editor) { ed.store = s }
}

// WithLineEditor sets the collaborator used by the e command.
func WithLineEditor(l LineEditor) Option {
	return func(ed *Editor) { ed.lines = l }
}

// WithLogger traces resolved addresses and mode changes to l.
func WithLogger(l *log.Logger) Option {
	return func(ed *Editor) { ed.log = l }
}

// WithPrompt sets the initial state of the prompt flag toggled by P.
func WithPrompt(on bool) Option {
	return func(ed *Editor) { ed.prompt = on }
}

// New returns an editor in command mode printing to out.
func New(out Output, opts ...Option) *Editor {
	ed := &Editor{out: out}
	for _, opt := range opts {
		opt(ed)
	}
	if ed.buf == nil {
		ed.buf = buffer.New(nil)
	}
	if ed.log == nil {
		ed.log = log.New(io.Discard, "", 0)
	}
	return ed
}

// Buffer returns the buffer being edited.
func (ed *Editor) Buffer() *buffer.Buffer { return ed.buf }

// Mode returns the current interpreter state.
func (ed *Editor) Mode() Mode { return ed.mode }

// Prompt reports whether the driving loop should show the prompt.
func (ed *Editor) Prompt() bool { return ed.prompt }

// Done reports whether a quit command ended the session.
func (ed *Editor) Done() bool { return ed.done }

// Feed processes one line of input. Errors are local to the line: the
// editor stays usable and, apart from partial substitutions, unchanged.
func (ed *Editor) Feed(line string) error {
	switch ed.mode {
	case Insert:
		ed.insert(line)
		return nil
	default:
		return ed.command(strings.TrimSpace(line))
	}
}

func (ed *Editor) insert(line string) {
	if line == Terminator {
		ed.setMode(Command)
		if c := ed.buf.Cursor(); c > 0 {
			ed.buf.SetCursor(c - 1)
		}
		return
	}
	c := ed.buf.Cursor()
	ed.buf.Insert(c, line)
	ed.buf.SetCursor(c + 1)
}

func (ed *Editor) enterInsert(at int) {
	ed.buf.SetCursor(at)
	ed.setMode(Insert)
}

func (ed *Editor) setMode(m Mode) {
	if m != ed.mode {
		ed.log.Printf("mode %s -> %s at line %d", ed.mode, m, ed.buf.Cursor()+1)
	}
	ed.mode = m
}

func (ed *Editor) command(line string) error {
	a, err := address.Resolve(line, ed.buf.Len(), ed.buf.Cursor())
	if err != nil {
		return resolveError(err)
	}
	ed.log.Printf("%q: %s [%d,%d] %q", line, a.Kind, a.Start, a.End, a.Command)

	switch a.Kind {
	case address.Goto:
		ed.buf.SetCursor(a.Start)
		ed.out.Line(ed.buf.Line(a.Start))
		return nil
	case address.Command:
		return ed.dispatch(a.Command, a.Start, a.End)
	case address.Substitute:
		return ed.substitute(a.Directive, a.Start, a.End)
	case address.Search:
		return ed.search(a.Pattern)
	case address.WriteAs:
		return ed.save(a.Filename)
	case address.WriteQuit:
		name := ed.buf.Filename()
		if name == "" {
			return ErrNoFilename
		}
		if err := ed.save(name); err != nil {
			return err
		}
		ed.done = true
		return nil
	}
	return ErrUnknownCommand
}

func resolveError(err error) error {
	switch {
	case errors.Is(err, address.ErrEmpty):
		return fmt.Errorf("%w: %w", ErrEmptyBuffer, err)
	case errors.Is(err, address.ErrRange):
		return fmt.Errorf("%w: %w", ErrAddress, err)
	}
	return fmt.Errorf("%w: %w", ErrUnknownCommand, err)
}
