package red

import (
	"bufio"
	"errors"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/rcarmo/go-red/pkg/core"
)

// lineReader is the input side of a session. It also serves the e
// command as the editor's LineEditor.
type lineReader interface {
	// ReadLine returns the next input line without its line ending,
	// after showing prompt if it is not empty.
	ReadLine(prompt string) (string, error)
	// EditLine returns a replacement for initial.
	EditLine(initial string) (string, error)
}

// pipeReader reads commands from a non-interactive stream.
type pipeReader struct {
	r   *bufio.Reader
	out io.Writer
}

func newPipeReader(in io.Reader, out io.Writer) *pipeReader {
	return &pipeReader{r: bufio.NewReader(in), out: out}
}

func (p *pipeReader) ReadLine(prompt string) (string, error) {
	if prompt != "" {
		io.WriteString(p.out, prompt)
	}
	line, err := p.r.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return "", err
	}
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r"), nil
}

// EditLine takes the next input line as the replacement. There is no
// terminal to prefill.
func (p *pipeReader) EditLine(string) (string, error) {
	return p.ReadLine("")
}

// termReader reads from a raw-mode terminal with line editing and history.
type termReader struct {
	t       *term.Terminal
	prefill *prefillReader
}

func newTermReader(rw io.ReadWriter) *termReader {
	p := &prefillReader{r: rw}
	keys := struct {
		io.Reader
		io.Writer
	}{p, rw}
	return &termReader{t: term.NewTerminal(keys, ""), prefill: p}
}

func (tr *termReader) ReadLine(prompt string) (string, error) {
	tr.t.SetPrompt(prompt)
	return tr.t.ReadLine()
}

// errUneditable is returned by EditLine for text the terminal cannot show
// for editing.
var errUneditable = errors.New("line holds control characters")

// EditLine types initial into the terminal so the user edits it in place.
// Control characters such as TAB would be taken as editing keys and lost,
// so lines holding them are refused and stay unchanged.
func (tr *termReader) EditLine(initial string) (string, error) {
	if strings.IndexFunc(initial, isControl) >= 0 {
		return "", errUneditable
	}
	tr.prefill.set(initial)
	tr.t.SetPrompt("")
	line, err := tr.t.ReadLine()
	tr.prefill.set("")
	return line, err
}

func isControl(r rune) bool { return r < 0x20 || r == 0x7f }

// prefillReader replays pending keystrokes before reading from r.
type prefillReader struct {
	pending []byte
	r       io.Reader
}

func (p *prefillReader) set(text string) {
	p.pending = append(p.pending[:0], text...)
}

func (p *prefillReader) Read(b []byte) (int, error) {
	if len(p.pending) > 0 {
		n := copy(b, p.pending)
		p.pending = p.pending[n:]
		return n, nil
	}
	return p.r.Read(b)
}

// openTerminal picks the session input. When both stdin and stdout are
// terminals, stdin is put in raw mode and all output must go through the
// returned writer; restore undoes the raw mode.
func openTerminal(stdio *core.Stdio) (lineReader, io.Writer, func(), error) {
	in, inOK := stdio.In.(*os.File)
	out, outOK := stdio.Out.(*os.File)
	if !inOK || !outOK || !term.IsTerminal(int(in.Fd())) || !term.IsTerminal(int(out.Fd())) {
		return newPipeReader(stdio.In, stdio.Out), stdio.Out, func() {}, nil
	}
	state, err := term.MakeRaw(int(in.Fd()))
	if err != nil {
		return nil, nil, nil, err
	}
	tr := newTermReader(struct {
		io.Reader
		io.Writer
	}{in, out})
	restore := func() { _ = term.Restore(int(in.Fd()), state) }
	return tr, tr.t, restore, nil
}

// debugWriter returns where the debug trace goes. In raw mode the
// terminal translates line endings, so the trace shares its writer.
func debugWriter(stdio *core.Stdio, out io.Writer) io.Writer {
	if _, ok := out.(*term.Terminal); ok {
		return out
	}
	return stdio.Err
}
