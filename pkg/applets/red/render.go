package red

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/rcarmo/go-red/pkg/config"
	"github.com/rcarmo/go-red/pkg/core"
	"github.com/rcarmo/go-red/pkg/core/textutil"
	"github.com/rcarmo/go-red/pkg/editor"
	"github.com/rcarmo/go-red/pkg/editor/buffer"
)

const goodbye = "Have a nice day !"

// renderer writes editor output, styling everything except buffer text.
type renderer struct {
	w io.Writer

	errStyle    lipgloss.Style
	numStyle    lipgloss.Style
	infoStyle   lipgloss.Style
	promptStyle lipgloss.Style
	byeStyle    lipgloss.Style
}

func newRenderer(w io.Writer, color bool) *renderer {
	lr := lipgloss.NewRenderer(w)
	if color {
		lr.SetColorProfile(termenv.ANSI)
	} else {
		lr.SetColorProfile(termenv.Ascii)
	}
	return &renderer{
		w:           w,
		errStyle:    lr.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
		numStyle:    lr.NewStyle().Bold(true).Foreground(lipgloss.Color("10")),
		infoStyle:   lr.NewStyle().Bold(true).Foreground(lipgloss.Color("11")),
		promptStyle: lr.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		byeStyle:    lr.NewStyle().Bold(true).Foreground(lipgloss.Color("10")),
	}
}

// useColor resolves the configured color mode against the output stream.
func useColor(mode config.ColorMode, stdio *core.Stdio) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}
	f, ok := stdio.Out.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func (r *renderer) Line(text string) {
	fmt.Fprintln(r.w, text)
}

func (r *renderer) Numbered(n, width int, text string) {
	fmt.Fprintf(r.w, "%s   %s\n", r.numStyle.Render(textutil.Gutter(n, width)), text)
}

func (r *renderer) Size(n int64) {
	fmt.Fprintln(r.w, r.infoStyle.Render(strconv.FormatInt(n, 10)))
}

// Notice prints an informational message.
func (r *renderer) Notice(msg string) {
	fmt.Fprintln(r.w, r.infoStyle.Render(msg))
}

// Error prints "?" for command errors. File errors are spelled out.
func (r *renderer) Error(err error) {
	msg := "?"
	switch {
	case errors.Is(err, editor.ErrIsFolder):
		msg = err.Error()
	case errors.Is(err, editor.ErrProtected):
		msg = "File is protected"
	}
	fmt.Fprintln(r.w, r.errStyle.Render(msg))
}

// Prompt formats the command prompt: the 1-based cursor line, the line
// count, a "+" when the buffer is modified, then "*".
func (r *renderer) Prompt(b *buffer.Buffer) string {
	line := 0
	if !b.Empty() {
		line = b.Cursor() + 1
	}
	p := strconv.Itoa(line) + "/" + strconv.Itoa(b.Len())
	if b.Modified() {
		p += "+"
	}
	return r.promptStyle.Render(p + "*")
}

func (r *renderer) Goodbye() {
	fmt.Fprintln(r.w, r.byeStyle.Render(goodbye))
}

var _ editor.Output = (*renderer)(nil)
