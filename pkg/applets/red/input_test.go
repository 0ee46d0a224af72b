package red

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
)

// fakeTTY feeds keystrokes and records what the terminal draws.
type fakeTTY struct {
	keys io.Reader
	out  bytes.Buffer
}

func (f *fakeTTY) Read(p []byte) (int, error) { return f.keys.Read(p) }
func (f *fakeTTY) Write(p []byte) (int, error) { return f.out.Write(p) }

func newFakeTTY(input string) *fakeTTY {
	return &fakeTTY{keys: strings.NewReader(input)}
}

func TestPipeReader(t *testing.T) {
	var out bytes.Buffer
	p := newPipeReader(strings.NewReader("one\r\ntwo\nthree"), &out)

	for _, want := range []string{"one", "two", "three"} {
		got, err := p.ReadLine("*")
		if err != nil {
			t.Fatalf("ReadLine: %v", err)
		}
		if got != want {
			t.Errorf("ReadLine = %q, want %q", got, want)
		}
	}
	if _, err := p.ReadLine(""); !errors.Is(err, io.EOF) {
		t.Errorf("ReadLine at end = %v, want EOF", err)
	}
	if out.String() != "***" {
		t.Errorf("prompts = %q, want %q", out.String(), "***")
	}
}

func TestPipeReaderEditLine(t *testing.T) {
	var out bytes.Buffer
	p := newPipeReader(strings.NewReader("new text\n"), &out)
	got, err := p.EditLine("old text")
	if err != nil {
		t.Fatalf("EditLine: %v", err)
	}
	if got != "new text" {
		t.Errorf("EditLine = %q, want %q", got, "new text")
	}
	if out.Len() != 0 {
		t.Errorf("EditLine printed %q", out.String())
	}
}

func TestTermReaderReadLine(t *testing.T) {
	tty := newFakeTTY("hello\r")
	tr := newTermReader(tty)
	got, err := tr.ReadLine("*")
	if err != nil {
		t.Fatalf("ReadLine: %v", err)
	}
	if got != "hello" {
		t.Errorf("ReadLine = %q, want %q", got, "hello")
	}
	if !strings.Contains(tty.out.String(), "*") {
		t.Errorf("prompt not written: %q", tty.out.String())
	}
	if _, err := tr.ReadLine("*"); !errors.Is(err, io.EOF) {
		t.Errorf("ReadLine at end = %v, want EOF", err)
	}
}

func TestTermReaderEditLinePrefills(t *testing.T) {
	tty := newFakeTTY("\x7f!\r")
	tr := newTermReader(tty)
	got, err := tr.EditLine("hello")
	if err != nil {
		t.Fatalf("EditLine: %v", err)
	}
	if got != "hell!" {
		t.Errorf("EditLine = %q, want %q", got, "hell!")
	}
}

func TestTermReaderEditLineRefusesControls(t *testing.T) {
	tty := newFakeTTY("\r")
	tr := newTermReader(tty)
	for _, initial := range []string{"a\tb", "bell\a", "del\x7f"} {
		if _, err := tr.EditLine(initial); !errors.Is(err, errUneditable) {
			t.Errorf("EditLine(%q) error = %v, want errUneditable", initial, err)
		}
	}
	got, err := tr.EditLine("plain")
	if err != nil || got != "plain" {
		t.Errorf("EditLine(plain) = %q, %v", got, err)
	}
}

func TestPrefillReaderReplaysFirst(t *testing.T) {
	p := &prefillReader{r: strings.NewReader("rest")}
	p.set("abc")
	data, err := io.ReadAll(p)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if string(data) != "abcrest" {
		t.Errorf("read %q, want %q", data, "abcrest")
	}
}
