// Package red implements the red line editor command.
package red

import (
	"errors"
	"io"
	"log"

	"github.com/rcarmo/go-red/pkg/config"
	"github.com/rcarmo/go-red/pkg/core"
	"github.com/rcarmo/go-red/pkg/editor"
	"github.com/rcarmo/go-red/pkg/editor/buffer"
	"github.com/rcarmo/go-red/pkg/sandbox"
)

// Version is reported by -V. Release builds set it with -ldflags.
var Version = "dev"

const usageText = `Usage: red [-prdhV] [file]

Edit file one line at a time. Commands are read from standard input.

Options:
  -p, --prompt       show the line/total prompt
  -r, --restricted   only read and write files below the working directory
  -d, --debug        trace commands and errors to stderr
  -h, --help         show this help
  -V, --version      print the version
`

type options struct {
	prompt     bool
	restricted bool
	debug      bool
	help       bool
	version    bool
}

func Run(stdio *core.Stdio, args []string) int {
	var opts options
	files, code := core.ParseBoolFlags(stdio, "red", args,
		map[byte]*bool{
			'p': &opts.prompt,
			'r': &opts.restricted,
			'd': &opts.debug,
			'h': &opts.help,
			'V': &opts.version,
		},
		map[string]*bool{
			"prompt":     &opts.prompt,
			"restricted": &opts.restricted,
			"debug":      &opts.debug,
			"help":       &opts.help,
			"version":    &opts.version,
		})
	if code != core.ExitSuccess {
		return code
	}
	if opts.help {
		stdio.Print(usageText)
		return core.ExitSuccess
	}
	if opts.version {
		stdio.Println("red", Version)
		return core.ExitSuccess
	}
	if len(files) > 1 {
		return core.UsageError(stdio, "red", "too many files")
	}

	cfg, cfgErr := config.Load()
	cfg.Prompt = cfg.Prompt || opts.prompt
	cfg.Restricted = cfg.Restricted || opts.restricted
	cfg.Debug = cfg.Debug || opts.debug
	if cfgErr != nil {
		stdio.Errorf("red: config: %v\n", cfgErr)
	}

	if cfg.Restricted {
		if err := sandbox.Restrict(); err != nil {
			return core.FileError(stdio, "red", ".", err)
		}
		defer sandbox.Disable()
	}

	in, out, restore, err := openTerminal(stdio)
	if err != nil {
		return core.FileError(stdio, "red", "stdin", err)
	}
	defer restore()

	logger := log.New(io.Discard, "red: ", 0)
	if cfg.Debug {
		logger.SetOutput(debugWriter(stdio, out))
	}
	logger.Printf("config %+v, sandbox %v", cfg, sandbox.IsEnabled())

	r := newRenderer(out, useColor(cfg.Color, stdio))
	s := &session{
		in:    in,
		r:     r,
		log:   logger,
		store: fileStorage{},
	}
	buf := s.load(files)
	s.ed = editor.New(r,
		editor.WithBuffer(buf),
		editor.WithStorage(s.store),
		editor.WithLineEditor(in),
		editor.WithLogger(logger),
		editor.WithPrompt(cfg.Prompt),
	)
	if err := s.loop(); err != nil {
		return core.FileError(stdio, "red", "stdin", err)
	}
	if cfg.Goodbye {
		r.Goodbye()
	}
	return core.ExitSuccess
}

type session struct {
	ed    *editor.Editor
	in    lineReader
	r     *renderer
	log   *log.Logger
	store fileStorage
}

// load reads the startup file, if any. Problems are reported and leave
// an empty buffer.
func (s *session) load(files []string) *buffer.Buffer {
	if len(files) == 0 {
		return buffer.New(nil)
	}
	path := files[0]
	lines, size, err := s.store.Load(path)
	switch {
	case errors.Is(err, errNotFound):
		buf := buffer.New(nil)
		buf.SetFilename(path)
		s.r.Notice("Creating a new file")
		s.r.Size(0)
		return buf
	case err != nil:
		s.report(err)
		return buffer.New(nil)
	}
	buf := buffer.New(lines)
	buf.SetFilename(path)
	s.r.Size(size)
	return buf
}

// loop feeds input lines to the editor until a quit command or the end
// of input. End of input acts as q, so a modified buffer gets one warning
// before the session ends anyway.
func (s *session) loop() error {
	warned := false
	for !s.ed.Done() {
		prompt := ""
		if s.ed.Prompt() && s.ed.Mode() == editor.Command {
			prompt = s.r.Prompt(s.ed.Buffer())
		}
		line, err := s.in.ReadLine(prompt)
		if err != nil {
			if !errors.Is(err, io.EOF) {
				return err
			}
			if s.ed.Mode() == editor.Insert {
				_ = s.ed.Feed(editor.Terminator)
				continue
			}
			if err := s.ed.Feed("q"); err != nil && !warned {
				s.report(err)
				warned = true
				continue
			}
			return nil
		}
		warned = false
		if err := s.ed.Feed(line); err != nil {
			s.report(err)
		}
	}
	return nil
}

func (s *session) report(err error) {
	s.log.Printf("error: %v", err)
	s.r.Error(err)
}
