// Package subst implements sed-style s/pattern/replacement/flags directives
// over a span of lines.
package subst

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Substitution errors. Both render as the generic error symbol; callers
// can still tell them apart.
var (
	ErrSyntax   = errors.New("invalid substitution")
	ErrNoChange = errors.New("no substitution")
)

// Directive is a parsed substitution.
type Directive struct {
	re       *regexp.Regexp
	template string
	global   bool
	nth      int
}

// Lines is the part of a buffer a directive edits.
type Lines interface {
	Line(i int) string
	Replace(start, end int, text ...string)
}

// Parse compiles a directive of the form s<d>pattern<d>replacement[<d>flags].
// The delimiter <d> is the byte after the leading s. Supported flags are
// g (every match), i or I (ignore case) and a decimal N (only the Nth match).
func Parse(s string) (*Directive, error) {
	if len(s) < 2 || s[0] != 's' {
		return nil, ErrSyntax
	}
	delim := s[1]
	if !validDelim(delim) {
		return nil, fmt.Errorf("%w: bad delimiter %q", ErrSyntax, delim)
	}

	pattern, rest, ok := readUntil(s[2:], delim)
	if !ok {
		return nil, fmt.Errorf("%w: unterminated pattern", ErrSyntax)
	}
	if pattern == "" {
		return nil, fmt.Errorf("%w: empty pattern", ErrSyntax)
	}
	// The closing delimiter after the replacement is optional.
	replacement, flags, _ := readUntil(rest, delim)

	d := &Directive{template: goTemplate(replacement), nth: 1}
	icase := false
	for i := 0; i < len(flags); i++ {
		c := flags[i]
		switch {
		case c == 'g':
			d.global = true
		case c == 'i' || c == 'I':
			icase = true
		case c >= '1' && c <= '9':
			j := i + 1
			for j < len(flags) && flags[j] >= '0' && flags[j] <= '9' {
				j++
			}
			n, err := strconv.Atoi(flags[i:j])
			if err != nil {
				return nil, fmt.Errorf("%w: bad count %q", ErrSyntax, flags[i:j])
			}
			d.nth = n
			i = j - 1
		default:
			return nil, fmt.Errorf("%w: unknown flag %q", ErrSyntax, c)
		}
	}

	if icase {
		pattern = "(?i)" + pattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSyntax, err)
	}
	d.re = re
	return d, nil
}

// Substitute rewrites one line and reports whether the text changed.
func (d *Directive) Substitute(line string) (string, bool) {
	matches := d.re.FindAllStringSubmatchIndex(line, -1)
	if len(matches) == 0 {
		return line, false
	}
	var out []byte
	last := 0
	replaced := false
	for i, m := range matches {
		n := i + 1
		if n < d.nth || (!d.global && n > d.nth) {
			continue
		}
		out = append(out, line[last:m[0]]...)
		out = d.re.ExpandString(out, d.template, line, m)
		last = m[1]
		replaced = true
	}
	if !replaced {
		return line, false
	}
	out = append(out, line[last:]...)
	result := string(out)
	return result, result != line
}

// Apply runs the directive over the inclusive span [start, end]. A result
// holding newlines is split, so one line may become several; the span grows
// to match. Every resulting line is passed to changed with its index. Lines
// changed before the end of the span stay changed; ErrNoChange is returned
// only when no line in the span changed.
func (d *Directive) Apply(lines Lines, start, end int, changed func(i int, text string)) error {
	hit := false
	for i := start; i <= end; i++ {
		text, ok := d.Substitute(lines.Line(i))
		if !ok {
			continue
		}
		parts := strings.Split(text, "\n")
		lines.Replace(i, i, parts...)
		hit = true
		if changed != nil {
			for k, part := range parts {
				changed(i+k, part)
			}
		}
		i += len(parts) - 1
		end += len(parts) - 1
	}
	if !hit {
		return ErrNoChange
	}
	return nil
}

func validDelim(c byte) bool {
	switch {
	case c == '\\', c == '\n', c == ' ':
		return false
	case c >= '0' && c <= '9', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		return false
	}
	return true
}

// readUntil scans s up to the first unescaped delim. An escaped delimiter is
// unescaped; any other backslash pair is kept as is. ok is false when the
// delimiter never appears, in which case all of s is returned.
func readUntil(s string, delim byte) (field, rest string, ok bool) {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '\\' && i+1 < len(s) {
			if s[i+1] == delim {
				b.WriteByte(delim)
			} else {
				b.WriteByte(c)
				b.WriteByte(s[i+1])
			}
			i++
			continue
		}
		if c == delim {
			return b.String(), s[i+1:], true
		}
		b.WriteByte(c)
	}
	return b.String(), "", false
}

// goTemplate converts sed replacement syntax to a regexp.Expand template:
// & is the whole match, \1..\9 are groups and a literal $ is escaped.
// \n becomes a newline, which Apply turns into a line break.
func goTemplate(repl string) string {
	var b strings.Builder
	b.Grow(len(repl))
	for i := 0; i < len(repl); i++ {
		c := repl[i]
		switch c {
		case '\\':
			if i+1 >= len(repl) {
				b.WriteByte('\\')
				continue
			}
			i++
			next := repl[i]
			switch {
			case next >= '0' && next <= '9':
				b.WriteString("${")
				b.WriteByte(next)
				b.WriteByte('}')
			case next == 'n':
				b.WriteByte('\n')
			case next == 't':
				b.WriteByte('\t')
			case next == '$':
				b.WriteString("$$")
			default:
				b.WriteByte(next)
			}
		case '&':
			b.WriteString("${0}")
		case '$':
			b.WriteString("$$")
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
