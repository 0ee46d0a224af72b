// Package address turns a command line into the line range and command it
// applies to.
//
// Resolution is pure: it only needs the buffer length and the cursor, and
// it never prints or mutates anything. Ranges it returns are 0-based and
// inclusive.
package address

import (
	"errors"
	"strconv"
	"strings"
)

// Resolution errors.
var (
	ErrMalformed = errors.New("malformed command")
	ErrRange     = errors.New("address out of range")
	ErrEmpty     = errors.New("empty buffer")
)

// Kind says what an Address asks the dispatcher to do.
type Kind int

const (
	// Goto moves the cursor to Start and prints it.
	Goto Kind = iota
	// Command runs Command over [Start, End].
	Command
	// Substitute applies Directive over [Start, End].
	Substitute
	// Search prints every line matching Pattern.
	Search
	// WriteAs saves the buffer to Filename without tracking it.
	WriteAs
	// WriteQuit saves to the tracked filename and quits.
	WriteQuit
)

var kindNames = [...]string{
	Goto:       "goto",
	Command:    "command",
	Substitute: "substitute",
	Search:     "search",
	WriteAs:    "write-as",
	WriteQuit:  "write-quit",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
	return kindNames[k]
}

// Append is the one command allowed to address the position just past the
// last line.
const Append = 'y'

// Address is a resolved command line.
type Address struct {
	Kind      Kind
	Start     int
	End       int
	Command   byte
	Directive string
	Pattern   string
	Filename  string
}

// Resolve parses cmd against a buffer of length lines whose current line is
// cursor. cmd is expected to be trimmed already.
//
// Forms are tried in a fixed order and the first one that fits wins:
// a bare number, a single letter, then %, %s, s, /, ',' and numeric
// prefixes, and finally "w <file>" and "wq".
func Resolve(cmd string, length, cursor int) (Address, error) {
	if cmd == "" {
		return Address{}, ErrMalformed
	}
	if isNumber(cmd) {
		n, err := lineNumber(cmd, length, length)
		if err != nil {
			return Address{}, err
		}
		return Address{Kind: Goto, Start: n - 1, End: n - 1}, nil
	}
	if len(cmd) == 1 {
		return Address{Kind: Command, Start: cursor, End: cursor, Command: cmd[0]}, nil
	}
	return resolveRanged(cmd, length, cursor)
}

func resolveRanged(cmd string, length, cursor int) (Address, error) {
	last := length - 1
	switch c := cmd[0]; {
	case c == '%':
		if length == 0 {
			return Address{}, ErrEmpty
		}
		if len(cmd) == 2 {
			return Address{Kind: Command, Start: 0, End: last, Command: cmd[1]}, nil
		}
		if cmd[1] == 's' {
			return Address{Kind: Substitute, Start: 0, End: last, Directive: cmd[1:]}, nil
		}
		return Address{}, ErrMalformed

	case c == 's':
		if length == 0 {
			return Address{}, ErrEmpty
		}
		return Address{Kind: Substitute, Start: cursor, End: cursor, Directive: cmd}, nil

	case c == '/':
		pattern := searchPattern(cmd[1:])
		if pattern == "" {
			return Address{}, ErrMalformed
		}
		return Address{Kind: Search, Pattern: pattern}, nil

	case c == ',':
		if length == 0 {
			return Address{}, ErrEmpty
		}
		if len(cmd) == 2 {
			return Address{Kind: Command, Start: 0, End: last, Command: cmd[1]}, nil
		}
		digits, rest := splitNumber(cmd[1:])
		if digits == "" {
			return Address{}, ErrMalformed
		}
		a, err := suffix(rest)
		if err != nil {
			return Address{}, err
		}
		n, err := lineNumber(digits, length, limit(a, length))
		if err != nil {
			return Address{}, err
		}
		a.Start, a.End = cursor, n-1
		if a.Start > a.End {
			return Address{}, ErrRange
		}
		return a, nil

	case isDigit(c):
		digits, rest := splitNumber(cmd)
		if strings.HasPrefix(rest, ",") {
			return resolvePair(digits, rest[1:], length)
		}
		a, err := suffix(rest)
		if err != nil {
			return Address{}, err
		}
		n, err := lineNumber(digits, length, limit(a, length))
		if err != nil {
			return Address{}, err
		}
		a.Start, a.End = n-1, n-1
		return a, nil

	case cmd == "wq":
		return Address{Kind: WriteQuit}, nil
	}

	if fields := strings.Split(cmd, " "); len(fields) == 2 && fields[0] == "w" && fields[1] != "" {
		return Address{Kind: WriteAs, Filename: fields[1]}, nil
	}
	return Address{}, ErrMalformed
}

// resolvePair handles N,M<cmd> once N and the comma are consumed. M may be
// % for the last line.
func resolvePair(first, rest string, length int) (Address, error) {
	if length == 0 {
		return Address{}, ErrEmpty
	}
	var second string
	if strings.HasPrefix(rest, "%") {
		second, rest = "%", rest[1:]
	} else {
		second, rest = splitNumber(rest)
		if second == "" {
			return Address{}, ErrMalformed
		}
	}
	a, err := suffix(rest)
	if err != nil {
		return Address{}, err
	}
	highest := limit(a, length)
	start, err := lineNumber(first, length, highest)
	if err != nil {
		return Address{}, err
	}
	end := length
	if second != "%" {
		if end, err = lineNumber(second, length, highest); err != nil {
			return Address{}, err
		}
	}
	if start > end {
		return Address{}, ErrRange
	}
	a.Start, a.End = start-1, end-1
	return a, nil
}

// suffix reads what follows an address: a single command letter or an
// embedded s directive.
func suffix(rest string) (Address, error) {
	switch {
	case len(rest) == 1:
		return Address{Kind: Command, Command: rest[0]}, nil
	case len(rest) > 1 && rest[0] == 's':
		return Address{Kind: Substitute, Directive: rest}, nil
	}
	return Address{}, ErrMalformed
}

// limit is the highest 1-based line an address may name. The append
// command may point one past the end.
func limit(a Address, length int) int {
	if a.Kind == Command && a.Command == Append {
		return length + 1
	}
	return length
}

// lineNumber parses a 1-based line number and checks it against highest.
func lineNumber(s string, length, highest int) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n == 0 || n > highest {
		if length == 0 {
			return 0, ErrEmpty
		}
		return 0, ErrRange
	}
	return n, nil
}

func splitNumber(s string) (digits, rest string) {
	i := 0
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	return s[:i], s[i:]
}

// searchPattern drops a single unescaped trailing slash.
func searchPattern(s string) string {
	if strings.HasSuffix(s, "/") && !strings.HasSuffix(s, `\/`) {
		return s[:len(s)-1]
	}
	return s
}

func isNumber(s string) bool {
	digits, rest := splitNumber(s)
	return digits != "" && rest == ""
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
