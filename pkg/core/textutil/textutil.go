// Package textutil provides shared helpers for line-oriented text.
package textutil

import (
	"fmt"
	"strconv"
	"strings"
)

// SplitLines splits file content into lines. A trailing newline does not
// produce an empty last line, and a carriage return before a newline is
// dropped. Empty content yields no lines.
func SplitLines(data string) []string {
	if data == "" {
		return nil
	}
	lines := strings.Split(strings.TrimSuffix(data, "\n"), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

// JoinLines joins lines with a single newline between them and none after
// the last.
func JoinLines(lines []string) string {
	return strings.Join(lines, "\n")
}

// NumberWidth returns the number of columns n takes in decimal.
func NumberWidth(n int) int {
	return len(strconv.Itoa(n))
}

// Gutter right-aligns n in width columns.
func Gutter(n, width int) string {
	return fmt.Sprintf("%*d", width, n)
}
