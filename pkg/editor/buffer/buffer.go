// Package buffer holds the lines being edited together with the cursor,
// the modified flag and the tracked filename.
//
// Indices are 0-based everywhere in this package. Bounds are not checked:
// callers validate ranges first, and an out-of-range index panics like any
// slice access would.
package buffer

import "slices"

// Buffer is an ordered sequence of text lines with a current line.
type Buffer struct {
	lines    []string
	cursor   int
	modified bool
	filename string
}

// New returns an unmodified buffer holding a copy of lines, with the
// cursor on the last line.
func New(lines []string) *Buffer {
	b := &Buffer{}
	b.Reset(lines)
	return b
}

// Reset replaces the whole content without marking the buffer modified.
// It is used when content comes from disk.
func (b *Buffer) Reset(lines []string) {
	b.lines = slices.Clone(lines)
	b.cursor = 0
	if len(b.lines) > 0 {
		b.cursor = len(b.lines) - 1
	}
	b.modified = false
}

// Len returns the number of lines.
func (b *Buffer) Len() int { return len(b.lines) }

// Empty reports whether the buffer has no lines.
func (b *Buffer) Empty() bool { return len(b.lines) == 0 }

// Line returns line i.
func (b *Buffer) Line(i int) string { return b.lines[i] }

// Lines returns a copy of every line.
func (b *Buffer) Lines() []string { return slices.Clone(b.lines) }

// Slice returns a copy of the inclusive span [start, end].
func (b *Buffer) Slice(start, end int) []string {
	return slices.Clone(b.lines[start : end+1])
}

// Insert places text at index at, shifting the lines at or after at down.
// at may equal Len to append.
func (b *Buffer) Insert(at int, text ...string) {
	if len(text) == 0 {
		return
	}
	b.lines = slices.Insert(b.lines, at, text...)
	b.modified = true
}

// Remove deletes the inclusive span [start, end] and shifts later lines up.
func (b *Buffer) Remove(start, end int) {
	b.lines = slices.Delete(b.lines, start, end+1)
	b.modified = true
}

// Replace swaps the inclusive span [start, end] for text.
func (b *Buffer) Replace(start, end int, text ...string) {
	b.lines = slices.Replace(b.lines, start, end+1, text...)
	b.modified = true
}

// Set overwrites line i.
func (b *Buffer) Set(i int, text string) {
	b.lines[i] = text
	b.modified = true
}

// Cursor returns the index of the current line. It is 0 for an empty buffer.
func (b *Buffer) Cursor() int { return b.cursor }

// SetCursor moves the current line to i.
func (b *Buffer) SetCursor(i int) { b.cursor = i }

// Modified reports whether the buffer changed since it was loaded or saved.
func (b *Buffer) Modified() bool { return b.modified }

// SetModified forces the modified flag, e.g. after a successful save.
func (b *Buffer) SetModified(m bool) { b.modified = m }

// Filename returns the tracked filename; empty means none yet.
func (b *Buffer) Filename() string { return b.filename }

// SetFilename records the file that w and wq write to.
func (b *Buffer) SetFilename(name string) { b.filename = name }
