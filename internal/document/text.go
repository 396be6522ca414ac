// Package document provides an in-memory text document for hover requests.
// Positions count UTF-16 code units within a line, as LSP hosts send them;
// lines are separated by "\n".
package document

import (
	"strings"
	"unicode"
	"unicode/utf16"

	"github.com/rivo/uniseg"

	"github.com/davidbz/hoverlate/internal/domain"
)

// Text is an immutable document snapshot.
type Text struct {
	uri   string
	lines [][]uint16
}

// New splits content into lines. A trailing "\r" is dropped from each line.
func New(uri, content string) *Text {
	raw := strings.Split(content, "\n")
	lines := make([][]uint16, len(raw))
	for i, line := range raw {
		lines[i] = utf16.Encode([]rune(strings.TrimSuffix(line, "\r")))
	}

	return &Text{uri: uri, lines: lines}
}

// URI identifies the document.
func (t *Text) URI() string {
	return t.uri
}

// LineCount returns the number of lines.
func (t *Text) LineCount() int {
	return len(t.lines)
}

// clamp moves pos inside the document.
func (t *Text) clamp(pos domain.Position) domain.Position {
	if pos.Line < 0 {
		return domain.Position{}
	}
	if pos.Line >= len(t.lines) {
		last := len(t.lines) - 1
		return domain.Position{Line: last, Character: len(t.lines[last])}
	}

	line := t.lines[pos.Line]
	switch {
	case pos.Character < 0:
		pos.Character = 0
	case pos.Character > len(line):
		pos.Character = len(line)
	}

	return pos
}

// TextInRange returns the text between r.Start and r.End, joined with "\n".
// Offsets inside a surrogate pair are widened to the whole character.
func (t *Text) TextInRange(r domain.Range) string {
	start, end := t.clamp(r.Start), t.clamp(r.End)
	if end.Before(start) {
		start, end = end, start
	}

	startLine, endLine := t.lines[start.Line], t.lines[end.Line]
	from, to := snapBack(startLine, start.Character), snapForward(endLine, end.Character)

	if start.Line == end.Line {
		return decode(startLine[from:to])
	}

	var b strings.Builder
	b.WriteString(decode(startLine[from:]))
	for line := start.Line + 1; line < end.Line; line++ {
		b.WriteByte('\n')
		b.WriteString(decode(t.lines[line]))
	}
	b.WriteByte('\n')
	b.WriteString(decode(endLine[:to]))

	return b.String()
}

// WordRangeAt returns the word touching pos, using Unicode word boundaries.
// A position at the end of a word still belongs to it. Only segments holding
// a letter or digit count as words; adjacent word segments, such as runs of
// ideographs, form a single word.
func (t *Text) WordRangeAt(pos domain.Position) (domain.Range, bool) {
	if pos.Line < 0 || pos.Line >= len(t.lines) || pos.Character < 0 {
		return domain.Range{}, false
	}

	line := t.lines[pos.Line]
	if pos.Character > len(line) {
		return domain.Range{}, false
	}

	for _, s := range wordSpans(decode(line)) {
		if pos.Character < s.start {
			break
		}
		if pos.Character <= s.end {
			return domain.Range{
				Start: domain.Position{Line: pos.Line, Character: s.start},
				End:   domain.Position{Line: pos.Line, Character: s.end},
			}, true
		}
	}

	return domain.Range{}, false
}

// span is a UTF-16 offset interval within a line.
type span struct {
	start, end int
}

// wordSpans returns the word intervals of line in order.
func wordSpans(line string) []span {
	var (
		spans  []span
		offset int
		state  = -1
		word   string
	)

	for line != "" {
		word, line, state = uniseg.FirstWordInString(line, state)
		start := offset
		offset += utf16Len(word)

		if !isWord(word) {
			continue
		}

		if n := len(spans); n > 0 && spans[n-1].end == start {
			spans[n-1].end = offset
			continue
		}
		spans = append(spans, span{start: start, end: offset})
	}

	return spans
}

func isWord(segment string) bool {
	for _, r := range segment {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}

func decode(units []uint16) string {
	return string(utf16.Decode(units))
}

// isLowSurrogate reports whether offset i splits a surrogate pair.
func isLowSurrogate(line []uint16, i int) bool {
	return i > 0 && i < len(line) &&
		utf16.IsSurrogate(rune(line[i-1])) && line[i-1] < 0xdc00 &&
		line[i] >= 0xdc00 && line[i] <= 0xdfff
}

func snapBack(line []uint16, i int) int {
	if isLowSurrogate(line, i) {
		return i - 1
	}
	return i
}

func snapForward(line []uint16, i int) int {
	if isLowSurrogate(line, i) {
		return i + 1
	}
	return i
}

var _ domain.Document = (*Text)(nil)
