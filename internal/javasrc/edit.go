package javasrc

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/cmmoran/buildergen/internal/model"
	"github.com/cmmoran/buildergen/internal/synth"
)

var ErrNoInsertionPoint = errors.New("no insertion point")

// Edit inserts Text at byte Offset of the original source.
type Edit struct {
	Offset int
	Text   string
}

type Edits []Edit

func (x Edits) Len() int {
	return len(x)
}

func (x Edits) Less(i, j int) bool {
	return x[i].Offset < x[j].Offset
}

func (x Edits) Swap(i, j int) {
	x[i], x[j] = x[j], x[i]
}

// InsertionEdit places decl after the last member of target, just before the
// closing brace of its body, indented one level deeper than target. Line
// endings and the indent unit follow src unless p sets them.
func (p Printer) InsertionEdit(src []byte, target, decl *model.TypeDecl) (Edit, error) {
	closing := target.Body.End - 1
	if !target.Body.Valid() || closing >= len(src) || src[closing] != '}' {
		return Edit{}, fmt.Errorf("%s: %w", target.Name, ErrNoInsertionPoint)
	}

	base := lineIndent(src, target.Span.Start)
	if p.Newline == "" {
		p.Newline = detectNewline(src)
	}
	if p.Indent == "" {
		p.Indent = detectIndent(src, target.Body, base)
	}
	nl := p.Newline
	text := p.TypeDecl(decl, base+p.unit())

	start := lineStart(src, closing)
	if len(bytes.TrimSpace(src[start:closing])) == 0 {
		// closing brace on its own line
		return Edit{Offset: start, Text: nl + text + nl}, nil
	}
	return Edit{Offset: closing, Text: nl + nl + text + nl + base}, nil
}

// detectNewline returns the terminator of the first line of src.
func detectNewline(src []byte) string {
	i := bytes.IndexByte(src, '\n')
	if i > 0 && src[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}

// detectIndent returns the indent of the first non-blank line inside body
// beyond base, or "" when there is none.
func detectIndent(src []byte, body model.Span, base string) string {
	i := bytes.IndexByte(src[body.Start:body.End], '\n')
	if i < 0 {
		return ""
	}
	for off := body.Start + i + 1; off < body.End-1; {
		end := off
		for end < body.End && src[end] != '\n' {
			end++
		}
		line := src[off:end]
		if len(bytes.TrimSpace(line)) > 0 {
			indent := lineIndent(src, off)
			if strings.HasPrefix(indent, base) && len(indent) > len(base) {
				return indent[len(base):]
			}
			return ""
		}
		off = end + 1
	}
	return ""
}

// Apply returns unit's source with the builder of every result spliced in.
// Nothing outside the insertion points changes.
func (p Printer) Apply(unit *model.CompilationUnit, results []*synth.Result) ([]byte, error) {
	edits := make(Edits, 0, len(results))
	for _, res := range results {
		e, err := p.InsertionEdit(unit.Source, res.Target, res.Builder)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", unit.Path, err)
		}
		edits = append(edits, e)
	}
	return ApplyEdits(unit.Source, edits), nil
}

// ApplyEdits splices edits into src without modifying it. Offsets refer to
// src; edits at the same offset keep their relative order.
func ApplyEdits(src []byte, edits Edits) []byte {
	sorted := make(Edits, len(edits))
	copy(sorted, edits)
	sort.Stable(sorted)

	var out bytes.Buffer
	out.Grow(len(src))
	last := 0
	for _, e := range sorted {
		out.Write(src[last:e.Offset])
		out.WriteString(e.Text)
		last = e.Offset
	}
	out.Write(src[last:])
	return out.Bytes()
}

func lineStart(src []byte, offset int) int {
	if i := bytes.LastIndexByte(src[:offset], '\n'); i >= 0 {
		return i + 1
	}
	return 0
}

func lineIndent(src []byte, offset int) string {
	start := lineStart(src, offset)
	end := start
	for end < len(src) && (src[end] == ' ' || src[end] == '\t') {
		end++
	}
	return string(src[start:end])
}
