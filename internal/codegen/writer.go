// Package codegen provides the text emitter used by the kernel generators.
//
// A Writer tracks indentation and scoped blocks for one output file. The
// dialect decides statement termination (C statements get a trailing
// semicolon) and the indentation unit. Serialization optionally runs a
// Formatter (gofmt for Go, clang-format for C) and can target any
// blobstore.Store.
package codegen

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/hupe1980/gaugrid/blobstore"
)

// Dialect is the surface syntax a Writer emits.
type Dialect int

const (
	// Go emits Go source, tab indented, no statement terminators.
	Go Dialect = iota
	// C emits C source, four-space indented, statements end with ';'.
	C
)

func (d Dialect) String() string {
	switch d {
	case Go:
		return "go"
	case C:
		return "c"
	default:
		return fmt.Sprintf("dialect(%d)", int(d))
	}
}

// Writer accumulates generated source.
type Writer struct {
	dialect Dialect
	buf     bytes.Buffer
	depth   int
}

// NewWriter returns an empty Writer for dialect d.
func NewWriter(d Dialect) *Writer {
	return &Writer{dialect: d}
}

// Dialect returns the writer's dialect.
func (w *Writer) Dialect() Dialect { return w.dialect }

// Depth returns the current block nesting depth.
func (w *Writer) Depth() int { return w.depth }

func (w *Writer) unit() string {
	if w.dialect == C {
		return "    "
	}
	return "\t"
}

func (w *Writer) emit(s string) {
	w.buf.WriteString(strings.Repeat(w.unit(), w.depth))
	w.buf.WriteString(s)
	w.buf.WriteByte('\n')
}

// Line writes one statement. In the C dialect a semicolon is appended
// unless the line is a comment, a preprocessor directive or already
// terminated.
func (w *Writer) Line(s string) {
	if w.dialect == C && needsSemicolon(s) {
		s += ";"
	}
	w.emit(s)
}

// Linef writes one formatted statement.
func (w *Writer) Linef(format string, args ...any) {
	w.Line(fmt.Sprintf(format, args...))
}

// Raw writes s verbatim at the current indentation, without a terminator.
func (w *Writer) Raw(s string) {
	w.emit(s)
}

// Comment writes a line comment.
func (w *Writer) Comment(format string, args ...any) {
	w.emit("// " + fmt.Sprintf(format, args...))
}

// Blank writes an empty line.
func (w *Writer) Blank() {
	w.buf.WriteByte('\n')
}

// Open writes header followed by an opening brace and indents.
func (w *Writer) Open(format string, args ...any) {
	w.emit(fmt.Sprintf(format, args...) + " {")
	w.depth++
}

// Close dedents and writes the closing brace of the innermost block.
func (w *Writer) Close() {
	w.Dedent()
	w.emit("}")
}

// Else closes the innermost block and opens its else branch on the same line.
func (w *Writer) Else() {
	w.Dedent()
	w.emit("} else {")
	w.depth++
}

// Indent increases the indentation by one level without opening a block.
func (w *Writer) Indent() { w.depth++ }

// Dedent decreases the indentation by one level.
func (w *Writer) Dedent() {
	if w.depth == 0 {
		panic("codegen: dedent below zero")
	}
	w.depth--
}

// Bytes returns the accumulated source.
func (w *Writer) Bytes() []byte { return w.buf.Bytes() }

// String returns the accumulated source.
func (w *Writer) String() string { return w.buf.String() }

// Render returns the source after running f over it. A nil Formatter
// returns the source unchanged.
func (w *Writer) Render(ctx context.Context, f Formatter) ([]byte, error) {
	if w.depth != 0 {
		return nil, fmt.Errorf("codegen: %d unclosed block(s)", w.depth)
	}
	src := append([]byte(nil), w.buf.Bytes()...)
	if f == nil {
		return src, nil
	}
	out, err := f.Format(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("codegen: format %s source: %w", w.dialect, err)
	}
	return out, nil
}

// Save renders the source and stores it under name.
func (w *Writer) Save(ctx context.Context, store blobstore.Store, name string, f Formatter) ([]byte, error) {
	src, err := w.Render(ctx, f)
	if err != nil {
		return nil, err
	}
	if err := store.Put(ctx, name, src); err != nil {
		return nil, fmt.Errorf("codegen: store %s: %w", name, err)
	}
	return src, nil
}

func needsSemicolon(s string) bool {
	t := strings.TrimSpace(s)
	if t == "" {
		return false
	}
	if strings.HasPrefix(t, "//") || strings.HasPrefix(t, "/*") || strings.HasPrefix(t, "#") {
		return false
	}
	switch t[len(t)-1] {
	case ';', '{', '}', ':':
		return false
	}
	return true
}
