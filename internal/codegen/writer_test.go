package codegen

import (
	"context"
	"errors"
	"testing"

	"github.com/hupe1980/gaugrid/blobstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriter_C(t *testing.T) {
	w := NewWriter(C)
	w.Raw("#include <math.h>")
	w.Blank()
	w.Open("void f(double* out)")
	w.Comment("Sizing")
	w.Line("size_t n = 4")
	w.Open("for (size_t i = 0; i < n; i++)")
	w.Linef("out[i] = %d * i", 2)
	w.Close()
	w.Close()

	want := "#include <math.h>\n" +
		"\n" +
		"void f(double* out) {\n" +
		"    // Sizing\n" +
		"    size_t n = 4;\n" +
		"    for (size_t i = 0; i < n; i++) {\n" +
		"        out[i] = 2 * i;\n" +
		"    }\n" +
		"}\n"
	assert.Equal(t, want, w.String())
	assert.Equal(t, 0, w.Depth())
}

func TestWriter_Go(t *testing.T) {
	w := NewWriter(Go)
	w.Line("package kernels")
	w.Blank()
	w.Open("func f(out []float64)")
	w.Open("for i := range out")
	w.Line("out[i] = 1")
	w.Close()
	w.Close()

	src, err := w.Render(context.Background(), GoFormatter{})
	require.NoError(t, err)
	assert.Equal(t, "package kernels\n\nfunc f(out []float64) {\n\tfor i := range out {\n\t\tout[i] = 1\n\t}\n}\n", string(src))
}

func TestWriter_Else(t *testing.T) {
	w := NewWriter(Go)
	w.Open("if ok")
	w.Line("a()")
	w.Else()
	w.Line("b()")
	w.Close()
	assert.Equal(t, "if ok {\n\ta()\n} else {\n\tb()\n}\n", w.String())
	assert.Equal(t, 0, w.Depth())
}

func TestWriter_RenderRejectsOpenBlocks(t *testing.T) {
	w := NewWriter(Go)
	w.Open("func f()")
	_, err := w.Render(context.Background(), nil)
	assert.Error(t, err)
}

func TestWriter_DedentBelowZeroPanics(t *testing.T) {
	w := NewWriter(Go)
	assert.Panics(t, func() { w.Dedent() })
}

func TestWriter_GoFormatterReportsSyntaxErrors(t *testing.T) {
	w := NewWriter(Go)
	w.Line("package kernels")
	w.Line("func (")
	_, err := w.Render(context.Background(), GoFormatter{})
	assert.Error(t, err)
}

func TestWriter_Save(t *testing.T) {
	store := blobstore.NewMemoryStore()
	w := NewWriter(C)
	w.Line("int x = 1")

	src, err := w.Save(context.Background(), store, "x.c", nil)
	require.NoError(t, err)
	assert.Equal(t, "int x = 1;\n", string(src))

	got, err := store.Get(context.Background(), "x.c")
	require.NoError(t, err)
	assert.Equal(t, src, got)
}

func TestClangFormatter_MissingBinary(t *testing.T) {
	f := ClangFormatter{Binary: "clang-format-does-not-exist"}
	_, err := f.Format(context.Background(), []byte("int x;"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFormatterUnavailable))
}

func TestNeedsSemicolon(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{"x = 1", true},
		{"x = 1;", false},
		{"// comment", false},
		{"#include <math.h>", false},
		{"for (;;) {", false},
		{"}", false},
		{"", false},
		{"default:", false},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, needsSemicolon(tc.line), tc.line)
	}
}

func TestForDialect(t *testing.T) {
	assert.IsType(t, ClangFormatter{}, ForDialect(C))
	assert.IsType(t, GoFormatter{}, ForDialect(Go))
	assert.Equal(t, "c", C.String())
	assert.Equal(t, "go", Go.String())
}
