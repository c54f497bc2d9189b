package codegen

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"go/format"
	"os/exec"
)

// ErrFormatterUnavailable is returned when an external formatter binary is not installed.
var ErrFormatterUnavailable = errors.New("formatter unavailable")

// Formatter rewrites generated source into its canonical layout.
type Formatter interface {
	Format(ctx context.Context, src []byte) ([]byte, error)
}

// GoFormatter formats Go source with gofmt rules.
type GoFormatter struct{}

// Format implements Formatter.
func (GoFormatter) Format(_ context.Context, src []byte) ([]byte, error) {
	return format.Source(src)
}

// ClangFormatter pipes C source through clang-format.
type ClangFormatter struct {
	// Binary defaults to "clang-format".
	Binary string
	// Style is passed as -style; defaults to "file" falling back to LLVM.
	Style string
}

// Format implements Formatter.
func (f ClangFormatter) Format(ctx context.Context, src []byte) ([]byte, error) {
	bin := f.Binary
	if bin == "" {
		bin = "clang-format"
	}
	path, err := exec.LookPath(bin)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrFormatterUnavailable, bin, err)
	}
	style := f.Style
	if style == "" {
		style = "{BasedOnStyle: LLVM, IndentWidth: 4, ColumnLimit: 120}"
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, path, "-style="+style, "-assume-filename=kernel.c")
	cmd.Stdin = bytes.NewReader(src)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("clang-format failed: %w\n%s", err, stderr.String())
	}
	return stdout.Bytes(), nil
}

// ForDialect returns the default formatter for d.
func ForDialect(d Dialect) Formatter {
	if d == C {
		return ClangFormatter{}
	}
	return GoFormatter{}
}
