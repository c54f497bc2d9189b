// Package interp evaluates generated Go kernel source with the yaegi
// interpreter.
//
// Generated kernels only import the standard library; anything else is
// rejected before evaluation so a generator bug cannot pull arbitrary
// symbols into the process.
package interp

import (
	"errors"
	"fmt"
	"go/parser"
	"go/token"
	"reflect"
	"strconv"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"
)

// ErrForbiddenImport is returned when generated source imports a package outside the allowlist.
var ErrForbiddenImport = errors.New("forbidden import in generated source")

var allowedPackages = map[string]bool{
	"math": true,
}

// Load evaluates src and returns the value of the package-level symbol
// (for example "kernels.ComputeShell2").
func Load(src, symbol string) (reflect.Value, error) {
	if err := validateImports(src); err != nil {
		return reflect.Value{}, err
	}

	i := interp.New(interp.Options{})
	if err := i.Use(stdlib.Symbols); err != nil {
		return reflect.Value{}, fmt.Errorf("interp: load stdlib: %w", err)
	}
	if _, err := i.Eval(src); err != nil {
		return reflect.Value{}, fmt.Errorf("interp: evaluate generated source: %w", err)
	}
	v, err := i.Eval(symbol)
	if err != nil {
		return reflect.Value{}, fmt.Errorf("interp: symbol %s: %w", symbol, err)
	}
	return v, nil
}

// LoadFunc evaluates src and returns symbol converted to the function type F.
func LoadFunc[F any](src, symbol string) (F, error) {
	var zero F
	v, err := Load(src, symbol)
	if err != nil {
		return zero, err
	}
	fn, ok := v.Interface().(F)
	if !ok {
		return zero, fmt.Errorf("interp: %s has type %s, want %s", symbol, v.Type(), reflect.TypeOf(zero))
	}
	return fn, nil
}

func validateImports(src string) error {
	f, err := parser.ParseFile(token.NewFileSet(), "kernel.go", src, parser.ImportsOnly)
	if err != nil {
		return fmt.Errorf("interp: parse generated source: %w", err)
	}
	for _, imp := range f.Imports {
		path, err := strconv.Unquote(imp.Path.Value)
		if err != nil {
			return fmt.Errorf("interp: import %s: %w", imp.Path.Value, err)
		}
		if !allowedPackages[path] {
			return fmt.Errorf("%w: %q", ErrForbiddenImport, path)
		}
	}
	return nil
}
