package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/hupe1980/gaugrid/manifest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestGenerate_Flags(t *testing.T) {
	dir := t.TempDir()
	out, err := execute(t, "generate", "--max-l", "1", "--output", dir)
	require.NoError(t, err)
	assert.Equal(t, "wrote 3 artifacts (c, row order, L<=1)\n", out)

	for _, name := range []string{"gaugrid.h", "gaugrid_collocation_L0.c", "gaugrid_collocation_L1.c", manifest.FileName} {
		assert.FileExists(t, filepath.Join(dir, name))
	}

	out, err = execute(t, "verify", "--output", dir)
	require.NoError(t, err)
	assert.Equal(t, "3 artifacts ok\n", out)
}

func TestGenerate_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "gaugrid.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
max_l: 2
target: go
cartesian_order: molden
tile_size: 8
compress: true
destination:
  type: local
  path: `+filepath.Join(dir, "out")+`
`), 0o644))

	out, err := execute(t, "--config", cfgPath, "generate")
	require.NoError(t, err)
	assert.Equal(t, "wrote 3 artifacts (go, molden order, L<=2)\n", out)
	assert.FileExists(t, filepath.Join(dir, "out", "collocation_l2.go.zst"))

	_, err = execute(t, "--config", cfgPath, "verify")
	require.NoError(t, err)
}

func TestGenerate_InvalidFlag(t *testing.T) {
	_, err := execute(t, "generate", "--target", "fortran", "--output", t.TempDir())
	assert.Error(t, err)
}

func TestVerify_MissingManifest(t *testing.T) {
	_, err := execute(t, "verify", "--output", t.TempDir())
	assert.Error(t, err)
}

func TestInspect_VectorKernel(t *testing.T) {
	out, err := execute(t, "inspect", "--l", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "package kernels")
	assert.Contains(t, out, "func ComputeShell1Row(")
}

func TestInspect_BlockedKernel(t *testing.T) {
	out, err := execute(t, "inspect", "--l", "2", "--target", "c", "--order", "molden", "--tile", "16")
	require.NoError(t, err)
	assert.Contains(t, out, "gg_collocation_L2(")

	out, err = execute(t, "inspect", "--l", "3", "--target", "c", "--header")
	require.NoError(t, err)
	assert.Contains(t, out, "gg_collocation_L3(")

	out, err = execute(t, "inspect", "--l", "0", "--target", "go")
	require.NoError(t, err)
	assert.Contains(t, out, "func CollocationL0(")
}

func TestInspect_Errors(t *testing.T) {
	_, err := execute(t, "inspect", "--l", "5", "--order", "molden")
	assert.Error(t, err)

	_, err = execute(t, "inspect", "--order", "column")
	assert.Error(t, err)

	_, err = execute(t, "inspect", "--target", "go", "--header")
	assert.Error(t, err)
}
