// Package manifest records what a generator run emitted.
//
// A manifest lists every artifact with its degree, size and CRC32C
// checksum, together with the settings that produced it. It is stored next
// to the artifacts so a build can verify it compiles what was generated.
package manifest

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/hupe1980/gaugrid/blobstore"
	"github.com/hupe1980/gaugrid/codec"
	"github.com/hupe1980/gaugrid/internal/hash"
)

const (
	// FileName is the manifest's name in the artifact store.
	FileName = "MANIFEST.json"
	// CurrentVersion is the manifest format version.
	CurrentVersion = 1
)

var (
	// ErrChecksumMismatch is returned when an artifact does not match its recorded checksum.
	ErrChecksumMismatch = errors.New("artifact checksum mismatch")
	// ErrUnknownArtifact is returned for names the manifest does not list.
	ErrUnknownArtifact = errors.New("artifact not in manifest")
	// ErrUnsupportedVersion is returned for manifests written by a newer format.
	ErrUnsupportedVersion = errors.New("unsupported manifest version")
)

// Manifest describes one generator run.
type Manifest struct {
	Version    int        `json:"version" yaml:"version"`
	Codec      string     `json:"codec" yaml:"codec"`
	Target     string     `json:"target" yaml:"target"`
	Convention string     `json:"cartesian_order" yaml:"cartesian_order"`
	TileSize   int        `json:"tile_size" yaml:"tile_size"`
	MaxL       int        `json:"max_l" yaml:"max_l"`
	Created    time.Time  `json:"created" yaml:"created"`
	Artifacts  []Artifact `json:"artifacts" yaml:"artifacts"`
}

// Artifact describes one stored file.
type Artifact struct {
	Name       string `json:"name" yaml:"name"`
	L          int    `json:"l" yaml:"l"`
	Size       int    `json:"size" yaml:"size"`
	Checksum   string `json:"checksum" yaml:"checksum"`
	Compressed bool   `json:"compressed,omitempty" yaml:"compressed,omitempty"`
}

// New returns an empty manifest at the current version.
func New(target, convention string, tileSize, maxL int) *Manifest {
	return &Manifest{
		Version:    CurrentVersion,
		Target:     target,
		Convention: convention,
		TileSize:   tileSize,
		MaxL:       maxL,
	}
}

// Add records an artifact holding data (the uncompressed source).
// Adding an existing name replaces its entry.
func (m *Manifest) Add(name string, L int, data []byte, compressed bool) {
	a := Artifact{
		Name:       name,
		L:          L,
		Size:       len(data),
		Checksum:   hash.Format(hash.CRC32C(data)),
		Compressed: compressed,
	}
	for i := range m.Artifacts {
		if m.Artifacts[i].Name == name {
			m.Artifacts[i] = a
			return
		}
	}
	m.Artifacts = append(m.Artifacts, a)
	sort.Slice(m.Artifacts, func(i, j int) bool { return m.Artifacts[i].Name < m.Artifacts[j].Name })
}

// Lookup returns the entry for name.
func (m *Manifest) Lookup(name string) (Artifact, bool) {
	for _, a := range m.Artifacts {
		if a.Name == name {
			return a, true
		}
	}
	return Artifact{}, false
}

// Verify checks data against the recorded checksum of name.
func (m *Manifest) Verify(name string, data []byte) error {
	a, ok := m.Lookup(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownArtifact, name)
	}
	want, err := hash.Parse(a.Checksum)
	if err != nil {
		return fmt.Errorf("manifest: %s: %w", name, err)
	}
	if got := hash.CRC32C(data); got != want || len(data) != a.Size {
		return fmt.Errorf("%w: %s: got %s (%d bytes), want %s (%d bytes)",
			ErrChecksumMismatch, name, hash.Format(got), len(data), a.Checksum, a.Size)
	}
	return nil
}

// Save encodes m with c and stores it under FileName.
func Save(ctx context.Context, store blobstore.Store, m *Manifest, c codec.Codec) error {
	if c == nil {
		c = codec.Default
	}
	m.Codec = c.Name()
	data, err := c.Marshal(m)
	if err != nil {
		return fmt.Errorf("manifest: encode: %w", err)
	}
	if err := store.Put(ctx, FileName, data); err != nil {
		return fmt.Errorf("manifest: store: %w", err)
	}
	return nil
}

// Load reads and decodes the manifest from store. A missing manifest
// surfaces blobstore.ErrNotFound.
func Load(ctx context.Context, store blobstore.Store, c codec.Codec) (*Manifest, error) {
	if c == nil {
		c = codec.Default
	}
	data, err := store.Get(ctx, FileName)
	if err != nil {
		return nil, fmt.Errorf("manifest: load: %w", err)
	}
	var m Manifest
	if err := c.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("manifest: decode: %w", err)
	}
	if m.Version > CurrentVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, m.Version)
	}
	return &m, nil
}
