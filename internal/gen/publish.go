package gen

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/hupe1980/gaugrid/blobstore"
	"github.com/hupe1980/gaugrid/internal/blocked"
	"github.com/hupe1980/gaugrid/internal/codegen"
	"github.com/hupe1980/gaugrid/manifest"
	"github.com/klauspost/compress/zstd"
	"golang.org/x/sync/errgroup"
)

const maxConcurrentUploads = 8

// Generator returns the blocked-kernel generator described by cfg.
func (c *Config) Generator() (*blocked.Generator, error) {
	d, err := c.Dialect()
	if err != nil {
		return nil, err
	}
	conv, err := c.Convention()
	if err != nil {
		return nil, err
	}

	var f codegen.Formatter
	switch {
	case d == codegen.Go:
		f = codegen.GoFormatter{}
	case c.Format:
		f = codegen.ClangFormatter{}
	}
	return blocked.New(d,
		blocked.WithTileSize(c.TileSize),
		blocked.WithConvention(conv),
		blocked.WithPackage(c.Package),
		blocked.WithFormatter(f),
	), nil
}

// Publish emits every kernel for degrees 0..cfg.MaxL into store and
// writes the manifest. With cfg.Compress the artifacts are stored
// zstd-compressed; the manifest itself is always stored plain.
func Publish(ctx context.Context, cfg *Config, store blobstore.Store, logger *slog.Logger) (*manifest.Manifest, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cd, err := cfg.Codec()
	if err != nil {
		return nil, err
	}
	g, err := cfg.Generator()
	if err != nil {
		return nil, err
	}

	start := time.Now()
	arts, err := g.GenerateAll(ctx, cfg.MaxL, 0)
	if err != nil {
		return nil, fmt.Errorf("gen: generate: %w", err)
	}

	target := store
	if cfg.Compress {
		cs, err := blobstore.NewCompressingStore(store, zstd.SpeedBetterCompression)
		if err != nil {
			return nil, err
		}
		defer cs.Close()
		target = cs
	}

	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(maxConcurrentUploads)
	for _, a := range arts {
		eg.Go(func() error {
			if err := target.Put(gctx, a.Name, a.Source); err != nil {
				return fmt.Errorf("gen: write %s: %w", a.Name, err)
			}
			logger.Info("artifact written", "name", a.Name, "l", a.L, "bytes", len(a.Source))
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	m := manifest.New(cfg.Target, cfg.CartesianOrder, g.TileSize(), cfg.MaxL)
	m.Created = time.Now().UTC().Truncate(time.Second)
	for _, a := range arts {
		m.Add(a.Name, a.L, a.Source, cfg.Compress)
	}
	if err := manifest.Save(ctx, store, m, cd); err != nil {
		return nil, err
	}

	logger.Info("generation complete",
		"target", cfg.Target,
		"max_l", cfg.MaxL,
		"artifacts", len(arts),
		"duration", time.Since(start),
	)
	return m, nil
}

// Verify re-reads every artifact listed in the manifest and checks its
// checksum.
func Verify(ctx context.Context, cfg *Config, store blobstore.Store) (*manifest.Manifest, error) {
	cd, err := cfg.Codec()
	if err != nil {
		return nil, err
	}
	m, err := manifest.Load(ctx, store, cd)
	if err != nil {
		return nil, err
	}

	var cs *blobstore.CompressingStore
	for _, a := range m.Artifacts {
		src := store
		if a.Compressed {
			if cs == nil {
				if cs, err = blobstore.NewCompressingStore(store, zstd.SpeedDefault); err != nil {
					return nil, err
				}
				defer cs.Close()
			}
			src = cs
		}
		data, err := src.Get(ctx, a.Name)
		if err != nil {
			return nil, fmt.Errorf("gen: read %s: %w", a.Name, err)
		}
		if err := m.Verify(a.Name, data); err != nil {
			return nil, err
		}
	}
	return m, nil
}
