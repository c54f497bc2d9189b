// Package gen drives a blocked-kernel generation run: it loads the
// generator configuration, opens the artifact destination, emits every
// kernel and records the run in a manifest.
package gen

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/hupe1980/gaugrid/codec"
	"github.com/hupe1980/gaugrid/internal/blocked"
	"github.com/hupe1980/gaugrid/internal/codegen"
	"github.com/hupe1980/gaugrid/order"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is returned when the configuration cannot drive a run.
var ErrInvalidConfig = errors.New("invalid generator configuration")

// Destination types.
const (
	DestLocal = "local"
	DestS3    = "s3"
	DestMinio = "minio"
)

// Config is the generator configuration.
type Config struct {
	MaxL           int         `yaml:"max_l"`
	TileSize       int         `yaml:"tile_size"`
	CartesianOrder string      `yaml:"cartesian_order"`
	Target         string      `yaml:"target"`
	Package        string      `yaml:"package"`
	Format         bool        `yaml:"format"`
	Compress       bool        `yaml:"compress"`
	ManifestCodec  string      `yaml:"manifest_codec"`
	Destination    Destination `yaml:"destination"`
}

// Destination selects where artifacts are written.
type Destination struct {
	Type     string `yaml:"type"`
	Path     string `yaml:"path"`
	Bucket   string `yaml:"bucket"`
	Prefix   string `yaml:"prefix"`
	Region   string `yaml:"region"`
	Endpoint string `yaml:"endpoint"`
	UseSSL   bool   `yaml:"use_ssl"`
	// Credentials for minio; usually supplied via MINIO_ACCESS_KEY and MINIO_SECRET_KEY.
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		MaxL:           4,
		TileSize:       blocked.DefaultTileSize,
		CartesianOrder: string(order.Row),
		Target:         codegen.C.String(),
		Package:        blocked.DefaultPackage,
		ManifestCodec:  "json",
		Destination: Destination{
			Type:   DestLocal,
			Path:   "generated",
			UseSSL: true,
		},
	}
}

// Load reads a YAML configuration on top of the defaults. A missing file
// yields the defaults. Environment overrides are applied last.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		case os.IsNotExist(err):
		default:
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv("GAUGRID_MAX_L"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: GAUGRID_MAX_L=%q", ErrInvalidConfig, v)
		}
		c.MaxL = n
	}
	if v := os.Getenv("GAUGRID_TILE_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: GAUGRID_TILE_SIZE=%q", ErrInvalidConfig, v)
		}
		c.TileSize = n
	}
	if v := os.Getenv("GAUGRID_OUTPUT"); v != "" {
		c.Destination.Path = v
	}
	if v := os.Getenv("MINIO_ACCESS_KEY"); v != "" {
		c.Destination.AccessKey = v
	}
	if v := os.Getenv("MINIO_SECRET_KEY"); v != "" {
		c.Destination.SecretKey = v
	}
	return nil
}

// Dialect returns the configured target dialect.
func (c *Config) Dialect() (codegen.Dialect, error) {
	switch c.Target {
	case codegen.C.String():
		return codegen.C, nil
	case codegen.Go.String():
		return codegen.Go, nil
	default:
		return 0, fmt.Errorf("%w: unknown target %q (want c or go)", ErrInvalidConfig, c.Target)
	}
}

// Convention returns the configured Cartesian ordering.
func (c *Config) Convention() (order.Convention, error) {
	conv, err := order.Parse(c.CartesianOrder)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return conv, nil
}

// Codec returns the manifest codec.
func (c *Config) Codec() (codec.Codec, error) {
	if c.ManifestCodec == "" {
		return codec.Default, nil
	}
	cd, ok := codec.ByName(c.ManifestCodec)
	if !ok {
		return nil, fmt.Errorf("%w: unknown manifest codec %q", ErrInvalidConfig, c.ManifestCodec)
	}
	return cd, nil
}

// Validate reports the first problem that would make a run fail.
func (c *Config) Validate() error {
	if c.MaxL < 0 {
		return fmt.Errorf("%w: max_l must be >= 0, got %d", ErrInvalidConfig, c.MaxL)
	}
	if c.TileSize <= 0 {
		return fmt.Errorf("%w: tile_size must be positive, got %d", ErrInvalidConfig, c.TileSize)
	}
	if _, err := c.Dialect(); err != nil {
		return err
	}
	conv, err := c.Convention()
	if err != nil {
		return err
	}
	if _, err := order.Enumerate(c.MaxL, conv); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if _, err := c.Codec(); err != nil {
		return err
	}

	d := c.Destination
	switch d.Type {
	case DestLocal:
		if d.Path == "" {
			return fmt.Errorf("%w: local destination needs a path", ErrInvalidConfig)
		}
	case DestS3:
		if d.Bucket == "" {
			return fmt.Errorf("%w: s3 destination needs a bucket", ErrInvalidConfig)
		}
	case DestMinio:
		if d.Bucket == "" || d.Endpoint == "" {
			return fmt.Errorf("%w: minio destination needs an endpoint and a bucket", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown destination type %q", ErrInvalidConfig, d.Type)
	}
	return nil
}
