// Package config defines the configuration value object shared by every
// lakecheck component. A Config is constructed once from a project root,
// optionally overlaid with a lakecheck.yaml file at that root, and passed
// as a parameter wherever paths are needed. There are no package-level
// path globals.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/semviews/lakecheck/internal/querysql"
)

// OverrideFile is the optional per-project configuration file name,
// looked up directly under the project root.
const OverrideFile = "lakecheck.yaml"

// Default fixture layout, relative to the project root.
const (
	defaultDataDir       = "test/data"
	defaultSeedDir       = "test/data/seeds"
	defaultCatalogPath   = "test/data/test_catalog.duckdb"
	defaultLakePath      = "test/data/jaffle.ducklake"
	defaultLakeDataDir   = "test/data/jaffle_data"
	defaultExtensionDir  = "test/data/duckdb_extensions"
	defaultExtensionPath = "build/debug/semantic_views.duckdb_extension"
	defaultCatalogName   = "jaffle"
	defaultSeedBaseURL   = "https://raw.githubusercontent.com/dbt-labs/jaffle-shop/main/seeds/jaffle-data"
)

// defaultSeeds are the jaffle-shop seed files the fixture is built from.
// Table names are derived from these file stems, and the validation
// scenarios reference those table names literally.
var defaultSeeds = []string{
	"raw_orders.csv",
	"raw_customers.csv",
	"raw_items.csv",
}

// Config holds every path and name the provisioning and validation
// pipelines use. All path fields are absolute after construction.
type Config struct {
	// Root is the project root directory all defaults derive from.
	Root string `yaml:"-"`

	DataDir       string   `yaml:"data_dir"`
	SeedDir       string   `yaml:"seed_dir"`
	CatalogPath   string   `yaml:"catalog_path"`
	LakePath      string   `yaml:"lake_path"`
	LakeDataDir   string   `yaml:"lake_data_dir"`
	ExtensionDir  string   `yaml:"extension_dir"`
	ExtensionPath string   `yaml:"extension_path"`
	CatalogName   string   `yaml:"catalog_name"`
	SeedBaseURL   string   `yaml:"seed_base_url"`
	Seeds         []string `yaml:"seeds"`
}

// Default returns the canonical configuration for a project root.
func Default(root string) *Config {
	abs, err := filepath.Abs(root)
	if err != nil {
		// filepath.Abs only fails when the working directory is gone;
		// fall back to the caller's spelling.
		abs = root
	}
	return &Config{
		Root:          abs,
		DataDir:       filepath.Join(abs, filepath.FromSlash(defaultDataDir)),
		SeedDir:       filepath.Join(abs, filepath.FromSlash(defaultSeedDir)),
		CatalogPath:   filepath.Join(abs, filepath.FromSlash(defaultCatalogPath)),
		LakePath:      filepath.Join(abs, filepath.FromSlash(defaultLakePath)),
		LakeDataDir:   filepath.Join(abs, filepath.FromSlash(defaultLakeDataDir)),
		ExtensionDir:  filepath.Join(abs, filepath.FromSlash(defaultExtensionDir)),
		ExtensionPath: filepath.Join(abs, filepath.FromSlash(defaultExtensionPath)),
		CatalogName:   defaultCatalogName,
		SeedBaseURL:   defaultSeedBaseURL,
		Seeds:         append([]string(nil), defaultSeeds...),
	}
}

// Load builds the configuration for root, applying lakecheck.yaml overrides
// when the file exists. Relative paths in the override file are resolved
// against the project root. The returned Config is validated.
func Load(root string) (*Config, error) {
	cfg := Default(root)

	overridePath := filepath.Join(cfg.Root, OverrideFile)
	data, err := os.ReadFile(overridePath)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("read %s: %w", OverrideFile, err)
		}
		// No override file; defaults stand.
	} else {
		var o overrides
		if err := yaml.Unmarshal(data, &o); err != nil {
			return nil, fmt.Errorf("parse %s: %w", OverrideFile, err)
		}
		o.apply(cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// overrides mirrors Config for YAML decoding. Empty fields leave the
// default in place.
type overrides struct {
	DataDir       string   `yaml:"data_dir"`
	SeedDir       string   `yaml:"seed_dir"`
	CatalogPath   string   `yaml:"catalog_path"`
	LakePath      string   `yaml:"lake_path"`
	LakeDataDir   string   `yaml:"lake_data_dir"`
	ExtensionDir  string   `yaml:"extension_dir"`
	ExtensionPath string   `yaml:"extension_path"`
	CatalogName   string   `yaml:"catalog_name"`
	SeedBaseURL   string   `yaml:"seed_base_url"`
	Seeds         []string `yaml:"seeds"`
}

func (o *overrides) apply(cfg *Config) {
	set := func(dst *string, val string) {
		if val == "" {
			return
		}
		if !filepath.IsAbs(val) {
			val = filepath.Join(cfg.Root, filepath.FromSlash(val))
		}
		*dst = val
	}
	set(&cfg.DataDir, o.DataDir)
	set(&cfg.SeedDir, o.SeedDir)
	set(&cfg.CatalogPath, o.CatalogPath)
	set(&cfg.LakePath, o.LakePath)
	set(&cfg.LakeDataDir, o.LakeDataDir)
	set(&cfg.ExtensionDir, o.ExtensionDir)
	set(&cfg.ExtensionPath, o.ExtensionPath)
	if o.CatalogName != "" {
		cfg.CatalogName = o.CatalogName
	}
	if o.SeedBaseURL != "" {
		cfg.SeedBaseURL = strings.TrimRight(o.SeedBaseURL, "/")
	}
	if len(o.Seeds) > 0 {
		cfg.Seeds = append([]string(nil), o.Seeds...)
	}
}

// Validate checks the parts of the configuration that later stages
// interpolate into SQL or URLs.
func (c *Config) Validate() error {
	if !querysql.ValidIdentifier(c.CatalogName) {
		return fmt.Errorf("catalog name %q is not a valid identifier", c.CatalogName)
	}
	if c.SeedBaseURL == "" {
		return fmt.Errorf("seed base URL must not be empty")
	}
	if len(c.Seeds) == 0 {
		return fmt.Errorf("seed list must not be empty")
	}
	for _, name := range c.Seeds {
		if name == "" || name != filepath.Base(name) {
			return fmt.Errorf("seed %q must be a bare file name", name)
		}
		stem := strings.TrimSuffix(name, filepath.Ext(name))
		if !querysql.ValidIdentifier(stem) {
			return fmt.Errorf("seed %q: table name %q is not a valid identifier", name, stem)
		}
	}
	return nil
}

// SeedPath returns the cache path for a seed file name.
func (c *Config) SeedPath(filename string) string {
	return filepath.Join(c.SeedDir, filename)
}

// SeedURL returns the source URL for a seed file name.
func (c *Config) SeedURL(filename string) string {
	return strings.TrimRight(c.SeedBaseURL, "/") + "/" + filename
}
