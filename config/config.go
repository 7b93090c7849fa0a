// Package config loads the irasm.toml settings that select the assembler
// options and the output format.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/sarchlab/irasm/ir"
	"github.com/sarchlab/irasm/pipeline"
)

// FileName is the name of the configuration file.
const FileName = "irasm.toml"

// Config is the content of irasm.toml.
type Config struct {
	Assembler Assembler `toml:"assembler"`
	Output    Output    `toml:"output"`

	// Dir is the directory the file was loaded from. Empty for defaults.
	Dir string `toml:"-"`
}

// Assembler holds the assembler options.
type Assembler struct {
	ExternalEncoding string `toml:"external-encoding"`
	AllowExternals   bool   `toml:"allow-externals"`
}

// Output holds the pipeline output options.
type Output struct {
	Frontend string   `toml:"frontend"`
	Passes   []string `toml:"passes"`
	Format   string   `toml:"format"`
	Symbols  bool     `toml:"symbols"`
}

// Default returns the settings used when no file is found.
func Default() *Config {
	return &Config{
		Assembler: Assembler{
			ExternalEncoding: ir.ExternalRaw.String(),
			AllowExternals:   true,
		},
		Output: Output{
			Format: "raw",
		},
	}
}

// Load reads dir/irasm.toml. Keys missing from the file keep their defaults.
func Load(dir string) (*Config, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	c := Default()
	if err := toml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	c.Dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", dir, err)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// FindAndLoad walks up from startDir looking for irasm.toml and loads the
// first one found. Defaults are returned if there is none.
func FindAndLoad(startDir string) (*Config, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return Load(dir)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return Default(), nil
		}
		dir = parent
	}
}

// Validate checks the values that cannot be checked by decoding alone.
func (c *Config) Validate() error {
	if _, err := ir.ParseExternalEncoding(c.Assembler.ExternalEncoding); err != nil {
		return fmt.Errorf("assembler.external-encoding: %w", err)
	}
	if c.Output.Format == "" {
		return fmt.Errorf("output.format is empty")
	}
	return nil
}

// AssemblerBuilder returns an assembler builder with the configured options.
func (c *Config) AssemblerBuilder() (ir.AssemblerBuilder, error) {
	enc, err := ir.ParseExternalEncoding(c.Assembler.ExternalEncoding)
	if err != nil {
		return ir.AssemblerBuilder{}, err
	}
	return ir.MakeAssemblerBuilder().
		WithExternalEncoding(enc).
		WithExternals(c.Assembler.AllowExternals), nil
}

// PipelineBuilder returns a pipeline builder over r with the configured
// front end, passes, outlet and assembler. An empty front end keeps the
// builder's default.
func (c *Config) PipelineBuilder(r *pipeline.Registry) (pipeline.Builder, error) {
	ab, err := c.AssemblerBuilder()
	if err != nil {
		return pipeline.Builder{}, err
	}

	b := pipeline.MakeBuilder().
		WithRegistry(r).
		WithPasses(c.Output.Passes...).
		WithOutlet(c.Output.Format).
		WithAssembler(ab.Build())
	if c.Output.Frontend != "" {
		b = b.WithFrontend(c.Output.Frontend)
	}
	return b, nil
}
