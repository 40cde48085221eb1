package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/dnswlt/metamap/internal/filter"
	"github.com/dnswlt/metamap/internal/store"
	"gopkg.in/yaml.v3"
)

const (
	DefaultArchiveDir  = "archive"
	DefaultReportTitle = "Metadata archive"
)

// ArchiveConfig specifies where the instances to decode are read from.
type ArchiveConfig struct {
	Dir string `yaml:"dir"` // Directory of the archive files, relative to the store root.
	// Additional type definition files or directories, relative to the store root.
	// They are loaded on top of the built-in base model.
	Types []string `yaml:"types"`
}

// ReportConfig has configuration that only affects report output.
type ReportConfig struct {
	Title string `yaml:"title"`
	// Property columns to show per kind. Kinds without an entry show all properties.
	Columns map[string][]string `yaml:"columns"`
}

// Bundle is the umbrella struct for the serialized application configuration YAML.
type Bundle struct {
	Archive ArchiveConfig `yaml:"archive"`
	// Kinds to decode. Empty means all registered kinds.
	Kinds []string `yaml:"kinds"`
	// A CEL expression that selects the entities to decode (see package filter).
	Filter string       `yaml:"filter"`
	Report ReportConfig `yaml:"report"`

	// Compiled Filter.
	filter *filter.Filter
}

// Default returns the configuration used if no configuration file is given.
func Default() *Bundle {
	b := &Bundle{}
	b.applyDefaults()
	return b
}

func (b *Bundle) applyDefaults() {
	if b.Archive.Dir == "" {
		b.Archive.Dir = DefaultArchiveDir
	}
	if b.Report.Title == "" {
		b.Report.Title = DefaultReportTitle
	}
}

// CompiledFilter returns the compiled Filter expression, or nil if no filter is configured.
func (b *Bundle) CompiledFilter() *filter.Filter {
	return b.filter
}

// SetFilter replaces the filter expression, e.g. with one given on the command line.
func (b *Bundle) SetFilter(expr string) error {
	f, err := filter.Compile(expr)
	if err != nil {
		return err
	}
	b.Filter = expr
	b.filter = f
	return nil
}

// SelectKinds returns the kinds of registered that the configuration selects, in the order
// of registered. It is an error if the configuration names a kind that is not registered.
func (b *Bundle) SelectKinds(registered []string) ([]string, error) {
	if len(b.Kinds) == 0 {
		return registered, nil
	}
	for _, k := range b.Kinds {
		if !slices.Contains(registered, k) {
			return nil, fmt.Errorf("unknown kind %q in configuration", k)
		}
	}
	var kinds []string
	for _, k := range registered {
		if slices.Contains(b.Kinds, k) {
			kinds = append(kinds, k)
		}
	}
	return kinds, nil
}

// Load reads the configuration at configPath from st. Unknown fields are errors.
func Load(st store.Store, configPath string) (*Bundle, error) {
	bs, err := st.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("could not read config %q: %v", configPath, err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(bs))
	dec.KnownFields(true)
	var bundle Bundle
	if err := dec.Decode(&bundle); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("invalid configuration YAML in %q: %v", configPath, err)
	}
	bundle.applyDefaults()

	// Populate and validate computed fields
	if err := bundle.SetFilter(bundle.Filter); err != nil {
		return nil, fmt.Errorf("invalid configuration in %q: %v", configPath, err)
	}
	return &bundle, nil
}
