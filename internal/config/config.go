// Package config holds the checker's build-time constants and the
// project-level options block.
//
// Options mirror the `check:` section of a lume.yaml project manifest.
// The checker itself never touches the filesystem; embedding tools hand
// the raw manifest bytes to Load.
package config

import (
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Options configure a checker run.
type Options struct {
	// StrictInstances rejects toplevel bindings with unresolved implicit
	// arguments even when a later binding could still discharge them.
	// This is the specified behavior; turning it off is for exploratory
	// tooling (REPL, LSP) that wants partial elaboration.
	StrictInstances bool `yaml:"strict_instances"`

	// MaxAliasDepth is loaded and normalized to a positive value, but the
	// checker does not read it: alias unfolding in the unifier is not
	// bounded by it, and Unalias uses its own fixed limit.
	MaxAliasDepth int `yaml:"max_alias_depth"`

	// DumpElaborated asks the pipeline to render the elaborated program
	// after a successful run.
	DumpElaborated bool `yaml:"dump_elaborated"`
}

// Default returns the options used when no manifest is present.
func Default() Options {
	return Options{
		StrictInstances: true,
		MaxAliasDepth:   64,
	}
}

type manifest struct {
	Check Options `yaml:"check"`
}

// Load parses the `check:` section out of a lume.yaml manifest blob.
// Missing keys keep their defaults.
func Load(data []byte) (Options, error) {
	m := manifest{Check: Default()}
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Default(), errors.Wrap(err, "parsing manifest")
	}
	if m.Check.MaxAliasDepth <= 0 {
		m.Check.MaxAliasDepth = Default().MaxAliasDepth
	}
	return m.Check, nil
}
