// Package config holds compiler-wide tunables: the active IR dialect and
// arena size hints, loadable from a YAML file. Standing in for the
// teacher's internal/config package, which carried build-time constants
// and feature-mode flags in the same flat, package-scope-variable style.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/funvibe/fxeir/internal/ir"
)

// Version is the current fxeir version, set at build time by a release
// script via -ldflags, or left at its development default.
var Version = "0.1.0-dev"

// Config is the root of the on-disk YAML configuration shape.
type Config struct {
	// Dialect names an IR dialect, resolved by ParseDialect.
	// One of "high", "normal", "cps"; defaults to "cps" when empty.
	// It is not applied to functions: ir.NewFunction always starts a
	// function at DialectHigh.
	Dialect string `yaml:"dialect"`

	// ArenaHints size-hints the initial capacity of a fresh Function's
	// block/value arenas, trading a larger up-front allocation for fewer
	// grow-and-copy steps on large generated functions.
	ArenaHints ArenaHints `yaml:"arena_hints"`
}

// ArenaHints carries the initial-capacity hints Function construction
// uses to presize its arenas.
type ArenaHints struct {
	Blocks  int `yaml:"blocks"`
	Values  int `yaml:"values"`
	FunRefs int `yaml:"fun_refs"`
}

// DefaultArenaHints are the hints used when a config file sets none,
// chosen to cover a typical small generated function without resizing.
var DefaultArenaHints = ArenaHints{Blocks: 16, Values: 64, FunRefs: 4}

// Default returns a Config with the package defaults: CPS dialect,
// DefaultArenaHints.
func Default() Config {
	return Config{Dialect: "cps", ArenaHints: DefaultArenaHints}
}

// Load reads and parses a YAML config file at path, filling in any field
// left zero with the corresponding Default() value.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	if cfg.ArenaHints == (ArenaHints{}) {
		cfg.ArenaHints = DefaultArenaHints
	}
	if cfg.Dialect == "" {
		cfg.Dialect = "cps"
	}
	return cfg, nil
}

// ParseDialect resolves a config's dialect name to an ir.Dialect. Returns
// an error for any name other than "high", "normal", or "cps".
func ParseDialect(name string) (ir.Dialect, error) {
	switch name {
	case "high":
		return ir.DialectHigh, nil
	case "normal":
		return ir.DialectNormal, nil
	case "cps", "":
		return ir.DialectCPS, nil
	default:
		return 0, fmt.Errorf("config: unknown dialect %q", name)
	}
}

// Built-in operator names the lowering layer targets when it generates a
// remote call instead of emitting a structural IR operation directly, for
// bit-syntax size expressions and equality guards.
const (
	ErlangModule  = "erlang"
	EqGuardOpName = "=:="
)

// Built-in intrinsic names the guard lambda's boolean accumulation uses.
const (
	BoolAndIntrinsic = "bool_and"
	BoolOrIntrinsic  = "bool_or"
)
