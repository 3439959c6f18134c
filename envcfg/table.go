package envcfg

import (
	"errors"
	"maps"
	"slices"
	"strings"
)

// DefaultProtectedPrefix is the name prefix reserved for the build tool's own
// control variables.
const DefaultProtectedPrefix = "CARGO_"

// IsProtected reports whether name falls in the reserved namespace: it starts
// with [DefaultProtectedPrefix] or with one of the extra prefixes. Empty extra
// prefixes are ignored.
func IsProtected(name string, extra ...string) bool {
	_, ok := protectedBy(name, extra)

	return ok
}

// protectedBy returns the reserved prefix that name starts with.
func protectedBy(name string, extra []string) (string, bool) {
	if strings.HasPrefix(name, DefaultProtectedPrefix) {
		return DefaultProtectedPrefix, true
	}

	for _, prefix := range extra {
		if prefix != "" && strings.HasPrefix(name, prefix) {
			return prefix, true
		}
	}

	return "", false
}

// Table maps variable names to their resolved entries.
type Table map[string]Entry

// Names returns the entry names in lexical order.
func (t Table) Names() []string {
	return slices.Sorted(maps.Keys(t))
}

// Lookup returns the entry named name.
func (t Table) Lookup(name string) (Entry, bool) {
	e, ok := t[name]

	return e, ok
}

// Entries returns the entries ordered by name.
func (t Table) Entries() []Entry {
	out := make([]Entry, 0, len(t))

	for _, name := range t.Names() {
		out = append(out, t[name])
	}

	return out
}

// Option configures [Resolve].
type Option func(resolveConfig) resolveConfig

type resolveConfig struct {
	origins  map[string]string
	prefixes []string
}

// WithProtectedPrefixes reserves additional name prefixes. Entries whose
// names start with any of them are rejected like those starting with
// [DefaultProtectedPrefix], which is always reserved.
func WithProtectedPrefixes(prefixes ...string) Option {
	return func(c resolveConfig) resolveConfig {
		c.prefixes = append(c.prefixes, prefixes...)

		return c
	}
}

// WithOrigins records, per entry name, the directory of the configuration
// file that declared it.
func WithOrigins(origins map[string]string) Option {
	return func(c resolveConfig) resolveConfig {
		c.origins = origins

		return c
	}
}

// Resolve validates every declaration of the merged raw mapping and returns
// the resulting table.
//
// All problems are collected: when any declaration is malformed or protected,
// Resolve returns a nil table and an [Errors] value listing each of them in
// key path order. No partial table is ever returned.
func Resolve(raw map[string]any, opts ...Option) (Table, error) {
	var cfg resolveConfig
	for _, opt := range opts {
		cfg = opt(cfg)
	}

	var (
		errs  Errors
		table = make(Table, len(raw))
	)

	for _, name := range slices.Sorted(maps.Keys(raw)) {
		if prefix, ok := protectedBy(name, cfg.prefixes); ok {
			errs = append(errs, &ProtectedVariableError{
				Name:   name,
				Prefix: prefix,
			})

			continue
		}

		entry, err := ParseEntry(name, raw[name])
		if err != nil {
			var list Errors
			if errors.As(err, &list) {
				errs = append(errs, list...)
			} else {
				errs = append(errs, err)
			}

			continue
		}

		entry.Origin = cfg.origins[name]
		table[name] = entry
	}

	if len(errs) > 0 {
		return nil, errs.sorted()
	}

	return table, nil
}
