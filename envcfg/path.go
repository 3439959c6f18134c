package envcfg

import (
	"path/filepath"
)

// ResolvePath returns the value of e with relative path resolution applied.
//
// Entries without the Relative flag are returned verbatim, whatever their
// value looks like. An absolute value is returned unchanged. Otherwise the
// value is joined onto the entry's Origin, or onto base when Origin is empty,
// and made absolute. The result is not required to exist.
func (e Entry) ResolvePath(base string) string {
	if !e.Relative || filepath.IsAbs(e.Value) {
		return e.Value
	}

	dir := e.Origin
	if dir == "" {
		dir = base
	}

	joined := filepath.Join(dir, e.Value)

	abs, err := filepath.Abs(joined)
	if err != nil {
		return joined
	}

	return abs
}

// ResolvePaths returns a copy of t in which every relative entry holds its
// resolved absolute path. Resolving an already resolved table is a no-op.
func (t Table) ResolvePaths(base string) Table {
	out := make(Table, len(t))

	for name, e := range t {
		if e.Relative {
			e.Value = e.ResolvePath(base)
		}

		out[name] = e
	}

	return out
}

// ResolvePaths resolves the relative entries of t against base.
// See [Table.ResolvePaths].
func ResolvePaths(t Table, base string) Table {
	return t.ResolvePaths(base)
}
