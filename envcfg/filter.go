package envcfg

import (
	"log/slog"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// filterEnv is the environment visible to filter expressions.
type filterEnv struct {
	Name          string `expr:"name"`
	Value         string `expr:"value"`
	Origin        string `expr:"origin"`
	Force         bool   `expr:"force"`
	Relative      bool   `expr:"relative"`
	InSubcommands bool   `expr:"in_subcommands"`
}

func makeFilterEnv(e Entry) filterEnv {
	return filterEnv{
		Name:          e.Name,
		Value:         e.Value,
		Origin:        e.Origin,
		Force:         e.Force,
		Relative:      e.Relative,
		InSubcommands: e.InSubcommands,
	}
}

// Filter selects entries by a compiled boolean expression.
// The zero Filter matches every entry.
type Filter struct {
	program *vm.Program
	source  string
}

// CompileFilter compiles a boolean expr-lang expression over the fields of an
// entry: name, value, origin, force, relative, and in_subcommands. For
// example:
//
//	force && !in_subcommands
//	name startsWith "RUST" || relative
//
// An empty (or all-whitespace) source yields a Filter that matches
// everything.
func CompileFilter(src string) (Filter, error) {
	if strings.TrimSpace(src) == "" {
		return Filter{source: src}, nil
	}

	program, err := expr.Compile(src, expr.Env(filterEnv{}), expr.AsBool())
	if err != nil {
		return Filter{}, ErrFilter.
			With(slog.String("expr", src)).
			Wrap(err)
	}

	return Filter{program: program, source: src}, nil
}

// String returns the source of the filter expression.
func (f Filter) String() string { return f.source }

// Match reports whether e satisfies the filter.
func (f Filter) Match(e Entry) (bool, error) {
	if f.program == nil {
		return true, nil
	}

	out, err := expr.Run(f.program, makeFilterEnv(e))
	if err != nil {
		return false, ErrFilter.
			With(slog.String("expr", f.source), slog.String("name", e.Name)).
			Wrap(err)
	}

	ok, _ := out.(bool)

	return ok, nil
}

// Filter returns the entries of t matched by f.
func (t Table) Filter(f Filter) (Table, error) {
	out := make(Table, len(t))

	for _, name := range t.Names() {
		ok, err := f.Match(t[name])
		if err != nil {
			return nil, err
		}

		if ok {
			out[name] = t[name]
		}
	}

	return out, nil
}
