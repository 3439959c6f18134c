package envcfg

import (
	"maps"
	"slices"
	"strings"
)

// Context identifies the kind of process an environment is composed for.
type Context int

const (
	// Build is the compile step, including any build scripts.
	Build Context = iota
	// RunArtifact is the execution of the produced binary.
	RunArtifact
	// Subcommand is an externally dispatched subcommand of the build tool.
	Subcommand
)

var contextName = [...]string{
	Build:       "build",
	RunArtifact: "run",
	Subcommand:  "subcommand",
}

// String returns the command-line name of the context.
func (c Context) String() string {
	if c < 0 || int(c) >= len(contextName) {
		return "unknown"
	}

	return contextName[c]
}

// Contexts returns the command-line names of all contexts.
func Contexts() []string {
	return slices.Clone(contextName[:])
}

// ParseContext parses a context name as returned by [Context.String].
func ParseContext(s string) (Context, bool) {
	i := slices.Index(contextName[:], strings.ToLower(strings.TrimSpace(s)))
	if i < 0 {
		return Build, false
	}

	return Context(i), true
}

// Visible reports whether e is a candidate for the context c.
func (c Context) Visible(e Entry) bool {
	switch c {
	case Subcommand:
		return e.InSubcommands
	default:
		return true
	}
}

// Source identifies where the final value of a declared variable came from.
type Source int

const (
	// SourceConfig means the declared value was applied.
	SourceConfig Source = iota
	// SourceAmbient means the inherited value was kept.
	SourceAmbient
)

// String returns a short name of the source.
func (s Source) String() string {
	if s == SourceAmbient {
		return "ambient"
	}

	return "config"
}

// Applied records the decision taken for one candidate entry.
type Applied struct {
	Entry  Entry
	Value  string
	Source Source
}

// Composition is the final environment for one process.
type Composition struct {
	// Vars is the complete environment of the process: the ambient
	// environment with every candidate entry applied.
	Vars map[string]string
	// Constants maps each candidate name to its final value for compile-time
	// lookup. It is nil for [Subcommand].
	Constants map[string]string
	// Applied lists the candidate entries in name order.
	Applied []Applied
	// Context is the context the composition was computed for.
	Context Context
}

// Compose computes the environment of a process started in context c.
//
// The result starts from a copy of ambient. Each entry visible in c is then
// applied: a forced entry always replaces the ambient value, any other entry
// only fills in a name the ambient environment does not define. Entries that
// are not visible in c leave the ambient environment untouched.
//
// Neither t nor ambient is modified.
func Compose(t Table, ambient map[string]string, c Context) Composition {
	comp := Composition{
		Context: c,
		Vars:    maps.Clone(ambient),
	}

	if comp.Vars == nil {
		comp.Vars = make(map[string]string, len(t))
	}

	if c != Subcommand {
		comp.Constants = make(map[string]string, len(t))
	}

	for _, name := range t.Names() {
		e := t[name]
		if !c.Visible(e) {
			continue
		}

		applied := Applied{Entry: e, Value: e.Value, Source: SourceConfig}

		if inherited, ok := ambient[name]; ok && !e.Force {
			applied.Value = inherited
			applied.Source = SourceAmbient
		}

		comp.Vars[name] = applied.Value
		comp.Applied = append(comp.Applied, applied)

		if comp.Constants != nil {
			comp.Constants[name] = applied.Value
		}
	}

	return comp
}

// Environ returns the variables of the composition as sorted "KEY=VALUE"
// strings, suitable for [os/exec.Cmd.Env].
func (c Composition) Environ() []string {
	return ToEnviron(c.Vars)
}

// Declared returns only the candidate variables and their final values.
func (c Composition) Declared() map[string]string {
	out := make(map[string]string, len(c.Applied))

	for _, a := range c.Applied {
		out[a.Entry.Name] = a.Value
	}

	return out
}

// FromEnviron converts "KEY=VALUE" strings as returned by [os.Environ] to a
// map. Strings without "=" or with an empty key are ignored; later duplicates
// win.
func FromEnviron(environ []string) map[string]string {
	env := make(map[string]string, len(environ))

	for _, kv := range environ {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			continue
		}

		env[key] = value
	}

	return env
}

// ToEnviron converts env to "KEY=VALUE" strings sorted by key.
func ToEnviron(env map[string]string) []string {
	out := make([]string, 0, len(env))

	for _, key := range slices.Sorted(maps.Keys(env)) {
		out = append(out, key+"="+env[key])
	}

	return out
}
