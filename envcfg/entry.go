package envcfg

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"
)

// TableKey is the name of the configuration table holding entry declarations.
const TableKey = "env"

// Recognized fields of the table form of an entry.
const (
	FieldValue         = "value"
	FieldForce         = "force"
	FieldRelative      = "relative"
	FieldInSubcommands = "in_subcommands"
)

// Fields returns the recognized fields of the table form, in declaration
// order.
func Fields() []string {
	return []string{FieldValue, FieldForce, FieldRelative, FieldInSubcommands}
}

// Entry is one declared environment variable rule.
//
// The zero value of every flag is the default: the declared value acts as a
// fallback for the ambient environment, it is used verbatim, and it is only
// visible to the build and the produced artifact.
type Entry struct {
	// Name is the environment variable identifier.
	Name string
	// Value is the declared value. When Relative is set, it is a path that
	// has not necessarily been resolved yet (see [ResolvePaths]).
	Value string
	// Origin is the directory of the configuration file that declared the
	// entry, or empty when unknown.
	Origin string
	// Force makes Value override an ambient variable of the same name.
	Force bool
	// Relative marks Value as a path relative to the declaring directory.
	Relative bool
	// InSubcommands exposes the entry to externally dispatched subcommands.
	InSubcommands bool
}

// LogValue implements slog.LogValuer.
func (e Entry) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("name", e.Name),
		slog.String("value", e.Value),
		slog.Bool("force", e.Force),
		slog.Bool("relative", e.Relative),
		slog.Bool("in_subcommands", e.InSubcommands),
	)
}

// KeyPath returns the dotted configuration key path of the entry named name,
// followed by any nested field names.
func KeyPath(name string, field ...string) string {
	return strings.Join(append([]string{TableKey, name}, field...), ".")
}

// ParseEntry converts the raw configuration value declared for name into an
// [Entry].
//
// A string is shorthand for a table containing only "value". A table must
// contain a string "value" and may contain the boolean fields "force",
// "relative", and "in_subcommands". Anything else yields one or more
// [*ShapeError] values, returned as [Errors].
func ParseEntry(name string, raw any) (Entry, error) {
	entry := Entry{Name: name}

	if errs := checkName(name); len(errs) > 0 {
		return Entry{}, errs
	}

	switch v := raw.(type) {
	case string:
		entry.Value = v

	case map[string]any:
		errs := parseTable(&entry, v)
		if len(errs) > 0 {
			return Entry{}, errs.sorted()
		}

	default:
		return Entry{}, Errors{&ShapeError{
			Key: KeyPath(name),
			Reason: fmt.Sprintf(
				"expected a string or table, but found %s", describe(raw),
			),
		}}
	}

	if strings.IndexByte(entry.Value, 0) >= 0 {
		return Entry{}, Errors{&ShapeError{
			Key:    valueKey(name, raw),
			Reason: "value contains a NUL byte",
		}}
	}

	return entry, nil
}

// checkName reports names that cannot be placed in a process environment.
func checkName(name string) Errors {
	switch {
	case name == "":
		return Errors{&ShapeError{
			Key:    KeyPath(name),
			Reason: "variable name is empty",
		}}

	case strings.ContainsAny(name, "=\x00"):
		return Errors{&ShapeError{
			Key:    KeyPath(name),
			Reason: "variable name contains '=' or a NUL byte",
		}}
	}

	return nil
}

// parseTable fills entry from the table form, collecting every problem.
func parseTable(entry *Entry, table map[string]any) Errors {
	var errs Errors

	for key, val := range table {
		var err error

		switch key {
		case FieldValue:
			s, ok := val.(string)
			if !ok {
				err = wrongType(entry.Name, key, "a string", val)
			}

			entry.Value = s

		case FieldForce:
			entry.Force, err = parseFlag(entry.Name, key, val)

		case FieldRelative:
			entry.Relative, err = parseFlag(entry.Name, key, val)

		case FieldInSubcommands:
			entry.InSubcommands, err = parseFlag(entry.Name, key, val)

		default:
			err = unknownField(entry.Name, key)
		}

		if err != nil {
			errs = append(errs, err)
		}
	}

	if _, ok := table[FieldValue]; !ok {
		errs = append(errs, &ShapeError{
			Key:    KeyPath(entry.Name),
			Reason: "missing field `" + FieldValue + "`",
		})
	}

	return errs
}

func parseFlag(name, field string, val any) (bool, error) {
	b, ok := val.(bool)
	if !ok {
		return false, wrongType(name, field, "a boolean", val)
	}

	return b, nil
}

func wrongType(name, field, want string, got any) *ShapeError {
	return &ShapeError{
		Key:    KeyPath(name, field),
		Reason: fmt.Sprintf("expected %s, but found %s", want, describe(got)),
	}
}

func unknownField(name, field string) *ShapeError {
	quoted := make([]string, 0, len(Fields()))
	for _, f := range Fields() {
		quoted = append(quoted, "`"+f+"`")
	}

	reason := fmt.Sprintf(
		"unknown field `%s`, expected one of %s",
		field, strings.Join(quoted, ", "),
	)

	if hint, ok := suggestField(field); ok {
		reason += fmt.Sprintf(" (did you mean `%s`?)", hint)
	}

	return &ShapeError{Key: KeyPath(name, field), Reason: reason}
}

// valueKey returns the key path to report a problem with the value of an
// entry declared with the given raw form.
func valueKey(name string, raw any) string {
	if _, ok := raw.(map[string]any); ok {
		return KeyPath(name, FieldValue)
	}

	return KeyPath(name)
}

// describe names the configuration type of a decoded raw value.
func describe(v any) string {
	switch v := v.(type) {
	case nil:
		return "null"
	case bool:
		return fmt.Sprintf("boolean `%t`", v)
	case string:
		return fmt.Sprintf("string %q", v)
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return fmt.Sprintf("number `%v`", v)
	case []any:
		return "an array"
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}

		slices.Sort(keys)

		return "a table {" + strings.Join(keys, ", ") + "}"
	default:
		return fmt.Sprintf("a value of type %T", v)
	}
}
