package envcfg

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/goccy/go-yaml"
)

// Format selects the textual representation of a [Composition].
type Format int

const (
	FormatEnv   Format = iota // env
	FormatYAML                // yaml
	FormatJSON                // json
	FormatTable               // table
)

var formatName = [...]string{
	FormatEnv:   "env",
	FormatYAML:  "yaml",
	FormatJSON:  "json",
	FormatTable: "table",
}

// String returns the command-line name of the format.
func (f Format) String() string {
	if f < 0 || int(f) >= len(formatName) {
		return "unknown"
	}

	return formatName[f]
}

// Formats returns the command-line names of all formats.
func Formats() []string {
	return slices.Clone(formatName[:])
}

// ParseFormat parses a format name. Unknown names yield [FormatEnv] and false.
func ParseFormat(s string) (Format, bool) {
	i := slices.Index(formatName[:], strings.ToLower(strings.TrimSpace(s)))
	if i < 0 {
		return FormatEnv, false
	}

	return Format(i), true
}

// Write renders the composition to w.
//
// Only the declared candidate variables are written unless all is set, in
// which case the complete process environment is written. The table format
// always lists candidate entries with their flags and the source of their
// final value.
func (c Composition) Write(
	ctx context.Context,
	w io.Writer,
	format Format,
	all bool,
) error {
	vars := c.Declared()
	if all {
		vars = c.Vars
	}

	switch format {
	case FormatEnv:
		for _, kv := range ToEnviron(vars) {
			if _, err := fmt.Fprintln(w, kv); err != nil {
				return err
			}
		}

		return nil

	case FormatYAML:
		if len(vars) == 0 {
			_, err := fmt.Fprintln(w, "{}")

			return err
		}

		data, err := yaml.MarshalContext(ctx, sortedMapSlice(vars))
		if err != nil {
			return err
		}

		_, err = w.Write(data)

		return err

	case FormatJSON:
		data, err := json.MarshalIndent(vars, "", "  ")
		if err != nil {
			return err
		}

		_, err = fmt.Fprintln(w, string(data))

		return err

	case FormatTable:
		_, err := fmt.Fprintln(w, c.table().Render())

		return err

	default:
		return fmt.Errorf("unsupported format %d", int(format))
	}
}

// WriteConstants renders the compile-time constants of the composition to w
// as YAML or JSON.
func (c Composition) WriteConstants(
	ctx context.Context,
	w io.Writer,
	format Format,
) error {
	comp := Composition{Vars: c.Constants}
	for _, name := range slices.Sorted(maps.Keys(c.Constants)) {
		comp.Applied = append(comp.Applied, Applied{
			Entry: Entry{Name: name},
			Value: c.Constants[name],
		})
	}

	return comp.Write(ctx, w, format, false)
}

func sortedMapSlice(vars map[string]string) yaml.MapSlice {
	out := make(yaml.MapSlice, 0, len(vars))

	for _, key := range slices.Sorted(maps.Keys(vars)) {
		out = append(out, yaml.MapItem{Key: key, Value: vars[key]})
	}

	return out
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	dimStyle    = cellStyle.Faint(true)
)

func (c Composition) table() *table.Table {
	rows := make([][]string, 0, len(c.Applied))

	for _, a := range c.Applied {
		rows = append(rows, []string{
			a.Entry.Name,
			a.Value,
			a.Source.String(),
			strconv.FormatBool(a.Entry.Force),
			strconv.FormatBool(a.Entry.Relative),
			strconv.FormatBool(a.Entry.InSubcommands),
		})
	}

	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers("NAME", "VALUE", "SOURCE", "FORCE", "RELATIVE", "SUBCOMMANDS").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 2 && row >= 0 && row < len(rows) &&
				rows[row][col] == SourceAmbient.String():
				return dimStyle
			default:
				return cellStyle
			}
		})
}
