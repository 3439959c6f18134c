package layer

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/envtab/envcfg"
	"github.com/ardnew/envtab/log"
)

// File names recognized during discovery, in order of preference.
const (
	FileName    = ".envtab.yaml"
	AltFileName = ".envtab.yml"
)

// OptionsKey is the top-level key holding command-line option defaults.
const OptionsKey = "options"

// Predefined errors (sentinel values).
var (
	ErrLayerRead  = envcfg.NewError("read configuration layer")
	ErrLayerShape = envcfg.NewError("invalid configuration layer")
)

// Layer is one configuration file.
type Layer struct {
	// Path is the file the layer was read from.
	Path string
	// Dir is the absolute directory containing Path. Relative entries
	// declared in this layer resolve against it.
	Dir string
	// Env is the raw env table of the layer, or nil when absent.
	Env map[string]any
}

// Read reads and decodes the configuration file at path.
func Read(ctx context.Context, path string) (Layer, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return Layer{}, ErrLayerRead.With(slog.String("file", path)).Wrap(err)
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		return Layer{}, ErrLayerRead.With(slog.String("file", abs)).Wrap(err)
	}

	return Decode(ctx, abs, data)
}

// Decode decodes the YAML document data as the layer stored at path.
func Decode(ctx context.Context, path string, data []byte) (Layer, error) {
	ly := Layer{Path: path, Dir: filepath.Dir(path)}

	var doc map[string]any

	err := yaml.UnmarshalContext(ctx, data, &doc)
	if err != nil {
		return Layer{}, ErrLayerShape.With(slog.String("file", path)).Wrap(err)
	}

	raw, ok := doc[envcfg.TableKey]
	if !ok || raw == nil {
		return ly, nil
	}

	env, ok := normalize(raw).(map[string]any)
	if !ok {
		return Layer{}, ErrLayerShape.
			With(slog.String("file", path)).
			Wrap(fmt.Errorf("key `%s` must be a table", envcfg.TableKey))
	}

	ly.Env = env

	return ly, nil
}

// Merged is the result of merging layers.
type Merged struct {
	// Raw maps each declared name to the raw value of its last declaration.
	Raw map[string]any
	// Origins maps each declared name to the directory of the layer that
	// won.
	Origins map[string]string
	// Files lists the merged layer files, outermost first.
	Files []string
}

// Merge merges layers in order: a name declared by a later layer replaces any
// earlier declaration entirely. Tables are never merged field by field.
func Merge(layers ...Layer) Merged {
	m := Merged{
		Raw:     make(map[string]any),
		Origins: make(map[string]string),
	}

	for _, ly := range layers {
		m.Files = append(m.Files, ly.Path)

		for name, raw := range ly.Env {
			m.Raw[name] = raw
			m.Origins[name] = ly.Dir
		}
	}

	return m
}

// Load reads the files at paths and merges them in order.
func Load(ctx context.Context, paths ...string) (Merged, error) {
	layers := make([]Layer, 0, len(paths))

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return Merged{}, err
		}

		ly, err := Read(ctx, path)
		if err != nil {
			return Merged{}, err
		}

		log.DebugContext(ctx, "loaded configuration layer",
			slog.String("file", ly.Path),
			slog.Int("entries", len(ly.Env)),
		)

		layers = append(layers, ly)
	}

	return Merge(layers...), nil
}

// Discover returns the configuration files that apply to the directory
// start, outermost first: the user configuration file (if it exists), then
// one file per ancestor directory of start from the filesystem root down to
// start itself. A directory holding both [FileName] and [AltFileName]
// contributes only [FileName], and a warning is logged.
func Discover(ctx context.Context, start, user string) ([]string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return nil, err
	}

	var found []string

	for {
		if path, ok := lookup(ctx, dir); ok {
			found = append(found, path)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}

		dir = parent
	}

	paths := make([]string, 0, len(found)+1)

	if user != "" && exists(user) {
		paths = append(paths, user)
	}

	for i := len(found) - 1; i >= 0; i-- {
		if len(paths) > 0 && sameFile(paths[0], found[i]) {
			continue
		}

		paths = append(paths, found[i])
	}

	return paths, nil
}

func lookup(ctx context.Context, dir string) (string, bool) {
	path := filepath.Join(dir, FileName)
	alt := filepath.Join(dir, AltFileName)

	switch {
	case exists(path):
		if exists(alt) {
			log.WarnContext(ctx, "configuration file ignored",
				slog.String("file", alt),
				slog.String("using", path),
			)
		}

		return path, true

	case exists(alt):
		return alt, true

	default:
		return "", false
	}
}

func exists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}

	return info.Mode().IsRegular()
}

func sameFile(a, b string) bool {
	ai, err := os.Stat(a)
	if err != nil {
		return false
	}

	bi, err := os.Stat(b)
	if err != nil {
		return false
	}

	return os.SameFile(ai, bi)
}

// normalize converts decoded YAML values so that every mapping is a
// map[string]any.
func normalize(v any) any {
	switch v := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, x := range v {
			out[k] = normalize(x)
		}

		return out

	case map[any]any:
		out := make(map[string]any, len(v))
		for k, x := range v {
			out[fmt.Sprint(k)] = normalize(x)
		}

		return out

	case []any:
		out := make([]any, len(v))
		for i, x := range v {
			out[i] = normalize(x)
		}

		return out

	default:
		return v
	}
}
