package layer

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardnew/envtab/envcfg"
	"github.com/ardnew/envtab/log"
)

func writeFile(t *testing.T, path, content string) string {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

func TestDecode(t *testing.T) {
	ly, err := Decode(t.Context(), "/proj/.envtab.yaml", []byte(`
env:
  ENV_TEST_1233: Hello
  ENV_TEST_FORCED: { value: from-config, force: true }
  ENV_TEST_BOOL: false
  ENV_TEST_NESTED:
    value: x
    relative: true
options:
  log-level: debug
`))
	require.NoError(t, err)

	assert.Equal(t, "/proj", ly.Dir)
	assert.Equal(t, "Hello", ly.Env["ENV_TEST_1233"])
	assert.Equal(t, false, ly.Env["ENV_TEST_BOOL"])
	assert.Equal(t,
		map[string]any{"value": "from-config", "force": true},
		ly.Env["ENV_TEST_FORCED"],
	)
	assert.Equal(t,
		map[string]any{"value": "x", "relative": true},
		ly.Env["ENV_TEST_NESTED"],
	)
}

func TestDecodeWithoutEnv(t *testing.T) {
	for _, doc := range []string{"", "options: {}\n", "env:\n"} {
		ly, err := Decode(t.Context(), "/p/.envtab.yaml", []byte(doc))
		require.NoError(t, err, "document %q", doc)
		assert.Nil(t, ly.Env)
	}
}

func TestDecodeErrors(t *testing.T) {
	for _, doc := range []string{
		"env: 5\n",
		"env: [a, b]\n",
		"env: {\n",
	} {
		_, err := Decode(t.Context(), "/p/.envtab.yaml", []byte(doc))
		assert.ErrorIs(t, err, ErrLayerShape, "document %q", doc)
	}
}

func TestReadMissing(t *testing.T) {
	_, err := Read(t.Context(), filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, ErrLayerRead)
}

func TestMerge(t *testing.T) {
	outer := Layer{
		Path: "/a/.envtab.yaml",
		Dir:  "/a",
		Env: map[string]any{
			"SHARED": map[string]any{"value": "outer", "force": true},
			"OUTER":  "o",
		},
	}
	inner := Layer{
		Path: "/a/b/.envtab.yaml",
		Dir:  "/a/b",
		Env: map[string]any{
			"SHARED": "inner",
			"INNER":  "i",
		},
	}

	m := Merge(outer, inner)

	assert.Equal(t, "inner", m.Raw["SHARED"], "inner layer replaces the whole declaration")
	assert.Equal(t, "/a/b", m.Origins["SHARED"])
	assert.Equal(t, "/a", m.Origins["OUTER"])
	assert.Equal(t, "/a/b", m.Origins["INNER"])
	assert.Equal(t, []string{outer.Path, inner.Path}, m.Files)
}

func TestDiscoverAndLoad(t *testing.T) {
	root := t.TempDir()
	user := writeFile(t, filepath.Join(root, "user", "config.yaml"), `
env:
  FROM_USER: u
  SHARED: user
`)
	writeFile(t, filepath.Join(root, "proj", FileName), `
env:
  SHARED: proj
  DATA: { value: data, relative: true }
`)
	writeFile(t, filepath.Join(root, "proj", "sub", AltFileName), `
env:
  SHARED: sub
`)

	start := filepath.Join(root, "proj", "sub", "deeper")
	require.NoError(t, os.MkdirAll(start, 0o755))

	paths, err := Discover(t.Context(), start, user)
	require.NoError(t, err)
	require.Len(t, paths, 3)
	assert.Equal(t, user, paths[0])
	assert.Equal(t, filepath.Join(root, "proj", FileName), paths[1])
	assert.Equal(t, filepath.Join(root, "proj", "sub", AltFileName), paths[2])

	m, err := Load(t.Context(), paths...)
	require.NoError(t, err)

	assert.Equal(t, "sub", m.Raw["SHARED"])
	assert.Equal(t, "u", m.Raw["FROM_USER"])

	tab, err := envcfg.Resolve(m.Raw, envcfg.WithOrigins(m.Origins))
	require.NoError(t, err)

	tab = tab.ResolvePaths(start)
	assert.Equal(t, filepath.Join(root, "proj", "data"), tab["DATA"].Value)
}

func TestDiscoverPrefersYAML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, FileName), "env: {}\n")
	writeFile(t, filepath.Join(dir, AltFileName), "env: {}\n")

	var logged bytes.Buffer

	log.Config(log.WithOutput(&logged), log.WithLevel(log.LevelWarn))
	t.Cleanup(func() { log.Config(log.WithOutput(os.Stderr), log.WithLevel(log.DefaultLevel)) })

	paths, err := Discover(t.Context(), dir, "")
	require.NoError(t, err)
	assert.Contains(t, paths, filepath.Join(dir, FileName))
	assert.NotContains(t, paths, filepath.Join(dir, AltFileName))
	assert.Contains(t, logged.String(), "configuration file ignored")
	assert.Contains(t, logged.String(), filepath.Join(dir, AltFileName))
}

func TestDiscoverSkipsMissingUser(t *testing.T) {
	dir := t.TempDir()

	paths, err := Discover(t.Context(), dir, filepath.Join(dir, "missing.yaml"))
	require.NoError(t, err)
	assert.NotContains(t, paths, filepath.Join(dir, "missing.yaml"))
}

func TestLoadCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, err := Load(ctx, "irrelevant")
	assert.ErrorIs(t, err, context.Canceled)
}
