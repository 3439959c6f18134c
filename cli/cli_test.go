package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"

	"github.com/ardnew/envtab/cli/cmd"
	"github.com/ardnew/envtab/envcfg"
)

type result struct {
	stdout, stderr bytes.Buffer
	err            error
}

// invoke runs the CLI with the user configuration file at user and captures
// its output.
func invoke(t *testing.T, user string, args ...string) *result {
	t.Helper()

	var res result

	exit := func(code int) { t.Fatalf("unexpected exit with code %d", code) }
	res.err = run(t.Context(), exit, user,
		[]kong.Option{kong.Writers(&res.stdout, &res.stderr)}, args)

	return &res
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestRun_Show(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".envtab.yaml"), `
env:
  ENVTAB_CLI_GREETING: hello
  ENVTAB_CLI_DATA: { value: data, relative: true }
  ENVTAB_CLI_SUB: { value: sub, in_subcommands: true }
`)

	res := invoke(t, filepath.Join(dir, "none.yaml"), "--dir", dir, "show")
	if res.err != nil {
		t.Fatalf("show failed: %v", res.err)
	}

	want := strings.Join([]string{
		"ENVTAB_CLI_DATA=" + filepath.Join(dir, "data"),
		"ENVTAB_CLI_GREETING=hello",
		"ENVTAB_CLI_SUB=sub",
	}, "\n") + "\n"

	if got := res.stdout.String(); got != want {
		t.Errorf("expected:\n%s\ngot:\n%s", want, got)
	}

	res = invoke(t, filepath.Join(dir, "none.yaml"),
		"--dir", dir, "show", "--context", "subcommand")
	if res.err != nil {
		t.Fatalf("show failed: %v", res.err)
	}

	if got := res.stdout.String(); got != "ENVTAB_CLI_SUB=sub\n" {
		t.Errorf("expected only the subcommand entry, got %q", got)
	}

	res = invoke(t, filepath.Join(dir, "none.yaml"),
		"--dir", dir, "show", "--where", `name endsWith "GREETING"`, "-o", "json")
	if res.err != nil {
		t.Fatalf("show failed: %v", res.err)
	}

	if got := res.stdout.String(); !strings.Contains(got, `"ENVTAB_CLI_GREETING": "hello"`) ||
		strings.Contains(got, "ENVTAB_CLI_SUB") {
		t.Errorf("expected filtered JSON output, got %q", got)
	}
}

func TestRun_ShowBadFilter(t *testing.T) {
	dir := t.TempDir()

	res := invoke(t, filepath.Join(dir, "none.yaml"),
		"--dir", dir, "show", "--where", "name +")
	if !errors.Is(res.err, envcfg.ErrFilter) {
		t.Errorf("expected filter error, got %v", res.err)
	}
}

func TestRun_CheckUsesUserOptions(t *testing.T) {
	dir := t.TempDir()
	user := filepath.Join(dir, "user", "config.yaml")

	writeFile(t, user, `
options:
  protected-prefix: MY_
env:
  MY_OUTER: nope
`)
	writeFile(t, filepath.Join(dir, "proj", ".envtab.yaml"), `
env:
  MY_INNER: nope
  CARGO_HOME: nope
  BROKEN: { force: true }
`)

	res := invoke(t, user, "--dir", filepath.Join(dir, "proj"), "check")
	if !errors.Is(res.err, cmd.ErrCheck) {
		t.Fatalf("expected check failure, got %v", res.err)
	}

	lines := strings.Split(strings.TrimSpace(res.stderr.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 errors, got %d:\n%s", len(lines), res.stderr.String())
	}

	if !strings.Contains(lines[0], "env.BROKEN") ||
		!strings.Contains(lines[1], "env.CARGO_HOME") ||
		!strings.Contains(lines[2], "env.MY_INNER") ||
		!strings.Contains(lines[3], "env.MY_OUTER") {
		t.Errorf("expected errors sorted by key, got:\n%s", res.stderr.String())
	}
}

func TestRun_CheckAlwaysReservesCargoPrefix(t *testing.T) {
	dir := t.TempDir()
	user := filepath.Join(dir, "none.yaml")
	writeFile(t, filepath.Join(dir, ".envtab.yaml"), "env:\n  CARGO_HOME: /dev/null\n")

	for _, flags := range [][]string{
		nil,
		{"--protected-prefix="},
		{"--protected-prefix", "MY_"},
		{"--protected-prefix", "TOOL_,MY_"},
	} {
		args := append(append([]string{"--dir", dir}, flags...), "check")

		res := invoke(t, user, args...)
		if !errors.Is(res.err, cmd.ErrCheck) {
			t.Errorf("%v: expected check failure, got %v", flags, res.err)

			continue
		}

		if !strings.Contains(res.stderr.String(),
			"setting CARGO_ variables from [env] is not allowed") {
			t.Errorf("%v: expected protected error, got:\n%s", flags, res.stderr.String())
		}
	}

	res := invoke(t, user, "--dir", dir, "--protected-prefix", "TOOL_,,MY_", "check")
	if !errors.Is(res.err, cmd.ErrInvalidOption) {
		t.Errorf("expected invalid option error, got %v", res.err)
	}
}

func TestRun_CheckOK(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".envtab.yaml"), "env:\n  A: b\n")

	res := invoke(t, filepath.Join(dir, "none.yaml"), "-C", dir, "check", "-l")
	if res.err != nil {
		t.Fatalf("check failed: %v", res.err)
	}

	out := res.stdout.String()
	if !strings.Contains(out, filepath.Join(dir, ".envtab.yaml")) ||
		!strings.Contains(out, "ok: 1 entry in 1 file") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestRun_Init(t *testing.T) {
	dir := t.TempDir()
	user := filepath.Join(dir, "cfg", "config.yaml")

	res := invoke(t, user, "--log-level", "warn", "--protected-prefix", "TOOL_", "--dir", dir, "init")
	if res.err != nil {
		t.Fatalf("init failed: %v", res.err)
	}

	data, err := os.ReadFile(user)
	if err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{"options:", "log-level: warn", "protected-prefix:", "- TOOL_", "env: {}"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("expected %q in:\n%s", want, data)
		}
	}

	if strings.Contains(string(data), "dir:") {
		t.Errorf("expected no dir option in:\n%s", data)
	}

	res = invoke(t, user, "--dir", dir, "init")
	if !errors.Is(res.err, cmd.ErrWriteConfig) || !errors.Is(res.err, cmd.ErrFileExists) {
		t.Errorf("expected file exists error, got %v", res.err)
	}

	// The written file is read back as options on the next run.
	res = invoke(t, user, "--dir", dir, "init", "--force")
	if res.err != nil {
		t.Fatalf("init --force failed: %v", res.err)
	}

	data, err = os.ReadFile(user)
	if err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(string(data), "log-level: warn") {
		t.Errorf("expected persisted log level in:\n%s", data)
	}
}
