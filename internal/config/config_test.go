package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"ownership/internal/diag"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
[run]
lessons = [3, 1]

[output]
timings = true

[trace]
level = "detail"
`)
	bag := diag.NewBag(10)
	cfg, err := Load(path, diag.BagReporter{Bag: bag})
	require.NoError(t, err)
	require.Zero(t, bag.Len())

	require.Equal(t, path, cfg.Path)
	require.Equal(t, []int{3, 1}, cfg.Run.Lessons)
	require.True(t, cfg.Output.Timings)
	require.Equal(t, "auto", cfg.Output.Color)
	require.Equal(t, "detail", cfg.Trace.Level)
	require.Equal(t, "text", cfg.Trace.Format)
	require.Equal(t, "pretty", cfg.Explain.Format)
}

func TestLoadWarnsOnUnknownKeys(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
[trace]
lvl = "debug"
`)
	bag := diag.NewBag(10)
	_, err := Load(path, diag.BagReporter{Bag: bag})
	require.NoError(t, err)
	require.Equal(t, 1, bag.Len())

	d := bag.Items()[0]
	require.Equal(t, diag.CfgUnknownKey, d.Code)
	require.Equal(t, diag.SevWarning, d.Severity)
	require.Equal(t, "trace.lvl", d.Primary.Label)
	require.False(t, bag.HasErrors())
}

func TestLoadRejectsBadValues(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
[run]
lessons = [5]

[output]
color = "sometimes"
`)
	bag := diag.NewBag(10)
	_, err := Load(path, diag.BagReporter{Bag: bag})
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrInvalid))
	require.Equal(t, 2, bag.Len())
	for _, d := range bag.Items() {
		require.Equal(t, diag.CfgBadValue, d.Code)
	}
}

func TestLoadReportsParseErrorLine(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "[run]\nlessons = [1,\n")
	bag := diag.NewBag(10)
	_, err := Load(path, diag.BagReporter{Bag: bag})
	require.ErrorContains(t, err, "failed to parse TOML")
	require.Equal(t, 1, bag.Len())
	require.Equal(t, diag.CfgParse, bag.Items()[0].Code)
	require.NotZero(t, bag.Items()[0].Primary.Step)
}

func TestLoadNilReporter(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "[explain]\nmax = 2\nextra = 1\n")
	cfg, err := Load(path, nil)
	require.NoError(t, err)
	require.Equal(t, 2, cfg.Explain.Max)
}

func TestFindWalksUp(t *testing.T) {
	root := t.TempDir()
	want := writeConfig(t, root, "")
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	got, ok, err := Find(nested)
	require.NoError(t, err)
	require.True(t, ok)
	wantAbs, err := filepath.Abs(want)
	require.NoError(t, err)
	require.Equal(t, wantAbs, got)
}

func TestValidateDefault(t *testing.T) {
	require.Empty(t, Default().Validate())
}
