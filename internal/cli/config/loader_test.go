package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())
	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultContractFile, cfg.ContractPath)
	assert.Equal(t, DefaultOutput, cfg.OutputFormat)
	assert.False(t, cfg.Verbose)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tablecheck.yaml")
	require.NoError(t, os.WriteFile(path, []byte("contract: plants.yaml\nmax_rows: 20\n"), 0o644))
	chdir(t, dir)

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "plants.yaml", cfg.ContractPath)
	assert.Equal(t, 20, cfg.MaxRows)
	assert.Equal(t, "tablecheck.yaml", ConfigFileUsed())
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tablecheck.yaml"), []byte("output: json\n"), 0o644))
	chdir(t, dir)
	t.Setenv("TABLECHECK_OUTPUT", "markdown")

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "markdown", cfg.OutputFormat)
}

func TestLoad_FlagsWinOverEnv(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("TABLECHECK_SCHEMA", "from-env")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("schema", "", "")
	flags.Int("max-rows", 0, "")
	require.NoError(t, flags.Parse([]string{"--schema", "from-flag", "--max-rows", "5"}))

	cfg, err := Load("", flags)
	require.NoError(t, err)
	assert.Equal(t, "from-flag", cfg.Schema)
	// kebab-case flags land on snake_case config keys
	assert.Equal(t, 5, cfg.MaxRows)
}

func TestLoad_UnchangedFlagsDoNotOverride(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("TABLECHECK_SCHEMA", "from-env")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("schema", "", "")
	require.NoError(t, flags.Parse(nil))

	cfg, err := Load("", flags)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Schema)
}
