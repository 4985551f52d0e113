package commands

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tablecraft/contract/internal/cli/config"
)

const testContract = `
name: energy-data
version: 1.0.0
schemas:
  - name: plants
    fields:
      - name: id
        type: integer
        constraints:
          required: true
      - name: status
        type: enum
        constraints:
          enum: [active, retired]
    primaryKey: id
`

func writeContract(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "contract.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testContract), 0o644))
	return path
}

func testConfig(contractPath string) func() *config.Config {
	return func() *config.Config {
		return &config.Config{ContractPath: contractPath, OutputFormat: "table"}
	}
}

func TestValidateCommand_CleanData(t *testing.T) {
	contractPath := writeContract(t)
	dataPath := filepath.Join(t.TempDir(), "data.json")
	require.NoError(t, os.WriteFile(dataPath, []byte(`[{"id": 1, "status": "active"}]`), 0o644))

	cmd := NewValidateCommand(testConfig(contractPath))
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetArgs([]string{dataPath})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "no violations")
}

func TestValidateCommand_Violations(t *testing.T) {
	contractPath := writeContract(t)
	dataPath := filepath.Join(t.TempDir(), "data.json")
	require.NoError(t, os.WriteFile(dataPath,
		[]byte(`[{"id": 1, "status": "melted"}, {"id": 1}]`), 0o644))

	cmd := NewValidateCommand(testConfig(contractPath))
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetArgs([]string{dataPath})

	err := cmd.Execute()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidData))
	assert.Contains(t, out.String(), "constraint_violation")
	assert.Contains(t, out.String(), "duplicate_primary_key")
}

func TestValidateCommand_UnknownSchema(t *testing.T) {
	contractPath := writeContract(t)
	cfg := func() *config.Config {
		return &config.Config{ContractPath: contractPath, Schema: "ghost"}
	}
	cmd := NewValidateCommand(cfg)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"irrelevant.json"})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ghost")
}

func TestInspectCommand(t *testing.T) {
	contractPath := writeContract(t)
	cmd := NewInspectCommand(testConfig(contractPath))
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "energy-data v1.0.0")
	assert.Contains(t, out.String(), "primary key: id")
	assert.Contains(t, out.String(), "status")
}

func TestExportCommand(t *testing.T) {
	contractPath := writeContract(t)
	cmd := NewExportCommand(testConfig(contractPath))
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), `"primaryKey": "id"`)
	assert.Contains(t, out.String(), `"name": "energy-data"`)
}
