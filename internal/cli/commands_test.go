package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/ospsys/internal/compiler"
	"github.com/roach88/ospsys/internal/structure"
)

const (
	vehicleCUE  = "../compiler/testdata/vehicle.cue"
	vehicleYAML = "../compiler/testdata/vehicle.yaml"
	vehicleJSON = "../compiler/testdata/vehicle.json"
)

// executeCommand runs the root command with args and returns what it wrote.
func executeCommand(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCommand()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(t.Context())
	return stdout.String(), stderr.String(), err
}

// writeTestDocument writes a document into a temporary directory.
func writeTestDocument(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func vehicleFingerprint(t *testing.T) string {
	t.Helper()
	s, err := compiler.LoadFile(vehicleCUE)
	require.NoError(t, err)
	fp, err := structure.Fingerprint(s)
	require.NoError(t, err)
	return fp
}

const lintFailingYAML = `OspSystemStructure:
  BaseStepSize: 0
  Simulators:
    Simulator:
      "@name": a
      "@source": a.fmu
      "@stepSize": -1
`

const unknownSimulatorYAML = `OspSystemStructure:
  Simulators:
    Simulator:
      "@name": a
      "@source": a.fmu
  Connections:
    VariableConnection:
      Variable:
        - "@simulator": a
          "@name": x
        - "@simulator": ghost
          "@name": x
`

func TestValidateCommand(t *testing.T) {
	for _, path := range []string{vehicleCUE, vehicleYAML, vehicleJSON} {
		t.Run(filepath.Ext(path), func(t *testing.T) {
			stdout, _, err := executeCommand(t, "validate", path)
			require.NoError(t, err)
			assert.Contains(t, stdout, "✓")
			assert.Contains(t, stdout, "(2 simulators, 1 functions, 2 connections)")
		})
	}
}

func TestValidateCommandJSON(t *testing.T) {
	stdout, _, err := executeCommand(t, "--format", "json", "validate", vehicleYAML)
	require.NoError(t, err)

	var resp struct {
		Status string           `json:"status"`
		Data   ValidationResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, resp.Data.Valid)
	assert.Equal(t, vehicleFingerprint(t), resp.Data.Fingerprint)
	assert.Equal(t, 2, resp.Data.Simulators)
	assert.Equal(t, 1, resp.Data.Functions)
	assert.Equal(t, 2, resp.Data.Connections)
}

func TestValidateCommandLintFindings(t *testing.T) {
	path := writeTestDocument(t, "bad.yaml", lintFailingYAML)

	stdout, _, err := executeCommand(t, "validate", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, stdout, "✗ Validation failed")
	assert.Contains(t, stdout, compiler.ErrBaseStepSizeNotPositive)
	assert.Contains(t, stdout, compiler.ErrStepSizeNotPositive)
	assert.Contains(t, stdout, "Simulators.Simulator[0].@stepSize")
}

func TestValidateCommandLintFindingsJSON(t *testing.T) {
	path := writeTestDocument(t, "bad.yaml", lintFailingYAML)

	stdout, _, err := executeCommand(t, "--format", "json", "validate", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp struct {
		Status string           `json:"status"`
		Data   ValidationResult `json:"data"`
		Error  CLIError         `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.False(t, resp.Data.Valid)
	assert.Empty(t, resp.Data.Fingerprint)
	require.Len(t, resp.Data.Errors, 2)
	assert.Equal(t, resp.Data.Errors[0].Code, resp.Error.Code)
}

func TestValidateCommandBuildError(t *testing.T) {
	path := writeTestDocument(t, "ghost.yaml", unknownSimulatorYAML)

	stdout, _, err := executeCommand(t, "--format", "json", "validate", path)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeLoadFailed, resp.Error.Code)
	assert.Equal(t, map[string]any{
		"kind": string(structure.CodeUnknownComponent),
		"name": "ghost",
	}, resp.Error.Details)
}

func TestValidateCommandMissingFile(t *testing.T) {
	stdout, _, err := executeCommand(t, "validate", filepath.Join(t.TempDir(), "missing.cue"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, stdout, "Error [E005]")
}

func TestValidateCommandCUEPosition(t *testing.T) {
	path := writeTestDocument(t, "conflict.cue", `OspSystemStructure: {
	BaseStepSize: 0.01
	BaseStepSize: 0.02
}
`)

	stdout, _, err := executeCommand(t, "--format", "json", "validate", path)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeLoadFailed, resp.Error.Code)
	details, ok := resp.Error.Details.(map[string]any)
	require.True(t, ok, "details should carry the CUE position")
	assert.Contains(t, details, "line")
}

func TestFingerprintCommand(t *testing.T) {
	want := vehicleFingerprint(t)

	for _, path := range []string{vehicleCUE, vehicleYAML, vehicleJSON} {
		t.Run(filepath.Ext(path), func(t *testing.T) {
			stdout, _, err := executeCommand(t, "fingerprint", path)
			require.NoError(t, err)
			assert.Equal(t, want+"\n", stdout)
		})
	}
}

func TestConvertCommandJSON(t *testing.T) {
	s, err := compiler.LoadFile(vehicleCUE)
	require.NoError(t, err)
	canonical, err := structure.MarshalCanonical(s.ToDict())
	require.NoError(t, err)

	stdout, _, err := executeCommand(t, "convert", vehicleYAML)
	require.NoError(t, err)
	assert.Equal(t, string(canonical)+"\n", stdout)
}

func TestConvertCommandIndentJSON(t *testing.T) {
	stdout, _, err := executeCommand(t, "--indent", "convert", vehicleCUE)
	require.NoError(t, err)
	assert.Contains(t, stdout, "\n  \"@version\": \"0.1\",\n")
}

func TestConvertCommandYAMLRoundTrip(t *testing.T) {
	stdout, _, err := executeCommand(t, "convert", vehicleJSON, "--to", "yaml")
	require.NoError(t, err)

	doc, err := compiler.DecodeYAML([]byte(stdout))
	require.NoError(t, err)
	s, err := compiler.Build(doc)
	require.NoError(t, err)
	fp, err := structure.Fingerprint(s)
	require.NoError(t, err)
	assert.Equal(t, vehicleFingerprint(t), fp)
}

func TestConvertCommandOutputFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "vehicle.json")

	stdout, _, err := executeCommand(t, "convert", vehicleCUE, "-o", out)
	require.NoError(t, err)
	assert.Contains(t, stdout, "✓ Wrote "+out)

	s, err := compiler.LoadFile(out)
	require.NoError(t, err)
	fp, err := structure.Fingerprint(s)
	require.NoError(t, err)
	assert.Equal(t, vehicleFingerprint(t), fp)
}

func TestConvertCommandJSONEnvelope(t *testing.T) {
	stdout, _, err := executeCommand(t, "--format", "json", "convert", vehicleCUE)
	require.NoError(t, err)

	var resp struct {
		Status string `json:"status"`
		Data   struct {
			To       string         `json:"to"`
			Document map[string]any `json:"document"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "json", resp.Data.To)
	assert.Equal(t, "fixedStep", resp.Data.Document["Algorithm"])
}

func TestConvertCommandInvalidTarget(t *testing.T) {
	stdout, _, err := executeCommand(t, "convert", vehicleCUE, "--to", "xml")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, stdout, `invalid --to "xml"`)
}

func TestStoreCommands(t *testing.T) {
	db := filepath.Join(t.TempDir(), "catalog.db")
	want := vehicleFingerprint(t)

	stdout, _, err := executeCommand(t, "store", "--database", db, "save", vehicleCUE, "--name", "vehicle")
	require.NoError(t, err)
	assert.Equal(t, "✓ Saved vehicle (revision 1, "+want+")\n", stdout)

	// Same content from another format keeps the revision.
	stdout, _, err = executeCommand(t, "store", "--database", db, "save", vehicleYAML, "--name", "vehicle")
	require.NoError(t, err)
	assert.Contains(t, stdout, "revision 1")

	stdout, _, err = executeCommand(t, "store", "--database", db, "list")
	require.NoError(t, err)
	assert.Equal(t, "vehicle\t1\t"+want+"\n", stdout)

	stdout, _, err = executeCommand(t, "store", "--database", db, "load", "vehicle", "--to", "yaml")
	require.NoError(t, err)
	doc, err := compiler.DecodeYAML([]byte(stdout))
	require.NoError(t, err)
	s, err := compiler.Build(doc)
	require.NoError(t, err)
	fp, err := structure.Fingerprint(s)
	require.NoError(t, err)
	assert.Equal(t, want, fp)

	stdout, _, err = executeCommand(t, "store", "--database", db, "delete", "vehicle")
	require.NoError(t, err)
	assert.Equal(t, "✓ Deleted vehicle\n", stdout)

	stdout, _, err = executeCommand(t, "store", "--database", db, "list")
	require.NoError(t, err)
	assert.Equal(t, "No stored structures\n", stdout)
}

func TestStoreCommandsJSON(t *testing.T) {
	db := filepath.Join(t.TempDir(), "catalog.db")

	stdout, _, err := executeCommand(t, "--format", "json", "store", "--database", db, "save", vehicleJSON, "--name", "vehicle")
	require.NoError(t, err)

	var saved struct {
		Status string `json:"status"`
		Data   struct {
			ID          string `json:"id"`
			Name        string `json:"name"`
			Fingerprint string `json:"fingerprint"`
			Revision    int64  `json:"revision"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &saved))
	assert.Equal(t, "ok", saved.Status)
	assert.NotEmpty(t, saved.Data.ID)
	assert.Equal(t, "vehicle", saved.Data.Name)
	assert.Equal(t, vehicleFingerprint(t), saved.Data.Fingerprint)
	assert.Equal(t, int64(1), saved.Data.Revision)
}

func TestStoreCommandsNotFound(t *testing.T) {
	db := filepath.Join(t.TempDir(), "catalog.db")

	for _, args := range [][]string{
		{"store", "--database", db, "load", "missing"},
		{"store", "--database", db, "delete", "missing"},
	} {
		t.Run(args[3], func(t *testing.T) {
			stdout, _, err := executeCommand(t, args...)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
			assert.Contains(t, stdout, "Error [E005]")
		})
	}
}

func TestStoreDatabaseFromEnvironment(t *testing.T) {
	db := filepath.Join(t.TempDir(), "env.db")
	t.Setenv("OSPSYS_DATABASE", db)

	_, _, err := executeCommand(t, "store", "save", vehicleCUE, "--name", "vehicle")
	require.NoError(t, err)

	_, err = os.Stat(db)
	assert.NoError(t, err, "database should be created at OSPSYS_DATABASE")
}

func TestStoreSaveRequiresName(t *testing.T) {
	db := filepath.Join(t.TempDir(), "catalog.db")

	_, _, err := executeCommand(t, "store", "--database", db, "save", vehicleCUE)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `required flag(s) "name" not set`)
}

func TestVerboseLogsToStderr(t *testing.T) {
	stdout, stderr, err := executeCommand(t, "--verbose", "--format", "json", "fingerprint", vehicleCUE)
	require.NoError(t, err)
	assert.Contains(t, stderr, "Loading "+vehicleCUE)
	assert.Contains(t, stderr, "document loaded")

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "ok", resp.Status)
}
