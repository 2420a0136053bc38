package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modelcheck/internal/httpapi"
	"modelcheck/pkg/types"
)

const defaultSizeLines = "Model 1 size: 10\n" +
	"Model 2 size: 16\n" +
	"Model 3 size: 22\n" +
	"Tree 0 size: 3\n" +
	"Tree 1 size: 5\n" +
	"Tree 2 size: 7\n" +
	"Tree 3 size: 9\n"

func execute(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := Execute(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func writeTempFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestRun_DefaultRegistry(t *testing.T) {
	out := t.TempDir()
	code, stdout, stderr := execute(t, "run", "--output-dir", out)
	require.Equal(t, ExitOK, code, "stderr: %s", stderr)
	assert.Equal(t, defaultSizeLines, stdout)

	for _, prefix := range []string{"model_1", "model_2", "model_3", "tree_0", "tree_1", "tree_2", "tree_3"} {
		for _, ext := range []string{"xml", "json"} {
			fi, err := os.Stat(filepath.Join(out, prefix+"."+ext))
			require.NoError(t, err)
			assert.Positive(t, fi.Size())
		}
	}
	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	assert.Len(t, entries, 14)
}

func TestRun_Idempotent(t *testing.T) {
	out := t.TempDir()
	code, first, _ := execute(t, "run", "--output-dir", out)
	require.Equal(t, ExitOK, code)
	code, second, _ := execute(t, "run", "--output-dir", out)
	require.Equal(t, ExitOK, code)
	assert.Equal(t, first, second)
}

func TestRun_MissingOutputDirFails(t *testing.T) {
	out := filepath.Join(t.TempDir(), "nope")
	code, stdout, stderr := execute(t, "run", "--output-dir", out)
	assert.Equal(t, ExitFailure, code)
	// every size line precedes the first save attempt
	assert.Equal(t, defaultSizeLines, stdout)
	assert.Contains(t, stderr, "step failed")
}

func TestRun_UnknownKeyStopsSizePhase(t *testing.T) {
	dir := t.TempDir()
	cfg := writeTempFile(t, dir, "modelcheck.yaml", `
output_dir: `+dir+`
models:
  - key: "[1]"
    label: Model 1
    file_prefix: model_1
  - key: missing.json
    label: Missing
    file_prefix: missing
  - key: "[2]"
    label: Model 2
    file_prefix: model_2
`)
	code, stdout, stderr := execute(t, "--config", cfg, "run")
	assert.Equal(t, ExitFailure, code)
	assert.Equal(t, "Model 1 size: 10\n", stdout)
	assert.Contains(t, stderr, "missing.json")
	_, err := os.Stat(filepath.Join(dir, "model_1.xml"))
	assert.True(t, os.IsNotExist(err), "save phase must be skipped after a size failure")
}

func TestRun_ContinueOnError(t *testing.T) {
	dir := t.TempDir()
	cfg := writeTempFile(t, dir, "modelcheck.toml", `
output_dir = "`+filepath.ToSlash(dir)+`"
formats = ["json"]

[[models]]
key = "missing.json"
label = "Missing"
file_prefix = "missing"

[[models]]
key = "[tree_1]"
label = "Tree 1"
file_prefix = "tree_1"
`)
	code, stdout, _ := execute(t, "--config", cfg, "run", "--continue-on-error", "--json")
	assert.Equal(t, ExitFailure, code)
	require.True(t, strings.HasPrefix(stdout, "Tree 1 size: 5\n"), stdout)

	var rep types.RunReport
	require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(stdout, "Tree 1 size: 5\n")), &rep))
	assert.Equal(t, "failure", rep.Status)
	require.Len(t, rep.Failures, 2)
	assert.Equal(t, "size", rep.Failures[0].Phase)
	assert.Equal(t, "not_found", rep.Failures[0].Kind)
	assert.Equal(t, "save", rep.Failures[1].Phase)
	require.Len(t, rep.Saved, 1)
	assert.Equal(t, filepath.Join(dir, "tree_1.json"), rep.Saved[0].Path)
}

func TestRun_JSONReport(t *testing.T) {
	out := t.TempDir()
	code, stdout, _ := execute(t, "run", "--output-dir", out, "--format", "yaml", "--format", ".TOML", "--json")
	require.Equal(t, ExitOK, code)
	require.True(t, strings.HasPrefix(stdout, defaultSizeLines))

	var rep types.RunReport
	require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(stdout, defaultSizeLines)), &rep))
	assert.True(t, rep.OK())
	assert.Equal(t, []string{"yaml", "toml"}, rep.Formats)
	assert.Equal(t, 7, rep.Models)
	assert.Len(t, rep.Sizes, 7)
	assert.Len(t, rep.Saved, 14)
	assert.True(t, rep.Preflight.DirExists)
	// formats are the outer loop
	assert.Equal(t, "yaml", rep.Saved[6].Format)
	assert.Equal(t, "toml", rep.Saved[7].Format)
}

func TestRun_EmptyRegistrySucceeds(t *testing.T) {
	dir := t.TempDir()
	cfg := writeTempFile(t, dir, "empty.yaml", "output_dir: "+dir+"\nmodels: []\n")
	code, stdout, stderr := execute(t, "--config", cfg, "run")
	require.Equal(t, ExitOK, code, "stderr: %s", stderr)
	assert.Empty(t, stdout)
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1) // only the config file
}

func TestRun_MetricsFile(t *testing.T) {
	dir := t.TempDir()
	metrics := filepath.Join(dir, "modelcheck.prom")
	code, _, _ := execute(t, "run", "--output-dir", dir, "--metrics-file", metrics)
	require.Equal(t, ExitOK, code)
	b, err := os.ReadFile(metrics)
	require.NoError(t, err)
	assert.Contains(t, string(b), "modelcheck_harness_runs_total")
}

func TestRun_ConfigAndUsageErrorsExit2(t *testing.T) {
	dir := t.TempDir()
	cases := [][]string{
		{"run", "--format", "csv"},
		{"run", "--no-such-flag"},
		{"run", "extra"},
		{"bogus"},
		{"--log-level", "loud", "models"},
		{"--config", filepath.Join(dir, "missing.yaml"), "models"},
		{"--config", writeTempFile(t, dir, "bad.ini", "x=1"), "models"},
		{"print"},
	}
	for _, args := range cases {
		code, _, stderr := execute(t, args...)
		assert.Equal(t, ExitUsage, code, "args=%v stderr=%s", args, stderr)
		assert.NotEmpty(t, stderr, "args=%v", args)
	}
}

func TestRun_DuplicatePrefixIsConfigError(t *testing.T) {
	dir := t.TempDir()
	cfg := writeTempFile(t, dir, "c.json", `{"models":[{"key":"[1]","label":"a","file_prefix":"same"},{"key":"[2]","label":"b","file_prefix":"same"}]}`)
	code, stdout, stderr := execute(t, "--config", cfg, "run")
	assert.Equal(t, ExitUsage, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "file_prefix")
}

func TestModelsAndFormats(t *testing.T) {
	code, stdout, _ := execute(t, "models")
	require.Equal(t, ExitOK, code)
	assert.Contains(t, stdout, "KEY")
	assert.Contains(t, stdout, "[tree_3]")
	assert.Contains(t, stdout, "model_1")

	code, stdout, _ = execute(t, "formats")
	require.Equal(t, ExitOK, code)
	assert.Equal(t, "* json\n  toml\n* xml\n  yaml\n", stdout)

	code, stdout, _ = execute(t, "formats", "--help")
	require.Equal(t, ExitOK, code)
	assert.Contains(t, stdout, "configured ones are marked")
}

func TestModels_ModelsDir(t *testing.T) {
	out := t.TempDir()
	code, _, _ := execute(t, "run", "--output-dir", out, "--format", "json")
	require.Equal(t, ExitOK, code)

	code, stdout, _ := execute(t, "models", "--models-dir", out)
	require.Equal(t, ExitOK, code)
	assert.Contains(t, stdout, "tree_2.json")
	assert.Contains(t, stdout, filepath.Join(out, "tree_2.json"))
}

func TestRun_ModelsDirFromPreviousRun(t *testing.T) {
	first := t.TempDir()
	code, _, _ := execute(t, "run", "--output-dir", first)
	require.Equal(t, ExitOK, code)

	second := t.TempDir()
	code, stdout, stderr := execute(t, "run", "--models-dir", first, "--output-dir", second)
	require.Equal(t, ExitOK, code, "stderr: %s", stderr)
	assert.Contains(t, stdout, "model_1.json size: 10\n")
	assert.Contains(t, stdout, "model_1.xml size: 10\n")
	assert.Contains(t, stdout, "tree_3.xml size: 9\n")
	assert.Len(t, strings.Split(strings.TrimSpace(stdout), "\n"), 14)

	for _, name := range []string{"model_1_xml.xml", "model_1_xml.json", "model_1_json.xml", "tree_3_json.json"} {
		fi, err := os.Stat(filepath.Join(second, name))
		require.NoError(t, err)
		assert.Positive(t, fi.Size())
	}
	entries, err := os.ReadDir(second)
	require.NoError(t, err)
	assert.Len(t, entries, 28)
}

func TestPrint(t *testing.T) {
	out := t.TempDir()
	code, _, _ := execute(t, "run", "--output-dir", out)
	require.Equal(t, ExitOK, code)

	code, stdout, _ := execute(t, "print", filepath.Join(out, "tree_2.xml"))
	require.Equal(t, ExitOK, code)
	assert.Contains(t, stdout, `model "[tree_2]"`)
	assert.Contains(t, stdout, "size 7")

	code, _, stderr := execute(t, "print", filepath.Join(out, "absent.json"))
	assert.Equal(t, ExitFailure, code)
	assert.Contains(t, stderr, "not found")
}

func TestHistory(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "history.db")
	code, _, _ := execute(t, "run", "--output-dir", dir, "--history-db", db)
	require.Equal(t, ExitOK, code)
	code, _, _ = execute(t, "run", "--output-dir", filepath.Join(dir, "missing"), "--history-db", db)
	require.Equal(t, ExitFailure, code)

	code, stdout, _ := execute(t, "history", "--history-db", db)
	require.Equal(t, ExitOK, code)
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "RUN ID")
	assert.Contains(t, lines[1], "failure")
	assert.Contains(t, lines[2], "success")

	code, stdout, _ = execute(t, "history", "--history-db", db, "--limit", "1")
	require.Equal(t, ExitOK, code)
	assert.Len(t, strings.Split(strings.TrimSpace(stdout), "\n"), 2)

	code, _, stderr := execute(t, "history")
	assert.Equal(t, ExitUsage, code)
	assert.Contains(t, stderr, "history is disabled")
}

func TestCompletion(t *testing.T) {
	code, stdout, _ := execute(t, "completion", "bash")
	require.Equal(t, ExitOK, code)
	assert.Contains(t, stdout, "bash completion")
}

func TestService_RejectsConcurrentRun(t *testing.T) {
	a := &app{stdout: io.Discard, stderr: io.Discard, cfgPath: ""}
	require.NoError(t, a.load(a.rootCmd()))
	a.cfg.OutputDir = t.TempDir()
	svc := a.newService(nil, nil)

	assert.True(t, svc.Ready())
	svc.mu.Lock()
	_, err := svc.Run(context.Background())
	svc.mu.Unlock()
	assert.ErrorIs(t, err, httpapi.ErrRunInProgress)

	rep, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.True(t, rep.OK())
	assert.Len(t, svc.ListModels(), 7)
	assert.Equal(t, []string{"xml", "json"}, svc.Formats().Formats)

	_, err = svc.History(context.Background(), 5)
	assert.ErrorIs(t, err, httpapi.ErrHistoryDisabled)
	_, err = svc.RunFailures(context.Background(), "x")
	assert.ErrorIs(t, err, httpapi.ErrHistoryDisabled)
}

func TestExitCode(t *testing.T) {
	code, show := exitCode(nil)
	assert.Equal(t, ExitOK, code)
	assert.False(t, show)
	code, show = exitCode(reported(ExitFailure))
	assert.Equal(t, ExitFailure, code)
	assert.False(t, show)
	code, show = exitCode(usageError(os.ErrInvalid))
	assert.Equal(t, ExitUsage, code)
	assert.True(t, show)
	code, _ = exitCode(io.ErrUnexpectedEOF)
	assert.Equal(t, ExitFailure, code)
	// wording alone never selects ExitUsage
	code, _ = exitCode(errors.New(`unknown command "x" for "modelcheck"`))
	assert.Equal(t, ExitFailure, code)
}

func TestRoot_UsageErrorsAreWrappedAtSource(t *testing.T) {
	for _, args := range [][]string{{"bogus"}, {"run", "--output-dir"}, {"--no-such-flag"}, {"print", "a", "b"}} {
		a := &app{stdout: io.Discard, stderr: io.Discard}
		root := a.rootCmd()
		root.SetArgs(args)
		root.SetOut(io.Discard)
		root.SetErr(io.Discard)
		err := root.ExecuteContext(context.Background())
		var ee *exitError
		require.ErrorAs(t, err, &ee, "args=%v", args)
		assert.Equal(t, ExitUsage, ee.code, "args=%v", args)
	}
}

func TestRoot_NoArgsPrintsHelp(t *testing.T) {
	code, stdout, _ := execute(t)
	assert.Equal(t, ExitOK, code)
	assert.Contains(t, stdout, "Available Commands")
}
