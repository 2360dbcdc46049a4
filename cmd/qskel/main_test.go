package main

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/QTest-hq/qskel/internal/generator"
	"github.com/QTest-hq/qskel/internal/testutil"
	"github.com/QTest-hq/qskel/pkg/model"
)

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	testutil.ClearEnv(t)
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestGenerate_Stdout(t *testing.T) {
	input := testutil.WriteFile(t, filepath.Join(t.TempDir(), "Box.cs"), testutil.BoxSource)

	code, stdout, stderr := runCLI(t, "generate", input)
	require.Equal(t, ExitOK, code, stderr)

	assert.Contains(t, stdout, "namespace Shop.Tests")
	assert.Contains(t, stdout, "public class BoxTests")
	assert.Contains(t, stdout, "public void Label_ShouldRoundTripAssignedValue()")
}

func TestGenerate_OutputFile(t *testing.T) {
	dir := t.TempDir()
	input := testutil.WriteFile(t, filepath.Join(dir, "Box.cs"), testutil.BoxSource)
	output := filepath.Join(dir, "out", "BoxTests.cs")

	code, stdout, stderr := runCLI(t, "generate", input, "-o", output)
	require.Equal(t, ExitOK, code, stderr)

	assert.Equal(t, fmt.Sprintf("Wrote 3 test cases for 1 entities to %s\n", output), stdout)
	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(data), "public class BoxTests")
}

func TestGenerate_OutputDirectory(t *testing.T) {
	dir := t.TempDir()
	input := testutil.WriteFile(t, filepath.Join(dir, "model.yaml"), testutil.ClientModelYAML)
	outDir := filepath.Join(dir, "tests")
	require.NoError(t, os.Mkdir(outDir, 0o755))

	code, _, stderr := runCLI(t, "generate", input, "--strategy", "delegation", "-o", outDir)
	require.Equal(t, ExitOK, code, stderr)

	data, err := os.ReadFile(filepath.Join(outDir, "LoggingClientTests.cs"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "mockInner.Verify(x => x.Fetch(It.IsAny<int>()), Times.Once());")
}

func TestGenerate_ProjectConfig(t *testing.T) {
	dir := t.TempDir()
	input := testutil.WriteFile(t, filepath.Join(dir, "model.yaml"), testutil.ClientModelYAML)
	testutil.WriteFile(t, filepath.Join(dir, ".qskel.yaml"), "strategy: delegation\nnamespace: Remote\n")

	code, stdout, stderr := runCLI(t, "generate", input)
	require.Equal(t, ExitOK, code, stderr)
	assert.Contains(t, stdout, "namespace Remote.Tests")
	assert.Contains(t, stdout, "Fetch_ShouldDelegateCall")

	code, stdout, stderr = runCLI(t, "generate", input, "--strategy", "general", "--namespace", "Local")
	require.Equal(t, ExitOK, code, stderr)
	assert.Contains(t, stdout, "namespace Local.Tests", "flags override the project file")
	assert.NotContains(t, stdout, "Fetch_ShouldDelegateCall")
}

func TestGenerate_ExplicitConfig(t *testing.T) {
	dir := t.TempDir()
	input := testutil.WriteFile(t, filepath.Join(dir, "model.yaml"), testutil.ClientModelYAML)
	cfg := testutil.WriteFile(t, filepath.Join(dir, "conf", "plan.yaml"), "emitter: plan\n")

	code, stdout, stderr := runCLI(t, "generate", input, "--config", cfg)
	require.Equal(t, ExitOK, code, stderr)
	assert.Contains(t, stdout, "entity: LoggingClient")
}

func TestGenerate_LanguageSelectsEmitter(t *testing.T) {
	input := testutil.WriteFile(t, filepath.Join(t.TempDir(), "Box.cs"), testutil.BoxSource)

	code, stdout, stderr := runCLI(t, "generate", input, "--lang", "yaml")
	require.Equal(t, ExitOK, code, stderr)
	assert.Contains(t, stdout, "entity: Box")

	code, stdout, stderr = runCLI(t, "generate", input, "--lang", "yaml", "--emitter", "xunit")
	require.Equal(t, ExitOK, code, stderr)
	assert.Contains(t, stdout, "public class BoxTests", "--emitter wins over --lang")
}

func TestGenerate_ExitStatuses(t *testing.T) {
	dir := t.TempDir()
	box := testutil.WriteFile(t, filepath.Join(dir, "Box.cs"), testutil.BoxSource)
	hollow := testutil.WriteFile(t, filepath.Join(dir, "hollow.yaml"), "namespace: Shop\nentities:\n  - name: Hollow\n")
	notes := testutil.WriteFile(t, filepath.Join(dir, "notes.txt"), "Box")

	tests := []struct {
		name string
		args []string
		want int
	}{
		{"missing input", []string{"generate", filepath.Join(dir, "Missing.cs")}, ExitInputNotFound},
		{"no input", []string{"generate"}, ExitUsage},
		{"too many inputs", []string{"generate", box, box}, ExitUsage},
		{"unknown flag", []string{"generate", box, "--tier", "3"}, ExitUsage},
		{"unknown command", []string{"mutate", box}, ExitUsage},
		{"unknown strategy", []string{"generate", box, "--strategy", "chaos"}, ExitUsage},
		{"unknown emitter", []string{"generate", box, "--emitter", "nunit"}, ExitUsage},
		{"unknown language", []string{"generate", box, "--lang", "cobol"}, ExitUsage},
		{"unsupported input", []string{"generate", notes}, ExitUsage},
		{"nothing to generate", []string{"generate", hollow}, ExitNothingToGenerate},
		{"missing config", []string{"generate", box, "--config", filepath.Join(dir, "none.yaml")}, ExitInputNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, stdout, stderr := runCLI(t, tt.args...)
			assert.Equal(t, tt.want, code, stderr)
			assert.Empty(t, stdout)
		})
	}
}

func TestGenerate_NothingToGenerateMessage(t *testing.T) {
	hollow := testutil.WriteFile(t, filepath.Join(t.TempDir(), "hollow.yaml"), "namespace: Shop\nentities:\n  - name: Hollow\n")

	code, stdout, stderr := runCLI(t, "generate", hollow)
	assert.Equal(t, ExitNothingToGenerate, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "nothing to generate")
	assert.NotContains(t, stderr, "Error:")
}

func TestInvalidEnvironment(t *testing.T) {
	box := testutil.WriteFile(t, filepath.Join(t.TempDir(), "Box.cs"), testutil.BoxSource)

	testutil.ClearEnv(t)
	t.Setenv("QSKEL_WORKERS", "0")
	var stdout, stderr bytes.Buffer
	code := run([]string{"generate", box}, &stdout, &stderr)
	assert.Equal(t, ExitUsage, code)
	assert.Contains(t, stderr.String(), "QSKEL_WORKERS")
}

func TestProductionLogsAreJSON(t *testing.T) {
	box := testutil.WriteFile(t, filepath.Join(t.TempDir(), "Box.cs"), testutil.BoxSource)

	testutil.ClearEnv(t)
	t.Setenv("QSKEL_ENV", "production")
	var stdout, stderr bytes.Buffer
	code := run([]string{"generate", box}, &stdout, &stderr)
	require.Equal(t, ExitOK, code, stderr.String())

	assert.Contains(t, stderr.String(), `"level":"info"`)
	assert.Contains(t, stderr.String(), `"message":"generating tests"`)
}

func TestInit(t *testing.T) {
	dir := t.TempDir()

	code, stdout, stderr := runCLI(t, "init", dir)
	require.Equal(t, ExitOK, code, stderr)
	path := filepath.Join(dir, ".qskel.yaml")
	assert.Equal(t, fmt.Sprintf("Wrote %s\n", path), stdout)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "strategy: general")
	assert.Contains(t, string(data), "emitter: xunit")

	code, _, stderr = runCLI(t, "init", dir)
	assert.Equal(t, ExitUsage, code)
	assert.Contains(t, stderr, "already exists")

	code, _, _ = runCLI(t, "init", filepath.Join(dir, "missing"))
	assert.Equal(t, ExitInputNotFound, code)

	code, _, _ = runCLI(t, "init", dir, dir)
	assert.Equal(t, ExitUsage, code)
}

func TestInit_ConfigIsPickedUp(t *testing.T) {
	dir := t.TempDir()
	input := testutil.WriteFile(t, filepath.Join(dir, "Box.cs"), testutil.BoxSource)

	code, _, stderr := runCLI(t, "init", dir)
	require.Equal(t, ExitOK, code, stderr)

	code, stdout, stderr := runCLI(t, "generate", input)
	require.Equal(t, ExitOK, code, stderr)
	assert.Contains(t, stdout, "public class BoxTests")
}

func TestParse(t *testing.T) {
	input := testutil.WriteFile(t, filepath.Join(t.TempDir(), "Box.cs"), testutil.BoxSource)

	code, stdout, stderr := runCLI(t, "parse", input)
	require.Equal(t, ExitOK, code, stderr)

	assert.Contains(t, stdout, "namespace: Shop")
	assert.Contains(t, stdout, "name: Box")
	assert.Contains(t, stdout, "kind: property")
	assert.Contains(t, stdout, "mutable: true")
}

func TestRootHelp(t *testing.T) {
	code, stdout, _ := runCLI(t)
	assert.Equal(t, ExitOK, code)
	assert.True(t, strings.Contains(stdout, "generate") && strings.Contains(stdout, "serve"))
	assert.Contains(t, stdout, "init")

	code, stdout, _ = runCLI(t, "--version")
	assert.Equal(t, ExitOK, code)
	assert.Contains(t, stdout, version)
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitOK},
		{"internal", errors.New("boom"), ExitInternal},
		{"usage", usageErrorf("bad flag"), ExitUsage},
		{"not found", fmt.Errorf("input: %w", fs.ErrNotExist), ExitInputNotFound},
		{"nothing", fmt.Errorf("run: %w", generator.ErrNothingToGenerate), ExitNothingToGenerate},
		{"strategy", fmt.Errorf("plan: %w", generator.ErrUnknownStrategy), ExitUsage},
		{"emitter", generator.ErrUnknownEmitter, ExitUsage},
		{"input", generator.ErrUnsupportedInput, ExitUsage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCode(tt.err))
		})
	}
}

func TestOutputName(t *testing.T) {
	gen := generator.NewGenerator()
	xunit, err := gen.Emitters().Get("xunit")
	require.NoError(t, err)
	plan, err := gen.Emitters().Get("plan")
	require.NoError(t, err)

	one := &generator.Result{Emitter: xunit, Suite: suiteOf("Shop.Core", "Box")}
	assert.Equal(t, "BoxTests.cs", outputName(one))

	many := &generator.Result{Emitter: xunit, Suite: suiteOf("Shop.Core", "Box", "Crate")}
	assert.Equal(t, "ShopCoreTests.cs", outputName(many))

	anon := &generator.Result{Emitter: plan, Suite: suiteOf("", "Box", "Crate")}
	assert.Equal(t, "Generated.plan.yaml", outputName(anon))
}

func suiteOf(namespace string, entities ...string) *model.Suite {
	s := &model.Suite{Namespace: namespace, Strategy: model.StrategyGeneral}
	for _, e := range entities {
		s.Fixtures = append(s.Fixtures, model.Fixture{Entity: e, Cases: []model.TestCase{{Name: "Constructor_ShouldCreateInstance"}}})
	}
	return s
}
