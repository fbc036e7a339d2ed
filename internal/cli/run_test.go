package cli

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"phaseforge/internal/policy"
	"phaseforge/internal/synth"
)

func testInvocation(t *testing.T) Invocation {
	t.Helper()
	dir := t.TempDir()
	inv := Invocation{
		OutputDir:    filepath.Join(dir, "jobs"),
		BinaryPath:   "./hpc_phase_sim",
		Seed:         123,
		IndexPath:    filepath.Join(dir, "jobs", "index.csv"),
		LauncherPath: filepath.Join(dir, "submit_all.sh"),
		ManifestPath: filepath.Join(dir, "jobs", "manifest.json"),
		Policy:       policy.Default(),
	}
	require.NoError(t, inv.Canonicalize())
	return inv
}

// TestExecute_GeneratesAllArtifacts runs a full generation and checks every
// declared artifact: five scripts, the index, the launcher, the manifest.
func TestExecute_GeneratesAllArtifacts(t *testing.T) {
	inv := testInvocation(t)

	res, err := Execute(context.Background(), inv)
	require.NoError(t, err)
	require.Equal(t, ExitSuccess, res.ExitCode)
	require.Len(t, res.Scripts, 5)
	require.NotEmpty(t, res.ManifestHash)

	for i, arch := range synth.Order() {
		require.Equal(t, string(arch), res.Scripts[i].Case, "scripts follow the fixed synthesis order")
		data, err := os.ReadFile(inv.ScriptPath(string(arch)))
		require.NoError(t, err)
		content := string(data)
		require.True(t, strings.HasPrefix(content, "#!/usr/bin/env bash\nset -euo pipefail\n"))
		require.Contains(t, content, "# Case: "+string(arch))
		require.Contains(t, content, "--phase type=mem,abs=")
		require.True(t, strings.HasSuffix(content, "\n"))
	}

	index, err := os.ReadFile(inv.IndexPath)
	require.NoError(t, err)
	rows := strings.Split(strings.TrimRight(string(index), "\n"), "\n")
	require.Len(t, rows, 6, "header plus one row per archetype")

	launcher, err := os.ReadFile(inv.LauncherPath)
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(string(launcher), "wait\n"))
	require.Contains(t, string(launcher), "echo 'Launching CFD'")

	manifestData, err := os.ReadFile(inv.ManifestPath)
	require.NoError(t, err)
	var decoded struct {
		Seed    int64 `json:"seed"`
		Entries []struct {
			Case          string `json:"case"`
			CommandDigest string `json:"commandDigest"`
		} `json:"entries"`
	}
	require.NoError(t, json.Unmarshal(manifestData, &decoded))
	require.Equal(t, int64(123), decoded.Seed)
	require.Len(t, decoded.Entries, 5)
}

// TestExecute_ByteIdenticalRegeneration verifies the idempotence contract:
// same seed, same policy, same order — byte-identical script content.
func TestExecute_ByteIdenticalRegeneration(t *testing.T) {
	invA := testInvocation(t)
	invB := testInvocation(t)

	resA, err := Execute(context.Background(), invA)
	require.NoError(t, err)
	resB, err := Execute(context.Background(), invB)
	require.NoError(t, err)

	require.Len(t, resB.Scripts, len(resA.Scripts))
	for i := range resA.Scripts {
		require.Equal(t, resA.Scripts[i].Command, resB.Scripts[i].Command)
		require.Equal(t, resA.Scripts[i].Annotation, resB.Scripts[i].Annotation)

		a, err := os.ReadFile(resA.Scripts[i].Path)
		require.NoError(t, err)
		b, err := os.ReadFile(resB.Scripts[i].Path)
		require.NoError(t, err)
		require.Equal(t, a, b, "script %s", resA.Scripts[i].Case)
	}

	invC := testInvocation(t)
	invC.Seed = 7
	resC, err := Execute(context.Background(), invC)
	require.NoError(t, err)
	require.NotEqual(t, resA.Scripts[0].Command, resC.Scripts[0].Command,
		"a different seed must change the rendered commands")
}

// TestExecute_DisabledArtifactsAreSkipped verifies empty index/launcher/
// manifest paths suppress those artifacts without failing the run.
func TestExecute_DisabledArtifactsAreSkipped(t *testing.T) {
	inv := testInvocation(t)
	indexPath, launcherPath, manifestPath := inv.IndexPath, inv.LauncherPath, inv.ManifestPath
	inv.IndexPath, inv.LauncherPath, inv.ManifestPath = "", "", ""

	res, err := Execute(context.Background(), inv)
	require.NoError(t, err)
	require.Equal(t, ExitSuccess, res.ExitCode)
	require.NotEmpty(t, res.ManifestHash, "hash is computed even when the file is disabled")

	for _, p := range []string{indexPath, launcherPath, manifestPath} {
		_, err := os.Stat(p)
		require.True(t, os.IsNotExist(err), "artifact %s should not exist", p)
	}
}

// TestExecute_ConfigErrors verifies invalid policy and unreadable catalog
// map to the config exit code.
func TestExecute_ConfigErrors(t *testing.T) {
	badPolicy := testInvocation(t)
	badPolicy.Policy.PeakFractionRange.Hi = 0.1
	res, err := Execute(context.Background(), badPolicy)
	require.Error(t, err)
	require.Equal(t, ExitConfigError, res.ExitCode)

	badCatalog := testInvocation(t)
	badCatalog.CatalogPath = filepath.Join(t.TempDir(), "missing.yaml")
	res, err = Execute(context.Background(), badCatalog)
	require.Error(t, err)
	require.Equal(t, ExitConfigError, res.ExitCode)
}

// TestExecute_EmitFailureIsFatal verifies a blocked output directory stops
// the run with the emit exit code and no retry.
func TestExecute_EmitFailureIsFatal(t *testing.T) {
	inv := testInvocation(t)
	// Occupy the output directory path with a regular file.
	require.NoError(t, os.WriteFile(inv.OutputDir, []byte("blocked"), 0o644))

	res, err := Execute(context.Background(), inv)
	require.Error(t, err)
	require.Equal(t, ExitEmitFailure, res.ExitCode)
}

// TestRun_FlagSurface drives the cobra command end to end.
func TestRun_FlagSurface(t *testing.T) {
	dir := t.TempDir()
	res, err := Run(context.Background(), []string{
		"--out-dir", filepath.Join(dir, "jobs"),
		"--bin", "./hpc_phase_sim",
		"--seed", "99",
		"--index-csv", filepath.Join(dir, "jobs", "index.csv"),
		"--submit-all", filepath.Join(dir, "submit_all.sh"),
		"--manifest", "-",
	})
	require.NoError(t, err)
	require.Equal(t, ExitSuccess, res.ExitCode)
	require.Len(t, res.Scripts, 5)

	_, err = os.Stat(filepath.Join(dir, "jobs", "CFD.sh"))
	require.NoError(t, err)
}

// TestRun_InvalidFlagsExitCode verifies unknown flags and positional
// arguments map to the invalid-invocation exit code.
func TestRun_InvalidFlagsExitCode(t *testing.T) {
	res, err := Run(context.Background(), []string{"--no-such-flag"})
	require.Error(t, err)
	require.Equal(t, ExitInvalidInvocation, res.ExitCode)

	res, err = Run(context.Background(), []string{"unexpected-arg"})
	require.Error(t, err)
	require.Equal(t, ExitInvalidInvocation, res.ExitCode)
}

// TestRun_ConfigFilePrecedence verifies file values fill unset flags while
// explicit flags win.
func TestRun_ConfigFilePrecedence(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	cfg := "outDir: " + filepath.Join(dir, "from-file") + "\n" +
		"seed: 7\n" +
		"submitAll: '-'\n" +
		"manifest: '-'\n" +
		"indexCsv: '-'\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o644))

	res, err := Run(context.Background(), []string{
		"--config", cfgPath,
		"--seed", "42", // explicit flag beats the file
	})
	require.NoError(t, err)
	require.Equal(t, ExitSuccess, res.ExitCode)

	_, err = os.Stat(filepath.Join(dir, "from-file", "MD.sh"))
	require.NoError(t, err, "outDir should come from the config file")

	// The explicit --seed beats the file's seed: a reference run with seed
	// 42 renders the same commands.
	ref := testInvocation(t)
	ref.Seed = 42
	refRes, err := Execute(context.Background(), ref)
	require.NoError(t, err)
	require.Len(t, res.Scripts, 5)
	require.Equal(t, refRes.Scripts[0].Command, res.Scripts[0].Command)
}
