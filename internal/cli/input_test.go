package cli

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"phaseforge/internal/policy"
)

func baseInvocation() Invocation {
	return Invocation{
		OutputDir:    "jobs",
		BinaryPath:   "./hpc_phase_sim",
		Seed:         123,
		IndexPath:    "jobs/index.csv",
		LauncherPath: "submit_all.sh",
		ManifestPath: "jobs/manifest.json",
		Policy:       policy.Default(),
	}
}

// TestCanonicalize_NormalizesPaths verifies path cleaning and the artifact
// disable conventions.
func TestCanonicalize_NormalizesPaths(t *testing.T) {
	inv := baseInvocation()
	inv.OutputDir = "jobs//sub/.."
	inv.IndexPath = " - "
	inv.LauncherPath = ""
	inv.ManifestPath = "./jobs/manifest.json"

	require.NoError(t, inv.Canonicalize())
	require.Equal(t, "jobs", inv.OutputDir)
	require.Empty(t, inv.IndexPath, "'-' disables the index")
	require.Empty(t, inv.LauncherPath)
	require.Equal(t, "jobs/manifest.json", inv.ManifestPath)
	require.Equal(t, "jobs/MD.sh", inv.ScriptPath("MD"))
}

// TestCanonicalize_RejectsMissingRequiredPaths verifies the required flags
// map to the invalid-invocation exit code.
func TestCanonicalize_RejectsMissingRequiredPaths(t *testing.T) {
	noOut := baseInvocation()
	noOut.OutputDir = "  "
	err := noOut.Canonicalize()
	require.Error(t, err)
	require.Equal(t, ExitInvalidInvocation, ExitCodeFor(err))

	noBin := baseInvocation()
	noBin.BinaryPath = ""
	require.Error(t, noBin.Canonicalize())
}

// TestExitCodeFor_Classification covers the error-to-exit-code mapping.
func TestExitCodeFor_Classification(t *testing.T) {
	require.Equal(t, ExitSuccess, ExitCodeFor(nil))
	require.Equal(t, ExitInvalidInvocation, ExitCodeFor(invalidInvocationf("bad")))
	require.Equal(t, ExitConfigError, ExitCodeFor(&InvocationError{ExitCode: ExitConfigError, Message: "cfg"}))
	require.Equal(t, ExitInternalError, ExitCodeFor(errors.New("disk on fire")))
}
