// Package cli wires the generator: it canonicalizes the invocation, runs the
// five archetype syntheses in their fixed order against one seeded sampler,
// and drives the artifact emitter.
package cli

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"phaseforge/internal/policy"
)

const (
	ExitSuccess           = 0
	ExitEmitFailure       = 1
	ExitInvalidInvocation = 2
	ExitConfigError       = 3
	ExitInternalError     = 4
)

// Invocation is the fully canonicalized, deterministic description of a run.
//
// All output paths are normalized with filepath.Clean. Relative paths stay
// relative: the generated artifacts reference each other (launcher →
// scripts), so resolving them against the process CWD would change output
// bytes between hosts.
type Invocation struct {
	// OutputDir receives one script per archetype.
	OutputDir string

	// BinaryPath is the simulator binary invoked by every generated script.
	BinaryPath string

	// Seed seeds the single shared sampler.
	Seed int64

	// IndexPath is the index CSV destination; empty disables the index.
	IndexPath string

	// LauncherPath is the aggregate launcher destination; empty disables it.
	LauncherPath string

	// ManifestPath is the run manifest destination; empty disables it.
	ManifestPath string

	// CatalogPath optionally points at a YAML catalog override.
	CatalogPath string

	// Policy is the node-sharing policy the run resolves against.
	Policy policy.ResourcePolicy

	// Verbose enables debug logging.
	Verbose bool
}

// InvocationError carries a semantic exit code alongside the message.
type InvocationError struct {
	ExitCode int
	Message  string
}

func (e *InvocationError) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

func invalidInvocationf(format string, args ...any) error {
	return &InvocationError{ExitCode: ExitInvalidInvocation, Message: fmt.Sprintf(format, args...)}
}

// Canonicalize validates the invocation and normalizes every path. Optional
// artifact paths set to "" or "-" disable the artifact.
func (inv *Invocation) Canonicalize() error {
	if strings.TrimSpace(inv.OutputDir) == "" {
		return invalidInvocationf("--out-dir must not be empty")
	}
	if strings.TrimSpace(inv.BinaryPath) == "" {
		return invalidInvocationf("--bin must not be empty")
	}
	inv.OutputDir = filepath.Clean(inv.OutputDir)
	inv.BinaryPath = filepath.Clean(inv.BinaryPath)

	inv.IndexPath = canonicalArtifactPath(inv.IndexPath)
	inv.LauncherPath = canonicalArtifactPath(inv.LauncherPath)
	inv.ManifestPath = canonicalArtifactPath(inv.ManifestPath)
	if inv.CatalogPath != "" {
		inv.CatalogPath = filepath.Clean(inv.CatalogPath)
	}
	return nil
}

// canonicalArtifactPath normalizes an optional artifact path. "-" and ""
// both mean "do not write this artifact".
func canonicalArtifactPath(p string) string {
	trimmed := strings.TrimSpace(p)
	if trimmed == "" || trimmed == "-" {
		return ""
	}
	return filepath.Clean(trimmed)
}

// ScriptPath returns the declared path of one archetype's script.
func (inv Invocation) ScriptPath(caseName string) string {
	return filepath.Join(inv.OutputDir, caseName+".sh")
}

// ExitCodeFor extracts a semantic exit code from an error. Unknown errors
// map to ExitInternalError.
func ExitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var invErr *InvocationError
	if errors.As(err, &invErr) && invErr.ExitCode != 0 {
		return invErr.ExitCode
	}
	return ExitInternalError
}
