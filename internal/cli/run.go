package cli

import (
	"context"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"phaseforge/internal/emit"
	"phaseforge/internal/manifest"
	"phaseforge/internal/phase"
	"phaseforge/internal/policy"
	"phaseforge/internal/sampler"
	"phaseforge/internal/synth"
)

// Result is the outcome of one generator run.
type Result struct {
	ExitCode int

	// Scripts lists the emitted artifacts in synthesis order.
	Scripts []emit.Script

	// ManifestHash is the canonical digest of the run manifest; equal
	// inputs must reproduce it exactly.
	ManifestHash string
}

// Run is a high-level entrypoint suitable for black-box tests. It accepts
// the argument slice (excluding argv[0]) and returns the semantic exit code
// plus any error.
func Run(ctx context.Context, args []string) (Result, error) {
	// Negative sentinel: flag-parse failures abort before RunE can record a
	// code, and those are invalid invocations, not internal errors.
	result := Result{ExitCode: -1}
	cmd := RootCmd(&result)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	if result.ExitCode < 0 {
		switch {
		case err == nil:
			result.ExitCode = ExitSuccess
		default:
			var invErr *InvocationError
			if errors.As(err, &invErr) {
				result.ExitCode = invErr.ExitCode
			} else {
				result.ExitCode = ExitInvalidInvocation
			}
		}
	}
	return result, err
}

// Execute maps a canonical Invocation to one full generation run.
//
// Responsibilities:
//   - Resolve and validate policy and catalog (config errors are fatal).
//   - Run the five syntheses in the fixed archetype order against a single
//     seeded sampler; this order is part of the determinism contract.
//   - Emit scripts, index, launcher, and manifest; any write failure is
//     fatal and unrecovered.
func Execute(ctx context.Context, inv Invocation) (Result, error) {
	res := Result{ExitCode: ExitInternalError}

	if err := inv.Policy.Validate(); err != nil {
		res.ExitCode = ExitConfigError
		return res, err
	}
	catalog := policy.DefaultCatalog()
	if inv.CatalogPath != "" {
		merged, err := policy.LoadCatalogFile(inv.CatalogPath, catalog)
		if err != nil {
			res.ExitCode = ExitConfigError
			return res, err
		}
		catalog = merged
	}
	if err := catalog.Validate(inv.Policy); err != nil {
		res.ExitCode = ExitConfigError
		return res, err
	}

	log.WithFields(log.Fields{
		"seed":    inv.Seed,
		"out_dir": inv.OutputDir,
		"bin":     inv.BinaryPath,
	}).Info("generating archetype scripts")

	smp := sampler.New(inv.Seed)
	run := manifest.RunManifest{Seed: inv.Seed}

	for _, arch := range synth.Order() {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		job, err := synth.Synthesize(arch, inv.Policy, catalog, smp, string(arch))
		if err != nil {
			res.ExitCode = ExitConfigError
			return res, err
		}
		script := emit.Script{
			Name:       job.Name,
			Case:       job.Case,
			Path:       inv.ScriptPath(job.Case),
			Annotation: job.Annotation,
			Command:    phase.Command(inv.BinaryPath, job.Name, job.Phases),
		}
		if err := emit.WriteScript(script); err != nil {
			res.ExitCode = ExitEmitFailure
			return res, err
		}
		digest := manifest.Digest([]byte(script.Command))
		run.Entries = append(run.Entries, manifest.Entry{
			Name:          script.Name,
			Case:          script.Case,
			ScriptPath:    script.Path,
			CommandDigest: digest,
		})
		res.Scripts = append(res.Scripts, script)
		log.WithFields(log.Fields{
			"case":   script.Case,
			"path":   script.Path,
			"phases": len(job.Phases),
			"digest": digest[:12],
		}).Info("generated script")
		log.Debugf("%s command:\n%s", script.Case, script.Command)
	}

	if inv.IndexPath != "" {
		if err := emit.WriteIndex(inv.IndexPath, res.Scripts); err != nil {
			res.ExitCode = ExitEmitFailure
			return res, err
		}
		log.WithField("path", inv.IndexPath).Info("wrote index")
	}
	if inv.LauncherPath != "" {
		if err := emit.WriteLauncher(inv.LauncherPath, res.Scripts); err != nil {
			res.ExitCode = ExitEmitFailure
			return res, err
		}
		log.WithField("path", inv.LauncherPath).Info("wrote launcher")
	}

	hash, err := run.Hash()
	if err != nil {
		return res, errors.Wrap(err, "run manifest")
	}
	res.ManifestHash = hash
	if inv.ManifestPath != "" {
		if err := writeManifest(inv.ManifestPath, run); err != nil {
			res.ExitCode = ExitEmitFailure
			return res, err
		}
		log.WithFields(log.Fields{"path": inv.ManifestPath, "hash": hash[:12]}).Info("wrote manifest")
	}

	res.ExitCode = ExitSuccess
	return res, nil
}
