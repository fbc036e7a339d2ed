package cli

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"phaseforge/internal/policy"
)

// RootCmd builds the generator command. The result pointer receives the
// semantic exit code so main can exit with it after cobra unwinds.
func RootCmd(result *Result) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "phaseforge",
		Short:         "Generate policy-consistent workload scripts for the phase simulator.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 {
				err := invalidInvocationf("unexpected positional arguments: %q", args)
				result.ExitCode = ExitCodeFor(err)
				return err
			}
			inv, err := invocationFromFlags(cmd)
			if err != nil {
				result.ExitCode = ExitCodeFor(err)
				return err
			}
			configureLogging(inv.Verbose)
			res, err := Execute(cmd.Context(), inv)
			*result = res
			return err
		},
	}

	cmd.Flags().String("out-dir", "jobs", "Directory receiving one script per archetype.")
	cmd.Flags().String("bin", "./hpc_phase_sim", "Path to the phase simulator binary.")
	cmd.Flags().Int64("seed", 123, "Random seed; equal seeds reproduce byte-identical artifacts.")
	cmd.Flags().String("index-csv", "jobs/index.csv", "Index CSV path ('-' disables).")
	cmd.Flags().String("submit-all", "submit_all.sh", "Aggregate launcher path ('-' disables).")
	cmd.Flags().String("manifest", "jobs/manifest.json", "Run manifest path ('-' disables).")
	cmd.Flags().String("catalog", "", "Optional YAML archetype catalog override.")
	cmd.Flags().String("config", "", "Optional config file; explicit flags win.")
	cmd.Flags().BoolP("verbose", "v", false, "Log debug detail.")
	return cmd
}

func invocationFromFlags(cmd *cobra.Command) (Invocation, error) {
	flags := cmd.Flags()
	outDir, err := flags.GetString("out-dir")
	if err != nil {
		return Invocation{}, err
	}
	bin, err := flags.GetString("bin")
	if err != nil {
		return Invocation{}, err
	}
	seed, err := flags.GetInt64("seed")
	if err != nil {
		return Invocation{}, err
	}
	indexCSV, err := flags.GetString("index-csv")
	if err != nil {
		return Invocation{}, err
	}
	submitAll, err := flags.GetString("submit-all")
	if err != nil {
		return Invocation{}, err
	}
	manifestPath, err := flags.GetString("manifest")
	if err != nil {
		return Invocation{}, err
	}
	catalogPath, err := flags.GetString("catalog")
	if err != nil {
		return Invocation{}, err
	}
	configPath, err := flags.GetString("config")
	if err != nil {
		return Invocation{}, err
	}
	verbose, err := flags.GetBool("verbose")
	if err != nil {
		return Invocation{}, err
	}

	inv := Invocation{
		OutputDir:    outDir,
		BinaryPath:   bin,
		Seed:         seed,
		IndexPath:    indexCSV,
		LauncherPath: submitAll,
		ManifestPath: manifestPath,
		CatalogPath:  catalogPath,
		Policy:       policy.Default(),
		Verbose:      verbose,
	}

	if configPath != "" {
		cfg, err := LoadFileConfig(configPath)
		if err != nil {
			return Invocation{}, err
		}
		cfg.apply(&inv, flags.Changed)
	}

	if err := inv.Canonicalize(); err != nil {
		return Invocation{}, err
	}
	return inv, nil
}

func configureLogging(verbose bool) {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	log.SetOutput(os.Stdout)
	if verbose {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.InfoLevel)
	}
}
