package cli

import (
	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"phaseforge/internal/policy"
)

// FileConfig mirrors the flag surface in a config file, plus the policy
// overrides that have no flag equivalent. Explicit flags win over the file.
type FileConfig struct {
	OutDir    string  `mapstructure:"outDir"`
	Bin       string  `mapstructure:"bin"`
	Seed      *int64  `mapstructure:"seed"`
	IndexCSV  *string `mapstructure:"indexCsv"`
	SubmitAll *string `mapstructure:"submitAll"`
	Manifest  *string `mapstructure:"manifest"`
	Catalog   string  `mapstructure:"catalog"`

	Policy *policy.ResourcePolicy `mapstructure:"policy"`
}

// LoadFileConfig reads and decodes the config file at path.
func LoadFileConfig(path string) (FileConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return FileConfig{}, &InvocationError{
			ExitCode: ExitConfigError,
			Message:  errors.Wrapf(err, "config: read %s", path).Error(),
		}
	}
	var cfg FileConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return FileConfig{}, &InvocationError{
			ExitCode: ExitConfigError,
			Message:  errors.Wrapf(err, "config: decode %s", path).Error(),
		}
	}
	return cfg, nil
}

// apply merges file values under the invocation wherever the corresponding
// flag was left at its default.
func (c FileConfig) apply(inv *Invocation, flagChanged func(string) bool) {
	if c.OutDir != "" && !flagChanged("out-dir") {
		inv.OutputDir = c.OutDir
	}
	if c.Bin != "" && !flagChanged("bin") {
		inv.BinaryPath = c.Bin
	}
	if c.Seed != nil && !flagChanged("seed") {
		inv.Seed = *c.Seed
	}
	if c.IndexCSV != nil && !flagChanged("index-csv") {
		inv.IndexPath = *c.IndexCSV
	}
	if c.SubmitAll != nil && !flagChanged("submit-all") {
		inv.LauncherPath = *c.SubmitAll
	}
	if c.Manifest != nil && !flagChanged("manifest") {
		inv.ManifestPath = *c.Manifest
	}
	if c.Catalog != "" && !flagChanged("catalog") {
		inv.CatalogPath = c.Catalog
	}
	if c.Policy != nil {
		inv.Policy = *c.Policy
	}
}
