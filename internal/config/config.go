// Package config loads and validates the YAML run configuration.
package config

import (
	"github.com/spf13/viper"

	"hamlet/internal/errors"
)

// Likelihood method names accepted by the test engine.
const (
	MethodPoisson   = "poisson"
	MethodEmpirical = "empirical"
)

// Test names accepted in tests.order.
const (
	TestLikelihood  = "likelihood"
	TestMaxMagCheck = "max_mag_check"
	TestModelMFD    = "model_mfd"
)

// Config is the complete run configuration.
type Config struct {
	Run    RunConfig    `mapstructure:"run"`
	Bins   BinConfig    `mapstructure:"bins"`
	Tests  TestsConfig  `mapstructure:"tests"`
	Input  InputConfig  `mapstructure:"input"`
	Output OutputConfig `mapstructure:"output"`
	Report ReportConfig `mapstructure:"report"`
}

// RunConfig holds execution-wide settings.
type RunConfig struct {
	Parallel bool   `mapstructure:"parallel"`
	Workers  int    `mapstructure:"workers"`   // 0 means one per CPU
	RandSeed uint64 `mapstructure:"rand_seed"` // 0 means seed from the clock
}

// BinConfig defines the shared magnitude binning.
type BinConfig struct {
	MinMag   float64 `mapstructure:"mfd_bin_min"`
	MaxMag   float64 `mapstructure:"mfd_bin_max"`
	BinWidth float64 `mapstructure:"mfd_bin_width"`
}

// TestsConfig selects and parameterizes the evaluations, in run order.
type TestsConfig struct {
	Order      []string         `mapstructure:"order"`
	Likelihood LikelihoodConfig `mapstructure:"likelihood"`
	MaxMag     MaxMagConfig     `mapstructure:"max_mag_check"`
	ModelMFD   ModelMFDConfig   `mapstructure:"model_mfd"`
}

// LikelihoodConfig parameterizes the MFD likelihood test.
type LikelihoodConfig struct {
	Method            string  `mapstructure:"likelihood_method"`
	NIters            int     `mapstructure:"n_iters"`
	InvestigationTime float64 `mapstructure:"investigation_time"`
	NotModeledVal     float64 `mapstructure:"not_modeled_val"`
	DefaultLikelihood float64 `mapstructure:"default_likelihood"`
}

// MaxMagConfig parameterizes the maximum-magnitude sanity check.
type MaxMagConfig struct {
	AppendCheck bool `mapstructure:"append_check"`
	Warn        bool `mapstructure:"warn"`
}

// ModelMFDConfig parameterizes the model-vs-observed MFD comparison.
type ModelMFDConfig struct {
	InvestigationTime float64 `mapstructure:"investigation_time"`
	OutFile           string  `mapstructure:"out_file"` // .csv or .xlsx
}

// InputConfig names the pre-binned input tables.
type InputConfig struct {
	RuptureFile            string  `mapstructure:"rupture_file"`
	CatalogFile            string  `mapstructure:"seis_catalog_file"`
	ProspectiveCatalogFile string  `mapstructure:"prospective_catalog_file"`
	CatalogDurationYears   float64 `mapstructure:"catalog_duration_years"`
}

// OutputConfig names the optional result outputs. Empty fields mean the
// feature is absent and bypassed.
type OutputConfig struct {
	BinFile     string `mapstructure:"bin_file"`
	DatabaseURL string `mapstructure:"database_url"`
}

// ReportConfig names the optional HTML report.
type ReportConfig struct {
	HTMLFile string `mapstructure:"html_file"`
	Title    string `mapstructure:"title"`
}

// Load reads the configuration file, applies defaults and env overrides,
// and validates the result.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	setDefaults(v)

	v.SetEnvPrefix("HAMLET")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("run.parallel", false)
	v.SetDefault("run.workers", 0)
	v.SetDefault("run.rand_seed", 0)

	v.SetDefault("bins.mfd_bin_min", 6.0)
	v.SetDefault("bins.mfd_bin_max", 9.0)
	v.SetDefault("bins.mfd_bin_width", 0.2)

	v.SetDefault("tests.order", []string{TestLikelihood})
	v.SetDefault("tests.likelihood.likelihood_method", MethodPoisson)
	v.SetDefault("tests.likelihood.n_iters", 1000)
	v.SetDefault("tests.likelihood.investigation_time", 40.0)
	v.SetDefault("tests.likelihood.not_modeled_val", 0.0)
	v.SetDefault("tests.likelihood.default_likelihood", 1.0)
	v.SetDefault("tests.max_mag_check.append_check", true)
	v.SetDefault("tests.max_mag_check.warn", true)
	v.SetDefault("tests.model_mfd.investigation_time", 40.0)
}

// Validate checks the configuration for contract violations. Invalid input
// fails immediately; it is never coerced.
func (c *Config) Validate() error {
	switch c.Tests.Likelihood.Method {
	case MethodPoisson, MethodEmpirical:
	default:
		return errors.ConfigInvalid("unknown likelihood method: " + c.Tests.Likelihood.Method)
	}

	for _, name := range c.Tests.Order {
		switch name {
		case TestLikelihood, TestMaxMagCheck, TestModelMFD:
		default:
			return errors.ConfigInvalid("unknown test: " + name)
		}
	}

	if c.Tests.Likelihood.Method == MethodEmpirical && c.Tests.Likelihood.NIters <= 0 {
		return errors.ConfigInvalid("empirical method requires a positive n_iters")
	}
	if c.Tests.Likelihood.InvestigationTime <= 0 {
		return errors.ConfigInvalid("investigation_time must be positive")
	}
	if c.Bins.BinWidth <= 0 {
		return errors.ConfigInvalid("mfd_bin_width must be positive")
	}
	if c.Bins.MaxMag < c.Bins.MinMag {
		return errors.ConfigInvalid("mfd_bin_max must not be below mfd_bin_min")
	}
	return nil
}

// HasProspective reports whether a prospective catalog was configured.
func (c *Config) HasProspective() bool {
	return c.Input.ProspectiveCatalogFile != ""
}
