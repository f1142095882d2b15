package config

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"

	"standin-generator/internal/analyze"
	"standin-generator/internal/gen"
	"standin-generator/internal/naming"
	"standin-generator/internal/synth"
)

const (
	// FileName is the base name of the project config file.
	FileName = "standin"
	// FileType is the format of the project config file.
	FileType = "yaml"
	// EnvPrefix prefixes every environment override.
	EnvPrefix = "STANDIN"
)

// Config holds the recognized generator options.
type Config struct {
	// Naming selects the naming convention ("simple" or "hashed").
	Naming string `mapstructure:"naming" yaml:"naming"`
	// Suffix is appended to generated type names.
	Suffix string `mapstructure:"suffix" yaml:"suffix"`
	// GeneratorMarkers are extra generator functions ("import/path.Func").
	GeneratorMarkers []string `mapstructure:"generatorMarkers" yaml:"generatorMarkers"`
	// Processors lists the stage names run per phase name.
	Processors map[string][]string `mapstructure:"processors" yaml:"processors"`
	// Package is the package clause of generated files.
	Package string `mapstructure:"package" yaml:"package"`
	// PkgPath is the import path of the output package. Unexported target
	// types are only usable when it matches their package.
	PkgPath string `mapstructure:"pkgPath" yaml:"pkgPath"`
	// Output is the directory generated files are written to.
	Output string `mapstructure:"output" yaml:"output"`
	// FileSuffix is inserted before ".go" in generated file names, e.g. "_test".
	FileSuffix string `mapstructure:"fileSuffix" yaml:"fileSuffix"`
	// DebugDir receives sources that failed to format.
	DebugDir string `mapstructure:"debugDir" yaml:"debugDir"`
	// Runtime overrides the import path of the runtime package.
	Runtime string `mapstructure:"runtime" yaml:"runtime"`
	// CallBase makes base members default to the embedded implementation.
	CallBase bool `mapstructure:"callBase" yaml:"callBase"`
	// Jobs bounds parallel synthesis; 0 uses one job per candidate.
	Jobs int `mapstructure:"jobs" yaml:"jobs"`
	// Patterns are the package patterns scanned for generator calls.
	Patterns []string `mapstructure:"patterns" yaml:"patterns"`
	// Tests includes test files when scanning.
	Tests bool `mapstructure:"tests" yaml:"tests"`
	// Targets are explicit target type sets, each in "import/path.Name[args]" form.
	Targets [][]string `mapstructure:"targets" yaml:"targets"`
	// LogLevel is the zap level of the CLI logger.
	LogLevel string `mapstructure:"logLevel" yaml:"logLevel"`
}

// SetDefaults registers the default of every option on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("naming", "simple")
	v.SetDefault("suffix", naming.DefaultSuffix)
	v.SetDefault("generatorMarkers", []string{})
	for phase, stages := range gen.DefaultStages() {
		v.SetDefault("processors."+phase, stages)
	}
	v.SetDefault("package", gen.DefaultPackageName)
	v.SetDefault("pkgPath", "")
	v.SetDefault("output", ".")
	v.SetDefault("fileSuffix", "")
	v.SetDefault("debugDir", "")
	v.SetDefault("runtime", gen.RuntimePath)
	v.SetDefault("callBase", false)
	v.SetDefault("jobs", 0)
	v.SetDefault("patterns", []string{"./..."})
	v.SetDefault("tests", true)
	v.SetDefault("targets", [][]string{})
	v.SetDefault("logLevel", "info")
}

// NewViper returns a viper instance with defaults and environment binding.
func NewViper() *viper.Viper {
	v := viper.New()

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	SetDefaults(v)

	return v
}

// Load reads standin.yaml from dir when present and applies environment
// overrides. A missing file is not an error.
func Load(dir string) (*Config, error) {
	v := NewViper()
	v.SetConfigName(FileName)
	v.SetConfigType(FileType)
	v.AddConfigPath(dir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, errors.Wrapf(err, "failed to read config in %s", dir)
		}
	}

	return LoadWithViper(v)
}

// LoadFile reads the config file at path.
func LoadFile(path string) (*Config, error) {
	v := NewViper()
	v.SetConfigFile(path)

	if filepath.Ext(path) == "" {
		v.SetConfigType(FileType)
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "failed to read config file %s", path)
	}

	return LoadWithViper(v)
}

// LoadWithViper unmarshals and validates the settings of v.
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Default returns the configuration used when nothing is configured.
func Default() *Config {
	cfg, err := LoadWithViper(NewViper())
	if err != nil {
		panic(err)
	}

	return cfg
}

// Validate checks option values that can be checked without loading packages.
func (c *Config) Validate() error {
	if _, err := c.Convention(); err != nil {
		return err
	}

	for phase, stages := range c.Processors {
		p, ok := synth.ParsePhase(phase)
		if !ok {
			return errors.WithHint(
				errors.Newf("processors: unknown phase %q", phase),
				"phases are prepare, scaffold, rewrite and fixup")
		}

		for _, name := range stages {
			if _, err := gen.NewStage(name, p); err != nil {
				return errors.Wrap(err, "processors")
			}
		}
	}

	if c.Jobs < 0 {
		return errors.Newf("jobs must not be negative, got %d", c.Jobs)
	}

	for i, set := range c.Targets {
		if len(set) == 0 {
			return errors.Newf("targets[%d] is empty", i)
		}
	}

	if c.Package != "" && !isIdentifier(c.Package) {
		return errors.Newf("package %q is not a valid identifier", c.Package)
	}

	return nil
}

func isIdentifier(s string) bool {
	for i, r := range s {
		switch {
		case r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}

	return s != ""
}

// Convention returns the configured naming convention.
func (c *Config) Convention() (naming.Convention, error) {
	return naming.ByName(c.Naming, c.Suffix)
}

// Markers returns the runtime generator functions followed by the configured ones.
func (c *Config) Markers() []string {
	markers := slices.Clone(analyze.DefaultMarkers)
	if c.Runtime != "" && c.Runtime != gen.RuntimePath {
		for i, m := range markers {
			markers[i] = c.Runtime + strings.TrimPrefix(m, gen.RuntimePath)
		}
	}

	for _, m := range c.GeneratorMarkers {
		if !slices.Contains(markers, m) {
			markers = append(markers, m)
		}
	}

	return markers
}

// Generator returns the emission settings.
func (c *Config) Generator() gen.GeneratorConfig {
	return gen.GeneratorConfig{
		RuntimePath: c.Runtime,
		OutputDir:   c.Output,
		DebugDir:    c.DebugDir,
		Stages:      c.Processors,
	}
}

// Options returns the synthesis options.
func (c *Config) Options() synth.Options {
	return synth.Options{
		Package:  c.Package,
		PkgPath:  c.PkgPath,
		CallBase: c.CallBase,
	}
}

// Exists reports whether dir holds a project config file.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, FileName+"."+FileType))
	return err == nil
}
