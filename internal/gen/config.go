package gen

// RuntimePath is the import path of the runtime package generated code uses.
const RuntimePath = "standin-generator/standin"

// DefaultPackageName is the package clause of generated files when none is configured.
const DefaultPackageName = "standins"

// GeneratorConfig holds configuration for code generation.
type GeneratorConfig struct {
	// RuntimePath overrides the import path of the runtime package.
	RuntimePath string
	// OutputDir is the directory where generated files are written.
	OutputDir string
	// DebugDir receives unformattable output, when set.
	DebugDir string
	// Stages lists stage names per phase name. Nil selects DefaultStages.
	Stages map[string][]string
}

// DefaultGeneratorConfig returns the default generator configuration.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		RuntimePath: RuntimePath,
		OutputDir:   ".",
		Stages:      DefaultStages(),
	}
}

func (c GeneratorConfig) runtimePath() string {
	if c.RuntimePath == "" {
		return RuntimePath
	}

	return c.RuntimePath
}
