package driver

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"standin-generator/internal/analyze"
	"standin-generator/internal/config"
	"standin-generator/internal/gen"
	"standin-generator/internal/plan"
	"standin-generator/internal/synth"
)

// Driver runs one configured generator.
type Driver struct {
	Config *config.Config
	// Dir is the working directory patterns and the output directory are
	// relative to.
	Dir    string
	Logger *zap.Logger
}

// New creates a driver for cfg rooted at dir.
func New(cfg *config.Config, dir string, logger *zap.Logger) *Driver {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Driver{Config: cfg, Dir: dir, Logger: logger}
}

// Result is the outcome of a generation run.
type Result struct {
	Report *synth.Report
	Files  []gen.GeneratedFile
	// Dirs lists the source directories of the loaded packages.
	Dirs []string
}

// Load loads the configured patterns.
func (d *Driver) Load(ctx context.Context) (*analyze.Program, error) {
	loader := analyze.NewLoader(d.Dir)
	loader.Tests = d.Config.Tests
	loader.Logger = d.Logger

	return loader.Load(ctx, d.Config.Patterns...)
}

// Candidates returns the discovered candidates followed by the explicit
// targets of the configuration.
func (d *Driver) Candidates(prog *analyze.Program) ([]synth.Candidate, error) {
	candidates := prog.DiscoverCandidates(d.Config.Markers())

	for i, exprs := range d.Config.Targets {
		set, err := prog.TargetSet(exprs...)
		if err != nil {
			return nil, errors.Wrapf(err, "targets[%d]", i)
		}

		candidates = append(candidates, synth.Candidate{
			Targets:  set,
			Position: fmt.Sprintf("%s.%s: targets[%d]", config.FileName, config.FileType, i),
		})
	}

	d.Logger.Debug("candidates discovered", zap.Int("count", len(candidates)))

	return candidates, nil
}

// Context returns the synthesis context of the configuration.
func (d *Driver) Context(ctx context.Context) (*synth.Context, error) {
	conv, err := d.Config.Convention()
	if err != nil {
		return nil, err
	}

	sctx := synth.NewContext(ctx, d.Config.Options())
	sctx.Naming = conv
	sctx.Logger = d.Logger

	return sctx, nil
}

// Generate synthesizes every candidate of the loaded packages. Composition
// and stage failures are reported in Result.Report.Diagnostics.
func (d *Driver) Generate(ctx context.Context) (*Result, error) {
	prog, err := d.Load(ctx)
	if err != nil {
		return nil, err
	}

	candidates, err := d.Candidates(prog)
	if err != nil {
		return nil, err
	}

	pipeline, err := gen.NewPipeline(d.Config.Generator())
	if err != nil {
		return nil, err
	}

	sctx, err := d.Context(ctx)
	if err != nil {
		return nil, err
	}

	report, err := pipeline.Run(sctx, candidates, d.Config.Jobs)
	if err != nil {
		return nil, err
	}

	d.Logger.Info("synthesis finished",
		zap.Int("candidates", len(candidates)),
		zap.Int("generated", len(report.Artifacts)),
		zap.Int("skipped", report.Skipped),
		zap.Int("errors", len(report.Diagnostics.Errors)))

	return &Result{
		Report: report,
		Files:  gen.FilesOf(report.Artifacts, d.Config.FileSuffix),
		Dirs:   SourceDirs(prog),
	}, nil
}

// Write writes the generated files to the configured output directory.
func (d *Driver) Write(res *Result) error {
	dir := d.OutputDir()
	if err := gen.WriteFiles(res.Files, dir); err != nil {
		return err
	}

	d.Logger.Info("files written", zap.String("dir", dir), zap.Int("files", len(res.Files)))

	return nil
}

// OutputDir returns the output directory resolved against Dir.
func (d *Driver) OutputDir() string {
	if filepath.IsAbs(d.Config.Output) || d.Dir == "" {
		return d.Config.Output
	}

	return filepath.Join(d.Dir, d.Config.Output)
}

// Plan composes every candidate without emitting source.
func (d *Driver) Plan(ctx context.Context) (*plan.Plan, error) {
	prog, err := d.Load(ctx)
	if err != nil {
		return nil, err
	}

	candidates, err := d.Candidates(prog)
	if err != nil {
		return nil, err
	}

	return d.plan(ctx, candidates)
}

// Inspect plans the given target sets, each a list of type expressions,
// resolved against the loaded packages.
func (d *Driver) Inspect(ctx context.Context, sets ...[]string) (*plan.Plan, error) {
	prog, err := d.Load(ctx)
	if err != nil {
		return nil, err
	}

	candidates := make([]synth.Candidate, 0, len(sets))

	for _, exprs := range sets {
		set, err := prog.TargetSet(exprs...)
		if err != nil {
			return nil, err
		}

		candidates = append(candidates, synth.Candidate{Targets: set})
	}

	return d.plan(ctx, candidates)
}

func (d *Driver) plan(ctx context.Context, candidates []synth.Candidate) (*plan.Plan, error) {
	sctx, err := d.Context(ctx)
	if err != nil {
		return nil, err
	}

	return plan.Build(candidates, sctx.Naming, sctx.Composer), nil
}

// SourceDirs returns the distinct directories holding the Go files of prog,
// sorted. Synthesized test main packages are skipped.
func SourceDirs(prog *analyze.Program) []string {
	seen := make(map[string]bool)

	var dirs []string

	for _, pkg := range prog.Packages {
		if strings.HasSuffix(pkg.ID, ".test") {
			continue
		}

		for _, f := range pkg.GoFiles {
			dir := filepath.Dir(f)
			if !seen[dir] {
				seen[dir] = true

				dirs = append(dirs, dir)
			}
		}
	}

	slices.Sort(dirs)

	return dirs
}
