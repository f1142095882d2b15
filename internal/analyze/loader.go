package analyze

import (
	"context"
	"go/token"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"golang.org/x/tools/go/packages"
)

// LoadMode specifies what information to load from packages.
const LoadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedTypesInfo |
	packages.NeedImports

// Loader loads Go packages for discovery and target resolution.
type Loader struct {
	// Dir is the working directory patterns are resolved in ("" for the current one).
	Dir string
	// Tests includes test files and external test packages.
	Tests  bool
	Logger *zap.Logger
}

// NewLoader creates a Loader resolving patterns in dir.
func NewLoader(dir string) *Loader {
	return &Loader{Dir: dir, Tests: true, Logger: zap.NewNop()}
}

// Program is a set of loaded packages sharing one file set.
type Program struct {
	*Resolver

	Fset     *token.FileSet
	Packages []*packages.Package
}

// Load loads the packages matching patterns, e.g. "./...", "standin-generator/examples/calculator".
// Any package error fails the whole load.
func (l *Loader) Load(ctx context.Context, patterns ...string) (*Program, error) {
	fset := token.NewFileSet()
	cfg := &packages.Config{
		Context: ctx,
		Mode:    LoadMode,
		Dir:     l.Dir,
		Fset:    fset,
		Tests:   l.Tests,
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load packages")
	}

	// Check for package errors
	var errs []error
	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			errs = append(errs, e)
		}
	}
	if len(errs) > 0 {
		return nil, errors.Wrapf(errors.Join(errs...), "package errors in %v", patterns)
	}

	prog := &Program{
		Resolver: NewResolver(),
		Fset:     fset,
		Packages: pkgs,
	}

	for _, pkg := range pkgs {
		prog.Resolver.Add(pkg.Types)
		l.logger().Debug("package loaded", zap.String("id", pkg.ID), zap.Int("files", len(pkg.Syntax)))
	}

	return prog, nil
}

func (l *Loader) logger() *zap.Logger {
	if l.Logger == nil {
		return zap.NewNop()
	}

	return l.Logger
}
