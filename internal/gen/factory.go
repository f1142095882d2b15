package gen

import (
	"go/format"

	"github.com/cockroachdb/errors"

	"standin-generator/internal/naming"
	"standin-generator/internal/synth"
)

// Factory is the Go syntax factory.
type Factory struct {
	// RuntimePath is the import path of the runtime package.
	RuntimePath string
	// DebugDir receives unformattable output for inspection, when set.
	DebugDir string
}

// Language implements synth.SyntaxFactory.
func (Factory) Language() synth.Language { return synth.Go }

// Create implements synth.SyntaxFactory. The payload starts as an empty file
// of the output package.
func (fa Factory) Create(_ *synth.GeneratedType, ctx *synth.Context) (any, error) {
	pkg := ctx.Options.Package
	if pkg == "" {
		pkg = DefaultPackageName
	}

	runtime := fa.RuntimePath
	if runtime == "" {
		runtime = RuntimePath
	}

	return NewFile([]byte("package "+pkg+"\n"), ctx.Options.PkgPath, runtime)
}

// Emit implements synth.SyntaxFactory.
func (fa Factory) Emit(gt *synth.GeneratedType, _ *synth.Context) ([]byte, error) {
	f, ok := gt.Syntax.(*File)
	if !ok || f == nil {
		return nil, errors.Newf("payload of %s is %T, not a Go file", gt.Name, gt.Syntax)
	}

	formatted, err := format.Source(f.Src)
	if err != nil {
		// Keep the unformatted text around to aid debugging.
		_ = writeDebugUnformatted(fa.DebugDir, naming.FileName(gt.Name), f.Src)

		return nil, errors.Wrap(err, "formatting generated code")
	}

	return formatted, nil
}
