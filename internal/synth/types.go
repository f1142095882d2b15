package synth

import (
	"context"
	"fmt"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"standin-generator/internal/compose"
	"standin-generator/internal/model"
	"standin-generator/internal/naming"
)

// ErrNotApplicable is returned by a stage that cannot process a payload.
// The payload is left unchanged and the run continues with the next stage.
var ErrNotApplicable = errors.New("stage not applicable")

// GeneratedType is the stand-in being synthesized.
type GeneratedType struct {
	// Name is the stand-in type name derived by the naming convention.
	Name string
	// Targets is the target type set the stand-in implements.
	Targets model.TargetTypeSet
	// Members is the composed member set.
	Members []model.GeneratedMember
	// Language is the language of Syntax.
	Language Language
	// Syntax is the language-specific abstract payload.
	Syntax any
}

// Processor is one stage of the synthesis pipeline.
type Processor interface {
	// Languages lists the languages the stage applies to.
	Languages() []Language
	// Phase returns the phase the stage runs in.
	Phase() Phase
	// Process transforms the accumulated payload. Returning ErrNotApplicable
	// leaves gt unchanged; any other error aborts the stand-in.
	Process(gt *GeneratedType, ctx *Context) (*GeneratedType, error)
}

// Scaffolder synthesizes the structural skeleton when no Scaffold stage is
// registered for a language.
type Scaffolder interface {
	Scaffold(name string, gt *GeneratedType, ctx *Context) (*GeneratedType, error)
}

// SyntaxFactory creates and emits the payload of one language.
type SyntaxFactory interface {
	Language() Language
	// Create returns the initial, empty payload for gt.
	Create(gt *GeneratedType, ctx *Context) (any, error)
	// Emit renders the final payload as source text.
	Emit(gt *GeneratedType, ctx *Context) ([]byte, error)
}

// Options are the generation settings stages read from the context.
type Options struct {
	// Package is the name of the output package.
	Package string
	// PkgPath is the import path of the output package.
	PkgPath string
	// CallBase makes base members fall back to the embedded implementation.
	CallBase bool
}

// Context carries what every stage of one run shares.
type Context struct {
	Ctx      context.Context
	Language Language
	Naming   naming.Convention
	Composer compose.Composer
	Options  Options
	Logger   *zap.Logger
}

// NewContext returns a Go context with the simple naming convention and a
// no-op logger.
func NewContext(ctx context.Context, opts Options) *Context {
	return &Context{
		Ctx:      ctx,
		Language: Go,
		Naming:   naming.Simple{},
		Composer: compose.Composer{PkgPath: opts.PkgPath},
		Options:  opts,
		Logger:   zap.NewNop(),
	}
}

// with returns a copy of c using ctx and logger.
func (c *Context) with(ctx context.Context, logger *zap.Logger) *Context {
	cp := *c
	cp.Ctx = ctx
	cp.Logger = logger

	return &cp
}

func (c *Context) logger() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}

	return c.Logger
}

func (c *Context) naming() naming.Convention {
	if c.Naming == nil {
		return naming.Simple{}
	}

	return c.Naming
}

func (c *Context) stdContext() context.Context {
	if c.Ctx == nil {
		return context.Background()
	}

	return c.Ctx
}

// StageName returns the name a stage reports itself with.
func StageName(p Processor) string {
	if named, ok := p.(interface{ Name() string }); ok {
		return named.Name()
	}

	return fmt.Sprintf("%T", p)
}
