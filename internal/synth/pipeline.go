package synth

import (
	"slices"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"standin-generator/internal/model"
)

// Pipeline holds the registered stages, scaffolders and syntax factories.
// Configure it before running; it is read-only during synthesis.
type Pipeline struct {
	processors  []Processor
	scaffolders map[Language]Scaffolder
	factories   map[Language]SyntaxFactory
}

// NewPipeline returns an empty pipeline.
func NewPipeline() *Pipeline {
	return &Pipeline{
		scaffolders: make(map[Language]Scaffolder),
		factories:   make(map[Language]SyntaxFactory),
	}
}

// Register appends stages in registration order.
func (p *Pipeline) Register(procs ...Processor) *Pipeline {
	p.processors = append(p.processors, procs...)
	return p
}

// SetScaffolder sets the default scaffolding strategy of a language.
func (p *Pipeline) SetScaffolder(lang Language, s Scaffolder) *Pipeline {
	p.scaffolders[lang] = s
	return p
}

// SetFactory sets the syntax factory of its language.
func (p *Pipeline) SetFactory(f SyntaxFactory) *Pipeline {
	p.factories[f.Language()] = f
	return p
}

// Stages returns the stages applying to lang, ordered by phase and then
// registration order.
func (p *Pipeline) Stages(lang Language) []Processor {
	var out []Processor

	for _, proc := range p.processors {
		if slices.Contains(proc.Languages(), lang) {
			out = append(out, proc)
		}
	}

	slices.SortStableFunc(out, func(a, b Processor) int {
		return int(a.Phase()) - int(b.Phase())
	})

	return out
}

// hasScaffold reports whether a Scaffold stage is registered among stages.
func hasScaffold(stages []Processor) bool {
	return slices.ContainsFunc(stages, func(p Processor) bool { return p.Phase() == Scaffold })
}

// Synthesize composes set and runs it through every stage of the context
// language. Composition failures are returned as *compose.CompositionError,
// stage failures as *GenerationError.
func (p *Pipeline) Synthesize(set model.TargetTypeSet, ctx *Context) (*GeneratedType, error) {
	members, err := ctx.Composer.Compose(set)
	if err != nil {
		return nil, err
	}

	gt := &GeneratedType{
		Name:     ctx.naming().Name(set),
		Targets:  set,
		Members:  members,
		Language: ctx.Language,
	}

	factory, ok := p.factories[ctx.Language]
	if !ok {
		return nil, &GenerationError{
			Name: gt.Name,
			Err:  errors.Newf("no syntax factory registered for language %q", ctx.Language),
		}
	}

	gt.Syntax, err = factory.Create(gt, ctx)
	if err != nil {
		return nil, &GenerationError{Name: gt.Name, Stage: "create", Err: err}
	}

	return p.process(gt, ctx)
}

func (p *Pipeline) process(gt *GeneratedType, ctx *Context) (*GeneratedType, error) {
	stages := p.Stages(ctx.Language)
	fallback := !hasScaffold(stages)
	logger := ctx.logger()

	for _, phase := range Phases {
		if phase == Scaffold && fallback {
			next, err := p.scaffold(gt, ctx)
			if err != nil {
				return nil, err
			}

			gt = next

			continue
		}

		for _, stage := range stages {
			if stage.Phase() != phase {
				continue
			}

			name := StageName(stage)

			next, err := stage.Process(gt, ctx)
			switch {
			case errors.Is(err, ErrNotApplicable):
				logger.Debug("stage not applicable", zap.String("stage", name), zap.Stringer("phase", phase))
				continue
			case err != nil:
				return nil, &GenerationError{Name: gt.Name, Stage: name, Phase: phase, Err: err}
			case next != nil:
				gt = next
			}

			logger.Debug("stage done", zap.String("stage", name), zap.Stringer("phase", phase))
		}
	}

	return gt, nil
}

func (p *Pipeline) scaffold(gt *GeneratedType, ctx *Context) (*GeneratedType, error) {
	s, ok := p.scaffolders[ctx.Language]
	if !ok {
		return nil, &GenerationError{
			Name:  gt.Name,
			Stage: "default scaffold",
			Phase: Scaffold,
			Err:   errors.Newf("no scaffold stage or default scaffolder for language %q", ctx.Language),
		}
	}

	next, err := s.Scaffold(gt.Name, gt, ctx)
	if err != nil {
		return nil, &GenerationError{Name: gt.Name, Stage: "default scaffold", Phase: Scaffold, Err: err}
	}

	if next == nil {
		return gt, nil
	}

	return next, nil
}

// Emit renders gt with the syntax factory of its language.
func (p *Pipeline) Emit(gt *GeneratedType, ctx *Context) ([]byte, error) {
	factory, ok := p.factories[gt.Language]
	if !ok {
		return nil, &GenerationError{
			Name: gt.Name,
			Err:  errors.Newf("no syntax factory registered for language %q", gt.Language),
		}
	}

	src, err := factory.Emit(gt, ctx)
	if err != nil {
		return nil, &GenerationError{Name: gt.Name, Stage: "emit", Err: err}
	}

	return src, nil
}
