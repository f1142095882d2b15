package synth

import (
	"fmt"
	"sync"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"standin-generator/internal/compose"
	"standin-generator/internal/diagnostic"
	"standin-generator/internal/model"
	"standin-generator/internal/naming"
)

// Candidate is one generation request.
type Candidate struct {
	Targets model.TargetTypeSet
	// Position is the request site, e.g. "calc_test.go:12:9".
	Position string
}

// Artifact is the emitted source of one stand-in.
type Artifact struct {
	Name     string
	FileName string
	Targets  model.TargetTypeSet
	Type     *GeneratedType
	Source   []byte
}

// Report is the outcome of a run.
type Report struct {
	// Artifacts holds one entry per distinct stand-in, in candidate order.
	Artifacts   []Artifact
	Diagnostics diagnostic.Diagnostics
	// Skipped counts candidates collapsed into an earlier identical request.
	Skipped int
}

// Dedup tracks the stand-in names claimed during one run. It is safe for
// concurrent use.
type Dedup struct {
	mu    sync.Mutex
	names map[string]string
}

// NewDedup returns an empty name set.
func NewDedup() *Dedup {
	return &Dedup{names: make(map[string]string)}
}

// Claim records name for the target set identified by key. It returns true
// for the first claim, false when the same set already claimed the name,
// and an error when a different set did.
func (d *Dedup) Claim(name, key string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	owner, ok := d.names[name]
	switch {
	case !ok:
		d.names[name] = key
		return true, nil
	case owner == key:
		return false, nil
	default:
		return false, errors.Newf("name %s is already used by target set [%s]", name, owner)
	}
}

// Len returns the number of claimed names.
func (d *Dedup) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	return len(d.names)
}

// outcome is the result of one candidate.
type outcome struct {
	artifact *Artifact
	diags    diagnostic.Diagnostics
}

// Run synthesizes and emits every candidate, at most jobs at a time
// (unlimited when jobs <= 0). Candidates are claimed by name in candidate
// order before any work starts, so the report is identical for every jobs
// value. Composition and stage failures become diagnostics of their
// candidate only; Run returns an error only when ctx is cancelled.
func (p *Pipeline) Run(ctx *Context, candidates []Candidate, jobs int) (*Report, error) {
	report := &Report{}
	dedup := NewDedup()
	conv := ctx.naming()

	var work []int

	outcomes := make([]outcome, len(candidates))

	for i, c := range candidates {
		name := conv.Name(c.Targets)

		first, err := dedup.Claim(name, c.Targets.Key())
		switch {
		case err != nil:
			outcomes[i].diags.Add(diagnostic.Diagnostic{
				Severity:  diagnostic.DiagnosticError,
				Code:      diagnostic.CodeNameCollision,
				Message:   err.Error(),
				TargetSet: c.Targets.String(),
				Position:  c.Position,
				Suggestions: []string{
					"use the hashed naming convention",
				},
			})
		case !first:
			report.Skipped++
		default:
			work = append(work, i)
		}
	}

	g, gctx := errgroup.WithContext(ctx.stdContext())
	if jobs > 0 {
		g.SetLimit(jobs)
	}

	for _, i := range work {
		g.Go(func() error {
			c := candidates[i]
			jobCtx := ctx.with(gctx, ctx.logger().With(zap.String("targets", c.Targets.String())))

			out, err := p.runOne(jobCtx, c)
			if err != nil {
				return err
			}

			outcomes[i] = out

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(err, "synthesis cancelled")
	}

	for i := range outcomes {
		if a := outcomes[i].artifact; a != nil {
			report.Artifacts = append(report.Artifacts, *a)
		}

		report.Diagnostics.Merge(outcomes[i].diags)
	}

	return report, nil
}

// runOne synthesizes one candidate. The only error it returns is the
// cancellation of ctx, checked before emission.
func (p *Pipeline) runOne(ctx *Context, c Candidate) (outcome, error) {
	var out outcome

	gt, err := p.Synthesize(c.Targets, ctx)
	if err != nil {
		p.report(&out.diags, ctx, c, err)
		return out, nil
	}

	if err := ctx.stdContext().Err(); err != nil {
		return out, err
	}

	src, err := p.Emit(gt, ctx)
	if err != nil {
		p.report(&out.diags, ctx, c, err)
		return out, nil
	}

	ctx.logger().Debug("stand-in generated", zap.String("name", gt.Name), zap.Int("members", len(gt.Members)))

	out.artifact = &Artifact{
		Name:     gt.Name,
		FileName: naming.FileName(gt.Name),
		Targets:  c.Targets,
		Type:     gt,
		Source:   src,
	}

	return out, nil
}

// report turns a synthesis error into diagnostics. Composition failures
// report every rule violation of the set.
func (p *Pipeline) report(diags *diagnostic.Diagnostics, ctx *Context, c Candidate, err error) {
	var (
		ce *compose.CompositionError
		ge *GenerationError
	)

	switch {
	case errors.As(err, &ce):
		for _, v := range ctx.Composer.Validate(c.Targets) {
			d := v.Diagnostic(c.Targets)
			d.Position = c.Position
			diags.Add(d)
		}
	case errors.As(err, &ge):
		d := ge.Diagnostic(c.Targets)
		d.Position = c.Position
		diags.Add(d)
	default:
		diags.Add(diagnostic.Diagnostic{
			Severity:  diagnostic.DiagnosticError,
			Code:      diagnostic.CodeGenerationFailed,
			Message:   fmt.Sprintf("generate [%s]: %v", c.Targets, err),
			TargetSet: c.Targets.String(),
			Position:  c.Position,
		})
	}

	ctx.logger().Warn("stand-in skipped", zap.Error(err))
}
