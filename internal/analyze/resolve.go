package analyze

import (
	"go/types"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"

	"standin-generator/internal/model"
)

// Resolver looks up types by their textual, package-qualified form.
type Resolver struct {
	pkgs map[string]*types.Package
}

// NewResolver indexes pkgs and everything they import.
func NewResolver(pkgs ...*types.Package) *Resolver {
	r := &Resolver{pkgs: make(map[string]*types.Package)}
	for _, p := range pkgs {
		r.Add(p)
	}

	return r
}

// Add indexes p and its transitive imports.
func (r *Resolver) Add(p *types.Package) {
	if p == nil {
		return
	}

	if _, ok := r.pkgs[p.Path()]; ok {
		return
	}

	r.pkgs[p.Path()] = p
	for _, imp := range p.Imports() {
		r.Add(imp)
	}
}

// Package returns the indexed package with the given import path.
func (r *Resolver) Package(path string) (*types.Package, bool) {
	p, ok := r.pkgs[path]
	return p, ok
}

// Paths returns the indexed import paths, sorted.
func (r *Resolver) Paths() []string {
	paths := make([]string, 0, len(r.pkgs))
	for p := range r.pkgs {
		paths = append(paths, p)
	}

	slices.Sort(paths)

	return paths
}

// ResolveTarget resolves expr to a type. Supported forms are predeclared
// names ("error"), "import/path.Name" and instantiations such as
// "example.com/calc.Memory[int, example.com/calc.Unit]".
func (r *Resolver) ResolveTarget(expr string) (types.Type, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, errors.New("empty type expression")
	}

	head, args, err := splitTypeArgs(expr)
	if err != nil {
		return nil, err
	}

	obj, err := r.lookup(head)
	if err != nil {
		return nil, err
	}

	if args == nil {
		return obj.Type(), nil
	}

	targs := make([]types.Type, len(args))
	for i, a := range args {
		if targs[i], err = r.ResolveTarget(a); err != nil {
			return nil, errors.Wrapf(err, "type argument %d of %s", i, head)
		}
	}

	inst, err := types.Instantiate(nil, obj.Type(), targs, true)
	if err != nil {
		return nil, errors.Wrapf(err, "instantiate %s", expr)
	}

	return inst, nil
}

// TargetSet resolves every expression, preserving order.
func (r *Resolver) TargetSet(exprs ...string) (model.TargetTypeSet, error) {
	ts := make([]types.Type, len(exprs))

	for i, e := range exprs {
		t, err := r.ResolveTarget(e)
		if err != nil {
			return nil, err
		}

		ts[i] = t
	}

	return model.NewTargetTypeSet(ts...), nil
}

// lookup finds the type name for "path.Name" or a predeclared name.
func (r *Resolver) lookup(name string) (*types.TypeName, error) {
	dot := strings.LastIndex(name, ".")
	if dot < 0 {
		if tn, ok := types.Universe.Lookup(name).(*types.TypeName); ok {
			return tn, nil
		}

		return nil, errors.Newf("%q is not a predeclared type; use the import/path.Name form", name)
	}

	path, typeName := name[:dot], name[dot+1:]

	pkg, ok := r.pkgs[path]
	if !ok {
		return nil, errors.WithHint(
			errors.Newf("package %q is not loaded", path),
			"add a pattern matching the package that declares the target type")
	}

	obj := pkg.Scope().Lookup(typeName)
	if obj == nil {
		return nil, errors.Newf("type %s not found in %s", typeName, path)
	}

	tn, ok := obj.(*types.TypeName)
	if !ok {
		return nil, errors.Newf("%s.%s is not a type", path, typeName)
	}

	return tn, nil
}

// splitTypeArgs splits "Name[A, B[C]]" into "Name" and ["A", "B[C]"].
// Expressions without brackets return nil args.
func splitTypeArgs(expr string) (string, []string, error) {
	open := strings.IndexByte(expr, '[')
	if open < 0 {
		return expr, nil, nil
	}

	if !strings.HasSuffix(expr, "]") {
		return "", nil, errors.Newf("malformed type expression %q", expr)
	}

	head := expr[:open]
	inner := expr[open+1 : len(expr)-1]

	var (
		args  []string
		depth int
		start int
	)

	for i, c := range inner {
		switch c {
		case '[':
			depth++
		case ']':
			depth--
			if depth < 0 {
				return "", nil, errors.Newf("malformed type expression %q", expr)
			}
		case ',':
			if depth == 0 {
				args = append(args, strings.TrimSpace(inner[start:i]))
				start = i + 1
			}
		}
	}

	if depth != 0 {
		return "", nil, errors.Newf("malformed type expression %q", expr)
	}

	args = append(args, strings.TrimSpace(inner[start:]))
	if slices.Contains(args, "") {
		return "", nil, errors.Newf("empty type argument in %q", expr)
	}

	return head, args, nil
}
