package compose

import (
	"go/types"
	"slices"

	"standin-generator/internal/model"
)

// ReservedNames are method and field names every stand-in declares for itself.
var ReservedNames = []string{"StandInPipeline", "StandInView", "pipeline"}

// Composer resolves target type sets into member lists.
type Composer struct {
	// PkgPath is the import path of the package the stand-ins are generated
	// into. Unexported types and methods are only accessible from there.
	PkgPath string
}

// Compose resolves set with a Composer generating outside every target package.
func Compose(set model.TargetTypeSet) ([]model.GeneratedMember, error) {
	return Composer{}.Compose(set)
}

// Validate returns every rule violation of set, ordered by rule precedence:
// per-type rules in input order first, then rules spanning the set, then
// reserved member names. Types failing a per-type rule are left out of the
// set-wide rules so each violation is reported once.
func (c Composer) Validate(set model.TargetTypeSet) []*CompositionError {
	var errs []*CompositionError

	valid := make([]bool, len(set))

	for pos, t := range set {
		if err := c.checkType(pos, t); err != nil {
			errs = append(errs, err)
			continue
		}

		valid[pos] = true
	}

	errs = append(errs, checkSet(set, valid)...)

	base := ""

	for pos, t := range set {
		if valid[pos] && !t.IsInterface() {
			base = t.Name()
			break
		}
	}

	for pos, t := range set {
		if !valid[pos] {
			continue
		}

		for _, cand := range c.emitted(t) {
			name := cand.fn.Name()

			switch {
			case slices.Contains(ReservedNames, name):
				errs = append(errs, newError(ReservedMemberName, pos, t, name,
					"%s declares %s, which stand-ins reserve for themselves", t, name))
			case name == base:
				errs = append(errs, newError(ReservedMemberName, pos, t, name,
					"%s declares %s, which names the embedded base type field", t, name))
			}
		}
	}

	return errs
}

// checkType applies the rules that concern a single target type.
func (c Composer) checkType(pos int, t model.TargetType) *CompositionError {
	named, ok := t.Named()
	if !ok {
		return newError(InvalidTargetType, pos, t, "", "%s is not a named type", t)
	}

	if named.TypeParams().Len() > 0 && named.TypeArgs().Len() == 0 {
		return newError(OpenGenericType, pos, t, "",
			"%s is generic and must be instantiated with type arguments", t)
	}

	obj := named.Obj()
	if obj.Pkg() != nil && obj.Parent() != nil && obj.Parent() != obj.Pkg().Scope() {
		return newError(NestedType, pos, t, "", "%s is declared inside a function", t)
	}

	for _, cand := range methodsOf(t) {
		if usesUnsafePointer(cand.fn) {
			return newError(PointerMember, pos, t, cand.fn.Name(),
				"%s.%s takes an unsafe.Pointer parameter", t, cand.fn.Name())
		}
	}

	if !t.IsInterface() {
		if _, isStruct := named.Underlying().(*types.Struct); !isStruct {
			return newError(SealedBaseType, pos, t, "",
				"%s is not a struct type and cannot be embedded as a base type", t)
		}
	}

	if t.PkgPath() != "" && t.PkgPath() != c.PkgPath {
		if err := c.checkExported(pos, t, obj); err != nil {
			return err
		}
	}

	for _, cand := range c.emitted(t) {
		sig := cand.fn.Type().(*types.Signature)
		if obj := inaccessible(sig, c.PkgPath); obj != nil {
			return newError(InaccessibleMember, pos, t, cand.fn.Name(),
				"%s.%s uses %s, which is not exported from %s",
				t, cand.fn.Name(), obj.Name(), obj.Pkg().Path())
		}
	}

	return nil
}

// checkExported rejects t when it or one of its interface methods cannot
// be named outside its package.
func (c Composer) checkExported(pos int, t model.TargetType, obj *types.TypeName) *CompositionError {
	if !obj.Exported() {
		return newError(InaccessibleMember, pos, t, "",
			"%s is not exported from %s", t, t.PkgPath())
	}

	if t.IsInterface() {
		for _, cand := range methodsOf(t) {
			if !cand.fn.Exported() {
				return newError(InaccessibleMember, pos, t, cand.fn.Name(),
					"%s has unexported method %s and can only be implemented inside %s",
					t, cand.fn.Name(), cand.fn.Pkg().Path())
			}
		}
	}

	return nil
}

// checkSet applies the rules spanning the whole set to the valid types.
func checkSet(set model.TargetTypeSet, valid []bool) []*CompositionError {
	var errs []*CompositionError

	for pos, t := range set {
		if !valid[pos] {
			continue
		}

		for prev := range pos {
			if valid[prev] && set[prev].Equal(t) {
				errs = append(errs, newError(DuplicateTargetType, pos, t, "",
					"%s is listed at positions %d and %d", t, prev, pos))

				break
			}
		}
	}

	var bases []int

	for pos, t := range set {
		if valid[pos] && !t.IsInterface() {
			bases = append(bases, pos)
		}
	}

	switch {
	case len(bases) > 1:
		second := bases[1]
		errs = append(errs, newError(DuplicateBaseType, second, set[second], "",
			"%s and %s are both base types; only one is allowed", set[bases[0]], set[second]))
	case len(bases) == 1 && bases[0] != 0:
		pos := bases[0]
		errs = append(errs, newError(BaseTypeNotFirst, pos, set[pos], "",
			"base type %s must be the first target type, found at position %d", set[pos], pos))
	}

	return errs
}

func usesUnsafePointer(fn *types.Func) bool {
	params := fn.Type().(*types.Signature).Params()
	for i := range params.Len() {
		if basic, ok := params.At(i).Type().Underlying().(*types.Basic); ok && basic.Kind() == types.UnsafePointer {
			return true
		}
	}

	return false
}

// emitted lists the methods of t the stand-in implements: all of them
// inside the target's own package, the exported ones elsewhere.
func (c Composer) emitted(t model.TargetType) []candidate {
	var out []candidate

	for _, cand := range methodsOf(t) {
		if cand.fn.Exported() || t.PkgPath() == c.PkgPath {
			out = append(out, cand)
		}
	}

	return out
}

// inaccessible returns the first object referenced by t that code in
// package pkgPath cannot name: an unexported type, or an unexported field
// or method of an unnamed struct or interface type. Named types are not
// expanded, only their type arguments.
func inaccessible(t types.Type, pkgPath string) types.Object {
	switch t := t.(type) {
	case *types.Named:
		if hidden(t.Obj(), pkgPath) {
			return t.Obj()
		}

		return inaccessibleList(t.TypeArgs(), pkgPath)
	case *types.Alias:
		if hidden(t.Obj(), pkgPath) {
			return t.Obj()
		}

		return inaccessibleList(t.TypeArgs(), pkgPath)
	case *types.Pointer:
		return inaccessible(t.Elem(), pkgPath)
	case *types.Slice:
		return inaccessible(t.Elem(), pkgPath)
	case *types.Array:
		return inaccessible(t.Elem(), pkgPath)
	case *types.Chan:
		return inaccessible(t.Elem(), pkgPath)
	case *types.Map:
		if obj := inaccessible(t.Key(), pkgPath); obj != nil {
			return obj
		}

		return inaccessible(t.Elem(), pkgPath)
	case *types.Signature:
		if obj := inaccessibleTuple(t.Params(), pkgPath); obj != nil {
			return obj
		}

		return inaccessibleTuple(t.Results(), pkgPath)
	case *types.Struct:
		for i := range t.NumFields() {
			f := t.Field(i)
			if hidden(f, pkgPath) {
				return f
			}

			if obj := inaccessible(f.Type(), pkgPath); obj != nil {
				return obj
			}
		}
	case *types.Interface:
		for i := range t.NumExplicitMethods() {
			m := t.ExplicitMethod(i)
			if hidden(m, pkgPath) {
				return m
			}

			if obj := inaccessible(m.Type(), pkgPath); obj != nil {
				return obj
			}
		}

		for i := range t.NumEmbeddeds() {
			if obj := inaccessible(t.EmbeddedType(i), pkgPath); obj != nil {
				return obj
			}
		}
	case *types.Union:
		for i := range t.Len() {
			if obj := inaccessible(t.Term(i).Type(), pkgPath); obj != nil {
				return obj
			}
		}
	}

	return nil
}

func inaccessibleTuple(tuple *types.Tuple, pkgPath string) types.Object {
	for i := range tuple.Len() {
		if obj := inaccessible(tuple.At(i).Type(), pkgPath); obj != nil {
			return obj
		}
	}

	return nil
}

func inaccessibleList(list *types.TypeList, pkgPath string) types.Object {
	for i := range list.Len() {
		if obj := inaccessible(list.At(i), pkgPath); obj != nil {
			return obj
		}
	}

	return nil
}

// hidden reports whether obj is unexported and declared outside pkgPath.
func hidden(obj types.Object, pkgPath string) bool {
	return obj != nil && !obj.Exported() && obj.Pkg() != nil && obj.Pkg().Path() != pkgPath
}

// candidate is a method contributed by one target type.
type candidate struct {
	fn       *types.Func
	abstract bool
	origin   string
}

// methodsOf lists the methods of t in go/types order: the method set of *T
// for non-interface types and the full method set for interfaces.
func methodsOf(t model.TargetType) []candidate {
	named, ok := t.Named()
	if !ok {
		return nil
	}

	var out []candidate

	if t.IsInterface() {
		iface := named.Underlying().(*types.Interface)
		for i := range iface.NumMethods() {
			out = append(out, newCandidate(iface.Method(i)))
		}

		return out
	}

	mset := types.NewMethodSet(types.NewPointer(named))
	for i := range mset.Len() {
		if fn, ok := mset.At(i).Obj().(*types.Func); ok {
			out = append(out, newCandidate(fn))
		}
	}

	return out
}

func newCandidate(fn *types.Func) candidate {
	c := candidate{fn: fn}

	recv := fn.Type().(*types.Signature).Recv()
	if recv == nil {
		return c
	}

	rt := recv.Type()
	if ptr, ok := rt.(*types.Pointer); ok {
		rt = ptr.Elem()
	}

	c.abstract = types.IsInterface(rt)
	c.origin = types.TypeString(rt, func(p *types.Package) string { return p.Name() })

	return c
}
