package gen

import (
	"bytes"
	"go/ast"
	"go/format"
	"go/parser"
	"go/token"
	"sort"

	"github.com/cockroachdb/errors"
)

// File is the Go payload of a generated type: a parsed source file kept in
// sync with its text, plus the bookkeeping the stages share.
type File struct {
	Fset *token.FileSet
	AST  *ast.File
	// Src is the text AST was parsed from.
	Src []byte
	// RuntimePath is the import path of the runtime package.
	RuntimePath string
	// Imports is the alias table used when rendering type expressions.
	Imports *Imports
	// Stubs maps "Recv.Method" of every scaffolded member to its index in
	// the generated type's member list.
	Stubs map[string]int
	// Views maps the identity of each target interface implemented through a
	// qualified view to the view type name.
	Views map[string]string
}

// NewFile parses src as the payload of a file in package pkgPath.
func NewFile(src []byte, pkgPath, runtimePath string) (*File, error) {
	f := &File{
		RuntimePath: runtimePath,
		Imports:     NewImports(pkgPath),
		Stubs:       make(map[string]int),
		Views:       make(map[string]string),
	}

	for _, name := range localNames {
		f.Imports.Reserve(name)
	}

	if err := f.parse(src); err != nil {
		return nil, err
	}

	return f, nil
}

func (f *File) parse(src []byte) error {
	fset := token.NewFileSet()

	file, err := parser.ParseFile(fset, "standin.go", src, parser.ParseComments)
	if err != nil {
		return errors.Wrap(err, "parsing generated source")
	}

	f.Fset, f.AST, f.Src = fset, file, src

	return nil
}

// Sync reprints the AST after in-place changes and reparses it, so positions
// match Src again.
func (f *File) Sync() error {
	var buf bytes.Buffer
	if err := format.Node(&buf, f.Fset, f.AST); err != nil {
		return errors.Wrap(err, "printing generated source")
	}

	return f.parse(buf.Bytes())
}

// Append adds declarations to the end of the file.
func (f *File) Append(decls []byte) error {
	src := make([]byte, 0, len(f.Src)+len(decls)+1)
	src = append(src, f.Src...)
	src = append(src, '\n')
	src = append(src, decls...)

	return f.parse(src)
}

// Prepend adds text, such as a header comment, before the package clause.
func (f *File) Prepend(text []byte) error {
	return f.parse(append(append([]byte(nil), text...), f.Src...))
}

// Edit replaces the source range [Pos, End) with Text.
type Edit struct {
	Pos, End token.Pos
	Text     string
}

// Apply performs non-overlapping edits on Src and reparses the result.
func (f *File) Apply(edits []Edit) error {
	if len(edits) == 0 {
		return nil
	}

	sorted := append([]Edit(nil), edits...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Pos < sorted[j].Pos })

	tf := f.Fset.File(f.AST.Pos())

	var (
		buf  bytes.Buffer
		last int
	)

	for _, e := range sorted {
		start, end := tf.Offset(e.Pos), tf.Offset(e.End)
		if start < last {
			return errors.Newf("overlapping edit at offset %d", start)
		}

		buf.Write(f.Src[last:start])
		buf.WriteString(e.Text)

		last = end
	}

	buf.Write(f.Src[last:])

	return f.parse(buf.Bytes())
}

// Methods returns the method declarations keyed by "Recv.Method".
func (f *File) Methods() map[string]*ast.FuncDecl {
	out := make(map[string]*ast.FuncDecl)

	for _, decl := range f.AST.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok || fn.Recv == nil || len(fn.Recv.List) == 0 {
			continue
		}

		if recv := receiverName(fn.Recv.List[0].Type); recv != "" {
			out[recv+"."+fn.Name.Name] = fn
		}
	}

	return out
}

func receiverName(expr ast.Expr) string {
	switch e := expr.(type) {
	case *ast.StarExpr:
		return receiverName(e.X)
	case *ast.Ident:
		return e.Name
	case *ast.IndexExpr:
		return receiverName(e.X)
	default:
		return ""
	}
}

// Runtime returns the alias of the runtime package, importing it if needed.
func (f *File) Runtime() string {
	return f.Imports.Add(f.RuntimePath, "standin")
}

// Reflect returns the alias of package reflect, importing it if needed.
func (f *File) Reflect() string {
	return f.Imports.Add("reflect", "reflect")
}

// StubKey returns the Stubs key of a method.
func StubKey(recv, method string) string {
	return recv + "." + method
}
