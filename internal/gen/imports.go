package gen

import (
	"go/token"
	"go/types"
	"sort"
	"strconv"

	"golang.org/x/tools/go/ast/astutil"

	"standin-generator/internal/common"
)

// Imports assigns a unique alias to every package referenced by generated code.
type Imports struct {
	self     string
	aliases  map[string]string
	names    map[string]string
	used     map[string]bool
	reserved map[string]bool
}

// NewImports creates an alias table for code generated into package self.
func NewImports(self string) *Imports {
	return &Imports{
		self:     self,
		aliases:  make(map[string]string),
		names:    make(map[string]string),
		used:     make(map[string]bool),
		reserved: make(map[string]bool),
	}
}

// Reserve keeps packages from being imported as alias, e.g. because
// generated bodies declare it as a local name.
func (im *Imports) Reserve(alias string) {
	im.reserved[alias] = true
}

// Add registers a package and returns its alias. Name is the declared
// package name, falling back to the last path element.
func (im *Imports) Add(path, name string) string {
	if path == "" || path == im.self {
		return ""
	}

	if alias, ok := im.aliases[path]; ok {
		return alias
	}

	if name == "" {
		name = common.PkgAlias(path)
	}

	if !token.IsIdentifier(name) {
		name = "pkg"
	}

	alias := name
	for i := 2; im.used[alias] || im.reserved[alias]; i++ {
		alias = name + strconv.Itoa(i)
	}

	im.aliases[path] = alias
	im.names[path] = name
	im.used[alias] = true

	return alias
}

// Qualifier renders package references with their aliases, registering
// packages on first use.
func (im *Imports) Qualifier() types.Qualifier {
	return func(p *types.Package) string {
		return im.Add(p.Path(), p.Name())
	}
}

// Type renders t as a Go type expression.
func (im *Imports) Type(t types.Type) string {
	return types.TypeString(t, im.Qualifier())
}

// Alias returns the alias of an already registered package.
func (im *Imports) Alias(path string) (string, bool) {
	alias, ok := im.aliases[path]
	return alias, ok
}

// Taken reports whether name is the alias of an imported package.
func (im *Imports) Taken(name string) bool {
	return im.used[name]
}

// Paths returns the registered import paths, sorted.
func (im *Imports) Paths() []string {
	paths := make([]string, 0, len(im.aliases))
	for p := range im.aliases {
		paths = append(paths, p)
	}

	sort.Strings(paths)

	return paths
}

// EnsureImports adds an import spec for every registered package missing
// from the file.
func (f *File) EnsureImports() error {
	changed := false

	for _, path := range f.Imports.Paths() {
		alias := f.Imports.aliases[path]

		name := alias
		if alias == f.Imports.names[path] && alias == common.PkgAlias(path) {
			name = ""
		}

		if astutil.AddNamedImport(f.Fset, f.AST, name, path) {
			changed = true
		}
	}

	if !changed {
		return nil
	}

	return f.Sync()
}
