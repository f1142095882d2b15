package gen

import (
	"bytes"
	"text/template"

	"github.com/cockroachdb/errors"

	"standin-generator/internal/common"
	"standin-generator/internal/model"
	"standin-generator/internal/naming"
	"standin-generator/internal/synth"
)

// scaffoldData holds everything the scaffold template renders.
type scaffoldData struct {
	Name    string
	Targets string
	Base    string
	Runtime string
	Reflect string
	Views   []viewData
	Methods []stubData
}

// viewData is a per-interface view carrying qualified members.
type viewData struct {
	Type   string
	Iface  string
	AsName string
}

// stubData is one member declaration with a placeholder body.
type stubData struct {
	Recv      string
	RecvType  string
	Name      string
	Signature string
}

// Scaffolder is the default Go scaffolding strategy. It declares the
// stand-in struct, its constructor and pipeline accessor, one view type per
// interface with qualified members, and every member with a stub body.
type Scaffolder struct{}

// Scaffold implements synth.Scaffolder.
func (Scaffolder) Scaffold(name string, gt *synth.GeneratedType, _ *synth.Context) (*synth.GeneratedType, error) {
	f, err := fileOf(gt)
	if err != nil {
		return nil, err
	}

	data := scaffoldData{
		Name:    name,
		Targets: gt.Targets.String(),
		Runtime: f.Runtime(),
		Reflect: f.Reflect(),
	}

	for _, pkg := range gt.Targets.Packages() {
		f.Imports.Add(pkg.Path(), pkg.Name())
	}

	if base, ok := gt.Targets.Base(); ok {
		data.Base = f.Imports.Type(base.Type)
	}

	for i, m := range gt.Members {
		recvType := "*" + name
		recvName := name

		if m.Qualified {
			recvName = viewName(f, name, m.Provenance)
			recvType = recvName

			if _, seen := f.Views[m.Provenance.ID()]; !seen {
				f.Views[m.Provenance.ID()] = recvName
				data.Views = append(data.Views, viewData{
					Type:   recvName,
					Iface:  f.Imports.Type(m.Provenance.Type),
					AsName: "As" + naming.TypeName(m.Provenance.Type),
				})
			}
		}

		sig := renderSignature(m, f.Imports)
		data.Methods = append(data.Methods, stubData{
			Recv:      sig.Recv,
			RecvType:  recvType,
			Name:      m.Name,
			Signature: sig.Text,
		})

		f.Stubs[StubKey(recvName, m.Name)] = i
	}

	var buf bytes.Buffer
	if err := scaffoldTemplate.Execute(&buf, data); err != nil {
		return nil, errors.Wrap(err, "executing scaffold template")
	}

	if err := f.Append(buf.Bytes()); err != nil {
		return nil, err
	}

	if err := f.EnsureImports(); err != nil {
		return nil, err
	}

	return gt, nil
}

// viewName returns the view type name for target interface t.
func viewName(f *File, name string, t model.TargetType) string {
	if v, ok := f.Views[t.ID()]; ok {
		return v
	}

	return common.LowerFirst(name) + naming.TypeName(t.Type) + "View"
}

// ScaffoldStage registers the default scaffolding as an explicit Scaffold stage.
type ScaffoldStage struct {
	Scaffolder
}

func (ScaffoldStage) Name() string                { return "scaffold" }
func (ScaffoldStage) Languages() []synth.Language { return []synth.Language{synth.Go} }
func (ScaffoldStage) Phase() synth.Phase          { return synth.Scaffold }

// Process implements synth.Processor.
func (s ScaffoldStage) Process(gt *synth.GeneratedType, ctx *synth.Context) (*synth.GeneratedType, error) {
	return s.Scaffold(gt.Name, gt, ctx)
}

var scaffoldTemplate = template.Must(template.New("scaffold").Parse(`
// {{.Name}} is a stand-in for {{.Targets}}.
type {{.Name}} struct {
{{- if .Base}}
	{{.Base}}
{{- end}}
	pipeline *{{.Runtime}}.Pipeline
}

// New{{.Name}} creates a {{.Name}} running behaviors in order.
func New{{.Name}}(behaviors ...{{.Runtime}}.Behavior) *{{.Name}} {
	return &{{.Name}}{pipeline: {{.Runtime}}.NewPipeline(behaviors...)}
}

// StandInPipeline returns the behavior pipeline of the stand-in.
func (s *{{.Name}}) StandInPipeline() *{{.Runtime}}.Pipeline {
	return s.pipeline
}
{{if .Views}}
// StandInView returns the view implementing t for interfaces the stand-in
// only satisfies through qualified members.
func (s *{{.Name}}) StandInView(t {{.Reflect}}.Type) (any, bool) {
	switch t {
{{- range .Views}}
	case {{$.Reflect}}.TypeFor[{{.Iface}}]():
		return {{.Type}}{s}, true
{{- end}}
	}

	return nil, false
}
{{end}}
{{- range .Views}}
type {{.Type}} struct{ *{{$.Name}} }

// {{.AsName}} returns the stand-in as a {{.Iface}}.
func (s *{{$.Name}}) {{.AsName}}() {{.Iface}} {
	return {{.Type}}{s}
}
{{end}}
{{- range .Methods}}
func ({{.Recv}} {{.RecvType}}) {{.Name}}{{.Signature}} {
	panic("not implemented")
}
{{end}}`))
