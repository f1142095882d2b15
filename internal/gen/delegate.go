package gen

import (
	"bytes"
	"fmt"
	"go/ast"
	"sort"
	"strings"
	"text/template"

	"github.com/cockroachdb/errors"

	"standin-generator/internal/common"
	"standin-generator/internal/model"
	"standin-generator/internal/synth"
)

// Delegate replaces every stub body with a call into the behavior pipeline:
// the member describes itself and its arguments as an invocation, executes
// it, writes ref slots back and returns the out slots and return value. It
// also declares the member descriptor table and registers the stand-in
// factory.
type Delegate struct{}

func (Delegate) Name() string                { return "delegate" }
func (Delegate) Languages() []synth.Language { return []synth.Language{synth.Go} }
func (Delegate) Phase() synth.Phase          { return synth.Rewrite }

// Process implements synth.Processor.
func (Delegate) Process(gt *synth.GeneratedType, ctx *synth.Context) (*synth.GeneratedType, error) {
	f, err := fileOf(gt)
	if err != nil {
		return nil, err
	}

	if len(f.Stubs) == 0 && len(gt.Members) > 0 {
		return nil, errors.Wrap(synth.ErrNotApplicable, "no scaffolded members")
	}

	table := common.LowerFirst(gt.Name) + "Members"
	methods := f.Methods()

	keys := make([]string, 0, len(f.Stubs))
	for key := range f.Stubs {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	var edits []Edit

	for _, key := range keys {
		fn, ok := methods[key]
		if !ok || fn.Body == nil {
			return nil, errors.Newf("stub %s not found", key)
		}

		i := f.Stubs[key]
		body := delegateBody(f, gt, fn, gt.Members[i], i, table, ctx.Options.CallBase)
		edits = append(edits, Edit{Pos: fn.Body.Pos(), End: fn.Body.End(), Text: body})
	}

	if err := f.Apply(edits); err != nil {
		return nil, errors.Wrap(err, "rewriting member bodies")
	}

	var buf bytes.Buffer
	if err := registrationTemplate.Execute(&buf, registrationData{
		Name:    gt.Name,
		Table:   table,
		Runtime: f.Runtime(),
		Reflect: f.Reflect(),
		Members: memberLiterals(f, gt.Members),
		Targets: targetTypes(f, gt.Targets),
	}); err != nil {
		return nil, errors.Wrap(err, "executing registration template")
	}

	if err := f.Append(buf.Bytes()); err != nil {
		return nil, err
	}

	if err := f.EnsureImports(); err != nil {
		return nil, err
	}

	return gt, nil
}

// delegateBody renders the replacement body of one member declaration.
func delegateBody(f *File, gt *synth.GeneratedType, fn *ast.FuncDecl, m model.GeneratedMember, index int, table string, callBase bool) string {
	rt := f.Runtime()
	recv := fn.Recv.List[0].Names[0].Name

	self := recv
	if m.Qualified {
		self = recv + "." + gt.Name
	}

	params := fieldNames(fn.Type.Params)
	inputs := m.Inputs()

	taken := make(map[string]bool, len(params)+1)
	taken[recv] = true

	for _, p := range params {
		taken[p] = true
	}

	for _, r := range fieldNames(fn.Type.Results) {
		taken[r] = true
	}

	args := make([]string, 0, len(m.Params))

	for i, p := range inputs {
		switch p.Direction {
		case model.DirectionRef:
			args = append(args, fmt.Sprintf("%s.Ref(%q, %s)", rt, p.Name, params[i]))
		default:
			args = append(args, fmt.Sprintf("%s.In(%q, %s)", rt, p.Name, params[i]))
		}
	}

	for _, p := range m.Outputs() {
		args = append(args, fmt.Sprintf("%s.Out[%s](%q)", rt, f.Imports.Type(p.Type), p.Name))
	}

	call := fmt.Sprintf("%s.NewInvocation(%s, %s[%d]", rt, self, table, index)
	if len(args) > 0 {
		call += ", " + strings.Join(args, ", ")
	}

	call += ")"

	if callBase && m.FromBase && !m.Abstract && !m.Qualified {
		if base, ok := gt.Targets.Base(); ok {
			call += ".WithDefault(" + baseDefault(f, m, self+"."+base.Name()) + ")"
		}
	}

	exec := fmt.Sprintf("%s.pipeline.Execute(%s)", self, call)

	refs := m.Refs()
	if m.IsVoid() && len(refs) == 0 {
		return "{\n" + exec + "\n}"
	}

	result := uniqueIdent("result", taken, f.Imports)

	var sb strings.Builder

	sb.WriteString("{\n")
	fmt.Fprintf(&sb, "%s := %s\n", result, exec)

	for i, p := range inputs {
		if p.Direction == model.DirectionRef {
			fmt.Fprintf(&sb, "%s.WriteRef(%s, %q, %s)\n", rt, result, p.Name, params[i])
		}
	}

	if !m.IsVoid() {
		var values []string

		for _, p := range m.Outputs() {
			values = append(values, fmt.Sprintf("%s.Output[%s](%s, %q)", rt, f.Imports.Type(p.Type), result, p.Name))
		}

		values = append(values, fmt.Sprintf("%s.Return[%s](%s)", rt, f.Imports.Type(m.Return), result))
		sb.WriteString("return " + strings.Join(values, ", ") + "\n")
	}

	sb.WriteString("}")

	return sb.String()
}

// baseDefault renders a default-result synthesizer calling the embedded
// base implementation with the invocation's current argument values.
func baseDefault(f *File, m model.GeneratedMember, base string) string {
	rt := f.Runtime()

	var (
		sb       strings.Builder
		callArgs []string
		refVars  = make(map[string]string)
	)

	fmt.Fprintf(&sb, "func(inv *%s.Invocation) *%s.Result {\n", rt, rt)

	for i, p := range m.Inputs() {
		switch {
		case p.Direction == model.DirectionRef:
			v := fmt.Sprintf("ref%d", i)
			refVars[p.Name] = v
			fmt.Fprintf(&sb, "%s := %s.Value[%s](inv, %q)\n", v, rt, f.Imports.Type(p.SlotType()), p.Name)
			callArgs = append(callArgs, "&"+v)
		case p.Variadic:
			callArgs = append(callArgs, fmt.Sprintf("%s.Value[%s](inv, %q)...", rt, f.Imports.Type(p.Type), p.Name))
		default:
			callArgs = append(callArgs, fmt.Sprintf("%s.Value[%s](inv, %q)", rt, f.Imports.Type(p.Type), p.Name))
		}
	}

	call := fmt.Sprintf("%s.%s(%s)", base, m.Name, strings.Join(callArgs, ", "))

	outs := m.Outputs()
	if m.IsVoid() {
		sb.WriteString(call + "\n")
	} else {
		vars := make([]string, 0, len(outs)+1)
		for i := range outs {
			vars = append(vars, fmt.Sprintf("out%d", i))
		}

		vars = append(vars, "ret")
		fmt.Fprintf(&sb, "%s := %s\n", strings.Join(vars, ", "), call)
	}

	for _, p := range m.Refs() {
		fmt.Fprintf(&sb, "inv.Arguments.Set(%q, %s)\n", p.Name, refVars[p.Name])
	}

	for i, p := range outs {
		fmt.Fprintf(&sb, "inv.Arguments.Set(%q, out%d)\n", p.Name, i)
	}

	if m.IsVoid() {
		sb.WriteString("return inv.Void()\n")
	} else {
		sb.WriteString("return inv.Return(ret)\n")
	}

	sb.WriteString("}")

	return sb.String()
}

func fieldNames(fields *ast.FieldList) []string {
	if fields == nil {
		return nil
	}

	var names []string

	for _, field := range fields.List {
		for _, name := range field.Names {
			names = append(names, name.Name)
		}
	}

	return names
}

func memberLiterals(f *File, members []model.GeneratedMember) []string {
	rt, rf := f.Runtime(), f.Reflect()

	out := make([]string, len(members))
	for i, m := range members {
		out[i] = memberLiteral(m, rt, rf, f.Imports)
	}

	return out
}

func targetTypes(f *File, set model.TargetTypeSet) []string {
	out := make([]string, len(set))
	for i, t := range set {
		out[i] = f.Imports.Type(t.Type)
	}

	return out
}

// registrationData holds everything the registration template renders.
type registrationData struct {
	Name    string
	Table   string
	Runtime string
	Reflect string
	Members []string
	Targets []string
}

var registrationTemplate = template.Must(template.New("registration").Parse(`
var {{.Table}} = []*{{.Runtime}}.Member{
{{- range .Members}}
	{{.}},
{{- end}}
}

func init() {
	{{.Runtime}}.Register(func(behaviors ...{{.Runtime}}.Behavior) {{.Runtime}}.StandIn {
		return New{{.Name}}(behaviors...)
	}{{range .Targets}}, {{$.Reflect}}.TypeFor[{{.}}](){{end}})
}
`))
