package gen

import (
	"fmt"
	"go/token"
	"go/types"
	"strconv"
	"strings"

	"standin-generator/internal/model"
)

// localNames are identifiers generated bodies declare. Packages never get
// these aliases.
var localNames = []string{"inv", "ret", "result", "behaviors"}

// receiverNames are tried in order for method receivers.
var receiverNames = []string{"s", "si", "standIn", "self"}

// signature is the rendered, collision-free form of a member signature.
type signature struct {
	Recv    string
	Params  []string
	Results []string
	Text    string
}

// renderSignature renders the parameter and result lists of m. Identifiers
// that would shadow a package alias or repeat another identifier are renamed;
// the declared names stay the slot names seen by behaviors.
func renderSignature(m model.GeneratedMember, im *Imports) signature {
	inputs := m.Inputs()
	outputs := m.Outputs()

	inputTypes := make([]string, len(inputs))
	for i, p := range inputs {
		inputTypes[i] = paramType(p, im)
	}

	var resultTypes []string
	for _, p := range outputs {
		resultTypes = append(resultTypes, im.Type(p.Type))
	}

	if !m.IsVoid() {
		resultTypes = append(resultTypes, im.Type(m.Return))
	}

	taken := make(map[string]bool)
	sig := signature{}

	for _, p := range inputs {
		sig.Params = append(sig.Params, uniqueIdent(p.Name, taken, im))
	}

	if m.NamedResults {
		for _, p := range outputs {
			sig.Results = append(sig.Results, uniqueIdent(p.Name, taken, im))
		}

		sig.Results = append(sig.Results, uniqueIdent(returnName(m.Signature), taken, im))
	}

	for _, name := range receiverNames {
		if !taken[name] && !im.Taken(name) {
			sig.Recv = name
			break
		}
	}

	if sig.Recv == "" {
		sig.Recv = uniqueIdent("s", taken, im)
	}

	var sb strings.Builder

	sb.WriteString("(")

	for i := range inputs {
		if i > 0 {
			sb.WriteString(", ")
		}

		sb.WriteString(sig.Params[i] + " " + inputTypes[i])
	}

	sb.WriteString(")")

	switch {
	case len(resultTypes) == 0:
	case m.NamedResults:
		parts := make([]string, len(resultTypes))
		for i, t := range resultTypes {
			parts[i] = sig.Results[i] + " " + t
		}

		sb.WriteString(" (" + strings.Join(parts, ", ") + ")")
	case len(resultTypes) == 1:
		sb.WriteString(" " + resultTypes[0])
	default:
		sb.WriteString(" (" + strings.Join(resultTypes, ", ") + ")")
	}

	sig.Text = sb.String()

	return sig
}

func paramType(p model.Parameter, im *Imports) string {
	if p.Variadic {
		return "..." + im.Type(p.Type.(*types.Slice).Elem())
	}

	return im.Type(p.Type)
}

func returnName(s model.Signature) string {
	if s.ReturnName != "" {
		return s.ReturnName
	}

	return "r" + strconv.Itoa(len(s.Outputs()))
}

// uniqueIdent returns name, or name with a numeric suffix, such that it is a
// valid identifier clashing with neither taken nor a package alias.
func uniqueIdent(name string, taken map[string]bool, im *Imports) string {
	if !token.IsIdentifier(name) || token.IsKeyword(name) {
		name = "p"
	}

	candidate := name
	for i := 1; taken[candidate] || im.Taken(candidate) || isPredeclared(candidate); i++ {
		candidate = name + strconv.Itoa(i)
	}

	taken[candidate] = true

	return candidate
}

func isPredeclared(name string) bool {
	return types.Universe.Lookup(name) != nil
}

// memberLiteral renders the runtime descriptor of m.
func memberLiteral(m model.GeneratedMember, rt, rf string, im *Imports) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "{Name: %q", m.Name)

	if m.Kind != model.KindMethod {
		fmt.Fprintf(&sb, ", Kind: %s.%s", rt, kindConst(m.Kind))
		fmt.Fprintf(&sb, ", Accessor: %s.%s", rt, accessorConst(m.Accessor))
		fmt.Fprintf(&sb, ", Property: %q", m.Property)
	}

	fmt.Fprintf(&sb, ", Owner: %q", m.Provenance.ID())

	if m.Qualified {
		sb.WriteString(", Qualified: true")
	}

	if len(m.Params) > 0 {
		fmt.Fprintf(&sb, ", Params: []%s.Param{", rt)

		for i, p := range m.Params {
			if i > 0 {
				sb.WriteString(", ")
			}

			fmt.Fprintf(&sb, "{Name: %q, Type: %s.TypeFor[%s](), Direction: %s.%s}",
				p.Name, rf, im.Type(p.SlotType()), rt, directionConst(p.Direction))
		}

		sb.WriteString("}")
	}

	if !m.IsVoid() {
		fmt.Fprintf(&sb, ", Return: %s.TypeFor[%s]()", rf, im.Type(m.Return))
	}

	if m.Variadic() {
		sb.WriteString(", Variadic: true")
	}

	sb.WriteString("}")

	return sb.String()
}

func kindConst(k model.Kind) string {
	switch k {
	case model.KindProperty:
		return "KindProperty"
	case model.KindIndexer:
		return "KindIndexer"
	case model.KindEvent:
		return "KindEvent"
	default:
		return "KindMethod"
	}
}

func accessorConst(a model.Accessor) string {
	switch a {
	case model.AccessorGet:
		return "AccessorGet"
	case model.AccessorSet:
		return "AccessorSet"
	case model.AccessorAdd:
		return "AccessorAdd"
	case model.AccessorRemove:
		return "AccessorRemove"
	default:
		return "AccessorInvoke"
	}
}

func directionConst(d model.Direction) string {
	switch d {
	case model.DirectionRef:
		return "DirectionRef"
	case model.DirectionOut:
		return "DirectionOut"
	default:
		return "DirectionIn"
	}
}
