package naming

import (
	"fmt"
	"go/types"
	"strings"
	"unicode"

	"github.com/cespare/xxhash/v2"
	"github.com/cockroachdb/errors"

	"standin-generator/internal/common"
	"standin-generator/internal/model"
)

// DefaultSuffix is appended to every stand-in name.
const DefaultSuffix = "StandIn"

// Convention derives the stand-in type name of a target type set.
type Convention interface {
	Name(set model.TargetTypeSet) string
}

// Simple concatenates the target type names and appends Suffix,
// e.g. [calc.CalculatorBase, io.Closer] -> "CalculatorBaseCloserStandIn".
type Simple struct {
	Suffix string
}

// Name implements Convention.
func (c Simple) Name(set model.TargetTypeSet) string {
	var sb strings.Builder

	for _, t := range set {
		sb.WriteString(TypeName(t.Type))
	}

	suffix := c.Suffix
	if suffix == "" {
		suffix = DefaultSuffix
	}

	sb.WriteString(suffix)

	return sb.String()
}

// Hashed extends Simple with a short hash of the full set identity, which
// keeps sets naming same-named types from different packages apart.
type Hashed struct {
	Simple
}

// Name implements Convention.
func (c Hashed) Name(set model.TargetTypeSet) string {
	return fmt.Sprintf("%s_%08x", c.Simple.Name(set), uint32(xxhash.Sum64String(set.Key())))
}

// ByName returns the convention registered under name ("simple" or "hashed").
func ByName(name, suffix string) (Convention, error) {
	switch name {
	case "", "simple", "default":
		return Simple{Suffix: suffix}, nil
	case "hashed":
		return Hashed{Simple: Simple{Suffix: suffix}}, nil
	default:
		return nil, errors.WithHint(
			errors.Newf("unknown naming convention %q", name),
			"use \"simple\" or \"hashed\"")
	}
}

// TypeName renders a type as an identifier fragment.
// Instantiated generics are spelled "MemoryOfInt", slices "SliceOfByte".
func TypeName(t types.Type) string {
	if t == nil {
		return ""
	}

	switch tt := types.Unalias(t).(type) {
	case *types.Named:
		name := common.UpperFirst(tt.Obj().Name())
		if args := tt.TypeArgs(); args != nil && args.Len() > 0 {
			var parts []string
			for i := range args.Len() {
				parts = append(parts, TypeName(args.At(i)))
			}

			name += "Of" + strings.Join(parts, "And")
		}

		return name

	case *types.Basic:
		return identifier(tt.Name())

	case *types.Pointer:
		return "PtrTo" + TypeName(tt.Elem())

	case *types.Slice:
		return "SliceOf" + TypeName(tt.Elem())

	case *types.Array:
		return fmt.Sprintf("Array%dOf%s", tt.Len(), TypeName(tt.Elem()))

	case *types.Map:
		return "MapOf" + TypeName(tt.Key()) + "To" + TypeName(tt.Elem())

	case *types.Chan:
		return "ChanOf" + TypeName(tt.Elem())

	default:
		return identifier(tt.String())
	}
}

// identifier keeps letters and digits and capitalizes each word.
func identifier(s string) string {
	var sb strings.Builder

	upper := true

	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			upper = true
			continue
		}

		if upper {
			r = unicode.ToUpper(r)
			upper = false
		}

		sb.WriteRune(r)
	}

	return sb.String()
}

// FileName returns the snake_case Go file name of a stand-in,
// e.g. "CalculatorBaseStandIn" -> "calculator_base_stand_in.go".
func FileName(name string) string {
	var sb strings.Builder

	runes := []rune(name)
	for i, r := range runes {
		switch {
		case unicode.IsUpper(r):
			if i > 0 && (unicode.IsLower(runes[i-1]) || unicode.IsDigit(runes[i-1]) ||
				(i+1 < len(runes) && unicode.IsLower(runes[i+1]) && unicode.IsUpper(runes[i-1]))) {
				sb.WriteRune('_')
			}

			sb.WriteRune(unicode.ToLower(r))
		case r == '_':
			if i > 0 && runes[i-1] != '_' {
				sb.WriteRune('_')
			}
		default:
			sb.WriteRune(r)
		}
	}

	return sb.String() + ".go"
}
