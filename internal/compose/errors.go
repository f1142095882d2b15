package compose

import (
	"fmt"

	"github.com/cockroachdb/errors"

	"standin-generator/internal/common"
	"standin-generator/internal/diagnostic"
	"standin-generator/internal/model"
)

// ErrComposition marks every CompositionError.
var ErrComposition = errors.New("composition failed")

// ErrorKind identifies a validation rule.
type ErrorKind int

const (
	BaseTypeNotFirst ErrorKind = iota + 1
	DuplicateBaseType
	SealedBaseType
	NestedType
	PointerMember
	DuplicateTargetType
	OpenGenericType
	InaccessibleMember
	ReservedMemberName
	InvalidTargetType
)

// String returns the rule name.
func (k ErrorKind) String() string {
	switch k {
	case BaseTypeNotFirst:
		return "BaseTypeNotFirst"
	case DuplicateBaseType:
		return "DuplicateBaseType"
	case SealedBaseType:
		return "SealedBaseType"
	case NestedType:
		return "NestedType"
	case PointerMember:
		return "PointerMember"
	case DuplicateTargetType:
		return "DuplicateTargetType"
	case OpenGenericType:
		return "OpenGenericType"
	case InaccessibleMember:
		return "InaccessibleMember"
	case ReservedMemberName:
		return "ReservedMemberName"
	case InvalidTargetType:
		return "InvalidTargetType"
	default:
		return common.UnknownStr
	}
}

// Code returns the stable diagnostic code of the rule.
func (k ErrorKind) Code() string {
	switch k {
	case BaseTypeNotFirst:
		return diagnostic.CodeBaseTypeNotFirst
	case DuplicateBaseType:
		return diagnostic.CodeDuplicateBaseType
	case SealedBaseType:
		return diagnostic.CodeSealedBaseType
	case NestedType:
		return diagnostic.CodeNestedType
	case PointerMember:
		return diagnostic.CodePointerMember
	case DuplicateTargetType:
		return diagnostic.CodeDuplicateTargetType
	case OpenGenericType:
		return diagnostic.CodeOpenGenericType
	case InaccessibleMember:
		return diagnostic.CodeInaccessibleMember
	case ReservedMemberName:
		return diagnostic.CodeReservedMemberName
	case InvalidTargetType:
		return diagnostic.CodeInvalidTargetType
	default:
		return ""
	}
}

// CompositionError reports a target type set the generator cannot serve.
type CompositionError struct {
	Kind ErrorKind
	// Type is the offending target type.
	Type model.TargetType
	// Position is the index of Type in the set.
	Position int
	// Member is the offending member name, if any.
	Member string
	// Message is the human-readable description.
	Message string
}

func newError(kind ErrorKind, pos int, t model.TargetType, member, format string, args ...any) *CompositionError {
	return &CompositionError{
		Kind:     kind,
		Type:     t,
		Position: pos,
		Member:   member,
		Message:  fmt.Sprintf(format, args...),
	}
}

// Error implements error.
func (e *CompositionError) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Kind.Code(), e.Kind, e.Message)
}

// Is makes errors.Is(err, ErrComposition) hold.
func (e *CompositionError) Is(target error) bool {
	return target == ErrComposition
}

// Diagnostic converts the error into an error diagnostic for set.
func (e *CompositionError) Diagnostic(set model.TargetTypeSet) diagnostic.Diagnostic {
	return diagnostic.Diagnostic{
		Severity:  diagnostic.DiagnosticError,
		Code:      e.Kind.Code(),
		Message:   e.Message,
		TargetSet: set.String(),
		Member:    e.Member,
	}
}

// KindOf returns the rule of a composition error, or 0 for other errors.
func KindOf(err error) ErrorKind {
	var ce *CompositionError
	if errors.As(err, &ce) {
		return ce.Kind
	}

	return 0
}
