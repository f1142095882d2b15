package diagnostic

// Stable diagnostic codes.
const (
	CodeBaseTypeNotFirst    = "ST001"
	CodeDuplicateBaseType   = "ST002"
	CodeSealedBaseType      = "ST003"
	CodeNestedType          = "ST004"
	CodePointerMember       = "ST005"
	CodeDuplicateTargetType = "ST006"
	CodeOpenGenericType     = "ST007"
	CodeInaccessibleMember  = "ST008"
	CodeReservedMemberName  = "ST009"
	CodeNameCollision       = "ST010"
	CodeInvalidTargetType   = "ST011"
	CodeGenerationFailed    = "ST012"
)

// Titles maps every code to a short title.
var Titles = map[string]string{
	CodeBaseTypeNotFirst:    "Base type must be the first target type",
	CodeDuplicateBaseType:   "Only one base type is allowed",
	CodeSealedBaseType:      "Base type cannot be embedded",
	CodeNestedType:          "Nested types are not supported",
	CodePointerMember:       "Members with unsafe.Pointer parameters are not supported",
	CodeDuplicateTargetType: "Target type listed more than once",
	CodeOpenGenericType:     "Generic target types must be instantiated",
	CodeInaccessibleMember:  "Target type or member is not accessible",
	CodeReservedMemberName:  "Member name is reserved for stand-ins",
	CodeNameCollision:       "Different target type sets map to the same name",
	CodeInvalidTargetType:   "Target is not a named type",
	CodeGenerationFailed:    "Stand-in generation failed",
}
