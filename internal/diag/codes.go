package diag

import "fmt"

// Code is a compact, stable identifier for a diagnostic kind. Numeric ranges
// group codes by the component that produces them:
//
//	1xxx  type system
//	2xxx  inference engine
//	3xxx  symbol table
//	4xxx  validator (flow, assignment, residual rules)
//	5xxx  profile manager
type Code uint16

const (
	UnknownCode Code = 0

	// Type system
	TypeMismatch       Code = 1001
	IncompatibleShapes Code = 1002

	// Inference
	CannotInferType       Code = 2001
	ArgumentCountMismatch Code = 2002
	FieldNotFound         Code = 2003
	NotIndexable          Code = 2004
	NotAFunction          Code = 2005
	TypeNotStruct         Code = 2006
	NonExhaustiveMatch    Code = 2007
	InvalidOperand        Code = 2008
	RangeBoundMismatch    Code = 2009

	// Symbol table
	DuplicateDefinition Code = 3001
	UnresolvedSymbol    Code = 3002

	// Validator
	UseBeforeDefinition Code = 4001
	UnreachableCode     Code = 4002
	MissingReturn       Code = 4003
	AssignToImmutable   Code = 4004
	InvalidAssignTarget Code = 4005
	InvalidAddressOf    Code = 4006

	// Profile manager
	ProfileViolation       Code = 5001
	ProfileTypeRestricted  Code = 5002
	ProfileParamLimit      Code = 5003
	ProfileOperatorGated   Code = 5004
	NPUGateViolation       Code = 5005
	UnknownProfileName     Code = 5006
)

var codeNames = map[Code]string{
	UnknownCode:           "Unknown",
	TypeMismatch:          "TypeMismatch",
	IncompatibleShapes:    "IncompatibleShapes",
	CannotInferType:       "CannotInferType",
	ArgumentCountMismatch: "ArgumentCountMismatch",
	FieldNotFound:         "FieldNotFound",
	NotIndexable:          "NotIndexable",
	NotAFunction:          "NotAFunction",
	TypeNotStruct:         "TypeNotStruct",
	NonExhaustiveMatch:    "NonExhaustiveMatch",
	InvalidOperand:        "InvalidOperand",
	RangeBoundMismatch:    "RangeBoundMismatch",
	DuplicateDefinition:   "DuplicateDefinition",
	UnresolvedSymbol:      "UnresolvedSymbol",
	UseBeforeDefinition:   "UseBeforeDefinition",
	UnreachableCode:       "UnreachableCode",
	MissingReturn:         "MissingReturn",
	AssignToImmutable:     "AssignToImmutable",
	InvalidAssignTarget:   "InvalidAssignTarget",
	InvalidAddressOf:      "InvalidAddressOf",
	ProfileViolation:      "ProfileViolation",
	ProfileTypeRestricted: "ProfileTypeRestricted",
	ProfileParamLimit:     "ProfileParamLimit",
	ProfileOperatorGated:  "ProfileOperatorGated",
	NPUGateViolation:      "NPUGateViolation",
	UnknownProfileName:    "UnknownProfileName",
}

func (c Code) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("JN%04d", uint16(c))
}

// ID renders the canonical wire form, e.g. "JN2007".
func (c Code) ID() string {
	return fmt.Sprintf("JN%04d", uint16(c))
}
