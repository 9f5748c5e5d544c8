package profile

// Feature identifies a gated language capability.
type Feature uint8

const (
	FeatInvalid Feature = iota
	FeatVariables
	FeatFunctions
	FeatControlFlow
	FeatMatch
	FeatArrays
	FeatSlices
	FeatRanges
	FeatPointers
	FeatOptionals
	FeatErrorUnions
	FeatStructs
	FeatEnums
	FeatGenerics
	FeatAllocators
	FeatContextBound
	FeatEffects
	FeatActors
	FeatTensors
	FeatNPUIntrinsics
)

func (f Feature) String() string {
	if int(f) < len(featureNames) {
		return featureNames[f]
	}
	return "invalid"
}

var featureNames = [...]string{
	FeatInvalid:       "invalid",
	FeatVariables:     "variables",
	FeatFunctions:     "functions",
	FeatControlFlow:   "control_flow",
	FeatMatch:         "match",
	FeatArrays:        "arrays",
	FeatSlices:        "slices",
	FeatRanges:        "ranges",
	FeatPointers:      "pointers",
	FeatOptionals:     "optionals",
	FeatErrorUnions:   "error_unions",
	FeatStructs:       "structs",
	FeatEnums:         "enums",
	FeatGenerics:      "generics",
	FeatAllocators:    "allocators",
	FeatContextBound:  "context_bound",
	FeatEffects:       "effects",
	FeatActors:        "actors",
	FeatTensors:       "tensors",
	FeatNPUIntrinsics: "npu_intrinsics",
}

// featureFloor is the per-feature minimum profile table.
var featureFloor = map[Feature]Profile{
	FeatVariables:     Core,
	FeatFunctions:     Core,
	FeatControlFlow:   Core,
	FeatMatch:         Core,
	FeatArrays:        Core,
	FeatRanges:        Core,
	FeatSlices:        Service,
	FeatOptionals:     Service,
	FeatErrorUnions:   Service,
	FeatStructs:       Service,
	FeatEnums:         Service,
	FeatPointers:      Cluster,
	FeatGenerics:      Cluster,
	FeatAllocators:    Cluster,
	FeatContextBound:  Cluster,
	FeatTensors:       Compute,
	FeatNPUIntrinsics: Compute,
	FeatEffects:       Sovereign,
	FeatActors:        Sovereign,
}

// RequiredProfile returns the minimum profile unlocking f.
func (f Feature) RequiredProfile() Profile {
	if p, ok := featureFloor[f]; ok {
		return p
	}
	return Sovereign
}

// Operator identifies a gated operator class.
type Operator uint8

const (
	OpInvalid Operator = iota
	OpArithmetic
	OpComparison
	OpLogical
	OpRange
	OpAddressOf
	OpDereference
)

func (o Operator) String() string {
	switch o {
	case OpArithmetic:
		return "arithmetic"
	case OpComparison:
		return "comparison"
	case OpLogical:
		return "logical"
	case OpRange:
		return "range"
	case OpAddressOf:
		return "address_of"
	case OpDereference:
		return "dereference"
	default:
		return "invalid"
	}
}

var operatorFloor = map[Operator]Profile{
	OpArithmetic:  Core,
	OpComparison:  Core,
	OpLogical:     Core,
	OpRange:       Core,
	OpAddressOf:   Cluster,
	OpDereference: Cluster,
}

// RequiredProfile returns the minimum profile unlocking o.
func (o Operator) RequiredProfile() Profile {
	if p, ok := operatorFloor[o]; ok {
		return p
	}
	return Sovereign
}
