package ast

type (
	// UnitID identifies one compilation unit inside a driver session.
	UnitID uint32
	// NodeID indexes the node arena of a Unit (1-based, 0 is the sentinel).
	NodeID uint32
	// TokenID indexes the token arena of a Unit (1-based, 0 is the sentinel).
	TokenID uint32
)

const (
	NoUnitID  UnitID  = 0
	NoNodeID  NodeID  = 0
	NoTokenID TokenID = 0
)

func (id UnitID) IsValid() bool  { return id != NoUnitID }
func (id NodeID) IsValid() bool  { return id != NoNodeID }
func (id TokenID) IsValid() bool { return id != NoTokenID }
