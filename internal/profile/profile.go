// Package profile implements progressive feature gating. The language
// exposes its surface through nested profiles ordered from a minimal
// teaching core up to the full-capability tier; every feature, operator and
// primitive type carries the minimum profile that unlocks it.
package profile

import (
	"fmt"
	"strings"
)

// Profile is a totally ordered capability tier.
type Profile uint8

const (
	Core Profile = iota
	Service
	Cluster
	Compute
	Sovereign
)

func (p Profile) String() string {
	switch p {
	case Core:
		return "core"
	case Service:
		return "service"
	case Cluster:
		return "cluster"
	case Compute:
		return "compute"
	case Sovereign:
		return "sovereign"
	default:
		return fmt.Sprintf("Profile(%d)", p)
	}
}

// Allows reports whether p grants everything required needs.
func (p Profile) Allows(required Profile) bool {
	return p >= required
}

// aliases maps legacy and human-facing names onto canonical profiles.
var aliases = map[string]Profile{
	"core":      Core,
	"teaching":  Core,
	"service":   Service,
	"edge":      Service,
	"cluster":   Cluster,
	"grid":      Cluster,
	"compute":   Compute,
	"npu":       Compute,
	"sovereign": Sovereign,
	"full":      Sovereign,
}

// Parse resolves a profile name or alias, case-insensitively.
func Parse(name string) (Profile, bool) {
	p, ok := aliases[strings.ToLower(strings.TrimSpace(name))]
	return p, ok
}

// Names returns the canonical profile names in rank order.
func Names() []string {
	return []string{"core", "service", "cluster", "compute", "sovereign"}
}
