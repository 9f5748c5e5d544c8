package diag

// Severity defines the importance of a diagnostic.
type Severity uint8

const (
	// SevHint marks stylistic nudges that tooling may render unobtrusively.
	SevHint Severity = iota
	// SevInfo is for informational diagnostics.
	SevInfo
	// SevWarning never blocks compilation.
	SevWarning
	// SevError invalidates the unit it was reported against.
	SevError
)

func (s Severity) String() string {
	switch s {
	case SevHint:
		return "HINT"
	case SevInfo:
		return "INFO"
	case SevWarning:
		return "WARNING"
	case SevError:
		return "ERROR"
	}
	return "UNKNOWN"
}
