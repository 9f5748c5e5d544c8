// Package diagfmt renders diagnostics for humans and machines. It treats
// diag.Diagnostic as read-only input; sessions stay untouched no matter how
// output is formatted.
package diagfmt

// PathMode specifies how file paths are displayed.
type PathMode uint8

const (
	// PathModeAuto chooses relative or absolute path automatically.
	PathModeAuto PathMode = iota
	// PathModeAbsolute always uses absolute paths.
	PathModeAbsolute
	PathModeRelative
	PathModeBasename
)

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color           bool
	PathMode        PathMode
	ShowNotes       bool
	ShowSuggestions bool
	// ShowSource prints the offending line with a caret underline.
	ShowSource bool
}

// JSONOpts configures JSON output of diagnostics.
type JSONOpts struct {
	IncludePositions   bool // add line/col to every location
	PathMode           PathMode
	Max                int // truncate the output, not the bag
	IncludeNotes       bool
	IncludeSuggestions bool
}
