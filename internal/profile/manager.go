package profile

import (
	"fmt"

	"janus/internal/diag"
	"janus/internal/source"
	"janus/internal/types"
)

// Manager answers gating questions for one analysis session. Violations are
// recorded through the reporter, never thrown, so a single pass surfaces
// every violation in a unit.
type Manager struct {
	profile     Profile
	npuEnabled  bool
	restriction TypeRestriction
	reporter    diag.Reporter
}

// NewManager builds a manager for the given tier. The NPU gate is orthogonal
// to profile rank and must be granted explicitly.
func NewManager(p Profile, npuEnabled bool, reporter diag.Reporter) *Manager {
	if reporter == nil {
		reporter = diag.NopReporter{}
	}
	return &Manager{
		profile:     p,
		npuEnabled:  npuEnabled,
		restriction: Restriction(p),
		reporter:    reporter,
	}
}

// Profile returns the active tier.
func (m *Manager) Profile() Profile { return m.profile }

// NPUEnabled reports the state of the compute gate.
func (m *Manager) NPUEnabled() bool { return m.npuEnabled }

// CheckFeature records a ProfileViolation when the active profile does not
// reach the feature's floor. Returns true when the feature is allowed.
func (m *Manager) CheckFeature(f Feature, span source.Span) bool {
	required := f.RequiredProfile()
	if m.profile.Allows(required) {
		return true
	}
	m.reporter.Report(diag.NewError(diag.ProfileViolation, span,
		fmt.Sprintf("feature `%s` requires profile `%s`, current profile is `%s`", f, required, m.profile)).
		WithNote(source.Span{}, fmt.Sprintf("enable it by selecting profile `%s` or higher in janus.toml", required)))
	return false
}

// CheckOperator is CheckFeature for operator classes.
func (m *Manager) CheckOperator(o Operator, span source.Span) bool {
	required := o.RequiredProfile()
	if m.profile.Allows(required) {
		return true
	}
	m.reporter.Report(diag.NewError(diag.ProfileOperatorGated, span,
		fmt.Sprintf("operator class `%s` requires profile `%s`, current profile is `%s`", o, required, m.profile)))
	return false
}

// CheckPrimitive enforces the profile's primitive envelope.
func (m *Manager) CheckPrimitive(k types.Kind, span source.Span) bool {
	if !k.IsPrimitive() || m.restriction.AllowsPrimitive(k) {
		return true
	}
	m.reporter.Report(diag.NewError(diag.ProfileTypeRestricted, span,
		fmt.Sprintf("primitive type `%s` is not available under profile `%s`", k, m.profile)))
	return false
}

// CheckParamCount enforces the function-parameter limit.
func (m *Manager) CheckParamCount(n int, span source.Span) bool {
	if n <= m.restriction.MaxParams {
		return true
	}
	m.reporter.Report(diag.NewError(diag.ProfileParamLimit, span,
		fmt.Sprintf("function has %d parameters, profile `%s` allows at most %d", n, m.profile, m.restriction.MaxParams)))
	return false
}

// CheckNPU enforces the orthogonal compute gate.
func (m *Manager) CheckNPU(span source.Span) bool {
	if m.npuEnabled {
		return true
	}
	m.reporter.Report(diag.NewError(diag.NPUGateViolation, span,
		"NPU intrinsics require the compute gate; pass --npu or set npu = true in janus.toml"))
	return false
}
