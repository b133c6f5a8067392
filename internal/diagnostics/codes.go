package diagnostics

// ErrorCode identifies a diagnostic class. T-codes are user-facing type
// errors; I-codes indicate checker bugs surfaced as diagnostics so tooling
// still gets a position.
type ErrorCode string

const (
	// ErrT001 — unification failed; carries expected vs actual context.
	ErrT001 ErrorCode = "T001"
	// ErrT002 — structural mismatch between two types.
	ErrT002 ErrorCode = "T002"
	// ErrT003 — recursive type variable (occurs check).
	ErrT003 ErrorCode = "T003"
	// ErrT004 — unbound identifier (value, field, constructor, module, type).
	ErrT004 ErrorCode = "T004"
	// ErrT005 — or-pattern binds a variable on one side only.
	ErrT005 ErrorCode = "T005"
	// ErrT006 — declaration inside a pattern.
	ErrT006 ErrorCode = "T006"
	// ErrT007 — empty record literal or pattern.
	ErrT007 ErrorCode = "T007"
	// ErrT008 — field does not belong to the expected record.
	ErrT008 ErrorCode = "T008"
	// ErrT009 — field assigned twice in a record literal.
	ErrT009 ErrorCode = "T009"
	// ErrT010 — record literal without extension leaves fields unassigned.
	ErrT010 ErrorCode = "T010"
	// ErrT011 — no implicit instance matches at a toplevel binding.
	ErrT011 ErrorCode = "T011"
	// ErrT012 — constructor requires an argument.
	ErrT012 ErrorCode = "T012"

	// ErrI901 — unexpected implicit placeholder (checker bug).
	ErrI901 ErrorCode = "I901"
	// ErrI902 — missing implicit placeholder (checker bug).
	ErrI902 ErrorCode = "I902"
	// ErrI903 — wrong type description for the operation (checker bug).
	ErrI903 ErrorCode = "I903"
)

// UnboundKind qualifies ErrT004 diagnostics.
type UnboundKind string

const (
	UnboundValue       UnboundKind = "value"
	UnboundField       UnboundKind = "record field"
	UnboundConstructor UnboundKind = "constructor"
	UnboundModule      UnboundKind = "module"
	UnboundType        UnboundKind = "type"
)
