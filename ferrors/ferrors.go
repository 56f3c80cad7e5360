// Package ferrors defines the error taxonomy shared by every layer of the
// store: the statement compiler, the column validators, the folder and item
// stores, and the search pipeline all raise one of these kinds rather than
// ad-hoc errors, so callers can distinguish classes of failure with errors.Is.
package ferrors

import (
	goerrors "gopkg.in/src-d/go-errors.v1"
)

var (
	// SyntaxError is raised when a statement fails to parse.
	SyntaxError = goerrors.NewKind("syntax error: %s")

	// SchemaError is raised for a missing folder, missing column, or an
	// otherwise invalid column configuration.
	SchemaError = goerrors.NewKind("schema error: %s")

	// ValidationError is raised when a column's validate step rejects its
	// input. FormatMismatch, Required and SetCardinalityViolation are all
	// reported through this kind with a distinguishing Reason.
	ValidationError = goerrors.NewKind("validation error on column %q: %s")

	// DuplicateName is raised when an item name collides with an existing
	// item in the same folder.
	DuplicateName = goerrors.NewKind("an item named %q already exists in folder %q")

	// CapacityExceeded is raised when a folder has reached its partition or
	// item cap.
	CapacityExceeded = goerrors.NewKind("capacity exceeded: %s")

	// NotFound is raised when an item, folder, or file lookup fails.
	NotFound = goerrors.NewKind("%s not found: %s")

	// CorruptRecord is raised when decryption or decoding of a persisted
	// record fails.
	CorruptRecord = goerrors.NewKind("corrupt record: %s")

	// BackendError wraps a failure from the underlying KV store.
	BackendError = goerrors.NewKind("storage backend error: %s")

	// FormulaError wraps a compile or evaluation failure from the formula
	// evaluator.
	FormulaError = goerrors.NewKind("formula error: %s")

	// Ambiguous is raised when a routing-scoped lookup matches more than one
	// record.
	Ambiguous = goerrors.NewKind("ambiguous lookup: %s")

	// AlreadyExists is raised when a create collides with an existing
	// record (e.g. a folder name already in use within a routing scope).
	AlreadyExists = goerrors.NewKind("%s already exists: %s")
)

// ValidationReason names the specific cause of a ValidationError, so callers
// can branch on it without parsing the message.
type ValidationReason string

const (
	ReasonRequired                 ValidationReason = "Required"
	ReasonFormatMismatch           ValidationReason = "FormatMismatch"
	ReasonSetCardinalityViolation  ValidationReason = "SetCardinalityViolation"
	ReasonOutOfRange               ValidationReason = "OutOfRange"
	ReasonUnknownOption            ValidationReason = "UnknownOption"
	ReasonLinkTargetMissing        ValidationReason = "LinkTargetMissing"
	ReasonTooManyValues            ValidationReason = "TooManyValues"
)

// List accumulates independent errors from a batch operation (a multi-row
// INSERT, or SELECT column validation) so that all violations in the same
// family are reported together instead of short-circuiting at the first one.
type List struct {
	Errors []error
}

// Add appends err to the list if it is non-nil.
func (l *List) Add(err error) {
	if err != nil {
		l.Errors = append(l.Errors, err)
	}
}

// Err returns nil if the list is empty, the sole error if there is exactly
// one, or the list itself (implementing error) otherwise.
func (l *List) Err() error {
	switch len(l.Errors) {
	case 0:
		return nil
	case 1:
		return l.Errors[0]
	default:
		return l
	}
}

func (l *List) Error() string {
	if len(l.Errors) == 1 {
		return l.Errors[0].Error()
	}
	msg := ""
	for i, err := range l.Errors {
		if i > 0 {
			msg += "; "
		}
		msg += err.Error()
	}
	return msg
}
