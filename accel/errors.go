package accel

import "fmt"

// ErrorKind is one of the fatal elaboration error kinds named in the
// precondition checks of each fabric.
type ErrorKind string

const (
	ErrInsufficientMLBs       ErrorKind = "InsufficientMLBs"
	ErrInsufficientBuffers    ErrorKind = "InsufficientBuffers"
	ErrBufferTooNarrow        ErrorKind = "BufferTooNarrow"
	ErrStreamWidthMismatch    ErrorKind = "StreamWidthMismatch"
	ErrPreloadBudgetExceeded  ErrorKind = "PreloadBudgetExceeded"
	ErrProjectionExceedsHW    ErrorKind = "ProjectionExceedsHardware"
	ErrUnknownActivationFunc  ErrorKind = "UnknownActivationFunction"
	ErrPortTypeMissing        ErrorKind = "PortTypeMissing"
)

// ElaborationError is a fatal precondition violation raised during
// elaboration. The core never attempts recovery: every such error
// indicates an inconsistency between the projection and the hardware
// that a retry cannot fix.
type ElaborationError struct {
	Kind ErrorKind
	Msg  string
}

func (e *ElaborationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func elabErr(kind ErrorKind, format string, args ...any) *ElaborationError {
	return &ElaborationError{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// WarningKind is one of the non-fatal conditions the elaborator reports
// rather than rejecting.
type WarningKind string

const (
	WarnWidthLoss          WarningKind = "WidthLossWarning"
	WarnActivationDowncast WarningKind = "ActivationDowncastWarning"
)

// Warning is a non-fatal note surfaced alongside a successful
// elaboration result.
type Warning struct {
	Kind WarningKind
	Msg  string
}
