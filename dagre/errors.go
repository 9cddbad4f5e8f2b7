package dagre

import (
	"fmt"

	"go.uber.org/multierr"
	"golang.org/x/xerrors"
)

// ErrorKind classifies a LayoutError per the engine's error-handling design:
// invariant violations and unsupported options are programmer errors,
// surfaced at the buildLayoutGraph boundary. GraphTooLarge/NumericOverflow
// name coordinate-overflow failures, but no pipeline stage returns them:
// Layout does not check computed coordinates for overflow.
type ErrorKind int

const (
	InvariantViolation ErrorKind = iota
	Unsupported
	GraphTooLarge
	NumericOverflow
)

func (k ErrorKind) String() string {
	switch k {
	case InvariantViolation:
		return "InvariantViolation"
	case Unsupported:
		return "Unsupported"
	case GraphTooLarge:
		return "GraphTooLarge"
	case NumericOverflow:
		return "NumericOverflow"
	default:
		return "Unknown"
	}
}

// LayoutError is the error type returned by Layout. Kind lets callers use
// errors.As to distinguish a malformed-input abort from an internal
// overflow.
type LayoutError struct {
	Kind ErrorKind
	Msg  string
}

func (e *LayoutError) Error() string {
	return fmt.Sprintf("dagre: %s: %s", e.Kind, e.Msg)
}

func newError(kind ErrorKind, format string, args ...interface{}) error {
	return &LayoutError{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// wrapStage annotates an error with the failing pipeline stage while
// preserving it for errors.Is/errors.As.
func wrapStage(stage string, err error) error {
	if err == nil {
		return nil
	}
	return xerrors.Errorf("dagre: stage %s: %w", stage, err)
}

// errCollector aggregates independent InvariantViolations found while
// validating the input graph, so buildLayoutGraph reports every offending
// node/edge instead of only the first.
type errCollector struct {
	err error
}

func (c *errCollector) add(err error) {
	if err == nil {
		return
	}
	c.err = multierr.Append(c.err, err)
}

func (c *errCollector) errOrNil() error {
	return c.err
}
