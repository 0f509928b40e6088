package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseHoist   Phase = "hoist"   // leaf reordering
	PhaseSegment Phase = "segment" // region discovery
	PhaseExtract Phase = "extract" // command buffer construction
	PhaseRewrite Phase = "rewrite" // parent computation splice
	PhaseParse   Phase = "parse"   // textual IR parsing
	PhaseVerify  Phase = "verify"  // graph consistency checks
)

// Kind categorizes the error
type Kind string

const (
	KindMalformedLeaf   Kind = "malformed_leaf"
	KindDanglingOperand Kind = "dangling_operand"
	KindUnresolvedUser  Kind = "unresolved_user"
	KindInvalidSchedule Kind = "invalid_schedule"
	KindNotFound        Kind = "not_found"
	KindInvalidInput    Kind = "invalid_input"
	KindInvalidData     Kind = "invalid_data"
	KindInUse           Kind = "in_use"
)

// Error is the structured error type used throughout the module
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Detail string
	Path   []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the location path (computation, instruction)
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// MalformedLeaf creates an error for a leaf instruction that has operands
func MalformedLeaf(computation, instruction string, operands int) *Error {
	return &Error{
		Phase:  PhaseHoist,
		Kind:   KindMalformedLeaf,
		Path:   []string{computation, instruction},
		Detail: fmt.Sprintf("leaf instruction has %d inbound operand(s)", operands),
		Value:  operands,
	}
}

// DanglingOperand creates an error for an operand with no resolvable producer
func DanglingOperand(computation, instruction string, operand any) *Error {
	return &Error{
		Phase:  PhaseExtract,
		Kind:   KindDanglingOperand,
		Path:   []string{computation, instruction},
		Detail: fmt.Sprintf("operand %v has no resolvable producer", operand),
		Value:  operand,
	}
}

// UnresolvedUser creates an error for a user still referencing a region
// instruction after rewriting
func UnresolvedUser(computation, instruction, user string) *Error {
	return &Error{
		Phase:  PhaseRewrite,
		Kind:   KindUnresolvedUser,
		Path:   []string{computation, instruction},
		Detail: fmt.Sprintf("user %q still references extracted instruction", user),
	}
}

// InstructionInUse creates an error for removing an instruction that still
// has users
func InstructionInUse(instruction, user string) *Error {
	return &Error{
		Phase:  PhaseVerify,
		Kind:   KindInUse,
		Path:   []string{instruction},
		Detail: fmt.Sprintf("still used by %q", user),
	}
}

// InvalidSchedule creates an error for a schedule violating dependency order
func InvalidSchedule(computation, detail string) *Error {
	return &Error{
		Phase:  PhaseVerify,
		Kind:   KindInvalidSchedule,
		Path:   []string{computation},
		Detail: detail,
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// ParseFailed creates a parsing error with source position
func ParseFailed(line int, detail string) *Error {
	return &Error{
		Phase:  PhaseParse,
		Kind:   KindInvalidData,
		Detail: fmt.Sprintf("line %d: %s", line, detail),
		Value:  line,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}
