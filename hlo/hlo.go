// Package hlo provides the data-flow IR operated on by the scheduling
// passes: modules, computations, and arena-allocated instructions
// addressed by stable integer identities.
package hlo

// InstrID identifies an instruction within a module's arena.
// The zero value is reserved and never refers to an instruction.
type InstrID uint32

// CompID identifies a computation within a module.
// The zero value is reserved and never refers to a computation.
type CompID uint32

// None is the invalid instruction identity.
const None InstrID = 0

// OpKind names an instruction's operation. The structural opcodes below are
// known to the passes; every other kind (e.g. "fusion", "add", "copy",
// "custom-call") is an opaque token matched against eligibility configs.
type OpKind string

const (
	OpParameter       OpKind = "param"
	OpConstant        OpKind = "const"
	OpCall            OpKind = "call"
	OpTuple           OpKind = "tuple"
	OpGetTupleElement OpKind = "gte"
)

// IsLeaf reports whether the kind is a zero-input source instruction.
func (k OpKind) IsLeaf() bool {
	return k == OpParameter || k == OpConstant
}

// Instruction is a node in a computation's data-flow graph. Operands
// reference producers in the same computation by identity. Instructions are
// owned by exactly one computation at a time.
type Instruction struct {
	// Name is unique within the owning computation. Assigned on insertion
	// if empty.
	Name string

	// Op is the operation kind.
	Op OpKind

	// Operands references the producer instructions, in operand order.
	Operands []InstrID

	// Shape is the result shape as an opaque token (e.g. "s32[]"). Tuple
	// shapes are parenthesized lists of element shapes.
	Shape string

	// Callee references the applied computation for call-like instructions
	// (call, fusion, while, ...); zero when the instruction applies nothing.
	Callee CompID

	// ParamIndex is the formal parameter position for OpParameter.
	ParamIndex int

	// Literal is the constant value for OpConstant.
	Literal int64

	// TupleIndex is the element position for OpGetTupleElement.
	TupleIndex int

	id   InstrID
	comp CompID
}

// ID returns the instruction's identity, or None if it has not been
// inserted into a computation.
func (ins *Instruction) ID() InstrID { return ins.id }

// Parent returns the owning computation's identity.
func (ins *Instruction) Parent() CompID { return ins.comp }
