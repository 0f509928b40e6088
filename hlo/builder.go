package hlo

// Builder constructs a computation instruction by instruction. It exists for
// tests and for the text-format parser; passes mutate computations directly.
type Builder struct {
	comp   *Computation
	params int
}

// NewBuilder creates a computation in the module and a builder over it.
func NewBuilder(m *Module, name string) *Builder {
	return &Builder{comp: m.AddComputation(name)}
}

// Computation returns the computation under construction.
func (b *Builder) Computation() *Computation { return b.comp }

// Parameter appends a parameter instruction with the next free index.
func (b *Builder) Parameter(name, shape string) InstrID {
	idx := b.params
	b.params++
	return b.comp.Add(Instruction{
		Name:       name,
		Op:         OpParameter,
		ParamIndex: idx,
		Shape:      shape,
	})
}

// Constant appends a literal constant instruction.
func (b *Builder) Constant(name string, value int64, shape string) InstrID {
	return b.comp.Add(Instruction{
		Name:    name,
		Op:      OpConstant,
		Literal: value,
		Shape:   shape,
	})
}

// Op appends an instruction of an arbitrary kind.
func (b *Builder) Op(kind OpKind, name, shape string, operands ...InstrID) InstrID {
	return b.comp.Add(Instruction{
		Name:     name,
		Op:       kind,
		Shape:    shape,
		Operands: operands,
	})
}

// Apply appends a call-like instruction that applies another computation.
func (b *Builder) Apply(kind OpKind, name, shape string, callee *Computation, operands ...InstrID) InstrID {
	return b.comp.Add(Instruction{
		Name:     name,
		Op:       kind,
		Shape:    shape,
		Callee:   callee.ID(),
		Operands: operands,
	})
}

// Tuple appends a tuple-construction instruction.
func (b *Builder) Tuple(name string, operands ...InstrID) InstrID {
	return b.comp.Add(Instruction{
		Name:     name,
		Op:       OpTuple,
		Shape:    TupleShape(b.comp, operands),
		Operands: operands,
	})
}

// GetTupleElement appends a tuple-extraction instruction.
func (b *Builder) GetTupleElement(name, shape string, tuple InstrID, index int) InstrID {
	return b.comp.Add(Instruction{
		Name:       name,
		Op:         OpGetTupleElement,
		Shape:      shape,
		Operands:   []InstrID{tuple},
		TupleIndex: index,
	})
}

// Build seals the computation with the given root and returns it.
func (b *Builder) Build(root InstrID) *Computation {
	b.comp.SetRoot(root)
	return b.comp
}

// TupleShape derives a tuple shape token from element producers.
func TupleShape(c *Computation, elems []InstrID) string {
	s := "("
	for i, id := range elems {
		if i > 0 {
			s += ", "
		}
		s += c.Instr(id).Shape
	}
	return s + ")"
}
