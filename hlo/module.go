package hlo

import (
	"fmt"

	"github.com/flowir/cbsched/errors"
)

// Module owns a set of computations and the shared instruction arena they
// allocate from. One computation is designated as the entry point.
type Module struct {
	name   string
	instrs []*Instruction
	comps  []*Computation
	listed []CompID
	entry  CompID
}

// NewModule creates an empty module.
func NewModule(name string) *Module {
	return &Module{name: name}
}

// Name returns the module name.
func (m *Module) Name() string { return m.name }

// Instr resolves an instruction identity. Panics on the reserved zero
// identity; returns nil for identities never allocated.
func (m *Module) Instr(id InstrID) *Instruction {
	if id == None {
		panic("hlo: resolving the None instruction")
	}
	if int(id) > len(m.instrs) {
		return nil
	}
	return m.instrs[id-1]
}

// Comp resolves a computation identity, or nil if never allocated.
func (m *Module) Comp(id CompID) *Computation {
	if id == 0 || int(id) > len(m.comps) {
		return nil
	}
	return m.comps[id-1]
}

// Entry returns the entry computation, or nil if none is set.
func (m *Module) Entry() *Computation { return m.Comp(m.entry) }

// SetEntry designates the module's entry computation.
func (m *Module) SetEntry(c *Computation) { m.entry = c.id }

// Computations returns the installed computations in installation order.
// The returned slice is a snapshot; installing during iteration is safe.
func (m *Module) Computations() []*Computation {
	out := make([]*Computation, len(m.listed))
	for i, id := range m.listed {
		out[i] = m.Comp(id)
	}
	return out
}

// AddComputation creates an empty computation and installs it into the
// module under a unique name.
func (m *Module) AddComputation(name string) *Computation {
	c := m.NewDetachedComputation(name)
	m.Install(c)
	return c
}

// NewDetachedComputation creates a computation that allocates from this
// module's arena but is not yet listed in the module. Detached computations
// exist so a transformation can build a body in full and only publish it
// once construction has succeeded.
func (m *Module) NewDetachedComputation(name string) *Computation {
	c := &Computation{mod: m, name: name}
	m.comps = append(m.comps, c)
	c.id = CompID(len(m.comps))
	return c
}

// Install lists a detached computation in the module, renaming it if the
// name is already taken.
func (m *Module) Install(c *Computation) *Computation {
	if c.mod != m {
		panic("hlo: installing a computation from another module")
	}
	for _, id := range m.listed {
		if id == c.id {
			return c
		}
	}
	c.name = m.uniqueCompName(c.name)
	m.listed = append(m.listed, c.id)
	return c
}

// NamedComputation looks up an installed computation by name.
func (m *Module) NamedComputation(name string) (*Computation, error) {
	for _, id := range m.listed {
		if c := m.Comp(id); c.name == name {
			return c, nil
		}
	}
	return nil, errors.NotFound(errors.PhaseVerify, "computation", name)
}

func (m *Module) uniqueCompName(base string) string {
	if base == "" {
		base = "computation"
	}
	name := base
	for n := 1; ; n++ {
		taken := false
		for _, id := range m.listed {
			if m.Comp(id).name == name {
				taken = true
				break
			}
		}
		if !taken {
			return name
		}
		name = fmt.Sprintf("%s.%d", base, n)
	}
}

func (m *Module) allocInstr(ins Instruction) *Instruction {
	p := new(Instruction)
	*p = ins
	m.instrs = append(m.instrs, p)
	p.id = InstrID(len(m.instrs))
	return p
}
