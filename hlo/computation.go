package hlo

import (
	"fmt"

	"github.com/flowir/cbsched/errors"
)

// Computation is an owned, ordered graph of instructions with a
// distinguished root. The instruction order doubles as the schedule: every
// operand precedes its consumers.
type Computation struct {
	mod      *Module
	name     string
	schedule []InstrID
	root     InstrID
	id       CompID
}

// ID returns the computation's identity.
func (c *Computation) ID() CompID { return c.id }

// Name returns the computation's name.
func (c *Computation) Name() string { return c.name }

// Module returns the owning module.
func (c *Computation) Module() *Module { return c.mod }

// Instructions returns the schedule. The returned slice is the live order;
// callers that mutate the computation while iterating must copy it first.
func (c *Computation) Instructions() []InstrID { return c.schedule }

// Instr resolves an identity through the owning module.
func (c *Computation) Instr(id InstrID) *Instruction { return c.mod.Instr(id) }

// Root returns the computation's output instruction, or None.
func (c *Computation) Root() InstrID { return c.root }

// SetRoot designates the computation's output.
func (c *Computation) SetRoot(id InstrID) { c.root = id }

// Add appends an instruction to the schedule and returns its identity.
// Operands must already belong to this computation.
func (c *Computation) Add(ins Instruction) InstrID {
	return c.AddAt(len(c.schedule), ins)
}

// AddAt inserts an instruction at the given schedule position.
func (c *Computation) AddAt(pos int, ins Instruction) InstrID {
	for _, op := range ins.Operands {
		if other := c.mod.Instr(op); other == nil || other.comp != c.id {
			panic(fmt.Sprintf("hlo: operand %d of %q is not owned by computation %q", op, ins.Name, c.name))
		}
	}
	p := c.mod.allocInstr(ins)
	p.comp = c.id
	p.Name = c.uniqueInstrName(p.Name, p.Op)
	c.schedule = append(c.schedule, None)
	copy(c.schedule[pos+1:], c.schedule[pos:])
	c.schedule[pos] = p.id
	return p.id
}

// Remove deletes an instruction from the computation. It fails while the
// instruction still has users or is the root.
func (c *Computation) Remove(id InstrID) error {
	ins := c.mod.Instr(id)
	if ins == nil || ins.comp != c.id {
		return errors.NotFound(errors.PhaseVerify, "instruction", fmt.Sprintf("%d", id))
	}
	if c.root == id {
		return errors.InstructionInUse(ins.Name, "root")
	}
	for _, uid := range c.schedule {
		for _, op := range c.mod.Instr(uid).Operands {
			if op == id {
				return errors.InstructionInUse(ins.Name, c.mod.Instr(uid).Name)
			}
		}
	}
	pos := c.IndexOf(id)
	if pos < 0 {
		return errors.NotFound(errors.PhaseVerify, "instruction", ins.Name)
	}
	c.schedule = append(c.schedule[:pos], c.schedule[pos+1:]...)
	ins.comp = 0
	return nil
}

// IndexOf returns the schedule position of an instruction, or -1.
func (c *Computation) IndexOf(id InstrID) int {
	for i, cur := range c.schedule {
		if cur == id {
			return i
		}
	}
	return -1
}

// SetSchedule replaces the instruction order. The new order must be a
// permutation of the old one; this is the caller's contract, not checked.
func (c *Computation) SetSchedule(order []InstrID) {
	c.schedule = order
}

// Users returns the instructions of this computation that read the given
// instruction, in schedule order.
func (c *Computation) Users(id InstrID) []InstrID {
	var users []InstrID
	for _, uid := range c.schedule {
		for _, op := range c.mod.Instr(uid).Operands {
			if op == id {
				users = append(users, uid)
				break
			}
		}
	}
	return users
}

// ReplaceUses rewrites every operand reference to old so it references new
// instead, and moves the root if it was old.
func (c *Computation) ReplaceUses(old, new InstrID) {
	for _, uid := range c.schedule {
		if uid == new {
			continue
		}
		ops := c.mod.Instr(uid).Operands
		for i, op := range ops {
			if op == old {
				ops[i] = new
			}
		}
	}
	if c.root == old {
		c.root = new
	}
}

// Parameters returns the computation's parameter instructions in parameter
// index order.
func (c *Computation) Parameters() []InstrID {
	var params []InstrID
	for _, id := range c.schedule {
		if c.mod.Instr(id).Op == OpParameter {
			params = append(params, id)
		}
	}
	for i := 1; i < len(params); i++ {
		for j := i; j > 0 && c.mod.Instr(params[j]).ParamIndex < c.mod.Instr(params[j-1]).ParamIndex; j-- {
			params[j], params[j-1] = params[j-1], params[j]
		}
	}
	return params
}

func (c *Computation) uniqueInstrName(base string, op OpKind) string {
	if base == "" {
		base = string(op)
	}
	name := base
	for n := 1; ; n++ {
		taken := false
		for _, id := range c.schedule {
			if id != None && c.mod.Instr(id).Name == name {
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
