package hlo

import (
	"fmt"
	"strings"
)

// String renders the module in the textual IR form accepted by hlotext.
func (m *Module) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "module %s\n", m.name)
	for _, c := range m.Computations() {
		b.WriteByte('\n')
		b.WriteString(c.String())
	}
	return b.String()
}

// String renders one computation.
func (c *Computation) String() string {
	var b strings.Builder
	if c.mod.entry == c.id {
		b.WriteString("entry ")
	}
	fmt.Fprintf(&b, "computation %s {\n", c.name)
	for _, id := range c.schedule {
		b.WriteString("  ")
		b.WriteString(c.formatInstr(c.mod.Instr(id)))
		b.WriteByte('\n')
	}
	if c.root != None {
		fmt.Fprintf(&b, "  root %%%s\n", c.mod.Instr(c.root).Name)
	}
	b.WriteString("}\n")
	return b.String()
}

func (c *Computation) formatInstr(ins *Instruction) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%%%s = %s(", ins.Name, ins.Op)

	switch ins.Op {
	case OpParameter:
		fmt.Fprintf(&b, "%d", ins.ParamIndex)
	case OpConstant:
		fmt.Fprintf(&b, "%d", ins.Literal)
	default:
		for i, op := range ins.Operands {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%%%s", c.mod.Instr(op).Name)
		}
		if ins.Op == OpGetTupleElement {
			fmt.Fprintf(&b, ", %d", ins.TupleIndex)
		}
	}
	b.WriteByte(')')

	if ins.Callee != 0 {
		fmt.Fprintf(&b, " calls=%s", c.mod.Comp(ins.Callee).Name())
	}
	if ins.Shape != "" {
		fmt.Fprintf(&b, " : %s", ins.Shape)
	}
	return b.String()
}
