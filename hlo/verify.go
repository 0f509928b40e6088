package hlo

import (
	"fmt"

	"github.com/flowir/cbsched/errors"
)

// Verify checks a computation's structural invariants: every scheduled
// instruction is owned by the computation, every operand is scheduled before
// its consumer, and the root (if any) is scheduled.
func Verify(c *Computation) error {
	seen := make(map[InstrID]struct{}, len(c.schedule))
	for _, id := range c.schedule {
		ins := c.mod.Instr(id)
		if ins == nil || ins.comp != c.id {
			return errors.InvalidSchedule(c.name, fmt.Sprintf("instruction %d not owned by computation", id))
		}
		for _, op := range ins.Operands {
			if _, ok := seen[op]; !ok {
				return errors.InvalidSchedule(c.name,
					fmt.Sprintf("operand %%%s of %%%s not scheduled before its consumer", c.mod.Instr(op).Name, ins.Name))
			}
		}
		if _, dup := seen[id]; dup {
			return errors.InvalidSchedule(c.name, fmt.Sprintf("instruction %%%s scheduled twice", ins.Name))
		}
		seen[id] = struct{}{}
	}
	if c.root != None {
		if _, ok := seen[c.root]; !ok {
			return errors.InvalidSchedule(c.name, "root is not scheduled")
		}
	}
	return nil
}

// VerifyModule verifies every installed computation.
func VerifyModule(m *Module) error {
	for _, c := range m.Computations() {
		if err := Verify(c); err != nil {
			return err
		}
	}
	return nil
}
