package cmdbuffer

import (
	"github.com/flowir/cbsched/errors"
	"github.com/flowir/cbsched/hlo"
)

// MoveParametersAndConstantsToFront reorders a computation's schedule so that
// every parameter and constant precedes every other instruction, preserving
// the relative order within each class. Extraction relies on this: a
// computation that becomes a command buffer body must have all of its
// side-effect-free sources available before the recorded commands begin.
//
// The reordering never changes instruction identities or edges. It fails only
// on a malformed graph where a leaf instruction has inbound operands.
func MoveParametersAndConstantsToFront(c *hlo.Computation) error {
	sched := c.Instructions()
	leaves := make([]hlo.InstrID, 0, len(sched))
	rest := make([]hlo.InstrID, 0, len(sched))

	for _, id := range sched {
		ins := c.Instr(id)
		if ins.Op.IsLeaf() {
			if len(ins.Operands) > 0 {
				return errors.MalformedLeaf(c.Name(), ins.Name, len(ins.Operands))
			}
			leaves = append(leaves, id)
			continue
		}
		rest = append(rest, id)
	}

	c.SetSchedule(append(leaves, rest...))
	return nil
}
