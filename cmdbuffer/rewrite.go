package cmdbuffer

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/flowir/cbsched/errors"
	"github.com/flowir/cbsched/hlo"
)

// RewriteCommandBuffer splices an extracted command buffer into the parent
// computation. The body is installed into the module, a single call takes
// the region's place in the schedule, every external user of a region value
// is redirected to the call (or to a tuple extraction of it), and the dead
// region instructions are removed in reverse dependency order.
//
// The parent's observable data flow is unchanged modulo the indirection
// through the call. An error here means extraction and rewrite disagree
// about the region's interface; the module must be discarded.
func RewriteCommandBuffer(parent *hlo.Computation, seq []hlo.InstrID, r Region, cb CommandBuffer) error {
	m := parent.Module()
	body := m.Install(cb.Computation)

	region := r.Instrs(seq)
	if len(region) == 0 {
		return errors.InvalidInput(errors.PhaseRewrite, "empty region")
	}
	pos := parent.IndexOf(region[0])
	if pos < 0 {
		return errors.InvalidInput(errors.PhaseRewrite,
			fmt.Sprintf("region start %q is no longer scheduled in %q", parent.Instr(region[0]).Name, parent.Name()))
	}

	call := parent.AddAt(pos, hlo.Instruction{
		Name:     "call",
		Op:       hlo.OpCall,
		Operands: append([]hlo.InstrID(nil), cb.Arguments...),
		Callee:   body.ID(),
		Shape:    body.Instr(body.Root()).Shape,
	})

	// Redirect every user of an escaping value. With a single result the
	// call stands in directly; with a tuple each result is unwrapped by
	// index right after the call.
	if !cb.TupleResult() {
		parent.ReplaceUses(cb.Results[0], call)
	} else {
		for i, res := range cb.Results {
			gte := parent.AddAt(pos+1+i, hlo.Instruction{
				Op:         hlo.OpGetTupleElement,
				Operands:   []hlo.InstrID{call},
				TupleIndex: i,
				Shape:      parent.Instr(res).Shape,
			})
			parent.ReplaceUses(res, gte)
		}
	}

	for i := len(region) - 1; i >= 0; i-- {
		name := parent.Instr(region[i]).Name
		if err := parent.Remove(region[i]); err != nil {
			return errors.Wrap(errors.PhaseRewrite, errors.KindUnresolvedUser, err,
				fmt.Sprintf("extracted instruction %q still referenced in %q", name, parent.Name()))
		}
	}

	Logger().Debug("rewrote command buffer region",
		zap.String("computation", parent.Name()),
		zap.String("command_buffer", body.Name()),
		zap.Int("commands", len(region)),
		zap.Int("arguments", len(cb.Arguments)),
		zap.Int("results", len(cb.Results)))
	return nil
}
