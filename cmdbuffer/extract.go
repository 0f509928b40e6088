package cmdbuffer

import (
	"fmt"

	"github.com/flowir/cbsched/errors"
	"github.com/flowir/cbsched/hlo"
)

// CommandBuffer is the extraction product for one region: the run's external
// argument producers, the in-region instructions whose values escape the
// region, a freshly built body computation (detached until the rewriter
// installs it), and the mapping from each original instruction to its clone.
//
// A CommandBuffer is consumed exactly once by RewriteCommandBuffer.
type CommandBuffer struct {
	// Arguments lists the distinct producers outside the region that are
	// read inside it, in first-use order. Argument i feeds parameter i of
	// the body computation.
	Arguments []hlo.InstrID

	// Results lists the distinct in-region instructions with at least one
	// user outside the region (or that are the parent's root), in region
	// order.
	Results []hlo.InstrID

	// Computation is the command buffer body. Its root is the clone of the
	// single result, or a tuple of all result clones in Results order.
	Computation *hlo.Computation

	// InstMapping maps original instructions (and external producers) to
	// their counterparts in the body.
	InstMapping map[hlo.InstrID]hlo.InstrID
}

// TupleResult reports whether the body returns its results wrapped in a
// tuple. Decided once here; the rewriter consumes the same decision.
func (cb *CommandBuffer) TupleResult() bool { return len(cb.Results) != 1 }

// PrepareCommandBuffer builds a command buffer from one region of a
// scheduled sequence. Values produced outside the region are passed in as
// parameters; the region's instructions are cloned in schedule order with
// every operand rewritten through the instruction mapping. The produced
// computation references nothing outside itself by identity, so it is
// independently relocatable.
func PrepareCommandBuffer(parent *hlo.Computation, seq []hlo.InstrID, r Region) (CommandBuffer, error) {
	m := parent.Module()
	body := m.NewDetachedComputation("command_buffer")

	inRegion := make(map[hlo.InstrID]struct{}, r.Len())
	for _, id := range r.Instrs(seq) {
		inRegion[id] = struct{}{}
	}

	mapping := make(map[hlo.InstrID]hlo.InstrID, r.Len())
	var args []hlo.InstrID

	// External values become parameters, one per distinct producer, in
	// first-use order.
	for _, id := range r.Instrs(seq) {
		ins := parent.Instr(id)
		for _, op := range ins.Operands {
			if _, ok := inRegion[op]; ok {
				continue
			}
			if _, ok := mapping[op]; ok {
				continue
			}
			producer := parent.Instr(op)
			if producer == nil || producer.Parent() != parent.ID() {
				return CommandBuffer{}, errors.DanglingOperand(parent.Name(), ins.Name, op)
			}
			pid := body.Add(hlo.Instruction{
				Name:       fmt.Sprintf("p%d", len(args)),
				Op:         hlo.OpParameter,
				ParamIndex: len(args),
				Shape:      producer.Shape,
			})
			mapping[op] = pid
			args = append(args, op)
		}
	}

	// Clone the region in order, rewiring operands through the mapping.
	for _, id := range r.Instrs(seq) {
		ins := parent.Instr(id)
		clone := hlo.Instruction{
			Name:       ins.Name,
			Op:         ins.Op,
			Shape:      ins.Shape,
			Callee:     ins.Callee,
			ParamIndex: ins.ParamIndex,
			Literal:    ins.Literal,
			TupleIndex: ins.TupleIndex,
		}
		for _, op := range ins.Operands {
			mapped, ok := mapping[op]
			if !ok {
				return CommandBuffer{}, errors.DanglingOperand(parent.Name(), ins.Name, op)
			}
			clone.Operands = append(clone.Operands, mapped)
		}
		mapping[id] = body.Add(clone)
	}

	// Results are the region's escaping values, in region order.
	var results []hlo.InstrID
	for _, id := range r.Instrs(seq) {
		if id == parent.Root() {
			results = append(results, id)
			continue
		}
		for _, user := range parent.Users(id) {
			if _, ok := inRegion[user]; !ok {
				results = append(results, id)
				break
			}
		}
	}

	if len(results) == 1 {
		body.SetRoot(mapping[results[0]])
	} else {
		elems := make([]hlo.InstrID, len(results))
		for i, id := range results {
			elems[i] = mapping[id]
		}
		tuple := body.Add(hlo.Instruction{
			Op:       hlo.OpTuple,
			Operands: elems,
			Shape:    hlo.TupleShape(body, elems),
		})
		body.SetRoot(tuple)
	}

	return CommandBuffer{
		Arguments:   args,
		Results:     results,
		Computation: body,
		InstMapping: mapping,
	}, nil
}
