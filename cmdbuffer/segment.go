package cmdbuffer

import (
	"go.uber.org/zap"

	"github.com/flowir/cbsched/hlo"
)

// Region is a contiguous half-open index range [Start, End) over a scheduled
// instruction sequence. It owns no instructions; it is a view until
// extraction.
type Region struct {
	Start int
	End   int
}

// Len returns the number of instructions in the region.
func (r Region) Len() int { return r.End - r.Start }

// Instrs returns the region's instruction identities from the sequence it
// was segmented over.
func (r Region) Instrs(seq []hlo.InstrID) []hlo.InstrID {
	return seq[r.Start:r.End]
}

// CollectRegions segments a scheduled sequence into maximal contiguous runs
// of eligible instructions, keeping only runs of at least minCommands.
//
// An instruction is eligible when its kind is enabled in the config and, if
// it applies another computation, that computation is not already claimed in
// the processed set. Keeping a run claims every computation it applies, so no
// later run in this pass invocation can lift the same computation again and
// extracted regions never nest.
func CollectRegions(c *hlo.Computation, seq []hlo.InstrID, config CommandConfig,
	processed map[hlo.CompID]struct{}, minCommands int) []Region {

	var regions []Region

	eligible := func(id hlo.InstrID) bool {
		ins := c.Instr(id)
		if !config.Enabled(ins.Op) {
			return false
		}
		if ins.Callee != 0 {
			if _, claimed := processed[ins.Callee]; claimed {
				return false
			}
		}
		return true
	}

	claim := func(r Region) {
		for _, id := range r.Instrs(seq) {
			if callee := c.Instr(id).Callee; callee != 0 {
				processed[callee] = struct{}{}
			}
		}
	}

	start := -1
	for i := 0; i <= len(seq); i++ {
		if i < len(seq) && eligible(seq[i]) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			r := Region{Start: start, End: i}
			start = -1
			if r.Len() < minCommands {
				continue
			}
			claim(r)
			regions = append(regions, r)
		}
	}

	if len(regions) > 0 {
		Logger().Debug("collected command buffer regions",
			zap.String("computation", c.Name()),
			zap.Int("regions", len(regions)))
	}
	return regions
}
