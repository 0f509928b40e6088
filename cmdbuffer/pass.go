package cmdbuffer

import (
	"go.uber.org/zap"

	"github.com/flowir/cbsched/hlo"
)

// Scheduling is the command buffer scheduling pass.
//
// The toolkit and driver versions are carried for the caller's policy layer:
// a build can target a newer toolkit than the installed driver supports, so
// both gate which command kinds the caller puts into the config. The pass
// itself never inspects them.
type Scheduling struct {
	log            *zap.Logger
	toolkitVersion int32
	driverVersion  int32
	minCommands    int
}

// Option configures a Scheduling pass.
type Option func(*Scheduling)

// WithMinCommands sets the minimum run length for a region to be lifted.
// Values below 1 are clamped to 1.
func WithMinCommands(n int) Option {
	return func(s *Scheduling) {
		if n < 1 {
			n = 1
		}
		s.minCommands = n
	}
}

// WithLogger sets the pass logger, overriding the package default.
func WithLogger(l *zap.Logger) Option {
	return func(s *Scheduling) { s.log = l }
}

// New creates a scheduling pass for the given capability versions.
func New(toolkitVersion, driverVersion int32, opts ...Option) *Scheduling {
	s := &Scheduling{
		toolkitVersion: toolkitVersion,
		driverVersion:  driverVersion,
		minCommands:    1,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = Logger()
	}
	return s
}

// Name returns the pass name.
func (s *Scheduling) Name() string { return "command-buffer-scheduling" }

// ToolkitVersion returns the build-time capability version.
func (s *Scheduling) ToolkitVersion() int32 { return s.toolkitVersion }

// DriverVersion returns the runtime capability version.
func (s *Scheduling) DriverVersion() int32 { return s.driverVersion }

// MinCommands returns the segmentation threshold.
func (s *Scheduling) MinCommands() int { return s.minCommands }

// Run executes the pass over every computation in the module, mutating it in
// place. It returns whether anything changed.
//
// A single processed set is threaded through every computation so that no
// computation is lifted twice in one invocation and freshly installed
// command buffer bodies are never re-segmented. Regions within one
// computation are rewritten back to front so earlier region indices stay
// valid in the live schedule.
//
// On error the module must be considered not-transformed: extraction builds
// a detached body before any rewrite splices, but a rewrite failure leaves
// the parent partially updated.
func (s *Scheduling) Run(m *hlo.Module, config CommandConfig) (bool, error) {
	processed := make(map[hlo.CompID]struct{})
	changed := false

	for _, c := range m.Computations() {
		if _, done := processed[c.ID()]; done {
			continue
		}

		if err := MoveParametersAndConstantsToFront(c); err != nil {
			return changed, err
		}

		seq := append([]hlo.InstrID(nil), c.Instructions()...)
		regions := CollectRegions(c, seq, config, processed, s.minCommands)

		for i := len(regions) - 1; i >= 0; i-- {
			cb, err := PrepareCommandBuffer(c, seq, regions[i])
			if err != nil {
				return changed, err
			}
			if err := RewriteCommandBuffer(c, seq, regions[i], cb); err != nil {
				return changed, err
			}
			processed[cb.Computation.ID()] = struct{}{}
			changed = true
		}
	}

	s.log.Info("command buffer scheduling finished",
		zap.String("module", m.Name()),
		zap.Bool("changed", changed),
		zap.Int("min_commands", s.minCommands))
	return changed, nil
}
