package cmdbuffer

import "github.com/flowir/cbsched/hlo"

// CommandConfig is the set of instruction kinds that may be recorded into a
// command buffer. The pass treats it as opaque policy: whatever gating by
// hardware or capability version produced the set happens in the caller.
type CommandConfig map[hlo.OpKind]struct{}

// NewCommandConfig builds a config from a list of enabled kinds.
func NewCommandConfig(kinds ...hlo.OpKind) CommandConfig {
	cfg := make(CommandConfig, len(kinds))
	for _, k := range kinds {
		cfg[k] = struct{}{}
	}
	return cfg
}

// Enabled reports whether a kind is in the config.
func (cfg CommandConfig) Enabled(kind hlo.OpKind) bool {
	_, ok := cfg[kind]
	return ok
}
