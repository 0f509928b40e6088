// Package cmdbuffer lifts runs of fusible instructions into command buffer
// computations.
//
// The pass walks each computation's schedule, segments it into maximal
// contiguous runs of eligible instructions, extracts every run into a fresh
// computation whose interface is inferred from the run's external data
// dependencies, and splices a single call back into the parent in the run's
// place.
//
// Before the pass:
//
//	entry computation main {
//	  %a = param(0)
//	  %b = param(1)
//	  %f = fusion(%a, %b) calls=helper
//	  root %f
//	}
//
// After the pass:
//
//	computation command_buffer {
//	  %p0 = param(0)
//	  %p1 = param(1)
//	  %f = fusion(%p0, %p1) calls=helper
//	  root %f
//	}
//
//	entry computation main {
//	  %a = param(0)
//	  %b = param(1)
//	  %call = call(%a, %b) calls=command_buffer
//	  root %call
//	}
//
// Which instruction kinds are eligible is pure policy supplied by the caller
// as a CommandConfig; the pass performs no capability-version logic itself.
package cmdbuffer
