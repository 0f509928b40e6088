// Package cbsched groups scheduled data-flow instructions into command
// buffers.
//
// The library takes a module of computations whose instructions are already
// placed in a dependency-respecting schedule, finds maximal contiguous runs
// of instructions eligible for fused execution, lifts each run into a
// standalone computation, and rewrites the parent to invoke it through a
// single call. The program's observable data flow is preserved exactly.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	cbsched/
//	├── hlo/         The IR: modules, computations, arena-allocated instructions
//	├── hlotext/     Textual IR parsing (the inverse of hlo's String methods)
//	├── cmdbuffer/   The scheduling pass: hoister, segmenter, extractor, rewriter
//	├── errors/      Structured error types for debugging
//	└── cmd/cbsched/ CLI for running the pass over textual IR files
//
// # Quick Start
//
// Parse a module, run the pass, and print the result:
//
//	mod, err := hlotext.Parse(src)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	pass := cmdbuffer.New(toolkitVersion, driverVersion,
//	    cmdbuffer.WithMinCommands(2))
//	config := cmdbuffer.NewCommandConfig("fusion", "copy", "memset")
//
//	changed, err := pass.Run(mod, config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(mod, changed)
//
// Which instruction kinds go into the config is caller policy, typically
// gated on the build-time and runtime capability versions of the target.
// The pass itself only consumes the resulting set.
//
// # Thread Safety
//
// A pass invocation mutates one module single-threaded to completion. The
// processed set that prevents double-lifting is threaded through every
// computation of one Run call; running passes over distinct modules
// concurrently is safe, sharing a module between concurrent runs is not.
package cbsched
