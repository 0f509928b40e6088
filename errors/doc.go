// Package errors provides structured error types for the cbsched library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type includes rich context: a location path naming the computation and
// instruction involved, an offending value, and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseExtract, errors.KindDanglingOperand).
//		Path("main", "fusion.2").
//		Detail("operand has no resolvable producer").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.DanglingOperand("main", "fusion.2", operand)
//	err := errors.UnresolvedUser("main", "fusion.2", "add.3")
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
