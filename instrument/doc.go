// Package instrument decorates a catalog.Store with operation metrics
// and an optional event log.
//
// The wrapper is purely observational: arguments, results and errors
// pass through verbatim (errors.Is sees the same error chain), so it
// is always safe to omit. Per call it records the operation name,
// duration, success/failure, the error kind on failure, and the result
// size for List.
package instrument
