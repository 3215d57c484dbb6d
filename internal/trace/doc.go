// Package trace records what the ownership runtime does while a lesson runs.
//
// Events are emitted to a Tracer carried in context.Context. Lessons open a
// span per block (ScopePass), function calls open nested spans (ScopeModule)
// and every binding action (let, copy, move, borrow, drop) is a point event
// at ScopeNode. The Level decides which granularity reaches the output:
//
//	off     nothing
//	error   nothing (reserved for crash dumps)
//	phase   lesson blocks only
//	detail  lesson blocks and function calls
//	debug   everything, including individual binding events
//
// Storage is either a stream (text or ndjson, written immediately), a ring
// buffer kept in memory, or both. A ring snapshot can be exported with
// WriteMsgpack for offline inspection.
package trace
