// Package own enforces move and borrow rules at run time.
//
// Go copies values on assignment and shares heap data through pointers, so it
// has no notion of a binding that becomes unusable once its value is moved.
// This package adds one: every owning binding lives in a slot of a Scope and
// carries moved/dropped flags that are checked on each access. Misuse is
// reported as an *Error whose Code is one of the diag.Own* codes; nothing here
// panics on a rule violation.
//
// The pieces map onto the usual vocabulary:
//
//	Let / LetMut      declare an immutable / mutable owning binding
//	CopyOf            bind an independent copy of a scalar binding
//	Owned.Move        transfer ownership; the source slot becomes unusable
//	Owned.Borrow      shared, read-only reference (Ref)
//	Owned.BorrowMut   exclusive, mutable reference (MutRef)
//	Owned.Drop        end a binding early
//	Scope.End         release every borrow and drop live slots in reverse order
//
// Borrows are lexical: a Ref or MutRef is valid until Release or until the
// scope that owns the borrowed binding ends. While a shared borrow is live the
// owner cannot be mutated, moved or exclusively borrowed; while an exclusive
// borrow is live the owner cannot be used at all.
//
// A second Let with an existing name shadows the earlier binding: the earlier
// slot keeps its state and is simply no longer reachable by that name.
package own
