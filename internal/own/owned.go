package own

import (
	"fmt"

	"ownership/internal/diag"
)

// Scalar lists the types with copy semantics that CopyOf accepts.
type Scalar interface {
	~bool | ~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// Owned is an owning binding of a value of type T.
type Owned[T any] struct {
	sc   *Scope
	slot *slot
	val  T
}

// Let declares an immutable binding initialised with v.
func Let[T any](sc *Scope, name string, v T) *Owned[T] {
	return declare(sc, name, v, false, EvLet, "")
}

// LetMut declares a mutable binding initialised with v.
func LetMut[T any](sc *Scope, name string, v T) *Owned[T] {
	return declare(sc, name, v, true, EvLet, "mut")
}

// CopyOf declares an immutable binding holding a copy of src's value. The two
// bindings are independent afterwards.
func CopyOf[T Scalar](sc *Scope, name string, src *Owned[T]) (*Owned[T], error) {
	v, err := src.Get()
	if err != nil {
		return nil, err
	}
	return declare(sc, name, v, false, EvCopy, "from "+quote(src.slot.name)), nil
}

func declare[T any](sc *Scope, name string, v T, mutable bool, kind EventKind, note string) *Owned[T] {
	o := &Owned[T]{sc: sc, val: v}
	o.slot = sc.addSlot(name, mutable)
	o.slot.release = o.release
	o.slot.declared = sc.record(Event{Kind: kind, Binding: name, Note: note})
	return o
}

// Name returns the binding name.
func (o *Owned[T]) Name() string {
	return o.slot.name
}

// Mutable reports whether the binding was declared with LetMut.
func (o *Owned[T]) Mutable() bool {
	return o.slot.mutable
}

// Get reads the value. It fails when the binding was moved, dropped or is
// exclusively borrowed.
func (o *Owned[T]) Get() (T, error) {
	var zero T
	if err := o.usable(); err != nil {
		return zero, err
	}
	if issue := o.sc.borrows.ReadAllowed(o.slot.place); issue.Kind != BorrowIssueNone {
		return zero, o.borrowError(diag.OwnBorrowConflict, issue,
			fmt.Sprintf("cannot use %s while an exclusive borrow is active", quote(o.slot.name)), EvRead)
	}
	o.sc.record(Event{Kind: EvRead, Binding: o.slot.name})
	return o.val, nil
}

// Set assigns a new value. Immutable bindings cannot be assigned again, even
// after their value was moved out; a moved mutable binding is re-initialised.
// Assigning the value the binding already holds keeps it alive.
func (o *Owned[T]) Set(v T) error {
	if err := o.scopeLive(); err != nil {
		return err
	}
	name := quote(o.slot.name)
	if !o.slot.mutable {
		site := o.sc.record(Event{Kind: EvWrite, Binding: o.slot.name, Issue: diag.OwnAssignImmutable})
		return &Error{
			Code:        diag.OwnAssignImmutable,
			Binding:     o.slot.name,
			Site:        site,
			Message:     fmt.Sprintf("cannot assign twice to immutable binding %s", name),
			Related:     o.slot.declared,
			RelatedNote: fmt.Sprintf("first assignment to %s", name),
		}
	}
	if issue := o.sc.borrows.MutationAllowed(o.slot.place); issue.Kind != BorrowIssueNone {
		return o.borrowError(diag.OwnMutateWhileBorrowed, issue, mutationMessage(name, issue), EvWrite)
	}
	if !o.slot.moved && !o.slot.dropped && !sameResource(o.val, v) {
		o.release()
	}
	o.val = v
	o.slot.moved = false
	o.slot.dropped = false
	o.sc.record(Event{Kind: EvWrite, Binding: o.slot.name})
	return nil
}

// Move transfers the value out of the binding, which becomes unusable. to
// names the destination and shows up in diagnostics ("value moved into ...").
func (o *Owned[T]) Move(to string) (T, error) {
	var zero T
	if err := o.usable(); err != nil {
		return zero, err
	}
	name := quote(o.slot.name)
	if issue := o.sc.borrows.MoveAllowed(o.slot.place); issue.Kind != BorrowIssueNone {
		return zero, o.borrowError(diag.OwnMoveWhileBorrowed, issue, moveMessage(name, issue), EvMove)
	}
	v := o.val
	o.val = zero
	o.slot.moved = true
	o.slot.movedTo = to
	o.slot.movedAt = o.sc.record(Event{Kind: EvMove, Binding: o.slot.name, Note: "into " + to})
	return v, nil
}

// Borrow takes a shared reference.
func (o *Owned[T]) Borrow() (*Ref[T], error) {
	if err := o.usable(); err != nil {
		return nil, err
	}
	id, err := o.beginBorrow(BorrowShared)
	if err != nil {
		return nil, err
	}
	return &Ref[T]{owner: o, id: id}, nil
}

// BorrowMut takes an exclusive reference. Only mutable bindings can be
// exclusively borrowed.
func (o *Owned[T]) BorrowMut() (*MutRef[T], error) {
	if err := o.usable(); err != nil {
		return nil, err
	}
	if !o.slot.mutable {
		name := quote(o.slot.name)
		site := o.sc.record(Event{Kind: EvBorrowStart, Binding: o.slot.name, BorrowKind: BorrowMut, Issue: diag.OwnBorrowImmutable})
		return nil, &Error{
			Code:        diag.OwnBorrowImmutable,
			Binding:     o.slot.name,
			Site:        site,
			Message:     fmt.Sprintf("cannot borrow %s as mutable, as it is not declared as mutable", name),
			Related:     o.slot.declared,
			RelatedNote: fmt.Sprintf("%s declared immutable here", name),
		}
	}
	id, err := o.beginBorrow(BorrowMut)
	if err != nil {
		return nil, err
	}
	return &MutRef[T]{Ref: Ref[T]{owner: o, id: id}}, nil
}

// Drop ends the binding early and releases what it owns.
func (o *Owned[T]) Drop() error {
	if err := o.usable(); err != nil {
		return err
	}
	name := quote(o.slot.name)
	if issue := o.sc.borrows.MoveAllowed(o.slot.place); issue.Kind != BorrowIssueNone {
		return o.borrowError(diag.OwnMoveWhileBorrowed, issue, moveMessage(name, issue), EvDrop)
	}
	o.release()
	o.slot.dropped = true
	o.slot.droppedAt = o.sc.record(Event{Kind: EvDrop, Binding: o.slot.name})
	return nil
}

func (o *Owned[T]) beginBorrow(kind BorrowKind) (BorrowID, error) {
	id, issue := o.sc.borrows.BeginBorrow(o.sc.peekSite(o.slot.name), kind, o.slot.place)
	if issue.Kind != BorrowIssueNone {
		return NoBorrowID, o.borrowError(diag.OwnBorrowConflict, issue, conflictMessage(quote(o.slot.name), issue, kind), EvBorrowStart)
	}
	o.sc.record(Event{Kind: EvBorrowStart, Binding: o.slot.name, Borrow: id, BorrowKind: kind})
	return id, nil
}

func (o *Owned[T]) release() {
	if d, ok := any(o.val).(dropper); ok {
		d.drop()
	}
	var zero T
	o.val = zero
}

func (o *Owned[T]) scopeLive() *Error {
	if !o.sc.ended {
		return nil
	}
	return &Error{
		Code:    diag.OwnScopeEnded,
		Binding: o.slot.name,
		Site:    o.sc.peekSite(o.slot.name),
		Message: fmt.Sprintf("%s does not live past the end of %s", quote(o.slot.name), o.sc.name),
	}
}

// usable checks the flags every access shares.
func (o *Owned[T]) usable() *Error {
	if err := o.scopeLive(); err != nil {
		return err
	}
	s := o.slot
	name := quote(s.name)
	switch {
	case s.dropped:
		site := o.sc.record(Event{Kind: EvRead, Binding: s.name, Issue: diag.OwnUseAfterDrop})
		return &Error{
			Code:        diag.OwnUseAfterDrop,
			Binding:     s.name,
			Site:        site,
			Message:     fmt.Sprintf("use of dropped value %s", name),
			Related:     s.droppedAt,
			RelatedNote: "value dropped here",
		}
	case s.moved:
		site := o.sc.record(Event{Kind: EvRead, Binding: s.name, Issue: diag.OwnUseAfterMove})
		return &Error{
			Code:        diag.OwnUseAfterMove,
			Binding:     s.name,
			Site:        site,
			Message:     fmt.Sprintf("use of moved value %s", name),
			Related:     s.movedAt,
			RelatedNote: fmt.Sprintf("value moved into %s here", s.movedTo),
		}
	}
	return nil
}

func (o *Owned[T]) borrowError(code diag.Code, issue BorrowIssue, msg string, kind EventKind) *Error {
	site := o.sc.record(Event{Kind: kind, Binding: o.slot.name, Borrow: issue.Borrow, Issue: code})
	err := &Error{
		Code:    code,
		Binding: o.slot.name,
		Site:    site,
		Message: msg,
	}
	if info := o.sc.borrows.Info(issue.Borrow); info != nil {
		err.Related = info.Site
		err.RelatedNote = fmt.Sprintf("%s borrow of %s taken here", info.Kind, quote(o.slot.name))
	}
	return err
}

func conflictMessage(label string, issue BorrowIssue, kind BorrowKind) string {
	switch issue.Kind {
	case BorrowIssueConflictMut:
		if kind == BorrowShared {
			return fmt.Sprintf("cannot take shared borrow of %s while an exclusive borrow is active", label)
		}
		return fmt.Sprintf("cannot take mutable borrow of %s while another mutable borrow is active", label)
	case BorrowIssueConflictShared:
		return fmt.Sprintf("cannot take mutable borrow of %s while a shared borrow is active", label)
	default:
		return fmt.Sprintf("cannot borrow %s due to an active borrow", label)
	}
}

func mutationMessage(label string, issue BorrowIssue) string {
	switch issue.Kind {
	case BorrowIssueFrozen:
		return fmt.Sprintf("cannot mutate %s while it is shared-borrowed", label)
	case BorrowIssueTaken:
		return fmt.Sprintf("cannot mutate %s while an exclusive borrow is active", label)
	default:
		return fmt.Sprintf("cannot mutate %s due to an active borrow", label)
	}
}

func moveMessage(label string, issue BorrowIssue) string {
	switch issue.Kind {
	case BorrowIssueFrozen:
		return fmt.Sprintf("cannot move %s while it is shared-borrowed", label)
	case BorrowIssueTaken:
		return fmt.Sprintf("cannot move %s while an exclusive borrow is active", label)
	default:
		return fmt.Sprintf("cannot move %s due to an active borrow", label)
	}
}

// sameResource reports whether a and b are the same droppable value, so that
// replacing one with the other must not free it.
func sameResource(a, b any) bool {
	da, ok := a.(dropper)
	if !ok {
		return false
	}
	db, ok := b.(dropper)
	return ok && da == db
}

func quote(name string) string {
	return "'" + name + "'"
}
