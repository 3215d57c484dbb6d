package own

import (
	"fmt"

	"ownership/internal/diag"
)

// Ref is a shared, read-only reference to an Owned binding. It does not own
// the value; the owner stays usable for reads while the reference is live.
type Ref[T any] struct {
	owner    *Owned[T]
	id       BorrowID
	released bool
}

// Get reads the borrowed value.
func (r *Ref[T]) Get() (T, error) {
	var zero T
	if err := r.live(); err != nil {
		return zero, err
	}
	r.owner.sc.record(Event{Kind: EvRead, Binding: r.owner.slot.name, Borrow: r.id, BorrowKind: r.kind()})
	return r.owner.val, nil
}

// Owner returns the name of the borrowed binding.
func (r *Ref[T]) Owner() string {
	return r.owner.slot.name
}

// Release ends the borrow. Releasing twice is a no-op.
func (r *Ref[T]) Release() {
	if r == nil || r.released {
		return
	}
	r.released = true
	if r.owner.sc.borrows.EndBorrow(r.id) {
		r.owner.sc.record(Event{Kind: EvBorrowEnd, Binding: r.owner.slot.name, Borrow: r.id, BorrowKind: r.kind()})
	}
}

func (r *Ref[T]) kind() BorrowKind {
	if info := r.owner.sc.borrows.Info(r.id); info != nil {
		return info.Kind
	}
	return BorrowShared
}

func (r *Ref[T]) live() *Error {
	info := r.owner.sc.borrows.Info(r.id)
	if !r.released && info != nil && !info.Ended {
		return nil
	}
	name := quote(r.owner.slot.name)
	site := r.owner.sc.peekSite(r.owner.slot.name)
	if !r.owner.sc.ended {
		site = r.owner.sc.record(Event{Kind: EvRead, Binding: r.owner.slot.name, Borrow: r.id, Issue: diag.OwnBorrowReleased})
	}
	err := &Error{
		Code:    diag.OwnBorrowReleased,
		Binding: r.owner.slot.name,
		Site:    site,
		Message: fmt.Sprintf("reference to %s used after it was released", name),
	}
	if info != nil {
		err.Related = info.Site
		err.RelatedNote = fmt.Sprintf("%s borrow of %s taken here", info.Kind, name)
	}
	return err
}

// MutRef is an exclusive, mutable reference. While it is live no other access
// to the owner is allowed; changes made through it are visible to the owner.
type MutRef[T any] struct {
	Ref[T]
}

// Set replaces the borrowed value in place.
func (m *MutRef[T]) Set(v T) error {
	if err := m.live(); err != nil {
		return err
	}
	if !sameResource(m.owner.val, v) {
		m.owner.release()
	}
	m.owner.val = v
	m.owner.sc.record(Event{Kind: EvWrite, Binding: m.owner.slot.name, Borrow: m.id, BorrowKind: BorrowMut})
	return nil
}

// Update applies fn to the borrowed value and stores the result.
func (m *MutRef[T]) Update(fn func(T) T) error {
	if err := m.live(); err != nil {
		return err
	}
	return m.Set(fn(m.owner.val))
}

// PushStr appends s to the text behind an exclusive borrow.
func PushStr(m *MutRef[*Text], s string) error {
	if err := m.live(); err != nil {
		return err
	}
	m.owner.val.pushStr(s)
	m.owner.sc.record(Event{Kind: EvWrite, Binding: m.owner.slot.name, Borrow: m.id, BorrowKind: BorrowMut, Note: "push_str"})
	return nil
}
