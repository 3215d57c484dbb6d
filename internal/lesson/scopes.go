package lesson

import (
	"context"

	"ownership/internal/own"
)

// scalarCopy: copying a scalar yields an independent value.
func scalarCopy(ctx context.Context, n *narrator) error {
	_, sc := own.Enter(ctx, "SCOPE 1")
	defer sc.End()

	x := own.LetMut(sc, "x", int8(2))
	xv, err := x.Get()
	if err != nil {
		return err
	}
	n.say("x is %d", xv)

	y, err := own.CopyOf(sc, "y", x)
	if err != nil {
		return err
	}
	yv, err := y.Get()
	if err != nil {
		return err
	}
	n.say("y is %d", yv)

	if xv, err = x.Get(); err != nil {
		return err
	}
	n.say("I can still use x: in fact, x is %d", xv)

	if err := x.Set(3); err != nil {
		return err
	}
	if xv, err = x.Get(); err != nil {
		return err
	}
	if yv, err = y.Get(); err != nil {
		return err
	}
	n.say("Now I have bound x to %d. y is %d, so the copy I made with let y = x is 'deep'", xv, yv)
	return nil
}

// bufferMove: assigning a buffer moves it; s is unusable once t owns it.
func bufferMove(ctx context.Context, n *narrator) error {
	_, sc := own.Enter(ctx, "SCOPE 2")
	defer sc.End()

	s := own.Let(sc, "s", own.NewText("hello "))
	sv, err := s.Get()
	if err != nil {
		return err
	}
	n.say("s is %s", sv)

	moved, err := s.Move("'t'")
	if err != nil {
		return err
	}
	t := own.Let(sc, "t", moved)
	tv, err := t.Get()
	if err != nil {
		return err
	}
	n.say("t is %s", tv)
	return nil
}

// functionCalls: scalars are copied into functions, buffers are moved, and a
// moved buffer can be reclaimed by returning it and shadowing the name.
func functionCalls(ctx context.Context, n *narrator) error {
	ctx, sc := own.Enter(ctx, "SCOPE 3")
	defer sc.End()

	x := own.Let(sc, "x", int32(2))
	xv, err := x.Get()
	if err != nil {
		return err
	}
	n.say("x before calling print_incremented_int is %d", xv)
	printIncrementedInt(n, xv)
	if xv, err = x.Get(); err != nil {
		return err
	}
	n.say("x after calling print_icremented_int is %d", xv)

	// s is immutable here; the callee may still bind it mutably once it owns it.
	s := own.Let(sc, "s", own.NewText("hello "))
	sv, err := s.Get()
	if err != nil {
		return err
	}
	n.say("s is %s", sv)
	arg, err := s.Move("print_len_with_ownership")
	if err != nil {
		return err
	}
	if err := printLenWithOwnership(ctx, n, arg); err != nil {
		return err
	}

	newS := own.Let(sc, "new_s", own.NewText("hello "))
	arg, err = newS.Move("take_and_return_ownership_with_mut")
	if err != nil {
		return err
	}
	if _, err := takeAndReturnOwnershipWithMut(ctx, n, arg); err != nil {
		return err
	}

	newS = own.Let(sc, "new_s", own.NewText("hello "))
	if arg, err = newS.Move("take_and_return_ownership_with_mut"); err != nil {
		return err
	}
	returned, err := takeAndReturnOwnershipWithMut(ctx, n, arg)
	if err != nil {
		return err
	}
	newS = own.Let(sc, "new_s", returned)
	nv, err := newS.Get()
	if err != nil {
		return err
	}
	n.say("This is the value of new_s: %s", nv)
	return nil
}

// borrowing: references let the owner keep using its value.
func borrowing(ctx context.Context, n *narrator) error {
	_, sc := own.Enter(ctx, "SCOPE 4")
	defer sc.End()

	mystr := own.Let(sc, "mystr", own.NewText("Ziopera"))
	shared, err := mystr.Borrow()
	if err != nil {
		return err
	}
	if err := printLenWithBorrowing(n, shared); err != nil {
		return err
	}
	shared.Release()

	anotherStr := own.LetMut(sc, "another_str", own.NewText("ziopera"))
	exclusive, err := anotherStr.BorrowMut()
	if err != nil {
		return err
	}
	if err := appendWithBorrowing(exclusive); err != nil {
		return err
	}
	exclusive.Release()

	av, err := anotherStr.Get()
	if err != nil {
		return err
	}
	n.say("another_str after calling append_with_borrowing on it: %s", av)
	return nil
}
