package lesson

import (
	"context"

	"ownership/internal/own"
)

// printIncrementedInt takes its argument by value; the caller's binding is
// untouched.
func printIncrementedInt(n *narrator, arg int32) {
	res := arg + 1
	n.say("print_incremented_int:argument incremented by one is: %d", res)
}

// printLenWithOwnership takes ownership of arg. The buffer is released when
// the function's scope ends.
func printLenWithOwnership(ctx context.Context, n *narrator, arg *own.Text) error {
	_, sc := own.Enter(ctx, "print_len_with_ownership")
	defer sc.End()

	s := own.Let(sc, "arg", arg)
	v, err := s.Get()
	if err != nil {
		return err
	}
	n.say("print_len_with_ownership:length of string %s: %d", v, v.Len())
	return nil
}

// takeAndReturnOwnershipWithMut binds its argument mutably whatever the
// caller declared, appends to it and hands ownership back.
func takeAndReturnOwnershipWithMut(ctx context.Context, n *narrator, arg *own.Text) (*own.Text, error) {
	_, sc := own.Enter(ctx, "take_and_return_ownership_with_mut")
	defer sc.End()

	s := own.LetMut(sc, "arg", arg)
	v, err := s.Get()
	if err != nil {
		return nil, err
	}
	n.say("take_and_return_ownership_with_mut:length of string %s: %d", v, v.Len())

	m, err := s.BorrowMut()
	if err != nil {
		return nil, err
	}
	if err := own.PushStr(m, "world!"); err != nil {
		return nil, err
	}
	m.Release()

	v, err = s.Get()
	if err != nil {
		return nil, err
	}
	n.say("take_and_return_ownership_with_mut:length of %s after adding 'world!' to it: %d", v, v.Len())

	return s.Move("the caller")
}

func printLenWithBorrowing(n *narrator, s *own.Ref[*own.Text]) error {
	v, err := s.Get()
	if err != nil {
		return err
	}
	n.say("print_len_with_borrowing:the string %s has length %d", v, v.Len())
	return nil
}

func appendWithBorrowing(s *own.MutRef[*own.Text]) error {
	return own.PushStr(s, " fra!")
}
