package lesson

import (
	"context"
	"errors"
	"fmt"
	"io"

	"ownership/internal/diag"
	"ownership/internal/own"
)

// Counterexample is a program the ownership rules reject. Running it must
// fail with Expect.
type Counterexample struct {
	Lesson int
	Name   string
	Expect diag.Code
	Fix    diag.Fix
	run    func(ctx context.Context) error
}

var counterexamples = []Counterexample{
	{
		Lesson: 2,
		Name:   "use after assignment move",
		Expect: diag.OwnUseAfterMove,
		Fix:    diag.Fix{Title: "clone the buffer instead of moving it", Replacement: "own.Let(sc, \"t\", sv.Clone())"},
		run:    readAfterAssignMove,
	},
	{
		Lesson: 3,
		Name:   "use after move into function",
		Expect: diag.OwnUseAfterMove,
		Fix:    diag.Fix{Title: "lend the buffer instead of moving it", Replacement: "ref, err := s.Borrow()"},
		run:    readAfterCallMove,
	},
	{
		Lesson: 3,
		Name:   "use after move without rebinding",
		Expect: diag.OwnUseAfterMove,
		Fix:    diag.Fix{Title: "bind the returned value", Replacement: "newS = own.Let(sc, \"new_s\", returned)"},
		run:    readAfterDiscardedReturn,
	},
	{
		Lesson: 3,
		Name:   "assign to immutable binding",
		Expect: diag.OwnAssignImmutable,
		Fix:    diag.Fix{Title: "shadow the binding instead of assigning to it", Replacement: "newS = own.Let(sc, \"new_s\", returned)"},
		run:    assignImmutable,
	},
	{
		Lesson: 4,
		Name:   "mutable borrow of immutable binding",
		Expect: diag.OwnBorrowImmutable,
		Fix:    diag.Fix{Title: "declare the binding mutable", Replacement: "own.LetMut(sc, \"mystr\", own.NewText(\"Ziopera\"))"},
		run:    borrowImmutableMut,
	},
}

// Counterexamples returns the rejected programs in lesson order.
func Counterexamples() []Counterexample {
	out := make([]Counterexample, len(counterexamples))
	copy(out, counterexamples)
	return out
}

// Check runs the counterexample and returns the refusal it produced. A
// counterexample that runs cleanly or fails with another code is an error.
func (c Counterexample) Check(ctx context.Context) (*own.Error, error) {
	err := c.run(ctx)
	if err == nil {
		return nil, fmt.Errorf("counterexample %q was accepted", c.Name)
	}
	var oe *own.Error
	if !errors.As(err, &oe) {
		return nil, fmt.Errorf("counterexample %q: %w", c.Name, err)
	}
	if oe.Code != c.Expect {
		return oe, fmt.Errorf("counterexample %q: got %s, want %s", c.Name, oe.Code.ID(), c.Expect.ID())
	}
	return oe, nil
}

// Explain runs every counterexample and reports each refusal to r. It returns
// the number of diagnostics reported.
func Explain(ctx context.Context, r diag.Reporter) (int, error) {
	reported := 0
	for _, c := range counterexamples {
		oe, err := c.Check(ctx)
		if err != nil {
			return reported, err
		}
		oe.Report(r, c.Fix)
		reported++
	}
	return reported, nil
}

func readAfterAssignMove(ctx context.Context) error {
	_, sc := own.Enter(ctx, "SCOPE 2")
	defer sc.End()

	s := own.Let(sc, "s", own.NewText("hello "))
	v, err := s.Move("'t'")
	if err != nil {
		return err
	}
	own.Let(sc, "t", v)
	_, err = s.Get()
	return err
}

func readAfterCallMove(ctx context.Context) error {
	ctx, sc := own.Enter(ctx, "SCOPE 3")
	defer sc.End()

	s := own.Let(sc, "s", own.NewText("hello "))
	arg, err := s.Move("print_len_with_ownership")
	if err != nil {
		return err
	}
	if err := printLenWithOwnership(ctx, &narrator{w: io.Discard}, arg); err != nil {
		return err
	}
	_, err = s.Get()
	return err
}

func readAfterDiscardedReturn(ctx context.Context) error {
	ctx, sc := own.Enter(ctx, "SCOPE 3")
	defer sc.End()

	newS := own.Let(sc, "new_s", own.NewText("hello "))
	arg, err := newS.Move("take_and_return_ownership_with_mut")
	if err != nil {
		return err
	}
	if _, err := takeAndReturnOwnershipWithMut(ctx, &narrator{w: io.Discard}, arg); err != nil {
		return err
	}
	_, err = newS.Get()
	return err
}

func assignImmutable(ctx context.Context) error {
	ctx, sc := own.Enter(ctx, "SCOPE 3")
	defer sc.End()

	newS := own.Let(sc, "new_s", own.NewText("hello "))
	arg, err := newS.Move("take_and_return_ownership_with_mut")
	if err != nil {
		return err
	}
	returned, err := takeAndReturnOwnershipWithMut(ctx, &narrator{w: io.Discard}, arg)
	if err != nil {
		return err
	}
	return newS.Set(returned)
}

func borrowImmutableMut(ctx context.Context) error {
	_, sc := own.Enter(ctx, "SCOPE 4")
	defer sc.End()

	mystr := own.Let(sc, "mystr", own.NewText("Ziopera"))
	m, err := mystr.BorrowMut()
	if err != nil {
		return err
	}
	defer m.Release()
	return appendWithBorrowing(m)
}
