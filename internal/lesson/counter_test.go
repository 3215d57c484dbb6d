package lesson

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"ownership/internal/diag"
	"ownership/internal/source"
)

func TestCounterexamplesRejectWithExpectedCode(t *testing.T) {
	want := []diag.Code{
		diag.OwnUseAfterMove,
		diag.OwnUseAfterMove,
		diag.OwnUseAfterMove,
		diag.OwnAssignImmutable,
		diag.OwnBorrowImmutable,
	}
	cases := Counterexamples()
	require.Len(t, cases, len(want))
	for i, c := range cases {
		t.Run(c.Name, func(t *testing.T) {
			oe, err := c.Check(context.Background())
			require.NoError(t, err)
			require.Equal(t, want[i], oe.Code)
			require.False(t, oe.Related.Empty(), "refusal should point at the earlier action")
			require.NotEmpty(t, oe.RelatedNote)
		})
	}
}

func TestCounterexampleSites(t *testing.T) {
	oe, err := Counterexamples()[0].Check(context.Background())
	require.NoError(t, err)
	require.Equal(t, source.Site{Block: "SCOPE 2", Step: 4, Label: "s"}, oe.Site)
	require.Equal(t, source.Site{Block: "SCOPE 2", Step: 2, Label: "s"}, oe.Related)
	require.Equal(t, "value moved into 't' here", oe.RelatedNote)

	oe, err = Counterexamples()[4].Check(context.Background())
	require.NoError(t, err)
	require.Equal(t, "'mystr' declared immutable here", oe.RelatedNote)
	require.Equal(t, source.Site{Block: "SCOPE 4", Step: 1, Label: "mystr"}, oe.Related)
}

func TestExplainReportsEveryCounterexample(t *testing.T) {
	bag := diag.NewBag(100)
	n, err := Explain(context.Background(), diag.BagReporter{Bag: bag})
	require.NoError(t, err)
	require.Equal(t, 5, n)
	require.Equal(t, 5, bag.Len())
	require.True(t, bag.HasErrors())

	for _, d := range bag.Items() {
		require.Len(t, d.Notes, 1)
		require.Len(t, d.Fixes, 1)
	}
	require.Equal(t, "declare the binding mutable", bag.Items()[4].Fixes[0].Title)
}

func TestCheckAcceptedProgram(t *testing.T) {
	c := Counterexample{Name: "fine", Expect: diag.OwnUseAfterMove, run: func(context.Context) error { return nil }}
	_, err := c.Check(context.Background())
	require.ErrorContains(t, err, "was accepted")
}

func TestCheckWrongCode(t *testing.T) {
	c := Counterexample{Name: "wrong", Expect: diag.OwnUseAfterMove, run: borrowImmutableMut}
	_, err := c.Check(context.Background())
	require.ErrorContains(t, err, "got OWN3105, want OWN3101")
}
