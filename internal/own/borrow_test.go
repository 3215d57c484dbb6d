package own

import (
	"testing"

	"ownership/internal/source"
)

func TestBorrowRejectsDoubleMutable(t *testing.T) {
	bt := NewBorrowTable()
	place := PlaceID(1)

	first, issue := bt.BeginBorrow(source.Site{Block: "b", Step: 1}, BorrowMut, place)
	if issue.Kind != BorrowIssueNone || first == NoBorrowID {
		t.Fatalf("first mutable borrow should succeed, got issue %v", issue)
	}
	_, issue = bt.BeginBorrow(source.Site{Block: "b", Step: 2}, BorrowMut, place)
	if issue.Kind != BorrowIssueConflictMut || issue.Borrow != first {
		t.Fatalf("expected conflict with %d, got %+v", first, issue)
	}
}

func TestBorrowSharedBlocksMutableAndMutation(t *testing.T) {
	bt := NewBorrowTable()
	place := PlaceID(1)

	a, _ := bt.BeginBorrow(source.Site{}, BorrowShared, place)
	if _, issue := bt.BeginBorrow(source.Site{}, BorrowShared, place); issue.Kind != BorrowIssueNone {
		t.Fatalf("two shared borrows must coexist, got %+v", issue)
	}
	if _, issue := bt.BeginBorrow(source.Site{}, BorrowMut, place); issue.Kind != BorrowIssueConflictShared {
		t.Fatalf("expected shared conflict, got %+v", issue)
	}
	if issue := bt.MutationAllowed(place); issue.Kind != BorrowIssueFrozen || issue.Borrow != a {
		t.Fatalf("expected frozen by %d, got %+v", a, issue)
	}
	if issue := bt.ReadAllowed(place); issue.Kind != BorrowIssueNone {
		t.Fatalf("reads are allowed under shared borrows, got %+v", issue)
	}
}

func TestBorrowMutBlocksReads(t *testing.T) {
	bt := NewBorrowTable()
	place := PlaceID(3)

	m, _ := bt.BeginBorrow(source.Site{}, BorrowMut, place)
	if issue := bt.ReadAllowed(place); issue.Kind != BorrowIssueTaken || issue.Borrow != m {
		t.Fatalf("expected read blocked by %d, got %+v", m, issue)
	}
	if !bt.EndBorrow(m) {
		t.Fatal("EndBorrow should report success")
	}
	if bt.EndBorrow(m) {
		t.Fatal("ending twice should report false")
	}
	if issue := bt.ReadAllowed(place); issue.Kind != BorrowIssueNone {
		t.Fatalf("read should be allowed after release, got %+v", issue)
	}
}

func TestBorrowEndAllReleasesNewestFirst(t *testing.T) {
	bt := NewBorrowTable()
	a, _ := bt.BeginBorrow(source.Site{}, BorrowShared, PlaceID(1))
	b, _ := bt.BeginBorrow(source.Site{}, BorrowMut, PlaceID(2))
	c, _ := bt.BeginBorrow(source.Site{}, BorrowShared, PlaceID(1))
	bt.EndBorrow(a)

	ended := bt.EndAll()
	if len(ended) != 2 || ended[0] != c || ended[1] != b {
		t.Fatalf("expected [%d %d], got %v", c, b, ended)
	}
	for _, place := range []PlaceID{1, 2} {
		if shared, mut := bt.Live(place); shared != 0 || mut {
			t.Errorf("place %d still borrowed: shared=%d mut=%v", place, shared, mut)
		}
	}
	if len(bt.Infos()) != 3 {
		t.Errorf("infos should keep history, got %d", len(bt.Infos()))
	}
}

func TestBorrowInvalidPlaceIsIgnored(t *testing.T) {
	bt := NewBorrowTable()
	id, issue := bt.BeginBorrow(source.Site{}, BorrowMut, PlaceID(0))
	if id != NoBorrowID || issue.Kind != BorrowIssueNone {
		t.Fatalf("invalid place must be a no-op, got %d %+v", id, issue)
	}
}
