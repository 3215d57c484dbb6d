package own

import (
	"fmt"

	"fortio.org/safecast"

	"ownership/internal/source"
)

// BorrowID identifies a borrow entry.
type BorrowID uint32

// NoBorrowID marks the absence of a borrow.
const NoBorrowID BorrowID = 0

// BorrowKind differentiates shared vs mutable borrows.
type BorrowKind uint8

const (
	BorrowShared BorrowKind = iota
	BorrowMut
)

func (k BorrowKind) String() string {
	switch k {
	case BorrowShared:
		return "shared"
	case BorrowMut:
		return "mut"
	default:
		return "unknown"
	}
}

// PlaceID identifies a binding slot within its scope. Zero is invalid.
type PlaceID uint32

// IsValid reports whether the place references a slot.
func (p PlaceID) IsValid() bool {
	return p != 0
}

// BorrowInfo stores metadata about each borrow.
type BorrowInfo struct {
	ID    BorrowID
	Kind  BorrowKind
	Place PlaceID
	Site  source.Site
	Ended bool
}

type borrowState struct {
	shared []BorrowID
	mut    BorrowID
}

// BorrowIssueKind enumerates reasons a borrow-related action fails.
type BorrowIssueKind uint8

const (
	BorrowIssueNone BorrowIssueKind = iota
	BorrowIssueConflictShared
	BorrowIssueConflictMut
	BorrowIssueFrozen
	BorrowIssueTaken
)

// BorrowIssue carries information about conflicts.
type BorrowIssue struct {
	Kind   BorrowIssueKind
	Borrow BorrowID
}

// BorrowTable tracks active borrows and per-place state.
type BorrowTable struct {
	infos      []BorrowInfo
	placeState map[PlaceID]borrowState
	live       []BorrowID
}

// NewBorrowTable builds an empty borrow table ready for tracking.
func NewBorrowTable() *BorrowTable {
	return &BorrowTable{
		infos:      []BorrowInfo{{}},
		placeState: make(map[PlaceID]borrowState),
	}
}

// BeginBorrow registers a borrow of place taken at site.
func (bt *BorrowTable) BeginBorrow(site source.Site, kind BorrowKind, place PlaceID) (BorrowID, BorrowIssue) {
	if bt == nil || !place.IsValid() {
		return NoBorrowID, BorrowIssue{}
	}
	state := bt.placeState[place]
	switch kind {
	case BorrowShared:
		if state.mut != NoBorrowID {
			return NoBorrowID, BorrowIssue{Kind: BorrowIssueConflictMut, Borrow: state.mut}
		}
	case BorrowMut:
		if len(state.shared) > 0 {
			return NoBorrowID, BorrowIssue{Kind: BorrowIssueConflictShared, Borrow: state.shared[0]}
		}
		if state.mut != NoBorrowID {
			return NoBorrowID, BorrowIssue{Kind: BorrowIssueConflictMut, Borrow: state.mut}
		}
	}
	value, err := safecast.Conv[uint32](len(bt.infos))
	if err != nil {
		panic(fmt.Errorf("borrow table overflow: %w", err))
	}
	id := BorrowID(value)
	bt.infos = append(bt.infos, BorrowInfo{
		ID:    id,
		Kind:  kind,
		Place: place,
		Site:  site,
	})
	switch kind {
	case BorrowShared:
		state.shared = append(state.shared, id)
	case BorrowMut:
		state.mut = id
	}
	bt.placeState[place] = state
	bt.live = append(bt.live, id)
	return id, BorrowIssue{}
}

// EndBorrow expires a single borrow. It reports false when the borrow was
// unknown or already ended.
func (bt *BorrowTable) EndBorrow(id BorrowID) bool {
	info := bt.Info(id)
	if info == nil || info.Ended {
		return false
	}
	info.Ended = true
	state := bt.placeState[info.Place]
	switch info.Kind {
	case BorrowShared:
		state.shared = dropBorrowID(state.shared, id)
	case BorrowMut:
		if state.mut == id {
			state.mut = NoBorrowID
		}
	}
	if len(state.shared) == 0 && state.mut == NoBorrowID {
		delete(bt.placeState, info.Place)
	} else {
		bt.placeState[info.Place] = state
	}
	bt.live = dropBorrowIDOrdered(bt.live, id)
	return true
}

// EndAll expires every live borrow, most recent first, and returns their ids
// in that order.
func (bt *BorrowTable) EndAll() []BorrowID {
	if bt == nil || len(bt.live) == 0 {
		return nil
	}
	ended := make([]BorrowID, 0, len(bt.live))
	for len(bt.live) > 0 {
		id := bt.live[len(bt.live)-1]
		bt.EndBorrow(id)
		ended = append(ended, id)
	}
	return ended
}

// ReadAllowed verifies whether the owner of place may be read directly.
func (bt *BorrowTable) ReadAllowed(place PlaceID) BorrowIssue {
	if bt == nil || !place.IsValid() {
		return BorrowIssue{}
	}
	state, ok := bt.placeState[place]
	if !ok {
		return BorrowIssue{}
	}
	if state.mut != NoBorrowID {
		return BorrowIssue{Kind: BorrowIssueTaken, Borrow: state.mut}
	}
	return BorrowIssue{}
}

// MutationAllowed verifies whether the place can be mutated.
func (bt *BorrowTable) MutationAllowed(place PlaceID) BorrowIssue {
	if bt == nil || !place.IsValid() {
		return BorrowIssue{}
	}
	state, ok := bt.placeState[place]
	if !ok {
		return BorrowIssue{}
	}
	if len(state.shared) > 0 {
		return BorrowIssue{Kind: BorrowIssueFrozen, Borrow: state.shared[0]}
	}
	if state.mut != NoBorrowID {
		return BorrowIssue{Kind: BorrowIssueTaken, Borrow: state.mut}
	}
	return BorrowIssue{}
}

// MoveAllowed verifies whether the place can be moved from.
func (bt *BorrowTable) MoveAllowed(place PlaceID) BorrowIssue {
	return bt.MutationAllowed(place)
}

// Live reports how many shared borrows and whether an exclusive borrow are
// active on place.
func (bt *BorrowTable) Live(place PlaceID) (shared int, mut bool) {
	if bt == nil {
		return 0, false
	}
	state := bt.placeState[place]
	return len(state.shared), state.mut != NoBorrowID
}

// Info returns metadata for the borrow.
func (bt *BorrowTable) Info(id BorrowID) *BorrowInfo {
	if bt == nil || id == NoBorrowID || int(id) >= len(bt.infos) {
		return nil
	}
	return &bt.infos[id]
}

// Infos returns a shallow copy of stored borrow infos (excluding sentinel).
func (bt *BorrowTable) Infos() []BorrowInfo {
	if bt == nil || len(bt.infos) <= 1 {
		return nil
	}
	out := make([]BorrowInfo, len(bt.infos)-1)
	copy(out, bt.infos[1:])
	return out
}

func dropBorrowID(ids []BorrowID, target BorrowID) []BorrowID {
	if len(ids) == 0 {
		return ids
	}
	for i, id := range ids {
		if id == target {
			ids[i] = ids[len(ids)-1]
			return ids[:len(ids)-1]
		}
	}
	return ids
}

func dropBorrowIDOrdered(ids []BorrowID, target BorrowID) []BorrowID {
	for i, id := range ids {
		if id == target {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
