package source

import (
	"fmt"
)

// Site locates an action inside a lesson: the block that performed it, the
// ordinal of the action within that block and the binding it touched.
type Site struct {
	Block string
	Step  uint32 // 1-based, 0 means unknown
	Label string
}

func (s Site) Empty() bool {
	return s.Block == "" && s.Step == 0
}

func (s Site) String() string {
	if s.Empty() {
		return "<no-site>"
	}
	where := s.Block
	if s.Step != 0 {
		where = fmt.Sprintf("%s#%d", s.Block, s.Step)
	}
	if s.Label == "" {
		return where
	}
	return fmt.Sprintf("%s (%s)", where, s.Label)
}

// Before reports whether s happened earlier than other. Sites from different
// blocks are ordered by block name so output stays deterministic.
func (s Site) Before(other Site) bool {
	if s.Block != other.Block {
		return s.Block < other.Block
	}
	return s.Step < other.Step
}
