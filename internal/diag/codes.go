package diag

import "fmt"

type Code uint16

const (
	UnknownCode Code = 0

	// Ownership rules
	OwnUseAfterMove        Code = 3101
	OwnUseAfterDrop        Code = 3102
	OwnAssignImmutable     Code = 3104
	OwnBorrowImmutable     Code = 3105
	OwnBorrowConflict      Code = 3106
	OwnMutateWhileBorrowed Code = 3107
	OwnMoveWhileBorrowed   Code = 3108
	OwnBorrowReleased      Code = 3109
	OwnScopeEnded          Code = 3110

	// Configuration
	CfgParse      Code = 5001
	CfgUnknownKey Code = 5002
	CfgBadValue   Code = 5003
)

var (
	codeDescription = map[Code]string{
		UnknownCode:            "Unknown error",
		OwnUseAfterMove:        "use of moved value",
		OwnUseAfterDrop:        "use of dropped value",
		OwnAssignImmutable:     "cannot assign twice to immutable binding",
		OwnBorrowImmutable:     "cannot take mutable borrow of immutable binding",
		OwnBorrowConflict:      "Borrow conflict",
		OwnMutateWhileBorrowed: "Mutation while borrowed",
		OwnMoveWhileBorrowed:   "Move while borrowed",
		OwnBorrowReleased:      "use of released reference",
		OwnScopeEnded:          "use of binding after its scope ended",
		CfgParse:               "Configuration file is not valid TOML",
		CfgUnknownKey:          "Unknown configuration key",
		CfgBadValue:            "Invalid configuration value",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 3100 && ic < 3200:
		return fmt.Sprintf("OWN%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("CFG%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
