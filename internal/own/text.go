package own

import (
	"fmt"

	"golang.org/x/text/unicode/norm"
)

// Text is a growable, heap-backed character buffer. Content is kept in NFC so
// Len is stable for visually identical input.
//
// Its exported methods only read. Appending goes through PushStr, which needs
// an exclusive borrow, so neither a shared Ref nor an immutable binding can
// change the buffer.
type Text struct {
	buf   []byte
	freed bool
}

// NewText allocates a buffer holding s.
func NewText(s string) *Text {
	return &Text{buf: []byte(norm.NFC.String(s))}
}

func (t *Text) pushStr(s string) {
	t.mustLive("push_str")
	t.buf = norm.NFC.AppendString(t.buf, s)
}

// Len returns the length in bytes.
func (t *Text) Len() int {
	t.mustLive("len")
	return len(t.buf)
}

// Cap returns the capacity of the backing buffer.
func (t *Text) Cap() int {
	t.mustLive("cap")
	return cap(t.buf)
}

// Clone returns a deep copy with its own backing storage.
func (t *Text) Clone() *Text {
	t.mustLive("clone")
	return &Text{buf: append([]byte(nil), t.buf...)}
}

func (t *Text) String() string {
	if t == nil {
		return "<nil>"
	}
	if t.freed {
		return "<freed>"
	}
	return string(t.buf)
}

// Freed reports whether the buffer was released by a drop.
func (t *Text) Freed() bool {
	return t != nil && t.freed
}

func (t *Text) drop() {
	if t == nil {
		return
	}
	t.buf = nil
	t.freed = true
}

// mustLive guards the buffer itself. Reaching a freed Text means a pointer
// escaped its owning binding, which the binding checks cannot catch.
func (t *Text) mustLive(op string) {
	if t == nil {
		panic(fmt.Sprintf("own: %s on nil text", op))
	}
	if t.freed {
		panic(fmt.Sprintf("own: %s on freed text (use after free)", op))
	}
}
