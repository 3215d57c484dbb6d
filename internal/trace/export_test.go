package trace

import (
	"bytes"
	"testing"
	"time"
)

func TestWriteMsgpackReadBack(t *testing.T) {
	events := []Event{
		{Seq: 1, Time: time.Unix(0, 42), Kind: KindSpanBegin, Scope: ScopePass, SpanID: 1, Name: "SCOPE 2"},
		{Seq: 2, Kind: KindPoint, Scope: ScopeNode, SpanID: 1, ParentID: 1, Name: "move", Detail: "s", Extra: map[string]string{"to": "t"}},
	}

	var buf bytes.Buffer
	if err := WriteMsgpack(&buf, events); err != nil {
		t.Fatalf("WriteMsgpack: %v", err)
	}

	payload, err := ReadMsgpack(&buf)
	if err != nil {
		t.Fatalf("ReadMsgpack: %v", err)
	}
	if len(payload.Events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(payload.Events))
	}
	got := payload.Events[1]
	if got.Name != "move" || got.Scope != "node" || got.Extra["to"] != "t" {
		t.Errorf("unexpected record: %+v", got)
	}
	if payload.Events[0].TimeUnix != 42 {
		t.Errorf("time not preserved: %d", payload.Events[0].TimeUnix)
	}
}

func TestReadMsgpackRejectsGarbage(t *testing.T) {
	if _, err := ReadMsgpack(bytes.NewReader([]byte{0xc1})); err == nil {
		t.Fatal("expected decode error")
	}
}
