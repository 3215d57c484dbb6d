package trace

import (
	"fmt"
	"io"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// Current schema version - increment when the record format changes.
const exportSchemaVersion uint16 = 1

// ExportRecord is the msgpack form of an Event.
type ExportRecord struct {
	Seq      uint64            `msgpack:"seq"`
	TimeUnix int64             `msgpack:"time_unix_nano"`
	Kind     string            `msgpack:"kind"`
	Scope    string            `msgpack:"scope"`
	SpanID   uint64            `msgpack:"span_id"`
	ParentID uint64            `msgpack:"parent_id,omitempty"`
	Name     string            `msgpack:"name"`
	Detail   string            `msgpack:"detail,omitempty"`
	Extra    map[string]string `msgpack:"extra,omitempty"`
}

// ExportPayload is the top-level document written by WriteMsgpack.
type ExportPayload struct {
	Schema  uint16         `msgpack:"schema"`
	Created int64          `msgpack:"created_unix_nano"`
	Events  []ExportRecord `msgpack:"events"`
}

// WriteMsgpack encodes events as a single ExportPayload.
func WriteMsgpack(w io.Writer, events []Event) error {
	payload := ExportPayload{
		Schema:  exportSchemaVersion,
		Created: time.Now().UnixNano(),
		Events:  make([]ExportRecord, 0, len(events)),
	}
	for i := range events {
		ev := &events[i]
		payload.Events = append(payload.Events, ExportRecord{
			Seq:      ev.Seq,
			TimeUnix: ev.Time.UnixNano(),
			Kind:     ev.Kind.String(),
			Scope:    ev.Scope.String(),
			SpanID:   ev.SpanID,
			ParentID: ev.ParentID,
			Name:     ev.Name,
			Detail:   ev.Detail,
			Extra:    ev.Extra,
		})
	}
	if err := msgpack.NewEncoder(w).Encode(&payload); err != nil {
		return fmt.Errorf("encode trace export: %w", err)
	}
	return nil
}

// ReadMsgpack decodes a payload produced by WriteMsgpack.
func ReadMsgpack(r io.Reader) (*ExportPayload, error) {
	var payload ExportPayload
	if err := msgpack.NewDecoder(r).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode trace export: %w", err)
	}
	if payload.Schema != exportSchemaVersion {
		return nil, fmt.Errorf("unsupported trace export schema %d (want %d)", payload.Schema, exportSchemaVersion)
	}
	return &payload, nil
}
