package sourcegraph

import (
	"bytes"
	"codycli/internal/port/outbound"
	"encoding/json"
)

var (
	dataPrefix   = []byte("data: ")
	doneSentinel = []byte("[DONE]")
)

// EventDecoder reassembles newline-terminated lines from arbitrarily split
// chunks of a completions stream and keeps the last completion snapshot.
//
// Only lines starting with "data: " are considered. The "[DONE]" sentinel is
// ignored, as are payloads that are not JSON objects. A payload with a string
// "completion" field replaces the previous snapshot. Bytes after the final
// newline are never interpreted.
type EventDecoder struct {
	buf        []byte
	completion string
	seen       bool
	done       bool
	events     int
	skipped    int
	lastError  string
	onEvent    func(outbound.StreamEvent)
}

// NewEventDecoder creates a decoder. onEvent, if non-nil, is called for every
// completion snapshot.
func NewEventDecoder(onEvent func(outbound.StreamEvent)) *EventDecoder {
	return &EventDecoder{onEvent: onEvent}
}

// Write consumes the next chunk of the stream. It never fails.
func (d *EventDecoder) Write(p []byte) (int, error) {
	d.buf = append(d.buf, p...)

	consumed := 0
	for {
		i := bytes.IndexByte(d.buf[consumed:], '\n')
		if i < 0 {
			break
		}
		d.handleLine(d.buf[consumed : consumed+i+1])
		consumed += i + 1
	}

	if consumed > 0 {
		d.buf = append(d.buf[:0], d.buf[consumed:]...)
	}

	return len(p), nil
}

func (d *EventDecoder) handleLine(line []byte) {
	if !bytes.HasPrefix(line, dataPrefix) {
		return
	}
	payload := bytes.TrimRight(line[len(dataPrefix):], "\r\n")

	if bytes.Equal(payload, doneSentinel) {
		d.done = true
		return
	}

	var fields map[string]interface{}
	if err := json.Unmarshal(payload, &fields); err != nil {
		d.skipped++
		return
	}

	if msg, ok := fields["error"].(string); ok {
		d.lastError = msg
	}

	completion, ok := fields["completion"].(string)
	if !ok {
		return
	}

	d.completion = completion
	d.seen = true
	d.events++

	if d.onEvent != nil {
		stopReason, _ := fields["stopReason"].(string)
		d.onEvent(outbound.StreamEvent{Completion: completion, StopReason: stopReason})
	}
}

// Completion returns the last completion snapshot, or "" if none was seen.
func (d *EventDecoder) Completion() string {
	return d.completion
}

// Seen reports whether any completion snapshot was decoded.
func (d *EventDecoder) Seen() bool {
	return d.seen
}

// Done reports whether the "[DONE]" sentinel was received.
func (d *EventDecoder) Done() bool {
	return d.done
}

// Events returns the number of completion snapshots decoded.
func (d *EventDecoder) Events() int {
	return d.events
}

// Skipped returns the number of data lines whose payload was not JSON.
func (d *EventDecoder) Skipped() int {
	return d.skipped
}

// LastError returns the message of the last data payload carrying an "error" field.
func (d *EventDecoder) LastError() string {
	return d.lastError
}
