package chat

import (
	"encoding/json"
	"fmt"
)

// EventKind discriminates decoded stream events.
type EventKind int

const (
	// EventUnknown covers `type` values this client does not know about.
	// They dispatch to nothing, matching the skip-and-keep-going posture
	// toward stream noise.
	EventUnknown EventKind = iota
	EventThreadAssigned
	EventContentDelta
	EventDone
	EventError
	EventStatus
)

// Event is one decoded unit from the chat stream. Which fields are
// meaningful depends on Kind: ThreadID/ConversationID for thread
// assignment and done, Text for content deltas, error messages and status
// lines.
type Event struct {
	Kind           EventKind
	ThreadID       string
	ConversationID int64
	Text           string
}

type wireEvent struct {
	Type           string `json:"type"`
	ThreadID       string `json:"thread_id"`
	ConversationID int64  `json:"conversation_id"`
	Content        string `json:"content"`
	Message        string `json:"message"`
}

// DecodeEvent parses one stream envelope. A JSON error is returned for the
// caller to log and skip; an unrecognised type is not an error.
func DecodeEvent(payload string) (Event, error) {
	var wire wireEvent
	if err := json.Unmarshal([]byte(payload), &wire); err != nil {
		return Event{}, fmt.Errorf("decode stream envelope: %w", err)
	}

	switch wire.Type {
	case "thread_id":
		return Event{
			Kind:           EventThreadAssigned,
			ThreadID:       wire.ThreadID,
			ConversationID: wire.ConversationID,
		}, nil
	case "content":
		return Event{Kind: EventContentDelta, Text: wire.Content}, nil
	case "done":
		return Event{Kind: EventDone, ThreadID: wire.ThreadID}, nil
	case "error":
		return Event{Kind: EventError, Text: wire.Message}, nil
	case "status":
		return Event{Kind: EventStatus, Text: wire.Message}, nil
	default:
		return Event{Kind: EventUnknown}, nil
	}
}
