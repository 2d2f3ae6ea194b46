package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeEvent(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    Event
		wantErr bool
	}{
		{
			name:    "Thread assignment",
			payload: `{"type":"thread_id","thread_id":"abc","conversation_id":42}`,
			want:    Event{Kind: EventThreadAssigned, ThreadID: "abc", ConversationID: 42},
		},
		{
			name:    "Thread assignment without conversation",
			payload: `{"type":"thread_id","thread_id":"abc"}`,
			want:    Event{Kind: EventThreadAssigned, ThreadID: "abc"},
		},
		{
			name:    "Content delta",
			payload: `{"type":"content","content":"hi"}`,
			want:    Event{Kind: EventContentDelta, Text: "hi"},
		},
		{
			name:    "Done with thread refresh",
			payload: `{"type":"done","thread_id":"abc"}`,
			want:    Event{Kind: EventDone, ThreadID: "abc"},
		},
		{
			name:    "Done bare",
			payload: `{"type":"done"}`,
			want:    Event{Kind: EventDone},
		},
		{
			name:    "Error",
			payload: `{"type":"error","message":"assistant unavailable"}`,
			want:    Event{Kind: EventError, Text: "assistant unavailable"},
		},
		{
			name:    "Status",
			payload: `{"type":"status","message":"thinking"}`,
			want:    Event{Kind: EventStatus, Text: "thinking"},
		},
		{
			name:    "Unknown type maps to no-op",
			payload: `{"type":"telemetry","content":"x"}`,
			want:    Event{Kind: EventUnknown},
		},
		{
			name:    "Malformed JSON",
			payload: `{not json`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeEvent(tt.payload)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
