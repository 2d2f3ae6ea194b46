package sse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecoderFeed(t *testing.T) {
	tests := []struct {
		name   string
		chunks []string
		want   []string
		rest   string
	}{
		{
			name:   "Single complete line",
			chunks: []string{"data: {\"type\":\"content\"}\n"},
			want:   []string{"data: {\"type\":\"content\"}"},
		},
		{
			name:   "Two lines in one chunk",
			chunks: []string{"data: a\ndata: b\n"},
			want:   []string{"data: a", "data: b"},
		},
		{
			name:   "Line split across chunks",
			chunks: []string{"data: {\"type\":\"con", "tent\",\"content\":\"hi\"}\n"},
			want:   []string{"data: {\"type\":\"content\",\"content\":\"hi\"}"},
		},
		{
			name:   "Byte-at-a-time",
			chunks: []string{"d", "a", "t", "a", ":", " ", "x", "\n"},
			want:   []string{"data: x"},
		},
		{
			name:   "Trailing partial retained",
			chunks: []string{"data: a\ndata: b"},
			want:   []string{"data: a"},
			rest:   "data: b",
		},
		{
			name:   "Empty lines preserved",
			chunks: []string{"\n\ndata: a\n"},
			want:   []string{"", "", "data: a"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Decoder
			var got []string
			for _, chunk := range tt.chunks {
				got = append(got, d.Feed([]byte(chunk))...)
			}
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.rest, d.Rest())
		})
	}
}

func TestDecoderChunkingInvariance(t *testing.T) {
	// The same stream must decode to the same lines however it is chunked.
	stream := "data: {\"type\":\"thread_id\",\"thread_id\":\"abc\"}\ndata: {\"type\":\"content\",\"content\":\"hel\"}\ndata: {\"type\":\"content\",\"content\":\"lo\"}\ndata: {\"type\":\"done\"}\n"

	var whole Decoder
	want := whole.Feed([]byte(stream))

	for size := 1; size <= len(stream); size++ {
		var d Decoder
		var got []string
		for i := 0; i < len(stream); i += size {
			end := i + size
			if end > len(stream) {
				end = len(stream)
			}
			got = append(got, d.Feed([]byte(stream[i:end]))...)
		}
		assert.Equal(t, want, got, "chunk size %d", size)
		assert.Empty(t, d.Rest())
	}
}

func TestPayload(t *testing.T) {
	tests := []struct {
		name string
		line string
		want string
		ok   bool
	}{
		{"Data line", "data: {\"type\":\"done\"}", "{\"type\":\"done\"}", true},
		{"Trailing whitespace trimmed", "data: {\"a\":1}  ", "{\"a\":1}", true},
		{"Carriage return trimmed", "data: {\"a\":1}\r", "{\"a\":1}", true},
		{"Empty payload skipped", "data: ", "", false},
		{"Whitespace payload skipped", "data:   ", "", false},
		{"No prefix", "event: ping", "", false},
		{"Empty line", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Payload(tt.line)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
