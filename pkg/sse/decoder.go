// Package sse implements the newline-delimited "data: <json>" framing used
// by the chat endpoint, on both the consuming and producing side.
package sse

import (
	"bytes"
	"strings"
)

const dataPrefix = "data: "

// Decoder reassembles complete lines from a byte stream whose read chunks do
// not align with line boundaries. Bytes after the last newline are carried
// over until a later Feed completes the line.
type Decoder struct {
	carry []byte
}

// Feed appends one read's worth of bytes and returns every line completed by
// it, in order. Returned lines do not include the trailing newline.
func (d *Decoder) Feed(p []byte) []string {
	d.carry = append(d.carry, p...)

	var lines []string
	for {
		i := bytes.IndexByte(d.carry, '\n')
		if i < 0 {
			break
		}
		lines = append(lines, string(d.carry[:i]))
		d.carry = d.carry[i+1:]
	}
	return lines
}

// Rest returns the unterminated tail still held by the decoder. A non-empty
// rest at stream end means the server closed mid-line.
func (d *Decoder) Rest() string {
	return string(d.carry)
}

// Payload strips the "data: " prefix from a line and trims whitespace.
// It reports false for lines without the prefix and for empty payloads,
// both of which the stream consumer skips.
func Payload(line string) (string, bool) {
	if !strings.HasPrefix(line, dataPrefix) {
		return "", false
	}
	payload := strings.TrimSpace(strings.TrimPrefix(line, dataPrefix))
	if payload == "" {
		return "", false
	}
	return payload, true
}
