package chat

// Role identifies who produced a turn.
type Role string

const (
	RoleUser Role = "user"
	// The wire format kept the original frontend's name for the
	// assistant side, so the constant maps "assistant" onto "bot".
	RoleAssistant Role = "bot"
)

// Turn is a single exchange unit in a conversation. Flagged marks a user
// turn the backend graded as incorrect; it is only ever asserted by the
// server, never inferred here.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
	Flagged bool   `json:"flagged,omitempty"`
}

// Transcript is the ordered, append-only history of turns for one
// conversation selection. It is owned by the active view and is not safe for
// concurrent mutation; the controller is its only writer during a turn.
type Transcript struct {
	turns []Turn
}

// Append adds a turn and returns its index.
func (t *Transcript) Append(turn Turn) int {
	t.turns = append(t.turns, turn)
	return len(t.turns) - 1
}

// Rewrite replaces the content of the turn at index i. Indexes outside the
// transcript are ignored.
func (t *Transcript) Rewrite(i int, content string) {
	if i < 0 || i >= len(t.turns) {
		return
	}
	t.turns[i].Content = content
}

// Replace swaps the whole history, used when switching to another lesson's
// conversation or loading server-side history.
func (t *Transcript) Replace(turns []Turn) {
	t.turns = append([]Turn(nil), turns...)
}

// Clear empties the transcript, used on logout.
func (t *Transcript) Clear() {
	t.turns = nil
}

// Turns returns a copy of the history for rendering.
func (t *Transcript) Turns() []Turn {
	out := make([]Turn, len(t.turns))
	copy(out, t.turns)
	return out
}

// Len returns the number of turns.
func (t *Transcript) Len() int {
	return len(t.turns)
}
