package chat

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/storychat/storychat/pkg/sse"
)

// FailureMessage is what the assistant bubble shows when the transport
// fails before or during a turn.
const FailureMessage = "Sorry, something went wrong. Please try again."

var (
	ErrEmptyUtterance    = errors.New("utterance is empty")
	ErrTurnInFlight      = errors.New("a turn is already in flight")
	ErrConversationEnded = errors.New("conversation has ended")
)

// State is the controller's turn-taking state.
type State int

const (
	StateIdle State = iota
	StateAwaitingResponse
)

// Streamer issues one chat turn request and hands back the raw streaming
// response body.
type Streamer interface {
	StreamChat(ctx context.Context, req TurnRequest) (io.ReadCloser, error)
}

// Controller drives one request/response turn at a time against the chat
// endpoint: it appends the user's turn optimistically, consumes the chunked
// event stream, incrementally fills the assistant's turn, and keeps the
// conversation Context in sync with server-asserted identifiers.
//
// A Controller owns its Transcript and Context for writing and must be used
// from a single goroutine. Re-entrancy is rejected by state, not locked out.
type Controller struct {
	streamer   Streamer
	transcript *Transcript
	convo      *Context

	state State
	ended bool

	// onStatus, when set, receives informational status lines from the
	// stream. They carry no transcript or context effect.
	onStatus func(string)
}

// Option configures a Controller.
type Option func(*Controller)

// WithStatusFunc surfaces stream status lines, e.g. as a typing indicator.
func WithStatusFunc(fn func(string)) Option {
	return func(c *Controller) {
		c.onStatus = fn
	}
}

// NewController builds a controller over the given transcript and context.
// Both must outlive the controller and may be read (not written) by the
// rendering side between turns.
func NewController(streamer Streamer, transcript *Transcript, convo *Context, opts ...Option) *Controller {
	c := &Controller{
		streamer:   streamer,
		transcript: transcript,
		convo:      convo,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State reports whether a turn is in flight.
func (c *Controller) State() State {
	return c.state
}

// Context returns a copy of the current conversation context.
func (c *Controller) Context() Context {
	return *c.convo
}

// MarkEnded makes all further sends fail with ErrConversationEnded. Called
// after the conversation is terminated server-side.
func (c *Controller) MarkEnded() {
	c.ended = true
}

// Reset points the controller at a different conversation: history and
// continuation identifiers are replaced wholesale. Rejected mid-turn.
func (c *Controller) Reset(convo Context, turns []Turn) error {
	if c.state != StateIdle {
		return ErrTurnInFlight
	}
	*c.convo = convo
	c.transcript.Replace(turns)
	c.ended = false
	return nil
}

// SendTurn submits one user utterance and blocks until the response stream
// ends. The user turn and an empty assistant placeholder are appended before
// any I/O happens; afterwards only the placeholder is ever mutated.
//
// An error is returned only for rejected sends (empty utterance, turn in
// flight, ended conversation). Transport and server-reported failures are
// resolved into the placeholder turn instead, so a failed turn leaves a
// readable message rather than an empty bubble.
func (c *Controller) SendTurn(ctx context.Context, utterance string) error {
	if strings.TrimSpace(utterance) == "" {
		return ErrEmptyUtterance
	}
	if c.state != StateIdle {
		return ErrTurnInFlight
	}
	if c.ended {
		return ErrConversationEnded
	}

	c.state = StateAwaitingResponse
	defer func() { c.state = StateIdle }()

	c.transcript.Append(Turn{Role: RoleUser, Content: utterance})
	cursor := c.transcript.Append(Turn{Role: RoleAssistant})

	body, err := c.streamer.StreamChat(ctx, TurnRequest{
		Message:        utterance,
		ThreadID:       c.convo.ThreadID,
		ConversationID: c.convo.ConversationID,
		FileID:         c.convo.LessonID,
	})
	if err != nil {
		log.Warn().Err(err).Msg("Chat request failed before streaming")
		c.transcript.Rewrite(cursor, FailureMessage)
		return nil
	}
	defer body.Close()

	c.consume(body, cursor)
	return nil
}

// consume reads the response body to its end, processing complete lines as
// they are assembled. Chunk boundaries carry no meaning: the decoder holds
// the trailing partial line across reads.
func (c *Controller) consume(body io.Reader, cursor int) {
	var (
		decoder sse.Decoder
		accum   strings.Builder
		failed  bool
		sawAny  bool
	)

	buf := make([]byte, 4096)
	for {
		n, readErr := body.Read(buf)
		if n > 0 {
			for _, line := range decoder.Feed(buf[:n]) {
				payload, ok := sse.Payload(line)
				if !ok {
					continue
				}
				event, err := DecodeEvent(payload)
				if err != nil {
					// Malformed envelopes are expected transient
					// noise; skip the line, keep the stream.
					log.Debug().Err(err).Str("line", line).Msg("Skipping malformed stream envelope")
					continue
				}
				sawAny = true
				failed = c.dispatch(event, cursor, &accum, failed)
			}
		}
		if readErr != nil {
			if readErr != io.EOF {
				log.Warn().Err(readErr).Msg("Chat stream broke mid-turn")
				c.transcript.Rewrite(cursor, FailureMessage)
				return
			}
			break
		}
	}

	if rest := decoder.Rest(); rest != "" {
		log.Debug().Str("rest", rest).Msg("Stream ended mid-line")
	}
	if !failed && accum.Len() == 0 {
		// Treated as a successful empty completion; logged so an early
		// server hangup is visible in telemetry rather than silent.
		log.Warn().Bool("saw_events", sawAny).Msg("Turn completed with no content")
	}
}

// dispatch applies one event. It reports whether the turn is in the failed
// state; once failed, later content no longer touches the placeholder so the
// error message stays visible.
func (c *Controller) dispatch(event Event, cursor int, accum *strings.Builder, failed bool) bool {
	switch event.Kind {
	case EventThreadAssigned:
		c.convo.ThreadID = event.ThreadID
		if event.ConversationID != 0 {
			c.convo.ConversationID = event.ConversationID
		}
	case EventContentDelta:
		accum.WriteString(event.Text)
		if !failed {
			// Always the full accumulated string, so the rendered turn
			// is consistent even if a repaint was skipped.
			c.transcript.Rewrite(cursor, accum.String())
		}
	case EventDone:
		if event.ThreadID != "" {
			c.convo.ThreadID = event.ThreadID
		}
	case EventError:
		log.Warn().Str("message", event.Text).Msg("Server reported a chat error")
		c.transcript.Rewrite(cursor, "Error: "+event.Text)
		return true
	case EventStatus:
		if c.onStatus != nil {
			c.onStatus(event.Text)
		}
	}
	return failed
}
