package chat

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedStream yields one chunk per Read call, so tests control exactly
// how bytes are split across reads.
type scriptedStream struct {
	chunks []string
	errAt  error // returned after the chunks run out, instead of io.EOF
	closed bool
}

func (s *scriptedStream) Read(p []byte) (int, error) {
	if len(s.chunks) == 0 {
		if s.errAt != nil {
			return 0, s.errAt
		}
		return 0, io.EOF
	}
	chunk := s.chunks[0]
	s.chunks = s.chunks[1:]
	n := copy(p, chunk)
	return n, nil
}

func (s *scriptedStream) Close() error {
	s.closed = true
	return nil
}

// fakeStreamer records the request bodies it was asked to send and plays
// back a scripted stream per call.
type fakeStreamer struct {
	requests []TurnRequest
	streams  []*scriptedStream
	err      error
}

func (f *fakeStreamer) StreamChat(_ context.Context, req TurnRequest) (io.ReadCloser, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	stream := f.streams[0]
	f.streams = f.streams[1:]
	return stream, nil
}

func newTestController(streamer Streamer, opts ...Option) (*Controller, *Transcript, *Context) {
	transcript := &Transcript{}
	convo := &Context{LessonID: 7}
	return NewController(streamer, transcript, convo, opts...), transcript, convo
}

func TestSendTurnOptimisticAppend(t *testing.T) {
	streamer := &fakeStreamer{streams: []*scriptedStream{{}}}
	c, transcript, _ := newTestController(streamer)

	require.NoError(t, c.SendTurn(context.Background(), "hello"))

	turns := transcript.Turns()
	require.Len(t, turns, 2)
	assert.Equal(t, Turn{Role: RoleUser, Content: "hello"}, turns[0])
	assert.Equal(t, RoleAssistant, turns[1].Role)
}

func TestSendTurnAccumulatesDeltas(t *testing.T) {
	tests := []struct {
		name   string
		chunks []string
	}{
		{
			name: "One event per read",
			chunks: []string{
				"data: {\"type\":\"content\",\"content\":\"Once\"}\n",
				"data: {\"type\":\"content\",\"content\":\" upon\"}\n",
				"data: {\"type\":\"content\",\"content\":\" a time\"}\n",
				"data: {\"type\":\"done\"}\n",
			},
		},
		{
			name: "All events in one read",
			chunks: []string{
				"data: {\"type\":\"content\",\"content\":\"Once\"}\ndata: {\"type\":\"content\",\"content\":\" upon\"}\ndata: {\"type\":\"content\",\"content\":\" a time\"}\ndata: {\"type\":\"done\"}\n",
			},
		},
		{
			name: "Event split mid-envelope across reads",
			chunks: []string{
				"data: {\"type\":\"con",
				"tent\",\"content\":\"Once\"}\ndata: {\"type\":\"content\",\"con",
				"tent\":\" upon\"}\n",
				"data: {\"type\":\"content\",\"content\":\" a time\"}\n",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			streamer := &fakeStreamer{streams: []*scriptedStream{{chunks: tt.chunks}}}
			c, transcript, _ := newTestController(streamer)

			require.NoError(t, c.SendTurn(context.Background(), "tell me a story"))

			turns := transcript.Turns()
			require.Len(t, turns, 2)
			assert.Equal(t, "Once upon a time", turns[1].Content)
		})
	}
}

func TestSendTurnSkipsMalformedLines(t *testing.T) {
	streamer := &fakeStreamer{streams: []*scriptedStream{{chunks: []string{
		"data: {\"type\":\"content\",\"content\":\"good\"}\n",
		"data: {not json\n",
		"event: ping\n",
		"data: \n",
		"data: {\"type\":\"content\",\"content\":\" still good\"}\n",
	}}}}
	c, transcript, _ := newTestController(streamer)

	require.NoError(t, c.SendTurn(context.Background(), "hi"))
	assert.Equal(t, "good still good", transcript.Turns()[1].Content)
}

func TestSendTurnThreadContinuation(t *testing.T) {
	first := &scriptedStream{chunks: []string{
		"data: {\"type\":\"thread_id\",\"thread_id\":\"abc\",\"conversation_id\":42}\n",
		"data: {\"type\":\"content\",\"content\":\"hi\"}\n",
		"data: {\"type\":\"done\"}\n",
	}}
	second := &scriptedStream{}
	streamer := &fakeStreamer{streams: []*scriptedStream{first, second}}
	c, _, convo := newTestController(streamer)

	require.NoError(t, c.SendTurn(context.Background(), "first"))
	assert.Equal(t, "abc", convo.ThreadID)
	assert.Equal(t, int64(42), convo.ConversationID)

	require.NoError(t, c.SendTurn(context.Background(), "second"))
	require.Len(t, streamer.requests, 2)
	assert.Equal(t, TurnRequest{Message: "second", ThreadID: "abc", ConversationID: 42, FileID: 7}, streamer.requests[1])
}

func TestSendTurnDoneRefreshesThread(t *testing.T) {
	streamer := &fakeStreamer{streams: []*scriptedStream{{chunks: []string{
		"data: {\"type\":\"done\",\"thread_id\":\"fresh\"}\n",
	}}}}
	c, _, convo := newTestController(streamer)

	require.NoError(t, c.SendTurn(context.Background(), "hi"))
	assert.Equal(t, "fresh", convo.ThreadID)
}

func TestSendTurnRejections(t *testing.T) {
	t.Run("Empty utterance", func(t *testing.T) {
		c, transcript, _ := newTestController(&fakeStreamer{})
		assert.ErrorIs(t, c.SendTurn(context.Background(), "   "), ErrEmptyUtterance)
		assert.Zero(t, transcript.Len())
	})

	t.Run("Turn already in flight", func(t *testing.T) {
		c, transcript, _ := newTestController(&fakeStreamer{})
		c.state = StateAwaitingResponse
		assert.ErrorIs(t, c.SendTurn(context.Background(), "hello"), ErrTurnInFlight)
		assert.Zero(t, transcript.Len())
	})

	t.Run("Ended conversation", func(t *testing.T) {
		c, transcript, _ := newTestController(&fakeStreamer{})
		c.MarkEnded()
		assert.ErrorIs(t, c.SendTurn(context.Background(), "hello"), ErrConversationEnded)
		assert.Zero(t, transcript.Len())
	})
}

func TestSendTurnReentrancyFromStatusCallback(t *testing.T) {
	// A send issued while the stream is still being consumed is a no-op.
	streamer := &fakeStreamer{streams: []*scriptedStream{{chunks: []string{
		"data: {\"type\":\"status\",\"message\":\"thinking\"}\n",
		"data: {\"type\":\"content\",\"content\":\"hi\"}\n",
	}}}}

	var c *Controller
	var transcript *Transcript
	var nested error
	c, transcript, _ = newTestController(streamer, WithStatusFunc(func(string) {
		nested = c.SendTurn(context.Background(), "interrupt")
	}))

	require.NoError(t, c.SendTurn(context.Background(), "hello"))
	assert.ErrorIs(t, nested, ErrTurnInFlight)
	require.Equal(t, 2, transcript.Len())
	assert.Equal(t, "hi", transcript.Turns()[1].Content)
	assert.Equal(t, StateIdle, c.State())
}

func TestSendTurnTransportFailureBeforeStream(t *testing.T) {
	streamer := &fakeStreamer{err: errors.New("connection refused")}
	c, transcript, convo := newTestController(streamer)

	require.NoError(t, c.SendTurn(context.Background(), "hello"))

	turns := transcript.Turns()
	require.Len(t, turns, 2)
	assert.Equal(t, "hello", turns[0].Content)
	assert.Equal(t, FailureMessage, turns[1].Content)
	assert.Empty(t, convo.ThreadID)
	assert.Equal(t, StateIdle, c.State())
}

func TestSendTurnTransportFailureMidStream(t *testing.T) {
	stream := &scriptedStream{
		chunks: []string{"data: {\"type\":\"content\",\"content\":\"par\"}\n"},
		errAt:  errors.New("connection reset"),
	}
	streamer := &fakeStreamer{streams: []*scriptedStream{stream}}
	c, transcript, _ := newTestController(streamer)

	require.NoError(t, c.SendTurn(context.Background(), "hello"))
	assert.Equal(t, FailureMessage, transcript.Turns()[1].Content)
	assert.True(t, stream.closed)
}

func TestSendTurnServerError(t *testing.T) {
	streamer := &fakeStreamer{streams: []*scriptedStream{{chunks: []string{
		"data: {\"type\":\"content\",\"content\":\"part\"}\n",
		"data: {\"type\":\"error\",\"message\":\"assistant unavailable\"}\n",
		"data: {\"type\":\"content\",\"content\":\"late\"}\n",
	}}}}
	c, transcript, _ := newTestController(streamer)

	require.NoError(t, c.SendTurn(context.Background(), "hello"))
	assert.Equal(t, "Error: assistant unavailable", transcript.Turns()[1].Content)
	assert.Equal(t, StateIdle, c.State())
}

func TestSendTurnEmptyCompletion(t *testing.T) {
	// Stream ends without any content or error events: the placeholder
	// stays empty and the turn counts as successful.
	streamer := &fakeStreamer{streams: []*scriptedStream{{}}}
	c, transcript, _ := newTestController(streamer)

	require.NoError(t, c.SendTurn(context.Background(), "hello"))
	require.Equal(t, 2, transcript.Len())
	assert.Empty(t, transcript.Turns()[1].Content)
	assert.Equal(t, StateIdle, c.State())
}

func TestSendTurnOnlyPlaceholderMutated(t *testing.T) {
	first := &scriptedStream{chunks: []string{"data: {\"type\":\"content\",\"content\":\"one\"}\n"}}
	second := &scriptedStream{chunks: []string{"data: {\"type\":\"content\",\"content\":\"two\"}\n"}}
	streamer := &fakeStreamer{streams: []*scriptedStream{first, second}}
	c, transcript, _ := newTestController(streamer)

	require.NoError(t, c.SendTurn(context.Background(), "a"))
	before := transcript.Turns()

	require.NoError(t, c.SendTurn(context.Background(), "b"))
	after := transcript.Turns()

	require.Len(t, after, 4)
	assert.Equal(t, before, after[:2])
	assert.Equal(t, "two", after[3].Content)
}

func TestReset(t *testing.T) {
	c, transcript, convo := newTestController(&fakeStreamer{})
	c.MarkEnded()

	history := []Turn{
		{Role: RoleUser, Content: "old question", Flagged: true},
		{Role: RoleAssistant, Content: "old answer"},
	}
	require.NoError(t, c.Reset(Context{ThreadID: "t1", ConversationID: 9, LessonID: 3}, history))

	assert.Equal(t, Context{ThreadID: "t1", ConversationID: 9, LessonID: 3}, *convo)
	assert.Equal(t, history, transcript.Turns())

	c.state = StateAwaitingResponse
	assert.ErrorIs(t, c.Reset(Context{}, nil), ErrTurnInFlight)
}
