package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/storychat/storychat/internal/chat"
	"github.com/storychat/storychat/pkg/httpext"
)

// Lesson is one entry from GET /student/available-lessons.
type Lesson struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Filename string `json:"filename"`
	Category string `json:"category,omitempty"`
	Started  bool   `json:"started,omitempty"`
}

type lessonsResponse struct {
	Lessons []Lesson `json:"lessons"`
}

// Conversation describes the server-side conversation record bound to a
// lesson.
type Conversation struct {
	ID       int64  `json:"id"`
	ThreadID string `json:"thread_id"`
	FileID   int64  `json:"file_id"`
	Ended    bool   `json:"ended"`
}

type conversationMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
	Flagged bool   `json:"flagged"`
}

type conversationResponse struct {
	Conversation Conversation          `json:"conversation"`
	Messages     []conversationMessage `json:"messages"`
}

// AvailableLessons lists the lessons this student may chat about.
func (c *Client) AvailableLessons(ctx context.Context) ([]Lesson, error) {
	var out lessonsResponse
	if err := c.getJSON(ctx, "/student/available-lessons", &out); err != nil {
		return nil, err
	}
	return out.Lessons, nil
}

// StartLesson begins a lesson and returns the server's acknowledgement
// message.
func (c *Client) StartLesson(ctx context.Context, lessonID int64) (string, error) {
	var out messageResponse
	path := fmt.Sprintf("/student/start-lesson/%d", lessonID)
	if err := c.postJSON(ctx, path, struct{}{}, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

// LessonConversation loads the prior transcript for a lesson, returning the
// continuation context and the turns to display. Flagged user turns come
// back exactly as the server graded them.
func (c *Client) LessonConversation(ctx context.Context, fileID int64) (chat.Context, []chat.Turn, error) {
	var out conversationResponse
	path := fmt.Sprintf("/student/conversations/lesson/%d", fileID)
	if err := c.getJSON(ctx, path, &out); err != nil {
		return chat.Context{}, nil, err
	}

	convo := chat.Context{
		ThreadID:       out.Conversation.ThreadID,
		ConversationID: out.Conversation.ID,
		LessonID:       fileID,
	}

	turns := make([]chat.Turn, 0, len(out.Messages))
	for _, m := range out.Messages {
		turns = append(turns, chat.Turn{
			Role:    chat.Role(m.Role),
			Content: m.Content,
			Flagged: m.Flagged,
		})
	}
	return convo, turns, nil
}

// ConversationEnded reports whether the loaded conversation was already
// terminated server-side.
func (c *Client) ConversationEnded(ctx context.Context, fileID int64) (bool, error) {
	var out conversationResponse
	path := fmt.Sprintf("/student/conversations/lesson/%d", fileID)
	if err := c.getJSON(ctx, path, &out); err != nil {
		return false, err
	}
	return out.Conversation.Ended, nil
}

// EndChat terminates a conversation server-side.
func (c *Client) EndChat(ctx context.Context, conversationID int64) error {
	path := fmt.Sprintf("/student/end-chat/%d", conversationID)
	return c.postJSON(ctx, path, struct{}{}, nil)
}

// StreamChat submits one turn and returns the raw chunked response body for
// the session controller to consume. It implements chat.Streamer.
func (c *Client) StreamChat(ctx context.Context, turn chat.TurnRequest) (io.ReadCloser, error) {
	payload, err := json.Marshal(turn)
	if err != nil {
		return nil, fmt.Errorf("marshal turn: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/student/chat", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.streamClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request POST /student/chat: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		return nil, httpext.DecodeError(resp)
	}
	return resp.Body, nil
}
