package devserver

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/storychat/storychat/pkg/httpext"
	"github.com/storychat/storychat/pkg/sse"
)

func (s *Server) handleAvailableLessons(w http.ResponseWriter, r *http.Request) {
	student := username(r)

	type lessonRow struct {
		ID       int64  `json:"id"`
		Title    string `json:"title"`
		Filename string `json:"filename"`
		Category string `json:"category,omitempty"`
		Started  bool   `json:"started,omitempty"`
	}

	rows := []lessonRow{}
	for _, file := range s.lessons.list() {
		rows = append(rows, lessonRow{
			ID:       file.ID,
			Title:    file.Title,
			Filename: file.Filename,
			Category: s.lessons.categoryName(file.CategoryID),
			Started:  s.lessons.hasStarted(student, file.ID),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"lessons": rows})
}

func (s *Server) handleStartLesson(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		httpext.JsonError(w, "Invalid lesson id", http.StatusBadRequest)
		return
	}

	file, ok := s.lessons.lookup(id)
	if !ok {
		httpext.JsonError(w, "Lesson not found", http.StatusNotFound)
		return
	}

	s.lessons.markStarted(username(r), id)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"message": fmt.Sprintf("Lesson %q started", file.Title),
	})
}

func (s *Server) handleLessonConversation(w http.ResponseWriter, r *http.Request) {
	fileID, err := strconv.ParseInt(mux.Vars(r)["fileID"], 10, 64)
	if err != nil {
		httpext.JsonError(w, "Invalid lesson id", http.StatusBadRequest)
		return
	}

	convo, err := s.conversations.Lookup(r.Context(), username(r), fileID)
	if err != nil {
		log.Error().Err(err).Msg("Conversation lookup failed")
		httpext.JsonError(w, "Failed to load conversation", http.StatusInternalServerError)
		return
	}
	if convo == nil {
		convo = &Conversation{FileID: fileID, Messages: []Message{}}
	}
	if convo.Messages == nil {
		convo.Messages = []Message{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"conversation": map[string]any{
			"id":        convo.ID,
			"thread_id": convo.ThreadID,
			"file_id":   convo.FileID,
			"ended":     convo.Ended,
		},
		"messages": convo.Messages,
	})
}

func (s *Server) handleEndChat(w http.ResponseWriter, r *http.Request) {
	conversationID, err := strconv.ParseInt(mux.Vars(r)["conversationID"], 10, 64)
	if err != nil {
		httpext.JsonError(w, "Invalid conversation id", http.StatusBadRequest)
		return
	}

	student := username(r)
	for _, file := range s.lessons.list() {
		convo, lookupErr := s.conversations.Lookup(r.Context(), student, file.ID)
		if lookupErr != nil || convo == nil || convo.ID != conversationID {
			continue
		}
		convo.Ended = true
		if err := s.conversations.Save(r.Context(), student, convo); err != nil {
			httpext.JsonError(w, "Failed to end conversation", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
		return
	}

	httpext.JsonError(w, "Conversation not found", http.StatusNotFound)
}

type chatRequest struct {
	Message        string `json:"message"`
	ThreadID       string `json:"thread_id"`
	ConversationID int64  `json:"conversation_id"`
	FileID         int64  `json:"file_id"`
}

type streamEnvelope struct {
	Type           string `json:"type"`
	ThreadID       string `json:"thread_id,omitempty"`
	ConversationID int64  `json:"conversation_id,omitempty"`
	Content        string `json:"content,omitempty"`
	Message        string `json:"message,omitempty"`
}

// handleChat is one turn of the student conversation, streamed back as
// newline-delimited "data: <json>" envelopes.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		httpext.JsonError(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpext.JsonError(w, "Invalid request format", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		httpext.JsonError(w, "Message cannot be empty", http.StatusBadRequest)
		return
	}

	student := username(r)
	ctx := r.Context()

	convo, err := s.conversations.Lookup(ctx, student, req.FileID)
	if err != nil {
		httpext.JsonError(w, "Failed to load conversation", http.StatusInternalServerError)
		return
	}

	sse.SetupHeaders(w)

	// First turn of a conversation mints the continuation identifiers and
	// announces them before any content.
	if convo == nil || convo.ThreadID == "" {
		id, idErr := s.conversations.NextID(ctx)
		if idErr != nil {
			s.writeEvent(w, flusher, streamEnvelope{Type: "error", Message: "Failed to create conversation"})
			return
		}
		convo = &Conversation{
			ID:       id,
			ThreadID: uuid.New().String(),
			FileID:   req.FileID,
		}
	}
	if convo.Ended {
		s.writeEvent(w, flusher, streamEnvelope{Type: "error", Message: "Conversation has ended"})
		return
	}

	s.writeEvent(w, flusher, streamEnvelope{
		Type:           "thread_id",
		ThreadID:       convo.ThreadID,
		ConversationID: convo.ID,
	})
	s.writeEvent(w, flusher, streamEnvelope{Type: "status", Message: "StoryBot is thinking"})

	lessonTitle := "your lesson"
	if file, ok := s.lessons.lookup(req.FileID); ok {
		lessonTitle = file.Title
	}

	history := convo.Messages

	// Dev grading hook: a message containing [wrong] is stored flagged, so
	// clients can exercise the flagged-turn rendering path.
	flagged := strings.Contains(strings.ToLower(req.Message), "[wrong]")

	var reply strings.Builder
	err = s.assistant.Reply(ctx, lessonTitle, history, req.Message, func(delta string) error {
		reply.WriteString(delta)
		return s.writeEvent(w, flusher, streamEnvelope{Type: "content", Content: delta})
	})
	if err != nil {
		log.Error().Err(err).Msg("Assistant failed mid-turn")
		s.writeEvent(w, flusher, streamEnvelope{Type: "error", Message: "Assistant is unavailable"})
		return
	}

	convo.Messages = append(convo.Messages,
		Message{Role: "user", Content: req.Message, Flagged: flagged},
		Message{Role: "bot", Content: reply.String()},
	)
	if err := s.conversations.Save(ctx, student, convo); err != nil {
		log.Error().Err(err).Msg("Failed to persist conversation")
	}

	s.writeEvent(w, flusher, streamEnvelope{Type: "done", ThreadID: convo.ThreadID})
}

func (s *Server) writeEvent(w http.ResponseWriter, flusher http.Flusher, envelope streamEnvelope) error {
	if err := sse.WriteEvent(w, flusher, envelope); err != nil {
		log.Warn().Err(err).Msg("Failed to write stream event")
		return err
	}
	return nil
}
