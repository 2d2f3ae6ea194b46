package chat

// Context is the continuation state threaded across turns. ThreadID and
// ConversationID are assigned by the server on the first turn and echoed
// back verbatim afterwards; LessonID is chosen by the user before the first
// turn. Zero values mean "not assigned yet".
type Context struct {
	ThreadID       string
	ConversationID int64
	LessonID       int64
}

// TurnRequest is the JSON body of one POST /student/chat call.
type TurnRequest struct {
	Message        string `json:"message"`
	ThreadID       string `json:"thread_id,omitempty"`
	ConversationID int64  `json:"conversation_id,omitempty"`
	FileID         int64  `json:"file_id,omitempty"`
}
