// Package devserver is a development stand-in for the real school backend:
// the full API surface the client consumes, with faked authentication,
// grading and lesson content, so the CLI and the session controller can run
// end to end without the production service.
package devserver

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
)

type Server struct {
	router        *mux.Router
	users         *userStore
	conversations ConversationStore
	lessons       *lessonStore
	assistant     Assistant
}

// New wires the dev server. A nil assistant gets the canned tutor.
func New(conversations ConversationStore, assistant Assistant) *Server {
	if assistant == nil {
		assistant = NewCannedAssistant()
	}

	s := &Server{
		router:        mux.NewRouter(),
		users:         newUserStore(),
		conversations: conversations,
		lessons:       newLessonStore(),
		assistant:     assistant,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.Handle("/accounts/signin/token",
		RateLimit("signin")(http.HandlerFunc(s.handleSignIn))).Methods("POST")
	s.router.HandleFunc("/accounts/register", s.handleRegister).Methods("POST")

	student := s.router.PathPrefix("/student").Subrouter()
	student.Use(s.requireAuth)
	student.HandleFunc("/available-lessons", s.handleAvailableLessons).Methods("GET")
	student.HandleFunc("/start-lesson/{id}", s.handleStartLesson).Methods("POST")
	student.HandleFunc("/conversations/lesson/{fileID}", s.handleLessonConversation).Methods("GET")
	student.HandleFunc("/end-chat/{conversationID}", s.handleEndChat).Methods("POST")
	student.Handle("/chat", RateLimit("chat")(http.HandlerFunc(s.handleChat))).Methods("POST")

	teacher := s.router.PathPrefix("/teacher").Subrouter()
	teacher.Use(s.requireAuth)
	teacher.HandleFunc("/upload", s.handleUpload).Methods("POST")
	teacher.HandleFunc("/files", s.handleFiles).Methods("GET")
	teacher.HandleFunc("/files/{id}", s.handleDeleteFile).Methods("DELETE")
	teacher.HandleFunc("/categories", s.handleCategories).Methods("GET")
	teacher.HandleFunc("/categories", s.handleCreateCategory).Methods("POST")
	teacher.HandleFunc("/categories/{id}", s.handleDeleteCategory).Methods("DELETE")
	teacher.HandleFunc("/instructions/{fileID}", s.handleInstructions).Methods("GET")
	teacher.HandleFunc("/instructions", s.handleCreateInstruction).Methods("POST")
	teacher.HandleFunc("/instructions/{id}", s.handleUpdateInstruction).Methods("PUT")
	teacher.HandleFunc("/instructions/{id}", s.handleDeleteInstruction).Methods("DELETE")
	teacher.HandleFunc("/students", s.handleStudents).Methods("GET")
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe runs the dev server on addr.
func (s *Server) ListenAndServe(addr string) error {
	log.Info().Str("addr", addr).Msg("Dev server starting")
	return http.ListenAndServe(addr, s)
}
