package devserver

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/storychat/storychat/internal/config"
	"github.com/storychat/storychat/pkg/httpext"
)

type user struct {
	Username string
	Email    string
	Password string // plain text, dev server only
	FullName string
	Role     string
}

type userStore struct {
	mu    sync.RWMutex
	users map[string]user
}

func newUserStore() *userStore {
	return &userStore{
		users: map[string]user{
			// Seeded so the CLI works out of the box.
			"student": {Username: "student", Password: "student", FullName: "Demo Student", Role: "student"},
			"teacher": {Username: "teacher", Password: "teacher", FullName: "Demo Teacher", Role: "teacher"},
		},
	}
}

func (u *userStore) lookup(username string) (user, bool) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	account, ok := u.users[username]
	return account, ok
}

func (u *userStore) add(account user) bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	if _, exists := u.users[account.Username]; exists {
		return false
	}
	u.users[account.Username] = account
	return true
}

func (u *userStore) students() []user {
	u.mu.RLock()
	defer u.mu.RUnlock()

	var out []user
	for _, account := range u.users {
		if account.Role == "student" {
			out = append(out, account)
		}
	}
	return out
}

func (s *Server) handleSignIn(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		httpext.JsonError(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	account, ok := s.users.lookup(r.PostFormValue("username"))
	if !ok || account.Password != r.PostFormValue("password") {
		httpext.JsonError(w, "Incorrect username or password", http.StatusUnauthorized)
		return
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   account.Username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(config.GetTokenTTL())),
		ID:        uuid.New().String(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(config.GetJWTSecret())
	if err != nil {
		log.Error().Err(err).Msg("Failed to sign access token")
		httpext.JsonError(w, "Failed to issue token", http.StatusInternalServerError)
		return
	}

	log.Info().Str("username", account.Username).Msg("Issued access token")
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"access_token": token,
		"token_type":   "bearer",
	})
}

type registerRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	FullName string `json:"full_name" validate:"required"`
	Role     string `json:"role" validate:"oneof=student teacher"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpext.JsonError(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(req); err != nil {
		httpext.JsonError(w, "Invalid registration: "+err.Error(), http.StatusBadRequest)
		return
	}

	added := s.users.add(user{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		Role:     req.Role,
	})
	if !added {
		httpext.JsonError(w, "Username already registered", http.StatusConflict)
		return
	}

	log.Info().Str("username", req.Username).Str("role", req.Role).Msg("Registered account")
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Account created"})
}

func (s *Server) handleStudents(w http.ResponseWriter, r *http.Request) {
	type studentRow struct {
		ID       int64  `json:"id"`
		Username string `json:"username"`
		FullName string `json:"full_name"`
	}

	rows := []studentRow{}
	for i, account := range s.users.students() {
		rows = append(rows, studentRow{ID: int64(i + 1), Username: account.Username, FullName: account.FullName})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"students": rows})
}
