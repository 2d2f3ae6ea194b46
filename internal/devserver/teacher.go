package devserver

import (
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/storychat/storychat/internal/config"
	"github.com/storychat/storychat/pkg/httpext"
)

type fileRow struct {
	ID         int64  `json:"id"`
	Filename   string `json:"filename"`
	Size       int64  `json:"size"`
	CategoryID int64  `json:"category_id,omitempty"`
	Created    string `json:"created"`
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		httpext.JsonError(w, "Invalid multipart body", http.StatusBadRequest)
		return
	}

	part, header, err := r.FormFile("file")
	if err != nil {
		httpext.JsonError(w, "Missing file field", http.StatusBadRequest)
		return
	}
	defer part.Close()

	uploadDir := config.GetUploadDir()
	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		httpext.JsonError(w, "Upload failed", http.StatusInternalServerError)
		return
	}

	safeName := time.Now().Format("20060102_150405") + "_" + filepath.Base(header.Filename)
	dest, err := os.Create(filepath.Join(uploadDir, safeName))
	if err != nil {
		httpext.JsonError(w, "Upload failed", http.StatusInternalServerError)
		return
	}
	defer dest.Close()

	size, err := io.Copy(dest, part)
	if err != nil {
		httpext.JsonError(w, "Upload failed", http.StatusInternalServerError)
		return
	}

	title := strings.TrimSuffix(header.Filename, filepath.Ext(header.Filename))
	file := s.lessons.add(lessonFile{
		Title:    title,
		Filename: header.Filename,
		Size:     size,
		Created:  time.Now(),
	})

	log.Info().Str("filename", header.Filename).Int64("size", size).Msg("Lesson uploaded")
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(fileRow{
		ID:       file.ID,
		Filename: file.Filename,
		Size:     file.Size,
		Created:  file.Created.Format(time.RFC3339),
	})
}

func (s *Server) handleFiles(w http.ResponseWriter, r *http.Request) {
	rows := []fileRow{}
	for _, file := range s.lessons.list() {
		rows = append(rows, fileRow{
			ID:         file.ID,
			Filename:   file.Filename,
			Size:       file.Size,
			CategoryID: file.CategoryID,
			Created:    file.Created.Format(time.RFC3339),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"files": rows, "count": len(rows)})
}

func (s *Server) handleDeleteFile(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || !s.lessons.remove(id) {
		httpext.JsonError(w, "File not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	type categoryRow struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	}

	rows := []categoryRow{}
	for _, c := range s.lessons.listCategories() {
		rows = append(rows, categoryRow{ID: c.ID, Name: c.Name})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"categories": rows})
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		httpext.JsonError(w, "Category name is required", http.StatusBadRequest)
		return
	}

	c := s.lessons.addCategory(req.Name)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"id": c.ID, "name": c.Name})
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || !s.lessons.removeCategory(id) {
		httpext.JsonError(w, "Category not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleInstructions(w http.ResponseWriter, r *http.Request) {
	fileID, err := strconv.ParseInt(mux.Vars(r)["fileID"], 10, 64)
	if err != nil {
		httpext.JsonError(w, "Invalid file id", http.StatusBadRequest)
		return
	}

	type instructionRow struct {
		ID     int64  `json:"id"`
		FileID int64  `json:"file_id"`
		Text   string `json:"text"`
	}

	rows := []instructionRow{}
	for _, ins := range s.lessons.listInstructions(fileID) {
		rows = append(rows, instructionRow{ID: ins.ID, FileID: ins.FileID, Text: ins.Text})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"instructions": rows})
}

func (s *Server) handleCreateInstruction(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FileID int64  `json:"file_id"`
		Text   string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Text) == "" {
		httpext.JsonError(w, "Instruction text is required", http.StatusBadRequest)
		return
	}
	if _, ok := s.lessons.lookup(req.FileID); !ok {
		httpext.JsonError(w, "File not found", http.StatusNotFound)
		return
	}

	ins := s.lessons.addInstruction(req.FileID, req.Text)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"id": ins.ID, "file_id": ins.FileID, "text": ins.Text})
}

func (s *Server) handleUpdateInstruction(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		httpext.JsonError(w, "Invalid instruction id", http.StatusBadRequest)
		return
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Text) == "" {
		httpext.JsonError(w, "Instruction text is required", http.StatusBadRequest)
		return
	}

	if !s.lessons.updateInstruction(id, req.Text) {
		httpext.JsonError(w, "Instruction not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleDeleteInstruction(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || !s.lessons.removeInstruction(id) {
		httpext.JsonError(w, "Instruction not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusOK)
}
