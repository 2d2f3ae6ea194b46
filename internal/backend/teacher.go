package backend

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
)

// LessonFile is one uploaded lesson document as the teacher console sees it.
type LessonFile struct {
	ID         int64  `json:"id"`
	Filename   string `json:"filename"`
	Size       int64  `json:"size"`
	CategoryID int64  `json:"category_id,omitempty"`
	Created    string `json:"created"`
}

type filesResponse struct {
	Files []LessonFile `json:"files"`
	Count int          `json:"count"`
}

// Category groups lessons on the teacher console.
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type categoriesResponse struct {
	Categories []Category `json:"categories"`
}

// Instruction is a per-lesson prompt instruction the teacher maintains.
// Its text never reaches this client's students directly; the backend folds
// it into grading and replies.
type Instruction struct {
	ID     int64  `json:"id"`
	FileID int64  `json:"file_id"`
	Text   string `json:"text"`
}

type instructionsResponse struct {
	Instructions []Instruction `json:"instructions"`
}

// Student is one row of the roster view.
type Student struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
}

type studentsResponse struct {
	Students []Student `json:"students"`
}

// UploadLesson posts a lesson document as multipart form data.
func (c *Client) UploadLesson(ctx context.Context, filename string, content io.Reader) (LessonFile, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return LessonFile{}, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return LessonFile{}, fmt.Errorf("copy upload body: %w", err)
	}
	if err := writer.Close(); err != nil {
		return LessonFile{}, fmt.Errorf("finish multipart body: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/teacher/upload", &buf)
	if err != nil {
		return LessonFile{}, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	var out LessonFile
	if err := c.doJSON(req, &out); err != nil {
		return LessonFile{}, err
	}
	return out, nil
}

// Files lists uploaded lesson documents.
func (c *Client) Files(ctx context.Context) ([]LessonFile, error) {
	var out filesResponse
	if err := c.getJSON(ctx, "/teacher/files", &out); err != nil {
		return nil, err
	}
	return out.Files, nil
}

// DeleteFile removes an uploaded lesson document.
func (c *Client) DeleteFile(ctx context.Context, id int64) error {
	req, err := c.newRequest(ctx, http.MethodDelete, fmt.Sprintf("/teacher/files/%d", id), nil)
	if err != nil {
		return err
	}
	return c.doJSON(req, nil)
}

// Categories lists lesson categories.
func (c *Client) Categories(ctx context.Context) ([]Category, error) {
	var out categoriesResponse
	if err := c.getJSON(ctx, "/teacher/categories", &out); err != nil {
		return nil, err
	}
	return out.Categories, nil
}

// CreateCategory adds a category.
func (c *Client) CreateCategory(ctx context.Context, name string) (Category, error) {
	var out Category
	err := c.postJSON(ctx, "/teacher/categories", map[string]string{"name": name}, &out)
	return out, err
}

// DeleteCategory removes a category.
func (c *Client) DeleteCategory(ctx context.Context, id int64) error {
	req, err := c.newRequest(ctx, http.MethodDelete, fmt.Sprintf("/teacher/categories/%d", id), nil)
	if err != nil {
		return err
	}
	return c.doJSON(req, nil)
}

// Instructions lists instructions attached to a lesson file.
func (c *Client) Instructions(ctx context.Context, fileID int64) ([]Instruction, error) {
	var out instructionsResponse
	if err := c.getJSON(ctx, fmt.Sprintf("/teacher/instructions/%d", fileID), &out); err != nil {
		return nil, err
	}
	return out.Instructions, nil
}

// CreateInstruction attaches an instruction to a lesson file.
func (c *Client) CreateInstruction(ctx context.Context, fileID int64, text string) (Instruction, error) {
	var out Instruction
	body := map[string]any{"file_id": fileID, "text": text}
	err := c.postJSON(ctx, "/teacher/instructions", body, &out)
	return out, err
}

// UpdateInstruction rewrites an instruction's text.
func (c *Client) UpdateInstruction(ctx context.Context, id int64, text string) error {
	path := fmt.Sprintf("/teacher/instructions/%d", id)
	return c.sendJSON(ctx, http.MethodPut, path, map[string]string{"text": text}, nil)
}

// DeleteInstruction removes an instruction.
func (c *Client) DeleteInstruction(ctx context.Context, id int64) error {
	req, err := c.newRequest(ctx, http.MethodDelete, fmt.Sprintf("/teacher/instructions/%d", id), nil)
	if err != nil {
		return err
	}
	return c.doJSON(req, nil)
}

// Students lists the roster.
func (c *Client) Students(ctx context.Context) ([]Student, error) {
	var out studentsResponse
	if err := c.getJSON(ctx, "/teacher/students", &out); err != nil {
		return nil, err
	}
	return out.Students, nil
}
