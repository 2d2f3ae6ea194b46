package devserver

import (
	"sort"
	"sync"
	"time"
)

type lessonFile struct {
	ID         int64
	Title      string
	Filename   string
	Size       int64
	CategoryID int64
	Created    time.Time
}

type category struct {
	ID   int64
	Name string
}

type instruction struct {
	ID     int64
	FileID int64
	Text   string
}

// lessonStore holds the teacher-managed content in memory, seeded with two
// lessons so a student can chat immediately.
type lessonStore struct {
	mu           sync.RWMutex
	files        map[int64]lessonFile
	categories   map[int64]category
	instructions map[int64]instruction
	started      map[string]map[int64]bool
	nextID       int64
}

func newLessonStore() *lessonStore {
	now := time.Now()
	return &lessonStore{
		files: map[int64]lessonFile{
			1: {ID: 1, Title: "Fractions", Filename: "fractions.md", Size: 2048, CategoryID: 1, Created: now},
			2: {ID: 2, Title: "The Water Cycle", Filename: "water-cycle.md", Size: 4096, CategoryID: 2, Created: now},
		},
		categories: map[int64]category{
			1: {ID: 1, Name: "Math"},
			2: {ID: 2, Name: "Science"},
		},
		instructions: map[int64]instruction{
			1: {ID: 1, FileID: 1, Text: "Encourage the student to find common denominators on their own."},
		},
		started: make(map[string]map[int64]bool),
		nextID:  2,
	}
}

func (ls *lessonStore) allocID() int64 {
	ls.nextID++
	return ls.nextID
}

func (ls *lessonStore) lookup(id int64) (lessonFile, bool) {
	ls.mu.RLock()
	defer ls.mu.RUnlock()
	file, ok := ls.files[id]
	return file, ok
}

func (ls *lessonStore) list() []lessonFile {
	ls.mu.RLock()
	defer ls.mu.RUnlock()

	out := make([]lessonFile, 0, len(ls.files))
	for _, file := range ls.files {
		out = append(out, file)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (ls *lessonStore) add(file lessonFile) lessonFile {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	file.ID = ls.allocID()
	ls.files[file.ID] = file
	return file
}

func (ls *lessonStore) remove(id int64) bool {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	if _, ok := ls.files[id]; !ok {
		return false
	}
	delete(ls.files, id)
	return true
}

func (ls *lessonStore) markStarted(username string, id int64) {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	if ls.started[username] == nil {
		ls.started[username] = make(map[int64]bool)
	}
	ls.started[username][id] = true
}

func (ls *lessonStore) hasStarted(username string, id int64) bool {
	ls.mu.RLock()
	defer ls.mu.RUnlock()
	return ls.started[username][id]
}

func (ls *lessonStore) categoryName(id int64) string {
	ls.mu.RLock()
	defer ls.mu.RUnlock()
	return ls.categories[id].Name
}

func (ls *lessonStore) listCategories() []category {
	ls.mu.RLock()
	defer ls.mu.RUnlock()

	out := make([]category, 0, len(ls.categories))
	for _, c := range ls.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (ls *lessonStore) addCategory(name string) category {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	c := category{ID: ls.allocID(), Name: name}
	ls.categories[c.ID] = c
	return c
}

func (ls *lessonStore) removeCategory(id int64) bool {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	if _, ok := ls.categories[id]; !ok {
		return false
	}
	delete(ls.categories, id)
	return true
}

func (ls *lessonStore) listInstructions(fileID int64) []instruction {
	ls.mu.RLock()
	defer ls.mu.RUnlock()

	var out []instruction
	for _, ins := range ls.instructions {
		if ins.FileID == fileID {
			out = append(out, ins)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (ls *lessonStore) addInstruction(fileID int64, text string) instruction {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	ins := instruction{ID: ls.allocID(), FileID: fileID, Text: text}
	ls.instructions[ins.ID] = ins
	return ins
}

func (ls *lessonStore) updateInstruction(id int64, text string) bool {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	ins, ok := ls.instructions[id]
	if !ok {
		return false
	}
	ins.Text = text
	ls.instructions[id] = ins
	return true
}

func (ls *lessonStore) removeInstruction(id int64) bool {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	if _, ok := ls.instructions[id]; !ok {
		return false
	}
	delete(ls.instructions, id)
	return true
}
