package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/google/uuid"

	"quiz-platform/internal/models"
)

const (
	questionsFile = "questions.json"
	usersFile     = "users.json"
	progressFile  = "user_progress.json"

	// Quiz name used when migrating a legacy flat-list questions document.
	defaultQuizName = "General Training Quiz"
)

// FileStore persists each collection as one JSON document on disk. Documents
// are loaded once at construction and every mutation rewrites the affected
// document atomically (temp file + rename), so a failed write never corrupts
// the previous state. One mutex per store; concurrent processes sharing a
// data dir get last-writer-wins.
type FileStore struct {
	dir string

	mu       sync.Mutex
	catalog  map[string][]models.Question
	users    map[string]models.User
	progress map[string]map[string]models.ProgressEntry
}

// NewFileStore opens (or initializes) the three documents under dir. Missing
// documents are created with their default content: an empty catalog, a users
// document seeded with the "admin" account, and an empty progress document.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	fs := &FileStore{
		dir:      dir,
		catalog:  map[string][]models.Question{},
		users:    map[string]models.User{},
		progress: map[string]map[string]models.ProgressEntry{},
	}
	if err := fs.loadCatalog(); err != nil {
		return nil, err
	}
	if err := fs.loadUsers(); err != nil {
		return nil, err
	}
	if err := fs.loadProgress(); err != nil {
		return nil, err
	}
	return fs, nil
}

func (fs *FileStore) path(name string) string { return filepath.Join(fs.dir, name) }

// loadCatalog reads the questions document, handling two legacy shapes once:
// a flat question list (wrapped under defaultQuizName) and questions without
// surrogate ids (assigned here). Either migration re-persists the canonical
// shape immediately.
func (fs *FileStore) loadCatalog() error {
	raw, err := os.ReadFile(fs.path(questionsFile))
	if os.IsNotExist(err) {
		return fs.saveCatalogLocked()
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", questionsFile, err)
	}

	migrated := false
	if isJSONArray(raw) {
		var list []models.Question
		if err := json.Unmarshal(raw, &list); err != nil {
			return fmt.Errorf("parse legacy %s: %w", questionsFile, err)
		}
		log.Printf("migrating %s from flat list to quiz mapping under %q", questionsFile, defaultQuizName)
		fs.catalog = map[string][]models.Question{defaultQuizName: list}
		migrated = true
	} else if err := json.Unmarshal(raw, &fs.catalog); err != nil {
		return fmt.Errorf("parse %s: %w", questionsFile, err)
	}

	for name, questions := range fs.catalog {
		for i := range questions {
			if questions[i].ID == "" {
				questions[i].ID = uuid.NewString()
				migrated = true
			}
		}
		fs.catalog[name] = questions
	}

	if migrated {
		return fs.saveCatalogLocked()
	}
	return nil
}

func (fs *FileStore) loadUsers() error {
	raw, err := os.ReadFile(fs.path(usersFile))
	if os.IsNotExist(err) {
		fs.users["admin"] = models.User{ID: "admin", Password: "adminpassword", Role: models.RoleAdmin}
		return fs.saveUsersLocked()
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", usersFile, err)
	}
	var doc map[string]struct {
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("parse %s: %w", usersFile, err)
	}
	for id, u := range doc {
		role, err := models.ParseRole(u.Role)
		if err != nil {
			return fmt.Errorf("user %q in %s: %w", id, usersFile, err)
		}
		fs.users[id] = models.User{ID: id, Password: u.Password, Role: role}
	}
	return nil
}

func (fs *FileStore) loadProgress() error {
	raw, err := os.ReadFile(fs.path(progressFile))
	if os.IsNotExist(err) {
		return fs.saveProgressLocked()
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", progressFile, err)
	}
	if err := json.Unmarshal(raw, &fs.progress); err != nil {
		return fmt.Errorf("parse %s: %w", progressFile, err)
	}
	// Key fields may be absent in documents written by older versions.
	for userID, quizzes := range fs.progress {
		for quizName, entry := range quizzes {
			entry.UserID = userID
			entry.QuizName = quizName
			quizzes[quizName] = entry
		}
	}
	return nil
}

func isJSONArray(raw []byte) bool {
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	return len(trimmed) > 0 && trimmed[0] == '['
}

// writeDocument marshals v and atomically replaces the named document.
func (fs *FileStore) writeDocument(name string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	tmp, err := os.CreateTemp(fs.dir, name+".tmp-*")
	if err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), fs.path(name)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

func (fs *FileStore) saveCatalogLocked() error {
	return fs.writeDocument(questionsFile, fs.catalog)
}

func (fs *FileStore) saveUsersLocked() error {
	doc := make(map[string]map[string]string, len(fs.users))
	for id, u := range fs.users {
		doc[id] = map[string]string{"password": u.Password, "role": string(u.Role)}
	}
	return fs.writeDocument(usersFile, doc)
}

func (fs *FileStore) saveProgressLocked() error {
	return fs.writeDocument(progressFile, fs.progress)
}

// --- Catalog ---

func (fs *FileStore) ListQuizzes(ctx context.Context) ([]models.Quiz, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	names := make([]string, 0, len(fs.catalog))
	for name := range fs.catalog {
		names = append(names, name)
	}
	sort.Strings(names)
	quizzes := make([]models.Quiz, 0, len(names))
	for _, name := range names {
		quizzes = append(quizzes, models.Quiz{Name: name, Questions: cloneQuestions(fs.catalog[name])})
	}
	return quizzes, nil
}

func (fs *FileStore) GetQuiz(ctx context.Context, name string) (models.Quiz, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	questions, ok := fs.catalog[name]
	if !ok {
		return models.Quiz{}, ErrNotFound
	}
	return models.Quiz{Name: name, Questions: cloneQuestions(questions)}, nil
}

func (fs *FileStore) PutQuiz(ctx context.Context, quiz models.Quiz) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	prev, existed := fs.catalog[quiz.Name]
	fs.catalog[quiz.Name] = cloneQuestions(quiz.Questions)
	if err := fs.saveCatalogLocked(); err != nil {
		if existed {
			fs.catalog[quiz.Name] = prev
		} else {
			delete(fs.catalog, quiz.Name)
		}
		return err
	}
	return nil
}

func (fs *FileStore) DeleteQuiz(ctx context.Context, name string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	prev, ok := fs.catalog[name]
	if !ok {
		return ErrNotFound
	}
	delete(fs.catalog, name)
	if err := fs.saveCatalogLocked(); err != nil {
		fs.catalog[name] = prev
		return err
	}
	return nil
}

// --- Users ---

func (fs *FileStore) ListUsers(ctx context.Context) ([]models.User, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	users := make([]models.User, 0, len(fs.users))
	for _, u := range fs.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (fs *FileStore) GetUser(ctx context.Context, id string) (models.User, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	u, ok := fs.users[id]
	if !ok {
		return models.User{}, ErrNotFound
	}
	return u, nil
}

func (fs *FileStore) CreateUser(ctx context.Context, user models.User) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if _, ok := fs.users[user.ID]; ok {
		return ErrDuplicate
	}
	fs.users[user.ID] = user
	if err := fs.saveUsersLocked(); err != nil {
		delete(fs.users, user.ID)
		return err
	}
	return nil
}

// --- Progress ---

func (fs *FileStore) GetProgress(ctx context.Context, userID, quizName string) (models.ProgressEntry, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	entry, ok := fs.progress[userID][quizName]
	if !ok {
		return models.ProgressEntry{}, ErrNotFound
	}
	return entry, nil
}

func (fs *FileStore) ListProgressForUser(ctx context.Context, userID string) (map[string]models.ProgressEntry, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	out := make(map[string]models.ProgressEntry, len(fs.progress[userID]))
	for name, entry := range fs.progress[userID] {
		out[name] = entry
	}
	return out, nil
}

func (fs *FileStore) ListAllProgress(ctx context.Context) (map[string]map[string]models.ProgressEntry, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	out := make(map[string]map[string]models.ProgressEntry, len(fs.progress))
	for userID, quizzes := range fs.progress {
		inner := make(map[string]models.ProgressEntry, len(quizzes))
		for name, entry := range quizzes {
			inner[name] = entry
		}
		out[userID] = inner
	}
	return out, nil
}

func (fs *FileStore) UpsertProgress(ctx context.Context, entry models.ProgressEntry) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	quizzes, ok := fs.progress[entry.UserID]
	if !ok {
		quizzes = map[string]models.ProgressEntry{}
		fs.progress[entry.UserID] = quizzes
	}
	prev, existed := quizzes[entry.QuizName]
	quizzes[entry.QuizName] = entry
	if err := fs.saveProgressLocked(); err != nil {
		if existed {
			quizzes[entry.QuizName] = prev
		} else {
			delete(quizzes, entry.QuizName)
		}
		return err
	}
	return nil
}

func (fs *FileStore) DeleteProgressForQuiz(ctx context.Context, quizName string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	removed := map[string]models.ProgressEntry{}
	for userID, quizzes := range fs.progress {
		if entry, ok := quizzes[quizName]; ok {
			removed[userID] = entry
			delete(quizzes, quizName)
		}
	}
	if len(removed) == 0 {
		return nil
	}
	if err := fs.saveProgressLocked(); err != nil {
		for userID, entry := range removed {
			fs.progress[userID][quizName] = entry
		}
		return err
	}
	return nil
}

func (fs *FileStore) Close(ctx context.Context) error { return nil }

func cloneQuestions(questions []models.Question) []models.Question {
	out := make([]models.Question, len(questions))
	copy(out, questions)
	for i := range out {
		opts := make([]string, len(out[i].Options))
		copy(opts, out[i].Options)
		out[i].Options = opts
	}
	return out
}
