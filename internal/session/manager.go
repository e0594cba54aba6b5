package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"quiz-platform/internal/models"
	"quiz-platform/internal/store"
)

var (
	ErrNoQuizzesAvailable = errors.New("no quizzes available")
	ErrQuizEmpty          = errors.New("quiz has no questions")
	ErrNoActiveSession    = errors.New("no active session")
)

// StartView is the outcome of selecting a quiz: either a fresh session, or
// the read-only already-completed view backed by the stored entry.
type StartView struct {
	AlreadyCompleted bool
	Prior            models.ProgressEntry
	Session          *Session
}

// Manager holds the active sessions, one per user, in memory only. A process
// restart loses in-progress answers; completed results live in the store.
type Manager struct {
	store store.Store

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewManager(st store.Store) *Manager {
	return &Manager{
		store:    st,
		sessions: map[string]*Session{},
	}
}

// Start selects a quiz for the user. If the user already completed this quiz
// and its question set is unchanged since then, no session is created and the
// stored entry is returned instead. Starting replaces any session the user
// had in flight.
func (m *Manager) Start(ctx context.Context, userID, quizName string) (*StartView, error) {
	quizzes, err := m.store.ListQuizzes(ctx)
	if err != nil {
		return nil, err
	}
	if len(quizzes) == 0 {
		return nil, ErrNoQuizzesAvailable
	}

	quiz, err := m.store.GetQuiz(ctx, quizName)
	if err != nil {
		return nil, err
	}
	if len(quiz.Questions) == 0 {
		return nil, ErrQuizEmpty
	}

	prior, err := m.store.GetProgress(ctx, userID, quizName)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}
	if err == nil && prior.Attempted && prior.CoversQuestions(quiz.QuestionIDs()) {
		return &StartView{AlreadyCompleted: true, Prior: prior}, nil
	}

	sess := newSession(userID, quiz)
	m.mu.Lock()
	m.sessions[userID] = sess
	m.mu.Unlock()
	return &StartView{Session: sess}, nil
}

// Get returns the user's active session, if any.
func (m *Manager) Get(userID string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[userID]
	return sess, ok
}

// Submit grades the selected option for the user's current question.
func (m *Manager) Submit(userID, selected string) (models.AnswerRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[userID]
	if !ok {
		return models.AnswerRecord{}, ErrNoActiveSession
	}
	return sess.SubmitAnswer(selected)
}

// Advance moves the user's session forward. Entering the completed state
// performs exactly one progress upsert; if that write fails the session stays
// completed-but-unsaved and a repeated Advance retries the save. The upsert
// is a full overwrite, so retrying is safe.
func (m *Manager) Advance(ctx context.Context, userID string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[userID]
	if !ok {
		return nil, ErrNoActiveSession
	}

	if sess.State != StateCompleted {
		if err := sess.Advance(); err != nil {
			return nil, err
		}
	}
	if sess.State == StateCompleted {
		if err := m.store.UpsertProgress(ctx, sess.Result()); err != nil {
			return nil, fmt.Errorf("save quiz result: %w", err)
		}
		sess.State = StateSaved
	}
	return sess, nil
}

// Discard drops the user's session without saving anything. Used both when
// the user navigates away mid-quiz and to leave the saved terminal state.
func (m *Manager) Discard(userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, userID)
}
