package session

import (
	"context"
	"errors"
	"testing"

	"quiz-platform/internal/models"
	"quiz-platform/internal/store"
)

func newTestStore(t *testing.T) store.Store {
	t.Helper()
	st, err := store.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	return st
}

// failingStore makes progress writes fail on demand.
type failingStore struct {
	store.Store
	fail bool
}

func (f *failingStore) UpsertProgress(ctx context.Context, entry models.ProgressEntry) error {
	if f.fail {
		return errors.New("disk full")
	}
	return f.Store.UpsertProgress(ctx, entry)
}

func runThrough(t *testing.T, m *Manager, userID string, answers []string) *Session {
	t.Helper()
	var sess *Session
	for _, answer := range answers {
		if _, err := m.Submit(userID, answer); err != nil {
			t.Fatalf("Submit(%q): %v", answer, err)
		}
		var err error
		sess, err = m.Advance(context.Background(), userID)
		if err != nil {
			t.Fatalf("Advance: %v", err)
		}
	}
	return sess
}

func TestManagerStart(t *testing.T) {
	ctx := context.Background()

	t.Run("empty catalog", func(t *testing.T) {
		m := NewManager(newTestStore(t))
		if _, err := m.Start(ctx, "student1", "anything"); !errors.Is(err, ErrNoQuizzesAvailable) {
			t.Errorf("err = %v, want ErrNoQuizzesAvailable", err)
		}
	})

	t.Run("unknown quiz", func(t *testing.T) {
		st := newTestStore(t)
		if err := st.PutQuiz(ctx, twoQuestionQuiz()); err != nil {
			t.Fatalf("PutQuiz: %v", err)
		}
		m := NewManager(st)
		if _, err := m.Start(ctx, "student1", "No Such Quiz"); !errors.Is(err, store.ErrNotFound) {
			t.Errorf("err = %v, want ErrNotFound", err)
		}
	})

	t.Run("quiz without questions", func(t *testing.T) {
		st := newTestStore(t)
		if err := st.PutQuiz(ctx, models.Quiz{Name: "Empty Quiz"}); err != nil {
			t.Fatalf("PutQuiz: %v", err)
		}
		m := NewManager(st)
		if _, err := m.Start(ctx, "student1", "Empty Quiz"); !errors.Is(err, ErrQuizEmpty) {
			t.Errorf("err = %v, want ErrQuizEmpty", err)
		}
	})

	t.Run("fresh quiz creates a session", func(t *testing.T) {
		st := newTestStore(t)
		if err := st.PutQuiz(ctx, twoQuestionQuiz()); err != nil {
			t.Fatalf("PutQuiz: %v", err)
		}
		m := NewManager(st)
		view, err := m.Start(ctx, "student1", "Go Basics")
		if err != nil {
			t.Fatalf("Start: %v", err)
		}
		if view.AlreadyCompleted || view.Session == nil {
			t.Fatalf("view = %+v, want a fresh session", view)
		}
		if view.Session.State != StateInProgress {
			t.Errorf("session state = %q, want %q", view.Session.State, StateInProgress)
		}
	})
}

func TestManagerAlreadyCompleted(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	quiz := twoQuestionQuiz()
	if err := st.PutQuiz(ctx, quiz); err != nil {
		t.Fatalf("PutQuiz: %v", err)
	}
	m := NewManager(st)

	if _, err := m.Start(ctx, "student1", quiz.Name); err != nil {
		t.Fatalf("Start: %v", err)
	}
	sess := runThrough(t, m, "student1", []string{"var", "char[]"})
	if sess.State != StateSaved {
		t.Fatalf("state after final advance = %q, want %q", sess.State, StateSaved)
	}

	view, err := m.Start(ctx, "student1", quiz.Name)
	if err != nil {
		t.Fatalf("Start after completion: %v", err)
	}
	if !view.AlreadyCompleted {
		t.Fatal("unchanged quiz should short-circuit to the stored result")
	}
	if view.Prior.Score != 1 || view.Prior.Total != 2 {
		t.Errorf("prior entry = %+v, want score 1 of 2", view.Prior)
	}

	// Editing the quiz re-opens it, even at the same question count.
	quiz.Questions[1].ID = "q2-replaced"
	if err := st.PutQuiz(ctx, quiz); err != nil {
		t.Fatalf("PutQuiz: %v", err)
	}
	view, err = m.Start(ctx, "student1", quiz.Name)
	if err != nil {
		t.Fatalf("Start after edit: %v", err)
	}
	if view.AlreadyCompleted {
		t.Error("edited quiz should start a fresh session")
	}
}

func TestManagerRetake(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	quiz := twoQuestionQuiz()
	if err := st.PutQuiz(ctx, quiz); err != nil {
		t.Fatalf("PutQuiz: %v", err)
	}
	m := NewManager(st)

	if _, err := m.Start(ctx, "student1", quiz.Name); err != nil {
		t.Fatalf("Start: %v", err)
	}
	runThrough(t, m, "student1", []string{"let", "char[]"})
	entry, err := st.GetProgress(ctx, "student1", quiz.Name)
	if err != nil {
		t.Fatalf("GetProgress: %v", err)
	}
	if entry.Score != 0 {
		t.Fatalf("first run score = %d, want 0", entry.Score)
	}

	// A new question set permits a retake, and the retake overwrites the
	// entry wholesale.
	quiz.Questions = append(quiz.Questions, models.Question{
		ID: "q3", Text: "extra", Options: []string{"yes"}, CorrectOption: "yes", Explanation: "added later",
	})
	if err := st.PutQuiz(ctx, quiz); err != nil {
		t.Fatalf("PutQuiz: %v", err)
	}
	if _, err := m.Start(ctx, "student1", quiz.Name); err != nil {
		t.Fatalf("Start: %v", err)
	}
	runThrough(t, m, "student1", []string{"var", "string", "yes"})

	entry, err = st.GetProgress(ctx, "student1", quiz.Name)
	if err != nil {
		t.Fatalf("GetProgress: %v", err)
	}
	if entry.Score != 3 || entry.Total != 3 {
		t.Errorf("retake entry = %+v, want 3 of 3", entry)
	}
	if len(entry.AnswersLog) != 3 {
		t.Errorf("retake answers log has %d records, want 3", len(entry.AnswersLog))
	}
}

func TestManagerSaveRetry(t *testing.T) {
	ctx := context.Background()
	st := &failingStore{Store: newTestStore(t)}
	quiz := twoQuestionQuiz()
	if err := st.PutQuiz(ctx, quiz); err != nil {
		t.Fatalf("PutQuiz: %v", err)
	}
	m := NewManager(st)

	if _, err := m.Start(ctx, "student1", quiz.Name); err != nil {
		t.Fatalf("Start: %v", err)
	}
	runThrough(t, m, "student1", []string{"var"})
	if _, err := m.Submit("student1", "string"); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	st.fail = true
	if _, err := m.Advance(ctx, "student1"); err == nil {
		t.Fatal("Advance should surface the failed save")
	}
	sess, ok := m.Get("student1")
	if !ok || sess.State != StateCompleted {
		t.Fatalf("session after failed save: ok=%v state=%v, want completed-but-unsaved", ok, sess.State)
	}

	st.fail = false
	sess, err := m.Advance(ctx, "student1")
	if err != nil {
		t.Fatalf("retried Advance: %v", err)
	}
	if sess.State != StateSaved {
		t.Errorf("state after retry = %q, want %q", sess.State, StateSaved)
	}
	entry, err := st.GetProgress(ctx, "student1", quiz.Name)
	if err != nil {
		t.Fatalf("GetProgress: %v", err)
	}
	if entry.Score != 2 || entry.Total != 2 {
		t.Errorf("saved entry = %+v, want 2 of 2", entry)
	}
}

func TestManagerNoActiveSession(t *testing.T) {
	m := NewManager(newTestStore(t))
	if _, err := m.Submit("student1", "var"); !errors.Is(err, ErrNoActiveSession) {
		t.Errorf("Submit err = %v, want ErrNoActiveSession", err)
	}
	if _, err := m.Advance(context.Background(), "student1"); !errors.Is(err, ErrNoActiveSession) {
		t.Errorf("Advance err = %v, want ErrNoActiveSession", err)
	}
}

func TestManagerDiscard(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	if err := st.PutQuiz(ctx, twoQuestionQuiz()); err != nil {
		t.Fatalf("PutQuiz: %v", err)
	}
	m := NewManager(st)
	if _, err := m.Start(ctx, "student1", "Go Basics"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if _, err := m.Submit("student1", "var"); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	m.Discard("student1")
	if _, ok := m.Get("student1"); ok {
		t.Fatal("discarded session still present")
	}
	if _, err := st.GetProgress(ctx, "student1", "Go Basics"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("abandoned run must not persist anything, got %v", err)
	}
}
